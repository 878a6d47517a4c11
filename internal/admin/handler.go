package admin

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
	"github.com/skip2/go-qrcode"

	"github.com/kherembourg/RefletsDeBonheur-sub001/internal/gallery"
	"github.com/kherembourg/RefletsDeBonheur-sub001/internal/rsvp"
	"github.com/kherembourg/RefletsDeBonheur-sub001/internal/stats"
)

const (
	defaultQRSize = 256
	minQRSize     = 128
	maxQRSize     = 1024
)

type Handler struct {
	rsvpStore     rsvp.Store
	galleryStore  gallery.Store
	publicBaseURL string
	now           func() time.Time
}

func NewHandler(rs rsvp.Store, gs gallery.Store, publicBaseURL string) *Handler {
	return &Handler{
		rsvpStore:     rs,
		galleryStore:  gs,
		publicBaseURL: publicBaseURL,
		now:           time.Now,
	}
}

var _ ServerInterface = (*Handler)(nil)

func (h *Handler) rsvpService(weddingID string) *rsvp.Service {
	return rsvp.NewService(weddingID, h.rsvpStore)
}

func (h *Handler) galleryService(weddingID string) *gallery.Service {
	return gallery.NewService(weddingID, h.galleryStore)
}

// writeError maps service errors to status codes. Anything that is not a
// validation or not-found error is logged and hidden behind a 500.
func writeError(c *gin.Context, weddingID string, err error, action string) {
	switch {
	case errors.Is(err, rsvp.ErrValidation), errors.Is(err, gallery.ErrValidation):
		c.JSON(http.StatusBadRequest, Error{Message: err.Error()})
	case errors.Is(err, rsvp.ErrNotFound):
		c.JSON(http.StatusNotFound, Error{Message: err.Error()})
	default:
		log.WithError(err).WithField("wedding_id", weddingID).Error("failed to " + action)
		c.JSON(http.StatusInternalServerError, Error{Message: "internal error"})
	}
}

func (h *Handler) GetRsvpConfig(c *gin.Context, weddingId string) {
	c.JSON(http.StatusOK, h.rsvpService(weddingId).GetConfig(c.Request.Context()))
}

func (h *Handler) PutRsvpConfig(c *gin.Context, weddingId string) {
	var body rsvp.Config
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, Error{Message: "invalid request body"})
		return
	}

	svc := h.rsvpService(weddingId)
	if err := svc.SaveConfig(c.Request.Context(), body); err != nil {
		writeError(c, weddingId, err, "save rsvp config")
		return
	}
	log.WithField("wedding_id", weddingId).Info("rsvp config saved")
	c.JSON(http.StatusOK, svc.GetConfig(c.Request.Context()))
}

func (h *Handler) PutRsvpEnabled(c *gin.Context, weddingId string) {
	var body EnabledRequest
	if err := c.ShouldBindJSON(&body); err != nil || body.Enabled == nil {
		c.JSON(http.StatusBadRequest, Error{Message: "enabled is required"})
		return
	}

	cfg, err := h.rsvpService(weddingId).ToggleEnabled(c.Request.Context(), *body.Enabled)
	if err != nil {
		writeError(c, weddingId, err, "toggle rsvp")
		return
	}
	log.WithFields(log.Fields{"wedding_id": weddingId, "enabled": cfg.Enabled}).Info("rsvp toggled")
	c.JSON(http.StatusOK, cfg)
}

func (h *Handler) ListQuestions(c *gin.Context, weddingId string) {
	c.JSON(http.StatusOK, h.rsvpService(weddingId).GetQuestions(c.Request.Context()))
}

func (h *Handler) PostQuestion(c *gin.Context, weddingId string) {
	var body rsvp.Question
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, Error{Message: "invalid request body"})
		return
	}
	body.ID = ""

	q, err := h.rsvpService(weddingId).AddQuestion(c.Request.Context(), body)
	if err != nil {
		writeError(c, weddingId, err, "add question")
		return
	}
	c.JSON(http.StatusCreated, q)
}

func (h *Handler) PutQuestion(c *gin.Context, weddingId string, questionId string) {
	var body rsvp.Question
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, Error{Message: "invalid request body"})
		return
	}
	body.ID = questionId

	q, err := h.rsvpService(weddingId).UpdateQuestion(c.Request.Context(), body)
	if err != nil {
		writeError(c, weddingId, err, "update question")
		return
	}
	c.JSON(http.StatusOK, q)
}

func (h *Handler) DeleteQuestion(c *gin.Context, weddingId string, questionId string) {
	if err := h.rsvpService(weddingId).DeleteQuestion(c.Request.Context(), questionId); err != nil {
		writeError(c, weddingId, err, "delete question")
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) ReorderQuestions(c *gin.Context, weddingId string) {
	var body ReorderRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, Error{Message: "invalid request body"})
		return
	}

	questions, err := h.rsvpService(weddingId).ReorderQuestions(c.Request.Context(), body.QuestionIDs)
	if err != nil {
		writeError(c, weddingId, err, "reorder questions")
		return
	}
	c.JSON(http.StatusOK, questions)
}

func (h *Handler) ListResponses(c *gin.Context, weddingId string) {
	q, err := parseResponseQuery(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, Error{Message: err.Error()})
		return
	}

	page := h.rsvpService(weddingId).GetResponses(c.Request.Context(), q)
	q = q.Normalize()
	c.JSON(http.StatusOK, ResponseList{
		Responses:  page.Responses,
		Total:      page.Total,
		Page:       q.Page,
		PageSize:   q.PageSize,
		TotalPages: (page.Total + q.PageSize - 1) / q.PageSize,
	})
}

func parseResponseQuery(c *gin.Context) (rsvp.ResponseQuery, error) {
	var q rsvp.ResponseQuery
	var err error
	if v := c.Query("page"); v != "" {
		if q.Page, err = strconv.Atoi(v); err != nil {
			return q, fmt.Errorf("page must be a number")
		}
	}
	if v := c.Query("pageSize"); v != "" {
		if q.PageSize, err = strconv.Atoi(v); err != nil {
			return q, fmt.Errorf("pageSize must be a number")
		}
	}
	if v := c.Query("attendance"); v != "" {
		q.Attendance = rsvp.Attendance(v)
		if !q.Attendance.Valid() {
			return q, fmt.Errorf("attendance must be one of yes, no, maybe")
		}
	}
	q.Search = c.Query("search")
	return q, nil
}

func (h *Handler) GetResponse(c *gin.Context, weddingId string, responseId string) {
	r := h.rsvpService(weddingId).GetResponse(c.Request.Context(), responseId)
	if r == nil {
		c.JSON(http.StatusNotFound, Error{Message: "response not found"})
		return
	}
	c.JSON(http.StatusOK, r)
}

func (h *Handler) DeleteResponse(c *gin.Context, weddingId string, responseId string) {
	if err := h.rsvpService(weddingId).DeleteResponse(c.Request.Context(), responseId); err != nil {
		writeError(c, weddingId, err, "delete response")
		return
	}
	log.WithFields(log.Fields{"wedding_id": weddingId, "response_id": responseId}).Info("rsvp response deleted")
	c.Status(http.StatusNoContent)
}

func (h *Handler) GetRsvpStatistics(c *gin.Context, weddingId string) {
	c.JSON(http.StatusOK, h.rsvpService(weddingId).GetStatistics(c.Request.Context()))
}

func (h *Handler) ExportResponses(c *gin.Context, weddingId string) {
	data, err := h.rsvpService(weddingId).ExportCSV(c.Request.Context())
	if err != nil {
		writeError(c, weddingId, err, "export responses")
		return
	}

	filename := rsvp.ExportFilename(h.now())
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.Data(http.StatusOK, "text/csv; charset=utf-8", data)
}

func (h *Handler) ListMedia(c *gin.Context, weddingId string) {
	c.JSON(http.StatusOK, h.galleryService(weddingId).ListMedia(c.Request.Context()))
}

func (h *Handler) PostMedia(c *gin.Context, weddingId string) {
	var body gallery.MediaItem
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, Error{Message: "invalid request body"})
		return
	}

	item, err := h.galleryService(weddingId).AddMedia(c.Request.Context(), body)
	if err != nil {
		writeError(c, weddingId, err, "add media")
		return
	}
	c.JSON(http.StatusCreated, item)
}

func (h *Handler) DeleteMedia(c *gin.Context, weddingId string, mediaId string) {
	if err := h.galleryService(weddingId).DeleteMedia(c.Request.Context(), mediaId); err != nil {
		writeError(c, weddingId, err, "delete media")
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) ListMessages(c *gin.Context, weddingId string) {
	c.JSON(http.StatusOK, h.galleryService(weddingId).ListMessages(c.Request.Context()))
}

// GetStatistics buckets uploads in the tz query parameter's zone, or the
// server's local zone when it is absent.
func (h *Handler) GetStatistics(c *gin.Context, weddingId string) {
	var loc *time.Location
	if tz := c.Query("tz"); tz != "" {
		var err error
		if loc, err = time.LoadLocation(tz); err != nil {
			c.JSON(http.StatusBadRequest, Error{Message: fmt.Sprintf("unknown time zone %q", tz)})
			return
		}
	}

	svc := h.galleryService(weddingId)
	media := svc.ListMedia(c.Request.Context())
	messages := svc.ListMessages(c.Request.Context())
	c.JSON(http.StatusOK, stats.Compute(media, messages, loc))
}

// GetQRCode renders the wedding's guest link as a PNG.
func (h *Handler) GetQRCode(c *gin.Context, weddingId string) {
	size := defaultQRSize
	if v := c.Query("size"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < minQRSize || n > maxQRSize {
			c.JSON(http.StatusBadRequest, Error{Message: fmt.Sprintf("size must be between %d and %d", minQRSize, maxQRSize)})
			return
		}
		size = n
	}

	png, err := qrcode.Encode(GuestURL(h.publicBaseURL, weddingId), qrcode.Medium, size)
	if err != nil {
		writeError(c, weddingId, err, "render qr code")
		return
	}
	c.Header("Cache-Control", "public, max-age=3600")
	c.Data(http.StatusOK, "image/png", png)
}

// GuestURL is the public page guests land on for a wedding.
func GuestURL(publicBaseURL, weddingID string) string {
	return publicBaseURL + "/w/" + weddingID
}
