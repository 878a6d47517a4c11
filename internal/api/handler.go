package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"github.com/kherembourg/RefletsDeBonheur-sub001/internal/gallery"
	"github.com/kherembourg/RefletsDeBonheur-sub001/internal/metrics"
	"github.com/kherembourg/RefletsDeBonheur-sub001/internal/rsvp"
)

// Handler implements ServerInterface on top of the RSVP and gallery stores.
type Handler struct {
	rsvpStore    rsvp.Store
	galleryStore gallery.Store
	metrics      *metrics.Metrics
	now          func() time.Time
}

func NewHandler(rs rsvp.Store, gs gallery.Store, m *metrics.Metrics) *Handler {
	return &Handler{
		rsvpStore:    rs,
		galleryStore: gs,
		metrics:      m,
		now:          time.Now,
	}
}

var _ ServerInterface = (*Handler)(nil)

func (h *Handler) rsvpService(weddingID string) *rsvp.Service {
	return rsvp.NewService(weddingID, h.rsvpStore)
}

func (h *Handler) galleryService(weddingID string) *gallery.Service {
	return gallery.NewService(weddingID, h.galleryStore)
}

func (h *Handler) GetHealth(c *gin.Context) {
	c.JSON(http.StatusOK, HealthResponse{Status: "ok"})
}

func (h *Handler) GetPublicForm(c *gin.Context, weddingId string) {
	svc := h.rsvpService(weddingId)
	cfg := svc.GetConfig(c.Request.Context())
	questions := svc.GetQuestions(c.Request.Context())

	form := PublicForm{
		WeddingID:              weddingId,
		Enabled:                cfg.Enabled,
		Open:                   cfg.Enabled && !cfg.Closed(h.now()),
		Deadline:               cfg.Deadline,
		WelcomeMessage:         cfg.WelcomeMessage,
		AllowPlusOne:           cfg.AllowPlusOne,
		AskDietaryRestrictions: cfg.AskDietaryRestrictions,
		MaxGuestsPerResponse:   cfg.MaxGuestsPerResponse,
		Questions:              make([]PublicQuestion, 0, len(questions)),
	}
	for _, q := range questions {
		form.Questions = append(form.Questions, toPublicQuestion(q))
	}
	c.JSON(http.StatusOK, form)
}

func (h *Handler) SubmitRsvp(c *gin.Context, weddingId string) {
	logger := log.WithField("wedding_id", weddingId)

	var body rsvp.Submission
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, Error{Message: "invalid request body"})
		return
	}

	svc := h.rsvpService(weddingId)
	cfg := svc.GetConfig(c.Request.Context())
	if !cfg.Enabled {
		c.JSON(http.StatusForbidden, Error{Message: "rsvp is closed for this wedding"})
		return
	}
	if cfg.Closed(h.now()) {
		c.JSON(http.StatusForbidden, Error{Message: "the rsvp deadline has passed"})
		return
	}

	resp, err := svc.SubmitResponse(c.Request.Context(), body)
	if err != nil {
		if errors.Is(err, rsvp.ErrValidation) {
			c.JSON(http.StatusBadRequest, Error{Message: err.Error()})
			return
		}
		logger.WithError(err).Error("failed to submit rsvp")
		c.JSON(http.StatusInternalServerError, Error{Message: "internal error"})
		return
	}

	h.metrics.RSVPSubmissionTotal.WithLabelValues(string(resp.Attendance)).Inc()
	c.JSON(http.StatusCreated, SubmitResult{ID: resp.ID, ThankYouMessage: cfg.ThankYouMessage})
}

func (h *Handler) ListMedia(c *gin.Context, weddingId string) {
	c.JSON(http.StatusOK, h.galleryService(weddingId).ListMedia(c.Request.Context()))
}

func (h *Handler) PostReaction(c *gin.Context, weddingId string, mediaId string) {
	var body ReactionRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, Error{Message: "invalid request body"})
		return
	}

	item, err := h.galleryService(weddingId).AddReaction(c.Request.Context(), mediaId, body.Type)
	if !h.writeMedia(c, item, err) {
		return
	}
	h.metrics.ReactionTotal.WithLabelValues(string(body.Type)).Inc()
}

func (h *Handler) PutFavorite(c *gin.Context, weddingId string, mediaId string) {
	var body FavoriteRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, Error{Message: "invalid request body"})
		return
	}

	item, err := h.galleryService(weddingId).ToggleFavorite(c.Request.Context(), mediaId, body.Favorite)
	h.writeMedia(c, item, err)
}

// writeMedia answers a media mutation and reports whether it succeeded.
func (h *Handler) writeMedia(c *gin.Context, item *gallery.MediaItem, err error) bool {
	switch {
	case errors.Is(err, gallery.ErrValidation):
		c.JSON(http.StatusBadRequest, Error{Message: err.Error()})
	case err != nil:
		log.WithError(err).Error("failed to update media")
		c.JSON(http.StatusInternalServerError, Error{Message: "internal error"})
	case item == nil:
		c.JSON(http.StatusNotFound, Error{Message: "media not found"})
	default:
		c.JSON(http.StatusOK, item)
		return true
	}
	return false
}

func (h *Handler) ListMessages(c *gin.Context, weddingId string) {
	c.JSON(http.StatusOK, h.galleryService(weddingId).ListMessages(c.Request.Context()))
}

func (h *Handler) PostMessage(c *gin.Context, weddingId string) {
	var body MessageRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, Error{Message: "invalid request body"})
		return
	}

	msg, err := h.galleryService(weddingId).AddMessage(c.Request.Context(), gallery.Message{Author: body.Author, Text: body.Text})
	if err != nil {
		if errors.Is(err, gallery.ErrValidation) {
			c.JSON(http.StatusBadRequest, Error{Message: err.Error()})
			return
		}
		log.WithError(err).WithField("wedding_id", weddingId).Error("failed to add guestbook message")
		c.JSON(http.StatusInternalServerError, Error{Message: "internal error"})
		return
	}
	c.JSON(http.StatusCreated, msg)
}

func toPublicQuestion(q rsvp.Question) PublicQuestion {
	return PublicQuestion{
		ID:            q.ID,
		Type:          q.Type,
		Label:         q.Label,
		Description:   q.Description,
		Required:      q.Required,
		Order:         q.Order,
		Placeholder:   q.Placeholder,
		Multiline:     q.Multiline,
		Options:       q.Options,
		DisplayMode:   q.DisplayMode,
		MinSelections: q.MinSelections,
		MaxSelections: q.MaxSelections,
	}
}
