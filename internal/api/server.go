package api

import (
	"github.com/gin-gonic/gin"
)

// ServerInterface lists the public guest endpoints of openapi.yaml.
type ServerInterface interface {
	// (GET /health)
	GetHealth(c *gin.Context)
	// (GET /weddings/{weddingId}/rsvp)
	GetPublicForm(c *gin.Context, weddingId string)
	// (POST /weddings/{weddingId}/rsvp/responses)
	SubmitRsvp(c *gin.Context, weddingId string)
	// (GET /weddings/{weddingId}/media)
	ListMedia(c *gin.Context, weddingId string)
	// (POST /weddings/{weddingId}/media/{mediaId}/reactions)
	PostReaction(c *gin.Context, weddingId string, mediaId string)
	// (PUT /weddings/{weddingId}/media/{mediaId}/favorite)
	PutFavorite(c *gin.Context, weddingId string, mediaId string)
	// (GET /weddings/{weddingId}/messages)
	ListMessages(c *gin.Context, weddingId string)
	// (POST /weddings/{weddingId}/messages)
	PostMessage(c *gin.Context, weddingId string)
}

// ServerInterfaceWrapper extracts path parameters before calling the handler.
type ServerInterfaceWrapper struct {
	Handler ServerInterface
}

func (w *ServerInterfaceWrapper) GetHealth(c *gin.Context) {
	w.Handler.GetHealth(c)
}

func (w *ServerInterfaceWrapper) GetPublicForm(c *gin.Context) {
	w.Handler.GetPublicForm(c, c.Param("weddingId"))
}

func (w *ServerInterfaceWrapper) SubmitRsvp(c *gin.Context) {
	w.Handler.SubmitRsvp(c, c.Param("weddingId"))
}

func (w *ServerInterfaceWrapper) ListMedia(c *gin.Context) {
	w.Handler.ListMedia(c, c.Param("weddingId"))
}

func (w *ServerInterfaceWrapper) PostReaction(c *gin.Context) {
	w.Handler.PostReaction(c, c.Param("weddingId"), c.Param("mediaId"))
}

func (w *ServerInterfaceWrapper) PutFavorite(c *gin.Context) {
	w.Handler.PutFavorite(c, c.Param("weddingId"), c.Param("mediaId"))
}

func (w *ServerInterfaceWrapper) ListMessages(c *gin.Context) {
	w.Handler.ListMessages(c, c.Param("weddingId"))
}

func (w *ServerInterfaceWrapper) PostMessage(c *gin.Context) {
	w.Handler.PostMessage(c, c.Param("weddingId"))
}

// RegisterHandlers mounts every public route on router.
func RegisterHandlers(router gin.IRouter, si ServerInterface) {
	w := &ServerInterfaceWrapper{Handler: si}

	router.GET("/health", w.GetHealth)
	router.GET("/weddings/:weddingId/rsvp", w.GetPublicForm)
	router.POST("/weddings/:weddingId/rsvp/responses", w.SubmitRsvp)
	router.GET("/weddings/:weddingId/media", w.ListMedia)
	router.POST("/weddings/:weddingId/media/:mediaId/reactions", w.PostReaction)
	router.PUT("/weddings/:weddingId/media/:mediaId/favorite", w.PutFavorite)
	router.GET("/weddings/:weddingId/messages", w.ListMessages)
	router.POST("/weddings/:weddingId/messages", w.PostMessage)
}
