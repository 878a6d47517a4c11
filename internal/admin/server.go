package admin

import (
	"github.com/gin-gonic/gin"
)

// ServerInterface lists the admin endpoints. Every route is scoped to one
// wedding through the weddingId path parameter.
type ServerInterface interface {
	GetRsvpConfig(c *gin.Context, weddingId string)
	PutRsvpConfig(c *gin.Context, weddingId string)
	PutRsvpEnabled(c *gin.Context, weddingId string)

	ListQuestions(c *gin.Context, weddingId string)
	PostQuestion(c *gin.Context, weddingId string)
	PutQuestion(c *gin.Context, weddingId string, questionId string)
	DeleteQuestion(c *gin.Context, weddingId string, questionId string)
	ReorderQuestions(c *gin.Context, weddingId string)

	ListResponses(c *gin.Context, weddingId string)
	GetResponse(c *gin.Context, weddingId string, responseId string)
	DeleteResponse(c *gin.Context, weddingId string, responseId string)
	GetRsvpStatistics(c *gin.Context, weddingId string)
	ExportResponses(c *gin.Context, weddingId string)

	ListMedia(c *gin.Context, weddingId string)
	PostMedia(c *gin.Context, weddingId string)
	DeleteMedia(c *gin.Context, weddingId string, mediaId string)
	ListMessages(c *gin.Context, weddingId string)
	GetStatistics(c *gin.Context, weddingId string)

	GetQRCode(c *gin.Context, weddingId string)
}

// RegisterHandlers mounts the admin routes under /admin/weddings/:weddingId.
func RegisterHandlers(router gin.IRouter, si ServerInterface) {
	g := router.Group("/admin/weddings/:weddingId")

	wedding := func(fn func(*gin.Context, string)) gin.HandlerFunc {
		return func(c *gin.Context) { fn(c, c.Param("weddingId")) }
	}
	child := func(param string, fn func(*gin.Context, string, string)) gin.HandlerFunc {
		return func(c *gin.Context) { fn(c, c.Param("weddingId"), c.Param(param)) }
	}

	g.GET("/rsvp/config", wedding(si.GetRsvpConfig))
	g.PUT("/rsvp/config", wedding(si.PutRsvpConfig))
	g.PUT("/rsvp/enabled", wedding(si.PutRsvpEnabled))

	g.GET("/rsvp/questions", wedding(si.ListQuestions))
	g.POST("/rsvp/questions", wedding(si.PostQuestion))
	g.POST("/rsvp/questions/reorder", wedding(si.ReorderQuestions))
	g.PUT("/rsvp/questions/:questionId", child("questionId", si.PutQuestion))
	g.DELETE("/rsvp/questions/:questionId", child("questionId", si.DeleteQuestion))

	g.GET("/rsvp/responses", wedding(si.ListResponses))
	g.GET("/rsvp/responses/:responseId", child("responseId", si.GetResponse))
	g.DELETE("/rsvp/responses/:responseId", child("responseId", si.DeleteResponse))
	g.GET("/rsvp/statistics", wedding(si.GetRsvpStatistics))
	g.GET("/rsvp/export", wedding(si.ExportResponses))

	g.GET("/media", wedding(si.ListMedia))
	g.POST("/media", wedding(si.PostMedia))
	g.DELETE("/media/:mediaId", child("mediaId", si.DeleteMedia))
	g.GET("/messages", wedding(si.ListMessages))
	g.GET("/statistics", wedding(si.GetStatistics))

	g.GET("/qr", wedding(si.GetQRCode))
}
