package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/sujals170/Bright-Byte-sub000/internal/app"
	"github.com/sujals170/Bright-Byte-sub000/internal/auth"
	"github.com/sujals170/Bright-Byte-sub000/internal/domain"
)

func instructorOnly(c *gin.Context) bool {
	identity := c.MustGet("identity").(auth.Identity)
	if identity.Role != domain.RoleInstructor {
		c.JSON(http.StatusForbidden, gin.H{"error": "instructor role required"})
		return false
	}
	return true
}

func registerSessionRoutes(g *gin.RouterGroup, relay *app.Relay) {
	// POST /api/sessions — schedule a live session for a course
	g.POST("", func(c *gin.Context) {
		if !instructorOnly(c) {
			return
		}
		var req struct {
			CourseID string `json:"courseId" binding:"required"`
			Title    string `json:"title" binding:"required"`
		}
		if err := c.BindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
			return
		}
		svc, err := relay.Sessions.Schedule(domain.CourseID(req.CourseID), req.Title)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusCreated, svc.Session())
	})

	// GET /api/sessions — list sessions
	g.GET("", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"sessions": relay.Sessions.List()})
	})

	// GET /api/sessions/:id — session info + participants
	g.GET("/:id", func(c *gin.Context) {
		svc, ok := relay.Sessions.Get(domain.SessionID(c.Param("id")))
		if !ok {
			c.JSON(http.StatusNotFound, gin.H{"error": "session not found"})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"session":      svc.Session(),
			"participants": svc.ParticipantsSnapshot(),
			"count":        svc.ParticipantCount(),
		})
	})

	// POST /api/sessions/:id/start — go live
	g.POST("/:id/start", func(c *gin.Context) {
		if !instructorOnly(c) {
			return
		}
		if !relay.Sessions.SetLive(domain.SessionID(c.Param("id")), true) {
			c.JSON(http.StatusNotFound, gin.H{"error": "session not found"})
			return
		}
		c.Status(http.StatusNoContent)
	})

	// POST /api/sessions/:id/end — stop broadcasting, keep the record
	g.POST("/:id/end", func(c *gin.Context) {
		if !instructorOnly(c) {
			return
		}
		if !relay.Sessions.SetLive(domain.SessionID(c.Param("id")), false) {
			c.JSON(http.StatusNotFound, gin.H{"error": "session not found"})
			return
		}
		c.Status(http.StatusNoContent)
	})

	// DELETE /api/sessions/:id — evict participants and forget the session
	g.DELETE("/:id", func(c *gin.Context) {
		if !instructorOnly(c) {
			return
		}
		relay.EvictSession(domain.SessionID(c.Param("id")))
		c.Status(http.StatusNoContent)
	})
}
