package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RequestLogger пише кожен запит у zap
func RequestLogger(log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		log.Info("request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
		)
	}
}

// NewRouter wires every board route.
func NewRouter(h *Handler) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), RequestLogger(h.log))

	auth := r.Group("/auth")
	auth.GET("/anon", h.GetAnonID)
	auth.POST("/signout", h.Authenticate(), h.SignOut)

	viewer := r.Group("/", h.Authenticate())
	viewer.GET("/me", h.Me)
	viewer.GET("/ws", h.ServeWebSocket)
	viewer.GET("/posts", h.ListPosts)
	viewer.POST("/posts", h.CreatePost)
	viewer.POST("/posts/:id/options", h.AddPollOptions)
	viewer.PUT("/posts/:id/vote", h.Vote)
	viewer.POST("/posts/:id/like", h.Like)
	viewer.DELETE("/posts/:id/like", h.Unlike)

	// Анонімні звернення не потребують токена і не пов'язуються з глядачем
	r.POST("/submissions", h.CreateSubmission)

	admin := r.Group("/admin", h.Authenticate(), h.AdminOnly())
	admin.GET("/submissions", h.ListSubmissions)
	admin.PATCH("/submissions/:id", h.UpdateSubmission)

	return r
}
