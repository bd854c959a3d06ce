package server

import (
	"net/http"
	"os"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/ethannchen/nextqnaweb-sub001/internal/engine"
	"github.com/ethannchen/nextqnaweb-sub001/internal/handlers"
	"github.com/ethannchen/nextqnaweb-sub001/internal/middleware"
)

type Server struct {
	engine  *engine.Engine
	handler *handlers.Handler
}

// New wires the engine into the HTTP server.
func New(e *engine.Engine) *http.Server {
	newServer := &Server{
		engine:  e,
		handler: handlers.NewHandler(e),
	}

	router := newServer.RegisterRoutes()

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080" // local dev fallback
	}

	server := &http.Server{
		Addr:         "0.0.0.0:" + port,
		Handler:      router,
		IdleTimeout:  time.Minute,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	logrus.Infof("server starting on port %s", port)
	return server
}

// RegisterRoutes sets up all application routes
func (s *Server) RegisterRoutes() *gin.Engine {
	r := gin.Default()

	// CORS configuration
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Accept", "Authorization", "Content-Type", "X-Requested-With", "X-Request-ID"},
		ExposeHeaders:    []string{"Content-Length", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           12 * 3600,
	}))

	r.Use(middleware.RequestID())

	// Identity is optional everywhere: the engine rejects the operations
	// that require login (voting, commenting).
	r.Use(middleware.Identity())

	// Health check endpoint
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// API routes
	api := r.Group("/api")
	{
		api.GET("/questions", s.handler.Question.GetQuestions)
		api.POST("/questions", s.handler.Question.CreateQuestion)

		api.GET("/questions/:id/answers", s.handler.Answer.GetAnswers)
		api.POST("/questions/:id/answers", s.handler.Answer.CreateAnswer)

		api.POST("/answers/:id/vote", s.handler.Answer.VoteAnswer)

		api.GET("/answers/:id/comments", s.handler.Comment.GetComments)
		api.POST("/answers/:id/comments", s.handler.Comment.CreateComment)

		api.GET("/tags", s.handler.Tag.GetTags)
	}

	return r
}
