package router

import (
	"io"
	"log"
	"os"

	"blogr/internal/config"
	"blogr/internal/handler"
	"blogr/internal/middleware"
	"blogr/internal/session"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// SetupRouter configures the Gin engine and all routes.
func SetupRouter(cfg *config.Config, db *gorm.DB, sessions *session.Store) *gin.Engine {
	if cfg.Server.Mode != "" {
		gin.SetMode(cfg.Server.Mode)
	}
	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())

	// identity resolution runs on every route; handlers read the result
	// via middleware.UserFrom
	r.Use(middleware.CurrentUser(sessions, db, cfg.Session.CookieName))
	r.Use(middleware.RequestLog(requestLogger(cfg.Log)))

	cookieTTL := cfg.Session.TTLHours * 3600

	authHandler := handler.NewAuthHandler(db, sessions, cfg.Session.CookieName, cookieTTL)
	auth := r.Group("/auth")
	auth.POST("/register", authHandler.Register)
	auth.GET("/login", authHandler.LoginPrompt)
	auth.POST("/login", authHandler.Login)
	auth.POST("/logout", authHandler.Logout)

	postHandler := handler.NewPostHandler(db)

	// public reads
	r.GET("/", postHandler.List)
	r.GET("/posts", postHandler.List)
	r.GET("/posts/:id", postHandler.Get)

	// writes require a logged-in user
	posts := r.Group("/posts", middleware.LoginRequired())
	posts.POST("", postHandler.Create)
	posts.PUT("/:id", postHandler.Update)
	posts.DELETE("/:id", postHandler.Delete)

	r.GET("/me", middleware.LoginRequired(), handler.GetMe)

	return r
}

// requestLogger opens the configured request log file, falling back to
// stderr when it cannot be opened.
func requestLogger(cfg config.LogConfig) *log.Logger {
	var w io.Writer = os.Stderr
	if cfg.File != "" {
		f, err := os.OpenFile(cfg.File, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err == nil {
			w = f
		} else {
			log.Printf("open request log: %v", err)
		}
	}
	return log.New(w, "", log.LstdFlags)
}
