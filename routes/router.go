package routes

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/syncup/syncup/config"
	"github.com/syncup/syncup/controllers"
	"github.com/syncup/syncup/middleware"
	"github.com/syncup/syncup/services"
	"github.com/syncup/syncup/utils"
)

// SetupRouter wires routes, middlewares, and controllers.
func SetupRouter(cfg config.AppConfig, reg *services.Registry, tokens middleware.TokenVerifier) *gin.Engine {
	switch strings.ToLower(cfg.GinMode) {
	case "debug":
		gin.SetMode(gin.DebugMode)
	case "test":
		gin.SetMode(gin.TestMode)
	default:
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(middleware.RequestID())
	// Access log goes to its own rolling file
	gl, err := utils.NewRollingFileLogger(cfg.GinPath, cfg.LogLevel, cfg.LogMaxSizeMB, cfg.LogMaxBackups, cfg.LogMaxAgeDays, cfg.LogCompress)
	if err == nil {
		r.Use(utils.Ginzap(gl, time.RFC3339, true))
		r.Use(utils.RecoveryWithZap(gl, false))
	} else {
		r.Use(gin.Recovery())
	}

	corsCfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type", middleware.RequestIDHeader},
		ExposeHeaders:    []string{"Content-Length", middleware.RequestIDHeader},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(cfg.AllowedOrigins) == 0 || (len(cfg.AllowedOrigins) == 1 && cfg.AllowedOrigins[0] == "*") {
		corsCfg.AllowAllOrigins = true
		corsCfg.AllowCredentials = false
	} else {
		corsCfg.AllowOrigins = cfg.AllowedOrigins
	}
	r.Use(cors.New(corsCfg))

	r.GET("/health", func(ctx *gin.Context) {
		ctx.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	limiter := middleware.NewRateLimiter(cfg.RateLimitPerMinute)
	authRequired := middleware.AuthRequired(tokens)

	authController := controllers.NewAuthController(reg)
	postController := controllers.NewPostController(reg)
	clubController := controllers.NewClubController(reg)

	authGroup := r.Group("/auth")
	authGroup.Use(limiter.Middleware())
	authGroup.POST("/signup", authController.Signup)
	authGroup.POST("/login", authController.Login)
	authGroup.POST("/logout", authRequired, authController.Logout)
	authGroup.GET("/me", authRequired, authController.Me)
	authGroup.PATCH("/profile", authRequired, authController.UpdateProfile)

	api := r.Group("/api")
	api.GET("/posts", postController.ListPosts)
	api.GET("/posts/:id/comments", postController.ListComments)
	api.GET("/clubs", clubController.ListClubs)
	api.GET("/clubs/:id", clubController.GetClub)

	protected := api.Group("")
	protected.Use(authRequired, limiter.Middleware())
	protected.POST("/posts", postController.CreatePost)
	protected.DELETE("/posts/:id", postController.DeletePost)
	protected.POST("/posts/:id/like", postController.ToggleLike)
	protected.POST("/posts/:id/comments", postController.CreateComment)
	protected.DELETE("/comments/:id", postController.DeleteComment)
	// path used by the web client
	protected.DELETE("/posts/comments/:id", postController.DeleteComment)
	protected.POST("/clubs", clubController.CreateClub)
	protected.POST("/clubs/:id/join", clubController.JoinClub)

	r.NoRoute(func(ctx *gin.Context) {
		utils.Error(ctx, http.StatusNotFound, 40400, "route not found")
	})

	return r
}
