package http

import (
	"github.com/gin-gonic/gin"

	"vidtube/internal/bootstrap"
	"vidtube/internal/metrics"
	"vidtube/internal/transport/http/handler"
	"vidtube/internal/transport/http/middleware"
)

func NewRouter(app *bootstrap.App) *gin.Engine {
	gin.SetMode(app.Config.App.GinMode)
	router := gin.New()
	router.MaxMultipartMemory = app.Config.Upload.MaxBytes
	router.Use(
		middleware.RequestID(),
		middleware.Logger(app.Logger),
		middleware.Recovery(app.Logger),
	)

	healthHandler := handler.NewHealthHandler(app)
	router.GET("/healthz", healthHandler.Check)
	if app.Registry != nil {
		router.GET("/metrics", gin.WrapH(metrics.Handler(app.Registry)))
	}

	services := app.Services
	userHandler := handler.NewUserHandler(
		services.Auth,
		services.Accounts,
		handler.UploadOptions{
			TempDir:  app.Config.Upload.TempDir,
			MaxBytes: app.Config.Upload.MaxBytes,
		},
		handler.CookieOptions{
			Secure:     app.Config.Auth.CookieSecure,
			AccessTTL:  app.Config.AccessTokenTTL(),
			RefreshTTL: app.Config.RefreshTokenTTL(),
		},
	)
	channelHandler := handler.NewChannelHandler(services.Channels)
	session := middleware.Session(services.Tokens, services.Users)

	users := router.Group("/api/v1/users")
	users.POST("/register", userHandler.Register)
	users.POST("/login", userHandler.Login)
	users.POST("/refresh-token", userHandler.RefreshToken)

	secured := users.Group("")
	secured.Use(session)
	secured.POST("/logout", userHandler.Logout)
	secured.POST("/change-password", userHandler.ChangePassword)
	secured.GET("/current-user", userHandler.CurrentUser)
	secured.PATCH("/update-account", userHandler.UpdateAccount)
	secured.PATCH("/avatar", userHandler.UpdateAvatar)
	secured.PATCH("/coverImage", userHandler.UpdateCoverImage)
	secured.GET("/c/:username", channelHandler.GetChannelProfile)
	secured.POST("/c/:username/subscription", channelHandler.Subscribe)
	secured.DELETE("/c/:username/subscription", channelHandler.Unsubscribe)
	secured.GET("/history", channelHandler.GetWatchHistory)
	secured.POST("/history/:videoId", channelHandler.AddToWatchHistory)

	return router
}
