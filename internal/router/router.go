package router

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	echoSwagger "github.com/swaggo/echo-swagger"

	"hackhub/internal/auth"
	"hackhub/internal/config"
	"hackhub/internal/handler"
	"hackhub/internal/middleware"
	"hackhub/internal/repository"
)

// Register wires routes and middleware.
func Register(
	e *echo.Echo,
	cfg *config.Config,
	jwtService *auth.JWTService,
	userRepo repository.UserRepository,
	authHandler *handler.AuthHandler,
	userHandler *handler.UserHandler,
	eventHandler *handler.EventHandler,
	teamHandler *handler.TeamHandler,
	messageHandler *handler.MessageHandler,
	notificationHandler *handler.NotificationHandler,
	contactHandler *handler.ContactHandler,
	wsHandler *handler.WSHandler,
) {
	e.Use(echomw.Logger())
	e.Use(echomw.Recover())
	e.Use(echomw.RequestID())
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins: []string{cfg.FrontendURL},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAuthorization},
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete},
	}))

	// Add validator
	e.Validator = &CustomValidator{validator: validator.New()}

	e.GET("/healthz", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})

	e.GET("/swagger/*", echoSwagger.WrapHandler)

	e.Static("/uploads", cfg.UploadDir)

	// Websocket clients authenticate in-band with a join event.
	e.GET("/ws", wsHandler.Connect)

	api := e.Group("/api")

	// Public routes
	api.POST("/auth/signup", authHandler.Signup)
	api.POST("/auth/login", authHandler.Login)
	api.POST("/auth/refresh", authHandler.Refresh)
	api.POST("/auth/logout", authHandler.Logout)
	api.GET("/auth/verify-email/:token", authHandler.VerifyEmail)
	api.POST("/auth/forgot-password", authHandler.ForgotPassword)
	api.POST("/auth/reset-password/:token", authHandler.ResetPassword)
	api.POST("/contact", contactHandler.Submit)

	api.GET("/events", eventHandler.List)
	api.GET("/events/:id", eventHandler.Get)
	api.GET("/events/:id/participants", eventHandler.Participants)
	api.GET("/teams", teamHandler.List)
	api.GET("/teams/:id", teamHandler.Get)

	// Secured routes (require JWT authentication)
	secured := api.Group("", echojwt.WithConfig(echojwt.Config{
		TokenLookup: "header:" + echo.HeaderAuthorization + ":Bearer ",
		ParseTokenFunc: func(c echo.Context, token string) (interface{}, error) {
			return jwtService.ValidateToken(token)
		},
	}), middleware.LoadUser(userRepo))

	secured.GET("/auth/me", authHandler.Me)

	// User routes
	secured.GET("/users/profile", userHandler.GetProfile)
	secured.PUT("/users/profile", userHandler.UpdateProfile)
	secured.POST("/users/upload-avatar", userHandler.UploadAvatar)
	secured.GET("/users/my-events", userHandler.MyEvents)
	secured.GET("/users/my-teams", userHandler.MyTeams)

	// Event routes
	secured.POST("/events", eventHandler.Create, middleware.RequireOrganizer)
	secured.PUT("/events/:id", eventHandler.Update, middleware.RequireOrganizer)
	secured.DELETE("/events/:id", eventHandler.Delete, middleware.RequireOrganizer)
	secured.POST("/events/:id/register", eventHandler.Register)
	secured.POST("/events/:id/unregister", eventHandler.Unregister)

	// Team routes
	secured.POST("/teams", teamHandler.Create, middleware.RequireVerifiedEmail)
	secured.PUT("/teams/:id", teamHandler.Update)
	secured.DELETE("/teams/:id", teamHandler.Delete)
	secured.POST("/teams/:id/join", teamHandler.Join, middleware.RequireVerifiedEmail)
	secured.POST("/teams/:id/leave", teamHandler.Leave)
	secured.POST("/teams/:id/invite", teamHandler.Invite)

	// Message routes
	secured.POST("/messages", messageHandler.Send)
	secured.GET("/messages/conversations", messageHandler.Conversations)
	secured.GET("/messages/:chatId", messageHandler.History)
	secured.PUT("/messages/:id/read", messageHandler.MarkRead)

	// Notification routes
	secured.GET("/notifications", notificationHandler.List)
	secured.PUT("/notifications/read-all", notificationHandler.MarkAllRead)
	secured.PUT("/notifications/:id/read", notificationHandler.MarkRead)
}

// CustomValidator wraps validator for Echo.
type CustomValidator struct {
	validator *validator.Validate
}

// Validate implements echo.Validator interface.
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}
