package router // package router wires every HTTP route to its handler and middleware

import (
	"github.com/labstack/echo/v4"

	"github.com/artefacto/heritage-api/internal/handler"
	"github.com/artefacto/heritage-api/internal/middleware"
	"github.com/artefacto/heritage-api/internal/repository"
)

// Handlers bundles every handler the router needs. All fields must be
// non-nil; main constructs them and hands the bundle over in one call.
type Handlers struct {
	Auth         *handler.AuthHandler
	Temples      *handler.TempleHandler
	Artifacts    *handler.ArtifactHandler
	Tickets      *handler.TicketHandler
	Transactions *handler.TransactionHandler
	OwnedTickets *handler.OwnedTicketHandler
	Predict      *handler.PredictHandler
}

// Middleware carries the cross-cutting route middleware. Cache and RateLimit
// are pass-through no-ops when Redis is unavailable, so the router can apply
// them unconditionally.
type Middleware struct {
	Cache     echo.MiddlewareFunc
	RateLimit echo.MiddlewareFunc
}

// Register mounts the full API surface under /api plus the bare /health
// probe. Authentication endpoints sit behind the rate limiter; everything
// else under /api requires a valid access token, and catalog writes
// additionally require the admin flag.
func Register(e *echo.Echo, h Handlers, mw Middleware, users *repository.UserRepo, jwtSecret string) {
	e.GET("/health", handler.Health)

	api := e.Group("/api")

	// Credential endpoints are the brute-force surface, so only they are
	// rate limited.
	auth := api.Group("/auth", mw.RateLimit)
	auth.POST("/register", h.Auth.Register)
	auth.POST("/login", h.Auth.Login)

	// Everything below requires a valid token.
	priv := api.Group("", middleware.JWTAuth(jwtSecret))

	profile := priv.Group("/auth/profile")
	profile.GET("", h.Auth.Profile)
	profile.PUT("", h.Auth.UpdateProfile, middleware.ImageUpload("profilePicture"))
	profile.DELETE("", h.Auth.DeleteAccount)

	// Catalog reads are cached; writes are admin-only and accept an
	// optional multipart image.
	admin := middleware.RequireAdmin(users)
	image := middleware.ImageUpload("image")

	temples := priv.Group("/temples")
	temples.GET("", h.Temples.List, mw.Cache)
	temples.GET("/:id", h.Temples.Get, mw.Cache)
	temples.POST("", h.Temples.Create, admin, image)
	temples.PUT("/:id", h.Temples.Update, admin, image)
	temples.DELETE("/:id", h.Temples.Delete, admin)

	artifacts := priv.Group("/artifacts")
	artifacts.GET("", h.Artifacts.List)
	artifacts.GET("/:id", h.Artifacts.Get)
	artifacts.POST("", h.Artifacts.Create, admin, image)
	artifacts.PUT("/:id", h.Artifacts.Update, admin, image)
	artifacts.DELETE("/:id", h.Artifacts.Delete, admin)
	artifacts.POST("/:id/bookmark", h.Artifacts.ToggleBookmark)
	artifacts.POST("/:id/read", h.Artifacts.MarkRead)

	tickets := priv.Group("/tickets")
	tickets.GET("", h.Tickets.List, mw.Cache)
	tickets.GET("/:id", h.Tickets.Get, mw.Cache)
	tickets.POST("", h.Tickets.Create, admin)
	tickets.PUT("/:id", h.Tickets.Update, admin)
	tickets.DELETE("/:id", h.Tickets.Delete, admin)

	transactions := priv.Group("/transactions")
	transactions.POST("", h.Transactions.Create)
	transactions.GET("", h.Transactions.ListMine)
	transactions.GET("/admin/all", h.Transactions.ListAll, admin)

	ownedTickets := priv.Group("/owned-tickets")
	ownedTickets.GET("", h.OwnedTickets.List)
	ownedTickets.GET("/:id", h.OwnedTickets.Get)
	ownedTickets.POST("", h.OwnedTickets.Create)
	ownedTickets.PATCH("/:id/status", h.OwnedTickets.Redeem)

	priv.POST("/predict", h.Predict.Predict)
}
