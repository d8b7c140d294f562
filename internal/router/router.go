// Package router wires middleware and endpoints onto the echo instance.
package router

import (
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/guildofheroes/goh-api/internal/config"
	"github.com/guildofheroes/goh-api/internal/handler"
	"github.com/guildofheroes/goh-api/internal/middleware"
	"github.com/guildofheroes/goh-api/internal/model"
)

// Deps carries everything route registration needs.
type Deps struct {
	Cfg       config.Config
	Redis     *redis.Client
	Auth      *handler.AuthHandler
	Users     *handler.UserHandler
	Campaigns *handler.CampaignHandler
}

// Register mounts all routes on e.
func Register(e *echo.Echo, d Deps) {
	e.Use(echomw.Recover())
	e.Use(middleware.RequestID())
	e.Use(middleware.HTTPMetrics())

	e.GET("/healthz", handler.Health)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	// Auth endpoints are rate limited per IP as brute-force mitigation.
	authGroup := e.Group("/v1/auth", middleware.RateLimit(d.Cfg.RateLimit, d.Redis))
	authGroup.POST("/register", d.Auth.Register)
	authGroup.POST("/login", d.Auth.Login)
	authGroup.POST("/magic-link", d.Auth.CreateMagicLink)
	authGroup.POST("/magic-link/verify", d.Auth.VerifyMagicLink)
	authGroup.POST("/refresh", d.Auth.Refresh)
	authGroup.POST("/logout", d.Auth.Logout)

	// Public reads.
	e.GET("/v1/users/:id", d.Users.GetProfile)
	e.GET("/v1/users", d.Users.Search)
	e.GET("/v1/campaigns", d.Campaigns.ListActive)
	e.GET("/v1/campaigns/:id", d.Campaigns.Get)

	// Everything below requires a valid access token.
	api := e.Group("/v1", middleware.BearerAuth(d.Cfg.JWTSecret))
	api.GET("/me", d.Auth.Me)
	api.PATCH("/me", d.Users.UpdateProfile)
	api.PUT("/users/:id/role", d.Users.SetRole, middleware.RequireRole(model.RoleAdmin))

	api.POST("/campaigns", d.Campaigns.Create)
	api.POST("/campaigns/:id/join", d.Campaigns.Join)
	api.DELETE("/campaigns/:id/members/me", d.Campaigns.Leave)
	api.PUT("/campaigns/:id/status", d.Campaigns.SetStatus)

	api.POST("/dice/roll", handler.RollDice)
}
