// Package router maps the HTTP surface onto handlers and middleware:
// /healthz, the public menu under /v1/menu plus /v1/feedback, and the
// guarded back office under /v1/admin.
package router

import (
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/rawaz/digital-menu/internal/auth"
	"github.com/rawaz/digital-menu/internal/config"
	"github.com/rawaz/digital-menu/internal/handler"
	"github.com/rawaz/digital-menu/internal/middleware"
	"github.com/rawaz/digital-menu/internal/model"
)

// RegisterRoutes registers the routes that exist regardless of wiring.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
}

// RegisterPublic registers the customer-facing menu and feedback routes.
// Reads go through the Redis response cache; everything public sits behind
// the rate limiter.
func RegisterPublic(e *echo.Echo, p *handler.PublicHandler, f *handler.FeedbackHandler, rdb *redis.Client) {
	limiter := middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb)
	cache := middleware.ResponseCache(config.LoadCacheConfig(), rdb)

	menu := e.Group("/v1/menu", limiter, cache)
	menu.GET("/categories", p.GetCategories)
	menu.GET("/categories/:id/subcategories", p.GetSubCategories)
	menu.GET("/settings", p.GetSettings)

	e.POST("/v1/feedback", f.Submit, limiter)
}

// RegisterAdmin registers the back office. Login/logout/check are outside
// the session guard (login cannot require a session; logout and check must
// work with a dead one); everything else requires a live admin session.
func RegisterAdmin(e *echo.Echo, a *handler.AuthHandler, admin *handler.AdminHandler, m *auth.Manager, rdb *redis.Client) {
	limiter := middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb)

	authGroup := e.Group("/v1/admin/auth")
	authGroup.POST("/login", a.Login, limiter)
	authGroup.POST("/logout", a.Logout)
	authGroup.GET("/check", a.Check)

	g := e.Group("/v1/admin")
	g.Use(middleware.SessionAuth(m))
	g.Use(middleware.RequireRole(model.RoleAdmin, model.RoleSuperAdmin))

	g.GET("/me", a.Me)

	g.GET("/categories", admin.ListCategories)
	g.POST("/categories", admin.CreateCategory)
	g.PUT("/categories/:id", admin.UpdateCategory)
	g.DELETE("/categories/:id", admin.DeleteCategory)
	g.POST("/categories/bulk-delete", admin.BulkDeleteCategories)
	g.GET("/categories/:id/subcategories", admin.ListSubCategories)

	g.POST("/subcategories", admin.CreateSubCategory)
	g.PUT("/subcategories/:id", admin.UpdateSubCategory)
	g.DELETE("/subcategories/:id", admin.DeleteSubCategory)
	g.POST("/subcategories/bulk-delete", admin.BulkDeleteSubCategories)
	g.POST("/subcategories/:id/image", admin.UploadSubCategoryImage)

	g.GET("/settings", admin.GetSettings)
	g.PUT("/settings", admin.UpdateSettings)
	g.GET("/feedback", admin.ListFeedback)
}
