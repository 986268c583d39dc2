package handler

import (
	"context"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/rawaz/digital-menu/internal/middleware"
	"github.com/rawaz/digital-menu/internal/model"
	"github.com/rawaz/digital-menu/internal/repository"
	"github.com/rawaz/digital-menu/internal/service"
	"github.com/rawaz/digital-menu/internal/storage"
)

// AdminHandler bundles everything the back-office endpoints need: the
// repositories for plain CRUD, the catalog service for cascading deletes
// and the object store for image uploads.
type AdminHandler struct {
	Categories    *repository.CategoryRepo
	SubCategories *repository.SubCategoryRepo
	Settings      *repository.SettingsRepo
	Feedback      *repository.FeedbackRepo
	Catalog       *service.Catalog
	Assets        *storage.Store
	Bucket        string
	RestaurantID  string
}

func NewAdminHandler(categories *repository.CategoryRepo, subcategories *repository.SubCategoryRepo,
	settings *repository.SettingsRepo, feedback *repository.FeedbackRepo,
	catalog *service.Catalog, assets *storage.Store, bucket, restaurantID string) *AdminHandler {
	if categories == nil || subcategories == nil || settings == nil || feedback == nil || catalog == nil {
		panic("nil dependency passed to NewAdminHandler")
	}
	return &AdminHandler{
		Categories:    categories,
		SubCategories: subcategories,
		Settings:      settings,
		Feedback:      feedback,
		Catalog:       catalog,
		Assets:        assets,
		Bucket:        bucket,
		RestaurantID:  restaurantID,
	}
}

// reqCtx bounds store calls issued from a handler to five seconds.
func reqCtx(c echo.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request().Context(), 5*time.Second)
}

// currentAccount returns the admin injected by the session middleware.
func currentAccount(c echo.Context) *model.AdminUser {
	acct, _ := c.Get(middleware.ContextAccount).(*model.AdminUser)
	return acct
}

// logWarnings records asset-cleanup warnings. They are observability only;
// the operation that produced them already succeeded.
func logWarnings(c echo.Context, op string, warnings []service.CleanupWarning) {
	for _, w := range warnings {
		c.Logger().Warnf("%s: %s", op, w)
	}
}
