package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/rawaz/digital-menu/internal/model"
	"github.com/rawaz/digital-menu/internal/repository"
)

// PublicHandler serves the customer-facing menu: read-only, no auth, meant
// to sit behind the response cache. Labels are flattened to the requested
// language with Kurdish as the fallback, matching the menu's audience.
type PublicHandler struct {
	Categories    *repository.CategoryRepo
	SubCategories *repository.SubCategoryRepo
	Settings      *repository.SettingsRepo
	RestaurantID  string
}

func NewPublicHandler(categories *repository.CategoryRepo, subcategories *repository.SubCategoryRepo,
	settings *repository.SettingsRepo, restaurantID string) *PublicHandler {
	return &PublicHandler{
		Categories:    categories,
		SubCategories: subcategories,
		Settings:      settings,
		RestaurantID:  restaurantID,
	}
}

type publicCategory struct {
	ID    string `json:"id"`
	Label string `json:"label"`
}

type publicSubCategory struct {
	ID       string `json:"id"`
	Label    string `json:"label"`
	ImageURL string `json:"image_url,omitempty"`
	ThumbURL string `json:"thumbnail_url,omitempty"`
}

func menuLang(c echo.Context) string {
	switch strings.ToLower(c.QueryParam("lang")) {
	case "ar":
		return "ar"
	case "en":
		return "en"
	default:
		return "ku"
	}
}

func pickLabel(lang, ku, ar, en string) string {
	switch lang {
	case "ar":
		if ar != "" {
			return ar
		}
	case "en":
		if en != "" {
			return en
		}
	}
	return ku
}

// GetCategories handles GET /v1/menu/categories?lang=ku|ar|en.
func (h *PublicHandler) GetCategories(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	cats, err := h.Categories.ListByRestaurant(ctx, h.RestaurantID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}

	lang := menuLang(c)
	out := make([]publicCategory, 0, len(cats))
	for _, cat := range cats {
		out = append(out, publicCategory{
			ID:    cat.ID,
			Label: pickLabel(lang, cat.LabelKu, cat.LabelAr, cat.LabelEn),
		})
	}
	return c.JSON(http.StatusOK, out)
}

// GetSubCategories handles GET /v1/menu/categories/:id/subcategories.
func (h *PublicHandler) GetSubCategories(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	subs, err := h.SubCategories.ListByCategory(ctx, c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}

	lang := menuLang(c)
	out := make([]publicSubCategory, 0, len(subs))
	for _, s := range subs {
		out = append(out, publicSubCategory{
			ID:       s.ID,
			Label:    pickLabel(lang, s.LabelKu, s.LabelAr, s.LabelEn),
			ImageURL: s.ImageURL,
			ThumbURL: s.ThumbURL,
		})
	}
	return c.JSON(http.StatusOK, out)
}

// GetSettings handles GET /v1/menu/settings: the restaurant's public
// contact card and branding. Missing settings return an empty object
// rather than 404 so a fresh deployment still renders.
func (h *PublicHandler) GetSettings(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	s, err := h.Settings.Get(ctx, h.RestaurantID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusOK, model.Settings{RestaurantID: h.RestaurantID})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, s)
}
