package handler

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/rawaz/digital-menu/internal/model"
	"github.com/rawaz/digital-menu/internal/repository"
)

// GetSettings handles GET /v1/admin/settings.
func (h *AdminHandler) GetSettings(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	s, err := h.Settings.Get(ctx, h.RestaurantID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "settings not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, s)
}

// UpdateSettings handles PUT /v1/admin/settings.
func (h *AdminHandler) UpdateSettings(c echo.Context) error {
	var s model.Settings
	if err := c.Bind(&s); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if strings.TrimSpace(s.NameKu) == "" || strings.TrimSpace(s.NameAr) == "" || strings.TrimSpace(s.NameEn) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "restaurant name is required in all three languages"})
	}
	s.RestaurantID = h.RestaurantID

	ctx, cancel := reqCtx(c)
	defer cancel()

	if err := h.Settings.Upsert(ctx, &s); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}
	return c.NoContent(http.StatusNoContent)
}

// ListFeedback handles GET /v1/admin/feedback?limit=n.
func (h *AdminHandler) ListFeedback(c echo.Context) error {
	limit, _ := strconv.Atoi(c.QueryParam("limit"))

	ctx, cancel := reqCtx(c)
	defer cancel()

	items, err := h.Feedback.ListByRestaurant(ctx, h.RestaurantID, limit)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, items)
}
