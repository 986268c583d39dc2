package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/rawaz/digital-menu/internal/model"
	"github.com/rawaz/digital-menu/internal/repository"
)

type categoryReq struct {
	LabelKu string `json:"label_ku"`
	LabelAr string `json:"label_ar"`
	LabelEn string `json:"label_en"`
}

func (r categoryReq) validate() error {
	if strings.TrimSpace(r.LabelKu) == "" || strings.TrimSpace(r.LabelAr) == "" || strings.TrimSpace(r.LabelEn) == "" {
		return errors.New("all three labels are required")
	}
	return nil
}

// ListCategories handles GET /v1/admin/categories.
func (h *AdminHandler) ListCategories(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	cats, err := h.Categories.ListByRestaurant(ctx, h.RestaurantID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, cats)
}

// CreateCategory handles POST /v1/admin/categories.
func (h *AdminHandler) CreateCategory(c echo.Context) error {
	var req categoryReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if err := req.validate(); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	cat := &model.Category{
		RestaurantID: h.RestaurantID,
		LabelKu:      strings.TrimSpace(req.LabelKu),
		LabelAr:      strings.TrimSpace(req.LabelAr),
		LabelEn:      strings.TrimSpace(req.LabelEn),
	}
	if err := h.Categories.Create(ctx, cat); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create failed"})
	}
	return c.JSON(http.StatusCreated, cat)
}

// UpdateCategory handles PUT /v1/admin/categories/:id.
func (h *AdminHandler) UpdateCategory(c echo.Context) error {
	var req categoryReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if err := req.validate(); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	cat := &model.Category{
		ID:      c.Param("id"),
		LabelKu: strings.TrimSpace(req.LabelKu),
		LabelAr: strings.TrimSpace(req.LabelAr),
		LabelEn: strings.TrimSpace(req.LabelEn),
	}
	if err := h.Categories.Update(ctx, cat); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "category not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}
	return c.NoContent(http.StatusNoContent)
}

// DeleteCategory handles DELETE /v1/admin/categories/:id. The cascade is
// all-or-nothing for rows: when removing the subcategories fails the
// category stays and the client keeps showing it. Asset-cleanup warnings
// are logged, never surfaced.
func (h *AdminHandler) DeleteCategory(c echo.Context) error {
	warnings, err := h.Catalog.DeleteCategory(c.Request().Context(), c.Param("id"))
	logWarnings(c, "delete category", warnings)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": err.Error()})
	}
	return c.NoContent(http.StatusNoContent)
}

type bulkDeleteReq struct {
	IDs []string `json:"ids"`
}

// BulkDeleteCategories handles POST /v1/admin/categories/bulk-delete.
func (h *AdminHandler) BulkDeleteCategories(c echo.Context) error {
	var req bulkDeleteReq
	if err := c.Bind(&req); err != nil || len(req.IDs) == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "ids required"})
	}

	warnings, err := h.Catalog.BulkDeleteCategories(c.Request().Context(), req.IDs)
	logWarnings(c, "bulk delete categories", warnings)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": err.Error()})
	}
	return c.NoContent(http.StatusNoContent)
}
