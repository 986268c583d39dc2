package handler

import (
	"errors"
	"net/http"
	"path"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/rawaz/digital-menu/internal/model"
	"github.com/rawaz/digital-menu/internal/repository"
)

type subCategoryReq struct {
	CategoryID string `json:"category_id"`
	LabelKu    string `json:"label_ku"`
	LabelAr    string `json:"label_ar"`
	LabelEn    string `json:"label_en"`
}

// ListSubCategories handles GET /v1/admin/categories/:id/subcategories.
func (h *AdminHandler) ListSubCategories(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	subs, err := h.SubCategories.ListByCategory(ctx, c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, subs)
}

// CreateSubCategory handles POST /v1/admin/subcategories.
func (h *AdminHandler) CreateSubCategory(c echo.Context) error {
	var req subCategoryReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.CategoryID == "" || strings.TrimSpace(req.LabelKu) == "" ||
		strings.TrimSpace(req.LabelAr) == "" || strings.TrimSpace(req.LabelEn) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "category_id and all three labels are required"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	// The parent must exist; a dangling category_id would escape the
	// cascade on delete.
	if _, err := h.Categories.GetByID(ctx, req.CategoryID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "category not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}

	sub := &model.SubCategory{
		RestaurantID: h.RestaurantID,
		CategoryID:   req.CategoryID,
		LabelKu:      strings.TrimSpace(req.LabelKu),
		LabelAr:      strings.TrimSpace(req.LabelAr),
		LabelEn:      strings.TrimSpace(req.LabelEn),
	}
	if err := h.SubCategories.Create(ctx, sub); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create failed"})
	}
	return c.JSON(http.StatusCreated, sub)
}

// UpdateSubCategory handles PUT /v1/admin/subcategories/:id.
func (h *AdminHandler) UpdateSubCategory(c echo.Context) error {
	var req subCategoryReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if strings.TrimSpace(req.LabelKu) == "" || strings.TrimSpace(req.LabelAr) == "" || strings.TrimSpace(req.LabelEn) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "all three labels are required"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	sub := &model.SubCategory{
		ID:      c.Param("id"),
		LabelKu: strings.TrimSpace(req.LabelKu),
		LabelAr: strings.TrimSpace(req.LabelAr),
		LabelEn: strings.TrimSpace(req.LabelEn),
	}
	if err := h.SubCategories.Update(ctx, sub); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "subcategory not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}
	return c.NoContent(http.StatusNoContent)
}

// DeleteSubCategory handles DELETE /v1/admin/subcategories/:id. The row
// and its stored images go together; image-removal problems are logged
// warnings, not failures.
func (h *AdminHandler) DeleteSubCategory(c echo.Context) error {
	warnings, err := h.Catalog.DeleteSubCategory(c.Request().Context(), c.Param("id"), true)
	logWarnings(c, "delete subcategory", warnings)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": err.Error()})
	}
	return c.NoContent(http.StatusNoContent)
}

// BulkDeleteSubCategories handles POST /v1/admin/subcategories/bulk-delete.
func (h *AdminHandler) BulkDeleteSubCategories(c echo.Context) error {
	var req bulkDeleteReq
	if err := c.Bind(&req); err != nil || len(req.IDs) == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "ids required"})
	}

	warnings, err := h.Catalog.BulkDeleteSubCategories(c.Request().Context(), req.IDs, true)
	logWarnings(c, "bulk delete subcategories", warnings)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": err.Error()})
	}
	return c.NoContent(http.StatusNoContent)
}

// UploadSubCategoryImage handles POST /v1/admin/subcategories/:id/image
// with multipart fields "image" and optional "thumbnail". The flow is
// upload-then-swap: the new objects are stored and the row repointed
// before the old objects are touched, so a failure anywhere leaves the row
// referencing assets that still exist. Old-asset removal afterwards is
// best-effort.
func (h *AdminHandler) UploadSubCategoryImage(c echo.Context) error {
	if h.Assets == nil {
		return c.JSON(http.StatusServiceUnavailable, echo.Map{"error": "object store not configured"})
	}
	id := c.Param("id")

	ctx, cancel := reqCtx(c)
	defer cancel()

	sub, err := h.SubCategories.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "subcategory not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	oldImage, oldThumb := sub.ImageURL, sub.ThumbURL

	imageURL, err := h.storeUpload(c, "image", id)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	thumbURL := imageURL
	if _, ferr := c.FormFile("thumbnail"); ferr == nil {
		thumbURL, err = h.storeUpload(c, "thumbnail", id)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
		}
	}

	if err := h.SubCategories.UpdateImageURLs(ctx, id, imageURL, thumbURL); err != nil {
		// The new uploads are orphans now; remove them best-effort so the
		// failed swap does not leak objects.
		if w := h.Catalog.RemoveAssetURL(ctx, imageURL); w != nil {
			c.Logger().Warnf("upload rollback: %s", w)
		}
		if thumbURL != imageURL {
			if w := h.Catalog.RemoveAssetURL(ctx, thumbURL); w != nil {
				c.Logger().Warnf("upload rollback: %s", w)
			}
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}

	// The row points at the new assets; the old ones are safe to drop.
	for _, old := range []string{oldImage, oldThumb} {
		if old == "" || old == imageURL || old == thumbURL {
			continue
		}
		if w := h.Catalog.RemoveAssetURL(ctx, old); w != nil {
			c.Logger().Warnf("replace subcategory image: %s", w)
		}
	}

	return c.JSON(http.StatusOK, echo.Map{"image_url": imageURL, "thumbnail_url": thumbURL})
}

// storeUpload streams one multipart file into the object store and returns
// its public URL. Object keys are uuid-based so a replacement never
// overwrites the object a row still points at.
func (h *AdminHandler) storeUpload(c echo.Context, field, subID string) (string, error) {
	fh, err := c.FormFile(field)
	if err != nil {
		return "", errors.New(field + " file required")
	}
	src, err := fh.Open()
	if err != nil {
		return "", errors.New("cannot read " + field)
	}
	defer src.Close()

	ext := strings.ToLower(path.Ext(fh.Filename))
	switch ext {
	case ".png", ".jpg", ".jpeg", ".webp":
	default:
		return "", errors.New("unsupported image type")
	}
	contentType := fh.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	key := subID + "/" + uuid.NewString() + ext
	url, err := h.Assets.Put(c.Request().Context(), h.Bucket, key, contentType, src, fh.Size)
	if err != nil {
		return "", errors.New("upload failed")
	}
	return url, nil
}
