// Package service holds the business flows that span more than one store.
// The catalog service sequences cascading deletion of categories,
// subcategories and their stored images: dependents strictly before
// parents, row deletion strictly before asset cleanup, asset cleanup
// best-effort and per-URL independent.
package service

import (
	"context"
	"fmt"

	"github.com/rawaz/digital-menu/internal/model"
	"github.com/rawaz/digital-menu/internal/storage"
)

// CategoryStore is the slice of the category repository the catalog service
// needs.
type CategoryStore interface {
	DeleteByID(ctx context.Context, id string) error
	DeleteByIDs(ctx context.Context, ids []string) error
}

// SubCategoryStore is the slice of the subcategory repository the catalog
// service needs.
type SubCategoryStore interface {
	ListByCategory(ctx context.Context, categoryID string) ([]model.SubCategory, error)
	ListByIDs(ctx context.Context, ids []string) ([]model.SubCategory, error)
	DeleteByIDs(ctx context.Context, ids []string) error
}

// AssetRemover deletes a single object from the asset store.
type AssetRemover interface {
	Remove(ctx context.Context, bucket, path string) error
}

// CleanupWarning records one non-fatal asset cleanup problem: an
// unparseable URL or a failed removal. Warnings are surfaced for logging
// and never fail the operation that produced them; an orphaned object is a
// documented, manually recoverable state, an orphaned row is not.
type CleanupWarning struct {
	URL    string
	Reason string
}

func (w CleanupWarning) String() string {
	return fmt.Sprintf("asset cleanup skipped %q: %s", w.URL, w.Reason)
}

// Catalog coordinates category/subcategory deletion across the relational
// store and the asset store.
type Catalog struct {
	categories    CategoryStore
	subcategories SubCategoryStore
	assets        AssetRemover
}

// NewCatalog wires the coordinator.
func NewCatalog(categories CategoryStore, subcategories SubCategoryStore, assets AssetRemover) *Catalog {
	return &Catalog{categories: categories, subcategories: subcategories, assets: assets}
}

// DeleteCategory removes a category together with all of its subcategories
// and their stored images. The category row is only touched after every
// dependent is gone: a failed dependent delete aborts the cascade and
// leaves the parent in place.
func (c *Catalog) DeleteCategory(ctx context.Context, categoryID string) ([]CleanupWarning, error) {
	subs, err := c.subcategories.ListByCategory(ctx, categoryID)
	if err != nil {
		return nil, fmt.Errorf("load subcategories for category %s: %w", categoryID, err)
	}

	var warnings []CleanupWarning
	if len(subs) > 0 {
		ids := make([]string, len(subs))
		for i, s := range subs {
			ids[i] = s.ID
		}
		warnings, err = c.BulkDeleteSubCategories(ctx, ids, true)
		if err != nil {
			return warnings, fmt.Errorf("delete subcategories of category %s: %w", categoryID, err)
		}
	}

	if err := c.categories.DeleteByID(ctx, categoryID); err != nil {
		return warnings, fmt.Errorf("delete category %s: %w", categoryID, err)
	}
	return warnings, nil
}

// BulkDeleteCategories removes several categories in three stages: gather
// every dependent subcategory (aborting before any deletion if one lookup
// fails, naming the offending category), delete all dependents in one
// batched pass, then delete the category rows in one batched statement.
// The sequence is best-effort, not transactional: rows deleted before a
// mid-sequence failure stay deleted.
func (c *Catalog) BulkDeleteCategories(ctx context.Context, categoryIDs []string) ([]CleanupWarning, error) {
	if len(categoryIDs) == 0 {
		return nil, nil
	}

	var subIDs []string
	for _, id := range categoryIDs {
		subs, err := c.subcategories.ListByCategory(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("load subcategories for category %s: %w", id, err)
		}
		for _, s := range subs {
			subIDs = append(subIDs, s.ID)
		}
	}

	var warnings []CleanupWarning
	if len(subIDs) > 0 {
		var err error
		warnings, err = c.BulkDeleteSubCategories(ctx, subIDs, true)
		if err != nil {
			return warnings, fmt.Errorf("delete dependent subcategories: %w", err)
		}
	}

	if err := c.categories.DeleteByIDs(ctx, categoryIDs); err != nil {
		return warnings, fmt.Errorf("delete categories: %w", err)
	}
	return warnings, nil
}

// DeleteSubCategory removes one subcategory row and, when removeAssets is
// set, its stored image and thumbnail. The URLs are fetched before the row
// is deleted so a lookup failure aborts with nothing removed; once the row
// is gone, asset removal is best-effort and reported only as warnings.
func (c *Catalog) DeleteSubCategory(ctx context.Context, id string, removeAssets bool) ([]CleanupWarning, error) {
	var urls []string
	if removeAssets {
		rows, err := c.subcategories.ListByIDs(ctx, []string{id})
		if err != nil {
			return nil, fmt.Errorf("load subcategory %s: %w", id, err)
		}
		urls = collectAssetURLs(rows)
	}

	if err := c.subcategories.DeleteByIDs(ctx, []string{id}); err != nil {
		return nil, fmt.Errorf("delete subcategory %s: %w", id, err)
	}

	return c.removeAssets(ctx, urls), nil
}

// BulkDeleteSubCategories is the batched variant: all image URLs are
// gathered up front, the rows are deleted in one statement, then the union
// of collected URLs is cleaned up best-effort. One URL's failure does not
// cancel the others.
func (c *Catalog) BulkDeleteSubCategories(ctx context.Context, ids []string, removeAssets bool) ([]CleanupWarning, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	var urls []string
	if removeAssets {
		rows, err := c.subcategories.ListByIDs(ctx, ids)
		if err != nil {
			return nil, fmt.Errorf("load subcategories: %w", err)
		}
		urls = collectAssetURLs(rows)
	}

	if err := c.subcategories.DeleteByIDs(ctx, ids); err != nil {
		return nil, fmt.Errorf("delete subcategories: %w", err)
	}

	return c.removeAssets(ctx, urls), nil
}

// RemoveAssetURL deletes the object behind a single row URL. Unparseable
// URLs and store failures come back as a warning, never an error.
func (c *Catalog) RemoveAssetURL(ctx context.Context, url string) *CleanupWarning {
	bucket, path, ok := storage.ParseObjectURL(url)
	if !ok {
		return &CleanupWarning{URL: url, Reason: "unrecognized storage URL"}
	}
	if err := c.assets.Remove(ctx, bucket, path); err != nil {
		return &CleanupWarning{URL: url, Reason: err.Error()}
	}
	return nil
}

func (c *Catalog) removeAssets(ctx context.Context, urls []string) []CleanupWarning {
	var warnings []CleanupWarning
	for _, u := range urls {
		if w := c.RemoveAssetURL(ctx, u); w != nil {
			warnings = append(warnings, *w)
		}
	}
	return warnings
}

func collectAssetURLs(rows []model.SubCategory) []string {
	var urls []string
	for _, s := range rows {
		if s.ImageURL != "" {
			urls = append(urls, s.ImageURL)
		}
		if s.ThumbURL != "" {
			urls = append(urls, s.ThumbURL)
		}
	}
	return urls
}
