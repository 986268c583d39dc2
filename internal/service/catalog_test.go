package service

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rawaz/digital-menu/internal/model"
)

func publicURL(bucket, path string) string {
	return "https://cdn.example.com/storage/v1/object/public/" + bucket + "/" + path
}

// fakeCategoryStore records deletions and can fail them on demand.
type fakeCategoryStore struct {
	deletedIDs  []string
	deletedSets [][]string
	deleteErr   error
}

func (f *fakeCategoryStore) DeleteByID(ctx context.Context, id string) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	f.deletedIDs = append(f.deletedIDs, id)
	return nil
}

func (f *fakeCategoryStore) DeleteByIDs(ctx context.Context, ids []string) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	f.deletedSets = append(f.deletedSets, ids)
	return nil
}

// fakeSubCategoryStore serves subcategories out of maps and records every
// batch delete.
type fakeSubCategoryStore struct {
	byCategory map[string][]model.SubCategory
	byID       map[string]model.SubCategory

	listErrFor  map[string]error // per-category ListByCategory failures
	deleteErr   error
	deletedSets [][]string
}

func newFakeSubCategoryStore() *fakeSubCategoryStore {
	return &fakeSubCategoryStore{
		byCategory: make(map[string][]model.SubCategory),
		byID:       make(map[string]model.SubCategory),
		listErrFor: make(map[string]error),
	}
}

func (f *fakeSubCategoryStore) add(s model.SubCategory) {
	f.byCategory[s.CategoryID] = append(f.byCategory[s.CategoryID], s)
	f.byID[s.ID] = s
}

func (f *fakeSubCategoryStore) ListByCategory(ctx context.Context, categoryID string) ([]model.SubCategory, error) {
	if err := f.listErrFor[categoryID]; err != nil {
		return nil, err
	}
	return f.byCategory[categoryID], nil
}

func (f *fakeSubCategoryStore) ListByIDs(ctx context.Context, ids []string) ([]model.SubCategory, error) {
	var out []model.SubCategory
	for _, id := range ids {
		if s, ok := f.byID[id]; ok {
			out = append(out, s)
		}
	}
	return out, nil
}

func (f *fakeSubCategoryStore) DeleteByIDs(ctx context.Context, ids []string) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	f.deletedSets = append(f.deletedSets, ids)
	return nil
}

// fakeAssetStore records Remove calls as bucket/path pairs.
type fakeAssetStore struct {
	removed []string // "bucket/path"
	failFor map[string]error
}

func newFakeAssetStore() *fakeAssetStore {
	return &fakeAssetStore{failFor: make(map[string]error)}
}

func (f *fakeAssetStore) Remove(ctx context.Context, bucket, path string) error {
	key := bucket + "/" + path
	if err := f.failFor[key]; err != nil {
		return err
	}
	f.removed = append(f.removed, key)
	return nil
}

func newTestCatalog() (*Catalog, *fakeCategoryStore, *fakeSubCategoryStore, *fakeAssetStore) {
	cats := &fakeCategoryStore{}
	subs := newFakeSubCategoryStore()
	assets := newFakeAssetStore()
	return NewCatalog(cats, subs, assets), cats, subs, assets
}

func TestDeleteCategoryCascades(t *testing.T) {
	c, cats, subs, assets := newTestCatalog()
	subs.add(model.SubCategory{
		ID:         "sub-1",
		CategoryID: "cat-1",
		ImageURL:   publicURL("subcategories", "sub-1/a.png"),
		ThumbURL:   publicURL("subcategories", "sub-1/a_thumb.png"),
	})
	subs.add(model.SubCategory{
		ID:         "sub-2",
		CategoryID: "cat-1",
		ImageURL:   publicURL("subcategories", "sub-2/b.webp"),
		ThumbURL:   publicURL("subcategories", "sub-2/b_thumb.webp"),
	})

	warnings, err := c.DeleteCategory(context.Background(), "cat-1")
	require.NoError(t, err)
	assert.Empty(t, warnings)

	// Dependents first, parent after.
	require.Len(t, subs.deletedSets, 1)
	assert.ElementsMatch(t, []string{"sub-1", "sub-2"}, subs.deletedSets[0])
	assert.Equal(t, []string{"cat-1"}, cats.deletedIDs)

	// Two subcategories with image+thumb each: exactly four removals.
	assert.ElementsMatch(t, []string{
		"subcategories/sub-1/a.png",
		"subcategories/sub-1/a_thumb.png",
		"subcategories/sub-2/b.webp",
		"subcategories/sub-2/b_thumb.webp",
	}, assets.removed)
}

func TestDeleteCategoryWithoutSubcategories(t *testing.T) {
	c, cats, subs, assets := newTestCatalog()

	warnings, err := c.DeleteCategory(context.Background(), "cat-empty")
	require.NoError(t, err)
	assert.Empty(t, warnings)
	assert.Equal(t, []string{"cat-empty"}, cats.deletedIDs)
	assert.Empty(t, subs.deletedSets)
	assert.Empty(t, assets.removed)
}

func TestDeleteCategoryAbortsWhenDependentDeleteFails(t *testing.T) {
	c, cats, subs, _ := newTestCatalog()
	subs.add(model.SubCategory{ID: "sub-1", CategoryID: "cat-1"})
	subs.deleteErr = errors.New("db down")

	_, err := c.DeleteCategory(context.Background(), "cat-1")
	require.Error(t, err)
	// The parent row must survive a failed cascade.
	assert.Empty(t, cats.deletedIDs)
}

func TestDeleteSubCategoryKeepsAssetsWhenNotAsked(t *testing.T) {
	c, _, subs, assets := newTestCatalog()
	subs.add(model.SubCategory{
		ID:         "sub-1",
		CategoryID: "cat-1",
		ImageURL:   publicURL("subcategories", "sub-1/a.png"),
	})

	warnings, err := c.DeleteSubCategory(context.Background(), "sub-1", false)
	require.NoError(t, err)
	assert.Empty(t, warnings)
	assert.Equal(t, [][]string{{"sub-1"}}, subs.deletedSets)
	assert.Empty(t, assets.removed)
}

func TestDeleteSubCategoryRemovesRowBeforeAssets(t *testing.T) {
	c, _, subs, assets := newTestCatalog()
	subs.add(model.SubCategory{
		ID:         "sub-1",
		CategoryID: "cat-1",
		ImageURL:   publicURL("subcategories", "sub-1/a.png"),
	})
	subs.deleteErr = errors.New("db down")

	_, err := c.DeleteSubCategory(context.Background(), "sub-1", true)
	require.Error(t, err)
	// A failed row delete means no asset is touched.
	assert.Empty(t, assets.removed)
}

func TestDeleteSubCategoryMalformedURLIsWarningOnly(t *testing.T) {
	c, _, subs, assets := newTestCatalog()
	subs.add(model.SubCategory{
		ID:         "sub-1",
		CategoryID: "cat-1",
		ImageURL:   "https://elsewhere.example.com/images/a.png",
		ThumbURL:   publicURL("subcategories", "sub-1/a_thumb.png"),
	})

	warnings, err := c.DeleteSubCategory(context.Background(), "sub-1", true)
	require.NoError(t, err, "a malformed URL must not fail the delete")
	assert.Equal(t, [][]string{{"sub-1"}}, subs.deletedSets)

	require.Len(t, warnings, 1)
	assert.Equal(t, "https://elsewhere.example.com/images/a.png", warnings[0].URL)
	assert.Contains(t, warnings[0].Reason, "unrecognized")

	// The parseable sibling URL was still cleaned up.
	assert.Equal(t, []string{"subcategories/sub-1/a_thumb.png"}, assets.removed)
}

func TestDeleteSubCategoryRemoveFailureIsWarningOnly(t *testing.T) {
	c, _, subs, assets := newTestCatalog()
	subs.add(model.SubCategory{
		ID:         "sub-1",
		CategoryID: "cat-1",
		ImageURL:   publicURL("subcategories", "sub-1/a.png"),
		ThumbURL:   publicURL("subcategories", "sub-1/a_thumb.png"),
	})
	assets.failFor["subcategories/sub-1/a.png"] = errors.New("storage unavailable")

	warnings, err := c.DeleteSubCategory(context.Background(), "sub-1", true)
	require.NoError(t, err)
	require.Len(t, warnings, 1)
	assert.Contains(t, warnings[0].Reason, "storage unavailable")
	// One URL failing does not cancel the other.
	assert.Equal(t, []string{"subcategories/sub-1/a_thumb.png"}, assets.removed)
}

func TestBulkDeleteSubCategoriesGathersAllURLs(t *testing.T) {
	c, _, subs, assets := newTestCatalog()
	subs.add(model.SubCategory{
		ID:         "sub-1",
		CategoryID: "cat-1",
		ImageURL:   publicURL("subcategories", "sub-1/a.png"),
	})
	subs.add(model.SubCategory{ID: "sub-2", CategoryID: "cat-1"}) // no images

	warnings, err := c.BulkDeleteSubCategories(context.Background(), []string{"sub-1", "sub-2"}, true)
	require.NoError(t, err)
	assert.Empty(t, warnings)

	require.Len(t, subs.deletedSets, 1)
	assert.ElementsMatch(t, []string{"sub-1", "sub-2"}, subs.deletedSets[0])
	// Only the rows that actually carried images produce removals.
	assert.Equal(t, []string{"subcategories/sub-1/a.png"}, assets.removed)
}

func TestBulkDeleteSubCategoriesEmptyInput(t *testing.T) {
	c, _, subs, _ := newTestCatalog()
	warnings, err := c.BulkDeleteSubCategories(context.Background(), nil, true)
	require.NoError(t, err)
	assert.Empty(t, warnings)
	assert.Empty(t, subs.deletedSets)
}

func TestBulkDeleteCategoriesAbortsBeforeAnyDeletion(t *testing.T) {
	c, cats, subs, assets := newTestCatalog()
	subs.add(model.SubCategory{
		ID:         "sub-1",
		CategoryID: "cat-1",
		ImageURL:   publicURL("subcategories", "sub-1/a.png"),
	})
	subs.listErrFor["cat-2"] = errors.New("db down")

	_, err := c.BulkDeleteCategories(context.Background(), []string{"cat-1", "cat-2"})
	require.Error(t, err)
	// The failure names the category whose lookup broke the gather phase.
	assert.Contains(t, err.Error(), "cat-2")

	// Nothing at all was deleted, including cat-1's healthy dependents.
	assert.Empty(t, subs.deletedSets)
	assert.Empty(t, cats.deletedSets)
	assert.Empty(t, assets.removed)
}

func TestBulkDeleteCategoriesMergesDependents(t *testing.T) {
	c, cats, subs, assets := newTestCatalog()
	subs.add(model.SubCategory{
		ID:         "sub-1",
		CategoryID: "cat-1",
		ImageURL:   publicURL("subcategories", "sub-1/a.png"),
	})
	subs.add(model.SubCategory{
		ID:         "sub-2",
		CategoryID: "cat-2",
		ThumbURL:   publicURL("subcategories", "sub-2/b_thumb.png"),
	})

	warnings, err := c.BulkDeleteCategories(context.Background(), []string{"cat-1", "cat-2"})
	require.NoError(t, err)
	assert.Empty(t, warnings)

	// One batched dependent delete, then one batched parent delete.
	require.Len(t, subs.deletedSets, 1)
	assert.ElementsMatch(t, []string{"sub-1", "sub-2"}, subs.deletedSets[0])
	require.Len(t, cats.deletedSets, 1)
	assert.ElementsMatch(t, []string{"cat-1", "cat-2"}, cats.deletedSets[0])

	assert.ElementsMatch(t, []string{
		"subcategories/sub-1/a.png",
		"subcategories/sub-2/b_thumb.png",
	}, assets.removed)
}

func TestBulkDeleteCategoriesEmptyInput(t *testing.T) {
	c, cats, _, _ := newTestCatalog()
	warnings, err := c.BulkDeleteCategories(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, warnings)
	assert.Empty(t, cats.deletedSets)
}

func TestRemoveAssetURL(t *testing.T) {
	c, _, _, assets := newTestCatalog()

	w := c.RemoveAssetURL(context.Background(), publicURL("subcategories", "x/y.png"))
	assert.Nil(t, w)
	assert.Equal(t, []string{"subcategories/x/y.png"}, assets.removed)

	w = c.RemoveAssetURL(context.Background(), "not-a-storage-url")
	require.NotNil(t, w)
	assert.Equal(t, "not-a-storage-url", w.URL)
}

func TestCleanupWarningString(t *testing.T) {
	w := CleanupWarning{URL: "u", Reason: "r"}
	assert.Equal(t, fmt.Sprintf("asset cleanup skipped %q: %s", "u", "r"), w.String())
}
