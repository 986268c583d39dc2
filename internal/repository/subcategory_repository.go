package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/google/uuid"

	"github.com/rawaz/digital-menu/internal/model"
)

// SubCategoryRepo provides access to the `sub_categories` table, including
// the batched lookups and deletes the cascade coordinator relies on.
type SubCategoryRepo struct {
	db *sql.DB
}

// NewSubCategoryRepo constructs a SubCategoryRepo with the given DB handle.
func NewSubCategoryRepo(db *sql.DB) *SubCategoryRepo {
	return &SubCategoryRepo{db: db}
}

const subCategoryColumns = `id, restaurant_id, category_id, label_ku, label_ar, label_en,
	COALESCE(image_url,''), COALESCE(thumbnail_url,''), created_at, updated_at`

func scanSubCategory(scan func(dest ...any) error) (model.SubCategory, error) {
	var s model.SubCategory
	err := scan(&s.ID, &s.RestaurantID, &s.CategoryID, &s.LabelKu, &s.LabelAr, &s.LabelEn,
		&s.ImageURL, &s.ThumbURL, &s.CreatedAt, &s.UpdatedAt)
	return s, err
}

// Create inserts a subcategory and fills in its generated id and timestamps.
// Image URLs start empty; they are set later through the upload flow.
func (r *SubCategoryRepo) Create(ctx context.Context, s *model.SubCategory) error {
	s.ID = uuid.NewString()
	if _, err := r.db.ExecContext(ctx,
		`INSERT INTO sub_categories (id, restaurant_id, category_id, label_ku, label_ar, label_en) VALUES (?,?,?,?,?,?)`,
		s.ID, s.RestaurantID, s.CategoryID, s.LabelKu, s.LabelAr, s.LabelEn); err != nil {
		return err
	}
	return r.db.QueryRowContext(ctx,
		`SELECT created_at, updated_at FROM sub_categories WHERE id=?`, s.ID).
		Scan(&s.CreatedAt, &s.UpdatedAt)
}

// GetByID fetches one subcategory.
func (r *SubCategoryRepo) GetByID(ctx context.Context, id string) (*model.SubCategory, error) {
	s, err := scanSubCategory(r.db.QueryRowContext(ctx,
		`SELECT `+subCategoryColumns+` FROM sub_categories WHERE id=? LIMIT 1`, id).Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &s, nil
}

// ListByCategory returns all subcategories under a category.
func (r *SubCategoryRepo) ListByCategory(ctx context.Context, categoryID string) ([]model.SubCategory, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+subCategoryColumns+` FROM sub_categories WHERE category_id=? ORDER BY created_at`, categoryID)
	if err != nil {
		return nil, err
	}
	return collectSubCategories(rows)
}

// ListByIDs returns the rows matching the given ids in one query. The
// cascade coordinator uses it to collect asset URLs before a batched
// delete. Missing ids are silently absent from the result.
func (r *SubCategoryRepo) ListByIDs(ctx context.Context, ids []string) ([]model.SubCategory, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}
	q := `SELECT ` + subCategoryColumns + ` FROM sub_categories WHERE id IN (?` + strings.Repeat(",?", len(ids)-1) + `)`
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	return collectSubCategories(rows)
}

func collectSubCategories(rows *sql.Rows) ([]model.SubCategory, error) {
	defer rows.Close()
	var out []model.SubCategory
	for rows.Next() {
		s, err := scanSubCategory(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// Update rewrites the labels. ErrNotFound when the id matches no row.
func (r *SubCategoryRepo) Update(ctx context.Context, s *model.SubCategory) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE sub_categories SET label_ku=?, label_ar=?, label_en=? WHERE id=?`,
		s.LabelKu, s.LabelAr, s.LabelEn, s.ID)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}

// UpdateImageURLs points the row at a new image/thumbnail pair. The upload
// flow stores the new objects first and calls this before removing the old
// ones, so a failure here never leaves the row referencing deleted assets.
func (r *SubCategoryRepo) UpdateImageURLs(ctx context.Context, id, imageURL, thumbURL string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE sub_categories SET image_url=?, thumbnail_url=? WHERE id=?`,
		imageURL, thumbURL, id)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteByIDs removes subcategory rows in one batched statement. An empty
// id list is a no-op.
func (r *SubCategoryRepo) DeleteByIDs(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}
	q := `DELETE FROM sub_categories WHERE id IN (?` + strings.Repeat(",?", len(ids)-1) + `)`
	_, err := r.db.ExecContext(ctx, q, args...)
	return err
}
