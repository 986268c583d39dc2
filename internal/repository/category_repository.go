package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/google/uuid"

	"github.com/rawaz/digital-menu/internal/model"
)

// CategoryRepo provides access to the `categories` table. Cascading
// deletion of a category's subcategories and their stored assets is
// sequenced by the catalog service, not here; this repo only touches
// category rows.
type CategoryRepo struct {
	db *sql.DB
}

// NewCategoryRepo constructs a CategoryRepo with the given DB handle.
func NewCategoryRepo(db *sql.DB) *CategoryRepo {
	return &CategoryRepo{db: db}
}

const categoryColumns = `id, restaurant_id, label_ku, label_ar, label_en, created_at, updated_at`

// Create inserts a category and fills in its generated id and timestamps.
func (r *CategoryRepo) Create(ctx context.Context, c *model.Category) error {
	c.ID = uuid.NewString()
	if _, err := r.db.ExecContext(ctx,
		`INSERT INTO categories (id, restaurant_id, label_ku, label_ar, label_en) VALUES (?,?,?,?,?)`,
		c.ID, c.RestaurantID, c.LabelKu, c.LabelAr, c.LabelEn); err != nil {
		return err
	}
	return r.db.QueryRowContext(ctx,
		`SELECT created_at, updated_at FROM categories WHERE id=?`, c.ID).
		Scan(&c.CreatedAt, &c.UpdatedAt)
}

// GetByID fetches one category.
func (r *CategoryRepo) GetByID(ctx context.Context, id string) (*model.Category, error) {
	var c model.Category
	err := r.db.QueryRowContext(ctx,
		`SELECT `+categoryColumns+` FROM categories WHERE id=? LIMIT 1`, id).
		Scan(&c.ID, &c.RestaurantID, &c.LabelKu, &c.LabelAr, &c.LabelEn, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &c, nil
}

// ListByRestaurant returns all categories of a restaurant in creation order.
func (r *CategoryRepo) ListByRestaurant(ctx context.Context, restaurantID string) ([]model.Category, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+categoryColumns+` FROM categories WHERE restaurant_id=? ORDER BY created_at`, restaurantID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Category
	for rows.Next() {
		var c model.Category
		if err := rows.Scan(&c.ID, &c.RestaurantID, &c.LabelKu, &c.LabelAr, &c.LabelEn, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// Update rewrites the three labels. ErrNotFound when the id matches no row.
func (r *CategoryRepo) Update(ctx context.Context, c *model.Category) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE categories SET label_ku=?, label_ar=?, label_en=? WHERE id=?`,
		c.LabelKu, c.LabelAr, c.LabelEn, c.ID)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteByID removes a single category row.
func (r *CategoryRepo) DeleteByID(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM categories WHERE id=?`, id)
	return err
}

// DeleteByIDs removes category rows in one batched statement. An empty id
// list is a no-op.
func (r *CategoryRepo) DeleteByIDs(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}
	q := `DELETE FROM categories WHERE id IN (?` + strings.Repeat(",?", len(ids)-1) + `)`
	_, err := r.db.ExecContext(ctx, q, args...)
	return err
}
