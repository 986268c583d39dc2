package repository

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"github.com/rawaz/digital-menu/internal/model"
)

// FeedbackRepo provides access to the `feedback` table.
type FeedbackRepo struct {
	db *sql.DB
}

// NewFeedbackRepo constructs a FeedbackRepo with the given DB handle.
func NewFeedbackRepo(db *sql.DB) *FeedbackRepo {
	return &FeedbackRepo{db: db}
}

// Create inserts a feedback row and fills in its generated id and creation
// timestamp.
func (r *FeedbackRepo) Create(ctx context.Context, f *model.Feedback) error {
	f.ID = uuid.NewString()
	if _, err := r.db.ExecContext(ctx,
		`INSERT INTO feedback (id, restaurant_id, name, phone, message, rating) VALUES (?,?,?,?,?,?)`,
		f.ID, f.RestaurantID, f.Name, f.Phone, f.Message, f.Rating); err != nil {
		return err
	}
	return r.db.QueryRowContext(ctx,
		`SELECT created_at FROM feedback WHERE id=?`, f.ID).Scan(&f.CreatedAt)
}

// ListByRestaurant returns feedback newest-first with a hard cap so the
// back office cannot pull an unbounded result set.
func (r *FeedbackRepo) ListByRestaurant(ctx context.Context, restaurantID string, limit int) ([]model.Feedback, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, restaurant_id, name, COALESCE(phone,''), message, rating, created_at
		 FROM feedback WHERE restaurant_id=? ORDER BY created_at DESC LIMIT ?`,
		restaurantID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Feedback
	for rows.Next() {
		var f model.Feedback
		if err := rows.Scan(&f.ID, &f.RestaurantID, &f.Name, &f.Phone, &f.Message, &f.Rating, &f.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	return out, rows.Err()
}
