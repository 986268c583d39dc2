package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/rawaz/digital-menu/internal/model"
)

// SettingsRepo provides access to the single-row-per-restaurant `settings`
// table.
type SettingsRepo struct {
	db *sql.DB
}

// NewSettingsRepo constructs a SettingsRepo with the given DB handle.
func NewSettingsRepo(db *sql.DB) *SettingsRepo {
	return &SettingsRepo{db: db}
}

// Get returns the settings row for a restaurant.
func (r *SettingsRepo) Get(ctx context.Context, restaurantID string) (*model.Settings, error) {
	var s model.Settings
	err := r.db.QueryRowContext(ctx,
		`SELECT restaurant_id, name_ku, name_ar, name_en,
		        COALESCE(phone,''), COALESCE(address,''), COALESCE(instagram,''),
		        COALESCE(facebook,''), COALESCE(primary_color,''), COALESCE(logo_url,''), updated_at
		 FROM settings WHERE restaurant_id=? LIMIT 1`,
		restaurantID).Scan(&s.RestaurantID, &s.NameKu, &s.NameAr, &s.NameEn,
		&s.Phone, &s.Address, &s.Instagram, &s.Facebook, &s.PrimaryColor, &s.LogoURL, &s.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &s, nil
}

// Upsert writes the settings row, creating it on first save.
func (r *SettingsRepo) Upsert(ctx context.Context, s *model.Settings) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO settings (restaurant_id, name_ku, name_ar, name_en, phone, address, instagram, facebook, primary_color, logo_url)
		 VALUES (?,?,?,?,?,?,?,?,?,?)
		 ON DUPLICATE KEY UPDATE
		   name_ku=VALUES(name_ku), name_ar=VALUES(name_ar), name_en=VALUES(name_en),
		   phone=VALUES(phone), address=VALUES(address), instagram=VALUES(instagram),
		   facebook=VALUES(facebook), primary_color=VALUES(primary_color), logo_url=VALUES(logo_url)`,
		s.RestaurantID, s.NameKu, s.NameAr, s.NameEn, s.Phone, s.Address,
		s.Instagram, s.Facebook, s.PrimaryColor, s.LogoURL)
	return err
}
