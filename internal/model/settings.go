package model

import "time"

// Settings holds per-restaurant presentation and contact configuration
// edited in the back office and served read-only to the public menu. One
// row per restaurant in the `settings` table, keyed by restaurant id.
type Settings struct {
	RestaurantID string    `json:"restaurant_id"`
	NameKu       string    `json:"name_ku"`
	NameAr       string    `json:"name_ar"`
	NameEn       string    `json:"name_en"`
	Phone        string    `json:"phone,omitempty"`
	Address      string    `json:"address,omitempty"`
	Instagram    string    `json:"instagram,omitempty"`
	Facebook     string    `json:"facebook,omitempty"`
	PrimaryColor string    `json:"primary_color,omitempty"`
	LogoURL      string    `json:"logo_url,omitempty"`
	UpdatedAt    time.Time `json:"updated_at"`
}
