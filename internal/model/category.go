package model

import "time"

// Category is a top-level menu section with one label per supported
// language. A category owns zero or more subcategories; deleting a category
// deletes all of its subcategories first. Corresponds to the `categories`
// table.
type Category struct {
	ID           string    `json:"id"`
	RestaurantID string    `json:"restaurant_id"`
	LabelKu      string    `json:"label_ku"`
	LabelAr      string    `json:"label_ar"`
	LabelEn      string    `json:"label_en"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// SubCategory is a menu section nested under a category. It may reference
// an image and a thumbnail stored in the object store; both URLs are empty
// when no asset has been uploaded. Corresponds to the `sub_categories`
// table.
//
// Invariant: while ImageURL/ThumbURL are non-empty the referenced objects
// exist in the asset store; deleting a subcategory removes its assets so no
// orphaned objects remain.
type SubCategory struct {
	ID           string    `json:"id"`
	RestaurantID string    `json:"restaurant_id"`
	CategoryID   string    `json:"category_id"`
	LabelKu      string    `json:"label_ku"`
	LabelAr      string    `json:"label_ar"`
	LabelEn      string    `json:"label_en"`
	ImageURL     string    `json:"image_url,omitempty"`
	ThumbURL     string    `json:"thumbnail_url,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
