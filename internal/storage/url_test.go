package storage

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseObjectURL(t *testing.T) {
	tests := []struct {
		name   string
		raw    string
		bucket string
		path   string
		ok     bool
	}{
		{
			name:   "public url",
			raw:    "https://x/storage/v1/object/public/subcategories/a.png",
			bucket: "subcategories",
			path:   "a.png",
			ok:     true,
		},
		{
			name:   "signed url",
			raw:    "https://x/storage/v1/object/menu-images/dish/9f2.webp?token=abc",
			bucket: "menu-images",
			path:   "dish/9f2.webp",
			ok:     true,
		},
		{
			name:   "nested path",
			raw:    "https://cdn.example.com/storage/v1/object/public/subcategories/cat1/sub2/thumb.jpg",
			bucket: "subcategories",
			path:   "cat1/sub2/thumb.jpg",
			ok:     true,
		},
		{name: "no marker", raw: "https://x/images/a.png"},
		{name: "marker but no path", raw: "https://x/storage/v1/object/public/onlybucket"},
		{name: "marker but empty path", raw: "https://x/storage/v1/object/public/bucket/"},
		{name: "empty string", raw: ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bucket, path, ok := ParseObjectURL(tt.raw)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.bucket, bucket)
			assert.Equal(t, tt.path, path)
		})
	}
}

func TestBuildPublicURLRoundTrip(t *testing.T) {
	url := BuildPublicURL("https://cdn.example.com/", "subcategories", "sub1/a.png")
	assert.Equal(t, "https://cdn.example.com/storage/v1/object/public/subcategories/sub1/a.png", url)

	bucket, path, ok := ParseObjectURL(url)
	assert.True(t, ok)
	assert.Equal(t, "subcategories", bucket)
	assert.Equal(t, "sub1/a.png", path)
}
