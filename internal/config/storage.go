package config

// StorageConfig describes the S3-compatible object store holding menu
// images. PublicBaseURL is the externally reachable origin under which
// objects are served; row URLs are built from it and parsed back into
// (bucket, path) pairs during cleanup.
type StorageConfig struct {
	Endpoint       string // host:port or full URL of the S3 endpoint
	Region         string
	AccessKey      string
	SecretKey      string
	Bucket         string // bucket holding subcategory images
	PublicBaseURL  string // e.g. https://cdn.example.com
	ForcePathStyle bool
	DisableTLS     bool
}

// LoadStorageConfig reads S3_* variables. Endpoint and credentials are
// required; the bucket defaults to "subcategories" to match the asset URLs
// written by earlier deployments.
func LoadStorageConfig() StorageConfig {
	return StorageConfig{
		Endpoint:       must("S3_ENDPOINT"),
		Region:         envStr("S3_REGION", "us-east-1"),
		AccessKey:      must("S3_ACCESS_KEY"),
		SecretKey:      must("S3_SECRET_KEY"),
		Bucket:         envStr("S3_BUCKET", "subcategories"),
		PublicBaseURL:  must("S3_PUBLIC_BASE_URL"),
		ForcePathStyle: envBool("S3_FORCE_PATH_STYLE", true),
		DisableTLS:     envBool("S3_DISABLE_TLS", false),
	}
}
