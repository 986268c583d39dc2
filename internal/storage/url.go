package storage

import "strings"

// Object URLs written by this application and by the previous hosted
// deployment both embed the bucket and object path after one of two fixed
// markers. The public marker is tried first because the signed marker is a
// prefix of it.
const (
	publicMarker = "/storage/v1/object/public/"
	signedMarker = "/storage/v1/object/"
)

// ParseObjectURL recovers the (bucket, path) pair from an asset URL. The
// second return is false when the URL matches neither marker or lacks a
// distinguishable bucket and path; callers must treat that as "skip with a
// warning", never as a fatal error, so one malformed legacy URL cannot
// block the rest of a cleanup pass.
func ParseObjectURL(raw string) (bucket, path string, ok bool) {
	rest, found := after(raw, publicMarker)
	if !found {
		rest, found = after(raw, signedMarker)
	}
	if !found {
		return "", "", false
	}
	// Drop query string and fragment; signed URLs carry tokens there.
	if i := strings.IndexAny(rest, "?#"); i >= 0 {
		rest = rest[:i]
	}
	bucket, path, found = strings.Cut(rest, "/")
	if !found || bucket == "" || path == "" {
		return "", "", false
	}
	return bucket, path, true
}

func after(s, marker string) (string, bool) {
	i := strings.Index(s, marker)
	if i < 0 {
		return "", false
	}
	return s[i+len(marker):], true
}

// BuildPublicURL is the inverse of ParseObjectURL for objects this service
// uploads itself: base is the externally reachable origin of the object
// store.
func BuildPublicURL(base, bucket, path string) string {
	return strings.TrimRight(base, "/") + publicMarker + bucket + "/" + path
}
