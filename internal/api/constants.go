package api

// API limits and constants.
const (
	// MaxImageUploadSize is the maximum allowed size for image uploads (10 MB).
	MaxImageUploadSize = 10 << 20
)

// Cache-Control header values.
const (
	CacheOneDay  = "public, max-age=86400"
	CacheNoStore = "no-cache"
)
