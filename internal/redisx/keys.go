package redisx

import "time"

const (
	// Cached product record: product:{id} -> JSON catalog.Product
	KeyProduct = "product:%s"

	// Cached mock session record, survives api restarts: session:mock
	KeySession = "session:mock"

	// Dedup for stock-worker event processing: dedup:{service}:{event_id}
	KeyDedup = "dedup:%s:%s"
)

var (
	TTLProductCache = 5 * time.Minute
	TTLDedup        = 48 * time.Hour
)
