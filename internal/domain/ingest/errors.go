package ingest

import "errors"

// Sentinel error kinds for this package. Both mean the whole load failed.
var (
	ErrHeader = errors.New("unreadable table header")
	ErrRead   = errors.New("read table failed")
)
