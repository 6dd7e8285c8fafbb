package repository

import "errors"

// Sentinel kinds for base table errors.
var (
	ErrNotLoaded     = errors.New("ranking table not loaded")
	ErrAlreadyLoaded = errors.New("ranking table already loaded")
	ErrLoadFailed    = errors.New("ranking table load failed")
)
