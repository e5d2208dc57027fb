package geoart

import "errors"

var (
	// ErrClosed is returned by App methods called after Close.
	ErrClosed = errors.New("geoart: app closed")

	// ErrInvalidSize is returned for a non-positive viewport size.
	ErrInvalidSize = errors.New("geoart: invalid viewport size")
)
