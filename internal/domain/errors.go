package domain

import "errors"

// Sentinel errors used across layers.
var (
	ErrNotConnected = errors.New("lyrics provider not connected")
	ErrNoLyrics     = errors.New("no lyrics available")
	ErrBadSignal    = errors.New("malformed signal payload")
)
