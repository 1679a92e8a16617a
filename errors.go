package vkey

import "errors"

var (
	// ErrResourceUnavailable reports that the program image could not be read.
	ErrResourceUnavailable = errors.New("program image unavailable")
	// ErrSetupFailed reports that no verifying key could be derived.
	ErrSetupFailed = errors.New("setup failed")
)
