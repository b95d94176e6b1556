package domain

import "errors"

var (
	ErrNotFound          = errors.New("invoice not found")
	ErrNoDraft           = errors.New("no invoice draft in progress")
	ErrInvalidTransition = errors.New("invalid page transition")
	ErrRequestInFlight   = errors.New("a request from this control is already in flight")
	ErrDuplicateTaxID    = errors.New("issuer tax id already registered")
	ErrUnsupportedFormat = errors.New("unsupported export format")
)
