package errors

import "errors"

var (
	ErrNotFound = errors.New("availability config not found")

	ErrInvalidID = errors.New("invalid practitioner ID format")

	ErrDateNotFound = errors.New("unavailable date not found")

	ErrDuplicateDate = errors.New("date is already marked unavailable")
)
