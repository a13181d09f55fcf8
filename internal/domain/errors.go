package domain

import "errors"

var (
	ErrNotFound             = errors.New("not found")
	ErrInvalidInput         = errors.New("invalid input")
	ErrCurrencyNotAvailable = errors.New("currency not available")
	ErrInvalidSeasonPeriod  = errors.New("invalid season period")
)
