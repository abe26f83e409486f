package model

import "errors"

// Sentinel errors for ingredient and recipe field values.
var (
	ErrEmptyName         = errors.New("name is empty")
	ErrUnknownUnit       = errors.New("unknown unit")
	ErrUnknownDifficulty = errors.New("unknown difficulty")
	ErrNegativeAmount    = errors.New("amount must not be negative")
	ErrQuantityFree      = errors.New("unit takes no numeric amount")
)
