package entity

import "errors"

var (
	ErrFetchFailure       = errors.New("background fetch failed")
	ErrDecodeFailure      = errors.New("background decode failed")
	ErrPersistenceFailure = errors.New("persistence failed")
	ErrNotFound           = errors.New("not found")
	ErrInvalidEmoji       = errors.New("text is not a single emoji")
)
