package models

import "errors"

var (
	ErrStationNotFound = errors.New("station not found")
	ErrLineNotFound    = errors.New("line not found")
	ErrTrainNotFound   = errors.New("train not found")

	// ErrDifferentLines is returned when two stations share no line, so no
	// single-line route exists between them.
	ErrDifferentLines = errors.New("stations are on different lines")
)
