package employee

import "errors"

var (
	ErrEmployeeNotFound = errors.New("employee not found")
	ErrInvalidTimeOfDay = errors.New("time of day must be in HH:MM format")
)
