package photosource

import "errors"

var (
	ErrNotFound = errors.New("collection not found")
	ErrNoPhoto  = errors.New("photo not found")
)
