package domain

import "errors"

var (
	ErrBatchNotFound = errors.New("batch not found")
)
