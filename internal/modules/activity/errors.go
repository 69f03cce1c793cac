package activity

import "errors"

var (
	ErrLeadNotFound   = errors.New("lead not found")
	ErrInvalidRequest = errors.New("invalid request")
)
