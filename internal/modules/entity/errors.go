package entity

import "errors"

var (
	ErrInvalidType = errors.New("invalid entity type")
	ErrNotFound    = errors.New("entity not found")
	ErrNoLeads     = errors.New("no leads for entity")
	ErrShortQuery  = errors.New("search query too short")
)
