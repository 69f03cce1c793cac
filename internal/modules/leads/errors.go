package leads

import "errors"

var (
	ErrLeadNotFound = errors.New("lead not found")
	ErrNoLeads      = errors.New("no leads found matching criteria")
)
