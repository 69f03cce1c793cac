package admin

import "errors"

var (
	ErrUserNotFound        = errors.New("user not found")
	ErrEmailExists         = errors.New("email already exists")
	ErrInvalidRole         = errors.New("invalid role")
	ErrSelfDemotion        = errors.New("cannot demote yourself")
	ErrSelfDeactivation    = errors.New("cannot deactivate yourself")
	ErrInvalidDate         = errors.New("invalid date")
	ErrNoLeadIDs           = errors.New("no lead ids")
	ErrQuestionNotFound    = errors.New("closure question not found")
	ErrInvalidClosureInput = errors.New("invalid closure question")
)
