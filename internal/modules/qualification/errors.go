package qualification

import "errors"

var (
	ErrLeadNotFound     = errors.New("lead not found")
	ErrQuestionNotFound = errors.New("question not found")
)
