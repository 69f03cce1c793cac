package forecast

import "errors"

var (
	ErrInvalidHorizon = errors.New("horizon must be 3, 6, or 12 months")
	ErrLLMDisabled    = errors.New("llm api key not configured")
	ErrUnparsable     = errors.New("llm reply is not a forecast")
)
