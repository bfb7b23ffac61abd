package error

import "errors"

var (
	ErrMissingUserID  = errors.New("user_id is required")
	ErrMissingMessage = errors.New("message is required")
	ErrNoChoices      = errors.New("no completion choices in API response")
	ErrNoMessage      = errors.New("completion choice has no message")
	ErrUpstreamStatus = errors.New("upstream returned non-2xx status")
)
