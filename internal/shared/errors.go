package shared

import "fmt"

var (
	ErrNotImplemented = fmt.Errorf("not implemented")

	// Configuration errors
	ErrMissingConfig = fmt.Errorf("configuration not found")
	ErrInvalidConfig = fmt.Errorf("invalid configuration")

	// API and transport errors
	ErrAPIRequest         = fmt.Errorf("API request failed")
	ErrServiceUnavailable = fmt.Errorf("service unavailable")
	ErrDecodeResponse     = fmt.Errorf("unexpected response shape")
	ErrTimeout            = fmt.Errorf("operation timed out")
	ErrStaleResponse      = fmt.Errorf("stale response discarded")

	// Library errors
	ErrGameNotFound = fmt.Errorf("game not found")
	ErrJobNotFound  = fmt.Errorf("job not found")

	// Input validation errors
	ErrInvalidInput    = fmt.Errorf("invalid input")
	ErrMissingArgument = fmt.Errorf("missing required argument")
	ErrInvalidArgument = fmt.Errorf("invalid argument")
	ErrInvalidFlag     = fmt.Errorf("invalid flag value")
)
