package shared

import "fmt"

var (
	// Configuration errors
	ErrMissingConfig      = fmt.Errorf("configuration not found")
	ErrInvalidConfig      = fmt.Errorf("invalid configuration")
	ErrMissingCredentials = fmt.Errorf("missing credentials")

	// Authentication errors
	ErrAuthFailed       = fmt.Errorf("authentication failed")
	ErrNotAuthenticated = fmt.Errorf("not authenticated")
	ErrInvalidToken     = fmt.Errorf("stored token rejected by catalog")
	ErrTimeout          = fmt.Errorf("operation timed out")

	// Catalog and service errors
	ErrAPIRequest         = fmt.Errorf("API request failed")
	ErrServiceUnavailable = fmt.Errorf("service unavailable")
	ErrTrackNotFound      = fmt.Errorf("track not found")

	// Input validation errors
	ErrInvalidInput    = fmt.Errorf("invalid input")
	ErrEmptyWorkList   = fmt.Errorf("no non-blank input lines")
	ErrBlankName       = fmt.Errorf("playlist name is blank")
	ErrInvalidArgument = fmt.Errorf("invalid argument")
)
