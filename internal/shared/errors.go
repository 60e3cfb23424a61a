package shared

import "fmt"

var (
	ErrNotImplemented = fmt.Errorf("not implemented")

	// Configuration errors
	ErrMissingConfig      = fmt.Errorf("configuration not found")
	ErrInvalidConfig      = fmt.Errorf("invalid configuration")
	ErrMissingCredentials = fmt.Errorf("missing credentials")

	// Authentication errors
	ErrAuthFailed      = fmt.Errorf("authentication failed")
	ErrNotLoggedIn     = fmt.Errorf("not logged in")
	ErrTokenExpired    = fmt.Errorf("access token expired")
	ErrSessionInvalid  = fmt.Errorf("session invalidated")
	ErrVerifierMissing = fmt.Errorf("no code verifier persisted")
	ErrTimeout         = fmt.Errorf("operation timed out")

	// API and service errors
	ErrAPIRequest         = fmt.Errorf("API request failed")
	ErrServiceUnavailable = fmt.Errorf("service unavailable")
	ErrNoResult           = fmt.Errorf("no playlist resolved")

	// Detection errors
	ErrCameraUnavailable = fmt.Errorf("camera unavailable")
	ErrSessionBusy       = fmt.Errorf("detection cycle already in flight")
	ErrNoObservation     = fmt.Errorf("no locked observation")

	// Input validation errors
	ErrInvalidInput    = fmt.Errorf("invalid input")
	ErrMissingArgument = fmt.Errorf("missing required argument")
	ErrInvalidArgument = fmt.Errorf("invalid argument")
)
