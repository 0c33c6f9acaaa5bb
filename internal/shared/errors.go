package shared

import "fmt"

var (
	// Configuration errors
	ErrMissingConfig = fmt.Errorf("configuration not found")
	ErrInvalidConfig = fmt.Errorf("invalid configuration")

	// Store errors
	ErrUserNotFound  = fmt.Errorf("user not found")
	ErrEntryNotFound = fmt.Errorf("entry not found")

	// API errors
	ErrForbidden      = fmt.Errorf("entry belongs to another user")
	ErrInvalidInput   = fmt.Errorf("invalid input")
	ErrInvalidDate    = fmt.Errorf("invalid date format, should be YYYY-MM-DD")
	ErrMissingDate    = fmt.Errorf("no date provided")
	ErrAPIRequest     = fmt.Errorf("API request failed")
	ErrNotImplemented = fmt.Errorf("not implemented")

	// Audio preflight errors
	ErrFileTooLarge        = fmt.Errorf("file size is too large, must be under 25MB")
	ErrUnsupportedAudio    = fmt.Errorf("unsupported file type")
	ErrMissingArgument     = fmt.Errorf("missing required argument")
	ErrInvalidArgument     = fmt.Errorf("invalid argument")
	ErrRecordingUnreadable = fmt.Errorf("recording file unreadable")
)
