package pip

import "errors"

var (
	ErrPIPNotFound         = errors.New("pip not found")
	ErrInvalidTransition   = errors.New("pip status transition not allowed")
	ErrPIPClosed           = errors.New("pip is closed")
	ErrInvalidCheckIn      = errors.New("invalid check-in")
	ErrInvalidMilestone    = errors.New("invalid milestone review")
	ErrUnknownExpectation  = errors.New("expectation does not belong to pip")
	ErrAlreadyAcknowledged = errors.New("pip already acknowledged")
)
