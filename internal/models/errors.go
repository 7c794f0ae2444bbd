package models

import (
	"errors"
)

var (
	ErrNoRecord           = errors.New("models: no matching record found")
	ErrInvalidCredentials = errors.New("models: invalid credentials")
	ErrDuplicateEmail     = errors.New("models: duplicate email")
	ErrNoSession          = errors.New("models: no active session")
	ErrSessionExpired     = errors.New("models: session expired")
)

var (
	ErrListingNotFound      = errors.New("listing not found")
	ErrConversationNotFound = errors.New("conversation not found")
	ErrInvalidStatus        = errors.New("invalid listing status")
	ErrJobNotFound          = errors.New("job not found")
	ErrNoActiveJob          = errors.New("no active job")
	ErrJobNotReady          = errors.New("job still processing")
	ErrJobFailed            = errors.New("job failed")
	ErrNoObjectsDetected    = errors.New("no resellable objects detected")
	ErrNoSelection          = errors.New("no objects selected")
	ErrUnknownObject        = errors.New("unknown detected object")
)

var (
	ErrNoFile               = errors.New("no file provided")
	ErrInvalidFileType      = errors.New("invalid file type")
	ErrFileTooLarge         = errors.New("file too large")
	ErrAssistantUnavailable = errors.New("assistant service unavailable")
)
