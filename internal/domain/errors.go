package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors for server-side operations.
var (
	ErrNotFound           = errors.New("not found")
	ErrForbidden          = errors.New("forbidden")
	ErrInvalidInput       = errors.New("invalid input")
	ErrDuplicateClub      = errors.New("duplicate club id")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// ValidationError is a local precondition failure. No state was changed and no request was sent.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// Validation failures returned by the mutation engine. Compare with errors.Is.
var (
	ErrClubNotFound     = &ValidationError{Message: "Club not found"}
	ErrNotAllowed       = &ValidationError{Message: "Not allowed"}
	ErrAtCapacity       = &ValidationError{Message: "At capacity"}
	ErrAlreadyHeld      = &ValidationError{Message: "Already held"}
	ErrNoSpotHeld       = &ValidationError{Message: "No spot held"}
	ErrAlreadyMember    = &ValidationError{Message: "Already a member"}
	ErrMemberNotFound   = &ValidationError{Message: "Member not found"}
	ErrEventNotFound    = &ValidationError{Message: "Event not found"}
	ErrNameRequired     = &ValidationError{Message: "Name is required"}
	ErrNegativeCapacity = &ValidationError{Message: "Capacity must be zero or more"}
)

// DefaultNetworkMessage is shown when a failed response carries no message.
const DefaultNetworkMessage = "Request failed"

// NetworkError is a failed remote call. Message is suitable for display.
type NetworkError struct {
	Op      string
	Status  int
	Message string
	Err     error
}

func (e *NetworkError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("%s: status %d: %s", e.Op, e.Status, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Op, e.Message)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// DisplayMessage extracts the user-facing text of err, falling back to DefaultNetworkMessage.
func DisplayMessage(err error) string {
	var netErr *NetworkError
	if errors.As(err, &netErr) && netErr.Message != "" {
		return netErr.Message
	}
	var verr *ValidationError
	if errors.As(err, &verr) {
		return verr.Message
	}
	if err != nil && err.Error() != "" {
		return err.Error()
	}
	return DefaultNetworkMessage
}
