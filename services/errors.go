package services

import (
	"errors"
	"fmt"
)

// ErrorCode classifies a failed operation; handlers map it to an HTTP status.
type ErrorCode string

const (
	CodeInvalidArgument    ErrorCode = "invalid-argument"
	CodeUnauthenticated    ErrorCode = "unauthenticated"
	CodePermissionDenied   ErrorCode = "permission-denied"
	CodeNotFound           ErrorCode = "not-found"
	CodeFailedPrecondition ErrorCode = "failed-precondition"
	CodeInternal           ErrorCode = "internal"
)

// Error is a coded, user-facing failure. Err holds the sentinel so callers
// can match with errors.Is.
type Error struct {
	Code    ErrorCode
	Message string
	Err     error
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

func newError(code ErrorCode, sentinel error, format string, args ...interface{}) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...), Err: sentinel}
}

// CodeOf returns the code carried by err, or CodeInternal for uncoded errors.
func CodeOf(err error) ErrorCode {
	var coded *Error
	if errors.As(err, &coded) {
		return coded.Code
	}
	return CodeInternal
}

var (
	// Validation
	ErrValidationFailed        = errors.New("validation failed")
	ErrInvalidEventType        = errors.New("invalid event type")
	ErrInvalidFormat           = errors.New("invalid tournament format")
	ErrInvalidParticipantRange = errors.New("invalid participant range")
	ErrInvalidTournamentDates  = errors.New("invalid tournament dates")
	ErrInvalidStatus           = errors.New("invalid tournament status")
	ErrPartnerOnSingles        = errors.New("partner not allowed for singles")
	ErrTeamRequiresDoubles     = errors.New("team registration requires doubles")
	ErrInvalidRole             = errors.New("invalid membership role")
	ErrPasswordTooShort        = errors.New("password is too short")
	ErrInvalidFile             = errors.New("invalid file")

	// State
	ErrRegistrationNotOpen      = errors.New("tournament registration is not open")
	ErrTournamentFull           = errors.New("tournament registration is full")
	ErrAlreadyRegistered        = errors.New("already registered for this tournament")
	ErrInvalidStatusTransition  = errors.New("invalid tournament status transition")
	ErrInsufficientParticipants = errors.New("not enough participants to start")
	ErrApplicationExists        = errors.New("application already exists")
	ErrApplicationNotPending    = errors.New("application is not pending")
	ErrEventFull                = errors.New("event is at capacity")
	ErrEmailTaken               = errors.New("email is already taken")

	// Authorization
	ErrInvalidCredentials   = errors.New("invalid email or password")
	ErrNotClubAdmin         = errors.New("caller is not a club admin")
	ErrNotHostOrAdmin       = errors.New("caller is neither tournament host nor club admin")
	ErrSelfRegistrationOnly = errors.New("users can only register themselves")
	ErrNotTeamMember        = errors.New("caller is not a member of the team")
	ErrNotEventHost         = errors.New("caller is not the event host")

	// Lookups
	ErrUserNotFound        = errors.New("user not found")
	ErrPartnerNotFound     = errors.New("partner not found")
	ErrClubNotFound        = errors.New("club not found")
	ErrTeamNotFound        = errors.New("team not found")
	ErrTournamentNotFound  = errors.New("tournament not found")
	ErrApplicationNotFound = errors.New("application not found")
	ErrEventNotFound       = errors.New("event not found")

	// Data integrity
	ErrApplicationMalformed = errors.New("application record is malformed")
	ErrStorageUnavailable   = errors.New("file storage is not configured")
)
