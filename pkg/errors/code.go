package errors

// ErrorCode represents a unique error identifier
type ErrorCode int

// Error code ranges allocation:
// 10000-10999: System & Common errors
// 11000-11999: Participant & Session errors
// 12000-12999: Challenge catalog errors
// 13000-13999: Submission & Sandbox errors
// 14000-14999: Matchmaking & Battle room errors

const (
	// ========== System & Common Errors (10000-10999) ==========

	// Success
	Success ErrorCode = 10000

	// Generic errors (10000-10099)
	InternalServerError ErrorCode = 10001
	InvalidParams       ErrorCode = 10002
	NotFound            ErrorCode = 10003
	TooManyRequests     ErrorCode = 10004
	ServiceUnavailable  ErrorCode = 10005
	Timeout             ErrorCode = 10006

	// Validation errors (10300-10399)
	ValidationFailed   ErrorCode = 10300
	InvalidFormat      ErrorCode = 10301
	InvalidValue       ErrorCode = 10302
	RequiredFieldEmpty ErrorCode = 10303

	// ========== Participant & Session Errors (11000-11999) ==========

	UserNotRegistered ErrorCode = 11000
	UserNotFound      ErrorCode = 11001
	SessionNotFound   ErrorCode = 11002
	InvalidUsername   ErrorCode = 11003

	// ========== Challenge Catalog Errors (12000-12999) ==========

	ChallengeNotFound ErrorCode = 12000
	InvalidChallenge  ErrorCode = 12001

	// ========== Submission & Sandbox Errors (13000-13999) ==========

	// Submission intake (13000-13099)
	SourceTooLarge     ErrorCode = 13000
	ForbiddenImport    ErrorCode = 13001
	SubmissionInFlight ErrorCode = 13002

	// Sandbox execution (13100-13199)
	SandboxUnavailable   ErrorCode = 13100
	SandboxLaunchFailed  ErrorCode = 13101
	ExecutionTimeout     ErrorCode = 13102
	ExecutionFormatError ErrorCode = 13103
	OutputLimitExceeded  ErrorCode = 13104

	// ========== Matchmaking & Battle Room Errors (14000-14999) ==========

	// Queue (14000-14099)
	NotInQueue ErrorCode = 14000

	// Battle rooms (14100-14199)
	RoomNotFound        ErrorCode = 14100
	PlayerNotInRoom     ErrorCode = 14101
	RoomNotStartable    ErrorCode = 14102
	RoomAlreadyFinished ErrorCode = 14103
)

// errorMessages maps error codes to their default English messages
var errorMessages = map[ErrorCode]string{
	// System & Common
	Success:             "Success",
	InternalServerError: "Internal server error",
	InvalidParams:       "Invalid parameters",
	NotFound:            "Resource not found",
	TooManyRequests:     "Too many requests, please try again later",
	ServiceUnavailable:  "Service temporarily unavailable",
	Timeout:             "Request timeout",

	// Validation
	ValidationFailed:   "Validation failed",
	InvalidFormat:      "Invalid format",
	InvalidValue:       "Invalid value",
	RequiredFieldEmpty: "Required field is empty",

	// Participant & Session
	UserNotRegistered: "User is not registered",
	UserNotFound:      "User not found",
	SessionNotFound:   "Session not found",
	InvalidUsername:   "Invalid username format",

	// Challenge catalog
	ChallengeNotFound: "Challenge not found",
	InvalidChallenge:  "Invalid challenge definition",

	// Submission intake
	SourceTooLarge:     "Submitted code is too large",
	ForbiddenImport:    "Submitted code uses forbidden modules",
	SubmissionInFlight: "A submission is already being evaluated",

	// Sandbox execution
	SandboxUnavailable:   "Execution sandbox is unavailable",
	SandboxLaunchFailed:  "Failed to launch execution sandbox",
	ExecutionTimeout:     "Code execution timed out",
	ExecutionFormatError: "Execution produced an unreadable result",
	OutputLimitExceeded:  "Execution output limit exceeded",

	// Queue
	NotInQueue: "User is not in the matchmaking queue",

	// Battle rooms
	RoomNotFound:        "Battle room not found",
	PlayerNotInRoom:     "Player is not part of this battle room",
	RoomNotStartable:    "Battle room cannot be started in its current state",
	RoomAlreadyFinished: "Battle room has already finished",
}

// Message returns the default message for the error code
func (c ErrorCode) Message() string {
	if msg, ok := errorMessages[c]; ok {
		return msg
	}
	return "Unknown error"
}

// HTTPStatus returns the recommended HTTP status code for the error code
func (c ErrorCode) HTTPStatus() int {
	switch {
	case c == Success:
		return 200
	case c == NotFound, c == UserNotFound, c == SessionNotFound,
		c == ChallengeNotFound, c == RoomNotFound:
		return 404
	case c == TooManyRequests, c == SubmissionInFlight:
		return 429
	case c == ServiceUnavailable, c == SandboxUnavailable:
		return 503
	case c >= 10300 && c < 10400: // Validation errors
		return 400
	case c == InvalidParams, c == SourceTooLarge, c == ForbiddenImport,
		c == UserNotRegistered, c == InvalidUsername, c == NotInQueue,
		c == PlayerNotInRoom:
		return 400
	case c == RoomNotStartable, c == RoomAlreadyFinished:
		return 409
	default:
		return 500
	}
}
