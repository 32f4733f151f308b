package api

// ErrorKind classifies every failure the client can surface. Callers handle
// a closed set instead of inspecting transport details.
type ErrorKind int

const (
	// KindValidation is a client-side check that failed before any request
	// was sent (empty field, short password, missing reset token).
	KindValidation ErrorKind = iota
	// KindServer means the server responded with an error status; Message
	// carries the server-provided text verbatim.
	KindServer
	// KindConnectivity means the request was sent but no response arrived.
	KindConnectivity
	// KindSetup means the request could not even be constructed.
	KindSetup
)

func (k ErrorKind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindServer:
		return "server"
	case KindConnectivity:
		return "connectivity"
	case KindSetup:
		return "setup"
	default:
		return "unknown"
	}
}

// Fixed user-facing messages for the non-server kinds.
const (
	connectivityMessage = "Unable to connect to the server. Please check your connection and try again."
	setupMessage        = "An error occurred while processing your request."
	serverFallback      = "An error occurred with the request"
)

// Error is the normalized error contract of the API client. Message is
// always safe to show to the user.
type Error struct {
	Kind    ErrorKind
	Message string
	Status  int // HTTP status for KindServer, zero otherwise
	cause   error
}

func (e *Error) Error() string { return e.Message }

func (e *Error) Unwrap() error { return e.cause }

// NewValidationError reports a client-side validation failure.
func NewValidationError(message string) *Error {
	return &Error{Kind: KindValidation, Message: message}
}

func newServerError(status int, message string, cause error) *Error {
	if message == "" {
		message = serverFallback
	}
	return &Error{Kind: KindServer, Message: message, Status: status, cause: cause}
}

func newConnectivityError(cause error) *Error {
	return &Error{Kind: KindConnectivity, Message: connectivityMessage, cause: cause}
}

func newSetupError(cause error) *Error {
	return &Error{Kind: KindSetup, Message: setupMessage, cause: cause}
}
