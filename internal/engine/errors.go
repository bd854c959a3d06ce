package engine

// The engine surfaces every failure as one of the typed errors below. The
// HTTP layer maps them to status codes; nothing crosses the boundary as a
// generic failure.

// ValidationError reports missing, oversized or malformed input. The caller
// can recover by resubmitting corrected input.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// AuthRequiredError reports an action that needs an authenticated identity.
// The message is surfaced verbatim to the user.
type AuthRequiredError struct {
	Message string
}

func (e *AuthRequiredError) Error() string { return e.Message }

// NotFoundError reports a reference to a question, answer or tag that does
// not exist.
type NotFoundError struct {
	Message string
}

func (e *NotFoundError) Error() string { return e.Message }

// ConflictError reports a concurrent-write race that persisted after the
// engine's bounded internal retries.
type ConflictError struct {
	Message string
}

func (e *ConflictError) Error() string { return e.Message }

// InvalidArgumentError reports an unknown ordering key or similar bad
// programmatic argument.
type InvalidArgumentError struct {
	Message string
}

func (e *InvalidArgumentError) Error() string { return e.Message }

func errAuthRequired() *AuthRequiredError {
	return &AuthRequiredError{Message: "You need to log in first."}
}
