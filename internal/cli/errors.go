package cli

// ClientError is an expected, user-facing failure: conflicting
// options, an unreadable script file, a rejected update statement, the
// unsupported gateway mode. Anything else reaching the dispatcher is
// treated as a defect and wrapped.
type ClientError struct {
	msg   string
	cause error
}

func newClientError(msg string) *ClientError {
	return &ClientError{msg: msg}
}

func wrapClientError(msg string, cause error) *ClientError {
	return &ClientError{msg: msg, cause: cause}
}

func (e *ClientError) Error() string {
	if e.cause != nil {
		return e.msg + ": " + e.cause.Error()
	}
	return e.msg
}

func (e *ClientError) Unwrap() error {
	return e.cause
}
