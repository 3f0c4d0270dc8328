package client

import "fmt"

// ClientError is a 4xx insurer response: the request itself is wrong, so
// retrying would only burn the budget. Carries the insurer-provided code and
// message when the error body parsed.
type ClientError struct {
	StatusCode int
	Code       string
	Message    string
}

func (e *ClientError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("insurer rejected request: status %d, code %s: %s", e.StatusCode, e.Code, e.Message)
	}
	return fmt.Sprintf("insurer rejected request: status %d: %s", e.StatusCode, e.Message)
}

// TransientError is a 5xx response or a network/timeout failure: the insurer
// side is unstable and the call is worth retrying.
type TransientError struct {
	StatusCode int // zero for network failures
	Message    string
	Err        error
}

func (e *TransientError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("insurer unavailable: %s: %v", e.Message, e.Err)
	}
	return fmt.Sprintf("insurer unavailable: status %d: %s", e.StatusCode, e.Message)
}

func (e *TransientError) Unwrap() error { return e.Err }
