package llm

import "errors"

var (
	// ErrBackendUnavailable means the embedding or reasoning service could
	// not be reached or refused the request.
	ErrBackendUnavailable = errors.New("backend unavailable")

	// ErrMalformedResponse means the backend answered but the payload could
	// not be parsed into the expected structure.
	ErrMalformedResponse = errors.New("malformed backend response")
)
