package http

import (
	"errors"
	"net/http"

	"github.com/lanternmc/yggdrasil/internal/yggdrasil/service"
	"github.com/lanternmc/yggdrasil/pkg/httpx"
	"github.com/lanternmc/yggdrasil/pkg/slogx"
)

// ErrorResponse is the protocol error envelope. Every failure, including
// rate limiting and internal errors, uses this shape.
type ErrorResponse struct {
	Error        string `json:"error"`
	ErrorMessage string `json:"errorMessage"`
	Path         string `json:"path,omitempty"`
}

// apiError pairs an HTTP status with its envelope body.
type apiError struct {
	status  int
	code    string
	message string
}

func (e apiError) write(w http.ResponseWriter, r *http.Request) {
	httpx.WriteJSON(w, e.status, ErrorResponse{
		Error:        e.code,
		ErrorMessage: e.message,
		Path:         r.URL.Path,
	})
}

var (
	errInvalidCredentials = apiError{
		http.StatusForbidden, "ForbiddenOperationException",
		"Invalid credentials. Invalid username or password.",
	}

	// errInvalidToken is deliberately shared by revoked, forged, expired
	// and never-issued tokens: the caller learns only that the token does
	// not work.
	errInvalidToken = apiError{
		http.StatusForbidden, "ForbiddenOperationException", "Invalid token.",
	}

	errUnauthorized = apiError{
		http.StatusUnauthorized, "Unauthorized",
		"The request requires user authentication.",
	}

	errProfileNotFound = apiError{
		http.StatusNotFound, "NotFoundException",
		"The requested profile could not be found.",
	}

	errUsernameTaken = apiError{
		http.StatusBadRequest, "IllegalArgumentException",
		"That username is already taken.",
	}

	errIllegalArgument = apiError{
		http.StatusBadRequest, "IllegalArgumentException",
		"Invalid request body.",
	}

	errInternal = apiError{
		http.StatusInternalServerError, "InternalServerError",
		"An unexpected error occurred.",
	}
)

// writeServiceError maps service sentinels onto protocol envelopes. Unknown
// errors are logged and surface as a 500.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidCredentials):
		errInvalidCredentials.write(w, r)
	case errors.Is(err, service.ErrMissingToken):
		errUnauthorized.write(w, r)
	case errors.Is(err, service.ErrTokenRejected),
		errors.Is(err, service.ErrTokenExpired),
		errors.Is(err, service.ErrTokenInvalid),
		errors.Is(err, service.ErrTokenMalformed),
		errors.Is(err, service.ErrSessionRevoked):
		errInvalidToken.write(w, r)
	case errors.Is(err, service.ErrPlayerNotFound), errors.Is(err, service.ErrNotFound):
		errProfileNotFound.write(w, r)
	case errors.Is(err, service.ErrUsernameTaken):
		errUsernameTaken.write(w, r)
	case errors.Is(err, service.ErrInvalidUsername), errors.Is(err, service.ErrWeakPassword):
		apiError{http.StatusBadRequest, "IllegalArgumentException", err.Error()}.write(w, r)
	default:
		slogx.FromContext(r.Context()).Error("request failed", "err", err)
		errInternal.write(w, r)
	}
}

// bearerToken extracts the access token from the Authorization header.
func bearerToken(r *http.Request) string {
	const prefix = "Bearer "
	h := r.Header.Get("Authorization")
	if len(h) > len(prefix) && h[:len(prefix)] == prefix {
		return h[len(prefix):]
	}
	return ""
}
