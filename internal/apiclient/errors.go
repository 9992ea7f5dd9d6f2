package apiclient

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	apperrors "github.com/mmynk/medialog/internal/errors"
)

// ErrEmptyResponse is returned when an operation needs a body the server did
// not provide (for example a login answered 2xx without a user).
var ErrEmptyResponse = errors.New("empty response from server")

// errorBody is the union of the API's two error shapes.
type errorBody struct {
	Error  string   `json:"error"`
	Errors []string `json:"errors"`
}

// responseError builds the single displayable error for a non-2xx response.
// Precedence: the errors list joined with ", ", then the error string, then
// the HTTP status text, then a generic message.
func responseError(status int, raw []byte) *apperrors.Error {
	var body errorBody
	parsed := json.Unmarshal(raw, &body) == nil

	var message string
	var messages []string
	if parsed && len(body.Errors) > 0 {
		messages = body.Errors
		message = strings.Join(body.Errors, ", ")
	}
	if message == "" && parsed {
		message = body.Error
	}
	if message == "" {
		message = http.StatusText(status)
	}
	if message == "" {
		message = "Request failed"
	}

	return &apperrors.Error{
		Code:     classify(status),
		Message:  message,
		Messages: messages,
		Status:   status,
	}
}

func classify(status int) apperrors.Code {
	switch {
	case status == http.StatusUnauthorized:
		return apperrors.CodeUnauthorized
	case status >= 400 && status < 500:
		return apperrors.CodeRejected
	default:
		return apperrors.CodeServer
	}
}

// StatusOf returns the HTTP status carried by err, or 0 when the request
// never got a response.
func StatusOf(err error) int {
	var e *apperrors.Error
	if errors.As(err, &e) {
		return e.Status
	}
	return 0
}
