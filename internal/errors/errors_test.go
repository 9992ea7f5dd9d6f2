package errors

import (
	"fmt"
	"net/http"
	"testing"
)

func TestErrorIsMatchesCode(t *testing.T) {
	err := NotFound("Item with id 7 not found")
	if !Is(err, ErrNotFound) {
		t.Error("expected NotFound to match ErrNotFound")
	}
	if Is(err, ErrValidation) {
		t.Error("did not expect NotFound to match ErrValidation")
	}

	wrapped := fmt.Errorf("get item: %w", err)
	if !Is(wrapped, ErrNotFound) {
		t.Error("expected wrapped error to match ErrNotFound")
	}
}

func TestCodeHTTPStatus(t *testing.T) {
	tests := []struct {
		code Code
		want int
	}{
		{CodeNotFound, http.StatusNotFound},
		{CodeAlreadyExists, http.StatusBadRequest},
		{CodeValidation, http.StatusBadRequest},
		{CodeUnauthorized, http.StatusUnauthorized},
		{CodeInternal, http.StatusInternalServerError},
		{Code("UNKNOWN"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(string(tt.code), func(t *testing.T) {
			if got := tt.code.HTTPStatus(); got != tt.want {
				t.Errorf("HTTPStatus() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestValidationJoinsMessages(t *testing.T) {
	err := Validation("Missing field: title", "Missing field: category_id")
	if err.Error() != "Missing field: title, Missing field: category_id" {
		t.Errorf("unexpected message: %q", err.Error())
	}
	if len(err.List()) != 2 {
		t.Errorf("expected 2 messages, got %d", len(err.List()))
	}
}

func TestWrapKeepsCause(t *testing.T) {
	cause := New("connection refused")
	err := Wrap(cause, CodeNetwork, "connection refused")
	if Unwrap(err) != cause {
		t.Error("expected cause to be unwrappable")
	}
	if CodeOf(fmt.Errorf("login: %w", err)) != CodeNetwork {
		t.Errorf("CodeOf() = %q, want %q", CodeOf(err), CodeNetwork)
	}
	if CodeOf(cause) != "" {
		t.Error("expected empty code for plain error")
	}
}
