package apperrors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"validation", New(ErrCodeValidation, "bad input"), http.StatusBadRequest},
		{"unauthorized", New(ErrCodeUnauthorized, "no"), http.StatusUnauthorized},
		{"forbidden", New(ErrCodeForbidden, "no"), http.StatusForbidden},
		{"not found", New(ErrCodeNotFound, "gone"), http.StatusNotFound},
		{"conflict", New(ErrCodeAlreadyExists, "dup"), http.StatusConflict},
		{"internal", New(ErrCodeInternalError, "boom"), http.StatusInternalServerError},
		{"plain error", errors.New("boom"), http.StatusInternalServerError},
		{"wrapped app error", fmt.Errorf("outer: %w", New(ErrCodeNotFound, "gone")), http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := HTTPStatus(tt.err); got != tt.want {
				t.Errorf("HTTPStatus = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestPublicMessage(t *testing.T) {
	if got := PublicMessage(New(ErrCodeNotFound, "user not found")); got != "user not found" {
		t.Errorf("got %q", got)
	}
	if got := PublicMessage(Wrap(errors.New("pq: relation missing"), ErrCodeInternalError, "query failed")); got != "internal server error" {
		t.Errorf("internal detail leaked: %q", got)
	}
	if got := PublicMessage(errors.New("raw driver error")); got != "internal server error" {
		t.Errorf("plain error leaked: %q", got)
	}
}

func TestIsCode(t *testing.T) {
	err := fmt.Errorf("context: %w", New(ErrCodeAlreadyExists, "dup"))
	if !IsCode(err, ErrCodeAlreadyExists) {
		t.Error("IsCode should match through wrapping")
	}
	if IsCode(err, ErrCodeNotFound) {
		t.Error("IsCode matched the wrong code")
	}
	if IsCode(errors.New("plain"), ErrCodeNotFound) {
		t.Error("IsCode matched a non-AppError")
	}
}
