package apperr

import (
	"errors"
	"net/http"
	"testing"
)

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		name string
		err  *Error
		want int
	}{
		{"not found", NotFound("x"), http.StatusNotFound},
		{"validation", Validation("x"), http.StatusBadRequest},
		{"bad request", BadRequest("x"), http.StatusBadRequest},
		{"conflict", Conflict("x"), http.StatusConflict},
		{"invalid transition", InvalidTransition("x"), http.StatusConflict},
		{"already assigned", AlreadyAssigned("x"), http.StatusConflict},
		{"duplicate review", DuplicateReview("x"), http.StatusConflict},
		{"forbidden", Forbidden("x"), http.StatusForbidden},
		{"unauthorized", Unauthorized("x"), http.StatusUnauthorized},
		{"internal", Internal("x"), http.StatusInternalServerError},
		{"dependency", Dependency("x", errors.New("io")), http.StatusBadGateway},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.HTTPStatus(); got != tt.want {
				t.Fatalf("expected %d, got %d", tt.want, got)
			}
		})
	}
}

func TestUnwrapAndIs(t *testing.T) {
	cause := errors.New("connection refused")
	err := Dependency("notification delivery failed", cause)

	if !errors.Is(err, cause) {
		t.Fatal("expected wrapped cause to be visible to errors.Is")
	}
	if !Is(err, KindDependency) {
		t.Fatal("expected kind dependency")
	}
	if Is(cause, KindDependency) {
		t.Fatal("untyped errors must report KindUnknown")
	}
}
