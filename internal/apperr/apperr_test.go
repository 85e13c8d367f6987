package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestKindStatus(t *testing.T) {
	tests := []struct {
		kind Kind
		want int
	}{
		{KindBadRequest, http.StatusBadRequest},
		{KindValidation, http.StatusBadRequest},
		{KindUnauthorized, http.StatusUnauthorized},
		{KindForbidden, http.StatusForbidden},
		{KindNotFound, http.StatusNotFound},
		{KindConflict, http.StatusConflict},
		{KindInternal, http.StatusInternalServerError},
	}
	for _, tt := range tests {
		if got := tt.kind.Status(); got != tt.want {
			t.Errorf("%v.Status() = %d, want %d", tt.kind, got, tt.want)
		}
	}
}

func TestFromClassified(t *testing.T) {
	orig := NotFound("Media not found.")
	wrapped := fmt.Errorf("handler: %w", orig)

	got := From(wrapped)
	if got.Kind != KindNotFound || got.Message != "Media not found." {
		t.Fatalf("From() = %+v", got)
	}
}

func TestFromUnclassified(t *testing.T) {
	got := From(errors.New("pq: connection refused"))
	if got.Kind != KindInternal {
		t.Fatalf("kind = %v, want internal", got.Kind)
	}
	if got.Message != "Internal server error." {
		t.Fatalf("raw error leaked: %q", got.Message)
	}
	if got.Unwrap() == nil {
		t.Fatal("original cause lost")
	}
}

func TestIsKind(t *testing.T) {
	err := fmt.Errorf("wrap: %w", Forbidden("no"))
	if !IsKind(err, KindForbidden) {
		t.Fatal("IsKind missed wrapped forbidden")
	}
	if IsKind(err, KindNotFound) {
		t.Fatal("IsKind matched wrong kind")
	}
	if IsKind(errors.New("plain"), KindForbidden) {
		t.Fatal("IsKind matched plain error")
	}
}
