package service_test

import (
	"errors"
	"testing"

	"screenrag/internal/service"
)

func TestValidationError(t *testing.T) {
	err := &service.ValidationError{Field: "query", Message: "cannot be empty"}
	want := "validation error on field query: cannot be empty"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
}

func TestWrapError(t *testing.T) {
	base := errors.New("boom")
	wrapped := service.WrapError(base, "doing thing")
	if !errors.Is(wrapped, base) {
		t.Error("wrapped error should match the base error")
	}
	if wrapped.Error() != "doing thing: boom" {
		t.Errorf("wrapped message = %q", wrapped.Error())
	}

	if service.WrapError(nil, "anything") != nil {
		t.Error("wrapping nil should return nil")
	}
}
