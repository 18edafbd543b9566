package domain

import (
	"errors"
	"fmt"
	"testing"
)

func TestIsNotFound(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{name: "game not found", err: ErrGameNotFound, want: true},
		{name: "order not found", err: ErrOrderNotFound, want: true},
		{name: "wrapped order not found", err: fmt.Errorf("get order 7: %w", ErrOrderNotFound), want: true},
		{name: "validation", err: NewValidationError("items", "empty"), want: false},
		{name: "nil error", err: nil, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsNotFound(tt.err); got != tt.want {
				t.Errorf("IsNotFound() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestGameAndOrderNotFoundAreDistinct(t *testing.T) {
	if errors.Is(ErrGameNotFound, ErrOrderNotFound) {
		t.Fatal("game not found must not match order not found")
	}
	if errors.Is(ErrOrderNotFound, ErrGameNotFound) {
		t.Fatal("order not found must not match game not found")
	}
}

func TestValidationError(t *testing.T) {
	err := NewValidationError("customer_email", "is required")

	if !IsValidation(err) {
		t.Fatal("expected validation error to match ErrValidation")
	}
	if got, want := err.Error(), "customer_email: is required"; got != want {
		t.Fatalf("Error() = %q, want %q", got, want)
	}

	var target *ValidationError
	if !errors.As(fmt.Errorf("create order: %w", err), &target) {
		t.Fatal("expected errors.As to find ValidationError")
	}
	if target.Field != "customer_email" {
		t.Fatalf("unexpected field %q", target.Field)
	}

	if got := (&ValidationError{Reason: "bad request"}).Error(); got != "bad request" {
		t.Fatalf("Error() without field = %q", got)
	}
}

func TestPersistenceError(t *testing.T) {
	cause := errors.New("connection reset")
	err := PersistenceError("insert order", cause)

	if !errors.Is(err, ErrPersistence) {
		t.Fatal("expected ErrPersistence")
	}
	if !errors.Is(err, cause) {
		t.Fatal("expected original cause to be preserved")
	}
	if IsValidation(err) || IsNotFound(err) {
		t.Fatal("persistence error must not be classified as validation or not found")
	}
	if PersistenceError("noop", nil) != nil {
		t.Fatal("nil cause must give nil error")
	}
}
