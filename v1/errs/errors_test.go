package errs

import (
	"errors"
	"fmt"
	"testing"
)

func TestInputErrorClassification(t *testing.T) {
	err := fmt.Errorf("compile: %w", Input("nearVector.vector", "vector cannot be empty"))

	if !IsInputError(err) {
		t.Fatalf("expected input error, got %v", err)
	}
	if IsUnsupportedFeature(err) {
		t.Fatalf("input error must not classify as unsupported feature")
	}

	var ie *InputError
	if !errors.As(err, &ie) {
		t.Fatalf("expected *InputError in chain")
	}
	if ie.Field != "nearVector.vector" {
		t.Errorf("expected field nearVector.vector, got %q", ie.Field)
	}
	if got := ie.Error(); got != "invalid input for nearVector.vector: vector cannot be empty" {
		t.Errorf("unexpected message %q", got)
	}
}

func TestInputErrorWithoutField(t *testing.T) {
	err := &InputError{Reason: "empty request"}
	if err.Error() != "invalid input: empty request" {
		t.Errorf("unexpected message %q", err.Error())
	}
}

func TestUnsupportedFeatureError(t *testing.T) {
	base := &UnsupportedFeatureError{
		Feature:       "Multi-target vector search",
		MinVersion:    "1.26.0",
		ServerVersion: "1.23.9",
	}
	err := fmt.Errorf("wrapped: %w", base)

	if !IsUnsupportedFeature(err) {
		t.Fatalf("expected unsupported feature error")
	}
	got, ok := AsUnsupportedFeature(err)
	if !ok || got != base {
		t.Fatalf("AsUnsupportedFeature did not return the original error")
	}
	want := "Multi-target vector search requires server version 1.26.0 or newer (connected: 1.23.9)"
	if base.Error() != want {
		t.Errorf("expected %q, got %q", want, base.Error())
	}

	base.Message = "custom"
	if base.Error() != "custom" {
		t.Errorf("explicit message should win, got %q", base.Error())
	}
}

func TestAsUnsupportedFeatureMiss(t *testing.T) {
	if _, ok := AsUnsupportedFeature(errors.New("boom")); ok {
		t.Fatalf("plain errors must not match")
	}
}
