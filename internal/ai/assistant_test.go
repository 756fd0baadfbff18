package ai

import (
	"errors"
	"strings"
	"testing"
)

func TestGenerationError(t *testing.T) {
	cause := errors.New("boom")
	err := error(NewGenerationError(" credential rejected ", cause))

	if !errors.Is(err, cause) {
		t.Fatalf("expected cause to be unwrapped")
	}

	var genErr *GenerationError
	if !errors.As(err, &genErr) {
		t.Fatalf("expected *GenerationError")
	}

	if genErr.Reason != "credential rejected" {
		t.Fatalf("unexpected reason: %q", genErr.Reason)
	}

	if !strings.Contains(err.Error(), credentialHint) {
		t.Fatalf("expected hint in message: %q", err.Error())
	}

	if strings.Contains(err.Error(), "boom") {
		t.Fatalf("cause must not leak into the message: %q", err.Error())
	}

	if got := NewGenerationError("", nil).Error(); !strings.HasPrefix(got, "generation failed: request failed") {
		t.Fatalf("unexpected default message: %q", got)
	}
}
