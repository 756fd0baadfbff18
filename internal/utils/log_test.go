package utils

import (
	"strings"
	"testing"
)

func TestTruncateForLog(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		input  string
		limit  int
		expect string
	}{
		{
			name:   "returns empty when limit non-positive",
			input:  "hello world",
			limit:  0,
			expect: "",
		},
		{
			name:   "shorter than limit",
			input:  "hello",
			limit:  10,
			expect: "hello",
		},
		{
			name:   "truncates and adds ellipsis",
			input:  "hello world",
			limit:  5,
			expect: "hello...",
		},
		{
			name:   "trims surrounding whitespace",
			input:  "  spaced  ",
			limit:  5,
			expect: "space...",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := TruncateForLog(tt.input, tt.limit); got != tt.expect {
				t.Fatalf("expected %q, got %q", tt.expect, got)
			}
		})
	}
}

func TestFingerprint(t *testing.T) {
	t.Parallel()

	if got := Fingerprint("   "); got != "" {
		t.Fatalf("expected empty fingerprint for blank secret, got %q", got)
	}

	first := Fingerprint("AIzaSyExampleKey")
	if len(first) != fingerprintLength {
		t.Fatalf("expected fingerprint of length %d, got %q", fingerprintLength, first)
	}

	if first != Fingerprint("  AIzaSyExampleKey\n") {
		t.Fatalf("expected fingerprint to ignore surrounding whitespace")
	}

	if first == Fingerprint("AIzaSyOtherKey") {
		t.Fatalf("expected different secrets to have different fingerprints")
	}

	if strings.Contains(first, "AIza") {
		t.Fatalf("fingerprint must not leak the secret: %q", first)
	}
}
