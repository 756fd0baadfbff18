package secrets

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestLoad(t *testing.T) {
	dir := t.TempDir()

	keyFile := filepath.Join(dir, "key")
	if err := os.WriteFile(keyFile, []byte("  AIzaFromFile\n"), 0o600); err != nil {
		t.Fatalf("write key file: %v", err)
	}

	emptyFile := filepath.Join(dir, "empty")
	if err := os.WriteFile(emptyFile, []byte("\n"), 0o600); err != nil {
		t.Fatalf("write empty file: %v", err)
	}

	t.Run("file takes precedence", func(t *testing.T) {
		got, err := Load(Source{Name: "gemini api key", Value: "AIzaInline", File: keyFile})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got != "AIzaFromFile" {
			t.Fatalf("expected value from file, got %q", got)
		}
	})

	t.Run("inline value is trimmed", func(t *testing.T) {
		got, err := Load(Source{Value: "  AIzaInline "})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got != "AIzaInline" {
			t.Fatalf("unexpected value %q", got)
		}
	})

	t.Run("empty file", func(t *testing.T) {
		_, err := Load(Source{Name: "gemini api key", File: emptyFile})
		if err == nil {
			t.Fatal("expected error for empty file")
		}
		if errors.Is(err, ErrNotConfigured) {
			t.Fatalf("empty file must not be reported as not configured: %v", err)
		}
	})

	t.Run("missing file", func(t *testing.T) {
		if _, err := Load(Source{File: filepath.Join(dir, "absent")}); err == nil {
			t.Fatal("expected error for missing file")
		}
	})

	t.Run("not configured", func(t *testing.T) {
		_, err := Load(Source{Name: "gemini api key"})
		if !errors.Is(err, ErrNotConfigured) {
			t.Fatalf("expected ErrNotConfigured, got %v", err)
		}
		if err.Error() != "gemini api key is not configured" {
			t.Fatalf("unexpected message: %q", err.Error())
		}
	})
}
