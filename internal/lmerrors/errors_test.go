package lmerrors

import (
	"errors"
	"fmt"
	"testing"
)

func TestErrorIsMatchesByKind(t *testing.T) {
	wrapped := fmt.Errorf("matcher: %w: bad dims", ErrDimensionMismatch)

	if !errors.Is(wrapped, ErrDimensionMismatch) {
		t.Fatalf("expected errors.Is to match ErrDimensionMismatch")
	}
	if errors.Is(wrapped, ErrEmptyInput) {
		t.Fatalf("did not expect errors.Is to match a different kind")
	}
}

func TestNewFormatsMessage(t *testing.T) {
	err := New(KindCorruptStream, "expected %d bytes, got %d", 10, 4)
	want := "corrupt-stream: expected 10 bytes, got 4"
	if err.Error() != want {
		t.Fatalf("Error() = %q, want %q", err.Error(), want)
	}
	if !errors.Is(err, ErrCorruptStream) {
		t.Fatalf("expected New() result to match its sentinel via errors.Is")
	}
}

func TestErrorWithoutMessage(t *testing.T) {
	if ErrIO.Error() != "io-error" {
		t.Fatalf("Error() = %q, want %q", ErrIO.Error(), "io-error")
	}
}
