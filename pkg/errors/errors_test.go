package errors

import (
	stderrors "errors"
	"fmt"
	"testing"
)

func TestErrorFormatting(t *testing.T) {
	err := New(ErrCodeInvalidMode, "invalid search mode: %s", "fuzzy")
	want := "INVALID_MODE: invalid search mode: fuzzy"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
}

func TestWrapPreservesCause(t *testing.T) {
	cause := stderrors.New("permission denied")
	err := Wrap(ErrCodeVaultNotFound, cause, "open vault %s", "/notes")

	if !stderrors.Is(err, cause) {
		t.Error("wrapped error should match its cause with errors.Is")
	}
	if GetCode(err) != ErrCodeVaultNotFound {
		t.Errorf("GetCode = %q, want %q", GetCode(err), ErrCodeVaultNotFound)
	}
}

func TestIsMatchesCodeThroughChain(t *testing.T) {
	inner := New(ErrCodeNoMatches, "no documents tagged %s", "#timeline")
	outer := fmt.Errorf("scan: %w", inner)

	if !Is(outer, ErrCodeNoMatches) {
		t.Error("Is should find the code through fmt.Errorf wrapping")
	}
	if Is(outer, ErrCodeInternal) {
		t.Error("Is should not match a different code")
	}
}

func TestUserMessage(t *testing.T) {
	err := New(ErrCodeNoRenderTarget, "no output target available")
	if got := UserMessage(err); got != "no output target available" {
		t.Errorf("UserMessage = %q", got)
	}

	plain := stderrors.New("plain failure")
	if got := UserMessage(plain); got != "plain failure" {
		t.Errorf("UserMessage(plain) = %q", got)
	}
}

func TestGetCodeNonStructured(t *testing.T) {
	if code := GetCode(stderrors.New("x")); code != "" {
		t.Errorf("GetCode on plain error = %q, want empty", code)
	}
}
