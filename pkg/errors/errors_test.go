package errors

import (
	"errors"
	"fmt"
	"testing"
)

func TestErrorString(t *testing.T) {
	cause := errors.New("unexpected EOF")
	tests := []struct {
		err  *Error
		want string
	}{
		{New(ErrCodeInvalidPosition, "unknown position %q", "sideways"), `INVALID_POSITION: unknown position "sideways"`},
		{Wrap(ErrCodeInvalidScene, cause, "parse %s", "scene.json"), "INVALID_SCENE: parse scene.json: unexpected EOF"},
	}
	for _, tt := range tests {
		if got := tt.err.Error(); got != tt.want {
			t.Errorf("Error() = %q, want %q", got, tt.want)
		}
	}
}

func TestWrapKeepsCause(t *testing.T) {
	cause := errors.New("connection refused")
	err := Wrap(ErrCodeCache, cause, "read entry")

	if errors.Unwrap(err) != cause {
		t.Errorf("Unwrap() = %v, want %v", errors.Unwrap(err), cause)
	}
	if !errors.Is(err, cause) {
		t.Error("errors.Is(err, cause) = false")
	}
	if New(ErrCodeCache, "x").Unwrap() != nil {
		t.Error("New should have no cause")
	}
}

func TestCodeLookup(t *testing.T) {
	coded := New(ErrCodeInvalidScene, "viewport must be positive")
	tests := []struct {
		name string
		err  error
		code Code
		msg  string
	}{
		{"coded", coded, ErrCodeInvalidScene, "viewport must be positive"},
		{"fmt wrapped", fmt.Errorf("load: %w", coded), ErrCodeInvalidScene, "viewport must be positive"},
		{"outermost wins", Wrap(ErrCodeTimeout, coded, "deadline"), ErrCodeTimeout, "deadline"},
		{"plain", errors.New("disk full"), "", "disk full"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := GetCode(tt.err); got != tt.code {
				t.Errorf("GetCode() = %q, want %q", got, tt.code)
			}
			if tt.code != "" && !Is(tt.err, tt.code) {
				t.Errorf("Is(%q) = false", tt.code)
			}
			if Is(tt.err, ErrCodeUnsupported) {
				t.Error("Is(UNSUPPORTED) = true")
			}
			if got := UserMessage(tt.err); got != tt.msg {
				t.Errorf("UserMessage() = %q, want %q", got, tt.msg)
			}
		})
	}
}

func TestNilError(t *testing.T) {
	if Is(nil, ErrCodeInvalidInput) {
		t.Error("Is(nil) = true")
	}
	if GetCode(nil) != "" {
		t.Error("GetCode(nil) should be empty")
	}
}
