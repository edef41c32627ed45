package errors

import (
	stderrors "errors"
	"testing"
)

func TestAppErrorMessage(t *testing.T) {
	err := New(ErrCodeNotFound, "user not found")
	if err.Error() != "NOT_FOUND: user not found" {
		t.Errorf("Error() = %q, want %q", err.Error(), "NOT_FOUND: user not found")
	}
}

func TestWrapPreservesCause(t *testing.T) {
	cause := stderrors.New("connection refused")
	err := Wrap(cause, ErrCodeInternalError, "database unavailable")

	if !stderrors.Is(err, cause) {
		t.Error("wrapped error does not match its cause")
	}
	if err.Error() != "INTERNAL_ERROR: database unavailable (connection refused)" {
		t.Errorf("Error() = %q", err.Error())
	}
}

func TestCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{name: "app error", err: New(ErrCodeForbidden, "nope"), want: ErrCodeForbidden},
		{name: "wrapped app error", err: Wrap(New(ErrCodeNotFound, "gone"), ErrCodeNotFound, "outer"), want: ErrCodeNotFound},
		{name: "plain error", err: stderrors.New("boom"), want: ErrCodeInternalError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Code(tt.err); got != tt.want {
				t.Errorf("Code() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestIsCode(t *testing.T) {
	err := New(ErrCodeDuplicatePending, "already pending")

	if !IsCode(err, ErrCodeDuplicatePending) {
		t.Error("IsCode() = false for matching code")
	}
	if IsCode(err, ErrCodeSelfRequest) {
		t.Error("IsCode() = true for a different code")
	}
	if IsCode(nil, ErrCodeSelfRequest) {
		t.Error("IsCode(nil) = true, want false")
	}
}
