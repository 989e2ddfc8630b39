// pkg/errors/errors_test.go
// TEST TYPE: Unit Test
// DEPENDENCIES: None
// PURPOSE: Test error creation, wrapping, exit-code mapping and utility functions

package errors_test

import (
	stderrors "errors"
	"testing"

	"github.com/arthur-debert/packmerge/pkg/errors"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		code    errors.ErrorCode
		message string
		wantStr string
	}{
		{
			name:    "pack_not_found_error",
			code:    errors.ErrPackNotFound,
			message: "pack missing",
			wantStr: "[PACK_NOT_FOUND] pack missing",
		},
		{
			name:    "usage_error",
			code:    errors.ErrUsage,
			message: "wrong number of arguments",
			wantStr: "[USAGE] wrong number of arguments",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := errors.New(tt.code, tt.message)

			if err.Code != tt.code {
				t.Errorf("New() code = %v, want %v", err.Code, tt.code)
			}

			if err.Message != tt.message {
				t.Errorf("New() message = %q, want %q", err.Message, tt.message)
			}

			if err.Details == nil {
				t.Error("New() details should be initialized")
			}

			if got := err.Error(); got != tt.wantStr {
				t.Errorf("Error() = %q, want %q", got, tt.wantStr)
			}
		})
	}
}

func TestNewf(t *testing.T) {
	err := errors.Newf(errors.ErrOutputExists, "%s should not exist", "/tmp/out")
	if err.Message != "/tmp/out should not exist" {
		t.Errorf("Newf() message = %q", err.Message)
	}
}

func TestWrap(t *testing.T) {
	baseErr := stderrors.New("base error")

	t.Run("wrap_non_nil_error", func(t *testing.T) {
		err := errors.Wrap(baseErr, errors.ErrCopy, "copy failed")

		if err.Code != errors.ErrCopy {
			t.Errorf("Wrap() code = %v, want %v", err.Code, errors.ErrCopy)
		}

		if err.Wrapped != baseErr {
			t.Error("Wrap() should preserve wrapped error")
		}

		wantStr := "[COPY] copy failed: base error"
		if got := err.Error(); got != wantStr {
			t.Errorf("Error() = %q, want %q", got, wantStr)
		}
	})

	t.Run("wrap_nil_error_returns_nil", func(t *testing.T) {
		err := errors.Wrap(nil, errors.ErrInternal, "internal error")
		if err != nil {
			t.Error("Wrap(nil) should return nil")
		}
	})

	t.Run("wrapf_formats_message", func(t *testing.T) {
		err := errors.Wrapf(baseErr, errors.ErrHash, "failed to hash %s", "a.txt")
		if err.Message != "failed to hash a.txt" {
			t.Errorf("Wrapf() message = %q", err.Message)
		}
	})
}

func TestWithDetail(t *testing.T) {
	err := errors.New(errors.ErrIndex, "walk failed").
		WithDetail("pack", "/packs/a").
		WithDetail("index", 1)

	if err.Details["pack"] != "/packs/a" {
		t.Errorf("WithDetail() pack = %v, want %v", err.Details["pack"], "/packs/a")
	}

	if err.Details["index"] != 1 {
		t.Errorf("WithDetail() index = %v, want %v", err.Details["index"], 1)
	}

	if got := errors.GetErrorDetails(err); got["pack"] != "/packs/a" {
		t.Errorf("GetErrorDetails() = %v", got)
	}
}

func TestIs(t *testing.T) {
	err1 := errors.New(errors.ErrPackInvalid, "error 1")
	err2 := errors.New(errors.ErrPackInvalid, "error 2")
	err3 := errors.New(errors.ErrInternal, "error 3")

	t.Run("same_code_is_equal", func(t *testing.T) {
		if !err1.Is(err2) {
			t.Error("Is() should return true for same code")
		}
	})

	t.Run("different_code_not_equal", func(t *testing.T) {
		if err1.Is(err3) {
			t.Error("Is() should return false for different codes")
		}
	})

	t.Run("works_with_errors_Is", func(t *testing.T) {
		if !stderrors.Is(err1, err2) {
			t.Error("errors.Is() should work with PackmergeError")
		}
	})
}

func TestIsErrorCode(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		code     errors.ErrorCode
		expected bool
	}{
		{
			name:     "matching_code",
			err:      errors.New(errors.ErrOutputExists, "exists"),
			code:     errors.ErrOutputExists,
			expected: true,
		},
		{
			name:     "different_code",
			err:      errors.New(errors.ErrOutputExists, "exists"),
			code:     errors.ErrInternal,
			expected: false,
		},
		{
			name:     "wrapped_error",
			err:      errors.Wrap(stderrors.New("base"), errors.ErrHash, "denied"),
			code:     errors.ErrHash,
			expected: true,
		},
		{
			name:     "standard_error",
			err:      stderrors.New("standard error"),
			code:     errors.ErrHash,
			expected: false,
		},
		{
			name:     "nil_error",
			err:      nil,
			code:     errors.ErrHash,
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := errors.IsErrorCode(tt.err, tt.code); got != tt.expected {
				t.Errorf("IsErrorCode() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestGetErrorCode(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected errors.ErrorCode
	}{
		{
			name:     "packmerge_error",
			err:      errors.New(errors.ErrPackNotFound, "pack not found"),
			expected: errors.ErrPackNotFound,
		},
		{
			name:     "standard_error",
			err:      stderrors.New("standard error"),
			expected: errors.ErrUnknown,
		},
		{
			name:     "nil_error",
			err:      nil,
			expected: errors.ErrUnknown,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := errors.GetErrorCode(tt.err); got != tt.expected {
				t.Errorf("GetErrorCode() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"success", nil, 0},
		{"usage_error_is_not_a_failure", errors.New(errors.ErrUsage, "usage"), 0},
		{"validation_error_fails", errors.New(errors.ErrOutputExists, "exists"), 1},
		{"copy_error_fails", errors.Wrap(stderrors.New("disk full"), errors.ErrCopy, "copy"), 1},
		{"standard_error_fails", stderrors.New("boom"), 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := errors.ExitCode(tt.err); got != tt.want {
				t.Errorf("ExitCode() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestErrorChaining(t *testing.T) {
	rootCause := stderrors.New("root cause")
	hashErr := errors.Wrap(rootCause, errors.ErrHash, "cannot read file")
	indexErr := errors.Wrap(hashErr, errors.ErrIndex, "failed to index pack")

	t.Run("top_level_has_correct_code", func(t *testing.T) {
		if !errors.IsErrorCode(indexErr, errors.ErrIndex) {
			t.Error("Top level should have ErrIndex code")
		}
	})

	t.Run("can_find_middle_error", func(t *testing.T) {
		var pmErr *errors.PackmergeError
		if stderrors.As(indexErr.Unwrap(), &pmErr) {
			if !errors.IsErrorCode(pmErr, errors.ErrHash) {
				t.Error("Middle error should have ErrHash code")
			}
		}
	})

	t.Run("can_find_root_cause", func(t *testing.T) {
		if !stderrors.Is(indexErr, rootCause) {
			t.Error("Should find root cause with errors.Is")
		}
	})
}
