package utils

import (
	"context"
	"errors"
	"fmt"
	"testing"
)

func TestAppErrorFormatting(t *testing.T) {
	plain := NewOCRError("recognition failed", nil)
	if plain.Error() != "ocr: recognition failed" {
		t.Errorf("Error() = %q", plain.Error())
	}

	wrapped := NewDecodeError("cannot decode image", errors.New("bad header"))
	if wrapped.Error() != "decode: cannot decode image (caused by: bad header)" {
		t.Errorf("Error() = %q", wrapped.Error())
	}
}

func TestAppErrorIsMatchesByType(t *testing.T) {
	err := fmt.Errorf("context: %w", NewNotFoundError("missing", nil))

	if !errors.Is(err, &AppError{Type: ErrorTypeNotFound}) {
		t.Error("errors.Is should match AppError by type")
	}
	if errors.Is(err, &AppError{Type: ErrorTypeDecode}) {
		t.Error("errors.Is matched a different type")
	}
}

func TestAppErrorUnwrap(t *testing.T) {
	cause := errors.New("root cause")
	err := WrapError(cause, ErrorTypeIO, "write failed")

	if !errors.Is(err, cause) {
		t.Error("wrapped cause not reachable via errors.Is")
	}
}

func TestWrapErrorNil(t *testing.T) {
	if WrapError(nil, ErrorTypeIO, "nothing") != nil {
		t.Error("WrapError(nil) should return nil")
	}
}

func TestWrapErrorAutoClassifies(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want ErrorType
	}{
		{"deadline", context.DeadlineExceeded, ErrorTypeTimeout},
		{"missing file", errors.New("open x: no such file or directory"), ErrorTypeNotFound},
		{"refused", errors.New("dial tcp: connection refused"), ErrorTypeNetwork},
		{"decode", errors.New("image: unknown format"), ErrorTypeDecode},
		{"tesseract", errors.New("tesseract init failed"), ErrorTypeOCR},
		{"fallback", errors.New("boom"), ErrorTypeIO},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			wrapped := WrapError(tt.err, "", "context")
			if wrapped.Type != tt.want {
				t.Errorf("Type = %s, want %s", wrapped.Type, tt.want)
			}
		})
	}
}

func TestGetErrorType(t *testing.T) {
	appErr := NewDecodeError("bad image", nil)
	if GetErrorType(appErr) != ErrorTypeDecode {
		t.Errorf("GetErrorType = %s", GetErrorType(appErr))
	}
	if GetErrorType(fmt.Errorf("wrap: %w", appErr)) != ErrorTypeDecode {
		t.Error("GetErrorType should unwrap nested AppError")
	}
	if GetErrorType(errors.New("timeout... not really")) == "" {
		t.Error("GetErrorType should classify plain errors")
	}
}
