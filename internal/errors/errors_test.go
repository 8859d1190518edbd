package errors

import (
	"errors"
	"fmt"
	"testing"
)

func TestVHostError_Error(t *testing.T) {
	tests := []struct {
		name     string
		err      *VHostError
		expected string
	}{
		{
			name:     "message only",
			err:      &VHostError{Code: ErrCodeValidation, Message: "domain cannot be empty"},
			expected: "domain cannot be empty",
		},
		{
			name:     "domain and message",
			err:      &VHostError{Code: ErrCodeResolution, Message: "empty document root", Domain: "example.com"},
			expected: "vhost example.com: empty document root",
		},
		{
			name: "domain, message and cause",
			err: &VHostError{
				Code:    ErrCodeResolution,
				Message: "parent lookup failed",
				Domain:  "alias.example.com",
				Err:     fmt.Errorf("connection refused"),
			},
			expected: "vhost alias.example.com: parent lookup failed: connection refused",
		},
		{
			name:     "domain and cause",
			err:      &VHostError{Code: ErrCodeInternal, Domain: "example.com", Err: fmt.Errorf("boom")},
			expected: "vhost example.com: boom",
		},
		{
			name:     "message and cause",
			err:      &VHostError{Code: ErrCodeConfig, Message: "failed to load config", Err: fmt.Errorf("eof")},
			expected: "failed to load config: eof",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.expected {
				t.Errorf("Error() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestVHostError_Unwrap(t *testing.T) {
	underlying := fmt.Errorf("underlying error")
	err := &VHostError{Code: ErrCodeConfig, Message: "wrapped", Err: underlying}

	if err.Unwrap() != underlying {
		t.Errorf("Unwrap() did not return underlying error")
	}

	errNoWrap := &VHostError{Code: ErrCodeValidation, Message: "no underlying"}
	if errNoWrap.Unwrap() != nil {
		t.Errorf("Unwrap() should return nil when no underlying error")
	}
}

func TestVHostError_Is(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		target   error
		expected bool
	}{
		{"resolution matches sentinel", Resolution("a.com", "x", nil), ErrResolution, true},
		{"certificate matches sentinel", Certificate("a.com", "x", nil), ErrCertificate, true},
		{"filesystem matches sentinel", Filesystem("unlink", "/tmp/x", errors.New("busy")), ErrFilesystem, true},
		{"command matches sentinel", ExternalCommand("nginx", nil, errors.New("exit 1")), ErrExternalCommand, true},
		{"not found matches sentinel", NotFound("domain", 3), ErrNotFound, true},
		{"invalid path is a validation error", ErrInvalidPath, ErrValidation, true},
		{"different code", Resolution("a.com", "x", nil), ErrFilesystem, false},
		{"non-VHostError target", Resolution("a.com", "x", nil), fmt.Errorf("regular"), false},
		{"wrapped twice", fmt.Errorf("outer: %w", Filesystem("write", "/x", nil)), ErrFilesystem, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if Is(tt.err, tt.target) != tt.expected {
				t.Errorf("Is() = %v, want %v", !tt.expected, tt.expected)
			}
		})
	}
}

func TestConstructors(t *testing.T) {
	t.Run("NotFound", func(t *testing.T) {
		err := NotFound("domain", 42)
		if err.Error() != "domain 42 not found" {
			t.Errorf("unexpected message: %s", err.Error())
		}
	})

	t.Run("Filesystem keeps cause", func(t *testing.T) {
		cause := errors.New("permission denied")
		err := Filesystem("write", "/etc/nginx/sites-available/a.vhost", cause)
		if !errors.Is(err, cause) {
			t.Error("Filesystem() should wrap the cause")
		}
		if CodeOf(err) != ErrCodeFilesystem {
			t.Errorf("CodeOf() = %s", CodeOf(err))
		}
	})

	t.Run("ExternalCommand includes output", func(t *testing.T) {
		err := ExternalCommand("systemctl reload nginx", []byte("  unit not found\n"), errors.New("exit status 5"))
		want := "systemctl reload nginx: unit not found: exit status 5"
		if err.Error() != want {
			t.Errorf("Error() = %q, want %q", err.Error(), want)
		}
	})

	t.Run("ExternalCommand without output", func(t *testing.T) {
		err := ExternalCommand("ln", nil, errors.New("exit status 1"))
		if err.Error() != "ln: exit status 1" {
			t.Errorf("Error() = %q", err.Error())
		}
	})

	t.Run("Wrap and WrapDomain", func(t *testing.T) {
		err := Wrap(ErrCodeConfig, "bad config", errors.New("yaml"))
		if CodeOf(err) != ErrCodeConfig {
			t.Errorf("CodeOf() = %s", CodeOf(err))
		}
		err = WrapDomain(ErrCodeInternal, "example.com", errors.New("x"))
		if err.Error() != "vhost example.com: x" {
			t.Errorf("Error() = %q", err.Error())
		}
	})

	t.Run("CodeOf plain error", func(t *testing.T) {
		if CodeOf(errors.New("plain")) != "" {
			t.Error("CodeOf() should be empty for plain errors")
		}
	})

	t.Run("Join keeps codes", func(t *testing.T) {
		err := Join(Filesystem("unlink", "/a", nil), Resolution("b.com", "x", nil))
		if !Is(err, ErrFilesystem) || !Is(err, ErrResolution) {
			t.Error("joined error should match both sentinels")
		}
	})
}
