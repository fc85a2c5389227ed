package errors

import (
	"errors"
	"testing"
)

func TestNew(t *testing.T) {
	err := New(ErrCodeInvalidFormat, "line %d: bad token", 3)

	if err.Code != ErrCodeInvalidFormat {
		t.Errorf("Code = %v, want %v", err.Code, ErrCodeInvalidFormat)
	}

	if err.Message != "line 3: bad token" {
		t.Errorf("Message = %v, want %v", err.Message, "line 3: bad token")
	}

	expected := "INVALID_FORMAT: line 3: bad token"
	if err.Error() != expected {
		t.Errorf("Error() = %v, want %v", err.Error(), expected)
	}
}

func TestWrap(t *testing.T) {
	cause := errors.New("no such file")
	err := Wrap(ErrCodeFileNotFound, cause, "open graph.txt")

	if err.Code != ErrCodeFileNotFound {
		t.Errorf("Code = %v, want %v", err.Code, ErrCodeFileNotFound)
	}

	if err.Cause != cause {
		t.Errorf("Cause = %v, want %v", err.Cause, cause)
	}

	if unwrapped := errors.Unwrap(err); unwrapped != cause {
		t.Errorf("Unwrap() = %v, want %v", unwrapped, cause)
	}

	if !errors.Is(err, cause) {
		t.Error("errors.Is(err, cause) = false, want true")
	}

	expected := "FILE_NOT_FOUND: open graph.txt: no such file"
	if err.Error() != expected {
		t.Errorf("Error() = %v, want %v", err.Error(), expected)
	}
}

func TestIs(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		code     Code
		expected bool
	}{
		{
			name:     "matching code",
			err:      New(ErrCodeInvalidState, "test"),
			code:     ErrCodeInvalidState,
			expected: true,
		},
		{
			name:     "non-matching code",
			err:      New(ErrCodeInvalidState, "test"),
			code:     ErrCodeInvalidFormat,
			expected: false,
		},
		{
			name:     "wrapped error",
			err:      Wrap(ErrCodeInternal, New(ErrCodeInvalidState, "inner"), "outer"),
			code:     ErrCodeInternal,
			expected: true,
		},
		{
			name:     "fmt wrapped",
			err:      errorsJoin(New(ErrCodeInvalidOption, "bad bound")),
			code:     ErrCodeInvalidOption,
			expected: true,
		},
		{
			name:     "non-Error type",
			err:      errors.New("plain error"),
			code:     ErrCodeInvalidInput,
			expected: false,
		},
		{
			name:     "nil error",
			err:      nil,
			code:     ErrCodeInvalidInput,
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Is(tt.err, tt.code); got != tt.expected {
				t.Errorf("Is() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func errorsJoin(err error) error {
	return errors.Join(errors.New("context"), err)
}

func TestGetCode(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected Code
	}{
		{"Error type", New(ErrCodeInvalidOption, "test"), ErrCodeInvalidOption},
		{"plain error", errors.New("plain"), ""},
		{"nil", nil, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := GetCode(tt.err); got != tt.expected {
				t.Errorf("GetCode() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestUserMessage(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected string
	}{
		{"Error type", New(ErrCodeInvalidInput, "friendly message"), "friendly message"},
		{"plain error", errors.New("plain error"), "plain error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := UserMessage(tt.err); got != tt.expected {
				t.Errorf("UserMessage() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestIsInvalid(t *testing.T) {
	tests := []struct {
		err  error
		want bool
	}{
		{New(ErrCodeInvalidFormat, "x"), true},
		{New(ErrCodeInvalidOption, "x"), true},
		{New(ErrCodeTooLarge, "x"), true},
		{New(ErrCodeInternal, "x"), false},
		{errors.New("plain"), false},
	}
	for _, tt := range tests {
		if got := IsInvalid(tt.err); got != tt.want {
			t.Errorf("IsInvalid(%v) = %v, want %v", tt.err, got, tt.want)
		}
	}
}

func TestLimitsValidateGraphSize(t *testing.T) {
	tests := []struct {
		name     string
		limits   Limits
		vertices int
		edges    int
		wantCode Code
	}{
		{"no limits", Limits{}, 1 << 20, 1 << 22, ""},
		{"within", Limits{MaxVertices: 10, MaxEdges: 20}, 10, 20, ""},
		{"too many vertices", Limits{MaxVertices: 10}, 11, 0, ErrCodeTooLarge},
		{"too many edges", Limits{MaxEdges: 5}, 3, 6, ErrCodeTooLarge},
		{"negative", Limits{}, -1, 0, ErrCodeInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.limits.ValidateGraphSize(tt.vertices, tt.edges)
			if got := GetCode(err); got != tt.wantCode {
				t.Errorf("ValidateGraphSize() code = %q, want %q (err=%v)", got, tt.wantCode, err)
			}
		})
	}
}
