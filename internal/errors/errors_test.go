package errors

import (
	"errors"
	"testing"
)

func TestAppError_Error(t *testing.T) {
	tests := []struct {
		name string
		err  *AppError
		want string
	}{
		{
			name: "error without cause",
			err: &AppError{
				Code:    ErrCodeNotFound,
				Message: "job not found",
			},
			want: "job not found",
		},
		{
			name: "error with cause",
			err: &AppError{
				Code:    ErrCodeInternal,
				Message: "failed to claim chunk",
				Cause:   errors.New("underlying error"),
			},
			want: "failed to claim chunk: underlying error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("AppError.Error() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestAppError_Unwrap(t *testing.T) {
	cause := errors.New("underlying error")
	err := &AppError{
		Code:    ErrCodeInternal,
		Message: "wrapped error",
		Cause:   cause,
	}

	if unwrapped := err.Unwrap(); !errors.Is(unwrapped, cause) {
		t.Errorf("AppError.Unwrap() = %v, want %v", unwrapped, cause)
	}
}

func TestConstructors(t *testing.T) {
	tests := []struct {
		name     string
		err      *AppError
		wantCode ErrorCode
		wantMsg  string
	}{
		{"NotFound", NotFound("job not found"), ErrCodeNotFound, "job not found"},
		{"NotFoundf", NotFoundf("job %s not found", "j-1"), ErrCodeNotFound, "job j-1 not found"},
		{"Conflict", Conflict("job already terminal"), ErrCodeConflict, "job already terminal"},
		{"Validation", Validation("invalid input"), ErrCodeValidation, "invalid input"},
		{"Validationf", Validationf("chunk size %d out of range", 0), ErrCodeValidation, "chunk size 0 out of range"},
		{"Unauthorized", Unauthorized("not your job"), ErrCodeUnauthorized, "not your job"},
		{"Transient", Transient("store unavailable"), ErrCodeTransient, "store unavailable"},
		{"Internal", Internal("internal server error"), ErrCodeInternal, "internal server error"},
		{"Internalf", Internalf("counter drift on %s", "j-1"), ErrCodeInternal, "counter drift on j-1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.err.Code != tt.wantCode {
				t.Errorf("%s().Code = %v, want %v", tt.name, tt.err.Code, tt.wantCode)
			}
			if tt.err.Message != tt.wantMsg {
				t.Errorf("%s().Message = %v, want %v", tt.name, tt.err.Message, tt.wantMsg)
			}
		})
	}
}

func TestValidationField(t *testing.T) {
	err := ValidationField("event_id", "event id is required")
	if err.Code != ErrCodeValidation {
		t.Errorf("ValidationField().Code = %v, want %v", err.Code, ErrCodeValidation)
	}
	if err.Field != "event_id" {
		t.Errorf("ValidationField().Field = %v, want %v", err.Field, "event_id")
	}
	if err.Message != "event id is required" {
		t.Errorf("ValidationField().Message = %v, want %v", err.Message, "event id is required")
	}
}

func TestWrap(t *testing.T) {
	cause := errors.New("connection refused")

	t.Run("wraps non-nil error", func(t *testing.T) {
		err := Wrap(cause, ErrCodeTransient, "store unavailable")
		if err.Code != ErrCodeTransient {
			t.Errorf("Wrap().Code = %v, want %v", err.Code, ErrCodeTransient)
		}
		if !errors.Is(err, cause) {
			t.Error("Wrap() should preserve the cause for errors.Is")
		}
	})

	t.Run("nil error returns nil", func(t *testing.T) {
		if err := Wrap(nil, ErrCodeInternal, "ignored"); err != nil {
			t.Errorf("Wrap(nil) = %v, want nil", err)
		}
	})

	t.Run("Wrapf formats message", func(t *testing.T) {
		err := Wrapf(cause, ErrCodeInternal, "advancing job %s", "j-1")
		if err.Message != "advancing job j-1" {
			t.Errorf("Wrapf().Message = %v, want %v", err.Message, "advancing job j-1")
		}
	})
}

func TestPredicates(t *testing.T) {
	tests := []struct {
		name string
		err  error
		pred func(error) bool
		want bool
	}{
		{"IsNotFound matches", NotFound("x"), IsNotFound, true},
		{"IsNotFound rejects other code", Conflict("x"), IsNotFound, false},
		{"IsConflict matches", Conflict("x"), IsConflict, true},
		{"IsValidation matches", Validation("x"), IsValidation, true},
		{"IsUnauthorized matches", Unauthorized("x"), IsUnauthorized, true},
		{"IsTransient matches transient", Transient("x"), IsTransient, true},
		{"IsTransient matches timeout", &AppError{Code: ErrCodeTimeout, Message: "x"}, IsTransient, true},
		{"IsInternal matches", Internal("x"), IsInternal, true},
		{"plain error matches nothing", errors.New("x"), IsNotFound, false},
		{"nil matches nothing", nil, IsInternal, false},
		{"wrapped AppError still matches", Wrap(NotFound("x"), ErrCodeInternal, "outer"), IsInternal, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.pred(tt.err); got != tt.want {
				t.Errorf("predicate = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestGetCode(t *testing.T) {
	if got := GetCode(Transient("x")); got != ErrCodeTransient {
		t.Errorf("GetCode() = %v, want %v", got, ErrCodeTransient)
	}
	if got := GetCode(errors.New("plain")); got != "" {
		t.Errorf("GetCode(plain) = %v, want empty", got)
	}
}

func TestGetField(t *testing.T) {
	if got := GetField(ValidationField("phone", "x")); got != "phone" {
		t.Errorf("GetField() = %v, want phone", got)
	}
	if got := GetField(Validation("x")); got != "" {
		t.Errorf("GetField(no field) = %v, want empty", got)
	}
}
