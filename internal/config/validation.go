package config

import (
	"fmt"
	"strings"

	"github.com/rpgo/forecast-engine/internal/domain"
)

// FieldError is one validation problem at a configuration path.
type FieldError struct {
	Path    string
	Message string
}

func (e FieldError) Error() string { return e.Path + ": " + e.Message }

// ValidationError collects every FieldError of a configuration. It matches
// domain.ErrInvalidArgument with errors.Is.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	msgs := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		msgs[i] = f.Error()
	}
	return strings.Join(msgs, "; ")
}

func (e *ValidationError) Unwrap() error { return domain.ErrInvalidArgument }

type validator struct {
	fields []FieldError
}

func (v *validator) addf(path, format string, args ...any) {
	v.fields = append(v.fields, FieldError{Path: path, Message: fmt.Sprintf(format, args...)})
}

// finite flags every numeric value that is NaN or an infinity. Pending cells pass.
func (v *validator) finite(path string, values []domain.Value) {
	for i, x := range values {
		if !x.IsPending() && !x.Finite() {
			v.addf(fmt.Sprintf("%s[%d]", path, i), "must be a finite number, got %s", x)
		}
	}
}

func (v *validator) err() error {
	if len(v.fields) == 0 {
		return nil
	}
	return &ValidationError{Fields: v.fields}
}
