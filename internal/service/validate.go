package service

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"admin-dashboard/internal/domain"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// check runs struct tag validation and folds failures into one ErrInvalid.
func check(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	var ves validator.ValidationErrors
	if !errors.As(err, &ves) {
		return fmt.Errorf("%w: %v", domain.ErrInvalid, err)
	}
	msgs := make([]string, 0, len(ves))
	for _, fe := range ves {
		if fe.Param() != "" {
			msgs = append(msgs, fmt.Sprintf("%s: %s=%s", fe.Field(), fe.Tag(), fe.Param()))
		} else {
			msgs = append(msgs, fmt.Sprintf("%s: %s", fe.Field(), fe.Tag()))
		}
	}
	return fmt.Errorf("%w: %s", domain.ErrInvalid, strings.Join(msgs, "; "))
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{domain.ErrInvalid}, args...)...)
}

func conflict(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{domain.ErrConflict}, args...)...)
}

func nonNegative(name string, d decimal.Decimal) error {
	if d.IsNegative() {
		return invalid("%s must not be negative", name)
	}
	return nil
}

func oneOf(name, v string, allowed []string) error {
	if !slices.Contains(allowed, v) {
		return invalid("%s %q is not one of %s", name, v, strings.Join(allowed, ", "))
	}
	return nil
}

// notBlank rejects a patch field that is present but empty once trimmed.
func notBlank(name string, v *string) error {
	if v != nil && strings.TrimSpace(*v) == "" {
		return invalid("%s must not be empty", name)
	}
	return nil
}

func set[V any](dst *V, src *V) {
	if src != nil {
		*dst = *src
	}
}

func trimmed(p *string) *string {
	if p == nil {
		return nil
	}
	s := strings.TrimSpace(*p)
	return &s
}

func forbidden(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{domain.ErrForbidden}, args...)...)
}

func unauthorized(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{domain.ErrUnauthorized}, args...)...)
}
