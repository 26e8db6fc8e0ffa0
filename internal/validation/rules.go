package validation

import (
	"context"
	"fmt"
	"net/mail"
	"strings"

	"github.com/google/uuid"
)

// Common synchronous field rules. Each captures the submitted value at build
// time; the builder passed to Bind runs per request, so values are current.

// Required fails when the value is empty after trimming.
func Required(value, msg string) Rule {
	return func(ctx context.Context, env Env) (string, error) {
		if strings.TrimSpace(value) == "" {
			return msg, nil
		}
		return "", nil
	}
}

// MaxLength fails when the value exceeds max characters.
func MaxLength(value string, max int, msg string) Rule {
	return func(ctx context.Context, env Env) (string, error) {
		if len(value) > max {
			return msg, nil
		}
		return "", nil
	}
}

// Email fails when a non-empty value is not a parseable address. Empty values
// pass; combine with Required when the field is mandatory.
func Email(value, msg string) Rule {
	return func(ctx context.Context, env Env) (string, error) {
		if value == "" {
			return "", nil
		}
		if _, err := mail.ParseAddress(value); err != nil {
			return msg, nil
		}
		return "", nil
	}
}

// Each applies check to every element of values, reporting msgFmt with the
// offending element on the first failure.
func Each(values []string, check func(string) bool, msgFmt string) Rule {
	return func(ctx context.Context, env Env) (string, error) {
		for _, v := range values {
			if !check(v) {
				return fmt.Sprintf(msgFmt, v), nil
			}
		}
		return "", nil
	}
}

// IsUUID reports whether s parses as a UUID.
func IsUUID(s string) bool {
	_, err := uuid.Parse(s)
	return err == nil
}
