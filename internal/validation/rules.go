// Package validation provides custom validation rules for the application.
package validation

import (
	"encoding/hex"
	"strings"

	"github.com/google/uuid"
	validation "github.com/jellydator/validation"

	apperrors "github.com/allisson/securevault/internal/errors"
)

// WrapValidationError wraps validation errors as domain ErrInvalidInput
func WrapValidationError(err error) error {
	if err == nil {
		return nil
	}
	return apperrors.Wrap(apperrors.ErrInvalidInput, err.Error())
}

// HexBytes validates 0x-prefixed hexadecimal data. A positive Size also fixes
// the decoded length in bytes.
type HexBytes struct {
	Size int
}

// Validate checks that value is a 0x-prefixed hex string of the configured size.
func (h HexBytes) Validate(value interface{}) error {
	s, ok := value.(string)
	if !ok {
		return validation.NewError("validation_hex_type", "must be a string")
	}
	if s == "" {
		return nil // Let Required handle empty strings
	}
	if !strings.HasPrefix(s, "0x") {
		return validation.NewError("validation_hex_prefix", "must start with 0x")
	}
	decoded, err := hex.DecodeString(s[2:])
	if err != nil {
		return validation.NewError("validation_hex", "must be valid hexadecimal data")
	}
	if h.Size > 0 && len(decoded) != h.Size {
		return validation.NewError("validation_hex_size", "must encode exactly the expected number of bytes")
	}
	return nil
}

// AuthID validates a 32-byte authorization identifier in 0x hex form.
var AuthID = HexBytes{Size: 32}

// UUID validates a textual UUID.
var UUID = validation.NewStringRuleWithError(
	func(s string) bool {
		_, err := uuid.Parse(s)
		return err == nil
	},
	validation.NewError("validation_uuid", "must be a valid UUID"),
)

// NoWhitespace validates that string doesn't contain leading/trailing whitespace
var NoWhitespace = validation.NewStringRuleWithError(
	func(s string) bool {
		return s == strings.TrimSpace(s)
	},
	validation.NewError("validation_no_whitespace", "must not contain leading or trailing whitespace"),
)

// NotBlank validates that a string is not empty after trimming whitespace
var NotBlank = validation.NewStringRuleWithError(
	func(s string) bool {
		return strings.TrimSpace(s) != ""
	},
	validation.NewError("validation_not_blank", "must not be blank"),
)
