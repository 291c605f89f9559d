package user

import (
	"fmt"
	"net/mail"
	"unicode"
)

// ValidationError reports a field that failed its rule. It is distinct from
// ErrUserNotFound so the HTTP layer can answer 422 rather than 404.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func invalidField(field, reason string) *ValidationError {
	return &ValidationError{Field: field, Reason: reason}
}

func validateNickname(nickname string) error {
	if nickname == "" {
		return invalidField("nickname", "must not be empty")
	}
	if len(nickname) < 3 || len(nickname) > 32 {
		return invalidField("nickname", "must be between 3 and 32 characters")
	}
	return nil
}

func validateEmail(email string) error {
	if email == "" {
		return invalidField("email", "must not be empty")
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return invalidField("email", "malformed address")
	}
	return nil
}

// validatePassword enforces the minimum-strength policy: length plus
// upper, lower and digit character classes.
func validatePassword(password string) error {
	if len(password) < 8 {
		return invalidField("password", "must be at least 8 characters")
	}

	var hasUpper, hasLower, hasDigit bool
	for _, c := range password {
		switch {
		case unicode.IsUpper(c):
			hasUpper = true
		case unicode.IsLower(c):
			hasLower = true
		case unicode.IsDigit(c):
			hasDigit = true
		}
	}

	if !hasUpper || !hasLower || !hasDigit {
		return invalidField("password", "must contain upper case, lower case and digit characters")
	}
	return nil
}

func validateBio(bio string) error {
	if bio == "" {
		return invalidField("bio", "must not be empty")
	}
	return nil
}
