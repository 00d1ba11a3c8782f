package dispatch

import (
	"regexp"
	"strings"

	apperrors "github.com/rxguard/rxguard/internal/errors"
)

var phoneRe = regexp.MustCompile(`^\+?[1-9]\d{0,15}$`)

// ValidatePhone normalizes a phone number by stripping spaces, hyphens and
// parentheses, then checks it: optional leading +, first digit 1-9, at most
// 15 further digits.
func ValidatePhone(raw string) (string, error) {
	normalized := strings.NewReplacer(" ", "", "-", "", "(", "", ")", "").Replace(strings.TrimSpace(raw))
	if !phoneRe.MatchString(normalized) {
		return "", apperrors.ErrInvalidPhone
	}
	return normalized, nil
}
