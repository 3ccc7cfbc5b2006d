package helpers

import (
	"errors"
	"regexp"
	"strings"
)

var ErrInvalidPhone = errors.New("phone must be 10 to 15 digits")

var phonePattern = regexp.MustCompile(`^\+?[0-9]{10,15}$`)

var phoneSeparators = strings.NewReplacer(" ", "", "-", "")

// NormalizePhone strips spaces and dashes so that a phone typed on a profile
// and one typed at login compare equal.
func NormalizePhone(phone string) (string, error) {
	phone = phoneSeparators.Replace(strings.TrimSpace(phone))
	if !phonePattern.MatchString(phone) {
		return "", ErrInvalidPhone
	}
	return phone, nil
}
