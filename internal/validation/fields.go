// Package validation holds the field validators and normalizers applied to
// every request before the services touch the repositories.
package validation

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/jbweber/homelab/customercare/internal/apperror"
	"github.com/jbweber/homelab/customercare/internal/domain"
)

var (
	fiscalCodePattern = regexp.MustCompile(`^[A-Za-z0-9]{16}$`)
	colorPattern      = regexp.MustCompile(`^#?[0-9a-fA-F]{6}$`)
)

var statusMessage = "must be one of " + joinStatuses(domain.Statuses)

func joinStatuses(statuses []domain.Status) string {
	names := make([]string, len(statuses))
	for i, s := range statuses {
		names[i] = string(s)
	}
	return strings.Join(names, ", ")
}

// canonicalIDLength is the length of the hyphenated 8-4-4-4-12 form
const canonicalIDLength = 36

// IsNotBlank reports whether s contains at least one non-whitespace rune.
func IsNotBlank(s string) bool {
	return strings.IndexFunc(s, func(r rune) bool { return !unicode.IsSpace(r) }) >= 0
}

// IsFiscalCode reports whether s is a 16 character alphanumeric fiscal code.
func IsFiscalCode(s string) bool {
	return fiscalCodePattern.MatchString(s)
}

// IsStatus reports whether s names a device status, ignoring case.
func IsStatus(s string) bool {
	_, ok := statusOf(s)
	return ok
}

// IsColor reports whether s is a 6 digit hex color, optionally prefixed by '#'.
func IsColor(s string) bool {
	return colorPattern.MatchString(s)
}

// IsID reports whether s is a UUID in the hyphenated 8-4-4-4-12 form, in
// either case. Braced, urn:uuid: and unhyphenated forms are rejected.
func IsID(s string) bool {
	if len(s) != canonicalIDLength {
		return false
	}
	_, err := uuid.Parse(s)
	return err == nil
}

// ParseID parses a UUID identifier. The parameter name is reported back in
// the InvalidArgumentError so callers can tell which input was rejected.
func ParseID(name, value string) (uuid.UUID, error) {
	if !IsNotBlank(value) {
		return uuid.Nil, apperror.InvalidArgument(name, "is blank")
	}
	if !IsID(value) {
		return uuid.Nil, apperror.InvalidArgument(name, "is not a valid UUID")
	}
	return uuid.MustParse(value), nil
}

// NormalizeStatus returns the canonical status for a case-insensitive input.
func NormalizeStatus(s string) (domain.Status, error) {
	status, ok := statusOf(s)
	if !ok {
		return "", apperror.InvalidArgument("status", statusMessage)
	}
	return status, nil
}

// NormalizeColor strips a leading '#' and lowercases the hex digits.
func NormalizeColor(s string) (string, error) {
	if !IsColor(s) {
		return "", apperror.InvalidArgument("color", "must be a 6 digit hex color")
	}
	return strings.ToLower(strings.TrimPrefix(s, "#")), nil
}

// statusOf only folds ASCII so that look-alike runes never map onto a status.
func statusOf(s string) (domain.Status, bool) {
	for i := 0; i < len(s); i++ {
		if s[i] >= utf8.RuneSelf {
			return "", false
		}
	}
	status := domain.Status(strings.ToUpper(s))
	return status, status.Valid()
}
