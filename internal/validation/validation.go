package validation

import (
	"errors"
	"strings"
)

// DefaultHospitalIDMaxLength bounds hospital ids when no limit is configured.
const DefaultHospitalIDMaxLength = 64

// ErrHospitalIDEmpty is returned when the id is empty or whitespace-only after trim.
var ErrHospitalIDEmpty = errors.New("hospital id is required")

// ErrHospitalIDTooLong is returned when the id length exceeds the maximum.
var ErrHospitalIDTooLong = errors.New("hospital id too long")

// ValidateHospitalID trims the input and enforces maxLen (bytes; <= 0 uses
// the default). Any other content is accepted: unknown or unusual ids are
// predicted with the default weights, never rejected. Returns the trimmed id
// or an error suitable for 400 INVALID_HOSPITAL_ID responses.
func ValidateHospitalID(input string, maxLen int) (string, error) {
	if maxLen <= 0 {
		maxLen = DefaultHospitalIDMaxLength
	}
	s := strings.TrimSpace(input)
	if s == "" {
		return "", ErrHospitalIDEmpty
	}
	if len(s) > maxLen {
		return "", ErrHospitalIDTooLong
	}
	return s, nil
}
