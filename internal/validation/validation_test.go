package validation

import (
	"errors"
	"strings"
	"testing"
)

func TestValidateHospitalID_EmptyAndWhitespace(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"empty", ""},
		{"spaces", "   "},
		{"tab", "\t"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ValidateHospitalID(tc.input, 64)
			if !errors.Is(err, ErrHospitalIDEmpty) {
				t.Errorf("error = %v, want ErrHospitalIDEmpty", err)
			}
		})
	}
}

func TestValidateHospitalID_TooLong(t *testing.T) {
	_, err := ValidateHospitalID(strings.Repeat("a", 11), 10)
	if !errors.Is(err, ErrHospitalIDTooLong) {
		t.Errorf("error = %v, want ErrHospitalIDTooLong", err)
	}
}

// TestValidateHospitalID_DefaultMax verifies a non-positive limit falls back to the default.
func TestValidateHospitalID_DefaultMax(t *testing.T) {
	if _, err := ValidateHospitalID(strings.Repeat("a", DefaultHospitalIDMaxLength), 0); err != nil {
		t.Errorf("id at default limit: error = %v, want nil", err)
	}
	_, err := ValidateHospitalID(strings.Repeat("a", DefaultHospitalIDMaxLength+1), 0)
	if !errors.Is(err, ErrHospitalIDTooLong) {
		t.Errorf("error = %v, want ErrHospitalIDTooLong", err)
	}
}

// TestValidateHospitalID_Valid verifies known, unknown and punctuated ids pass and are trimmed.
func TestValidateHospitalID_Valid(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"h1", "h1"},
		{"  h4  ", "h4"},
		{"H1", "H1"},
		{"unknown-facility_9", "unknown-facility_9"},
		{"st.johns", "st.johns"},
		{"h1 east", "h1 east"},
		{"kfmc:riyadh", "kfmc:riyadh"},
		{"مستشفى", "مستشفى"},
	}
	for _, tc := range tests {
		got, err := ValidateHospitalID(tc.input, 64)
		if err != nil {
			t.Errorf("ValidateHospitalID(%q) error = %v", tc.input, err)
			continue
		}
		if got != tc.want {
			t.Errorf("ValidateHospitalID(%q) = %q, want %q", tc.input, got, tc.want)
		}
	}
}
