package model

import (
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Equal compares two serialized field values under the normalized equality
// used by the merge no-op check.
//
// Normalization rules:
//   - nil and the empty string are the same "empty" value for every type
//   - strings compare after NFC normalization, so byte-different encodings
//     of the same text do not produce spurious merges
//   - numeric, boolean and time values compare by parsed value, not by their
//     serialized spelling ("1" == "01", "true" == "1")
//
// A value that fails to parse for its declared type is an input error.
func Equal(ft FieldType, a, b *string) (bool, error) {
	if empty(a) || empty(b) {
		return empty(a) && empty(b), nil
	}
	switch ft {
	case TypeString:
		return norm.NFC.String(*a) == norm.NFC.String(*b), nil
	case TypeInt, TypeTime:
		av, err := ParseInt(*a)
		if err != nil {
			return false, err
		}
		bv, err := ParseInt(*b)
		if err != nil {
			return false, err
		}
		return av == bv, nil
	case TypeFloat:
		av, err := strconv.ParseFloat(strings.TrimSpace(*a), 64)
		if err != nil {
			return false, fmt.Errorf("parse float %q: %w", *a, err)
		}
		bv, err := strconv.ParseFloat(strings.TrimSpace(*b), 64)
		if err != nil {
			return false, fmt.Errorf("parse float %q: %w", *b, err)
		}
		return av == bv, nil
	case TypeBool:
		av, err := ParseBool(*a)
		if err != nil {
			return false, err
		}
		bv, err := ParseBool(*b)
		if err != nil {
			return false, err
		}
		return av == bv, nil
	default:
		return false, fmt.Errorf("unknown field type %d", ft)
	}
}

// ParseInt parses an integer field value (also used for millisecond
// timestamps).
func ParseInt(s string) (int64, error) {
	v, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("parse int %q: %w", s, err)
	}
	return v, nil
}

// ParseBool parses a boolean field value. Accepts the spellings different
// producers emit: true/false, 1/0.
func ParseBool(s string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true", "1":
		return true, nil
	case "false", "0":
		return false, nil
	}
	return false, fmt.Errorf("parse bool %q", s)
}

// Ptr returns a pointer to s. Convenience for building payloads.
func Ptr(s string) *string { return &s }

func empty(v *string) bool {
	return v == nil || *v == ""
}
