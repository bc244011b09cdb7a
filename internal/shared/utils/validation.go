package utils

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"
)

// String length limits
const (
	MaxIDLength  = 64
	MaxURLLength = 8192
)

// TabIDPattern matches "tab_" followed by a Crockford base32 ULID
var TabIDPattern = regexp.MustCompile(`^tab_[0-9A-HJKMNP-TV-Z]{26}$`)

// ValidateString validates a string field with length and content checks
func ValidateString(value, fieldName string, minLen, maxLen int, required bool) error {
	if required && value == "" {
		return fmt.Errorf("%s is required", fieldName)
	}

	if value == "" && !required {
		return nil // Optional field, empty is OK
	}

	length := utf8.RuneCountInString(value)
	if length < minLen {
		return fmt.Errorf("%s must be at least %d characters", fieldName, minLen)
	}
	if length > maxLen {
		return fmt.Errorf("%s must not exceed %d characters", fieldName, maxLen)
	}

	// Check for null bytes (security issue)
	if strings.Contains(value, "\x00") {
		return fmt.Errorf("%s contains invalid characters", fieldName)
	}

	return nil
}

// ValidateTabID validates a tab ID path or message field
func ValidateTabID(tab, fieldName string) error {
	if err := ValidateString(tab, fieldName, 1, MaxIDLength, true); err != nil {
		return err
	}
	if !TabIDPattern.MatchString(tab) {
		return fmt.Errorf("%s is not a valid tab id", fieldName)
	}
	return nil
}

// ValidateURLInput validates raw URL text typed by a user
func ValidateURLInput(raw, fieldName string) error {
	return ValidateString(strings.TrimSpace(raw), fieldName, 1, MaxURLLength, true)
}
