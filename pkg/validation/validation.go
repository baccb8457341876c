package validation

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"unicode"
)

var (
	// ErrInvalidInput indicates the input failed validation
	ErrInvalidInput = errors.New("invalid input")

	// Object ids are sent verbatim as a query parameter
	objectIDRegex = regexp.MustCompile(`^[a-zA-Z0-9_-]{1,64}$`)

	// yyyy-mm-dd with optional -hh-mm or -hh-mm-ss
	dateRegex = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}(-\d{2}-\d{2}(-\d{2})?)?$`)
)

// SanitizeString removes potentially dangerous characters and trims whitespace
func SanitizeString(input string) string {
	input = strings.TrimSpace(input)
	input = strings.ReplaceAll(input, "\x00", "")

	// Remove control characters except newline and tab
	var builder strings.Builder
	for _, r := range input {
		if !unicode.IsControl(r) || r == '\n' || r == '\t' {
			builder.WriteRune(r)
		}
	}

	return builder.String()
}

// ValidateObjectID checks that an object id is non-empty and URL safe
func ValidateObjectID(id string) error {
	id = SanitizeString(id)

	if id == "" {
		return invalid("object id cannot be empty")
	}
	if !objectIDRegex.MatchString(id) {
		return invalid("object id must contain only letters, numbers, hyphens, and underscores (max 64)")
	}

	return nil
}

// ValidateDate accepts an empty bound or the monitoring server's date format
func ValidateDate(date string) error {
	if date == "" {
		return nil
	}
	if !dateRegex.MatchString(date) {
		return invalid("date must look like yyyy-mm-dd or yyyy-mm-dd-hh-mm-ss")
	}
	return nil
}

// ValidateDateRange validates both bounds and, when they share a layout,
// that start is not after end.
func ValidateDateRange(start, end string) error {
	if err := ValidateDate(start); err != nil {
		return err
	}
	if err := ValidateDate(end); err != nil {
		return err
	}
	if start != "" && end != "" && len(start) == len(end) && start > end {
		return invalid("start date must not be after end date")
	}
	return nil
}

// ValidateFlag accepts "", "0" or "1"
func ValidateFlag(flag string) error {
	switch flag {
	case "", "0", "1":
		return nil
	default:
		return invalid(`flag must be "0" or "1"`)
	}
}

// ValidateAverage accepts an empty interval or a non-negative number of seconds
func ValidateAverage(avg string) error {
	if avg == "" {
		return nil
	}
	n, err := strconv.Atoi(avg)
	if err != nil {
		return invalid("average interval must be a whole number of seconds")
	}
	if n < 0 {
		return invalid("average interval cannot be negative")
	}
	return nil
}

// invalid tags a validation message with ErrInvalidInput so callers can
// tell bad input from other failures with errors.Is.
func invalid(msg string) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, msg)
}
