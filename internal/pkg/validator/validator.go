package validator

import (
	"regexp"
	"strings"
	"time"
)

type ValidationError struct {
	Field   string
	Message string
}

type ValidationErrors []ValidationError

func (v ValidationErrors) Error() string {
	var msgs []string
	for _, err := range v {
		msgs = append(msgs, err.Field+": "+err.Message)
	}
	return strings.Join(msgs, "; ")
}

func (v ValidationErrors) ToMap() map[string]string {
	result := make(map[string]string)
	for _, err := range v {
		result[err.Field] = err.Message
	}
	return result
}

// IsEmpty checks if a string is empty after trimming whitespace.
func IsEmpty(s string) bool {
	return strings.TrimSpace(s) == ""
}

// IsValidDateKey checks YYYY-MM-DD calendar-day keys.
func IsValidDateKey(s string) bool {
	_, err := time.Parse("2006-01-02", s)
	return err == nil
}

// IsValidLocalTimestamp checks the naive local timestamp format carried
// on flight segments.
func IsValidLocalTimestamp(s string) bool {
	_, err := time.Parse("2006-01-02T15:04:05", s)
	return err == nil
}

var iataRegex = regexp.MustCompile(`^[A-Z]{3}$`)

// IsValidIATACode checks three-letter airport codes.
func IsValidIATACode(s string) bool {
	return iataRegex.MatchString(s)
}
