package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsValidDateKey(t *testing.T) {
	assert.True(t, IsValidDateKey("2026-12-10"))
	assert.False(t, IsValidDateKey("2026-13-10"))
	assert.False(t, IsValidDateKey("10/12/2026"))
	assert.False(t, IsValidDateKey(""))
}

func TestIsValidLocalTimestamp(t *testing.T) {
	assert.True(t, IsValidLocalTimestamp("2026-12-10T23:05:00"))
	assert.False(t, IsValidLocalTimestamp("2026-12-10 23:05:00"))
	assert.False(t, IsValidLocalTimestamp("2026-12-10T23:05:00Z"))
}

func TestIsValidIATACode(t *testing.T) {
	assert.True(t, IsValidIATACode("CGK"))
	assert.False(t, IsValidIATACode("cgk"))
	assert.False(t, IsValidIATACode("CGKX"))
	assert.False(t, IsValidIATACode(""))
}

func TestValidationErrors_ToMap(t *testing.T) {
	errs := ValidationErrors{
		{Field: "origin", Message: "must be a 3-letter IATA code"},
		{Field: "depart_date", Message: "must be YYYY-MM-DD"},
	}
	m := errs.ToMap()
	assert.Equal(t, "must be a 3-letter IATA code", m["origin"])
	assert.Equal(t, "must be YYYY-MM-DD", m["depart_date"])
	assert.Contains(t, errs.Error(), "origin")
}
