package forms

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ==========================
// Timestamp Conversion Tests
// ==========================

func TestToAdelaideTime_Success(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			// January is ACDT, UTC+10:30.
			name:     "RFC3339 UTC in summer",
			input:    "2026-01-15T03:00:00Z",
			expected: "2026-01-15T13:30:00+10:30",
		},
		{
			// June is ACST, UTC+09:30.
			name:     "RFC3339 UTC in winter",
			input:    "2026-06-15T03:00:00Z",
			expected: "2026-06-15T12:30:00+09:30",
		},
		{
			name:     "gravity forms date_created format treated as UTC",
			input:    "2026-01-15 03:00:00",
			expected: "2026-01-15T13:30:00+10:30",
		},
		{
			name:     "zoneless ISO without seconds zone",
			input:    "2026-06-15T03:00:00",
			expected: "2026-06-15T12:30:00+09:30",
		},
		{
			name:     "bare date",
			input:    "2026-06-15",
			expected: "2026-06-15T09:30:00+09:30",
		},
		{
			name:     "australian day-first datetime",
			input:    "15/06/2026 03:00:00",
			expected: "2026-06-15T12:30:00+09:30",
		},
		{
			name:     "offset timestamp preserved as instant",
			input:    "2026-01-15T13:30:00+10:30",
			expected: "2026-01-15T13:30:00+10:30",
		},
		{
			name:     "surrounding whitespace trimmed",
			input:    "  2026-01-15T03:00:00Z  ",
			expected: "2026-01-15T13:30:00+10:30",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ToAdelaideTime(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestToAdelaideTime_Unparseable(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"empty", ""},
		{"whitespace only", "   "},
		{"free text", "next tuesday"},
		{"partial", "2026-13-45"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ToAdelaideTime(tt.input)
			assert.Error(t, err)
		})
	}
}

func TestFormatAdelaide(t *testing.T) {
	instant := time.Date(2026, time.January, 15, 3, 0, 0, 0, time.UTC)
	assert.Equal(t, "2026-01-15T13:30:00+10:30", FormatAdelaide(instant))
}
