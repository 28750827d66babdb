package forms

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gravity-webhook/internal/common/errors"
	"gravity-webhook/internal/common/logger"
)

// ==========================
// Test Helper Functions
// ==========================

func createTestExtractor(t *testing.T, schema *FieldSchema) *Extractor {
	fixed := time.Date(2026, time.March, 10, 1, 30, 0, 0, time.UTC)
	return NewExtractor(schema, logger.NewTestLogger(t)).WithClock(func() time.Time { return fixed })
}

func parentFields() FlatFields {
	return FlatFields{
		"17":  "parent",
		"6.3": "John",
		"6.6": "Smith",
		"3":   "j@x.com",
		"7":   "Oak School",
		"16":  "2",
	}
}

// ==========================
// Registration Form Tests
// ==========================

func TestExtract_ParentRegistration(t *testing.T) {
	e := createTestExtractor(t, RegistrationSchema)

	rec, err := e.Extract(parentFields())
	require.NoError(t, err)

	assert.Equal(t, RegistrationParent, rec.RegistrationType)
	assert.Equal(t, "John", rec.FirstName)
	assert.Equal(t, "Smith", rec.LastName)
	assert.Equal(t, "John Smith", rec.ContactName)
	assert.Equal(t, "j@x.com", rec.Email)
	assert.Equal(t, StatusNew, rec.Status)

	details, ok := rec.Details.(ParentDetails)
	require.True(t, ok)
	assert.Equal(t, "Oak School", details.SchoolName)
	assert.Equal(t, 2, details.NumberOfChildren)
}

func TestExtract_PlayerRegistration(t *testing.T) {
	e := createTestExtractor(t, RegistrationSchema)

	rec, err := e.Extract(FlatFields{
		"17":  "player",
		"6.3": "Amy",
		"6.6": "Lee",
		"3":   "amy@x.com",
		"22":  "Norwood FC",
	})
	require.NoError(t, err)

	assert.Equal(t, RegistrationPlayer, rec.RegistrationType)
	details, ok := rec.Details.(PlayerDetails)
	require.True(t, ok)
	assert.Equal(t, "Norwood FC", details.ClubName)
}

func TestExtract_ClubRegistration(t *testing.T) {
	e := createTestExtractor(t, RegistrationSchema)

	rec, err := e.Extract(FlatFields{
		"17": "club",
		"3":  "rep@club.com",
		"24": "Norwood FC",
		"25": "Soccer",
		"26": "40",
	})
	require.NoError(t, err)

	assert.Equal(t, RegistrationClub, rec.RegistrationType)
	details, ok := rec.Details.(ClubDetails)
	require.True(t, ok)
	assert.Equal(t, "Norwood FC", details.ClubName)
	assert.Equal(t, "Soccer", details.SportType)
	assert.Equal(t, 40, details.NumberOfPlayers)
}

// ==========================
// Validation Tests
// ==========================

func TestExtract_MissingEmail(t *testing.T) {
	e := createTestExtractor(t, RegistrationSchema)

	tests := []struct {
		name   string
		fields FlatFields
	}{
		{"absent", FlatFields{"17": "parent"}},
		{"empty", FlatFields{"17": "parent", "3": ""}},
		{"whitespace", FlatFields{"17": "parent", "3": "   "}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := e.Extract(tt.fields)
			require.Error(t, err)

			stdErr := errors.AsStandardError(err)
			require.NotNil(t, stdErr)
			assert.Equal(t, errors.ErrCodeValidationFailed, stdErr.Code)
			assert.Contains(t, stdErr.Details, "email")
		})
	}
}

func TestExtract_MissingRegistrationType(t *testing.T) {
	e := createTestExtractor(t, RegistrationSchema)

	_, err := e.Extract(FlatFields{"3": "j@x.com"})
	require.Error(t, err)

	stdErr := errors.AsStandardError(err)
	require.NotNil(t, stdErr)
	assert.Equal(t, errors.ErrCodeValidationFailed, stdErr.Code)
	assert.Contains(t, stdErr.Details, "registration type")
}

func TestExtract_UnknownRegistrationTypePassesThrough(t *testing.T) {
	e := createTestExtractor(t, RegistrationSchema)

	rec, err := e.Extract(FlatFields{"17": "coach", "3": "c@x.com"})
	require.NoError(t, err)

	assert.Equal(t, RegistrationType("Coach"), rec.RegistrationType)
	assert.Nil(t, rec.Details)
}

// ==========================
// Normalization Tests
// ==========================

func TestNormalizeRegistrationType(t *testing.T) {
	tests := []struct {
		input    string
		expected RegistrationType
	}{
		{"parent", RegistrationParent},
		{"PARENT", RegistrationParent},
		{"Parent", RegistrationParent},
		{" pLaYeR ", RegistrationPlayer},
		{"club", RegistrationClub},
		{"coach", "Coach"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got := NormalizeRegistrationType(tt.input)
			assert.Equal(t, tt.expected, got)
			// Idempotent: normalizing the output is a no-op.
			assert.Equal(t, got, NormalizeRegistrationType(string(got)))
		})
	}
}

func TestExtract_EmailLoweredAndTrimmed(t *testing.T) {
	e := createTestExtractor(t, RegistrationSchema)

	rec, err := e.Extract(FlatFields{"17": "parent", "3": "  J.Smith@X.COM "})
	require.NoError(t, err)

	assert.Equal(t, "j.smith@x.com", rec.Email)
}

func TestExtract_ContactNameTrimsPartialNames(t *testing.T) {
	e := createTestExtractor(t, RegistrationSchema)

	rec, err := e.Extract(FlatFields{"17": "parent", "3": "j@x.com", "6.3": "John"})
	require.NoError(t, err)
	assert.Equal(t, "John", rec.ContactName)

	rec, err = e.Extract(FlatFields{"17": "parent", "3": "j@x.com", "6.6": "Smith"})
	require.NoError(t, err)
	assert.Equal(t, "Smith", rec.ContactName)

	rec, err = e.Extract(FlatFields{"17": "parent", "3": "j@x.com"})
	require.NoError(t, err)
	assert.Equal(t, "", rec.ContactName)
}

// ==========================
// Count Coercion Tests
// ==========================

func TestExtract_CountDefaultsToZero(t *testing.T) {
	e := createTestExtractor(t, RegistrationSchema)

	tests := []struct {
		name     string
		value    string
		present  bool
		expected int
	}{
		{"numeric", "3", true, 3},
		{"padded numeric", " 3 ", true, 3},
		{"non-numeric", "three", true, 0},
		{"empty", "", true, 0},
		{"absent", "", false, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fields := FlatFields{"17": "parent", "3": "j@x.com"}
			if tt.present {
				fields["16"] = tt.value
			}

			rec, err := e.Extract(fields)
			require.NoError(t, err)

			details, ok := rec.Details.(ParentDetails)
			require.True(t, ok)
			assert.Equal(t, tt.expected, details.NumberOfChildren)
		})
	}
}

// ==========================
// Submission Date Tests
// ==========================

func TestExtract_StampsCurrentTimeWithoutTimestampField(t *testing.T) {
	e := createTestExtractor(t, RegistrationSchema)

	rec, err := e.Extract(parentFields())
	require.NoError(t, err)

	// Fixed clock 2026-03-10T01:30:00Z; March is ACDT (+10:30).
	assert.Equal(t, "2026-03-10T12:00:00+10:30", rec.SubmissionDate)
}

func TestExtract_SchoolPartnershipUsesDateCreated(t *testing.T) {
	e := createTestExtractor(t, SchoolPartnershipSchema)

	rec, err := e.Extract(FlatFields{
		"1.3":          "Pat",
		"1.6":          "Jones",
		"2":            "pat@school.edu.au",
		"5":            "Hillcrest Primary",
		"6":            "120",
		"date_created": "2026-01-15 03:00:00",
	})
	require.NoError(t, err)

	assert.Equal(t, RegistrationSchoolPartnership, rec.RegistrationType)
	assert.Equal(t, "2026-01-15T13:30:00+10:30", rec.SubmissionDate)

	details, ok := rec.Details.(ParentDetails)
	require.True(t, ok)
	assert.Equal(t, "Hillcrest Primary", details.SchoolName)
	assert.Equal(t, 120, details.NumberOfChildren)
}

func TestExtract_BadTimestampRejected(t *testing.T) {
	e := createTestExtractor(t, SchoolPartnershipSchema)

	_, err := e.Extract(FlatFields{
		"2":            "pat@school.edu.au",
		"date_created": "not a date",
	})
	require.Error(t, err)

	stdErr := errors.AsStandardError(err)
	require.NotNil(t, stdErr)
	assert.Equal(t, errors.ErrCodeValidationFailed, stdErr.Code)
}

func TestExtract_EmptyTimestampFallsBackToClock(t *testing.T) {
	e := createTestExtractor(t, SchoolPartnershipSchema)

	rec, err := e.Extract(FlatFields{"2": "pat@school.edu.au"})
	require.NoError(t, err)

	assert.Equal(t, "2026-03-10T12:00:00+10:30", rec.SubmissionDate)
}
