// internal/forms/extractor.go
package forms

import (
	"strconv"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"gravity-webhook/internal/common/errors"
	"gravity-webhook/internal/common/logger"
)

// Extractor applies a FieldSchema to decoded fields and produces validated
// contact records. One extractor per form variant, built at startup.
type Extractor struct {
	schema *FieldSchema
	logger logger.Logger
	now    func() time.Time
}

// NewExtractor creates an extractor for the given schema.
func NewExtractor(schema *FieldSchema, log logger.Logger) *Extractor {
	return &Extractor{
		schema: schema,
		logger: log,
		now:    time.Now,
	}
}

// WithClock overrides the extractor's clock (used by tests).
func (e *Extractor) WithClock(now func() time.Time) *Extractor {
	e.now = now
	return e
}

// Schema returns the schema this extractor applies.
func (e *Extractor) Schema() *FieldSchema {
	return e.schema
}

// Extract builds a ContactRecord from decoded fields.
//
// Only two conditions fail validation: a missing/empty email, and a missing
// discriminator on a form that requires one. Every other absent field
// degrades to an empty string, and numeric sub-fields silently default to 0
// on absent or non-numeric input. The ingestion is deliberately best-effort.
func (e *Extractor) Extract(fields FlatFields) (*ContactRecord, error) {
	email := strings.TrimSpace(fields[e.schema.ID(FieldEmail)])
	if email == "" {
		e.logger.Warn("Validation failed - missing email", map[string]interface{}{
			"form": e.schema.Variant,
		})
		return nil, errors.NewValidationError("missing required field: email")
	}

	regType := e.schema.ImplicitType
	var rawType string
	if e.schema.HasDiscriminator() {
		rawType = fields[e.schema.ID(e.schema.Discriminator)]
		if rawType == "" {
			e.logger.Warn("Validation failed - missing registration type", map[string]interface{}{
				"form": e.schema.Variant,
			})
			return nil, errors.NewValidationError("missing required field: registration type")
		}
		regType = NormalizeRegistrationType(rawType)
	}

	firstName := fields[e.schema.ID(FieldFirstName)]
	lastName := fields[e.schema.ID(FieldLastName)]
	contactName := strings.TrimSpace(firstName + " " + lastName)

	submissionDate, err := e.submissionDate(fields)
	if err != nil {
		return nil, err
	}

	record := &ContactRecord{
		RegistrationType: regType,
		FirstName:        firstName,
		LastName:         lastName,
		ContactName:      contactName,
		Email:            strings.ToLower(email),
		Phone:            fields[e.schema.ID(FieldPhone)],
		Notes:            fields[e.schema.ID(FieldNotes)],
		FormIdentifier:   fields[e.schema.ID(FieldFormIdentifier)],
		SubmissionDate:   submissionDate,
		Status:           StatusNew,
		Details:          e.details(regType, fields),
	}

	e.logger.Debug("Contact data extracted", map[string]interface{}{
		"form":             e.schema.Variant,
		"registrationType": string(record.RegistrationType),
		"contact":          record.ContactName,
	})

	return record, nil
}

// details populates the one sub-payload matching the registration type. An
// unrecognized type yields nil; the record writer tolerates that with empty
// overflow columns.
func (e *Extractor) details(regType RegistrationType, fields FlatFields) RegistrationDetails {
	switch regType {
	case RegistrationParent, RegistrationSchoolPartnership:
		return ParentDetails{
			SchoolName:       fields[e.schema.ID(FieldSchoolName)],
			NumberOfChildren: parseCount(fields[e.schema.ID(FieldNumberOfChildren)]),
		}
	case RegistrationPlayer:
		return PlayerDetails{
			ClubName: fields[e.schema.ID(FieldPlayerClubName)],
		}
	case RegistrationClub:
		return ClubDetails{
			ClubName:        fields[e.schema.ID(FieldClubName)],
			SportType:       fields[e.schema.ID(FieldClubSportType)],
			NumberOfPlayers: parseCount(fields[e.schema.ID(FieldClubNumberOfPlayers)]),
		}
	default:
		return nil
	}
}

func (e *Extractor) submissionDate(fields FlatFields) (string, error) {
	if e.schema.Timestamp != "" {
		if raw := strings.TrimSpace(fields[e.schema.ID(e.schema.Timestamp)]); raw != "" {
			converted, err := ToAdelaideTime(raw)
			if err != nil {
				return "", errors.NewValidationError("invalid submission timestamp: " + err.Error())
			}
			return converted, nil
		}
	}
	return FormatAdelaide(e.now()), nil
}

// NormalizeRegistrationType lower-cases the value and capitalizes the first
// letter, producing the display form the list's choice column expects
// ("parent" -> "Parent"). The value is not checked against the known set.
func NormalizeRegistrationType(value string) RegistrationType {
	lower := strings.ToLower(strings.TrimSpace(value))
	if lower == "" {
		return ""
	}
	r, size := utf8.DecodeRuneInString(lower)
	return RegistrationType(string(unicode.ToUpper(r)) + lower[size:])
}

// parseCount parses a base-10 count, defaulting to 0 on absent or
// non-numeric input. Silent defaulting is deliberate: the forms have sent
// free-text values here and a submission must never be dropped for it.
func parseCount(value string) int {
	n, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return 0
	}
	return n
}
