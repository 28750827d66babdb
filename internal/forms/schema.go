// internal/forms/schema.go
package forms

import "fmt"

// Field is a semantic field name, independent of any form's numbering.
type Field string

const (
	FieldRegType        Field = "REG_TYPE"
	FieldFirstName      Field = "FIRST_NAME"
	FieldLastName       Field = "LAST_NAME"
	FieldEmail          Field = "EMAIL"
	FieldPhone          Field = "PHONE"
	FieldNotes          Field = "ADDITIONAL_NOTES"
	FieldFormIdentifier Field = "FORM_IDENTIFIER"
	FieldSubmittedAt    Field = "SUBMITTED_AT"

	// Parent/Guardian specific
	FieldSchoolName       Field = "SCHOOL_NAME"
	FieldNumberOfChildren Field = "NUMBER_OF_CHILDREN"

	// Player specific
	FieldPlayerClubName Field = "PLAYER_CLUB_NAME"

	// Club representative specific
	FieldClubName            Field = "CLUB_NAME"
	FieldClubSportType       Field = "CLUB_SPORT_TYPE"
	FieldClubNumberOfPlayers Field = "CLUB_NUMBER_OF_PLAYERS"
)

// FieldSchema is a frozen table mapping semantic field names onto the field
// identifiers Gravity Forms assigns for one form. Tables are built at process
// start and never mutated.
type FieldSchema struct {
	// Variant names the form this schema belongs to ("registration" or
	// "school-partnership").
	Variant string

	ids map[Field]string

	// Discriminator is the field carrying the registration type. Empty when
	// the form has a single implicit type.
	Discriminator Field

	// ImplicitType is the registration type used when Discriminator is empty.
	ImplicitType RegistrationType

	// Timestamp is the field carrying an explicit submission timestamp, if
	// the form sends one. Empty means the extractor stamps the current time.
	Timestamp Field
}

// newSchema builds a schema and panics on duplicate field identifiers. A
// duplicate is a broken table, not a per-request condition.
func newSchema(variant string, ids map[Field]string, discriminator Field, implicitType RegistrationType, timestamp Field) *FieldSchema {
	seen := make(map[string]Field, len(ids))
	for field, id := range ids {
		if prev, dup := seen[id]; dup {
			panic(fmt.Sprintf("forms: schema %q maps identifier %q to both %s and %s", variant, id, prev, field))
		}
		seen[id] = field
	}
	return &FieldSchema{
		Variant:       variant,
		ids:           ids,
		Discriminator: discriminator,
		ImplicitType:  implicitType,
		Timestamp:     timestamp,
	}
}

// ID returns the provider identifier for a semantic field, or "" when the
// schema does not carry the field.
func (s *FieldSchema) ID(f Field) string {
	return s.ids[f]
}

// HasDiscriminator reports whether this form carries a registration type
// field.
func (s *FieldSchema) HasDiscriminator() bool {
	return s.Discriminator != ""
}

// RegistrationSchema is the original baseline-screening registration form.
// Identifiers match the live Gravity Forms field numbering.
var RegistrationSchema = newSchema(
	"registration",
	map[Field]string{
		FieldRegType:        "17",
		FieldFirstName:      "6.3",
		FieldLastName:       "6.6",
		FieldEmail:          "3",
		FieldPhone:          "18",
		FieldNotes:          "27",
		FieldFormIdentifier: "14",

		FieldSchoolName:       "7",
		FieldNumberOfChildren: "16",

		FieldPlayerClubName: "22",

		FieldClubName:            "24",
		FieldClubSportType:       "25",
		FieldClubNumberOfPlayers: "26",
	},
	FieldRegType,
	"",
	"",
)

// SchoolPartnershipSchema is the school partnership enquiry form. It has no
// registration type field: every submission is a SchoolPartnership. The form
// forwards the provider's date_created key as the submission timestamp.
var SchoolPartnershipSchema = newSchema(
	"school-partnership",
	map[Field]string{
		FieldFirstName:        "1.3",
		FieldLastName:         "1.6",
		FieldEmail:            "2",
		FieldPhone:            "4",
		FieldSchoolName:       "5",
		FieldNumberOfChildren: "6",
		FieldNotes:            "8",
		FieldSubmittedAt:      "date_created",
	},
	"",
	RegistrationSchoolPartnership,
	FieldSubmittedAt,
)

var schemasByVariant = map[string]*FieldSchema{
	RegistrationSchema.Variant:      RegistrationSchema,
	SchoolPartnershipSchema.Variant: SchoolPartnershipSchema,
}

// SchemaForForm looks up the schema table for a form variant name.
func SchemaForForm(variant string) (*FieldSchema, bool) {
	s, ok := schemasByVariant[variant]
	return s, ok
}

// Variants lists the known form variant names.
func Variants() []string {
	out := make([]string, 0, len(schemasByVariant))
	for v := range schemasByVariant {
		out = append(out, v)
	}
	return out
}
