// internal/forms/contact.go
package forms

// RegistrationType is the capitalized display form of the registration
// discriminator. The known values are below, but unknown values are passed
// through unvalidated.
type RegistrationType string

const (
	RegistrationParent            RegistrationType = "Parent"
	RegistrationPlayer            RegistrationType = "Player"
	RegistrationClub              RegistrationType = "Club"
	RegistrationSchoolPartnership RegistrationType = "SchoolPartnership"
)

// StatusNew is the status every contact is created with.
const StatusNew = "New"

// FlatFields is the decoded webhook body: field identifier to string value.
type FlatFields map[string]string

// ContactRecord is the canonical normalized submission. It is built once per
// request and never mutated afterwards.
type ContactRecord struct {
	RegistrationType RegistrationType `json:"registrationType"`
	FirstName        string           `json:"firstName"`
	LastName         string           `json:"lastName"`
	ContactName      string           `json:"contactName"`
	Email            string           `json:"email"`
	Phone            string           `json:"phone,omitempty"`
	Notes            string           `json:"additionalNotes,omitempty"`
	FormIdentifier   string           `json:"formIdentifier,omitempty"`
	SubmissionDate   string           `json:"submissionDate"`
	Status           string           `json:"status"`

	// Details is the type-specific payload. Nil when the registration type
	// is not one of the known variants; consumers must tolerate that.
	Details RegistrationDetails `json:"details,omitempty"`
}

// RegistrationDetails is the discriminated payload union. Exactly one
// concrete type applies per record; the record writer switches on the
// concrete type.
type RegistrationDetails interface {
	isRegistrationDetails()
}

// ParentDetails carries the Parent and SchoolPartnership payload.
type ParentDetails struct {
	SchoolName       string `json:"schoolName"`
	NumberOfChildren int    `json:"numberOfChildren"`
}

// PlayerDetails carries the Player payload.
type PlayerDetails struct {
	ClubName string `json:"playerClubName"`
}

// ClubDetails carries the Club representative payload.
type ClubDetails struct {
	ClubName        string `json:"clubName"`
	SportType       string `json:"clubSportType"`
	NumberOfPlayers int    `json:"clubNumberOfPlayers"`
}

func (ParentDetails) isRegistrationDetails() {}
func (PlayerDetails) isRegistrationDetails() {}
func (ClubDetails) isRegistrationDetails()   {}
