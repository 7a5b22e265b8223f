// Package event defines the race and application domain events and their wire codec.
package event

import (
	"errors"

	"github.com/google/uuid"
)

// Category is the coarse routing class of an event.
type Category string

const (
	// CategoryRace covers race lifecycle events.
	CategoryRace Category = "race"
	// CategoryApplication covers application lifecycle events.
	CategoryApplication Category = "application"
)

// Kind identifies one event variant.
type Kind string

const (
	// KindUnknown is returned when a payload matches no known variant.
	KindUnknown            Kind = ""
	KindRaceCreated        Kind = "RaceCreated"
	KindRaceUpdated        Kind = "RaceUpdated"
	KindRaceDeleted        Kind = "RaceDeleted"
	KindApplicationCreated Kind = "ApplicationCreated"
	KindApplicationDeleted Kind = "ApplicationDeleted"
)

// Category returns the category a kind belongs to, or "" for unknown kinds.
func (k Kind) Category() Category {
	switch k {
	case KindRaceCreated, KindRaceUpdated, KindRaceDeleted:
		return CategoryRace
	case KindApplicationCreated, KindApplicationDeleted:
		return CategoryApplication
	default:
		return ""
	}
}

// Payload field names.
const (
	FieldID             = "id"
	FieldName           = "name"
	FieldDistance       = "distance"
	FieldRaceID         = "raceId"
	FieldApplicantEmail = "applicantEmail"
	FieldInitiatorRole  = "initiatorRole"
)

var (
	// ErrUnclassified is returned when a payload matches no event shape.
	ErrUnclassified = errors.New("unclassified event payload")
	// ErrMalformed is returned when a recognized field cannot be parsed.
	ErrMalformed = errors.New("malformed event payload")
)

// Fields is the sparse payload of an event. Absent fields are not present as keys.
type Fields map[string]string

// Has reports whether key is present.
func (f Fields) Has(key string) bool {
	_, ok := f[key]
	return ok
}

// Event is a typed domain event.
type Event interface {
	Kind() Kind
	Fields() Fields
}

// RaceCreated announces a new race.
type RaceCreated struct {
	ID       uuid.UUID
	Name     string
	Distance string
}

// Kind implements Event.
func (RaceCreated) Kind() Kind { return KindRaceCreated }

// Fields implements Event.
func (e RaceCreated) Fields() Fields {
	return Fields{
		FieldID:       e.ID.String(),
		FieldName:     e.Name,
		FieldDistance: e.Distance,
	}
}

// RaceUpdated carries a partial race update. Nil fields are unchanged.
type RaceUpdated struct {
	ID       uuid.UUID
	Name     *string
	Distance *string
}

// Kind implements Event.
func (RaceUpdated) Kind() Kind { return KindRaceUpdated }

// Fields implements Event.
func (e RaceUpdated) Fields() Fields {
	f := Fields{FieldID: e.ID.String()}
	if e.Name != nil {
		f[FieldName] = *e.Name
	}

	if e.Distance != nil {
		f[FieldDistance] = *e.Distance
	}

	return f
}

// RaceDeleted announces the removal of a race.
type RaceDeleted struct {
	ID uuid.UUID
}

// Kind implements Event.
func (RaceDeleted) Kind() Kind { return KindRaceDeleted }

// Fields implements Event.
func (e RaceDeleted) Fields() Fields {
	return Fields{FieldID: e.ID.String()}
}

// ApplicationCreated announces a registration of the applicant to a race.
type ApplicationCreated struct {
	ID             uuid.UUID
	RaceID         uuid.UUID
	ApplicantEmail string
}

// Kind implements Event.
func (ApplicationCreated) Kind() Kind { return KindApplicationCreated }

// Fields implements Event.
func (e ApplicationCreated) Fields() Fields {
	return Fields{
		FieldID:             e.ID.String(),
		FieldRaceID:         e.RaceID.String(),
		FieldApplicantEmail: e.ApplicantEmail,
	}
}

// ApplicationDeleted requests removal of an application on behalf of an initiator.
// Empty ApplicantEmail or InitiatorRole means the initiator did not supply it.
type ApplicationDeleted struct {
	ID             uuid.UUID
	ApplicantEmail string
	InitiatorRole  string
}

// Kind implements Event.
func (ApplicationDeleted) Kind() Kind { return KindApplicationDeleted }

// Fields implements Event.
func (e ApplicationDeleted) Fields() Fields {
	f := Fields{FieldID: e.ID.String()}
	if e.ApplicantEmail != "" {
		f[FieldApplicantEmail] = e.ApplicantEmail
	}

	if e.InitiatorRole != "" {
		f[FieldInitiatorRole] = e.InitiatorRole
	}

	return f
}
