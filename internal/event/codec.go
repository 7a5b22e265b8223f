package event

import (
	"fmt"

	"github.com/google/uuid"
)

// Encode returns the sparse wire payload of an event.
func Encode(e Event) Fields {
	return e.Fields()
}

// Classify infers the event kind of an untagged payload from which fields are present.
// The result depends only on the set of present field names.
func Classify(category Category, f Fields) Kind {
	switch category {
	case CategoryRace:
		return classifyRace(f)
	case CategoryApplication:
		return classifyApplication(f)
	default:
		return KindUnknown
	}
}

func classifyRace(f Fields) Kind {
	hasID := f.Has(FieldID)
	hasName := f.Has(FieldName)
	hasDistance := f.Has(FieldDistance)

	switch {
	case hasID && hasName && hasDistance:
		return KindRaceCreated
	case hasID && (hasName || hasDistance):
		return KindRaceUpdated
	case hasID && len(f) == 1:
		return KindRaceDeleted
	default:
		return KindUnknown
	}
}

func classifyApplication(f Fields) Kind {
	switch {
	case f.Has(FieldRaceID) && f.Has(FieldApplicantEmail):
		return KindApplicationCreated
	case f.Has(FieldID) && len(f) >= 1 && !f.Has(FieldRaceID):
		return KindApplicationDeleted
	default:
		return KindUnknown
	}
}

// Resolve picks the kind of a payload. A non-empty tag is authoritative when it belongs to
// category and the payload carries the fields the kind requires; otherwise the payload is
// unclassified. An empty tag falls back to Classify.
func Resolve(category Category, tag Kind, f Fields) Kind {
	if tag == KindUnknown {
		return Classify(category, f)
	}

	if tag.Category() != category || !satisfies(tag, f) {
		return KindUnknown
	}

	return tag
}

func satisfies(kind Kind, f Fields) bool {
	switch kind {
	case KindRaceCreated:
		return f.Has(FieldID) && f.Has(FieldName) && f.Has(FieldDistance)
	case KindRaceUpdated:
		return f.Has(FieldID) && (f.Has(FieldName) || f.Has(FieldDistance))
	case KindRaceDeleted, KindApplicationDeleted:
		return f.Has(FieldID)
	case KindApplicationCreated:
		return f.Has(FieldID) && f.Has(FieldRaceID) && f.Has(FieldApplicantEmail)
	default:
		return false
	}
}

// Decode classifies an untagged payload and builds the typed event.
func Decode(category Category, f Fields) (Event, error) {
	return DecodeKind(Classify(category, f), f)
}

// DecodeKind builds the typed event of the given kind from a payload.
func DecodeKind(kind Kind, f Fields) (Event, error) {
	if kind == KindUnknown {
		return nil, ErrUnclassified
	}

	id, err := parseID(f, FieldID)
	if err != nil {
		return nil, err
	}

	switch kind {
	case KindRaceCreated:
		return RaceCreated{ID: id, Name: f[FieldName], Distance: f[FieldDistance]}, nil
	case KindRaceUpdated:
		return RaceUpdated{ID: id, Name: optional(f, FieldName), Distance: optional(f, FieldDistance)}, nil
	case KindRaceDeleted:
		return RaceDeleted{ID: id}, nil
	case KindApplicationCreated:
		raceID, err := parseID(f, FieldRaceID)
		if err != nil {
			return nil, err
		}

		return ApplicationCreated{ID: id, RaceID: raceID, ApplicantEmail: f[FieldApplicantEmail]}, nil
	case KindApplicationDeleted:
		return ApplicationDeleted{
			ID:             id,
			ApplicantEmail: f[FieldApplicantEmail],
			InitiatorRole:  f[FieldInitiatorRole],
		}, nil
	default:
		return nil, fmt.Errorf("%w: kind %q", ErrUnclassified, kind)
	}
}

func parseID(f Fields, key string) (uuid.UUID, error) {
	raw, ok := f[key]
	if !ok {
		return uuid.Nil, fmt.Errorf("%w: missing %s", ErrMalformed, key)
	}

	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: %s %q: %v", ErrMalformed, key, raw, err)
	}

	return id, nil
}

func optional(f Fields, key string) *string {
	v, ok := f[key]
	if !ok {
		return nil
	}

	return &v
}
