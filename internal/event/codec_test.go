package event

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassify_Race(t *testing.T) {
	id := uuid.NewString()

	tests := []struct {
		name   string
		fields Fields
		want   Kind
	}{
		{"all fields is created", Fields{"id": id, "name": "A", "distance": "5k"}, KindRaceCreated},
		{"id and name is updated", Fields{"id": id, "name": "A"}, KindRaceUpdated},
		{"id and distance is updated", Fields{"id": id, "distance": "10k"}, KindRaceUpdated},
		{"id only is deleted", Fields{"id": id}, KindRaceDeleted},
		{"id with unknown field is unclassified", Fields{"id": id, "club": "x"}, KindUnknown},
		{"missing id is unclassified", Fields{"name": "A", "distance": "5k"}, KindUnknown},
		{"empty payload is unclassified", Fields{}, KindUnknown},
		{"created wins over extra fields", Fields{"id": id, "name": "A", "distance": "5k", "x": "y"}, KindRaceCreated},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(CategoryRace, tt.fields))
		})
	}
}

func TestClassify_Application(t *testing.T) {
	id := uuid.NewString()
	raceID := uuid.NewString()

	tests := []struct {
		name   string
		fields Fields
		want   Kind
	}{
		{"race and email is created", Fields{"id": id, "raceId": raceID, "applicantEmail": "a@x.com"}, KindApplicationCreated},
		{"created does not need id to classify", Fields{"raceId": raceID, "applicantEmail": "a@x.com"}, KindApplicationCreated},
		{"id only is deleted", Fields{"id": id}, KindApplicationDeleted},
		{"id with email is deleted", Fields{"id": id, "applicantEmail": "a@x.com"}, KindApplicationDeleted},
		{"id with role is deleted", Fields{"id": id, "initiatorRole": "Administrator"}, KindApplicationDeleted},
		{"id with race id but no email is unclassified", Fields{"id": id, "raceId": raceID}, KindUnknown},
		{"email only is unclassified", Fields{"applicantEmail": "a@x.com"}, KindUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(CategoryApplication, tt.fields))
		})
	}
}

func TestClassify_DependsOnlyOnFieldNames(t *testing.T) {
	a := Fields{"id": uuid.NewString(), "distance": "10k"}
	b := Fields{"id": "not-a-uuid", "distance": ""}

	for i := 0; i < 10; i++ {
		assert.Equal(t, Classify(CategoryRace, a), Classify(CategoryRace, b))
	}

	assert.Equal(t, KindUnknown, Classify(Category("payment"), a))
}

func TestResolve(t *testing.T) {
	id := uuid.NewString()

	t.Run("tag is authoritative", func(t *testing.T) {
		assert.Equal(t, KindRaceDeleted, Resolve(CategoryRace, KindRaceDeleted, Fields{"id": id, "note": "x"}))
	})

	t.Run("tag from another category is rejected", func(t *testing.T) {
		assert.Equal(t, KindUnknown, Resolve(CategoryRace, KindApplicationDeleted, Fields{"id": id}))
	})

	t.Run("tag without required fields is rejected", func(t *testing.T) {
		assert.Equal(t, KindUnknown, Resolve(CategoryRace, KindRaceUpdated, Fields{"id": id}))
	})

	t.Run("empty tag falls back to field presence", func(t *testing.T) {
		assert.Equal(t, KindRaceDeleted, Resolve(CategoryRace, KindUnknown, Fields{"id": id}))
	})
}

func TestEncodeDecode(t *testing.T) {
	id := uuid.New()
	raceID := uuid.New()
	distance := "10k"

	t.Run("race updated keeps only present fields", func(t *testing.T) {
		fields := Encode(RaceUpdated{ID: id, Distance: &distance})
		assert.Equal(t, Fields{"id": id.String(), "distance": "10k"}, fields)

		decoded, err := Decode(CategoryRace, fields)
		require.NoError(t, err)

		updated, ok := decoded.(RaceUpdated)
		require.True(t, ok)
		assert.Equal(t, id, updated.ID)
		assert.Nil(t, updated.Name)
		require.NotNil(t, updated.Distance)
		assert.Equal(t, "10k", *updated.Distance)
	})

	t.Run("application deleted omits missing initiator", func(t *testing.T) {
		fields := Encode(ApplicationDeleted{ID: id})
		assert.Equal(t, Fields{"id": id.String()}, fields)
	})

	t.Run("application created round trips", func(t *testing.T) {
		in := ApplicationCreated{ID: id, RaceID: raceID, ApplicantEmail: "a@x.com"}

		decoded, err := Decode(CategoryApplication, Encode(in))
		require.NoError(t, err)
		assert.Equal(t, in, decoded)
	})

	t.Run("unclassified payload", func(t *testing.T) {
		_, err := Decode(CategoryRace, Fields{"name": "A"})
		assert.ErrorIs(t, err, ErrUnclassified)
	})

	t.Run("bad identifier is malformed", func(t *testing.T) {
		_, err := Decode(CategoryRace, Fields{"id": "R1"})
		assert.ErrorIs(t, err, ErrMalformed)
	})

	t.Run("created without application id is malformed", func(t *testing.T) {
		_, err := Decode(CategoryApplication, Fields{"raceId": raceID.String(), "applicantEmail": "a@x.com"})
		assert.ErrorIs(t, err, ErrMalformed)
	})
}
