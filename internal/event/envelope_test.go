package event

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnvelope_ValuesRoundTrip(t *testing.T) {
	id := uuid.New()
	env := NewEnvelope(CategoryRace, RaceCreated{ID: id, Name: "Boston Marathon", Distance: "Marathon"})
	env.Metadata["traceparent"] = "00-0af7651916cd43dd8448eb211c80319c-b7ad6b7169203331-01"

	values, err := env.Values()
	require.NoError(t, err)
	assert.Equal(t, "RaceCreated", values[KeyEventType])
	assert.Equal(t, "race", values[KeyCategory])

	parsed, err := ParseEnvelope(values)
	require.NoError(t, err)
	assert.Equal(t, env.EventID, parsed.EventID)
	assert.Equal(t, KindRaceCreated, parsed.Kind)
	assert.Equal(t, env.Payload, parsed.Payload)
	assert.Equal(t, env.Metadata, parsed.Metadata)
	assert.True(t, env.OccurredAt.Equal(parsed.OccurredAt))
}

func TestParseEnvelope_NullIsAbsent(t *testing.T) {
	id := uuid.NewString()

	env, err := ParseEnvelope(map[string]string{
		KeyPayload: `{"id":"` + id + `","name":null,"distance":"10k"}`,
	})
	require.NoError(t, err)

	assert.Equal(t, Fields{"id": id, "distance": "10k"}, env.Payload)
	assert.Equal(t, KindRaceUpdated, Classify(CategoryRace, env.Payload))
}

func TestParseEnvelope_FlatEntry(t *testing.T) {
	id := uuid.NewString()

	env, err := ParseEnvelope(map[string]string{
		KeyEventID: "e-1",
		"id":       id,
	})
	require.NoError(t, err)

	assert.Equal(t, "e-1", env.EventID)
	assert.Equal(t, KindUnknown, env.Kind)
	assert.Equal(t, Fields{"id": id}, env.Payload)
	assert.Equal(t, KindRaceDeleted, Classify(CategoryRace, env.Payload))
}

func TestParseEnvelope_Malformed(t *testing.T) {
	_, err := ParseEnvelope(map[string]string{KeyPayload: "{not json"})
	assert.ErrorIs(t, err, ErrMalformed)

	_, err = ParseEnvelope(map[string]string{KeyPayload: "{}", KeyOccurredAt: "yesterday"})
	assert.ErrorIs(t, err, ErrMalformed)
}
