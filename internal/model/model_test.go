package model

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func strPtr(s string) *string { return &s }

func TestCreateRaceParams_Validate(t *testing.T) {
	tests := []struct {
		name    string
		params  CreateRaceParams
		wantErr error
	}{
		{name: "valid", params: CreateRaceParams{Name: "Boston Marathon", Distance: "Marathon"}},
		{name: "every distance", params: CreateRaceParams{Name: "A", Distance: "HalfMarathon"}},
		{name: "blank name", params: CreateRaceParams{Name: " \t", Distance: "5k"}, wantErr: ErrInvalidName},
		{name: "unknown distance", params: CreateRaceParams{Name: "A", Distance: "5K"}, wantErr: ErrInvalidDistance},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.params.Validate()
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}

			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestUpdateRaceParams_Validate(t *testing.T) {
	assert.ErrorIs(t, (&UpdateRaceParams{}).Validate(), ErrEmptyUpdate)
	assert.NoError(t, (&UpdateRaceParams{Distance: strPtr("10k")}).Validate())
	assert.ErrorIs(t, (&UpdateRaceParams{Distance: strPtr("1k")}).Validate(), ErrInvalidDistance)
	assert.ErrorIs(t, (&UpdateRaceParams{Name: strPtr("")}).Validate(), ErrInvalidName)
}

func TestCreateApplicationParams_Validate(t *testing.T) {
	assert.NoError(t, (&CreateApplicationParams{RaceID: uuid.NewString()}).Validate())
	assert.ErrorIs(t, (&CreateApplicationParams{}).Validate(), ErrInvalidID)
	assert.ErrorIs(t, (&CreateApplicationParams{RaceID: "r1"}).Validate(), ErrInvalidID)
}

func TestNewApplicationView(t *testing.T) {
	app := &Application{ID: uuid.New(), RaceID: uuid.New(), UserID: uuid.New()}

	unknown := NewApplicationView(app, nil)
	assert.Equal(t, "Unknown", unknown.FirstName)
	assert.Equal(t, "User", unknown.LastName)
	assert.Equal(t, "unknown@example.com", unknown.Email)

	known := NewApplicationView(app, &User{FirstName: "Ann", LastName: "Owner", Email: "a@x.com"})
	assert.Equal(t, "a@x.com", known.Email)
}

func TestRole_Valid(t *testing.T) {
	assert.True(t, RoleApplicant.Valid())
	assert.True(t, RoleAdministrator.Valid())
	assert.False(t, Role("admin").Valid())
}
