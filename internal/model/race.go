// Package model defines domain models and data structures.
package model

import "github.com/google/uuid"

// Distance is one of the fixed race distances.
type Distance string

const (
	// Distance5K is a 5 kilometre race.
	Distance5K Distance = "5k"
	// Distance10K is a 10 kilometre race.
	Distance10K Distance = "10k"
	// DistanceHalfMarathon is a half marathon.
	DistanceHalfMarathon Distance = "HalfMarathon"
	// DistanceMarathon is a full marathon.
	DistanceMarathon Distance = "Marathon"
)

// Distances lists every allowed distance.
var Distances = []Distance{Distance5K, Distance10K, DistanceHalfMarathon, DistanceMarathon}

// Valid reports whether d is one of the allowed distances.
func (d Distance) Valid() bool {
	for _, allowed := range Distances {
		if d == allowed {
			return true
		}
	}

	return false
}

// Race represents a race in the read model.
type Race struct {
	ID       uuid.UUID `json:"id"`
	Name     string    `json:"name"`
	Distance string    `json:"distance"`
}

// CreateRaceParams represents parameters for creating a new race.
type CreateRaceParams struct {
	Name     string `json:"name"     validate:"notblank"`
	Distance string `json:"distance" validate:"distance"`
}

// Validate validates the create race parameters.
func (p *CreateRaceParams) Validate() error {
	return validateStruct(p)
}

// UpdateRaceParams represents a partial race update. Nil fields are left unchanged.
type UpdateRaceParams struct {
	Name     *string `json:"name"     validate:"omitempty,notblank"`
	Distance *string `json:"distance" validate:"omitempty,distance"`
}

// Validate validates the update race parameters.
func (p *UpdateRaceParams) Validate() error {
	if p.Name == nil && p.Distance == nil {
		return ErrEmptyUpdate
	}

	return validateStruct(p)
}

// RaceChange is an accepted race update. The read model applies it asynchronously.
type RaceChange struct {
	ID       uuid.UUID `json:"id"`
	Name     *string   `json:"name,omitempty"`
	Distance *string   `json:"distance,omitempty"`
}
