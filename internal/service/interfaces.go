// Package service provides business logic layer implementations.
package service

import (
	"context"

	"github.com/jnst/race-registration/internal/auth"
	"github.com/jnst/race-registration/internal/event"
	"github.com/jnst/race-registration/internal/model"
)

// EventPublisher hands domain events to the message bus.
type EventPublisher interface {
	PublishRaceEvent(ctx context.Context, e event.Event) (*event.Envelope, error)
	PublishApplicationEvent(ctx context.Context, e event.Event) (*event.Envelope, error)
}

// RaceCommandService defines the write operations on races.
type RaceCommandService interface {
	CreateRace(ctx context.Context, params *model.CreateRaceParams) (*model.Race, error)
	UpdateRace(ctx context.Context, id string, params *model.UpdateRaceParams) (*model.RaceChange, error)
	DeleteRace(ctx context.Context, id string) error
}

// ApplicationCommandService defines the write operations on applications.
type ApplicationCommandService interface {
	CreateApplication(ctx context.Context, caller auth.Identity, params *model.CreateApplicationParams) (*model.ApplicationRequest, error)
	DeleteApplication(ctx context.Context, caller auth.Identity, id string) error
}

// RaceQueryService defines the read operations on races.
type RaceQueryService interface {
	ListRaces(ctx context.Context) ([]*model.Race, error)
	GetRace(ctx context.Context, id string) (*model.Race, error)
}

// ApplicationQueryService defines the read operations on applications.
type ApplicationQueryService interface {
	ListApplications(ctx context.Context, caller auth.Identity) ([]*model.ApplicationView, error)
	GetApplication(ctx context.Context, caller auth.Identity, id string) (*model.ApplicationView, error)
}

// UserQueryService defines the read operations on users.
type UserQueryService interface {
	ListUsers(ctx context.Context) ([]*model.User, error)
}

// TokenService issues access tokens to known users.
type TokenService interface {
	IssueToken(ctx context.Context, email string, role model.Role) (string, error)
}
