// Package repository provides data access interfaces and implementations.
package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/jnst/race-registration/internal/model"
)

// RaceRepository defines methods for race data access.
type RaceRepository interface {
	Upsert(ctx context.Context, race *model.Race) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.Race, error)
	// GetByIDForUpdate reads a race and, inside a transaction, locks its row until commit.
	GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*model.Race, error)
	Delete(ctx context.Context, id uuid.UUID) (bool, error)
	List(ctx context.Context) ([]*model.Race, error)
	ListOrderedByName(ctx context.Context) ([]*model.Race, error)
}

// UserRepository defines methods for user data access.
type UserRepository interface {
	Upsert(ctx context.Context, user *model.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.User, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	List(ctx context.Context) ([]*model.User, error)
	ListOrderedByName(ctx context.Context) ([]*model.User, error)
}

// ApplicationRepository defines methods for application data access.
type ApplicationRepository interface {
	Upsert(ctx context.Context, app *model.Application) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.Application, error)
	// GetByIDForUpdate reads an application and, inside a transaction, locks its row until commit.
	GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*model.Application, error)
	Delete(ctx context.Context, id uuid.UUID) (bool, error)
	List(ctx context.Context) ([]*model.Application, error)
	ListByUserID(ctx context.Context, userID uuid.UUID) ([]*model.Application, error)
}

// TransactionManager defines methods for database transaction management.
type TransactionManager interface {
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}
