package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/jnst/race-registration/internal/db"
	"github.com/jnst/race-registration/internal/model"
)

// RaceRepositoryImpl implements RaceRepository using PostgreSQL.
type RaceRepositoryImpl struct {
	db *db.Queries
}

// NewRaceRepositoryImpl creates a new RaceRepository implementation.
func NewRaceRepositoryImpl(conn db.DBTX) RaceRepository {
	return &RaceRepositoryImpl{db: db.New(conn)}
}

// Upsert inserts a race or overwrites the race with the same id.
func (r *RaceRepositoryImpl) Upsert(ctx context.Context, race *model.Race) error {
	err := queriesFor(ctx, r.db).UpsertRace(ctx, &db.UpsertRaceParams{
		ID:       race.ID,
		Name:     race.Name,
		Distance: race.Distance,
	})

	return mapError(err, model.ErrRaceNotFound)
}

// GetByID retrieves a race by ID.
func (r *RaceRepositoryImpl) GetByID(ctx context.Context, id uuid.UUID) (*model.Race, error) {
	dbRace, err := queriesFor(ctx, r.db).GetRace(ctx, id)
	if err != nil {
		return nil, mapError(err, model.ErrRaceNotFound)
	}

	return toRace(dbRace), nil
}

// GetByIDForUpdate retrieves a race by ID and locks its row for the current transaction.
func (r *RaceRepositoryImpl) GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*model.Race, error) {
	dbRace, err := queriesFor(ctx, r.db).GetRaceForUpdate(ctx, id)
	if err != nil {
		return nil, mapError(err, model.ErrRaceNotFound)
	}

	return toRace(dbRace), nil
}

// Delete removes a race and reports whether a row existed.
func (r *RaceRepositoryImpl) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	n, err := queriesFor(ctx, r.db).DeleteRace(ctx, id)
	if err != nil {
		return false, mapError(err, model.ErrRaceNotFound)
	}

	return n > 0, nil
}

// List retrieves all races in storage order.
func (r *RaceRepositoryImpl) List(ctx context.Context) ([]*model.Race, error) {
	dbRaces, err := queriesFor(ctx, r.db).ListRaces(ctx)
	if err != nil {
		return nil, err
	}

	return toRaces(dbRaces), nil
}

// ListOrderedByName retrieves all races ordered by name.
func (r *RaceRepositoryImpl) ListOrderedByName(ctx context.Context) ([]*model.Race, error) {
	dbRaces, err := queriesFor(ctx, r.db).ListRacesOrderedByName(ctx)
	if err != nil {
		return nil, err
	}

	return toRaces(dbRaces), nil
}

func toRace(dbRace db.Race) *model.Race {
	return &model.Race{
		ID:       dbRace.ID,
		Name:     dbRace.Name,
		Distance: dbRace.Distance,
	}
}

func toRaces(dbRaces []db.Race) []*model.Race {
	races := make([]*model.Race, len(dbRaces))
	for i, dbRace := range dbRaces {
		races[i] = toRace(dbRace)
	}

	return races
}
