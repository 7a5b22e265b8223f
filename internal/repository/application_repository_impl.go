package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/jnst/race-registration/internal/db"
	"github.com/jnst/race-registration/internal/model"
)

// ApplicationRepositoryImpl implements ApplicationRepository using PostgreSQL.
type ApplicationRepositoryImpl struct {
	db *db.Queries
}

// NewApplicationRepositoryImpl creates a new ApplicationRepository implementation.
func NewApplicationRepositoryImpl(conn db.DBTX) ApplicationRepository {
	return &ApplicationRepositoryImpl{db: db.New(conn)}
}

// Upsert inserts an application or overwrites the application with the same id.
func (r *ApplicationRepositoryImpl) Upsert(ctx context.Context, app *model.Application) error {
	err := queriesFor(ctx, r.db).UpsertApplication(ctx, &db.UpsertApplicationParams{
		ID:     app.ID,
		RaceID: app.RaceID,
		UserID: app.UserID,
	})

	return mapError(err, model.ErrApplicationNotFound)
}

// GetByID retrieves an application by ID.
func (r *ApplicationRepositoryImpl) GetByID(ctx context.Context, id uuid.UUID) (*model.Application, error) {
	dbApp, err := queriesFor(ctx, r.db).GetApplication(ctx, id)
	if err != nil {
		return nil, mapError(err, model.ErrApplicationNotFound)
	}

	return toApplication(dbApp), nil
}

// GetByIDForUpdate retrieves an application by ID and locks its row for the current transaction.
func (r *ApplicationRepositoryImpl) GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*model.Application, error) {
	dbApp, err := queriesFor(ctx, r.db).GetApplicationForUpdate(ctx, id)
	if err != nil {
		return nil, mapError(err, model.ErrApplicationNotFound)
	}

	return toApplication(dbApp), nil
}

// Delete removes an application and reports whether a row existed.
func (r *ApplicationRepositoryImpl) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	n, err := queriesFor(ctx, r.db).DeleteApplication(ctx, id)
	if err != nil {
		return false, mapError(err, model.ErrApplicationNotFound)
	}

	return n > 0, nil
}

// List retrieves all applications.
func (r *ApplicationRepositoryImpl) List(ctx context.Context) ([]*model.Application, error) {
	dbApps, err := queriesFor(ctx, r.db).ListApplications(ctx)
	if err != nil {
		return nil, err
	}

	return toApplications(dbApps), nil
}

// ListByUserID retrieves the applications of one user.
func (r *ApplicationRepositoryImpl) ListByUserID(ctx context.Context, userID uuid.UUID) ([]*model.Application, error) {
	dbApps, err := queriesFor(ctx, r.db).ListApplicationsByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	return toApplications(dbApps), nil
}

func toApplication(dbApp db.Application) *model.Application {
	return &model.Application{
		ID:     dbApp.ID,
		RaceID: dbApp.RaceID,
		UserID: dbApp.UserID,
	}
}

func toApplications(dbApps []db.Application) []*model.Application {
	apps := make([]*model.Application, len(dbApps))
	for i, dbApp := range dbApps {
		apps[i] = toApplication(dbApp)
	}

	return apps
}
