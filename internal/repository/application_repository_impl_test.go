package repository

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jnst/race-registration/internal/model"
)

func TestApplicationRepository_ListByUserID(t *testing.T) {
	mock := newMockPool(t)
	userID := uuid.New()
	a1, a2 := uuid.New(), uuid.New()
	raceID := uuid.New()

	mock.ExpectQuery("FROM applications WHERE user_id").
		WithArgs(userID).
		WillReturnRows(pgxmock.NewRows([]string{"id", "race_id", "user_id"}).
			AddRow(a1.String(), raceID.String(), userID.String()).
			AddRow(a2.String(), raceID.String(), userID.String()))

	got, err := NewApplicationRepositoryImpl(mock).ListByUserID(context.Background(), userID)
	require.NoError(t, err)
	assert.Equal(t, []*model.Application{
		{ID: a1, RaceID: raceID, UserID: userID},
		{ID: a2, RaceID: raceID, UserID: userID},
	}, got)
}

func TestApplicationRepository_UpsertDuplicatePair(t *testing.T) {
	mock := newMockPool(t)
	app := &model.Application{ID: uuid.New(), RaceID: uuid.New(), UserID: uuid.New()}

	mock.ExpectExec("INSERT INTO applications").
		WithArgs(app.ID, app.RaceID, app.UserID).
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "applications_user_race_key"})

	err := NewApplicationRepositoryImpl(mock).Upsert(context.Background(), app)
	assert.ErrorIs(t, err, model.ErrDuplicate)
}

func TestApplicationRepository_DeleteAbsent(t *testing.T) {
	mock := newMockPool(t)
	id := uuid.New()

	mock.ExpectExec("DELETE FROM applications").
		WithArgs(id).
		WillReturnResult(pgxmock.NewResult("DELETE", 0))

	deleted, err := NewApplicationRepositoryImpl(mock).Delete(context.Background(), id)
	require.NoError(t, err)
	assert.False(t, deleted)
}
