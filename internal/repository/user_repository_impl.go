package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/jnst/race-registration/internal/db"
	"github.com/jnst/race-registration/internal/model"
)

// UserRepositoryImpl implements UserRepository using PostgreSQL.
type UserRepositoryImpl struct {
	db *db.Queries
}

// NewUserRepositoryImpl creates a new UserRepository implementation.
func NewUserRepositoryImpl(conn db.DBTX) UserRepository {
	return &UserRepositoryImpl{db: db.New(conn)}
}

// Upsert inserts a user or overwrites the user with the same id.
func (r *UserRepositoryImpl) Upsert(ctx context.Context, user *model.User) error {
	params := &db.UpsertUserParams{
		ID:        user.ID,
		FirstName: user.FirstName,
		LastName:  user.LastName,
		Email:     user.Email,
		Role:      string(user.Role),
	}

	if user.Club != nil {
		params.Club = pgtype.Text{String: *user.Club, Valid: true}
	}

	if user.DateOfBirth != nil {
		params.DateOfBirth = pgtype.Date{Time: *user.DateOfBirth, Valid: true}
	}

	return mapError(queriesFor(ctx, r.db).UpsertUser(ctx, params), model.ErrUserNotFound)
}

// GetByID retrieves a user by ID.
func (r *UserRepositoryImpl) GetByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	dbUser, err := queriesFor(ctx, r.db).GetUser(ctx, id)
	if err != nil {
		return nil, mapError(err, model.ErrUserNotFound)
	}

	return toUser(dbUser), nil
}

// GetByEmail retrieves a user by email.
func (r *UserRepositoryImpl) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	dbUser, err := queriesFor(ctx, r.db).GetUserByEmail(ctx, email)
	if err != nil {
		return nil, mapError(err, model.ErrUserNotFound)
	}

	return toUser(dbUser), nil
}

// List retrieves all users.
func (r *UserRepositoryImpl) List(ctx context.Context) ([]*model.User, error) {
	dbUsers, err := queriesFor(ctx, r.db).ListUsers(ctx)
	if err != nil {
		return nil, err
	}

	return toUsers(dbUsers), nil
}

// ListOrderedByName retrieves all users ordered by last name, then first name.
func (r *UserRepositoryImpl) ListOrderedByName(ctx context.Context) ([]*model.User, error) {
	dbUsers, err := queriesFor(ctx, r.db).ListUsersOrderedByName(ctx)
	if err != nil {
		return nil, err
	}

	return toUsers(dbUsers), nil
}

func toUser(dbUser db.User) *model.User {
	user := &model.User{
		ID:        dbUser.ID,
		FirstName: dbUser.FirstName,
		LastName:  dbUser.LastName,
		Email:     dbUser.Email,
		Role:      model.Role(dbUser.Role),
	}

	if dbUser.Club.Valid {
		club := dbUser.Club.String
		user.Club = &club
	}

	if dbUser.DateOfBirth.Valid {
		dob := dbUser.DateOfBirth.Time
		user.DateOfBirth = &dob
	}

	return user
}

func toUsers(dbUsers []db.User) []*model.User {
	users := make([]*model.User, len(dbUsers))
	for i, dbUser := range dbUsers {
		users[i] = toUser(dbUser)
	}

	return users
}
