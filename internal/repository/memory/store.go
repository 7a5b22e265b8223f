// Package memory provides an in-process read-model store. It enforces the same uniqueness
// constraints as the PostgreSQL schema.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/jnst/race-registration/internal/model"
	"github.com/jnst/race-registration/internal/repository"
)

// Store holds one table per entity, each behind its own lock.
type Store struct {
	raceMu sync.RWMutex
	races  map[uuid.UUID]model.Race

	userMu sync.RWMutex
	users  map[uuid.UUID]model.User

	appMu sync.RWMutex
	apps  map[uuid.UUID]model.Application
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{
		races: make(map[uuid.UUID]model.Race),
		users: make(map[uuid.UUID]model.User),
		apps:  make(map[uuid.UUID]model.Application),
	}
}

// Races returns the race table.
func (s *Store) Races() repository.RaceRepository { return &raceTable{s} }

// Users returns the user table.
func (s *Store) Users() repository.UserRepository { return &userTable{s} }

// Applications returns the application table.
func (s *Store) Applications() repository.ApplicationRepository { return &applicationTable{s} }

// TransactionManager returns a manager that runs fn directly. Isolation between
// reconciliations comes from the keyed lock held by the caller.
func (s *Store) TransactionManager() repository.TransactionManager { return noTx{} }

type noTx struct{}

func (noTx) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type raceTable struct{ s *Store }

func (t *raceTable) Upsert(_ context.Context, race *model.Race) error {
	t.s.raceMu.Lock()
	defer t.s.raceMu.Unlock()

	for id, other := range t.s.races {
		if id != race.ID && other.Name == race.Name && other.Distance == race.Distance {
			return fmt.Errorf("%w: races_name_distance_key", model.ErrDuplicate)
		}
	}

	t.s.races[race.ID] = *race

	return nil
}

func (t *raceTable) GetByID(_ context.Context, id uuid.UUID) (*model.Race, error) {
	t.s.raceMu.RLock()
	defer t.s.raceMu.RUnlock()

	race, ok := t.s.races[id]
	if !ok {
		return nil, model.ErrRaceNotFound
	}

	return &race, nil
}

func (t *raceTable) GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*model.Race, error) {
	return t.GetByID(ctx, id)
}

func (t *raceTable) Delete(_ context.Context, id uuid.UUID) (bool, error) {
	t.s.raceMu.Lock()
	defer t.s.raceMu.Unlock()

	_, ok := t.s.races[id]
	delete(t.s.races, id)

	return ok, nil
}

func (t *raceTable) List(_ context.Context) ([]*model.Race, error) {
	t.s.raceMu.RLock()
	defer t.s.raceMu.RUnlock()

	races := make([]*model.Race, 0, len(t.s.races))
	for _, race := range t.s.races {
		races = append(races, &race)
	}

	sort.Slice(races, func(i, j int) bool { return races[i].ID.String() < races[j].ID.String() })

	return races, nil
}

func (t *raceTable) ListOrderedByName(ctx context.Context) ([]*model.Race, error) {
	races, err := t.List(ctx)
	if err != nil {
		return nil, err
	}

	sort.SliceStable(races, func(i, j int) bool { return races[i].Name < races[j].Name })

	return races, nil
}

type userTable struct{ s *Store }

func (t *userTable) Upsert(_ context.Context, user *model.User) error {
	t.s.userMu.Lock()
	defer t.s.userMu.Unlock()

	for id, other := range t.s.users {
		if id != user.ID && other.Email == user.Email {
			return fmt.Errorf("%w: users_email_key", model.ErrDuplicate)
		}
	}

	t.s.users[user.ID] = *user

	return nil
}

func (t *userTable) GetByID(_ context.Context, id uuid.UUID) (*model.User, error) {
	t.s.userMu.RLock()
	defer t.s.userMu.RUnlock()

	user, ok := t.s.users[id]
	if !ok {
		return nil, model.ErrUserNotFound
	}

	return &user, nil
}

func (t *userTable) GetByEmail(_ context.Context, email string) (*model.User, error) {
	t.s.userMu.RLock()
	defer t.s.userMu.RUnlock()

	for _, user := range t.s.users {
		if user.Email == email {
			return &user, nil
		}
	}

	return nil, model.ErrUserNotFound
}

func (t *userTable) List(_ context.Context) ([]*model.User, error) {
	t.s.userMu.RLock()
	defer t.s.userMu.RUnlock()

	users := make([]*model.User, 0, len(t.s.users))
	for _, user := range t.s.users {
		users = append(users, &user)
	}

	sort.Slice(users, func(i, j int) bool { return users[i].ID.String() < users[j].ID.String() })

	return users, nil
}

func (t *userTable) ListOrderedByName(ctx context.Context) ([]*model.User, error) {
	users, err := t.List(ctx)
	if err != nil {
		return nil, err
	}

	sort.SliceStable(users, func(i, j int) bool {
		if users[i].LastName != users[j].LastName {
			return users[i].LastName < users[j].LastName
		}

		return users[i].FirstName < users[j].FirstName
	})

	return users, nil
}

type applicationTable struct{ s *Store }

func (t *applicationTable) Upsert(_ context.Context, app *model.Application) error {
	t.s.appMu.Lock()
	defer t.s.appMu.Unlock()

	for id, other := range t.s.apps {
		if id != app.ID && other.UserID == app.UserID && other.RaceID == app.RaceID {
			return fmt.Errorf("%w: applications_user_race_key", model.ErrDuplicate)
		}
	}

	t.s.apps[app.ID] = *app

	return nil
}

func (t *applicationTable) GetByID(_ context.Context, id uuid.UUID) (*model.Application, error) {
	t.s.appMu.RLock()
	defer t.s.appMu.RUnlock()

	app, ok := t.s.apps[id]
	if !ok {
		return nil, model.ErrApplicationNotFound
	}

	return &app, nil
}

func (t *applicationTable) GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*model.Application, error) {
	return t.GetByID(ctx, id)
}

func (t *applicationTable) Delete(_ context.Context, id uuid.UUID) (bool, error) {
	t.s.appMu.Lock()
	defer t.s.appMu.Unlock()

	_, ok := t.s.apps[id]
	delete(t.s.apps, id)

	return ok, nil
}

func (t *applicationTable) List(_ context.Context) ([]*model.Application, error) {
	return t.filter(func(model.Application) bool { return true }), nil
}

func (t *applicationTable) ListByUserID(_ context.Context, userID uuid.UUID) ([]*model.Application, error) {
	return t.filter(func(app model.Application) bool { return app.UserID == userID }), nil
}

func (t *applicationTable) filter(keep func(model.Application) bool) []*model.Application {
	t.s.appMu.RLock()
	defer t.s.appMu.RUnlock()

	apps := make([]*model.Application, 0, len(t.s.apps))
	for _, app := range t.s.apps {
		if keep(app) {
			apps = append(apps, &app)
		}
	}

	sort.Slice(apps, func(i, j int) bool { return apps[i].ID.String() < apps[j].ID.String() })

	return apps
}
