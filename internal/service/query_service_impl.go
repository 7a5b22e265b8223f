package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/jnst/race-registration/internal/auth"
	"github.com/jnst/race-registration/internal/model"
	"github.com/jnst/race-registration/internal/repository"
)

// RaceQueryServiceImpl implements RaceQueryService over the read model.
type RaceQueryServiceImpl struct {
	raceRepo repository.RaceRepository
}

// NewRaceQueryServiceImpl creates a new RaceQueryService implementation.
func NewRaceQueryServiceImpl(raceRepo repository.RaceRepository) RaceQueryService {
	return &RaceQueryServiceImpl{raceRepo: raceRepo}
}

// ListRaces returns every race ordered by name.
func (s *RaceQueryServiceImpl) ListRaces(ctx context.Context) ([]*model.Race, error) {
	return s.raceRepo.ListOrderedByName(ctx)
}

// GetRace returns one race.
func (s *RaceQueryServiceImpl) GetRace(ctx context.Context, id string) (*model.Race, error) {
	raceID, err := parseID(id)
	if err != nil {
		return nil, err
	}

	return s.raceRepo.GetByID(ctx, raceID)
}

// ApplicationQueryServiceImpl implements ApplicationQueryService. Applicants see their own
// applications; administrators see all of them.
type ApplicationQueryServiceImpl struct {
	appRepo  repository.ApplicationRepository
	userRepo repository.UserRepository
}

// NewApplicationQueryServiceImpl creates a new ApplicationQueryService implementation.
func NewApplicationQueryServiceImpl(
	appRepo repository.ApplicationRepository,
	userRepo repository.UserRepository,
) ApplicationQueryService {
	return &ApplicationQueryServiceImpl{appRepo: appRepo, userRepo: userRepo}
}

// ListApplications returns the applications visible to the caller.
func (s *ApplicationQueryServiceImpl) ListApplications(ctx context.Context, caller auth.Identity) ([]*model.ApplicationView, error) {
	var (
		apps []*model.Application
		err  error
	)

	if caller.IsAdmin() {
		apps, err = s.appRepo.List(ctx)
	} else {
		var user *model.User
		user, err = s.userRepo.GetByEmail(ctx, caller.Email)
		if errors.Is(err, model.ErrUserNotFound) {
			return []*model.ApplicationView{}, nil
		}

		if err == nil {
			apps, err = s.appRepo.ListByUserID(ctx, user.ID)
		}
	}

	if err != nil {
		return nil, fmt.Errorf("failed to list applications: %w", err)
	}

	return s.enrich(ctx, apps)
}

// GetApplication returns one application if the caller owns it or is an administrator.
func (s *ApplicationQueryServiceImpl) GetApplication(ctx context.Context, caller auth.Identity, id string) (*model.ApplicationView, error) {
	appID, err := parseID(id)
	if err != nil {
		return nil, err
	}

	app, err := s.appRepo.GetByID(ctx, appID)
	if err != nil {
		return nil, err
	}

	if !caller.IsAdmin() {
		user, err := s.userRepo.GetByEmail(ctx, caller.Email)
		if err != nil && !errors.Is(err, model.ErrUserNotFound) {
			return nil, err
		}

		if user == nil || user.ID != app.UserID {
			return nil, model.ErrForbidden
		}
	}

	views, err := s.enrich(ctx, []*model.Application{app})
	if err != nil {
		return nil, err
	}

	return views[0], nil
}

func (s *ApplicationQueryServiceImpl) enrich(ctx context.Context, apps []*model.Application) ([]*model.ApplicationView, error) {
	users := make(map[uuid.UUID]*model.User)
	views := make([]*model.ApplicationView, len(apps))

	for i, app := range apps {
		user, cached := users[app.UserID]
		if !cached {
			var err error
			user, err = s.userRepo.GetByID(ctx, app.UserID)
			if err != nil && !errors.Is(err, model.ErrUserNotFound) {
				return nil, fmt.Errorf("failed to load applicant: %w", err)
			}

			users[app.UserID] = user
		}

		views[i] = model.NewApplicationView(app, user)
	}

	return views, nil
}

// UserQueryServiceImpl implements UserQueryService.
type UserQueryServiceImpl struct {
	userRepo repository.UserRepository
}

// NewUserQueryServiceImpl creates a new UserQueryService implementation.
func NewUserQueryServiceImpl(userRepo repository.UserRepository) UserQueryService {
	return &UserQueryServiceImpl{userRepo: userRepo}
}

// ListUsers returns every user ordered by last and first name.
func (s *UserQueryServiceImpl) ListUsers(ctx context.Context) ([]*model.User, error) {
	return s.userRepo.ListOrderedByName(ctx)
}
