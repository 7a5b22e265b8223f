package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/jnst/race-registration/internal/event"
	"github.com/jnst/race-registration/internal/model"
)

// RaceCommandServiceImpl implements RaceCommandService. It validates requests and publishes
// events; it holds no race state of its own.
type RaceCommandServiceImpl struct {
	publisher EventPublisher
}

// NewRaceCommandServiceImpl creates a new RaceCommandService implementation.
func NewRaceCommandServiceImpl(publisher EventPublisher) RaceCommandService {
	return &RaceCommandServiceImpl{publisher: publisher}
}

// CreateRace assigns an id to the race and publishes RaceCreated.
func (s *RaceCommandServiceImpl) CreateRace(ctx context.Context, params *model.CreateRaceParams) (*model.Race, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}

	race := &model.Race{ID: uuid.New(), Name: params.Name, Distance: params.Distance}

	_, err := s.publisher.PublishRaceEvent(ctx, event.RaceCreated{ID: race.ID, Name: race.Name, Distance: race.Distance})
	if err != nil {
		return nil, fmt.Errorf("failed to create race: %w", err)
	}

	return race, nil
}

// UpdateRace publishes RaceUpdated with the fields present in params.
func (s *RaceCommandServiceImpl) UpdateRace(ctx context.Context, id string, params *model.UpdateRaceParams) (*model.RaceChange, error) {
	raceID, err := parseID(id)
	if err != nil {
		return nil, err
	}

	if err := params.Validate(); err != nil {
		return nil, err
	}

	_, err = s.publisher.PublishRaceEvent(ctx, event.RaceUpdated{ID: raceID, Name: params.Name, Distance: params.Distance})
	if err != nil {
		return nil, fmt.Errorf("failed to update race: %w", err)
	}

	return &model.RaceChange{ID: raceID, Name: params.Name, Distance: params.Distance}, nil
}

// DeleteRace publishes RaceDeleted.
func (s *RaceCommandServiceImpl) DeleteRace(ctx context.Context, id string) error {
	raceID, err := parseID(id)
	if err != nil {
		return err
	}

	if _, err := s.publisher.PublishRaceEvent(ctx, event.RaceDeleted{ID: raceID}); err != nil {
		return fmt.Errorf("failed to delete race: %w", err)
	}

	return nil
}

func parseID(raw string) (uuid.UUID, error) {
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: %q", model.ErrInvalidID, raw)
	}

	return id, nil
}
