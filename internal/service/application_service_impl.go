package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/jnst/race-registration/internal/auth"
	"github.com/jnst/race-registration/internal/event"
	"github.com/jnst/race-registration/internal/model"
)

// ApplicationCommandServiceImpl implements ApplicationCommandService.
type ApplicationCommandServiceImpl struct {
	publisher EventPublisher
}

// NewApplicationCommandServiceImpl creates a new ApplicationCommandService implementation.
func NewApplicationCommandServiceImpl(publisher EventPublisher) ApplicationCommandService {
	return &ApplicationCommandServiceImpl{publisher: publisher}
}

// CreateApplication registers the caller to a race.
func (s *ApplicationCommandServiceImpl) CreateApplication(
	ctx context.Context,
	caller auth.Identity,
	params *model.CreateApplicationParams,
) (*model.ApplicationRequest, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}

	req := &model.ApplicationRequest{
		ID:             uuid.New(),
		RaceID:         uuid.MustParse(params.RaceID),
		ApplicantEmail: caller.Email,
	}

	_, err := s.publisher.PublishApplicationEvent(ctx, event.ApplicationCreated{
		ID:             req.ID,
		RaceID:         req.RaceID,
		ApplicantEmail: req.ApplicantEmail,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create application: %w", err)
	}

	return req, nil
}

// DeleteApplication publishes ApplicationDeleted on behalf of the caller. Ownership is checked
// by the read model when the event is applied.
func (s *ApplicationCommandServiceImpl) DeleteApplication(ctx context.Context, caller auth.Identity, id string) error {
	appID, err := parseID(id)
	if err != nil {
		return err
	}

	_, err = s.publisher.PublishApplicationEvent(ctx, event.ApplicationDeleted{
		ID:             appID,
		ApplicantEmail: caller.Email,
		InitiatorRole:  string(caller.Role),
	})
	if err != nil {
		return fmt.Errorf("failed to delete application: %w", err)
	}

	return nil
}
