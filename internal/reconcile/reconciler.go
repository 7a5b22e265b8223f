// Package reconcile applies domain events to the read model. Every transition is idempotent:
// replays overwrite, and updates or deletes of rows that do not exist are dropped.
package reconcile

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jnst/race-registration/internal/event"
	"github.com/jnst/race-registration/internal/lock"
	"github.com/jnst/race-registration/internal/metrics"
	"github.com/jnst/race-registration/internal/model"
	"github.com/jnst/race-registration/internal/repository"
)

// Outcome is the result of one reconciliation.
type Outcome string

const (
	// OutcomeApplied means the store was changed.
	OutcomeApplied Outcome = "applied"
	// OutcomeNoop means the target row did not exist and nothing was changed.
	OutcomeNoop Outcome = "noop"
	// OutcomeSkipped means the event was refused: unknown user or ownership mismatch.
	OutcomeSkipped Outcome = "skipped"
	// OutcomeFailed means the store returned an error. The error is logged, never returned.
	OutcomeFailed Outcome = "failed"
)

// DeletePolicy decides application deletes that carry neither an initiator role nor an
// applicant email.
type DeletePolicy string

const (
	// DeletePolicyCompat deletes unconditionally.
	DeletePolicyCompat DeletePolicy = "compat"
	// DeletePolicyDeny skips the delete.
	DeletePolicyDeny DeletePolicy = "deny"
)

// ParseDeletePolicy converts a configuration value to a DeletePolicy.
func ParseDeletePolicy(s string) (DeletePolicy, error) {
	switch p := DeletePolicy(s); p {
	case DeletePolicyCompat, DeletePolicyDeny:
		return p, nil
	case "":
		return DeletePolicyCompat, nil
	default:
		return "", fmt.Errorf("unknown delete policy %q", s)
	}
}

// Reconciler is the only writer of races and applications in the read model.
type Reconciler struct {
	races        repository.RaceRepository
	users        repository.UserRepository
	applications repository.ApplicationRepository
	tm           repository.TransactionManager
	locks        *lock.Keyed
	deletePolicy DeletePolicy
}

// Option configures a Reconciler.
type Option func(*Reconciler)

// WithDeletePolicy sets the policy for application deletes without role or email.
func WithDeletePolicy(p DeletePolicy) Option {
	return func(r *Reconciler) {
		r.deletePolicy = p
	}
}

// New creates a Reconciler.
func New(
	races repository.RaceRepository,
	users repository.UserRepository,
	applications repository.ApplicationRepository,
	tm repository.TransactionManager,
	opts ...Option,
) *Reconciler {
	r := &Reconciler{
		races:        races,
		users:        users,
		applications: applications,
		tm:           tm,
		locks:        lock.NewKeyed(),
		deletePolicy: DeletePolicyCompat,
	}

	for _, opt := range opts {
		opt(r)
	}

	return r
}

// Apply dispatches a typed event to its reconciliation.
func (r *Reconciler) Apply(ctx context.Context, e event.Event) Outcome {
	switch e := e.(type) {
	case event.RaceCreated:
		return r.RaceCreated(ctx, e)
	case event.RaceUpdated:
		return r.RaceUpdated(ctx, e)
	case event.RaceDeleted:
		return r.RaceDeleted(ctx, e)
	case event.ApplicationCreated:
		return r.ApplicationCreated(ctx, e)
	case event.ApplicationDeleted:
		return r.ApplicationDeleted(ctx, e)
	default:
		slog.Warn("no reconciliation for event", slog.String("kind", string(e.Kind())))
		return OutcomeSkipped
	}
}

// RaceCreated upserts the race. A replay with the same id overwrites.
func (r *Reconciler) RaceCreated(ctx context.Context, e event.RaceCreated) Outcome {
	return r.run(ctx, event.KindRaceCreated, "race:"+e.ID.String(), func(ctx context.Context) (Outcome, error) {
		race := &model.Race{ID: e.ID, Name: e.Name, Distance: e.Distance}
		if err := r.races.Upsert(ctx, race); err != nil {
			return OutcomeFailed, fmt.Errorf("failed to upsert race: %w", err)
		}

		return OutcomeApplied, nil
	})
}

// RaceUpdated overwrites the fields of an existing race that the event carries.
func (r *Reconciler) RaceUpdated(ctx context.Context, e event.RaceUpdated) Outcome {
	return r.run(ctx, event.KindRaceUpdated, "race:"+e.ID.String(), func(ctx context.Context) (Outcome, error) {
		race, err := r.races.GetByIDForUpdate(ctx, e.ID)
		if errors.Is(err, model.ErrRaceNotFound) {
			slog.Info("race to update not found", slog.String("race_id", e.ID.String()))
			return OutcomeNoop, nil
		}

		if err != nil {
			return OutcomeFailed, fmt.Errorf("failed to load race: %w", err)
		}

		if e.Name != nil {
			race.Name = *e.Name
		}

		if e.Distance != nil {
			race.Distance = *e.Distance
		}

		if err := r.races.Upsert(ctx, race); err != nil {
			return OutcomeFailed, fmt.Errorf("failed to update race: %w", err)
		}

		return OutcomeApplied, nil
	})
}

// RaceDeleted removes the race. Its applications are left in place.
func (r *Reconciler) RaceDeleted(ctx context.Context, e event.RaceDeleted) Outcome {
	return r.run(ctx, event.KindRaceDeleted, "race:"+e.ID.String(), func(ctx context.Context) (Outcome, error) {
		return r.deleteRace(ctx, e)
	})
}

func (r *Reconciler) deleteRace(ctx context.Context, e event.RaceDeleted) (Outcome, error) {
	deleted, err := r.races.Delete(ctx, e.ID)
	if err != nil {
		return OutcomeFailed, fmt.Errorf("failed to delete race: %w", err)
	}

	if !deleted {
		return OutcomeNoop, nil
	}

	return OutcomeApplied, nil
}

// ApplicationCreated resolves the applicant by email and upserts the application. Unknown
// applicants are skipped so that every application references a known user.
func (r *Reconciler) ApplicationCreated(ctx context.Context, e event.ApplicationCreated) Outcome {
	return r.run(ctx, event.KindApplicationCreated, "application:"+e.ID.String(), func(ctx context.Context) (Outcome, error) {
		user, err := r.users.GetByEmail(ctx, e.ApplicantEmail)
		if errors.Is(err, model.ErrUserNotFound) {
			slog.Warn("applicant not found, skipping application",
				slog.String("application_id", e.ID.String()),
				slog.String("email", e.ApplicantEmail),
			)

			return OutcomeSkipped, nil
		}

		if err != nil {
			return OutcomeFailed, fmt.Errorf("failed to resolve applicant: %w", err)
		}

		app := &model.Application{ID: e.ID, RaceID: e.RaceID, UserID: user.ID}
		if err := r.applications.Upsert(ctx, app); err != nil {
			return OutcomeFailed, fmt.Errorf("failed to upsert application: %w", err)
		}

		return OutcomeApplied, nil
	})
}

// ApplicationDeleted removes an application on behalf of its initiator. Administrators delete
// unconditionally; an applicant email restricts the delete to that user's application.
func (r *Reconciler) ApplicationDeleted(ctx context.Context, e event.ApplicationDeleted) Outcome {
	return r.run(ctx, event.KindApplicationDeleted, "application:"+e.ID.String(), func(ctx context.Context) (Outcome, error) {
		switch {
		case model.Role(e.InitiatorRole) == model.RoleAdministrator:
			return r.deleteApplication(ctx, e)
		case e.ApplicantEmail != "":
			return r.deleteOwnApplication(ctx, e)
		case r.deletePolicy == DeletePolicyDeny:
			slog.Warn("application delete without initiator denied", slog.String("application_id", e.ID.String()))
			return OutcomeSkipped, nil
		default:
			return r.deleteApplication(ctx, e)
		}
	})
}

func (r *Reconciler) deleteOwnApplication(ctx context.Context, e event.ApplicationDeleted) (Outcome, error) {
	app, err := r.applications.GetByIDForUpdate(ctx, e.ID)
	if errors.Is(err, model.ErrApplicationNotFound) {
		return OutcomeNoop, nil
	}

	if err != nil {
		return OutcomeFailed, fmt.Errorf("failed to load application: %w", err)
	}

	user, err := r.users.GetByEmail(ctx, e.ApplicantEmail)
	if err != nil && !errors.Is(err, model.ErrUserNotFound) {
		return OutcomeFailed, fmt.Errorf("failed to resolve initiator: %w", err)
	}

	if user == nil || user.ID != app.UserID {
		slog.Warn("application delete by non-owner skipped",
			slog.String("application_id", e.ID.String()),
			slog.String("email", e.ApplicantEmail),
		)

		return OutcomeSkipped, nil
	}

	return r.deleteApplication(ctx, e)
}

func (r *Reconciler) deleteApplication(ctx context.Context, e event.ApplicationDeleted) (Outcome, error) {
	deleted, err := r.applications.Delete(ctx, e.ID)
	if err != nil {
		return OutcomeFailed, fmt.Errorf("failed to delete application: %w", err)
	}

	if !deleted {
		return OutcomeNoop, nil
	}

	return OutcomeApplied, nil
}

// run holds the entity lock, executes fn in a transaction and swallows its error.
func (r *Reconciler) run(
	ctx context.Context,
	kind event.Kind,
	key string,
	fn func(ctx context.Context) (Outcome, error),
) Outcome {
	unlock := r.locks.Lock(key)
	defer unlock()

	outcome := OutcomeFailed
	err := r.tm.WithTransaction(ctx, func(ctx context.Context) error {
		var err error
		outcome, err = fn(ctx)

		return err
	})
	if err != nil {
		outcome = OutcomeFailed
		slog.Error("reconciliation failed",
			slog.String("kind", string(kind)),
			slog.String("key", key),
			slog.String("error", err.Error()),
		)
	}

	metrics.RecordReconcile(string(kind), string(outcome))
	slog.Debug("reconciled", slog.String("kind", string(kind)), slog.String("key", key), slog.String("outcome", string(outcome)))

	return outcome
}
