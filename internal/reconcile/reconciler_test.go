package reconcile_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/smartystreets/goconvey/convey"

	"github.com/jnst/race-registration/internal/event"
	"github.com/jnst/race-registration/internal/model"
	"github.com/jnst/race-registration/internal/reconcile"
	"github.com/jnst/race-registration/internal/repository"
	"github.com/jnst/race-registration/internal/repository/memory"
)

type fixture struct {
	store *memory.Store
	r     *reconcile.Reconciler
	owner *model.User
	other *model.User
}

func newFixture(opts ...reconcile.Option) *fixture {
	store := memory.NewStore()
	owner := &model.User{ID: uuid.New(), FirstName: "Ann", LastName: "Owner", Email: "a@x.com", Role: model.RoleApplicant}
	other := &model.User{ID: uuid.New(), FirstName: "Bob", LastName: "Other", Email: "b@x.com", Role: model.RoleApplicant}

	ctx := context.Background()
	convey.So(store.Users().Upsert(ctx, owner), convey.ShouldBeNil)
	convey.So(store.Users().Upsert(ctx, other), convey.ShouldBeNil)

	return &fixture{
		store: store,
		r:     reconcile.New(store.Races(), store.Users(), store.Applications(), store.TransactionManager(), opts...),
		owner: owner,
		other: other,
	}
}

func strPtr(s string) *string { return &s }

func TestReconciler_Races(t *testing.T) {
	ctx := context.Background()

	convey.Convey("Given an empty read model", t, func() {
		f := newFixture()
		r1 := uuid.New()

		convey.Convey("When RaceCreated for the Boston Marathon is applied", func() {
			out := f.r.RaceCreated(ctx, event.RaceCreated{ID: r1, Name: "Boston Marathon", Distance: "Marathon"})

			convey.Convey("Then exactly one race is queryable by id and in the name listing", func() {
				convey.So(out, convey.ShouldEqual, reconcile.OutcomeApplied)

				race, err := f.store.Races().GetByID(ctx, r1)
				convey.So(err, convey.ShouldBeNil)
				convey.So(*race, convey.ShouldResemble, model.Race{ID: r1, Name: "Boston Marathon", Distance: "Marathon"})

				races, err := f.store.Races().ListOrderedByName(ctx)
				convey.So(err, convey.ShouldBeNil)
				convey.So(races, convey.ShouldHaveLength, 1)
				convey.So(races[0].ID, convey.ShouldEqual, r1)
			})

			convey.Convey("Then applying it again leaves a single identical row", func() {
				again := f.r.RaceCreated(ctx, event.RaceCreated{ID: r1, Name: "Boston Marathon", Distance: "Marathon"})
				convey.So(again, convey.ShouldEqual, reconcile.OutcomeApplied)

				races, err := f.store.Races().List(ctx)
				convey.So(err, convey.ShouldBeNil)
				convey.So(races, convey.ShouldHaveLength, 1)
				convey.So(races[0].Name, convey.ShouldEqual, "Boston Marathon")
			})
		})

		convey.Convey("When RaceCreated(A, 5k) is followed by an update of the distance only", func() {
			f.r.RaceCreated(ctx, event.RaceCreated{ID: r1, Name: "A", Distance: "5k"})
			out := f.r.RaceUpdated(ctx, event.RaceUpdated{ID: r1, Distance: strPtr("10k")})

			convey.Convey("Then the name is kept and the distance changes", func() {
				convey.So(out, convey.ShouldEqual, reconcile.OutcomeApplied)

				race, err := f.store.Races().GetByID(ctx, r1)
				convey.So(err, convey.ShouldBeNil)
				convey.So(*race, convey.ShouldResemble, model.Race{ID: r1, Name: "A", Distance: "10k"})
			})
		})

		convey.Convey("When an update carries an empty name", func() {
			f.r.RaceCreated(ctx, event.RaceCreated{ID: r1, Name: "A", Distance: "5k"})
			out := f.r.RaceUpdated(ctx, event.RaceUpdated{ID: r1, Name: strPtr(""), Distance: strPtr("Marathon")})

			convey.Convey("Then the empty name is stored as sent", func() {
				convey.So(out, convey.ShouldEqual, reconcile.OutcomeApplied)

				race, err := f.store.Races().GetByID(ctx, r1)
				convey.So(err, convey.ShouldBeNil)
				convey.So(race.Name, convey.ShouldEqual, "")
				convey.So(race.Distance, convey.ShouldEqual, "Marathon")
			})
		})

		convey.Convey("When updates and deletes arrive for an unknown id", func() {
			updated := f.r.RaceUpdated(ctx, event.RaceUpdated{ID: r1, Name: strPtr("Ghost")})
			deleted := f.r.RaceDeleted(ctx, event.RaceDeleted{ID: r1})

			convey.Convey("Then both are no-ops and no row is fabricated", func() {
				convey.So(updated, convey.ShouldEqual, reconcile.OutcomeNoop)
				convey.So(deleted, convey.ShouldEqual, reconcile.OutcomeNoop)

				_, err := f.store.Races().GetByID(ctx, r1)
				convey.So(err, convey.ShouldEqual, model.ErrRaceNotFound)
			})
		})

		convey.Convey("When a second race reuses the name and distance of the first", func() {
			f.r.RaceCreated(ctx, event.RaceCreated{ID: r1, Name: "A", Distance: "5k"})
			out := f.r.RaceCreated(ctx, event.RaceCreated{ID: uuid.New(), Name: "A", Distance: "5k"})

			convey.Convey("Then the uniqueness violation is swallowed and reported as failed", func() {
				convey.So(out, convey.ShouldEqual, reconcile.OutcomeFailed)

				races, err := f.store.Races().List(ctx)
				convey.So(err, convey.ShouldBeNil)
				convey.So(races, convey.ShouldHaveLength, 1)
			})
		})

		convey.Convey("When a race with applications is deleted", func() {
			appID := uuid.New()
			f.r.RaceCreated(ctx, event.RaceCreated{ID: r1, Name: "A", Distance: "5k"})
			f.r.ApplicationCreated(ctx, event.ApplicationCreated{ID: appID, RaceID: r1, ApplicantEmail: "a@x.com"})
			out := f.r.RaceDeleted(ctx, event.RaceDeleted{ID: r1})

			convey.Convey("Then the race is gone and its application is kept", func() {
				convey.So(out, convey.ShouldEqual, reconcile.OutcomeApplied)

				_, err := f.store.Applications().GetByID(ctx, appID)
				convey.So(err, convey.ShouldBeNil)
			})
		})
	})
}

func TestReconciler_Applications(t *testing.T) {
	ctx := context.Background()

	convey.Convey("Given a race and two known applicants", t, func() {
		f := newFixture()
		raceID := uuid.New()
		appID := uuid.New()
		f.r.RaceCreated(ctx, event.RaceCreated{ID: raceID, Name: "A", Distance: "5k"})

		convey.Convey("When an unknown applicant registers", func() {
			out := f.r.ApplicationCreated(ctx, event.ApplicationCreated{ID: appID, RaceID: raceID, ApplicantEmail: "ghost@x.com"})

			convey.Convey("Then no application row is created", func() {
				convey.So(out, convey.ShouldEqual, reconcile.OutcomeSkipped)

				_, err := f.store.Applications().GetByID(ctx, appID)
				convey.So(err, convey.ShouldEqual, model.ErrApplicationNotFound)
			})
		})

		convey.Convey("When the owner's application exists", func() {
			out := f.r.ApplicationCreated(ctx, event.ApplicationCreated{ID: appID, RaceID: raceID, ApplicantEmail: "a@x.com"})
			convey.So(out, convey.ShouldEqual, reconcile.OutcomeApplied)

			app, err := f.store.Applications().GetByID(ctx, appID)
			convey.So(err, convey.ShouldBeNil)
			convey.So(app.UserID, convey.ShouldEqual, f.owner.ID)

			convey.Convey("And another applicant asks to delete it", func() {
				out := f.r.ApplicationDeleted(ctx, event.ApplicationDeleted{ID: appID, ApplicantEmail: "b@x.com"})

				convey.Convey("Then the application remains", func() {
					convey.So(out, convey.ShouldEqual, reconcile.OutcomeSkipped)

					_, err := f.store.Applications().GetByID(ctx, appID)
					convey.So(err, convey.ShouldBeNil)
				})
			})

			convey.Convey("And an unknown email asks to delete it", func() {
				out := f.r.ApplicationDeleted(ctx, event.ApplicationDeleted{ID: appID, ApplicantEmail: "ghost@x.com"})

				convey.Convey("Then the application remains", func() {
					convey.So(out, convey.ShouldEqual, reconcile.OutcomeSkipped)
				})
			})

			convey.Convey("And the owner deletes it", func() {
				out := f.r.ApplicationDeleted(ctx, event.ApplicationDeleted{ID: appID, ApplicantEmail: "a@x.com", InitiatorRole: "Applicant"})

				convey.Convey("Then it is removed", func() {
					convey.So(out, convey.ShouldEqual, reconcile.OutcomeApplied)

					_, err := f.store.Applications().GetByID(ctx, appID)
					convey.So(err, convey.ShouldEqual, model.ErrApplicationNotFound)
				})
			})

			convey.Convey("And an administrator deletes it with someone else's email", func() {
				out := f.r.ApplicationDeleted(ctx, event.ApplicationDeleted{ID: appID, ApplicantEmail: "b@x.com", InitiatorRole: "Administrator"})

				convey.Convey("Then it is removed regardless of ownership", func() {
					convey.So(out, convey.ShouldEqual, reconcile.OutcomeApplied)
				})
			})

			convey.Convey("And a delete carries neither role nor email", func() {
				out := f.r.ApplicationDeleted(ctx, event.ApplicationDeleted{ID: appID})

				convey.Convey("Then it is removed under the compatibility policy", func() {
					convey.So(out, convey.ShouldEqual, reconcile.OutcomeApplied)
				})
			})

			convey.Convey("And the same applicant registers again under a new id", func() {
				out := f.r.ApplicationCreated(ctx, event.ApplicationCreated{ID: uuid.New(), RaceID: raceID, ApplicantEmail: "a@x.com"})

				convey.Convey("Then the duplicate registration fails without a second row", func() {
					convey.So(out, convey.ShouldEqual, reconcile.OutcomeFailed)

					apps, err := f.store.Applications().ListByUserID(ctx, f.owner.ID)
					convey.So(err, convey.ShouldBeNil)
					convey.So(apps, convey.ShouldHaveLength, 1)
				})
			})
		})

		convey.Convey("When the application to delete does not exist", func() {
			out := f.r.ApplicationDeleted(ctx, event.ApplicationDeleted{ID: appID, ApplicantEmail: "a@x.com"})

			convey.Convey("Then the delete is a no-op", func() {
				convey.So(out, convey.ShouldEqual, reconcile.OutcomeNoop)
			})
		})
	})
}

func TestReconciler_DenyPolicy(t *testing.T) {
	ctx := context.Background()

	convey.Convey("Given the deny delete policy and an existing application", t, func() {
		f := newFixture(reconcile.WithDeletePolicy(reconcile.DeletePolicyDeny))
		appID := uuid.New()
		f.r.ApplicationCreated(ctx, event.ApplicationCreated{ID: appID, RaceID: uuid.New(), ApplicantEmail: "a@x.com"})

		convey.Convey("When a delete carries neither role nor email", func() {
			out := f.r.ApplicationDeleted(ctx, event.ApplicationDeleted{ID: appID})

			convey.Convey("Then the application is kept", func() {
				convey.So(out, convey.ShouldEqual, reconcile.OutcomeSkipped)

				_, err := f.store.Applications().GetByID(ctx, appID)
				convey.So(err, convey.ShouldBeNil)
			})
		})

		convey.Convey("When an administrator deletes it", func() {
			out := f.r.ApplicationDeleted(ctx, event.ApplicationDeleted{ID: appID, InitiatorRole: "Administrator"})

			convey.Convey("Then the override still applies", func() {
				convey.So(out, convey.ShouldEqual, reconcile.OutcomeApplied)
			})
		})
	})
}

type failingTx struct{ err error }

func (f failingTx) WithTransaction(context.Context, func(context.Context) error) error { return f.err }

var _ repository.TransactionManager = failingTx{}

func applyConcurrently(n int, apply func(i int) reconcile.Outcome) []reconcile.Outcome {
	outcomes := make([]reconcile.Outcome, n)

	var wg sync.WaitGroup
	for i := range n {
		wg.Add(1)
		go func() {
			defer wg.Done()
			outcomes[i] = apply(i)
		}()
	}

	wg.Wait()

	return outcomes
}

func countOutcome(outcomes []reconcile.Outcome, want reconcile.Outcome) int {
	n := 0
	for _, o := range outcomes {
		if o == want {
			n++
		}
	}

	return n
}

func TestReconciler_ConcurrentDuplicates(t *testing.T) {
	ctx := context.Background()
	const workers = 32

	convey.Convey("Given an empty read model", t, func() {
		f := newFixture()

		convey.Convey("When the same RaceCreated is applied from many goroutines", func() {
			id := uuid.New()
			outcomes := applyConcurrently(workers, func(int) reconcile.Outcome {
				return f.r.RaceCreated(ctx, event.RaceCreated{ID: id, Name: "Boston Marathon", Distance: "Marathon"})
			})

			convey.Convey("Then every delivery applies and one row remains", func() {
				convey.So(countOutcome(outcomes, reconcile.OutcomeApplied), convey.ShouldEqual, workers)

				races, err := f.store.Races().List(ctx)
				convey.So(err, convey.ShouldBeNil)
				convey.So(races, convey.ShouldHaveLength, 1)
				convey.So(races[0].ID, convey.ShouldEqual, id)
			})
		})

		convey.Convey("When RaceCreated events with distinct ids but the same name and distance race", func() {
			outcomes := applyConcurrently(workers, func(int) reconcile.Outcome {
				return f.r.RaceCreated(ctx, event.RaceCreated{ID: uuid.New(), Name: "Boston Marathon", Distance: "Marathon"})
			})

			convey.Convey("Then exactly one is applied and the rest fail on the unique constraint", func() {
				convey.So(countOutcome(outcomes, reconcile.OutcomeApplied), convey.ShouldEqual, 1)
				convey.So(countOutcome(outcomes, reconcile.OutcomeFailed), convey.ShouldEqual, workers-1)

				races, err := f.store.Races().List(ctx)
				convey.So(err, convey.ShouldBeNil)
				convey.So(races, convey.ShouldHaveLength, 1)
			})
		})

		convey.Convey("When ApplicationCreated for one applicant and race arrives with distinct ids", func() {
			raceID := uuid.New()
			convey.So(f.r.RaceCreated(ctx, event.RaceCreated{ID: raceID, Name: "A", Distance: "5k"}), convey.ShouldEqual, reconcile.OutcomeApplied)

			outcomes := applyConcurrently(workers, func(int) reconcile.Outcome {
				return f.r.ApplicationCreated(ctx, event.ApplicationCreated{ID: uuid.New(), RaceID: raceID, ApplicantEmail: "a@x.com"})
			})

			convey.Convey("Then a single application row exists", func() {
				convey.So(countOutcome(outcomes, reconcile.OutcomeApplied), convey.ShouldEqual, 1)

				apps, err := f.store.Applications().List(ctx)
				convey.So(err, convey.ShouldBeNil)
				convey.So(apps, convey.ShouldHaveLength, 1)
			})
		})
	})
}

func TestReconciler_StoreErrorsAreSwallowed(t *testing.T) {
	convey.Convey("Given a store whose transactions fail", t, func() {
		store := memory.NewStore()
		r := reconcile.New(store.Races(), store.Users(), store.Applications(), failingTx{err: errors.New("connection reset")})

		convey.Convey("When any event is applied", func() {
			out := r.Apply(context.Background(), event.RaceDeleted{ID: uuid.New()})

			convey.Convey("Then the outcome is failed and nothing panics", func() {
				convey.So(out, convey.ShouldEqual, reconcile.OutcomeFailed)
			})
		})
	})
}

func TestParseDeletePolicy(t *testing.T) {
	convey.Convey("Given delete policy strings", t, func() {
		compat, err := reconcile.ParseDeletePolicy("")
		convey.So(err, convey.ShouldBeNil)
		convey.So(compat, convey.ShouldEqual, reconcile.DeletePolicyCompat)

		deny, err := reconcile.ParseDeletePolicy("deny")
		convey.So(err, convey.ShouldBeNil)
		convey.So(deny, convey.ShouldEqual, reconcile.DeletePolicyDeny)

		_, err = reconcile.ParseDeletePolicy("allow-all")
		convey.So(err, convey.ShouldNotBeNil)
	})
}
