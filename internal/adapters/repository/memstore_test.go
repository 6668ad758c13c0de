package repository_test

import (
	"context"
	"testing"
	"time"

	"github.com/okian/agon/internal/adapters/repository"
	"github.com/okian/agon/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func fact(id, tournament string, at time.Time) model.TournamentFact {
	return model.TournamentFact{
		FactID:       id,
		TournamentID: tournament,
		CompetitorID: "alice",
		OccurredAt:   at,
		Placement:    1,
		FieldSize:    5,
	}
}

func TestMemStore_Facts(t *testing.T) {
	ctx := context.Background()

	Convey("Given an empty store", t, func() {
		store := repository.NewMemStore(ctx)
		t0 := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

		Convey("When facts arrive in chronological order", func() {
			So(store.AppendFact(ctx, fact("f1", "t1", t0)), ShouldBeNil)
			So(store.AppendFact(ctx, fact("f2", "t2", t0.Add(time.Hour))), ShouldBeNil)

			Convey("Then they read back in the same order", func() {
				facts, err := store.Facts(ctx, "alice")
				So(err, ShouldBeNil)
				So(facts, ShouldHaveLength, 2)
				So(facts[0].TournamentID, ShouldEqual, "t1")
				So(facts[1].TournamentID, ShouldEqual, "t2")
			})

			Convey("And the counters reflect the writes", func() {
				So(store.FactCount(ctx), ShouldEqual, 2)
				So(store.Competitors(ctx), ShouldEqual, 1)
			})
		})

		Convey("When a fact predates the latest stored one", func() {
			So(store.AppendFact(ctx, fact("f1", "t1", t0.Add(time.Hour))), ShouldBeNil)
			err := store.AppendFact(ctx, fact("f2", "t2", t0))

			Convey("Then the append is rejected", func() {
				So(err, ShouldNotBeNil)
				So(err, ShouldWrap, repository.ErrOutOfOrder)
			})
		})

		Convey("When timestamps tie", func() {
			So(store.AppendFact(ctx, fact("f1", "t1", t0)), ShouldBeNil)
			So(store.AppendFact(ctx, fact("f2", "t2", t0)), ShouldBeNil)

			Convey("Then arrival order is preserved", func() {
				facts, err := store.Facts(ctx, "alice")
				So(err, ShouldBeNil)
				So(facts[0].TournamentID, ShouldEqual, "t1")
				So(facts[1].TournamentID, ShouldEqual, "t2")
			})
		})

		Convey("When required fields are missing", func() {
			err := store.AppendFact(ctx, model.TournamentFact{FactID: "f1"})
			So(err, ShouldWrap, repository.ErrMissingFields)
		})

		Convey("When reading an unknown competitor", func() {
			facts, err := store.Facts(ctx, "ghost")
			So(err, ShouldBeNil)
			So(facts, ShouldBeEmpty)
		})
	})
}

func TestMemStore_Baselines(t *testing.T) {
	ctx := context.Background()

	Convey("Given a store with seeded baselines", t, func() {
		store := repository.NewMemStore(ctx)
		err := store.SeedBaselines(ctx, "alice", []model.SkillBaseline{
			{SkillKey: "dribble", Value: 62.0},
			{SkillKey: "shot", Value: 48.0},
		})
		So(err, ShouldBeNil)

		Convey("Then the assessment snapshot reads back", func() {
			got, ok := store.Baselines(ctx, "alice")
			So(ok, ShouldBeTrue)
			So(got["dribble"], ShouldEqual, 62.0)
			So(got["shot"], ShouldEqual, 48.0)
		})

		Convey("Then an unassessed competitor reports absence", func() {
			_, ok := store.Baselines(ctx, "ghost")
			So(ok, ShouldBeFalse)
		})

		Convey("When the snapshot is reseeded", func() {
			err := store.SeedBaselines(ctx, "alice", []model.SkillBaseline{
				{SkillKey: "dribble", Value: 70.0},
			})
			So(err, ShouldBeNil)

			Convey("Then the old snapshot is fully replaced", func() {
				got, ok := store.Baselines(ctx, "alice")
				So(ok, ShouldBeTrue)
				So(got, ShouldHaveLength, 1)
				So(got["dribble"], ShouldEqual, 70.0)
			})
		})
	})
}

func TestMemStore_RatingStates(t *testing.T) {
	ctx := context.Background()

	Convey("Given a store", t, func() {
		store := repository.NewMemStore(ctx)

		Convey("When upserting rating states", func() {
			So(store.SetRatingState(ctx, "alice", model.RatingState{SkillKey: "dribble", Value: 68.0, TournamentCount: 1}), ShouldBeNil)
			So(store.SetRatingState(ctx, "alice", model.RatingState{SkillKey: "dribble", Value: 62.4, TournamentCount: 2}), ShouldBeNil)

			Convey("Then the latest value wins", func() {
				states, err := store.RatingStates(ctx, "alice")
				So(err, ShouldBeNil)
				So(states["dribble"].Value, ShouldEqual, 62.4)
				So(states["dribble"].TournamentCount, ShouldEqual, 2)
			})
		})

		Convey("When loading persisted records of mixed formats", func() {
			err := store.LoadRecords(ctx, "alice", []model.SkillRecord{
				model.NewCurrentRecord(model.CurrentRecord{SkillKey: "dribble", Value: 72.5, TournamentCount: 9}),
				model.NewLegacyRecord(model.LegacyRecord{SkillKey: "shot", Value: 64.0}),
			})
			So(err, ShouldBeNil)

			Convey("Then legacy rows are migrated with a zero count", func() {
				states, err := store.RatingStates(ctx, "alice")
				So(err, ShouldBeNil)
				So(states["dribble"].TournamentCount, ShouldEqual, 9)
				So(states["shot"].Value, ShouldEqual, 64.0)
				So(states["shot"].TournamentCount, ShouldEqual, 0)
			})
		})

		Convey("When loading a record with no payload", func() {
			err := store.LoadRecords(ctx, "alice", []model.SkillRecord{
				{Format: model.FormatCurrent},
			})

			Convey("Then the load fails", func() {
				So(err, ShouldWrap, model.ErrEmptyRecord)
			})
		})
	})
}
