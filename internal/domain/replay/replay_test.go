package replay_test

import (
	"context"
	"testing"
	"time"

	"github.com/okian/agon/internal/domain/baseline"
	"github.com/okian/agon/internal/domain/model"
	"github.com/okian/agon/internal/domain/replay"
	. "github.com/smartystreets/goconvey/convey"
)

// stubFacts serves a fixed chronological history per competitor.
type stubFacts map[string][]model.TournamentFact

func (s stubFacts) Facts(_ context.Context, competitorID string) ([]model.TournamentFact, error) {
	return s[competitorID], nil
}

// stubBaselines maps competitor IDs to assessed baselines.
type stubBaselines map[string]map[string]float64

func (s stubBaselines) Baselines(_ context.Context, competitorID string) (map[string]float64, bool) {
	m, ok := s[competitorID]
	return m, ok
}

func day(n int) time.Time {
	return time.Date(2026, 1, n, 0, 0, 0, 0, time.UTC)
}

// aliceHistory is a win, a last place, an unplaced entry, and an unmapped
// tournament, in that order.
func aliceHistory() []model.TournamentFact {
	return []model.TournamentFact{
		{
			FactID: "f1", TournamentID: "t1", CompetitorID: "alice", OccurredAt: day(1),
			Placement: 1, FieldSize: 5,
			SkillWeights: map[string]float64{"dribble": 1.0, "shot": 1.0},
		},
		{
			FactID: "f2", TournamentID: "t2", CompetitorID: "alice", OccurredAt: day(2),
			Placement: 5, FieldSize: 5,
			SkillWeights: map[string]float64{"dribble": 1.0},
		},
		{
			FactID: "f3", TournamentID: "t3", CompetitorID: "alice", OccurredAt: day(3),
			Placement: 0, FieldSize: 5,
			SkillWeights: map[string]float64{"dribble": 1.0},
		},
		{
			FactID: "f4", TournamentID: "t4", CompetitorID: "alice", OccurredAt: day(4),
			Placement: 2, FieldSize: 5,
		},
	}
}

func newEngine() *replay.Engine {
	resolver := baseline.NewResolver(stubBaselines{
		"alice": {"dribble": 60.0, "shot": 50.0},
	})
	return replay.NewEngine(stubFacts{"alice": aliceHistory()}, resolver)
}

func TestSkillProfile(t *testing.T) {
	ctx := context.Background()

	Convey("Given a replayed history with wins and losses", t, func() {
		engine := newEngine()

		Convey("When building the skill profile", func() {
			profile, err := engine.SkillProfile(ctx, "alice")
			So(err, ShouldBeNil)

			Convey("Then each skill folds only the tournaments it was mapped in", func() {
				dribble := profile.Skills["dribble"]
				So(dribble.Baseline, ShouldEqual, 60.0)
				So(dribble.CurrentLevel, ShouldEqual, 62.4)
				So(dribble.TotalDelta, ShouldAlmostEqual, 2.4, 1e-9)
				So(dribble.TournamentCount, ShouldEqual, 2)

				shot := profile.Skills["shot"]
				So(shot.Baseline, ShouldEqual, 50.0)
				So(shot.CurrentLevel, ShouldEqual, 60.0)
				So(shot.TotalDelta, ShouldAlmostEqual, 10.0, 1e-9)
				So(shot.TournamentCount, ShouldEqual, 1)
			})

			Convey("And unplaced and unmapped tournaments contribute nothing", func() {
				So(profile.Skills["dribble"].TournamentCount, ShouldEqual, 2)
			})

			Convey("And the average spans the folded skills", func() {
				So(profile.Average, ShouldAlmostEqual, 61.2, 1e-9)
			})
		})

		Convey("When requesting an extra skill with no history", func() {
			profile, err := engine.SkillProfile(ctx, "alice", "stamina")
			So(err, ShouldBeNil)

			Convey("Then it comes back as a neutral baseline row", func() {
				stamina := profile.Skills["stamina"]
				So(stamina.Baseline, ShouldEqual, baseline.DefaultValue)
				So(stamina.CurrentLevel, ShouldEqual, baseline.DefaultValue)
				So(stamina.TournamentCount, ShouldEqual, 0)
			})
		})

		Convey("When the competitor has no history at all", func() {
			profile, err := engine.SkillProfile(ctx, "ghost")
			So(err, ShouldBeNil)

			Convey("Then the profile is empty with a zero average", func() {
				So(profile.Skills, ShouldBeEmpty)
				So(profile.Average, ShouldEqual, 0.0)
			})
		})
	})
}

func TestReplayDeterminism(t *testing.T) {
	ctx := context.Background()

	Convey("Given the same history replayed twice", t, func() {
		engine := newEngine()

		first, err := engine.CurrentStates(ctx, "alice")
		So(err, ShouldBeNil)
		second, err := engine.CurrentStates(ctx, "alice")
		So(err, ShouldBeNil)

		Convey("Then both passes land on bit-identical values", func() {
			So(second, ShouldResemble, first)
		})
	})
}

func TestTournamentDelta(t *testing.T) {
	ctx := context.Background()

	Convey("Given a replayed history", t, func() {
		engine := newEngine()

		Convey("When isolating the first tournament", func() {
			deltas, err := engine.TournamentDelta(ctx, "alice", "t1")
			So(err, ShouldBeNil)

			Convey("Then each mapped skill reports its applied delta", func() {
				So(deltas["dribble"], ShouldAlmostEqual, 8.0, 1e-9)
				So(deltas["shot"], ShouldAlmostEqual, 10.0, 1e-9)
			})
		})

		Convey("When isolating the second tournament", func() {
			deltas, err := engine.TournamentDelta(ctx, "alice", "t2")
			So(err, ShouldBeNil)

			Convey("Then the delta reflects the state after the first", func() {
				So(deltas, ShouldHaveLength, 1)
				So(deltas["dribble"], ShouldAlmostEqual, -5.6, 1e-9)
			})
		})

		Convey("When the tournament was unplaced", func() {
			deltas, err := engine.TournamentDelta(ctx, "alice", "t3")
			So(err, ShouldBeNil)

			Convey("Then the delta map is empty, not an error", func() {
				So(deltas, ShouldBeEmpty)
			})
		})

		Convey("When the tournament is unknown", func() {
			deltas, err := engine.TournamentDelta(ctx, "alice", "nope")
			So(err, ShouldBeNil)
			So(deltas, ShouldBeEmpty)
		})
	})
}

func TestSkillTimeline(t *testing.T) {
	ctx := context.Background()

	Convey("Given a replayed history", t, func() {
		engine := newEngine()

		Convey("When reading the dribble timeline", func() {
			points, err := engine.SkillTimeline(ctx, "alice", "dribble")
			So(err, ShouldBeNil)

			Convey("Then only mapped, placed tournaments appear, in order", func() {
				So(points, ShouldHaveLength, 2)

				So(points[0].TournamentID, ShouldEqual, "t1")
				So(points[0].PlacementSkill, ShouldEqual, 100.0)
				So(points[0].Value, ShouldEqual, 68.0)
				So(points[0].DeltaFromBaseline, ShouldAlmostEqual, 8.0, 1e-9)
				So(points[0].DeltaFromPrevious, ShouldAlmostEqual, 8.0, 1e-9)

				So(points[1].TournamentID, ShouldEqual, "t2")
				So(points[1].PlacementSkill, ShouldEqual, 40.0)
				So(points[1].Value, ShouldEqual, 62.4)
				So(points[1].DeltaFromBaseline, ShouldAlmostEqual, 2.4, 1e-9)
				So(points[1].DeltaFromPrevious, ShouldAlmostEqual, -5.6, 1e-9)
			})
		})

		Convey("When the skill was never mapped", func() {
			points, err := engine.SkillTimeline(ctx, "alice", "stamina")
			So(err, ShouldBeNil)
			So(points, ShouldBeEmpty)
		})
	})
}

func TestFairnessAudit(t *testing.T) {
	ctx := context.Background()

	Convey("Given a history with uneven weights in one tournament", t, func() {
		resolver := baseline.NewResolver(stubBaselines{
			"alice": {"dribble": 60.0, "shot": 60.0},
		})
		engine := replay.NewEngine(stubFacts{"alice": {
			{
				FactID: "f1", TournamentID: "t1", CompetitorID: "alice", OccurredAt: day(1),
				Placement: 1, FieldSize: 5,
				SkillWeights: map[string]float64{"dribble": 2.0, "shot": 0.5},
			},
		}}, resolver)

		Convey("When auditing the history", func() {
			rows, err := engine.FairnessAudit(ctx, "alice")
			So(err, ShouldBeNil)
			So(rows, ShouldHaveLength, 2)

			byKey := make(map[string]replay.AuditRow, len(rows))
			for _, r := range rows {
				byKey[r.SkillKey] = r
			}

			Convey("Then the heavier skill is flagged dominant", func() {
				So(byKey["dribble"].Dominant, ShouldBeTrue)
				So(byKey["shot"].Dominant, ShouldBeFalse)
			})

			Convey("And the average weight covers the tournament", func() {
				So(byKey["dribble"].AvgWeight, ShouldAlmostEqual, 1.25, 1e-12)
			})

			Convey("And the dominant skill moved further in normalized terms", func() {
				So(byKey["dribble"].NormalizedDelta, ShouldBeGreaterThan, byKey["shot"].NormalizedDelta)
				So(byKey["dribble"].FairnessOK, ShouldBeTrue)
				So(byKey["shot"].FairnessOK, ShouldBeTrue)
			})
		})
	})

	Convey("Given equal weights across skills", t, func() {
		engine := newEngine()

		Convey("When auditing the history", func() {
			rows, err := engine.FairnessAudit(ctx, "alice")
			So(err, ShouldBeNil)

			Convey("Then every row passes the fairness check", func() {
				So(rows, ShouldHaveLength, 3)
				for _, r := range rows {
					So(r.FairnessOK, ShouldBeTrue)
				}
			})
		})
	})
}
