package model_test

import (
	"testing"

	"github.com/okian/agon/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func TestSkillRecord_Migrate(t *testing.T) {
	Convey("Given persisted skill records", t, func() {
		Convey("When migrating a current-format record", func() {
			rec := model.NewCurrentRecord(model.CurrentRecord{
				SkillKey: "dribble", Value: 72.5, TournamentCount: 9,
			})
			got, err := rec.Migrate()

			Convey("Then it passes through unchanged", func() {
				So(err, ShouldBeNil)
				So(got.SkillKey, ShouldEqual, "dribble")
				So(got.Value, ShouldEqual, 72.5)
				So(got.TournamentCount, ShouldEqual, 9)
			})
		})

		Convey("When migrating a legacy record", func() {
			rec := model.NewLegacyRecord(model.LegacyRecord{SkillKey: "shot", Value: 64.0})
			got, err := rec.Migrate()

			Convey("Then the value carries over with a zero tournament count", func() {
				So(err, ShouldBeNil)
				So(got.SkillKey, ShouldEqual, "shot")
				So(got.Value, ShouldEqual, 64.0)
				So(got.TournamentCount, ShouldEqual, 0)
			})
		})

		Convey("When the payload pointer is missing", func() {
			rec := model.SkillRecord{Format: model.FormatLegacy}
			_, err := rec.Migrate()

			Convey("Then it reports an empty record", func() {
				So(err, ShouldEqual, model.ErrEmptyRecord)
			})
		})

		Convey("When the format tag is unknown", func() {
			rec := model.SkillRecord{Format: model.RecordFormat(42)}
			_, err := rec.Migrate()

			Convey("Then it reports an unknown format", func() {
				So(err, ShouldEqual, model.ErrUnknownFormat)
			})
		})
	})
}
