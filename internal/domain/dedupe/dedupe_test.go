package dedupe_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/okian/agon/internal/domain/dedupe"
	. "github.com/smartystreets/goconvey/convey"
)

func TestInMemoryDeduper(t *testing.T) {
	ctx := context.Background()

	Convey("Given a fresh deduper", t, func() {
		d := dedupe.NewInMemoryDeduper()

		Convey("When an ID is recorded for the first time", func() {
			seen := d.SeenAndRecord(ctx, "fact-1")

			Convey("Then it reports unseen and counts it", func() {
				So(seen, ShouldBeFalse)
				So(d.Size(), ShouldEqual, 1)
			})

			Convey("And the second occurrence reports seen", func() {
				So(d.SeenAndRecord(ctx, "fact-1"), ShouldBeTrue)
				So(d.Size(), ShouldEqual, 1)
			})
		})

		Convey("When an ID is unrecorded", func() {
			d.SeenAndRecord(ctx, "fact-1")
			d.Unrecord(ctx, "fact-1")

			Convey("Then it can be recorded again", func() {
				So(d.Size(), ShouldEqual, 0)
				So(d.SeenAndRecord(ctx, "fact-1"), ShouldBeFalse)
			})
		})

		Convey("When unrecording an unknown ID", func() {
			d.Unrecord(ctx, "never-seen")

			Convey("Then the size is unaffected", func() {
				So(d.Size(), ShouldEqual, 0)
			})
		})
	})

	Convey("Given a bounded deduper", t, func() {
		d := dedupe.NewInMemoryDeduper(dedupe.WithMaxSize(3))

		Convey("When more IDs arrive than the bound allows", func() {
			for i := 0; i < 5; i++ {
				So(d.SeenAndRecord(ctx, fmt.Sprintf("fact-%d", i)), ShouldBeFalse)
			}

			Convey("Then the oldest entries are evicted first", func() {
				So(d.Size(), ShouldEqual, 3)
				So(d.SeenAndRecord(ctx, "fact-0"), ShouldBeFalse)
				So(d.SeenAndRecord(ctx, "fact-4"), ShouldBeTrue)
			})
		})
	})
}
