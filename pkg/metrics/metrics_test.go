package metrics_test

import (
	"testing"

	"github.com/okian/agon/pkg/metrics"
	. "github.com/smartystreets/goconvey/convey"
)

func TestMetrics(t *testing.T) {
	Convey("Given the package-level metrics manager", t, func() {
		Convey("Then the custom registry is available", func() {
			So(metrics.GetRegistry(), ShouldNotBeNil)
		})

		Convey("Then counters and gauges record without panicking", func() {
			metrics.RecordFactProcessed()
			metrics.RecordFactDuplicate()
			metrics.RecordFactSkipped()
			metrics.RecordRatingUpdate()
			metrics.RecordApplyLatency(1.5)
			metrics.RecordWorkerError()
			metrics.UpdateWorkerCount(4)
			metrics.RecordReplay("profile")
			metrics.RecordReplayDuration("profile", 2.0)
			metrics.UpdateQueueSize(10)
			metrics.UpdateQueueCapacity(100)
			metrics.UpdateQueueUtilization(0.1)
			metrics.RecordQueueEnqueue()
			metrics.RecordQueueDequeue()
			metrics.RecordQueueEnqueueError()
			metrics.RecordStoreUpdateLatency(0.5)
			metrics.RecordStoreQueryLatency(0.5)
			metrics.UpdateTotalCompetitors(7)
			metrics.RecordHTTPRequest("facts", "POST", "202")
			metrics.RecordHTTPRequestDuration("facts", "POST", "202", 3.0)
			metrics.RecordErrorByComponent("queue", "queue_full")
		})

		Convey("Then recorded series are gatherable", func() {
			metrics.RecordFactProcessed()
			families, err := metrics.GetRegistry().Gather()
			So(err, ShouldBeNil)
			So(len(families), ShouldBeGreaterThan, 0)
		})
	})
}
