package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	. "github.com/smartystreets/goconvey/convey"
)

// gatheredNames returns the metric family names registered on reg.
func gatheredNames(reg *prometheus.Registry) map[string]bool {
	mfs, err := reg.Gather()
	So(err, ShouldBeNil)
	names := make(map[string]bool, len(mfs))
	for _, mf := range mfs {
		names[mf.GetName()] = true
	}
	return names
}

// gaugeValue reads a labelled gauge from reg, or -1 when it is absent.
func gaugeValue(reg *prometheus.Registry, name, label, value string) float64 {
	mfs, err := reg.Gather()
	So(err, ShouldBeNil)
	for _, mf := range mfs {
		if mf.GetName() != name {
			continue
		}
		for _, m := range mf.GetMetric() {
			for _, lp := range m.GetLabel() {
				if lp.GetName() == label && lp.GetValue() == value {
					return m.GetGauge().GetValue()
				}
			}
		}
	}
	return -1
}

func TestMetricsManagerCreation(t *testing.T) {
	Convey("Given metrics manager creation", t, func() {
		Convey("When creating with default options", func() {
			registry := prometheus.NewRegistry()
			manager := NewManager(WithPrometheusRegistry(registry))

			Convey("Then it should use the ecosort namespace", func() {
				So(manager, ShouldNotBeNil)
				manager.usersCreated.Inc()
				So(gatheredNames(registry), ShouldContainKey, "ecosort_api_users_created_total")
			})
		})

		Convey("When creating with custom options", func() {
			registry := prometheus.NewRegistry()
			manager := NewManager(
				WithNamespace("test_namespace"),
				WithSubsystem("test_subsystem"),
				WithMetricPrefix("test_prefix_"),
				WithHistogramBuckets([]float64{0.1, 0.5, 1.0}),
				WithMetricsEnabled(true),
				WithRefreshInterval(10*time.Second),
				WithCustomLabels(map[string]string{"env": "test", "version": "1.0"}),
				WithPrometheusRegistry(registry),
			)

			Convey("Then names and buckets should follow the options", func() {
				So(manager.histogramBuckets, ShouldResemble, []float64{0.1, 0.5, 1.0})
				So(manager.refreshInterval, ShouldEqual, 10*time.Second)
				manager.scoreUpdates.Inc()
				So(gatheredNames(registry), ShouldContainKey, "test_namespace_test_subsystem_test_prefix_score_updates_total")
			})
		})
	})
}

func TestMetricsOptionsValidation(t *testing.T) {
	Convey("Given options with empty or invalid values", t, func() {
		manager := NewManager(
			WithNamespace(""),
			WithSubsystem(""),
			WithMetricPrefix(""),
			WithHistogramBuckets(nil),
			WithCustomLabels(nil),
			WithRefreshInterval(-time.Second),
			WithPrometheusRegistry(prometheus.NewRegistry()),
		)

		Convey("Then the defaults should be kept", func() {
			So(manager.namespace, ShouldEqual, "ecosort")
			So(manager.subsystem, ShouldEqual, "api")
			So(manager.metricPrefix, ShouldEqual, "")
			So(manager.histogramBuckets, ShouldResemble, prometheus.DefBuckets)
			So(manager.customLabels, ShouldNotBeNil)
			So(manager.refreshInterval, ShouldEqual, defaultRefreshInterval)
		})
	})
}

func TestMetricsRecording(t *testing.T) {
	Convey("Given the global metrics", t, func() {
		Convey("When a collection size is updated", func() {
			UpdateCollectionSize("quiz_questions", 4)
			UpdateCollectionSize("quiz_questions", 7)

			Convey("Then the gauge should hold the latest value", func() {
				So(gaugeValue(GetRegistry(), "ecosort_api_repository_records", "collection", "quiz_questions"), ShouldEqual, 7)
			})
		})

		Convey("When recording learning activity", func() {
			So(func() {
				RecordUserCreated()
				RecordScoreUpdate()
				RecordQuizResult(3, 4)
				RecordQuizResult(0, 0)
				RecordLeaderboardRead()
				RecordContentChange("recycling_rules", "create")
				RecordLogin("success")
				RecordLogin("invalid")
				RecordRegistration()
			}, ShouldNotPanic)

			Convey("Then the counters should be exposed", func() {
				names := gatheredNames(GetRegistry())
				So(names, ShouldContainKey, "ecosort_api_quiz_results_saved_total")
				So(names, ShouldContainKey, "ecosort_api_quiz_accuracy_ratio")
				So(names, ShouldContainKey, "ecosort_api_logins_total")
			})
		})

		Convey("When recording HTTP and error metrics", func() {
			So(func() {
				RecordHTTPRequest("get_leaderboard", "GET", "200")
				RecordHTTPRequestDuration("get_leaderboard", "GET", "200", 1.5)
				RecordErrorByComponent("repository", "not_found")
				RecordErrorByType("validation_error", "warning")
				RecordErrorByEndpoint("create_user", "POST", "validation_error")
				RecordErrorLatency("http_handler", "not_found", 0.7)
				RecordRepositoryQueryLatency(0.01)
				RecordRepositoryUpdateLatency(0.02)
			}, ShouldNotPanic)
		})

		Convey("When recording system metrics", func() {
			So(func() {
				UpdateSystemMemoryUsage(1 << 20)
				UpdateSystemGoroutineCount(12)
				RecordSystemGCPauseTime(0.3)
			}, ShouldNotPanic)
		})

		Convey("When using empty label values", func() {
			So(func() {
				RecordHTTPRequest("", "", "200")
				RecordErrorByComponent("", "")
				RecordErrorByEndpoint("", "", "")
				UpdateCollectionSize("", 0)
			}, ShouldNotPanic)
		})
	})
}

func TestMetricsConcurrency(t *testing.T) {
	Convey("Given metrics recorded from many goroutines", t, func() {
		done := make(chan bool, 10)

		for i := 0; i < 10; i++ {
			go func(id int) {
				for j := 0; j < 100; j++ {
					RecordScoreUpdate()
					UpdateCollectionSize("users", id*100+j)
					RecordRepositoryQueryLatency(float64(j))
					RecordHTTPRequest("/api/leaderboard", "GET", "200")
				}
				done <- true
			}(i)
		}

		for i := 0; i < 10; i++ {
			<-done
		}

		Convey("Then the registry should still gather cleanly", func() {
			_, err := GetRegistry().Gather()
			So(err, ShouldBeNil)
		})
	})
}
