package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	. "github.com/smartystreets/goconvey/convey"
)

func TestMetricsOptions(t *testing.T) {
	Convey("Given metrics options", t, func() {
		Convey("When creating options", func() {
			namespaceOpt := WithNamespace("test-namespace")
			subsystemOpt := WithSubsystem("test-subsystem")
			metricPrefixOpt := WithMetricPrefix("test-prefix")
			histogramBucketsOpt := WithHistogramBuckets([]float64{0.1, 0.5, 1.0})
			metricsEnabledOpt := WithMetricsEnabled(true)
			refreshIntervalOpt := WithRefreshInterval(5 * time.Second)
			customLabelsOpt := WithCustomLabels(map[string]string{"env": "test"})

			Convey("Then they should be valid functions", func() {
				So(namespaceOpt, ShouldNotBeNil)
				So(subsystemOpt, ShouldNotBeNil)
				So(metricPrefixOpt, ShouldNotBeNil)
				So(histogramBucketsOpt, ShouldNotBeNil)
				So(metricsEnabledOpt, ShouldNotBeNil)
				So(refreshIntervalOpt, ShouldNotBeNil)
				So(customLabelsOpt, ShouldNotBeNil)
			})
		})
	})
}

func TestMetricsManagerCreation(t *testing.T) {
	Convey("Given metrics manager creation", t, func() {
		Convey("When creating with default options", func() {
			registry := prometheus.NewRegistry()
			manager := NewManager(WithPrometheusRegistry(registry))

			Convey("Then it should be created successfully", func() {
				So(manager, ShouldNotBeNil)
			})
		})

		Convey("When creating with custom options", func() {
			registry := prometheus.NewRegistry()
			manager := NewManager(
				WithNamespace("test-namespace"),
				WithSubsystem("test-subsystem"),
				WithMetricPrefix("test-prefix"),
				WithHistogramBuckets([]float64{0.1, 0.5, 1.0}),
				WithMetricsEnabled(true),
				WithRefreshInterval(10*time.Second),
				WithCustomLabels(map[string]string{"env": "test", "version": "1.0"}),
				WithPrometheusRegistry(registry),
			)

			Convey("Then it should be created successfully", func() {
				So(manager, ShouldNotBeNil)
			})
		})
	})
}

func TestMetricsRecording(t *testing.T) {
	Convey("Given metrics recording", t, func() {
		Convey("When recording question pipeline metrics", func() {
			Convey("Then it should record received questions", func() {
				So(func() {
					RecordQuestionReceived()
					RecordQuestionReceived()
					RecordQuestionReceived()
				}, ShouldNotPanic)
			})

			Convey("And it should record rejections by concept", func() {
				So(func() {
					RecordQuestionRejected("bowling type")
					RecordQuestionRejected("venue")
				}, ShouldNotPanic)
			})

			Convey("And it should record answers by outcome", func() {
				So(func() {
					RecordQuestionAnswered("model")
					RecordQuestionAnswered("reprompted")
					RecordQuestionAnswered("fallback")
				}, ShouldNotPanic)
			})

			Convey("And it should record pipeline latency", func() {
				So(func() {
					RecordPipelineLatency(100.0)
					RecordPipelineLatency(150.0)
					RecordPipelineLatency(200.0)
				}, ShouldNotPanic)
			})
		})

		Convey("When recording action metrics", func() {
			Convey("Then it should record action executions", func() {
				So(func() {
					RecordActionExecution("get_player_stats")
					RecordActionExecution("get_best_players_for_phase")
					RecordActionExecution("get_diverse_player_pool")
				}, ShouldNotPanic)
			})

			Convey("And it should record analysis latency", func() {
				So(func() {
					RecordAnalysisLatency(5.0)
					RecordAnalysisLatency(15.0)
				}, ShouldNotPanic)
			})
		})

		Convey("When recording model metrics", func() {
			Convey("Then it should record requests, errors and fallbacks", func() {
				So(func() {
					RecordModelRequest("openai")
					RecordModelError("openai")
					RecordModelLatency(800.0)
					RecordModelFallback()
				}, ShouldNotPanic)
			})
		})

		Convey("When recording resolution metrics", func() {
			Convey("Then it should record cache stats and failures", func() {
				So(func() {
					UpdateResolutionCacheStats(120, 14)
					RecordResolutionFailure()
				}, ShouldNotPanic)
			})
		})

		Convey("When updating dataset gauges", func() {
			Convey("Then it should update all dataset gauges", func() {
				So(func() {
					UpdateDatasetBalls(15000)
					UpdateDatasetEntryPoints(3000)
					UpdateDatasetPlayers(220)
					UpdateHistoryTurns(12)
				}, ShouldNotPanic)
			})
		})

		Convey("When recording HTTP metrics", func() {
			Convey("Then it should record HTTP requests", func() {
				So(func() {
					RecordHTTPRequest("/healthz", "GET", "200")
					RecordHTTPRequest("/ask", "POST", "200")
					RecordHTTPRequest("/leaderboard", "GET", "200")
				}, ShouldNotPanic)
			})

			Convey("And it should record HTTP request duration", func() {
				So(func() {
					RecordHTTPRequestDuration("/healthz", "GET", "200", 5.0)
					RecordHTTPRequestDuration("/ask", "POST", "200", 10.0)
					RecordHTTPRequestDuration("/leaderboard", "GET", "200", 15.0)
				}, ShouldNotPanic)
			})
		})

		Convey("When recording error metrics", func() {
			Convey("Then it should record errors by component", func() {
				So(func() {
					RecordErrorByComponent("analyzer", "timeout")
					RecordErrorByComponent("model", "connection_failed")
				}, ShouldNotPanic)
			})

			Convey("And it should record errors by type", func() {
				So(func() {
					RecordErrorByType("timeout", "error")
					RecordErrorByType("validation_error", "warning")
				}, ShouldNotPanic)
			})

			Convey("And it should record errors by endpoint", func() {
				So(func() {
					RecordErrorByEndpoint("/ask", "POST", "timeout")
					RecordErrorByEndpoint("/players", "GET", "not_found")
				}, ShouldNotPanic)
			})

			Convey("And it should record error latency", func() {
				So(func() {
					RecordErrorLatency("analyzer", "timeout", 100.0)
					RecordErrorLatency("model", "connection_failed", 200.0)
				}, ShouldNotPanic)
			})
		})

		Convey("When recording system metrics", func() {
			Convey("Then it should update system gauges", func() {
				So(func() {
					UpdateSystemMemoryUsage(64 << 20)
					UpdateSystemGoroutineCount(42)
					RecordSystemGCPauseTime(1.5)
				}, ShouldNotPanic)
			})
		})
	})
}

func TestGetRegistry(t *testing.T) {
	Convey("Given the package registry", t, func() {
		Convey("When fetching it", func() {
			registry := GetRegistry()

			Convey("Then it should be the shared custom registry", func() {
				So(registry, ShouldNotBeNil)
			})
		})
	})
}
