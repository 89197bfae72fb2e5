package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	. "github.com/smartystreets/goconvey/convey"
)

// sample returns the gauge or counter value, or the histogram sample count,
// of the series matching name and labels; -1 when absent.
func sample(reg *prometheus.Registry, name string, labels map[string]string) float64 {
	mfs, err := reg.Gather()
	if err != nil {
		return -1
	}
	for _, mf := range mfs {
		if mf.GetName() != name {
			continue
		}
	next:
		for _, m := range mf.GetMetric() {
			got := map[string]string{}
			for _, lp := range m.GetLabel() {
				got[lp.GetName()] = lp.GetValue()
			}
			for k, v := range labels {
				if got[k] != v {
					continue next
				}
			}
			switch {
			case m.Gauge != nil:
				return m.GetGauge().GetValue()
			case m.Counter != nil:
				return m.GetCounter().GetValue()
			case m.Histogram != nil:
				return float64(m.GetHistogram().GetSampleCount())
			}
		}
	}
	return -1
}

func TestMetricsOptions(t *testing.T) {
	Convey("Given metrics options", t, func() {
		Convey("When creating a manager with custom options", func() {
			registry := prometheus.NewRegistry()
			manager := NewManager(
				WithNamespace("test"),
				WithSubsystem("map"),
				WithMetricPrefix("x_"),
				WithHistogramBuckets([]float64{1, 10, 100}),
				WithRefreshInterval(5*time.Second),
				WithCustomLabels(map[string]string{"env": "test"}),
				WithPrometheusRegistry(registry),
			)
			manager.RecordLegendRender("svg")

			Convey("Then names, labels and interval should follow the options", func() {
				So(manager.RefreshInterval(), ShouldEqual, 5*time.Second)
				So(sample(registry, "test_map_x_legend_renders_total", map[string]string{"format": "svg", "env": "test"}), ShouldEqual, 1)
			})
		})

		Convey("When metrics are disabled", func() {
			registry := prometheus.NewRegistry()
			manager := NewManager(WithPrometheusRegistry(registry), WithMetricsEnabled(false))
			manager.RecordTooltip(TooltipFound)

			Convey("Then nothing should reach the registry", func() {
				So(sample(registry, "zipheat_choropleth_tooltip_requests_total", nil), ShouldEqual, -1)
			})
		})

		Convey("When options are empty", func() {
			m := NewManager(WithPrometheusRegistry(prometheus.NewRegistry()), WithNamespace(""), WithRefreshInterval(0))

			Convey("Then defaults should be kept", func() {
				So(m.namespace, ShouldEqual, "zipheat")
				So(m.RefreshInterval(), ShouldEqual, defaultRefreshInterval)
			})
		})
	})
}

func TestMetricsRecording(t *testing.T) {
	Convey("Given a manager on a private registry", t, func() {
		registry := prometheus.NewRegistry()
		m := NewManager(WithPrometheusRegistry(registry))

		Convey("When a dataset load is observed", func() {
			m.ObserveDatasetLoad(180, 25*time.Millisecond)
			m.SetBucketCounts(map[int]int{5: 40, 6: 100, -1: 2}, 2)
			m.SetIcons(20, 2)

			Convey("Then dataset gauges should be set", func() {
				So(sample(registry, "zipheat_choropleth_features_loaded", nil), ShouldEqual, 180)
				So(sample(registry, "zipheat_choropleth_dataset_load_duration_milliseconds", nil), ShouldEqual, 1)
				So(sample(registry, "zipheat_choropleth_features_by_bucket", map[string]string{"bucket": "6"}), ShouldEqual, 100)
				So(sample(registry, "zipheat_choropleth_features_by_bucket", map[string]string{"bucket": "-1"}), ShouldEqual, 2)
				So(sample(registry, "zipheat_choropleth_features_without_metric", nil), ShouldEqual, 2)
				So(sample(registry, "zipheat_choropleth_icons_placed", nil), ShouldEqual, 20)
				So(sample(registry, "zipheat_choropleth_icons_dropped", nil), ShouldEqual, 2)
			})

			Convey("And bucket counts are replaced", func() {
				m.SetBucketCounts(map[int]int{1: 3}, 0)

				Convey("Then stale buckets should disappear", func() {
					So(sample(registry, "zipheat_choropleth_features_by_bucket", map[string]string{"bucket": "6"}), ShouldEqual, -1)
					So(sample(registry, "zipheat_choropleth_features_by_bucket", map[string]string{"bucket": "1"}), ShouldEqual, 3)
				})
			})
		})

		Convey("When requests are recorded", func() {
			m.RecordHTTPRequest("/api/scale", "GET", "200", 1.5)
			m.RecordHTTPRequest("/api/scale", "GET", "200", 2.5)
			m.RecordColorLookup("saturated")
			m.RecordTooltip(TooltipNotFound)
			m.RecordVerifyCheck("color", VerifyMismatch)
			m.RecordErrorByEndpoint("/api/color", "GET", "bad_request")
			m.RecordErrorByType("bad_request", "low")
			m.RecordErrorByComponent("dataset", "decode")

			Convey("Then counters should increase", func() {
				So(sample(registry, "zipheat_choropleth_http_requests_total", map[string]string{"endpoint": "/api/scale"}), ShouldEqual, 2)
				So(sample(registry, "zipheat_choropleth_http_request_duration_milliseconds", nil), ShouldEqual, 2)
				So(sample(registry, "zipheat_choropleth_color_lookups_total", map[string]string{"outcome": "saturated"}), ShouldEqual, 1)
				So(sample(registry, "zipheat_choropleth_tooltip_requests_total", map[string]string{"result": "not_found"}), ShouldEqual, 1)
				So(sample(registry, "zipheat_choropleth_verify_checks_total", map[string]string{"result": "mismatch"}), ShouldEqual, 1)
				So(sample(registry, "zipheat_choropleth_errors_by_endpoint_total", nil), ShouldEqual, 1)
				So(sample(registry, "zipheat_choropleth_errors_by_type_total", nil), ShouldEqual, 1)
				So(sample(registry, "zipheat_choropleth_errors_by_component_total", nil), ShouldEqual, 1)
			})
		})

		Convey("When system metrics are updated", func() {
			m.UpdateSystem(1<<20, 12, 0)
			m.UpdateSystem(2<<20, 14, 0.4)

			Convey("Then the latest gauges and one GC sample should be kept", func() {
				So(sample(registry, "zipheat_choropleth_system_memory_usage_bytes", nil), ShouldEqual, 2<<20)
				So(sample(registry, "zipheat_choropleth_system_goroutine_count", nil), ShouldEqual, 14)
				So(sample(registry, "zipheat_choropleth_system_gc_pause_time_milliseconds", nil), ShouldEqual, 1)
			})
		})
	})
}

func TestGlobalHelpers(t *testing.T) {
	Convey("Given the global manager", t, func() {
		Convey("Then helpers should record without panicking", func() {
			So(func() {
				ObserveDatasetLoad(1, time.Millisecond)
				SetBucketCounts(map[int]int{0: 1}, 0)
				SetIcons(1, 0)
				RecordColorLookup("in_domain")
				RecordTooltip(TooltipFound)
				RecordLegendRender("json")
				RecordVerifyCheck("tooltip", VerifyMatch)
				RecordHTTPRequest("/", "GET", "200", 1)
				RecordErrorByComponent("http", "internal")
				RecordErrorByType("internal", "high")
				RecordErrorByEndpoint("/", "GET", "internal")
				UpdateSystem(1, 1, 1)
			}, ShouldNotPanic)
			So(RefreshInterval(), ShouldEqual, defaultRefreshInterval)
			So(sample(GetRegistry(), "zipheat_choropleth_features_loaded", nil), ShouldEqual, 1)
		})
	})
}
