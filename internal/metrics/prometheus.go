package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics はテナント基盤のPrometheusメトリクスです。
// nil の *Metrics に対する記録はすべて何もしない。
type Metrics struct {
	TenantResolutions *prometheus.CounterVec
	TenantCacheLookup *prometheus.CounterVec
	Provisioning      *prometheus.CounterVec
	RoutedHandles     prometheus.Gauge
	Migrations        *prometheus.CounterVec
}

// 解決結果ラベルの値
const (
	OutcomeResolved    = "resolved"
	OutcomeFallback    = "fallback"
	OutcomeMissing     = "missing"
	OutcomeInvalid     = "invalid"
	OutcomeLookupError = "error"
)

// NewMetrics は reg にメトリクスを登録します
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		TenantResolutions: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tenant_resolution_total",
				Help: "Total number of tenant resolutions by outcome",
			},
			[]string{"outcome"},
		),
		TenantCacheLookup: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tenant_store_cache_lookups_total",
				Help: "Total number of tenant store cache lookups",
			},
			[]string{"result"},
		),
		Provisioning: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tenant_provisioning_total",
				Help: "Total number of tenant provisioning attempts",
			},
			[]string{"isolation_mode", "result"},
		),
		RoutedHandles: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "tenant_routed_db_handles",
				Help: "Number of open tenant database handles",
			},
		),
		Migrations: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tenant_migrations_total",
				Help: "Total number of tenant migration runs",
			},
			[]string{"result"},
		),
	}
}

func (m *Metrics) ObserveResolution(outcome string) {
	if m == nil {
		return
	}
	m.TenantResolutions.WithLabelValues(outcome).Inc()
}

func (m *Metrics) ObserveCacheLookup(hit bool) {
	if m == nil {
		return
	}
	result := "miss"
	if hit {
		result = "hit"
	}
	m.TenantCacheLookup.WithLabelValues(result).Inc()
}

func (m *Metrics) ObserveProvisioning(mode, result string) {
	if m == nil {
		return
	}
	m.Provisioning.WithLabelValues(mode, result).Inc()
}

func (m *Metrics) SetRoutedHandles(n int) {
	if m == nil {
		return
	}
	m.RoutedHandles.Set(float64(n))
}

func (m *Metrics) ObserveMigration(result string) {
	if m == nil {
		return
	}
	m.Migrations.WithLabelValues(result).Inc()
}
