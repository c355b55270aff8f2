package docedit

import (
	"log/slog"
	"time"

	"github.com/aisa-it/aiplan/docedit/internal/docedit/dao"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"gorm.io/gorm"
)

const metricsNamespace = "docedit"

// Metrics - метрики сервиса. Каждый сервер регистрирует их в своем реестре.
type Metrics struct {
	Registry *prometheus.Registry

	Commands        *prometheus.CounterVec
	PersistFailures prometheus.Counter
	Saved           *prometheus.CounterVec
}

func NewMetrics(openSessions func() int, db *gorm.DB) *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		Registry: reg,
		Commands: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "commands_total",
			Help:      "Editor commands executed in sessions",
		}, []string{"command", "changed"}),
		PersistFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "persist_failures_total",
			Help:      "Failed saves of session content",
		}),
		Saved: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "descriptions_saved_total",
			Help:      "Saved descriptions by entity type",
		}, []string{"entity_type"}),
	}

	bootTime := prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: metricsNamespace,
		Name:      "boot_time",
		Help:      "Server startup time",
	})
	bootTime.Set(float64(time.Now().UnixMilli()))

	reg.MustRegister(
		m.Commands,
		m.PersistFailures,
		m.Saved,
		bootTime,
		prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Name:      "sessions_open",
			Help:      "Open editing sessions",
		}, func() float64 { return float64(openSessions()) }),
		newDescriptionsCollector(db),
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

func (m *Metrics) command(name string, changed bool) {
	label := "false"
	if changed {
		label = "true"
	}
	m.Commands.WithLabelValues(name, label).Inc()
}

// descriptionsCollector считает описания в БД при каждом сборе метрик.
type descriptionsCollector struct {
	db   *gorm.DB
	desc *prometheus.Desc
}

func newDescriptionsCollector(db *gorm.DB) descriptionsCollector {
	return descriptionsCollector{
		db: db,
		desc: prometheus.NewDesc(
			prometheus.BuildFQName(metricsNamespace, "", "descriptions"),
			"Stored descriptions by entity type",
			[]string{"entity_type"}, nil,
		),
	}
}

func (c descriptionsCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.desc
}

func (c descriptionsCollector) Collect(ch chan<- prometheus.Metric) {
	counts, err := dao.CountDescriptions(c.db)
	if err != nil {
		slog.Error("Count descriptions for metrics", "err", err)
		ch <- prometheus.NewInvalidMetric(c.desc, err)
		return
	}
	for entityType, n := range counts {
		ch <- prometheus.MustNewConstMetric(c.desc, prometheus.GaugeValue, float64(n), string(entityType))
	}
}
