package database

import (
	"database/sql"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
)

// PoolCollector 在每次抓取时导出连接池统计信息
type PoolCollector struct {
	db     *sql.DB
	logger *logrus.Logger

	connections *prometheus.Desc
	waitCount   *prometheus.Desc
	waitSeconds *prometheus.Desc
	closed      *prometheus.Desc
}

// NewPoolCollector 创建连接池指标收集器
func NewPoolCollector(db *sql.DB, logger *logrus.Logger) *PoolCollector {
	return &PoolCollector{
		db:     db,
		logger: logger,
		connections: prometheus.NewDesc(
			"cognicursos_db_connections",
			"Number of database connections in different states",
			[]string{"state"}, nil, // idle, in_use, open
		),
		waitCount: prometheus.NewDesc(
			"cognicursos_db_wait_count_total",
			"Total number of connections waited for",
			nil, nil,
		),
		waitSeconds: prometheus.NewDesc(
			"cognicursos_db_wait_duration_seconds_total",
			"Total time blocked waiting for a new connection",
			nil, nil,
		),
		closed: prometheus.NewDesc(
			"cognicursos_db_closed_connections_total",
			"Connections closed by pool limits",
			[]string{"reason"}, nil,
		),
	}
}

// Register 注册到指定的 Registerer
func (pc *PoolCollector) Register(reg prometheus.Registerer) error {
	return reg.Register(pc)
}

// Describe implements prometheus.Collector.
func (pc *PoolCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- pc.connections
	ch <- pc.waitCount
	ch <- pc.waitSeconds
	ch <- pc.closed
}

// Collect implements prometheus.Collector.
func (pc *PoolCollector) Collect(ch chan<- prometheus.Metric) {
	stats := pc.db.Stats()

	ch <- prometheus.MustNewConstMetric(pc.connections, prometheus.GaugeValue, float64(stats.Idle), "idle")
	ch <- prometheus.MustNewConstMetric(pc.connections, prometheus.GaugeValue, float64(stats.InUse), "in_use")
	ch <- prometheus.MustNewConstMetric(pc.connections, prometheus.GaugeValue, float64(stats.OpenConnections), "open")
	ch <- prometheus.MustNewConstMetric(pc.waitCount, prometheus.CounterValue, float64(stats.WaitCount))
	ch <- prometheus.MustNewConstMetric(pc.waitSeconds, prometheus.CounterValue, stats.WaitDuration.Seconds())
	ch <- prometheus.MustNewConstMetric(pc.closed, prometheus.CounterValue, float64(stats.MaxIdleClosed), "max_idle")
	ch <- prometheus.MustNewConstMetric(pc.closed, prometheus.CounterValue, float64(stats.MaxLifetimeClosed), "max_lifetime")

	pc.logger.WithFields(logrus.Fields{
		"idle":   stats.Idle,
		"in_use": stats.InUse,
		"open":   stats.OpenConnections,
		"wait":   stats.WaitCount,
	}).Debug("Database connection pool stats collected")
}
