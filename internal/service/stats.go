package service

import (
	"strings"
	"sync/atomic"
	"time"

	vmetrics "github.com/VictoriaMetrics/metrics"
	gometrics "github.com/rcrowley/go-metrics"
)

// Stats tracks command throughput for INFO and, when a set is given, the
// Prometheus endpoint.
type Stats struct {
	started   time.Time
	meter     gometrics.Meter
	processed atomic.Int64
	clients   atomic.Int64
	set       *vmetrics.Set
}

func NewStats(set *vmetrics.Set) *Stats {
	stats := &Stats{
		started: time.Now(),
		meter:   gometrics.NewMeter(),
		set:     set,
	}

	if set != nil {
		set.NewGauge("replikv_connected_clients", func() float64 {
			return float64(stats.clients.Load())
		})
	}

	return stats
}

func (stats *Stats) Mark(command string) {
	stats.meter.Mark(1)
	stats.processed.Add(1)

	if stats.set != nil {
		stats.set.GetOrCreateCounter(`replikv_commands_total{command="` + strings.ToLower(command) + `"}`).Inc()
	}
}

func (stats *Stats) Fail(command string) {
	if stats.set != nil {
		stats.set.GetOrCreateCounter(`replikv_command_errors_total{command="` + strings.ToLower(command) + `"}`).Inc()
	}
}

func (stats *Stats) Connected() {
	stats.clients.Add(1)
}

func (stats *Stats) Disconnected() {
	stats.clients.Add(-1)
}

func (stats *Stats) Clients() int64 {
	return stats.clients.Load()
}

func (stats *Stats) Processed() int64 {
	return stats.processed.Load()
}

func (stats *Stats) OpsPerSecond() float64 {
	return stats.meter.Rate1()
}

func (stats *Stats) Uptime() time.Duration {
	return time.Since(stats.started)
}

func (stats *Stats) Stop() {
	stats.meter.Stop()
}
