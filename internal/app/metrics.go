package app

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	vmetrics "github.com/VictoriaMetrics/metrics"

	"github.com/luiz-simples/replikv.git/internal/logger"
)

// MetricsServer exposes a metrics set in Prometheus text format on /metrics.
type MetricsServer struct {
	set      *vmetrics.Set
	http     *http.Server
	listener net.Listener
}

func NewMetricsServer(addr string, set *vmetrics.Set) (*MetricsServer, error) {
	listener, err := net.Listen("tcp", addr)
	if hasError(err) {
		return nil, err
	}

	metrics := &MetricsServer{set: set, listener: listener}

	mux := http.NewServeMux()
	mux.HandleFunc("/metrics", metrics.write)

	metrics.http = &http.Server{Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	return metrics, nil
}

func (metrics *MetricsServer) Addr() net.Addr {
	return metrics.listener.Addr()
}

func (metrics *MetricsServer) Serve() {
	logger.Info("metrics endpoint listening", "addr", metrics.Addr().String())

	err := metrics.http.Serve(metrics.listener)
	if hasError(err) && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("metrics endpoint stopped", "error", err)
	}
}

func (metrics *MetricsServer) Close(ctx context.Context) error {
	return metrics.http.Shutdown(ctx)
}

func (metrics *MetricsServer) write(writer http.ResponseWriter, _ *http.Request) {
	writer.Header().Set("Content-Type", "text/plain; version=0.0.4")
	metrics.set.WritePrometheus(writer)
	vmetrics.WriteProcessMetrics(writer)
}
