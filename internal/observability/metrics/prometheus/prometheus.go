package prometheus

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

var commandMetrics = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Name: "economy_command_duration_seconds",
		Help: "Duration of dispatched commands.",
	}, []string{"op", "result"},
)

// ObserveRequest records one dispatched command with its outcome label.
func ObserveRequest(d time.Duration, result, op string) {
	commandMetrics.With(
		prometheus.Labels{
			"op":     op,
			"result": result,
		},
	).Observe(d.Seconds())
}

type Metric struct {
	srv *http.Server
}

func New(port int) *Metric {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	return &Metric{
		srv: &http.Server{
			Addr:    fmt.Sprintf(":%v", port),
			Handler: mux,
		},
	}
}

func (m *Metric) Start(ctx context.Context) {
	go func() {
		<-ctx.Done()
		if err := m.srv.Shutdown(context.Background()); err != nil {
			zap.L().Warn("Error shutting down metrics server", zap.Error(err))
		}
	}()

	err := m.srv.ListenAndServe()
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		zap.L().Debug("Metrics server error", zap.Error(err))
	}
}
