package monitor

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Outcome labels
const (
	OutcomeSuccess = "success"
	OutcomeError   = "error"
)

// Recorder collects client metrics on a private registry. A nil *Recorder
// records nothing.
type Recorder struct {
	registry *prometheus.Registry

	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
	uploads  *prometheus.CounterVec
	chat     *prometheus.CounterVec
}

// NewRecorder registers the client metrics on a fresh registry
func NewRecorder() *Recorder {
	reg := prometheus.NewRegistry()

	r := &Recorder{
		registry: reg,
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "legalease",
			Name:      "api_requests_total",
			Help:      "Backend API requests by method, endpoint and outcome.",
		}, []string{"method", "endpoint", "outcome"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "legalease",
			Name:      "api_request_duration_seconds",
			Help:      "Backend API request latency.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
		}, []string{"method", "endpoint"}),
		uploads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "legalease",
			Name:      "uploads_total",
			Help:      "Processed contract uploads by outcome.",
		}, []string{"outcome"}),
		chat: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "legalease",
			Name:      "chat_messages_total",
			Help:      "Chat messages sent by outcome.",
		}, []string{"outcome"}),
	}

	reg.MustRegister(r.requests, r.duration, r.uploads, r.chat)
	return r
}

// ObserveRequest records one backend call
func (r *Recorder) ObserveRequest(method, path string, err error, elapsed time.Duration) {
	if r == nil {
		return
	}
	endpoint := Endpoint(path)
	r.requests.WithLabelValues(method, endpoint, outcome(err)).Inc()
	r.duration.WithLabelValues(method, endpoint).Observe(elapsed.Seconds())
}

// ObserveUpload records one upload attempt
func (r *Recorder) ObserveUpload(err error) {
	if r == nil {
		return
	}
	r.uploads.WithLabelValues(outcome(err)).Inc()
}

// ObserveChat records one chat send
func (r *Recorder) ObserveChat(err error) {
	if r == nil {
		return
	}
	r.chat.WithLabelValues(outcome(err)).Inc()
}

// Registry exposes the underlying registry
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

// Handler serves the registry in the prometheus text format
func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}

// Serve exposes /metrics on addr until ctx is cancelled
func (r *Recorder) Serve(ctx context.Context, addr string) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", r.Handler())

	server := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("metrics server shutdown: %w", err)
		}
		return nil
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("metrics server: %w", err)
		}
		return nil
	}
}

// Endpoint collapses ids in an API path so label cardinality stays bounded:
// /api/contracts/123/analysis becomes /api/contracts/:id/analysis.
func Endpoint(path string) string {
	if i := strings.IndexByte(path, '?'); i >= 0 {
		path = path[:i]
	}
	segments := strings.Split(path, "/")
	for i := 1; i < len(segments); i++ {
		switch segments[i-1] {
		case "contracts", "chat":
			if segments[i] != "" {
				segments[i] = ":id"
			}
		}
	}
	return strings.Join(segments, "/")
}

func outcome(err error) string {
	if err != nil {
		return OutcomeError
	}
	return OutcomeSuccess
}
