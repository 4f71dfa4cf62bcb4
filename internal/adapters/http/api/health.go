package api

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/okian/melee/pkg/metrics"
)

// healthHandler serves liveness plus the Prometheus metric exposition on
// the same endpoint.
func (s *Server) healthHandler() http.Handler {
	return promhttp.HandlerFor(metrics.GetRegistry(), promhttp.HandlerOpts{})
}
