package middleware

import (
	"net/http"
	"strconv"

	"github.com/inkpress/pkg/endpoint"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var requestsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "inkpress_http_requests_total",
		Help: "HTTP requests served, by route pattern and status code.",
	},
	[]string{"method", "route", "status"},
)

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(status int) {
	if s.status == 0 {
		s.status = status
	}

	s.ResponseWriter.WriteHeader(status)
}

func (s *statusRecorder) Write(body []byte) (int, error) {
	if s.status == 0 {
		s.status = http.StatusOK
	}

	return s.ResponseWriter.Write(body)
}

// Metrics counts every request against its mux pattern, so path values do
// not explode the label space.
func Metrics(next endpoint.ApiHandler) endpoint.ApiHandler {
	return func(w http.ResponseWriter, r *http.Request) *endpoint.ApiError {
		recorder := &statusRecorder{ResponseWriter: w}

		apiErr := next(recorder, r)

		status := recorder.status
		switch {
		case apiErr != nil:
			status = apiErr.Status
		case status == 0:
			status = http.StatusOK
		}

		route := r.Pattern
		if route == "" {
			route = "unmatched"
		}

		requestsTotal.WithLabelValues(r.Method, route, strconv.Itoa(status)).Inc()

		return apiErr
	}
}
