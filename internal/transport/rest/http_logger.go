package rest

import (
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/carelink/clinic-service/internal/pkg/logger"
	"github.com/carelink/clinic-service/internal/pkg/metrics"
)

type statusRecorder struct {
	http.ResponseWriter
	status int
	bytes  int
}

func (rw *statusRecorder) WriteHeader(code int) {
	rw.status = code
	rw.ResponseWriter.WriteHeader(code)
}

func (rw *statusRecorder) Write(p []byte) (int, error) {
	if rw.status == 0 {
		rw.status = http.StatusOK
	}
	n, err := rw.ResponseWriter.Write(p)
	rw.bytes += n
	return n, err
}

// HTTPLogger logs one structured line per request and records the latency
// histogram. A nil Metrics skips the histogram, for tests.
func HTTPLogger(m *metrics.Metrics) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := &statusRecorder{ResponseWriter: w}

			next.ServeHTTP(rec, r)

			ip := r.RemoteAddr
			if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
				ip = host
			}

			elapsed := time.Since(start)
			if m != nil {
				m.HTTPDuration.
					WithLabelValues(r.Method, strconv.Itoa(rec.status)).
					Observe(elapsed.Seconds())
			}

			logger.WithCtx(r.Context()).
				Info().
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Str("ip", ip).
				Int("status", rec.status).
				Int("bytes", rec.bytes).
				Dur("duration", elapsed).
				Msg("http_request")
		})
	}
}
