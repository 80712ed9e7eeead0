package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/okian/accredit/pkg/metrics"
)

// Route groups used as the component label of error metrics.
const (
	groupReports = "reports"
	groupJobs    = "jobs"
	groupOps     = "ops"
)

// route is one registered endpoint. name labels its request metrics.
type route struct {
	pattern string
	name    string
	group   string
	handler http.HandlerFunc
}

// instrument records request count and latency per route, and for failed
// requests the error code the handler wrote.
func instrument(rt route) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		rt.handler(rec, r)

		status := strconv.Itoa(rec.status)
		metrics.RecordHTTPRequest(rt.name, r.Method, status)
		metrics.RecordHTTPRequestDuration(rt.name, r.Method, status, float64(time.Since(start).Milliseconds()))

		if rec.status < http.StatusBadRequest {
			return
		}
		code := rec.code
		if code == "" {
			code = fallbackCode(rec.status)
		}
		metrics.RecordErrorByEndpoint(rt.name, r.Method, code)
		metrics.RecordErrorByType(code, severityOf(code))
		metrics.RecordErrorByComponent(rt.group, code)
	}
}

// severityOf ranks API error codes.
func severityOf(code string) string {
	switch code {
	case "internal_error", "unavailable":
		return "high"
	case "backpressure", "not_ready":
		return "medium"
	default:
		return "low"
	}
}

// fallbackCode names failures written without writeError.
func fallbackCode(status int) string {
	switch {
	case status >= http.StatusInternalServerError:
		return "internal_error"
	case status == http.StatusNotFound:
		return "not_found"
	case status == http.StatusMethodNotAllowed:
		return "method_not_allowed"
	default:
		return "bad_request"
	}
}

// statusRecorder captures the status and API error code of a response.
type statusRecorder struct {
	http.ResponseWriter
	status int
	code   string
}

func (rw *statusRecorder) WriteHeader(code int) {
	rw.status = code
	rw.ResponseWriter.WriteHeader(code)
}

// setErrorCode is called by writeError before the body is written.
func (rw *statusRecorder) setErrorCode(code string) { rw.code = code }

// errorCoder is implemented by writers that want the API error code.
type errorCoder interface {
	setErrorCode(code string)
}
