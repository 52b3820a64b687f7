package metrics

import (
	"strings"
	"time"
)

// infraPaths are served outside the API and never recorded
var infraPaths = map[string]struct{}{
	"/metrics": {},
	"/health":  {},
	"/ready":   {},
}

// RecordHTTPRequest records HTTP request metrics. endpoint is the matched
// route pattern; unmatched requests share one label.
func (m *Metrics) RecordHTTPRequest(method, endpoint string, statusCode int, duration time.Duration) {
	m.safeExecute("RecordHTTPRequest", func() {
		if endpoint == "" {
			endpoint = "unmatched"
		}
		m.HTTPRequestsTotal.WithLabelValues(method, endpoint, categorizeStatus(statusCode)).Inc()
		m.HTTPRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
	})
}

func categorizeStatus(code int) string {
	if code < 200 || code > 599 {
		return "unknown"
	}
	return string(rune('0'+code/100)) + "xx"
}

// ShouldSkipEndpoint reports whether path is excluded from request metrics.
// Websocket subscriptions are tracked by the live subscriber gauge instead,
// since their duration is the lifetime of the connection.
func ShouldSkipEndpoint(path string) bool {
	if _, ok := infraPaths[path]; ok {
		return true
	}
	return strings.HasPrefix(path, "/swagger/") || strings.HasSuffix(path, "/live")
}
