package observability

import (
	"sync"
	"time"
)

type routeKey struct {
	path   string
	method string
	label  string
}

// Metrics keeps in-process request and error counters per route. It is a
// lightweight stand-in for an external metrics backend; nil receivers are
// no-ops so wiring stays optional.
type Metrics struct {
	mu       sync.Mutex
	requests map[routeKey]int64
	errors   map[routeKey]int64
}

// NewMetrics allocates empty counter maps.
func NewMetrics() *Metrics {
	return &Metrics{
		requests: make(map[routeKey]int64),
		errors:   make(map[routeKey]int64),
	}
}

// RecordRequest counts one served request.
func (m *Metrics) RecordRequest(path, method string, status int, _ time.Duration) {
	if m == nil {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.requests[routeKey{path: path, method: method, label: statusClass(status)}]++
}

// RecordError counts one failed request by error code.
func (m *Metrics) RecordError(path, method, code string) {
	if m == nil {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.errors[routeKey{path: path, method: method, label: code}]++
}

func statusClass(status int) string {
	switch {
	case status >= 500:
		return "5xx"
	case status >= 400:
		return "4xx"
	case status >= 300:
		return "3xx"
	default:
		return "2xx"
	}
}
