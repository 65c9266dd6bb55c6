package metrics

import (
	"sort"
	"strings"
	"sync"
	"time"
)

// Metric names recorded by the bridge, client and daemon.
const (
	BridgeCalls         = "bridge_calls_total"
	BridgeCallDuration  = "bridge_call_duration"
	BridgeRetries       = "bridge_retries_total"
	BridgePending       = "bridge_pending_calls"
	EventsReceived      = "events_received_total"
	SnapshotsWritten    = "snapshots_written_total"
	SnapshotsExpired    = "snapshots_expired_total"
	HTTPRequests        = "http_requests_total"
	HTTPRequestDuration = "http_request_duration"
)

const maxSamples = 1000

// Counter is a monotonically increasing value.
type Counter struct {
	Name       string            `json:"name"`
	Labels     map[string]string `json:"labels,omitempty"`
	Value      float64           `json:"value"`
	LastUpdate time.Time         `json:"last_update"`
}

// Gauge is a value that can go up and down.
type Gauge struct {
	Name       string            `json:"name"`
	Labels     map[string]string `json:"labels,omitempty"`
	Value      float64           `json:"value"`
	LastUpdate time.Time         `json:"last_update"`
}

// Timer aggregates durations in milliseconds.
type Timer struct {
	Name    string            `json:"name"`
	Labels  map[string]string `json:"labels,omitempty"`
	Count   int64             `json:"count"`
	Sum     float64           `json:"sum_ms"`
	Min     float64           `json:"min_ms"`
	Max     float64           `json:"max_ms"`
	Average float64           `json:"avg_ms"`
	P95     float64           `json:"p95_ms,omitempty"`
	P99     float64           `json:"p99_ms,omitempty"`
	samples []float64
}

// Snapshot is a point-in-time copy of a registry.
type Snapshot struct {
	Counters map[string]Counter `json:"counters"`
	Gauges   map[string]Gauge   `json:"gauges"`
	Timers   map[string]Timer   `json:"timers"`
	UptimeMs int64              `json:"uptime_ms"`
}

// Registry keeps metrics in memory. It is safe for concurrent use.
type Registry struct {
	mu        sync.RWMutex
	counters  map[string]*Counter
	gauges    map[string]*Gauge
	timers    map[string]*Timer
	startTime time.Time
}

// NewRegistry creates a new metrics registry
func NewRegistry() *Registry {
	return &Registry{
		counters:  make(map[string]*Counter),
		gauges:    make(map[string]*Gauge),
		timers:    make(map[string]*Timer),
		startTime: time.Now(),
	}
}

var defaultRegistry = NewRegistry()

// Default returns the process-wide registry.
func Default() *Registry {
	return defaultRegistry
}

// Inc increments a counter by one.
func (r *Registry) Inc(name string, labels map[string]string) {
	r.Add(name, 1, labels)
}

// Add adds value to a counter.
func (r *Registry) Add(name string, value float64, labels map[string]string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := Key(name, labels)
	c, ok := r.counters[key]
	if !ok {
		c = &Counter{Name: name, Labels: copyLabels(labels)}
		r.counters[key] = c
	}
	c.Value += value
	c.LastUpdate = time.Now()
}

// SetGauge sets a gauge metric value
func (r *Registry) SetGauge(name string, value float64, labels map[string]string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.gauges[Key(name, labels)] = &Gauge{
		Name:       name,
		Labels:     copyLabels(labels),
		Value:      value,
		LastUpdate: time.Now(),
	}
}

// Observe records a duration on a timer.
func (r *Registry) Observe(name string, d time.Duration, labels map[string]string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	ms := float64(d.Nanoseconds()) / 1e6
	key := Key(name, labels)
	t, ok := r.timers[key]
	if !ok {
		t = &Timer{Name: name, Labels: copyLabels(labels), Min: ms}
		r.timers[key] = t
	}

	t.Count++
	t.Sum += ms
	t.Min = min(t.Min, ms)
	t.Max = max(t.Max, ms)
	t.Average = t.Sum / float64(t.Count)

	t.samples = append(t.samples, ms)
	if len(t.samples) > maxSamples {
		t.samples = t.samples[len(t.samples)-maxSamples:]
	}
	if len(t.samples) >= 10 {
		t.P95 = percentile(t.samples, 0.95)
		t.P99 = percentile(t.samples, 0.99)
	}
}

// Counter returns the current value of a counter, or zero.
func (r *Registry) Counter(name string, labels map[string]string) float64 {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if c, ok := r.counters[Key(name, labels)]; ok {
		return c.Value
	}
	return 0
}

// Snapshot copies every metric.
func (r *Registry) Snapshot() Snapshot {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s := Snapshot{
		Counters: make(map[string]Counter, len(r.counters)),
		Gauges:   make(map[string]Gauge, len(r.gauges)),
		Timers:   make(map[string]Timer, len(r.timers)),
		UptimeMs: time.Since(r.startTime).Milliseconds(),
	}
	for k, c := range r.counters {
		s.Counters[k] = *c
	}
	for k, g := range r.gauges {
		s.Gauges[k] = *g
	}
	for k, t := range r.timers {
		cp := *t
		cp.samples = nil
		s.Timers[k] = cp
	}
	return s
}

// Key builds the storage key for a metric. Labels are sorted so the key is stable.
func Key(name string, labels map[string]string) string {
	if len(labels) == 0 {
		return name
	}

	keys := make([]string, 0, len(labels))
	for k := range labels {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	b.WriteString(name)
	b.WriteByte('{')
	for i, k := range keys {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(k)
		b.WriteByte('=')
		b.WriteString(labels[k])
	}
	b.WriteByte('}')
	return b.String()
}

func percentile(samples []float64, p float64) float64 {
	sorted := append([]float64(nil), samples...)
	sort.Float64s(sorted)

	index := int(float64(len(sorted)) * p)
	if index >= len(sorted) {
		index = len(sorted) - 1
	}
	return sorted[index]
}

func copyLabels(labels map[string]string) map[string]string {
	if labels == nil {
		return nil
	}
	cp := make(map[string]string, len(labels))
	for k, v := range labels {
		cp[k] = v
	}
	return cp
}
