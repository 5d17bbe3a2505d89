package cmn

import (
	"bytes"
	"strconv"
	"strings"
	"sync"
	"time"
)

// ServerTimingHeader name of the http header written by ServerTiming
const ServerTimingHeader = "Server-Timing"

// ServerTimingMetric a single metric of the Server-Timing header
type ServerTimingMetric struct {
	Name        string
	Description string
	Duration    time.Duration
	start       time.Time
	stopped     bool
}

// Start (re)starts the metric clock
func (m *ServerTimingMetric) Start() *ServerTimingMetric {
	m.start = time.Now()
	m.stopped = false
	return m
}

// Stop the clock. Calling Stop on a metric that was never started does nothing.
func (m *ServerTimingMetric) Stop() {
	if m.start.IsZero() || m.stopped {
		return
	}
	m.Duration = time.Since(m.start)
	m.stopped = true
}

// milliseconds with 3 decimals, as expected by the header
func (m *ServerTimingMetric) milliseconds() string {
	return strconv.FormatFloat(float64(m.Duration.Microseconds())/1000, 'f', 3, 64)
}

// ServerTiming http Server Timing implementation
//
// https://www.w3.org/TR/server-timing/
// https://developer.mozilla.org/en-US/docs/Web/HTTP/Headers/Server-Timing
type ServerTiming struct {
	mu      sync.Mutex
	metrics []*ServerTimingMetric
}

// Metric adds a new metric, not started
func (t *ServerTiming) Metric(name string, description string) *ServerTimingMetric {
	metric := &ServerTimingMetric{
		Name:        name,
		Description: description,
	}
	t.mu.Lock()
	t.metrics = append(t.metrics, metric)
	t.mu.Unlock()
	return metric
}

// Measure runs fn and records its duration
func (t *ServerTiming) Measure(name string, description string, fn func() error) error {
	metric := t.Metric(name, description).Start()
	defer metric.Stop()
	return fn()
}

// Metrics the list of metrics, in insertion order
func (t *ServerTiming) Metrics() []*ServerTimingMetric {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]*ServerTimingMetric, len(t.metrics))
	copy(out, t.metrics)
	return out
}

// String header value: `compile;dur=1.234;desc="Compile", render;dur=0.56`
func (t *ServerTiming) String() string {
	buf := bytes.Buffer{}
	i := 0
	for _, metric := range t.Metrics() {
		name := strings.TrimSpace(metric.Name)
		if name == "" {
			continue
		}
		if i > 0 {
			buf.WriteString(", ")
		}
		buf.WriteString(name)
		if metric.stopped {
			buf.WriteString(";dur=")
			buf.WriteString(metric.milliseconds())
		}
		description := strings.ReplaceAll(strings.TrimSpace(metric.Description), `"`, "")
		if description != "" {
			buf.WriteString(`;desc="`)
			buf.WriteString(description)
			buf.WriteByte('"')
		}
		i++
	}
	return buf.String()
}
