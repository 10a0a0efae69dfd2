package observability

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"
)

// vec is a labelled family of float samples, exposed as a counter or gauge.
type vec struct {
	name       string
	help       string
	kind       string
	labelNames []string
	mu         sync.RWMutex
	values     map[string]float64
}

func newVec(kind, name, help string, labels []string) *vec {
	return &vec{name: name, help: help, kind: kind, labelNames: labels, values: map[string]float64{}}
}

func (v *vec) add(delta float64, values []string) {
	lbl := labelString(v.labelNames, values)
	v.mu.Lock()
	v.values[lbl] += delta
	v.mu.Unlock()
}

func (v *vec) set(x float64, values []string) {
	lbl := labelString(v.labelNames, values)
	v.mu.Lock()
	v.values[lbl] = x
	v.mu.Unlock()
}

func (v *vec) get(values ...string) float64 {
	lbl := labelString(v.labelNames, values)
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.values[lbl]
}

func (v *vec) WritePrometheus(w io.Writer) error {
	if _, err := fmt.Fprintf(w, "# HELP %s %s\n# TYPE %s %s\n", v.name, v.help, v.name, v.kind); err != nil {
		return err
	}
	v.mu.RLock()
	defer v.mu.RUnlock()
	for _, k := range sortedKeys(v.values) {
		if _, err := fmt.Fprintf(w, "%s%s %g\n", v.name, k, v.values[k]); err != nil {
			return err
		}
	}
	return nil
}

type CounterVec struct{ v *vec }

func NewCounterVec(name, help string, labels []string) *CounterVec {
	return &CounterVec{v: newVec("counter", name, help, labels)}
}

func (c *CounterVec) Inc(values ...string) {
	if c != nil {
		c.v.add(1, values)
	}
}

func (c *CounterVec) Value(values ...string) float64 {
	if c == nil {
		return 0
	}
	return c.v.get(values...)
}

func (c *CounterVec) WritePrometheus(w io.Writer) error { return c.v.WritePrometheus(w) }

type Gauge struct{ v *vec }

func NewGauge(name, help string) *Gauge {
	return &Gauge{v: newVec("gauge", name, help, nil)}
}

func (g *Gauge) Set(x float64) {
	if g != nil {
		g.v.set(x, nil)
	}
}

func (g *Gauge) Add(d float64) {
	if g != nil {
		g.v.add(d, nil)
	}
}

func (g *Gauge) Value() float64 {
	if g == nil {
		return 0
	}
	return g.v.get()
}

func (g *Gauge) WritePrometheus(w io.Writer) error { return g.v.WritePrometheus(w) }

type HistogramVec struct {
	name       string
	help       string
	labelNames []string
	buckets    []float64
	mu         sync.RWMutex
	values     map[string]*histogram
}

type histogram struct {
	counts []uint64 // cumulative per bucket, last is +Inf
	sum    float64
	total  uint64
}

func NewHistogramVec(name, help string, labels []string, buckets []float64) *HistogramVec {
	if len(buckets) == 0 {
		buckets = []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2, 5}
	}
	return &HistogramVec{name: name, help: help, labelNames: labels, buckets: buckets, values: map[string]*histogram{}}
}

func (h *HistogramVec) Observe(x float64, values ...string) {
	if h == nil {
		return
	}
	lbl := labelString(h.labelNames, values)
	h.mu.Lock()
	defer h.mu.Unlock()
	hist, ok := h.values[lbl]
	if !ok {
		hist = &histogram{counts: make([]uint64, len(h.buckets)+1)}
		h.values[lbl] = hist
	}
	hist.sum += x
	hist.total++
	for i, b := range h.buckets {
		if x <= b {
			hist.counts[i]++
		}
	}
	hist.counts[len(h.buckets)]++
}

func (h *HistogramVec) Count(values ...string) uint64 {
	if h == nil {
		return 0
	}
	lbl := labelString(h.labelNames, values)
	h.mu.RLock()
	defer h.mu.RUnlock()
	if hist, ok := h.values[lbl]; ok {
		return hist.total
	}
	return 0
}

func (h *HistogramVec) WritePrometheus(w io.Writer) error {
	if _, err := fmt.Fprintf(w, "# HELP %s %s\n# TYPE %s histogram\n", h.name, h.help, h.name); err != nil {
		return err
	}
	h.mu.RLock()
	defer h.mu.RUnlock()
	keys := make([]string, 0, len(h.values))
	for k := range h.values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		hist := h.values[k]
		for i, b := range h.buckets {
			if _, err := fmt.Fprintf(w, "%s_bucket%s %d\n", h.name, withLe(k, fmt.Sprintf("%g", b)), hist.counts[i]); err != nil {
				return err
			}
		}
		if _, err := fmt.Fprintf(w, "%s_bucket%s %d\n%s_sum%s %g\n%s_count%s %d\n",
			h.name, withLe(k, "+Inf"), hist.counts[len(h.buckets)],
			h.name, k, hist.sum,
			h.name, k, hist.total); err != nil {
			return err
		}
	}
	return nil
}

func sortedKeys(m map[string]float64) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func labelString(names []string, values []string) string {
	if len(names) == 0 {
		return ""
	}
	parts := make([]string, len(names))
	for i, name := range names {
		val := "unknown"
		if i < len(values) && values[i] != "" {
			val = values[i]
		}
		parts[i] = name + "=\"" + escapeLabel(val) + "\""
	}
	return "{" + strings.Join(parts, ",") + "}"
}

func escapeLabel(v string) string {
	return strings.NewReplacer(`\`, `\\`, `"`, `\"`, "\n", `\n`).Replace(v)
}

func withLe(labels string, le string) string {
	if labels == "" {
		return "{le=\"" + le + "\"}"
	}
	return strings.TrimSuffix(labels, "}") + ",le=\"" + le + "\"}"
}
