package observability

import (
	"bytes"
	"strings"
	"testing"
	"time"
)

func TestMetricsExposition(t *testing.T) {
	m := NewMetrics()
	m.ObserveAPI("POST", "/v1/renders", 200, 1500*time.Millisecond)
	m.ObserveRender("depth_conditioned", "image_http", false, 3*time.Second)
	m.ObserveRender("unconditioned", "fallback", true, 10*time.Millisecond)
	m.ObserveCapture("depth", false)

	var buf bytes.Buffer
	if err := m.WritePrometheus(&buf); err != nil {
		t.Fatalf("WritePrometheus: %v", err)
	}
	out := buf.String()
	for _, want := range []string{
		`roomstage_api_requests_total{method="POST",route="/v1/renders",status="200"} 1`,
		`roomstage_api_request_duration_seconds_bucket{method="POST",route="/v1/renders",le="2"} 1`,
		`roomstage_api_request_duration_seconds_bucket{method="POST",route="/v1/renders",le="1"} 0`,
		`roomstage_renders_total{mode="unconditioned",provider="fallback",fallback="true"} 1`,
		`roomstage_captures_total{mode="depth",available="false"} 1`,
		"# TYPE roomstage_render_duration_seconds histogram",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("exposition missing %q\n%s", want, out)
		}
	}
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	m.ObserveAPI("GET", "/healthz", 200, time.Millisecond)
	m.ObserveRender("x", "y", true, time.Second)
	m.InflightAdd(1)
	if err := m.WritePrometheus(&bytes.Buffer{}); err != nil {
		t.Fatalf("WritePrometheus: %v", err)
	}
}

func TestLabelEscaping(t *testing.T) {
	c := NewCounterVec("x_total", "x", []string{"route"})
	c.Inc(`a"b`)
	if c.Value(`a"b`) != 1 {
		t.Fatalf("value=%v", c.Value(`a"b`))
	}
	var buf bytes.Buffer
	_ = c.WritePrometheus(&buf)
	if !strings.Contains(buf.String(), `x_total{route="a\"b"} 1`) {
		t.Fatalf("got %s", buf.String())
	}
}

func TestParseHeadersAndRatio(t *testing.T) {
	h := parseHeaders("a=1, b = 2 ,bad,=x")
	if len(h) != 2 || h["a"] != "1" || h["b"] != "2" {
		t.Fatalf("headers=%v", h)
	}
	if parseHeaders("") != nil {
		t.Fatalf("expected nil headers")
	}
	if parseRatio("2", 0.1) != 1 || parseRatio("-1", 0.1) != 0 || parseRatio("x", 0.1) != 0.1 {
		t.Fatalf("ratio clamping broken")
	}
}
