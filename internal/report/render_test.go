package report

import (
	"strings"
	"testing"

	"github.com/wgmesh/ci-tools/internal/config"
	"github.com/wgmesh/ci-tools/internal/trace"
)

func TestRender_EmptyTrace(t *testing.T) {
	html := Render(nil, config.DefaultReport())
	if !strings.Contains(html, "No test events found") {
		t.Fatalf("expected empty-state document, got: %s", html)
	}
}

// TestRender_NoCompletedTests verifies events without a single test_end
// still produce the whole-document fallback.
func TestRender_NoCompletedTests(t *testing.T) {
	events := []trace.Event{
		{"type": "chaos_apply", "name": "node1", "ts": 1.0},
		{"type": "test_start", "name": "A", "ts": 2.0},
	}
	html := Render(events, config.DefaultReport())
	if !strings.Contains(html, "No test events found") {
		t.Fatal("expected empty-state document")
	}
}

func TestRender_SinglePassingTest(t *testing.T) {
	events := []trace.Event{
		{"type": "test_start", "name": "mesh-form", "ts": 0.0, "tier": "1"},
		{"type": "test_end", "name": "mesh-form", "ts": 30.0, "tier": "1", "result": "PASS"},
	}

	html := Render(events, config.DefaultReport())

	if got := strings.Count(html, `class="gantt-bar"`); got != 1 {
		t.Errorf("expected exactly 1 gantt bar, got %d", got)
	}
	if got := strings.Count(html, `>PASS</span>`); got != 1 {
		t.Errorf("expected exactly 1 PASS badge, got %d", got)
	}
	// Total Tests and Passed counters both read 1.
	if got := strings.Count(html, `<div class="stat-value">1</div>`); got != 1 {
		t.Errorf("expected Total Tests counter of 1, got %d occurrences", got)
	}
	if !strings.Contains(html, `<div class="stat-value pass">1</div>`) {
		t.Error("expected Passed counter of 1")
	}
	if !strings.Contains(html, "background:#22c55e") {
		t.Error("expected PASS green on the bar")
	}
}

func TestRender_UnknownResultRendersGray(t *testing.T) {
	events := []trace.Event{
		{"type": "test_end", "name": "odd", "ts": 5.0, "result": "EXPLODED"},
	}

	html := Render(events, config.DefaultReport())
	if !strings.Contains(html, "background:#6b7280") {
		t.Error("expected neutral gray for unknown result")
	}
	if !strings.Contains(html, ">EXPLODED</span>") {
		t.Error("expected unknown result text in badge")
	}
}

// TestRender_ZeroWidthWindow feeds a single zero-duration test: the
// window denominator is floored so rendering cannot divide by zero, and
// the minimum width floor keeps the bar visible.
func TestRender_ZeroWidthWindow(t *testing.T) {
	events := []trace.Event{
		{"type": "test_end", "name": "instant", "ts": 100.0, "result": "PASS"},
	}

	html := Render(events, config.DefaultReport())
	if !strings.Contains(html, "width:0.50%") {
		t.Error("expected minimum visible bar width")
	}
}

func TestRender_DataPlaneExtrasAppear(t *testing.T) {
	events := []trace.Event{
		{"type": "test_start", "name": "A", "ts": 0.0},
		{"type": "test_end", "name": "A", "ts": 10.0, "result": "PASS"},
		{"type": "data_transfer", "name": "n1->n2", "ts": 5.0, "tier": "2",
			"result": "ok", "size_mb": 500.0, "sha_match": true, "proto": "tcp", "retries": 2.0, "window": "64k"},
	}

	html := Render(events, config.DefaultReport())

	for _, want := range []string{
		">ok<", "size_mb=500", "sha_match=true", "proto=tcp", "retries=2", "window=64k",
	} {
		if !strings.Contains(html, want) {
			t.Errorf("expected %q in data plane row", want)
		}
	}
}

func TestRender_EmptySections(t *testing.T) {
	events := []trace.Event{
		{"type": "test_end", "name": "only", "ts": 1.0, "result": "FAIL"},
	}

	html := Render(events, config.DefaultReport())

	for _, want := range []string{"No tier data", "No data plane events", "No chaos events", "Chaos Events (0)"} {
		if !strings.Contains(html, want) {
			t.Errorf("expected empty placeholder %q", want)
		}
	}
}

func TestRender_FooterEventCount(t *testing.T) {
	events := []trace.Event{
		{"type": "test_end", "name": "A", "ts": 1.0},
		{"type": "noise", "name": "x", "ts": 2.0},
		{"type": "noise", "name": "y", "ts": 3.0},
	}

	html := Render(events, config.DefaultReport())
	if !strings.Contains(html, "3 trace events") {
		t.Error("expected footer to carry the total event count")
	}
}

func TestRender_Options(t *testing.T) {
	events := []trace.Event{
		{"type": "test_end", "name": "A", "ts": 1.0, "result": "PASS"},
	}
	opts := config.Report{
		Title:        "Nightly Soak Report",
		MinBarPct:    2,
		ResultColors: map[string]string{"PASS": "#123456"},
	}

	html := Render(events, opts)
	if !strings.Contains(html, "<title>Nightly Soak Report</title>") {
		t.Error("expected custom title")
	}
	if !strings.Contains(html, "background:#123456") {
		t.Error("expected color override to apply")
	}
	if !strings.Contains(html, "width:2.00%") {
		t.Error("expected custom minimum bar width")
	}
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		seconds float64
		want    string
	}{
		{0, "0s"},
		{42, "42s"},
		{59.6, "60s"},
		{60, "1m00s"},
		{187, "3m07s"},
		{3600, "1h00m00s"},
		{3729, "1h02m09s"},
	}
	for _, tt := range tests {
		if got := FormatDuration(tt.seconds); got != tt.want {
			t.Errorf("FormatDuration(%v) = %q, want %q", tt.seconds, got, tt.want)
		}
	}
}
