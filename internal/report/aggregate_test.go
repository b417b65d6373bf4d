package report

import (
	"testing"

	"github.com/wgmesh/ci-tools/internal/trace"
)

func TestBuildTimeline_PairsStartAndEnd(t *testing.T) {
	events := []trace.Event{
		{"type": "test_start", "name": "A", "ts": 0.0},
		{"type": "test_end", "name": "A", "ts": 10.0, "result": "PASS", "tier": "1"},
	}

	timeline := BuildTimeline(events)
	if len(timeline) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(timeline))
	}
	entry := timeline[0]
	if entry.ID != "A" || entry.Start != 0 || entry.End != 10 || entry.Duration != 10 {
		t.Errorf("unexpected entry: %+v", entry)
	}
	if entry.Result != "PASS" || entry.Tier != "1" {
		t.Errorf("unexpected result/tier: %+v", entry)
	}
}

func TestBuildTimeline_UnmatchedEnd(t *testing.T) {
	events := []trace.Event{
		{"type": "test_end", "name": "B", "ts": 5.0},
	}

	timeline := BuildTimeline(events)
	if len(timeline) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(timeline))
	}
	entry := timeline[0]
	if entry.Start != 5 || entry.End != 5 || entry.Duration != 0 {
		t.Errorf("expected zero-duration fallback, got %+v", entry)
	}
	if entry.Result != "?" || entry.Tier != "?" {
		t.Errorf("expected placeholder result/tier, got %+v", entry)
	}
}

// TestBuildTimeline_DurationFieldWins verifies the encoder-provided
// duration overrides the computed timestamp delta.
func TestBuildTimeline_DurationFieldWins(t *testing.T) {
	events := []trace.Event{
		{"type": "test_start", "name": "A", "ts": 0.0},
		{"type": "test_end", "name": "A", "ts": 10.0, "duration": 7.0},
	}

	timeline := BuildTimeline(events)
	if len(timeline) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(timeline))
	}
	if timeline[0].Duration != 7 {
		t.Errorf("duration: got %v, want 7", timeline[0].Duration)
	}
}

func TestBuildTimeline_LastStartWins(t *testing.T) {
	events := []trace.Event{
		{"type": "test_start", "name": "A", "ts": 0.0},
		{"type": "test_start", "name": "A", "ts": 8.0}, // retry overwrites
		{"type": "test_end", "name": "A", "ts": 10.0},
	}

	timeline := BuildTimeline(events)
	if len(timeline) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(timeline))
	}
	if timeline[0].Start != 8 || timeline[0].Duration != 2 {
		t.Errorf("expected last start to win, got %+v", timeline[0])
	}
}

// TestBuildTimeline_EntryPerEnd verifies the entry count equals the
// number of test_end events; starts without ends produce nothing.
func TestBuildTimeline_EntryPerEnd(t *testing.T) {
	events := []trace.Event{
		{"type": "test_start", "name": "A", "ts": 0.0},
		{"type": "test_end", "name": "A", "ts": 1.0},
		{"type": "test_start", "name": "B", "ts": 2.0},
		{"type": "test_end", "name": "B", "ts": 3.0},
		{"type": "test_start", "name": "C", "ts": 4.0}, // never ends
		{"type": "other", "name": "D", "ts": 5.0},
	}

	timeline := BuildTimeline(events)
	if len(timeline) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(timeline))
	}
}

func TestBuildChaosEvents(t *testing.T) {
	events := []trace.Event{
		{"type": "chaos_apply", "name": "node2", "ts": 30.0, "type_param": "partition", "params": "node1,node3", "tier": "3"},
		{"type": "chaos_clear", "name": "node2", "ts": 60.0},
		{"type": "test_start", "name": "A", "ts": 0.0},
	}

	chaos := BuildChaosEvents(events)
	if len(chaos) != 2 {
		t.Fatalf("expected 2 chaos events, got %d", len(chaos))
	}
	if chaos[0].Node != "node2" || chaos[0].Kind != "partition" || chaos[0].Params != "node1,node3" {
		t.Errorf("unexpected apply event: %+v", chaos[0])
	}
	// Without type_param the kind falls back to the event type.
	if chaos[1].Action != "chaos_clear" || chaos[1].Kind != "chaos_clear" {
		t.Errorf("unexpected clear event: %+v", chaos[1])
	}
	if chaos[1].Tier != "?" {
		t.Errorf("expected placeholder tier, got %q", chaos[1].Tier)
	}
}

func TestBuildDataPlaneMetrics_Passthrough(t *testing.T) {
	events := []trace.Event{
		{"type": "data_transfer", "name": "node1->node2", "ts": 40.0, "tier": "2",
			"result": "ok", "size_mb": 500.0},
		{"type": "data_iperf", "name": "node1->node3", "ts": 50.0,
			"mbps": 940.2, "retransmits": 3.0, "streams": 4.0, "proto": "tcp", "mtu": 1380.0},
		{"type": "datax", "name": "not-data-plane", "ts": 60.0},
	}

	metrics := BuildDataPlaneMetrics(events)
	if len(metrics) != 2 {
		t.Fatalf("expected 2 metrics, got %d", len(metrics))
	}

	m := metrics[0]
	if m.Type != "data_transfer" || m.Name != "node1->node2" || m.Tier != "2" {
		t.Errorf("unexpected metric: %+v", m)
	}
	if m.Extra["result"] != "ok" || m.Extra["size_mb"] != 500.0 {
		t.Errorf("extras not passed through: %+v", m.Extra)
	}
	if _, ok := m.Extra["ts"]; ok {
		t.Error("reserved field leaked into extras")
	}

	// Heterogeneous shape with five extra fields survives verbatim.
	if len(metrics[1].Extra) != 5 {
		t.Errorf("expected 5 extras, got %d: %+v", len(metrics[1].Extra), metrics[1].Extra)
	}
}

func TestBuildTierSummary(t *testing.T) {
	events := []trace.Event{
		{"type": "tier_start", "name": "1", "ts": 0.0, "tests": 12.0},
		{"type": "tier_end", "name": "1", "ts": 300.0},
		{"type": "tier_end", "name": "2", "ts": 400.0}, // no matching start
	}

	tiers := BuildTierSummary(events)
	if len(tiers) != 2 {
		t.Fatalf("expected 2 tiers, got %d", len(tiers))
	}
	if tiers[0].Name != "1" || tiers[0].Duration != 300 || tiers[0].Tests != "12" {
		t.Errorf("unexpected tier: %+v", tiers[0])
	}
	if tiers[1].Start != 400 || tiers[1].Duration != 0 || tiers[1].Tests != "?" {
		t.Errorf("expected unmatched-end fallback, got %+v", tiers[1])
	}
}
