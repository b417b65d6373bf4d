// Package report turns a loaded trace into a self-contained HTML test
// report: Gantt-style timeline, tier summary, data-plane metrics, and a
// chaos event log.
package report

import (
	"strings"

	"github.com/wgmesh/ci-tools/internal/trace"
)

// TimelineEntry is one completed test, derived from a test_start/test_end
// pair sharing the same name. Entries are immutable once built.
type TimelineEntry struct {
	ID       string
	Tier     string
	Start    float64
	End      float64
	Duration float64
	Result   string
}

// ChaosEvent is one fault injection action applied to or cleared from a node.
type ChaosEvent struct {
	Ts     float64
	Action string
	Node   string
	Kind   string
	Params string
	Tier   string
}

// DataPlaneMetric is any data_-prefixed event. Extra carries every
// non-reserved field verbatim, so heterogeneous metric shapes (transfer,
// iperf, MTU probes) all fit without a fixed schema.
type DataPlaneMetric struct {
	Ts    float64
	Type  string
	Name  string
	Tier  string
	Extra map[string]any
}

// TierSummary is one tier's start/end window and expected test count.
type TierSummary struct {
	Name     string
	Start    float64
	End      float64
	Duration float64
	Tests    string
}

// BuildTimeline pairs test_start and test_end events by test name.
// A later start for the same name replaces an unmatched earlier one; an
// end with no pending start falls back to its own timestamp, yielding a
// zero-duration entry. The end event's duration field, when present, wins
// over the computed ts delta.
func BuildTimeline(events []trace.Event) []TimelineEntry {
	starts := make(map[string]trace.Event)
	var timeline []TimelineEntry
	for _, ev := range events {
		switch ev.Type() {
		case "test_start":
			starts[ev.Name()] = ev
		case "test_end":
			name := ev.Name()
			startTs := ev.Ts()
			if start, ok := starts[name]; ok {
				startTs = start.Ts()
				delete(starts, name)
			}
			timeline = append(timeline, TimelineEntry{
				ID:       name,
				Tier:     ev.Str("tier", "?"),
				Start:    startTs,
				End:      ev.Ts(),
				Duration: ev.Num("duration", ev.Ts()-startTs),
				Result:   ev.Str("result", "?"),
			})
		}
	}
	return timeline
}

// BuildChaosEvents extracts chaos_apply and chaos_clear events. The chaos
// kind comes from type_param when present; older traces reuse the event
// type itself.
func BuildChaosEvents(events []trace.Event) []ChaosEvent {
	var chaos []ChaosEvent
	for _, ev := range events {
		t := ev.Type()
		if t != "chaos_apply" && t != "chaos_clear" {
			continue
		}
		chaos = append(chaos, ChaosEvent{
			Ts:     ev.Ts(),
			Action: t,
			Node:   ev.Name(),
			Kind:   ev.Str("type_param", t),
			Params: ev.Str("params", ""),
			Tier:   ev.Str("tier", "?"),
		})
	}
	return chaos
}

// reserved fields are lifted into DataPlaneMetric itself; everything else
// passes through Extra.
var reservedFields = map[string]bool{
	"ts":   true,
	"type": true,
	"name": true,
	"tier": true,
}

// BuildDataPlaneMetrics extracts every event whose type starts with "data_".
func BuildDataPlaneMetrics(events []trace.Event) []DataPlaneMetric {
	var metrics []DataPlaneMetric
	for _, ev := range events {
		if !strings.HasPrefix(ev.Type(), "data_") {
			continue
		}
		extra := make(map[string]any)
		for k, v := range ev {
			if !reservedFields[k] {
				extra[k] = v
			}
		}
		metrics = append(metrics, DataPlaneMetric{
			Ts:    ev.Ts(),
			Type:  ev.Type(),
			Name:  ev.Name(),
			Tier:  ev.Str("tier", "?"),
			Extra: extra,
		})
	}
	return metrics
}

// BuildTierSummary pairs tier_start and tier_end events, with the same
// unmatched-end fallback as BuildTimeline. The expected test count is read
// from the start event; without a start it is unknown.
func BuildTierSummary(events []trace.Event) []TierSummary {
	starts := make(map[string]trace.Event)
	var tiers []TierSummary
	for _, ev := range events {
		switch ev.Type() {
		case "tier_start":
			starts[ev.Name()] = ev
		case "tier_end":
			name := ev.Name()
			startTs := ev.Ts()
			tests := "?"
			if start, ok := starts[name]; ok {
				startTs = start.Ts()
				tests = start.Str("tests", "?")
				delete(starts, name)
			}
			tiers = append(tiers, TierSummary{
				Name:     name,
				Start:    startTs,
				End:      ev.Ts(),
				Duration: ev.Ts() - startTs,
				Tests:    tests,
			})
		}
	}
	return tiers
}
