package report

import (
	"bytes"
	_ "embed"
	"fmt"
	"sort"
	"strings"
	"text/template"
	"time"

	"github.com/wgmesh/ci-tools/internal/config"
	"github.com/wgmesh/ci-tools/internal/trace"
)

//go:embed template.html
var reportTemplate string

var reportTmpl = template.Must(template.New("report").Parse(reportTemplate))

// emptyDocument is the whole-report fallback when the trace holds no
// completed tests.
const emptyDocument = "<html><body><h1>No test events found</h1></body></html>"

// defaultColors maps test results to badge/bar colors. Unknown results
// render gray rather than erroring.
var defaultColors = map[string]string{
	"PASS": "#22c55e",
	"FAIL": "#ef4444",
	"SKIP": "#eab308",
}

const unknownColor = "#6b7280"

type view struct {
	Title         string
	Generated     string
	Total         int
	Passed        int
	Failed        int
	Skipped       int
	TotalDuration string
	Bars          []barView
	Tiers         []tierRow
	Results       []resultRow
	DataPlane     []dataRow
	Chaos         []chaosRow
	ChaosCount    int
	EventCount    int
}

type barView struct {
	Label    string
	LeftPct  string
	WidthPct string
	Color    string
	Duration string
	Result   string
}

type resultRow struct {
	ID       string
	Tier     string
	Color    string
	Result   string
	Duration string
}

type tierRow struct {
	Name     string
	Tests    string
	Duration string
}

type dataRow struct {
	Type   string
	Name   string
	Tier   string
	Result string
	Detail string
}

type chaosRow struct {
	Time   string
	Tier   string
	Action string
	Node   string
	Params string
}

// Render generates the self-contained HTML report for a loaded trace.
// It is a pure function over the event list: no I/O, no external state.
// Trace content is trusted and rendered without escaping.
func Render(events []trace.Event, opts config.Report) string {
	timeline := BuildTimeline(events)
	if len(timeline) == 0 {
		return emptyDocument
	}
	chaos := BuildChaosEvents(events)
	metrics := BuildDataPlaneMetrics(events)
	tiers := BuildTierSummary(events)

	tMin := timeline[0].Start
	tMax := timeline[0].End
	for _, t := range timeline {
		tMin = min(tMin, t.Start, t.End)
		tMax = max(tMax, t.Start, t.End)
	}
	// Floor the window at one time unit so bar placement never divides
	// by zero when every event shares a timestamp.
	tRange := max(tMax-tMin, 1)

	colorFor := func(result string) string {
		if c, ok := opts.ResultColors[result]; ok {
			return c
		}
		if c, ok := defaultColors[result]; ok {
			return c
		}
		return unknownColor
	}

	v := view{
		Title:         opts.Title,
		Generated:     time.Now().UTC().Format("2006-01-02 15:04:05 UTC"),
		Total:         len(timeline),
		TotalDuration: FormatDuration(tRange),
		ChaosCount:    len(chaos),
		EventCount:    len(events),
	}

	for _, t := range timeline {
		switch t.Result {
		case "PASS":
			v.Passed++
		case "FAIL":
			v.Failed++
		case "SKIP":
			v.Skipped++
		}

		leftPct := (t.Start - tMin) / tRange * 100
		widthPct := max((t.End-t.Start)/tRange*100, opts.MinBarPct)
		v.Bars = append(v.Bars, barView{
			Label:    t.ID,
			LeftPct:  fmt.Sprintf("%.2f", leftPct),
			WidthPct: fmt.Sprintf("%.2f", widthPct),
			Color:    colorFor(t.Result),
			Duration: FormatDuration(t.Duration),
			Result:   t.Result,
		})
		v.Results = append(v.Results, resultRow{
			ID:       t.ID,
			Tier:     t.Tier,
			Color:    colorFor(t.Result),
			Result:   t.Result,
			Duration: FormatDuration(t.Duration),
		})
	}

	for _, t := range tiers {
		v.Tiers = append(v.Tiers, tierRow{
			Name:     t.Name,
			Tests:    t.Tests,
			Duration: FormatDuration(t.Duration),
		})
	}

	for _, m := range metrics {
		v.DataPlane = append(v.DataPlane, dataRow{
			Type:   m.Type,
			Name:   m.Name,
			Tier:   m.Tier,
			Result: metricResult(m.Extra),
			Detail: metricDetail(m.Extra),
		})
	}

	for _, c := range chaos {
		v.Chaos = append(v.Chaos, chaosRow{
			Time:   FormatDuration(c.Ts - tMin),
			Tier:   c.Tier,
			Action: c.Action,
			Node:   c.Node,
			Params: c.Params,
		})
	}

	var buf bytes.Buffer
	_ = reportTmpl.Execute(&buf, v)
	return buf.String()
}

// resultKeys are preferred for the data-plane Result column, in order.
var resultKeys = []string{"result", "mbps"}

func metricResult(extra map[string]any) string {
	for _, key := range resultKeys {
		if val, ok := extra[key]; ok {
			return trace.FormatValue(val)
		}
	}
	return "-"
}

// metricDetail renders every remaining passthrough field as key=value,
// sorted for a stable column regardless of map iteration order.
func metricDetail(extra map[string]any) string {
	keys := make([]string, 0, len(extra))
	for k := range extra {
		if k == "result" || k == "mbps" {
			continue
		}
		keys = append(keys, k)
	}
	if len(keys) == 0 {
		return "-"
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+"="+trace.FormatValue(extra[k]))
	}
	return strings.Join(parts, ", ")
}

// FormatDuration renders seconds as a compact human-readable string:
// 42s, 3m07s, 1h02m09s.
func FormatDuration(seconds float64) string {
	if seconds < 60 {
		return fmt.Sprintf("%.0fs", seconds)
	}
	total := int(seconds)
	m, s := total/60, total%60
	if m < 60 {
		return fmt.Sprintf("%dm%02ds", m, s)
	}
	h := m / 60
	m %= 60
	return fmt.Sprintf("%dh%02dm%02ds", h, m, s)
}
