// Package trace loads NDJSON trace files emitted by the testlab harness.
//
// A trace is one JSON object per line. The schema is open: every event has
// a type, a name, and a timestamp, and may carry arbitrary extra fields
// depending on the emitter. Fields are read defensively with defaults so a
// partially written or heterogeneous trace never fails to load.
package trace

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Event is a single trace record. Values keep the types encoding/json
// assigns (string, float64, bool, nested maps/slices).
type Event map[string]any

// Type returns the event type, or "" when absent.
func (e Event) Type() string { return e.Str("type", "") }

// Name returns the event name, or "" when absent.
func (e Event) Name() string { return e.Str("name", "") }

// Ts returns the event timestamp in seconds, or 0 when absent or non-numeric.
func (e Event) Ts() float64 { return e.Num("ts", 0) }

// Str returns the field as a display string, or def when the field is
// absent. Numeric values are formatted without a trailing fraction when
// they are whole, matching how the shell harness writes them.
func (e Event) Str(key, def string) string {
	v, ok := e[key]
	if !ok || v == nil {
		return def
	}
	return FormatValue(v)
}

// Num returns the field as a float64, or def when absent or not a number.
// Numeric strings are accepted because emit_event passes everything as text.
func (e Event) Num(key string, def float64) float64 {
	v, ok := e[key]
	if !ok {
		return def
	}
	switch n := v.(type) {
	case float64:
		return n
	case string:
		if f, err := strconv.ParseFloat(n, 64); err == nil {
			return f
		}
	}
	return def
}

// Has reports whether the field is present.
func (e Event) Has(key string) bool {
	_, ok := e[key]
	return ok
}

// FormatValue renders an arbitrary decoded JSON value for display.
func FormatValue(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	case nil:
		return ""
	default:
		b, err := json.Marshal(t)
		if err != nil {
			return fmt.Sprintf("%v", t)
		}
		return string(b)
	}
}

// maxLineBytes bounds a single trace line. Data-plane events can embed
// sizeable payload summaries, so this is well above scanner's default.
const maxLineBytes = 1 << 20

// Load reads NDJSON events from path, in file order. Blank lines are
// skipped and lines that do not parse as a JSON object are silently
// dropped: a trace truncated by a crashed run is still usable.
func Load(path string) ([]Event, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open trace: %w", err)
	}
	defer f.Close()

	var events []Event
	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 64*1024), maxLineBytes)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		var ev Event
		if err := json.Unmarshal([]byte(line), &ev); err != nil {
			continue
		}
		events = append(events, ev)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read trace: %w", err)
	}
	return events, nil
}
