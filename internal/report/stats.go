package report

import (
	"fmt"
	"strconv"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/ashita-ai/kiroku/internal/jsonv"
	"github.com/ashita-ai/kiroku/internal/ranking"
)

// Usage is the token accounting reported by the agent.
type Usage struct {
	Prompt     *int64
	Completion *int64
	Total      *int64
	Model      string
}

// Memory is the agent memory summary.
type Memory struct {
	ShortTerm     *int64
	LongTerm      *int64
	VectorMatches *int64
	Cursor        string
}

// Diagnostics describes how much of the prior run space was explored.
type Diagnostics struct {
	Explored *int64
	Total    *int64
	Pct      *float64
}

// UsageOf reads the usage block of a structured output.
func UsageOf(structured jsonv.Object) Usage {
	u := structured.Lookup("usage")
	out := Usage{
		Prompt:     count(u.Get("prompt_tokens")),
		Completion: count(u.Get("completion_tokens")),
		Total:      count(u.Get("total_tokens")),
	}
	out.Model, _ = u.Get("model").AsString()
	if out.Model == "" {
		out.Model, _ = structured.Lookup("model").AsString()
	}
	if out.Total == nil && out.Prompt != nil && out.Completion != nil {
		if total := *out.Prompt + *out.Completion; total >= 0 {
			out.Total = &total
		}
	}
	return out
}

// MemoryOf reads the memory block of a structured output.
func MemoryOf(structured jsonv.Object) Memory {
	m := structured.Lookup(ranking.MemoryField)
	out := Memory{
		ShortTerm: count(m.Get("short_term")),
		LongTerm:  count(m.Get("long_term")),
	}
	vm := m.Get("vector_matches")
	if items, ok := vm.AsArray(); ok {
		n := int64(len(items))
		out.VectorMatches = &n
	} else {
		out.VectorMatches = count(vm)
	}
	switch c := m.Get("cursor"); c.Kind() {
	case jsonv.KindString:
		out.Cursor, _ = c.AsString()
	case jsonv.KindNumber:
		out.Cursor = jsonv.Compact(c)
	}
	return out
}

// DiagnosticsOf reads the diagnostic block of a structured output.
func DiagnosticsOf(structured jsonv.Object) Diagnostics {
	d := structured.Lookup("diagnostico")
	if !d.IsDefined() {
		d = structured.Lookup("diagnostics")
	}
	out := Diagnostics{
		Explored: count(d.Get("explored")),
		Total:    count(d.Get("total")),
	}
	if pct, ok := d.Get("exploration_pct").AsNumber(); ok {
		out.Pct = &pct
	} else if out.Explored != nil && out.Total != nil && *out.Total > 0 {
		pct := float64(*out.Explored) / float64(*out.Total) * 100
		out.Pct = &pct
	}
	return out
}

// AgentStateKeys returns the number of top-level keys in the persisted agent
// state, and whether a state object exists.
func AgentStateKeys(structured jsonv.Object) (int, bool) {
	o, ok := structured.Lookup("agent_state").AsObject()
	if !ok {
		return 0, false
	}
	return o.Len(), true
}

func count(v jsonv.Value) *int64 {
	n, ok := v.AsNumber()
	if !ok || n < 0 {
		return nil
	}
	c, ok := ranking.RoundInt(n)
	if !ok {
		return nil
	}
	return &c
}

func countLabel(n *int64) string {
	if n == nil {
		return ranking.Placeholder
	}
	return humanize.Comma(*n)
}

func pctLabel(p *float64) string {
	if p == nil {
		return ranking.Placeholder
	}
	return strconv.FormatFloat(*p, 'f', 0, 64) + "%"
}

func costLabel(cents *int64) string {
	if cents == nil {
		return ranking.Placeholder
	}
	c := *cents
	sign, u := "", uint64(c)
	if c < 0 {
		sign, u = "-", uint64(-(c+1))+1
	}
	return fmt.Sprintf("%s$%s.%02d", sign, humanize.Comma(int64(u/100)), u%100)
}

func durationLabel(ms int64, ok bool) string {
	if !ok {
		return ranking.Placeholder
	}
	return (time.Duration(ms) * time.Millisecond).String()
}

func textLabel(s string) string {
	if s == "" {
		return ranking.Placeholder
	}
	return s
}
