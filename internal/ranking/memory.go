package ranking

import "github.com/ashita-ai/kiroku/internal/jsonv"

// Prior maps recommendation keys to the score they had in a previous run.
type Prior map[string]float64

// MemoryField names the memory block inside a structured output.
const MemoryField = "memory"

// PriorFrom reads the prior recommendation-state snapshot from the memory
// block of a structured output. It returns nil when there is none.
//
// The snapshot is usually an object keyed by recommendation key. A list of
// {key, score} entries is accepted as well. Entries without a numeric score
// are skipped, so they yield no delta.
func PriorFrom(structured jsonv.Object) Prior {
	mem := structured.Lookup(MemoryField)
	var state jsonv.Value
	for _, name := range []string{"recommendation_state", "previous_state"} {
		if s := mem.Get(name); s.IsDefined() && !s.IsNull() {
			state = s
			break
		}
	}
	return priorOf(state)
}

func priorOf(state jsonv.Value) Prior {
	prior := Prior{}
	switch state.Kind() {
	case jsonv.KindObject:
		o, _ := state.AsObject()
		o.Each(func(key string, v jsonv.Value) bool {
			if score, ok := number(v, "score"); ok {
				prior[key] = score
			}
			return true
		})
	case jsonv.KindArray:
		items, _ := state.AsArray()
		for _, item := range items {
			key := first(item, "key")
			if score, ok := number(item, "score"); ok && key != "" {
				prior[key] = score
			}
		}
	default:
		return nil
	}
	return prior
}
