package normalize

import "github.com/ashita-ai/kiroku/internal/jsonv"

// MaxDepth is the deepest level the locator visits. The entry value is at
// depth 0; anything past MaxDepth is treated as no match.
const MaxDepth = 6

// RecommendationFields are the accepted names of the recommendation list,
// in lookup order.
var RecommendationFields = []string{"recomendacoes", "recommendations"}

// Recommendations returns the recommendation list carried directly by o.
// The first field holding a list wins.
func Recommendations(o jsonv.Object) ([]jsonv.Value, bool) {
	for _, name := range RecommendationFields {
		if items, ok := o.Lookup(name).AsArray(); ok {
			return items, true
		}
	}
	return nil, false
}

// Locate searches v for the object that carries a recommendation list.
// The search is depth first and stops at the first match.
func Locate(v jsonv.Value) (jsonv.Object, bool) {
	return locate(v, 0)
}

// visited are the keys the object rules always look at before the fallback
// scan. "outputs" and "data" are only skipped by the scan when they are lists.
var visited = map[string]bool{"result": true, "metadata": true}

func locate(v jsonv.Value, depth int) (jsonv.Object, bool) {
	if depth > MaxDepth {
		return jsonv.Object{}, false
	}
	switch v.Kind() {
	case jsonv.KindObject:
		o, _ := v.AsObject()
		return locateObject(o, depth)
	case jsonv.KindArray:
		items, _ := v.AsArray()
		return locateEach(items, depth+1)
	case jsonv.KindString:
		s, _ := v.AsString()
		if o, ok := ExtractObject(s); ok {
			return locate(jsonv.FromObject(o), depth+1)
		}
	}
	return jsonv.Object{}, false
}

func locateObject(o jsonv.Object, depth int) (jsonv.Object, bool) {
	if _, ok := Recommendations(o); ok {
		return o, true
	}
	if opt, ok := o.Lookup("optimized").AsObject(); ok {
		if _, ok := Recommendations(opt); ok {
			return opt, true
		}
	}
	outputs, outputsIsList := o.Lookup("outputs").AsArray()
	if outputsIsList {
		for _, entry := range outputs {
			target := entry
			if data := entry.Get("data"); data.IsDefined() {
				target = data
			}
			if m, ok := locate(target, depth+1); ok {
				return m, true
			}
		}
	}
	for _, key := range []string{"result", "metadata"} {
		if sub, ok := o.Get(key); ok {
			if m, ok := locate(sub, depth+1); ok {
				return m, true
			}
		}
	}
	data, dataIsList := o.Lookup("data").AsArray()
	if dataIsList {
		if m, ok := locateEach(data, depth+1); ok {
			return m, true
		}
	}

	var match jsonv.Object
	found := false
	o.Each(func(key string, sub jsonv.Value) bool {
		if visited[key] || key == "outputs" && outputsIsList || key == "data" && dataIsList {
			return true
		}
		match, found = locate(sub, depth+1)
		return !found
	})
	return match, found
}

func locateEach(items []jsonv.Value, depth int) (jsonv.Object, bool) {
	for _, item := range items {
		if m, ok := locate(item, depth); ok {
			return m, true
		}
	}
	return jsonv.Object{}, false
}
