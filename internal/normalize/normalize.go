// Package normalize turns agent responses of unknown shape into a structured
// object plus a text rendering.
//
// Responses arrive as objects, as JSON embedded in fenced or free text, or
// as prose. Normalize never fails: every input yields the best available
// view, possibly with no structured part.
package normalize

import "github.com/ashita-ai/kiroku/internal/jsonv"

// OutputTextField names the member holding a nested, still-unparsed response.
const OutputTextField = "output_text"

// View is the normalized form of a response.
type View struct {
	// Structured is the recovered object. The zero Object means nothing
	// JSON-shaped could be recovered.
	Structured jsonv.Object
	// Text is a human-readable rendering of the response.
	Text string
}

// HasStructured reports whether the view carries any structured members.
func (v View) HasStructured() bool { return v.Structured.Len() > 0 }

// Normalize converts a raw response into a View.
func Normalize(v jsonv.Value) View {
	switch v.Kind() {
	case jsonv.KindUndefined, jsonv.KindNull:
		return View{Structured: jsonv.NewObject()}
	case jsonv.KindString:
		s, _ := v.AsString()
		return normalizeString(s)
	case jsonv.KindObject:
		o, _ := v.AsObject()
		return normalizeObject(o)
	case jsonv.KindArray:
		view := View{Text: jsonv.Pretty(v)}
		if m, ok := Locate(v); ok {
			view.Structured = m.Clone()
		}
		return view
	default:
		return View{Text: jsonv.Compact(v)}
	}
}

func normalizeString(s string) View {
	o, ok := ExtractObject(s)
	if !ok {
		return View{Text: s}
	}
	return normalizeObject(o)
}

func normalizeObject(o jsonv.Object) View {
	if nested, ok := o.Get(OutputTextField); ok && nested.IsDefined() && !nested.IsNull() {
		inner := Normalize(nested)
		text := inner.Text
		if text == "" {
			text = jsonv.Pretty(jsonv.FromObject(o))
		}
		return View{Structured: jsonv.Merge(inner.Structured, o), Text: text}
	}
	view := View{Structured: o.Clone(), Text: jsonv.Pretty(jsonv.FromObject(o))}
	if payload, ok := Locate(jsonv.FromObject(o)); ok {
		view.Structured = jsonv.Merge(o, payload)
	}
	return view
}
