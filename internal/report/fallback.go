package report

import (
	"github.com/ashita-ai/kiroku/internal/forms"
	"github.com/ashita-ai/kiroku/internal/jsonv"
)

// FallbackTextField holds the plain-text response in a synthesized output.
const FallbackTextField = "text"

// Fallback synthesizes a structured output for a run whose response held
// nothing JSON-shaped: the request's form, if any, and the plain text.
func Fallback(request jsonv.Value, text string) jsonv.Object {
	out := jsonv.NewObject()
	if form, _, ok := forms.Locate(forms.RequestObject(request)); ok {
		out.Set("form", jsonv.FromObject(form))
	}
	if text != "" {
		out.Set(FallbackTextField, jsonv.String(text))
	}
	return out
}
