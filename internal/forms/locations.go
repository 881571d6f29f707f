package forms

import "github.com/ashita-ai/kiroku/internal/jsonv"

// Location is one candidate place for a form inside a source record.
type Location struct {
	Name string
	Find func(src jsonv.Object) jsonv.Object
}

// Locations lists the form locations in precedence order. The first one that
// yields a non-empty object wins; later locations are never merged in.
var Locations = []Location{
	{Name: "form", Find: at("form")},
	{Name: "params.form", Find: at("params", "form")},
	{Name: "plan[].params.form", Find: planForm},
	{Name: "metadata.form", Find: at("metadata", "form")},
	{Name: "self", Find: func(src jsonv.Object) jsonv.Object { return src }},
}

// Locate walks Locations over src and returns the winning object with the
// name of the location that held it. ok is false when every location came
// up empty.
func Locate(src jsonv.Object) (form jsonv.Object, where string, ok bool) {
	for _, l := range Locations {
		if o := l.Find(src); o.Len() > 0 {
			return o, l.Name, true
		}
	}
	return jsonv.Object{}, "", false
}

func at(keys ...string) func(jsonv.Object) jsonv.Object {
	return func(src jsonv.Object) jsonv.Object {
		o, _ := jsonv.FromObject(src).Path(keys...).AsObject()
		return o
	}
}

// planForm returns params.form of the first plan step that has one.
func planForm(src jsonv.Object) jsonv.Object {
	steps, _ := src.Lookup("plan").AsArray()
	for _, step := range steps {
		if o, ok := step.Path("params", "form").AsObject(); ok {
			return o
		}
	}
	return jsonv.Object{}
}
