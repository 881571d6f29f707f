// Package forms recovers intake-form snapshots from run payloads.
//
// Some agents echo the form back in their response, others only carry it in
// the request. Each extractor is therefore applied to the normalized
// response first and to the request second.
package forms

import (
	"github.com/ashita-ai/kiroku/internal/jsonv"
	"github.com/ashita-ai/kiroku/internal/model"
	"github.com/ashita-ai/kiroku/internal/normalize"
)

// Campaign reads the campaign form from src.
func Campaign(src jsonv.Object) model.CampaignForm {
	f, _, ok := Locate(src)
	if !ok {
		return model.CampaignForm{}
	}
	return model.CampaignForm{
		Brand:     str(f, "brand"),
		Product:   str(f, "product"),
		Objective: str(f, "objective"),
		Audience:  str(f, "audience"),
		Budget:    str(f, "budget"),
		Period:    str(f, "period"),
		Tone:      str(f, "tone"),
		Notes:     str(f, "notes"),
		Channels:  strs(f, "channels"),
		KPIs:      strs(f, "kpis"),
	}
}

// Pitch reads the pitch form from src.
func Pitch(src jsonv.Object) model.PitchForm {
	f, _, ok := Locate(src)
	if !ok {
		return model.PitchForm{}
	}
	return model.PitchForm{
		Company:       str(f, "company"),
		Sector:        str(f, "sector"),
		Problem:       str(f, "problem"),
		Solution:      str(f, "solution"),
		Market:        str(f, "market"),
		BusinessModel: str(f, "business_model"),
		Traction:      str(f, "traction"),
		Ask:           str(f, "ask"),
		Team:          strs(f, "team"),
		Competitors:   strs(f, "competitors"),
	}
}

// Journey reads the customer-journey form from src.
func Journey(src jsonv.Object) model.JourneyForm {
	f, _, ok := Locate(src)
	if !ok {
		return model.JourneyForm{}
	}
	return model.JourneyForm{
		Persona:     str(f, "persona"),
		Product:     str(f, "product"),
		Segment:     str(f, "segment"),
		Channel:     str(f, "channel"),
		Goal:        str(f, "goal"),
		Stages:      strs(f, "stages"),
		Touchpoints: strs(f, "touchpoints"),
		PainPoints:  strs(f, "pain_points"),
	}
}

// Resolve applies read to the response-derived object and, only when that
// yields an empty form, to the request.
func Resolve[F interface{ IsZero() bool }](read func(jsonv.Object) F, structured jsonv.Object, request jsonv.Value) F {
	if f := read(structured); !f.IsZero() {
		return f
	}
	return read(RequestObject(request))
}

// ResolveAll recovers all three snapshots for one run.
func ResolveAll(structured jsonv.Object, request jsonv.Value) model.FormSet {
	return model.FormSet{
		Campaign: Resolve(Campaign, structured, request),
		Pitch:    Resolve(Pitch, structured, request),
		Journey:  Resolve(Journey, structured, request),
	}
}

// RequestObject returns the request payload as an object. Requests sent as
// text are searched for an embedded object.
func RequestObject(request jsonv.Value) jsonv.Object {
	if o, ok := request.AsObject(); ok {
		return o
	}
	if s, ok := request.AsString(); ok {
		if o, ok := normalize.ExtractObject(s); ok {
			return o
		}
	}
	return jsonv.Object{}
}

func str(o jsonv.Object, key string) string {
	s, _ := o.Lookup(key).AsString()
	return s
}

// strs reads a list of strings. A list holding anything else is dropped
// whole, the same as a scalar of the wrong type.
func strs(o jsonv.Object, key string) []string {
	items, ok := o.Lookup(key).AsArray()
	if !ok {
		return nil
	}
	var out []string
	for _, item := range items {
		s, ok := item.AsString()
		if !ok {
			return nil
		}
		out = append(out, s)
	}
	return out
}
