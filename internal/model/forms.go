package model

// Form snapshots are intake forms a human filled before the run. Fields are
// copied verbatim when present with the expected type and left empty
// otherwise; nothing is synthesized.

// CampaignForm is the campaign/marketing intake form.
type CampaignForm struct {
	Brand     string   `json:"brand,omitempty"`
	Product   string   `json:"product,omitempty"`
	Objective string   `json:"objective,omitempty"`
	Audience  string   `json:"audience,omitempty"`
	Budget    string   `json:"budget,omitempty"`
	Period    string   `json:"period,omitempty"`
	Tone      string   `json:"tone,omitempty"`
	Notes     string   `json:"notes,omitempty"`
	Channels  []string `json:"channels,omitempty"`
	KPIs      []string `json:"kpis,omitempty"`
}

// IsZero reports whether no field was recovered.
func (f CampaignForm) IsZero() bool {
	return f.Brand == "" && f.Product == "" && f.Objective == "" && f.Audience == "" &&
		f.Budget == "" && f.Period == "" && f.Tone == "" && f.Notes == "" &&
		len(f.Channels) == 0 && len(f.KPIs) == 0
}

// PitchForm is the investor/sales pitch intake form.
type PitchForm struct {
	Company       string   `json:"company,omitempty"`
	Sector        string   `json:"sector,omitempty"`
	Problem       string   `json:"problem,omitempty"`
	Solution      string   `json:"solution,omitempty"`
	Market        string   `json:"market,omitempty"`
	BusinessModel string   `json:"business_model,omitempty"`
	Traction      string   `json:"traction,omitempty"`
	Ask           string   `json:"ask,omitempty"`
	Team          []string `json:"team,omitempty"`
	Competitors   []string `json:"competitors,omitempty"`
}

// IsZero reports whether no field was recovered.
func (f PitchForm) IsZero() bool {
	return f.Company == "" && f.Sector == "" && f.Problem == "" && f.Solution == "" &&
		f.Market == "" && f.BusinessModel == "" && f.Traction == "" && f.Ask == "" &&
		len(f.Team) == 0 && len(f.Competitors) == 0
}

// JourneyForm is the customer-journey intake form.
type JourneyForm struct {
	Persona     string   `json:"persona,omitempty"`
	Product     string   `json:"product,omitempty"`
	Segment     string   `json:"segment,omitempty"`
	Channel     string   `json:"channel,omitempty"`
	Goal        string   `json:"goal,omitempty"`
	Stages      []string `json:"stages,omitempty"`
	Touchpoints []string `json:"touchpoints,omitempty"`
	PainPoints  []string `json:"pain_points,omitempty"`
}

// IsZero reports whether no field was recovered.
func (f JourneyForm) IsZero() bool {
	return f.Persona == "" && f.Product == "" && f.Segment == "" && f.Channel == "" &&
		f.Goal == "" && len(f.Stages) == 0 && len(f.Touchpoints) == 0 && len(f.PainPoints) == 0
}

// FormSet bundles the three snapshots recovered for one run.
type FormSet struct {
	Campaign CampaignForm `json:"campaign"`
	Pitch    PitchForm    `json:"pitch"`
	Journey  JourneyForm  `json:"journey"`
}
