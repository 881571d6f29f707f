package report

// Branding customizes the call-to-action and links blocks.
type Branding struct {
	ProductName string `yaml:"product_name" json:"product_name"`
	CTA         CTA    `yaml:"cta" json:"cta"`
	Links       []Link `yaml:"links" json:"links"`
}

// CTA is the call-to-action block.
type CTA struct {
	Title string `yaml:"title" json:"title"`
	Body  string `yaml:"body" json:"body"`
	Label string `yaml:"label" json:"label"`
	URL   string `yaml:"url" json:"url"`
}

// Link is one entry of the links block.
type Link struct {
	Label string `yaml:"label" json:"label"`
	URL   string `yaml:"url" json:"url"`
}

// DefaultBranding is used when no branding file is configured.
func DefaultBranding() Branding {
	return Branding{
		ProductName: "Kiroku",
		CTA: CTA{
			Title: "Put these recommendations to work",
			Body:  "Adopt the critical recommendations first, then re-run the agent to measure the change in scores.",
		},
	}
}

// withDefaults fills unset fields from DefaultBranding.
func (b Branding) withDefaults() Branding {
	def := DefaultBranding()
	if b.ProductName == "" {
		b.ProductName = def.ProductName
	}
	if b.CTA.Title == "" {
		b.CTA.Title = def.CTA.Title
	}
	if b.CTA.Body == "" {
		b.CTA.Body = def.CTA.Body
	}
	return b
}
