package report

import (
	"context"
	"io"

	"github.com/a-h/templ"
)

// text renders caller-supplied text. Every string that did not originate in
// this package reaches the document through here.
func text(s string) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		_, err := io.WriteString(w, sanitize(s))
		return err
	})
}

// static renders markup owned by this package.
func static(markup string) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		_, err := io.WriteString(w, markup)
		return err
	})
}

// el renders an element. Attribute names and values are escaped by templ;
// tag names are always literals.
func el(tag string, attrs templ.Attributes, children ...templ.Component) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if _, err := io.WriteString(w, "<"+tag); err != nil {
			return err
		}
		if err := templ.RenderAttributes(ctx, w, attrs); err != nil {
			return err
		}
		if _, err := io.WriteString(w, ">"); err != nil {
			return err
		}
		for _, c := range children {
			if err := c.Render(ctx, w); err != nil {
				return err
			}
		}
		_, err := io.WriteString(w, "</"+tag+">")
		return err
	})
}

func class(name string) templ.Attributes {
	return templ.Attributes{"class": name}
}

// list renders items as <ul> entries.
func list(cls string, items []string) templ.Component {
	lis := make([]templ.Component, 0, len(items))
	for _, item := range items {
		lis = append(lis, el("li", nil, text(item)))
	}
	return el("ul", class(cls), lis...)
}

// fact is one label/value pair of a definition list.
type fact struct {
	Label string
	Value string
}

func facts(cls string, fs []fact) templ.Component {
	items := make([]templ.Component, 0, len(fs)*2)
	for _, f := range fs {
		items = append(items, el("dt", nil, text(f.Label)), el("dd", nil, text(f.Value)))
	}
	return el("dl", class(cls), items...)
}
