package report

import "github.com/a-h/templ"

// sanitize is the only route from caller-supplied text to markup. Text is
// escaped, never stripped, so literal angle brackets survive as text.
func sanitize(s string) string {
	return templ.EscapeString(s)
}
