package report

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/a-h/templ"
)

// Component returns the document as a templ component.
func (d Document) Component() templ.Component {
	sections := make([]templ.Component, 0, len(d.Sections))
	for _, s := range d.Sections {
		sections = append(sections, d.section(s))
	}

	body := []templ.Component{
		d.header(),
		el("main", nil, sections...),
		el("footer", class("report-footer"), text(fmt.Sprintf("Generated by %s on %s",
			d.Branding.ProductName, d.GeneratedAt.UTC().Format(time.RFC3339)))),
	}
	bodyAttrs := templ.Attributes{
		"class":         "theme-" + d.Theme.Name + " mode-" + string(d.Mode),
		"data-filename": FileName(d.RunID, "html"),
	}
	if d.Mode == ModeEditable {
		body = append(body, static(saveScript))
	}

	return templ.Join(
		static("<!DOCTYPE html>"),
		el("html", templ.Attributes{"lang": "en"},
			el("head", nil,
				static(`<meta charset="utf-8"><meta name="viewport" content="width=device-width, initial-scale=1">`),
				el("title", nil, text(d.documentTitle())),
				el("style", nil, static(stylesheet(d.Theme))),
			),
			el("body", bodyAttrs, body...),
		),
	)
}

// HTML renders the complete document.
func (d Document) HTML() string {
	var b strings.Builder
	// strings.Builder writes never fail, so neither does rendering.
	_ = d.Component().Render(context.Background(), &b)
	return b.String()
}

func (d Document) documentTitle() string {
	if d.RunID == "" {
		return d.Title
	}
	return d.Title + " · " + d.RunID
}

// section wraps one section. The mode only changes the wrapper attributes.
func (d Document) section(s Section) templ.Component {
	attrs := templ.Attributes{
		"id":    s.ID,
		"class": "section section-" + s.ID,
	}
	if d.Mode == ModeEditable {
		attrs["contenteditable"] = "true"
		attrs["data-editable"] = "true"
	}
	return el("section", attrs, el("h2", nil, text(s.Heading)), s.Body)
}

func (d Document) header() templ.Component {
	sub := d.Agent
	if d.RunID != "" {
		sub += " · run " + d.RunID
	}
	parts := []templ.Component{
		el("div", class("kicker"), text(d.Theme.Kicker)),
		el("h1", nil, text(d.Title)),
		el("p", class("subtitle"), text(sub)),
	}
	if d.Status != "" {
		parts = append(parts, el("span", class("status status-"+statusClass(d.Status)), text(d.Status)))
	}
	if d.Mode == ModeEditable {
		parts = append(parts, static(`<button type="button" id="save-report">Save edits</button>`))
	}
	return el("header", class("report-header"), parts...)
}

// statusClass maps a status to a class suffix. Unknown statuses share one.
func statusClass(status string) string {
	switch status {
	case "pending", "running", "success", "error", "blocked":
		return status
	}
	return "other"
}

// FileName builds a download file name from a run id. Characters outside
// [A-Za-z0-9_-] are replaced.
func FileName(runID, ext string) string {
	var b strings.Builder
	b.WriteString("report")
	if runID != "" {
		b.WriteByte('-')
		for _, r := range runID {
			switch {
			case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
				b.WriteRune(r)
			default:
				b.WriteByte('_')
			}
		}
	}
	return b.String() + "." + ext
}

func stylesheet(t Theme) string {
	return fmt.Sprintf(":root{--accent:%s;--accent-soft:%s;--ink:%s}", t.Accent, t.AccentSoft, t.Ink) + baseCSS
}

const baseCSS = `
body{font-family:-apple-system,BlinkMacSystemFont,"Segoe UI",Roboto,sans-serif;color:var(--ink);margin:0;background:#f8f9fa}
main{max-width:960px;margin:0 auto;padding:0 24px 48px}
.report-header{background:var(--accent);color:#fff;padding:32px 24px;margin-bottom:24px}
.report-header h1{margin:4px 0}
.kicker{text-transform:uppercase;letter-spacing:.08em;font-size:12px;opacity:.85}
.subtitle{margin:0;opacity:.9}
.status{display:inline-block;margin-top:8px;padding:2px 10px;border-radius:12px;background:rgba(255,255,255,.2);font-size:12px}
.section{background:#fff;border-radius:8px;padding:16px 24px;margin-bottom:16px;box-shadow:0 1px 2px rgba(0,0,0,.06)}
.section h2{color:var(--accent);font-size:18px}
.metrics{display:grid;grid-template-columns:repeat(auto-fill,minmax(160px,1fr));gap:12px}
.metric{background:var(--accent-soft);border-radius:6px;padding:10px}
.metric-label{display:block;font-size:12px;opacity:.7}
.metric-value{display:block;font-size:18px;font-weight:600}
table{width:100%;border-collapse:collapse}
th,td{text-align:left;padding:8px;border-bottom:1px solid #e9ecef;vertical-align:top}
tr.critical td:first-child{border-left:4px solid #e03131}
.note,.next-step{font-size:13px;opacity:.8}
.delta-up{color:#2f9e44}
.delta-down{color:#e03131}
.delta-flat{color:#868e96}
dl{display:grid;grid-template-columns:max-content 1fr;gap:4px 16px}
dt{font-weight:600}
dd{margin:0}
pre{white-space:pre-wrap;background:#f1f3f5;padding:12px;border-radius:6px}
.cta-button{display:inline-block;background:var(--accent);color:#fff;padding:8px 16px;border-radius:6px;text-decoration:none}
.report-footer{text-align:center;font-size:12px;opacity:.6;padding:24px}
[data-editable]{outline:1px dashed var(--accent)}
#save-report{margin-top:12px}
@media print{body{background:#fff}.section{box-shadow:none}#save-report{display:none}}
`

const saveScript = `<script data-save>
document.getElementById('save-report').addEventListener('click', function () {
  var doc = document.documentElement.cloneNode(true);
  doc.querySelectorAll('[contenteditable]').forEach(function (el) {
    el.removeAttribute('contenteditable');
    el.removeAttribute('data-editable');
  });
  ['#save-report', 'script[data-save]'].forEach(function (sel) {
    var node = doc.querySelector(sel);
    if (node) node.remove();
  });
  var blob = new Blob(['<!DOCTYPE html>\n' + doc.outerHTML], {type: 'text/html'});
  var link = document.createElement('a');
  link.href = URL.createObjectURL(blob);
  link.download = document.body.dataset.filename;
  link.click();
  URL.revokeObjectURL(link.href);
});
</script>`
