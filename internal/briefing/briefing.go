// Package briefing parses the markdown briefing an agent attaches to its
// output into titled sections, paragraphs, bullets, and timeline rows.
package briefing

import "strings"

// DefaultSection holds lines that appear before the first header.
const DefaultSection = "Content"

// Sentinel lines that wrap channel detail blocks. They break paragraphs and
// are otherwise dropped.
const (
	detailsOpen  = "<details>"
	detailsClose = "</details>"
)

// Section is one "## " block of a briefing.
type Section struct {
	Title string
	Lines []string
}

// Content is the prose of a section, split into paragraphs and bullets.
type Content struct {
	Paragraphs []string
	Bullets    []string
}

// TimelineRow is one row of a period/activity/description table.
type TimelineRow struct {
	Period      string `json:"period"`
	Activity    string `json:"activity"`
	Description string `json:"description"`
}

// Parse splits a briefing into sections in document order. Lines before
// the first header go to DefaultSection, which is omitted when it holds
// nothing but blank lines.
func Parse(markdown string) []Section {
	if strings.TrimSpace(markdown) == "" {
		return nil
	}
	var sections []Section
	cur := Section{Title: DefaultSection}
	for _, line := range strings.Split(strings.ReplaceAll(markdown, "\r\n", "\n"), "\n") {
		if title, ok := header(line); ok {
			if cur.Title != DefaultSection || !blank(cur.Lines) {
				sections = append(sections, cur)
			}
			cur = Section{Title: title}
			continue
		}
		cur.Lines = append(cur.Lines, line)
	}
	if cur.Title != DefaultSection || !blank(cur.Lines) {
		sections = append(sections, cur)
	}
	return sections
}

func header(line string) (string, bool) {
	if !strings.HasPrefix(line, "## ") {
		return "", false
	}
	return strings.TrimSpace(line[3:]), true
}

func blank(lines []string) bool {
	for _, l := range lines {
		if strings.TrimSpace(l) != "" {
			return false
		}
	}
	return true
}

// Split separates a section's lines into running paragraphs and bullets.
// Table rows are left to Timeline.
func Split(lines []string) Content {
	var c Content
	var buf []string
	flush := func() {
		if len(buf) > 0 {
			c.Paragraphs = append(c.Paragraphs, strings.Join(buf, " "))
			buf = nil
		}
	}
	for _, raw := range lines {
		line := strings.TrimSpace(raw)
		switch {
		case line == "" || line == detailsOpen || line == detailsClose:
			flush()
		case strings.HasPrefix(line, "- ") || strings.HasPrefix(line, "* "):
			if item := strings.TrimSpace(line[2:]); item != "" {
				c.Bullets = append(c.Bullets, item)
			}
		case strings.HasPrefix(line, "|"):
		default:
			buf = append(buf, line)
		}
	}
	flush()
	return c
}

// Timeline extracts rows of at least three cells from the pipe tables in
// lines. Separator rows are dropped and extra cells are ignored.
func Timeline(lines []string) []TimelineRow {
	var rows []TimelineRow
	for _, raw := range lines {
		line := strings.TrimSpace(raw)
		if !strings.HasPrefix(line, "|") || strings.Contains(line, "---") {
			continue
		}
		var cells []string
		for _, cell := range strings.Split(line, "|") {
			if cell = strings.TrimSpace(cell); cell != "" {
				cells = append(cells, cell)
			}
		}
		if len(cells) < 3 {
			continue
		}
		rows = append(rows, TimelineRow{Period: cells[0], Activity: cells[1], Description: cells[2]})
	}
	return rows
}

// Find returns the first section whose title contains any keyword,
// case-insensitively.
func Find(sections []Section, keywords ...string) (Section, bool) {
	for _, s := range sections {
		title := strings.ToLower(s.Title)
		for _, k := range keywords {
			if strings.Contains(title, k) {
				return s, true
			}
		}
	}
	return Section{}, false
}

// Keyword sets for the sections the report looks up.
var (
	SummaryKeywords  = []string{"summary", "resumo"}
	TimelineKeywords = []string{"timeline", "cronograma"}
	InsightKeywords  = []string{"insight"}
)
