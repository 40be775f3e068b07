package output

import (
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
)

// FormatHeader returns a markdown header of the given level.
func FormatHeader(level int, title string) string {
	if level < 1 {
		level = 1
	}
	return strings.Repeat("#", level) + " " + title
}

// FormatKeyValue returns a markdown list item "- **key**: value".
func FormatKeyValue(key, value string) string {
	return "- **" + key + "**: " + value
}

// Table writes rows under header: a box table in text mode, a markdown table
// otherwise. JSON callers should use JSON instead.
func (r *Renderer) Table(header []string, rows [][]string) {
	t := table.NewWriter()

	h := make(table.Row, len(header))
	for i, col := range header {
		h[i] = col
	}
	t.AppendHeader(h)

	for _, row := range rows {
		tr := make(table.Row, len(row))
		for i, cell := range row {
			tr[i] = cell
		}
		t.AppendRow(tr)
	}

	if r.EffectiveMode() == ModeText {
		if r.colorEnabled() {
			t.SetStyle(table.StyleRounded)
		} else {
			t.SetStyle(table.StyleLight)
		}
		r.Println(t.Render())
		return
	}
	r.Println(t.RenderMarkdown())
}
