package editor

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/x/ansi"
	"github.com/muesli/reflow/truncate"

	"github.com/iw2rmb/tilde/buffer"
)

const fillerLine = "~"

// renderText produces one string per viewport row: the document row clipped
// to the viewport's clusters and then to its cell width,
// a "~" filler past the end, or the welcome banner on an empty document.
func renderText(doc *buffer.Document, c *Controller, p buffer.Palette, banner string) []string {
	width, height := c.Viewport()
	off := c.Offset()
	bannerRow := -1
	if doc.IsEmpty() && banner != "" {
		bannerRow = height / 3
	}

	out := make([]string, 0, height)
	for i := 0; i < height; i++ {
		if row, ok := doc.Row(off.Row + i); ok {
			out = append(out, ansi.Truncate(row.Render(off.Col, off.Col+width, p), width, ""))
			continue
		}
		if i == bannerRow {
			out = append(out, welcomeLine(banner, width))
			continue
		}
		out = append(out, fillerLine)
	}
	return out
}

// welcomeLine centers msg behind a leading "~" and truncates it to width.
func welcomeLine(msg string, width int) string {
	padding := maxInt(width-ansi.StringWidth(msg), 0) / 2
	line := fillerLine + strings.Repeat(" ", maxInt(padding-1, 0)) + msg
	return truncate.String(line, uint(maxInt(width, 0)))
}

// Banner is the welcome text shown on an empty document.
func Banner(version string) string {
	if version == "" {
		return "Tilde editor"
	}
	return fmt.Sprintf("Tilde editor -- version %s", version)
}

// cursorCell maps the cursor to screen cells within the text area. The column
// is the cell width of the rendered clusters between the horizontal offset
// and the cursor.
func cursorCell(doc *buffer.Document, c *Controller) (x, y int) {
	cur, off := c.Cursor(), c.Offset()
	return doc.CellWidth(cur.Row, off.Col, cur.Col), cur.Row - off.Row
}
