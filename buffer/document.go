package buffer

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// Document is the ordered list of rows being edited plus its modified flag.
//
// Read access is valid for rows [0, Len()); insert access additionally
// accepts Len(), the append position. Positions strictly past those bounds
// are programming errors and panic.
type Document struct {
	rows     []*Row
	name     string
	modified bool

	hl *Classifier
}

// New returns an empty document highlighted with DefaultClassifier.
func New() *Document {
	return &Document{hl: DefaultClassifier()}
}

// FromText builds one row per line of text. A trailing line terminator does
// not produce an extra empty row.
func FromText(text string) *Document {
	d := New()
	for _, line := range splitLines(text) {
		row := NewRow(line)
		row.Highlight(d.hl)
		d.rows = append(d.rows, row)
	}
	return d
}

// Open reads r to the end and builds the document from its lines.
func Open(r io.Reader) (*Document, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading document: %w", err)
	}
	return FromText(string(data)), nil
}

func splitLines(text string) []string {
	if text == "" {
		return nil
	}
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.TrimSuffix(text, "\n")
	lines := strings.Split(text, "\n")
	for i, l := range lines {
		lines[i] = strings.TrimSuffix(l, "\r")
	}
	return lines
}

func (d *Document) Len() int { return len(d.rows) }

func (d *Document) IsEmpty() bool { return len(d.rows) == 0 }

// Row returns row y, or ok=false when y is outside [0, Len()).
func (d *Document) Row(y int) (*Row, bool) {
	if y < 0 || y >= len(d.rows) {
		return nil, false
	}
	return d.rows[y], true
}

// RowLen returns the cluster length of row y, or 0 for absent rows.
func (d *Document) RowLen(y int) int {
	if row, ok := d.Row(y); ok {
		return row.Len()
	}
	return 0
}

// CellWidth returns the rendered cell width of clusters [start, end) of row
// y, or 0 for absent rows.
func (d *Document) CellWidth(y, start, end int) int {
	if row, ok := d.Row(y); ok {
		return row.Width(start, end)
	}
	return 0
}

// Name is the opaque persistence identity carried for the session.
func (d *Document) Name() string { return d.name }

func (d *Document) SetName(name string) { d.name = name }

func (d *Document) Modified() bool { return d.modified }

// MarkModified flags the document dirty again, e.g. when the sink failed
// after Persist already reported success.
func (d *Document) MarkModified() { d.modified = true }

// SetClassifier replaces the highlight policy and reclassifies every row.
func (d *Document) SetClassifier(c *Classifier) {
	d.hl = c
	for _, row := range d.rows {
		row.Highlight(c)
	}
}

// Lines returns the raw text of every row.
func (d *Document) Lines() []string {
	out := make([]string, len(d.rows))
	for i, row := range d.rows {
		out[i] = row.text
	}
	return out
}

// Text joins all rows with '\n'.
func (d *Document) Text() string {
	return strings.Join(d.Lines(), "\n")
}

// Insert puts the cluster g at p. A newline splits row p.Row at p.Col (or
// appends an empty row when p.Row == Len()).
func (d *Document) Insert(p Pos, g string) {
	d.checkInsertRow(p.Row)
	if g == "" {
		return
	}
	if g == "\n" || g == "\r\n" {
		d.insertNewline(p)
		d.modified = true
		return
	}

	if p.Row == len(d.rows) {
		row := NewRow(g)
		row.Highlight(d.hl)
		d.rows = append(d.rows, row)
	} else {
		row := d.rows[p.Row]
		row.Insert(p.Col, g)
		row.Highlight(d.hl)
	}
	d.modified = true
}

func (d *Document) insertNewline(p Pos) {
	if p.Row == len(d.rows) {
		d.rows = append(d.rows, NewRow(""))
		return
	}
	if p.Col < 0 {
		panic(fmt.Sprintf("buffer: newline at negative column %d", p.Col))
	}
	row := d.rows[p.Row]
	tail := row.SplitAt(p.Col)
	row.Highlight(d.hl)
	tail.Highlight(d.hl)
	d.insertRow(p.Row+1, tail)
}

// Delete removes the cluster at p. At the end of a row that has a successor
// the two rows are joined. The end of the last row and the append row are
// no-ops.
func (d *Document) Delete(p Pos) {
	d.checkInsertRow(p.Row)
	if p.Col < 0 {
		panic(fmt.Sprintf("buffer: delete at negative column %d", p.Col))
	}
	if p.Row == len(d.rows) {
		return
	}

	row := d.rows[p.Row]
	switch {
	case p.Col == row.Len():
		if p.Row+1 >= len(d.rows) {
			return
		}
		next := d.rows[p.Row+1]
		d.removeRow(p.Row + 1)
		row.Append(next)
	case p.Col > row.Len():
		return
	default:
		row.Delete(p.Col)
	}
	row.Highlight(d.hl)
	d.modified = true
}

// Persist writes every row followed by '\n'. The modified flag is cleared
// only when all bytes reached w.
func (d *Document) Persist(w io.Writer) error {
	bw := bufio.NewWriter(w)
	// bufio keeps the first write error and Flush returns it.
	for _, row := range d.rows {
		_, _ = bw.WriteString(row.text)
		_ = bw.WriteByte('\n')
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("persisting document: %w", err)
	}
	d.modified = false
	return nil
}

func (d *Document) insertRow(at int, row *Row) {
	d.rows = append(d.rows, nil)
	copy(d.rows[at+1:], d.rows[at:])
	d.rows[at] = row
}

func (d *Document) removeRow(at int) {
	copy(d.rows[at:], d.rows[at+1:])
	d.rows[len(d.rows)-1] = nil
	d.rows = d.rows[:len(d.rows)-1]
}

func (d *Document) checkInsertRow(y int) {
	if y < 0 || y > len(d.rows) {
		panic(fmt.Sprintf("buffer: row %d outside [0, %d]", y, len(d.rows)))
	}
}
