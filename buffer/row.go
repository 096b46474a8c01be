package buffer

import (
	"fmt"
	"strings"

	graphemeutil "github.com/iw2rmb/tilde/internal/grapheme"
)

// Row is one line of document text. Length is cached in clusters and is
// recomputed by every mutation before it returns.
type Row struct {
	text   string
	length int

	// classes is aligned with the clusters as of the last Highlight call and
	// may be stale after a mutation.
	classes []Class
}

func NewRow(text string) *Row {
	if strings.ContainsAny(text, "\r\n") {
		panic(fmt.Sprintf("buffer: row text contains a line break: %q", text))
	}
	return &Row{text: text, length: graphemeutil.Count(text)}
}

func (r *Row) Len() int { return r.length }

func (r *Row) Text() string { return r.text }

func (r *Row) IsEmpty() bool { return r.length == 0 }

// Classes returns the tags from the last highlight pass.
func (r *Row) Classes() []Class { return r.classes }

// Highlight reclassifies the row. A nil classifier clears the tags.
func (r *Row) Highlight(c *Classifier) {
	if c == nil {
		r.classes = nil
		return
	}
	r.classes = c.Classify(r.text)
}

// Insert splices g in before cluster at. Positions at or past the end append.
func (r *Row) Insert(at int, g string) {
	if at < 0 {
		panic(fmt.Sprintf("buffer: insert at negative column %d", at))
	}
	if strings.ContainsAny(g, "\r\n") {
		panic("buffer: line breaks are inserted through Document.Insert")
	}
	if at >= r.length {
		r.text += g
	} else {
		r.text = graphemeutil.Insert(r.text, at, g)
	}
	r.update()
}

// Delete removes the cluster at index at. Positions at or past the end are a
// no-op.
func (r *Row) Delete(at int) {
	if at < 0 {
		panic(fmt.Sprintf("buffer: delete at negative column %d", at))
	}
	if at >= r.length {
		return
	}
	r.text = graphemeutil.Remove(r.text, at)
	r.update()
}

// SplitAt truncates r to [0, at) and returns a new row holding [at, Len()).
func (r *Row) SplitAt(at int) *Row {
	at = clampInt(at, 0, r.length)
	head, tail := graphemeutil.SplitAt(r.text, at)
	r.text = head
	r.update()
	return &Row{text: tail, length: graphemeutil.Count(tail)}
}

// Append concatenates other onto the end of r.
func (r *Row) Append(other *Row) {
	if other == nil || other.text == "" {
		return
	}
	r.text += other.text
	r.update()
}

func (r *Row) update() {
	r.length = graphemeutil.Count(r.text)
}

// Segments returns the clusters in [start, end) grouped into runs of equal
// class. end is clamped to Len() and start to end. Tabs become one space.
func (r *Row) Segments(start, end int) []Segment {
	end = minInt(end, r.length)
	start = clampInt(start, 0, end)
	if start == end {
		return nil
	}

	clusters := graphemeutil.Split(r.text)
	var out []Segment
	var sb strings.Builder
	cur := ClassNone
	for i := start; i < end; i++ {
		class := r.classAt(i)
		if sb.Len() > 0 && class != cur {
			out = append(out, Segment{Text: sb.String(), Class: cur})
			sb.Reset()
		}
		cur = class
		if clusters[i] == "\t" {
			sb.WriteByte(' ')
		} else {
			sb.WriteString(clusters[i])
		}
	}
	if sb.Len() > 0 {
		out = append(out, Segment{Text: sb.String(), Class: cur})
	}
	return out
}

// Render returns the visible text for clusters [start, end).
//
// When the row carries highlight tags and p is non-nil, a marker is written
// before each class run and one reset follows the slice.
func (r *Row) Render(start, end int, p Palette) string {
	segs := r.Segments(start, end)
	colored := p != nil && r.classes != nil

	var sb strings.Builder
	for _, seg := range segs {
		if colored {
			sb.WriteString(p.Marker(seg.Class))
		}
		sb.WriteString(seg.Text)
	}
	if colored {
		sb.WriteString(p.Reset())
	}
	return sb.String()
}

// Width returns the cell width of clusters [start, end) as Render draws them.
// Tabs occupy one cell.
func (r *Row) Width(start, end int) int {
	end = minInt(end, r.length)
	start = clampInt(start, 0, end)
	if start == end {
		return 0
	}
	w := 0
	for _, cluster := range graphemeutil.Split(graphemeutil.Slice(r.text, start, end)) {
		if cluster == "\t" {
			w++
			continue
		}
		w += graphemeutil.Width(cluster)
	}
	return w
}

func (r *Row) classAt(i int) Class {
	if i < len(r.classes) {
		return r.classes[i]
	}
	return ClassNone
}
