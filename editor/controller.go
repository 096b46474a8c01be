package editor

import "github.com/iw2rmb/tilde/buffer"

// Shape is the part of a document the controller consults: the row count and
// the cluster length of each row. Absent rows have length 0.
type Shape interface {
	Len() int
	RowLen(y int) int
}

// Cells measures rendered cluster ranges in terminal cells.
type Cells interface {
	CellWidth(y, start, end int) int
}

// Controller owns the cursor and the scroll offset.
//
// After every public call that changes either, the viewport containment
// invariant holds:
//
//	offset.Row <= cursor.Row < offset.Row+height
//	offset.Col <= cursor.Col < offset.Col+width
type Controller struct {
	cursor buffer.Pos
	offset buffer.Pos

	width  int
	height int
}

func NewController(width, height int) *Controller {
	c := &Controller{}
	c.SetViewport(width, height)
	return c
}

func (c *Controller) Cursor() buffer.Pos { return c.cursor }

func (c *Controller) Offset() buffer.Pos { return c.offset }

// Viewport returns the text area size in cells.
func (c *Controller) Viewport() (width, height int) { return c.width, c.height }

// SetViewport resizes the text area. Sizes below one are raised to one.
func (c *Controller) SetViewport(width, height int) {
	c.width = maxInt(width, 1)
	c.height = maxInt(height, 1)
	c.Scroll()
}

// SetCursor moves the cursor to p clamped into doc.
func (c *Controller) SetCursor(p buffer.Pos, doc Shape) {
	c.cursor = buffer.ClampPos(p, doc.Len(), doc.RowLen)
	c.Scroll()
}

// Move applies one navigation command against the current document shape.
// Non-navigation kinds leave the cursor where it is.
func (c *Controller) Move(kind KeyKind, doc Shape) {
	row, col := c.cursor.Row, c.cursor.Col
	height := doc.Len()
	width := doc.RowLen(row)

	switch kind {
	case KeyUp:
		row = maxInt(row-1, 0)
	case KeyDown:
		row = minInt(row+1, height)
	case KeyLeft:
		if col > 0 {
			col--
		} else {
			row = maxInt(row-1, 0)
			col = doc.RowLen(row)
		}
	case KeyRight:
		if col < width {
			col++
		} else {
			row = minInt(row+1, height)
			col = 0
		}
	case KeyPageUp:
		row = maxInt(row-c.height, 0)
	case KeyPageDown:
		row = minInt(row+c.height, height)
	case KeyHome:
		col = 0
	case KeyEnd:
		col = width
	}

	col = minInt(col, doc.RowLen(row))
	c.cursor = buffer.Pos{Row: row, Col: col}
	c.Scroll()
}

// Scroll shifts the offset by the least amount that brings the cursor back
// inside the viewport on both axes.
func (c *Controller) Scroll() {
	if c.cursor.Row < c.offset.Row {
		c.offset.Row = c.cursor.Row
	} else if c.cursor.Row >= c.offset.Row+c.height {
		c.offset.Row = c.cursor.Row - c.height + 1
	}

	if c.cursor.Col < c.offset.Col {
		c.offset.Col = c.cursor.Col
	} else if c.cursor.Col >= c.offset.Col+c.width {
		c.offset.Col = c.cursor.Col - c.width + 1
	}
}

// FitCells moves the horizontal offset right until the cursor cell fits
// inside the viewport width measured in terminal cells. Wide clusters can
// make a cluster-contained cursor land past the right edge; the offset never
// passes the cursor, so Scroll's containment still holds.
func (c *Controller) FitCells(doc Cells) {
	for c.offset.Col < c.cursor.Col {
		cell := maxInt(doc.CellWidth(c.cursor.Row, c.cursor.Col, c.cursor.Col+1), 1)
		if doc.CellWidth(c.cursor.Row, c.offset.Col, c.cursor.Col)+cell <= c.width {
			return
		}
		c.offset.Col++
	}
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
