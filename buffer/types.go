package buffer

// Pos points into the document by (row, col). Col counts grapheme clusters
// within the row, never bytes or runes. Both are 0-based.
//
// Row may equal the document's row count: that is the append position just
// past the last line.
type Pos struct {
	Row int
	Col int
}

func ComparePos(a, b Pos) int {
	if a.Row < b.Row {
		return -1
	}
	if a.Row > b.Row {
		return 1
	}
	if a.Col < b.Col {
		return -1
	}
	if a.Col > b.Col {
		return 1
	}
	return 0
}

// ClampPos clamps p into a document of rows rows whose row lengths come from
// rowLen. The append row (Row == rows) is a valid position with no columns.
func ClampPos(p Pos, rows int, rowLen func(row int) int) Pos {
	row := clampInt(p.Row, 0, maxInt(rows, 0))
	maxCol := 0
	if rowLen != nil {
		maxCol = maxInt(rowLen(row), 0)
	}
	return Pos{Row: row, Col: clampInt(p.Col, 0, maxCol)}
}

func clampInt(v, min, max int) int {
	if max < min {
		return min
	}
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
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
