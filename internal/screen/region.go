package screen

// Region selects which part of the screen a condition check reads. Selection
// precedence: fields-only scan, then single line, then rectangular block,
// then full screen.
type Region struct {
	FieldsOnly bool

	// Line selects a single 1-based row when > 0
	Line int

	// Block selects an inclusive rectangle when non-nil
	Block *Block
}

// Block is an inclusive rectangular screen region, 1-based
type Block struct {
	RowStart int
	RowEnd   int
	ColStart int
	ColEnd   int
}

// Normalize returns a copy with start/end swapped where needed, so clicks
// captured in either order form a valid rectangle.
func (b Block) Normalize() Block {
	if b.RowStart > b.RowEnd {
		b.RowStart, b.RowEnd = b.RowEnd, b.RowStart
	}
	if b.ColStart > b.ColEnd {
		b.ColStart, b.ColEnd = b.ColEnd, b.ColStart
	}
	return b
}

// RegionText reads the selected region's text honoring the precedence order.
// A nil region reads the full screen.
func (r *Reader) RegionText(region *Region) string {
	if region == nil {
		return r.FullScreenText()
	}

	switch {
	case region.FieldsOnly:
		return r.FieldsText()
	case region.Line > 0:
		text, err := r.LineText(region.Line)
		if err != nil {
			return ""
		}
		return text
	case region.Block != nil:
		b := region.Block.Normalize()
		return r.BlockText(b.RowStart, b.RowEnd, b.ColStart, b.ColEnd)
	default:
		return r.FullScreenText()
	}
}
