// Package screen reads the emulator's character buffer as plain text and
// enumerates digitable fields (the editable input slots the host application
// marks with reserved foreground colors).
package screen

import (
	"strings"

	"github.com/rmacedo/rotinactl/internal/constants"
	"github.com/rmacedo/rotinactl/internal/term"
)

// Field is an editable input slot derived from the current screen contents.
// It is recomputed on demand and never cached across screen updates.
type Field struct {
	Row      int
	StartCol int
	Length   int
	Text     string
}

// Reader reads text and fields out of a terminal buffer
type Reader struct {
	term term.Terminal
}

// NewReader creates a reader over the given terminal
func NewReader(t term.Terminal) *Reader {
	return &Reader{term: t}
}

// rowText renders one 1-based row as a string
func (r *Reader) rowText(row int) (string, error) {
	_, cols := r.term.Size()
	var sb strings.Builder
	sb.Grow(cols)
	for col := 1; col <= cols; col++ {
		cell, err := r.term.Cell(row, col)
		if err != nil {
			return "", err
		}
		sb.WriteRune(cell.Char)
	}
	return sb.String(), nil
}

// FullScreenText returns every row's rendered text joined by newlines.
// It never fails; an empty buffer yields an empty string.
func (r *Reader) FullScreenText() string {
	rows, _ := r.term.Size()
	lines := make([]string, 0, rows)
	for row := 1; row <= rows; row++ {
		text, err := r.rowText(row)
		if err != nil {
			text = ""
		}
		lines = append(lines, text)
	}
	return strings.Join(lines, "\n")
}

// LineText returns one row's rendered text. Rows outside [1, totalRows]
// produce a range error.
func (r *Reader) LineText(row int) (string, error) {
	rows, _ := r.term.Size()
	if row < 1 || row > rows {
		return "", &term.RowError{Row: row, Rows: rows}
	}
	return r.rowText(row)
}

// BlockText returns the rectangular region's text, one newline-joined segment
// per row in the inclusive range. Rows that fail to resolve contribute an
// empty segment rather than an error.
func (r *Reader) BlockText(rowStart, rowEnd, colStart, colEnd int) string {
	segments := make([]string, 0, rowEnd-rowStart+1)
	for row := rowStart; row <= rowEnd; row++ {
		text, err := r.LineText(row)
		if err != nil {
			segments = append(segments, "")
			continue
		}
		segments = append(segments, sliceColumns(text, colStart, colEnd))
	}
	return strings.Join(segments, "\n")
}

// sliceColumns extracts the inclusive 1-based column range from a line
func sliceColumns(line string, colStart, colEnd int) string {
	runes := []rune(line)
	if colStart < 1 {
		colStart = 1
	}
	if colEnd > len(runes) {
		colEnd = len(runes)
	}
	if colStart > colEnd {
		return ""
	}
	return string(runes[colStart-1 : colEnd])
}

// DigitableFields scans the buffer left-to-right, top-to-bottom for maximal
// runs of cells whose foreground color is in the reserved input color set.
// A cell starts a new field only when its predecessor is not itself an input
// cell, so adjoining fields are never merged or double-counted. The reserved
// status row is skipped entirely. Field text keeps leading spaces and is
// right-trimmed only.
func (r *Reader) DigitableFields() []Field {
	rows, cols := r.term.Size()
	var fields []Field

	for row := 1; row <= rows; row++ {
		if row-1 == constants.StatusRow {
			continue
		}

		var current *Field
		var text strings.Builder
		prevInput := false

		for col := 1; col <= cols; col++ {
			cell, err := r.term.Cell(row, col)
			if err != nil {
				break
			}
			isInput := constants.IsInputColor(cell.FG)

			switch {
			case isInput && !prevInput:
				// new field starts here
				if current != nil {
					current.Text = strings.TrimRight(text.String(), " ")
					fields = append(fields, *current)
				}
				current = &Field{Row: row, StartCol: col}
				text.Reset()
				text.WriteRune(cell.Char)
				current.Length = 1
			case isInput:
				text.WriteRune(cell.Char)
				current.Length++
			case current != nil:
				current.Text = strings.TrimRight(text.String(), " ")
				fields = append(fields, *current)
				current = nil
				text.Reset()
			}

			prevInput = isInput
		}

		if current != nil {
			current.Text = strings.TrimRight(text.String(), " ")
			fields = append(fields, *current)
		}
	}

	return fields
}

// FieldsText joins every digitable field's text with newlines, the view used
// by fields-only condition checks and typing verification.
func (r *Reader) FieldsText() string {
	fields := r.DigitableFields()
	texts := make([]string, len(fields))
	for i, f := range fields {
		texts[i] = f.Text
	}
	return strings.Join(texts, "\n")
}
