// Package term defines the contract with the external terminal emulator: a
// character grid read cell by cell, raw input injection, and a screen-update
// event subscription. The engine never renders or parses ANSI itself.
package term

import "fmt"

// Cell is a single character cell of the screen buffer
type Cell struct {
	Char rune
	FG   int // foreground color index
}

// Click is a mouse click reported by the emulator, 1-based coordinates
type Click struct {
	Row int
	Col int
}

// Terminal is the narrow port the automation engine drives. Rows and columns
// are 1-based throughout.
type Terminal interface {
	// Size returns the buffer dimensions (rows, cols)
	Size() (int, int)

	// Cell returns the cell at the given 1-based position
	Cell(row, col int) (Cell, error)

	// WriteInput injects raw bytes into the emulator's input stream
	// (simulated keystrokes or mouse escape sequences)
	WriteInput(data []byte) error

	// Updates returns a channel that receives a signal whenever the emulator
	// renders new output, plus a cancel function releasing the subscription.
	Updates() (<-chan struct{}, func())
}

// ClickSource is implemented by terminals that can report operator mouse
// clicks back to the engine (used by the two-click region capture).
type ClickSource interface {
	Clicks() (<-chan Click, func())
}

// RowError reports a row outside the buffer
type RowError struct {
	Row  int
	Rows int
}

func (e *RowError) Error() string {
	return fmt.Sprintf("row %d outside screen range [1, %d]", e.Row, e.Rows)
}

// ColError reports a column outside the buffer
type ColError struct {
	Col  int
	Cols int
}

func (e *ColError) Error() string {
	return fmt.Sprintf("column %d outside screen range [1, %d]", e.Col, e.Cols)
}
