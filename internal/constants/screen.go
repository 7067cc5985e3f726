package constants

import "fmt"

// Default screen dimensions for the host terminal emulator
const (
	DefaultScreenRows = 26
	DefaultScreenCols = 80

	// Maximum reasonable screen sizes
	MaxScreenRows = 200
	MaxScreenCols = 500

	// Minimum screen sizes
	MinScreenRows = 2
	MinScreenCols = 20
)

// StatusRow is the reserved status row of the host terminal (0-based index).
// Digitable-field scanning always skips it.
const StatusRow = 25

// InputFieldColors are the reserved foreground color indices that mark a cell
// as part of an editable input slot. This is a fixed contract with the host
// terminal's color scheme and must be preserved exactly.
var InputFieldColors = map[int]bool{
	10: true,
	1:  true,
}

// IsInputColor reports whether a foreground color index marks a digitable cell
func IsInputColor(fg int) bool {
	return InputFieldColors[fg]
}

// ValidateScreenDimensions validates that screen dimensions are within reasonable bounds
func ValidateScreenDimensions(rows, cols int) error {
	if rows <= 0 || cols <= 0 {
		return fmt.Errorf("screen dimensions must be positive integers")
	}

	if rows < MinScreenRows || cols < MinScreenCols {
		return fmt.Errorf("screen dimensions too small: minimum %dx%d", MinScreenRows, MinScreenCols)
	}

	if rows > MaxScreenRows || cols > MaxScreenCols {
		return fmt.Errorf("screen dimensions too large: maximum %dx%d", MaxScreenRows, MaxScreenCols)
	}

	return nil
}
