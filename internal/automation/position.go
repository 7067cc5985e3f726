package automation

import (
	"context"
	"strings"
	"time"

	"github.com/rmacedo/rotinactl/internal/constants"
	"github.com/rmacedo/rotinactl/internal/screen"
)

// Direction selects how PositionAt reaches the target field relative to the
// located label.
type Direction string

const (
	// After clicks just past the label and tabs forward (the default)
	After Direction = "after"
	// Before clicks just ahead of the label and tabs backward
	Before Direction = "before"
	// Above picks the digitable field nearest the label's column on the
	// label's own row
	Above Direction = "above"
	// Below picks the digitable field nearest the label's column two rows
	// under the label
	Below Direction = "below"
)

// PositionOptions configures PositionAt
type PositionOptions struct {
	// Offset applies additional tab presses after the initial positioning
	Offset int

	// Direction defaults to After
	Direction Direction

	// CaseSensitive switches label matching (insensitive by default)
	CaseSensitive bool
}

// labelHit is a located label occurrence, 1-based
type labelHit struct {
	row int
	col int
	len int
}

// PositionAt places the cursor on the input field associated with a screen
// label. The full buffer is scanned top-to-bottom for the first occurrence,
// retrying until the position timeout; a label that never appears fails with
// a LabelNotFoundError.
func (a *Automator) PositionAt(ctx context.Context, label string, opts PositionOptions) error {
	if err := a.rotina.Check(ctx); err != nil {
		return err
	}
	if opts.Direction == "" {
		opts.Direction = After
	}

	hit, err := a.findLabel(ctx, label, opts.CaseSensitive)
	if err != nil {
		return err
	}

	a.log.Debug("Label located", "label", label, "row", hit.row, "col", hit.col, "direction", string(opts.Direction))

	switch opts.Direction {
	case Above:
		return a.clickNearestField(ctx, hit.row, hit.col)
	case Below:
		return a.clickNearestField(ctx, hit.row+2, hit.col)
	case Before:
		col := hit.col - 1
		if col < 1 {
			col = 1
		}
		if err := a.Click(ctx, hit.row, col); err != nil {
			return err
		}
		return a.tab(ctx, "backtab", 1+opts.Offset)
	default: // After
		if err := a.Click(ctx, hit.row, hit.col+hit.len); err != nil {
			return err
		}
		return a.tab(ctx, "tab", 1+opts.Offset)
	}
}

// findLabel scans the screen for the label, polling until the timeout
func (a *Automator) findLabel(ctx context.Context, label string, caseSensitive bool) (labelHit, error) {
	needle := label
	if !caseSensitive {
		needle = strings.ToLower(label)
	}

	deadline := time.Now().Add(constants.PositionTimeout)
	for {
		for i, line := range strings.Split(a.reader.FullScreenText(), "\n") {
			haystack := line
			if !caseSensitive {
				haystack = strings.ToLower(line)
			}
			if idx := strings.Index(haystack, needle); idx >= 0 {
				// columns are cell counts, not byte offsets: runes left of
				// the label may be multi-byte
				col := len([]rune(haystack[:idx])) + 1
				return labelHit{row: i + 1, col: col, len: len([]rune(label))}, nil
			}
		}

		if time.Now().After(deadline) {
			return labelHit{}, &LabelNotFoundError{Label: label}
		}
		if err := a.rotina.Check(ctx); err != nil {
			return labelHit{}, err
		}
		select {
		case <-ctx.Done():
			return labelHit{}, ctx.Err()
		case <-time.After(constants.PositionPollInterval):
		}
	}
}

// clickNearestField clicks the digitable field on the target row whose start
// column is closest to the label's column.
func (a *Automator) clickNearestField(ctx context.Context, row, labelCol int) error {
	var best *screen.Field
	bestDist := 0
	for _, f := range a.reader.DigitableFields() {
		if f.Row != row {
			continue
		}
		dist := f.StartCol - labelCol
		if dist < 0 {
			dist = -dist
		}
		if best == nil || dist < bestDist {
			field := f
			best = &field
			bestDist = dist
		}
	}
	if best == nil {
		return &LabelNotFoundError{Label: "digitable field"}
	}
	return a.Click(ctx, best.Row, best.StartCol)
}

// tab presses a tab variant n times
func (a *Automator) tab(ctx context.Context, key string, n int) error {
	for i := 0; i < n; i++ {
		if err := a.PressKey(ctx, key); err != nil {
			return err
		}
	}
	return nil
}
