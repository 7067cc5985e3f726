package automation

import (
	"context"
	"fmt"
	"strings"

	"github.com/rmacedo/rotinactl/internal/screen"
)

// Copy copies screen text to the system clipboard. The argument count picks
// the shape, mirroring the screen reader operations:
//
//	Copy(ctx)                                  whole screen
//	Copy(ctx, row)                             one line
//	Copy(ctx, row, col)                        one line from a column
//	Copy(ctx, rowStart, rowEnd, colStart, colEnd)  rectangular block
//
// Any other argument count shows a notification and no-ops. Clipboard
// failures are reported but never propagate to the calling rotina.
func (a *Automator) Copy(ctx context.Context, args ...int) error {
	if err := a.rotina.Check(ctx); err != nil {
		return err
	}

	var text, what string
	switch len(args) {
	case 0:
		text = trimLines(a.reader.FullScreenText())
		what = "screen"
	case 1:
		line, err := a.reader.LineText(args[0])
		if err != nil {
			a.notify(fmt.Sprintf("Copy failed: %v", err))
			return nil
		}
		text = strings.TrimRight(line, " ")
		what = fmt.Sprintf("line %d", args[0])
	case 2:
		line, err := a.reader.LineText(args[0])
		if err != nil {
			a.notify(fmt.Sprintf("Copy failed: %v", err))
			return nil
		}
		runes := []rune(line)
		col := args[1]
		if col < 1 {
			col = 1
		}
		if col > len(runes) {
			text = ""
		} else {
			text = strings.TrimRight(string(runes[col-1:]), " ")
		}
		what = fmt.Sprintf("line %d from column %d", args[0], args[1])
	case 4:
		b := screen.Block{RowStart: args[0], RowEnd: args[1], ColStart: args[2], ColEnd: args[3]}.Normalize()
		text = trimLines(a.reader.BlockText(b.RowStart, b.RowEnd, b.ColStart, b.ColEnd))
		what = fmt.Sprintf("block %d:%d x %d:%d", b.RowStart, b.RowEnd, b.ColStart, b.ColEnd)
	default:
		a.notify(fmt.Sprintf("Copy called with %d arguments; expected 0, 1, 2 or 4", len(args)))
		return nil
	}

	if a.clip == nil {
		a.notify("No clipboard available")
		return nil
	}
	if err := a.clip.WriteAll(text); err != nil {
		a.notify(fmt.Sprintf("Clipboard write failed: %v", err))
		return nil
	}

	a.notify(fmt.Sprintf("Copied %s to clipboard", what))
	return nil
}

// trimLines right-trims every line of a multi-line text
func trimLines(text string) string {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimRight(line, " ")
	}
	return strings.Join(lines, "\n")
}
