package automation

import (
	"context"
	"fmt"
	"time"

	"github.com/rmacedo/rotinactl/internal/constants"
	"github.com/rmacedo/rotinactl/internal/screen"
	"github.com/rmacedo/rotinactl/internal/term"
)

// Capture is the result of a two-click region selection
type Capture struct {
	Text  string
	Block screen.Block
}

// ReadScreenRegion asks the operator to click the start and end corners of a
// screen region and returns its text plus the normalized rectangle. Each
// click has its own timeout; a missing click aborts with a notification and
// a nil capture, not an error.
func (a *Automator) ReadScreenRegion(ctx context.Context) (*Capture, error) {
	if err := a.rotina.Check(ctx); err != nil {
		return nil, err
	}

	source, ok := a.term.(term.ClickSource)
	if !ok {
		return nil, fmt.Errorf("terminal session does not report mouse clicks")
	}

	clicks, cancel := source.Clicks()
	defer cancel()

	a.notify("Click the start of the region to capture")
	start, ok := a.awaitClick(ctx, clicks)
	if !ok {
		a.notify("Region capture cancelled: no start click")
		return nil, nil
	}

	a.notify("Click the end of the region to capture")
	end, ok := a.awaitClick(ctx, clicks)
	if !ok {
		a.notify("Region capture cancelled: no end click")
		return nil, nil
	}

	block := screen.Block{
		RowStart: start.Row,
		RowEnd:   end.Row,
		ColStart: start.Col,
		ColEnd:   end.Col,
	}.Normalize()

	text := a.reader.BlockText(block.RowStart, block.RowEnd, block.ColStart, block.ColEnd)
	a.log.Debug("Region captured",
		"rows", fmt.Sprintf("%d-%d", block.RowStart, block.RowEnd),
		"cols", fmt.Sprintf("%d-%d", block.ColStart, block.ColEnd))

	return &Capture{Text: text, Block: block}, nil
}

// awaitClick waits for one operator click within the region click timeout
func (a *Automator) awaitClick(ctx context.Context, clicks <-chan term.Click) (term.Click, bool) {
	select {
	case <-ctx.Done():
		return term.Click{}, false
	case click := <-clicks:
		return click, true
	case <-time.After(constants.GetTimeout("region")):
		return term.Click{}, false
	}
}
