package term

import (
	"strings"
	"sync"
)

// Memory is an in-memory Terminal implementation. It backs the unit tests,
// the replay mode of the CLI, and the monitor TUI demo. The host application
// is simulated through the InputFunc hook: whatever it writes to the grid is
// what the engine observes on the next update event.
type Memory struct {
	mu    sync.Mutex
	rows  int
	cols  int
	cells [][]Cell

	// InputFunc, when set, receives every injected input chunk so a test or
	// replay driver can mutate the screen in response.
	InputFunc func(data []byte)

	updateSubs map[int]chan struct{}
	clickSubs  map[int]chan Click
	nextSub    int
}

// NewMemory creates an empty in-memory terminal of the given size
func NewMemory(rows, cols int) *Memory {
	cells := make([][]Cell, rows)
	for i := range cells {
		cells[i] = make([]Cell, cols)
		for j := range cells[i] {
			cells[i][j] = Cell{Char: ' '}
		}
	}
	return &Memory{
		rows:       rows,
		cols:       cols,
		cells:      cells,
		updateSubs: make(map[int]chan struct{}),
		clickSubs:  make(map[int]chan Click),
	}
}

// Size returns the buffer dimensions
func (m *Memory) Size() (int, int) {
	return m.rows, m.cols
}

// Cell returns the cell at the given 1-based position
func (m *Memory) Cell(row, col int) (Cell, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if row < 1 || row > m.rows {
		return Cell{}, &RowError{Row: row, Rows: m.rows}
	}
	if col < 1 || col > m.cols {
		return Cell{}, &ColError{Col: col, Cols: m.cols}
	}
	return m.cells[row-1][col-1], nil
}

// WriteInput feeds injected input to the InputFunc hook, if any
func (m *Memory) WriteInput(data []byte) error {
	m.mu.Lock()
	fn := m.InputFunc
	m.mu.Unlock()

	if fn != nil {
		fn(data)
	}
	return nil
}

// Updates subscribes to screen-update events
func (m *Memory) Updates() (<-chan struct{}, func()) {
	m.mu.Lock()
	defer m.mu.Unlock()

	id := m.nextSub
	m.nextSub++
	ch := make(chan struct{}, 16)
	m.updateSubs[id] = ch

	return ch, func() {
		m.mu.Lock()
		delete(m.updateSubs, id)
		m.mu.Unlock()
	}
}

// Clicks subscribes to operator mouse clicks
func (m *Memory) Clicks() (<-chan Click, func()) {
	m.mu.Lock()
	defer m.mu.Unlock()

	id := m.nextSub
	m.nextSub++
	ch := make(chan Click, 4)
	m.clickSubs[id] = ch

	return ch, func() {
		m.mu.Lock()
		delete(m.clickSubs, id)
		m.mu.Unlock()
	}
}

// SetText writes text into a row starting at a 1-based column with the given
// foreground color and fires an update event. Text past the right edge is
// dropped.
func (m *Memory) SetText(row, col int, text string, fg int) {
	m.mu.Lock()
	if row >= 1 && row <= m.rows {
		c := col - 1
		for _, r := range text {
			if c < 0 || c >= m.cols {
				break
			}
			m.cells[row-1][c] = Cell{Char: r, FG: fg}
			c++
		}
	}
	m.mu.Unlock()
	m.Notify()
}

// SetCell writes a single cell and fires an update event
func (m *Memory) SetCell(row, col int, cell Cell) {
	m.mu.Lock()
	if row >= 1 && row <= m.rows && col >= 1 && col <= m.cols {
		m.cells[row-1][col-1] = cell
	}
	m.mu.Unlock()
	m.Notify()
}

// ClearRow blanks a row and fires an update event
func (m *Memory) ClearRow(row int) {
	m.mu.Lock()
	if row >= 1 && row <= m.rows {
		for j := range m.cells[row-1] {
			m.cells[row-1][j] = Cell{Char: ' '}
		}
	}
	m.mu.Unlock()
	m.Notify()
}

// LoadText replaces the whole screen from newline-separated text (color 0)
// and fires a single update event.
func (m *Memory) LoadText(text string) {
	m.mu.Lock()
	for i := range m.cells {
		for j := range m.cells[i] {
			m.cells[i][j] = Cell{Char: ' '}
		}
	}
	for i, line := range strings.Split(text, "\n") {
		if i >= m.rows {
			break
		}
		for j, r := range []rune(line) {
			if j >= m.cols {
				break
			}
			m.cells[i][j] = Cell{Char: r}
		}
	}
	m.mu.Unlock()
	m.Notify()
}

// Notify fires a screen-update event to every subscriber. Events are dropped
// for subscribers with a full buffer rather than blocking the emulator.
func (m *Memory) Notify() {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, ch := range m.updateSubs {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}

// EmitClick reports an operator mouse click to every click subscriber
func (m *Memory) EmitClick(row, col int) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, ch := range m.clickSubs {
		select {
		case ch <- Click{Row: row, Col: col}:
		default:
		}
	}
}
