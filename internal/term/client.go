package term

import (
	"bufio"
	"encoding/json"
	"fmt"
	"net"
	"sync"

	"github.com/rmacedo/rotinactl/internal/logging"
)

// Client attaches to a terminal bridge over a unix socket. The bridge sits
// next to the host emulator and speaks newline-delimited JSON: it pushes
// screen repaints and operator clicks, and accepts raw input injection.
type Client struct {
	mu     sync.Mutex
	conn   net.Conn
	reader *bufio.Reader

	socketPath string
	session    string

	rows  int
	cols  int
	cells [][]Cell

	updateSubs map[int]chan struct{}
	clickSubs  map[int]chan Click
	nextSub    int

	closed chan struct{}
}

// command is an outbound bridge command
type command struct {
	Execute   string `json:"execute"`
	Arguments any    `json:"arguments,omitempty"`
}

// message is an inbound bridge message
type message struct {
	Event  string   `json:"event,omitempty"`
	Rows   int      `json:"rows,omitempty"`
	Cols   int      `json:"cols,omitempty"`
	Text   []string `json:"text,omitempty"`
	Colors [][]int  `json:"colors,omitempty"`
	Row    int      `json:"row,omitempty"`
	Col    int      `json:"col,omitempty"`
	Error  *struct {
		Desc string `json:"desc"`
	} `json:"error,omitempty"`
}

// ErrNotConnected is returned when a method is called on a disconnected client
var ErrNotConnected = fmt.Errorf("not connected to terminal bridge")

// NewClient creates a client for the given session id and socket path
func NewClient(session, socketPath string) *Client {
	return &Client{
		session:    session,
		socketPath: socketPath,
		updateSubs: make(map[int]chan struct{}),
		clickSubs:  make(map[int]chan Click),
		closed:     make(chan struct{}),
	}
}

// Connect establishes the bridge connection and reads the hello message,
// which carries the screen geometry.
func (c *Client) Connect() error {
	logging.Debug("Connecting to terminal bridge", "path", c.socketPath)
	conn, err := net.Dial("unix", c.socketPath)
	if err != nil {
		return fmt.Errorf("failed to connect to terminal bridge: %w", err)
	}
	c.conn = conn
	c.reader = bufio.NewReader(conn)

	var hello message
	if err := c.readJSON(&hello); err != nil {
		c.conn.Close()
		return fmt.Errorf("failed to read bridge greeting: %w", err)
	}
	if hello.Event != "hello" || hello.Rows < 1 || hello.Cols < 1 {
		c.conn.Close()
		return fmt.Errorf("unexpected bridge greeting: %q (%dx%d)", hello.Event, hello.Rows, hello.Cols)
	}

	c.rows = hello.Rows
	c.cols = hello.Cols
	c.cells = make([][]Cell, c.rows)
	for i := range c.cells {
		c.cells[i] = make([]Cell, c.cols)
		for j := range c.cells[i] {
			c.cells[i][j] = Cell{Char: ' '}
		}
	}

	go c.readLoop()

	logging.Info("Attached to terminal session", "session", c.session, "rows", c.rows, "cols", c.cols)
	return nil
}

// Close closes the bridge connection
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	select {
	case <-c.closed:
	default:
		close(c.closed)
	}
	if c.conn != nil {
		logging.Debug("Closing bridge connection", "session", c.session)
		return c.conn.Close()
	}
	return nil
}

// readLoop consumes bridge messages until the connection drops
func (c *Client) readLoop() {
	for {
		var msg message
		if err := c.readJSON(&msg); err != nil {
			select {
			case <-c.closed:
			default:
				logging.Warn("Bridge connection lost", "session", c.session, "error", err)
			}
			return
		}

		switch msg.Event {
		case "screen":
			c.applyScreen(msg)
		case "click":
			c.dispatchClick(Click{Row: msg.Row, Col: msg.Col})
		default:
			logging.Debug("Ignoring bridge event", "event", msg.Event)
		}
	}
}

// applyScreen replaces the local mirror grid and notifies subscribers
func (c *Client) applyScreen(msg message) {
	c.mu.Lock()
	for i := 0; i < c.rows; i++ {
		var line []rune
		if i < len(msg.Text) {
			line = []rune(msg.Text[i])
		}
		for j := 0; j < c.cols; j++ {
			cell := Cell{Char: ' '}
			if j < len(line) {
				cell.Char = line[j]
			}
			if i < len(msg.Colors) && j < len(msg.Colors[i]) {
				cell.FG = msg.Colors[i][j]
			}
			c.cells[i][j] = cell
		}
	}
	subs := make([]chan struct{}, 0, len(c.updateSubs))
	for _, ch := range c.updateSubs {
		subs = append(subs, ch)
	}
	c.mu.Unlock()

	for _, ch := range subs {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}

// dispatchClick fans an operator click out to subscribers
func (c *Client) dispatchClick(click Click) {
	c.mu.Lock()
	subs := make([]chan Click, 0, len(c.clickSubs))
	for _, ch := range c.clickSubs {
		subs = append(subs, ch)
	}
	c.mu.Unlock()

	for _, ch := range subs {
		select {
		case ch <- click:
		default:
		}
	}
}

// readJSON reads a single JSON message from the bridge socket
func (c *Client) readJSON(v any) error {
	var fullLine []byte
	for {
		line, isPrefix, err := c.reader.ReadLine()
		if err != nil {
			return err
		}
		fullLine = append(fullLine, line...)
		if !isPrefix {
			break
		}
	}

	logging.Debug("Raw JSON received", "json", string(fullLine))
	return json.Unmarshal(fullLine, v)
}

// sendCommand sends a single outbound command
func (c *Client) sendCommand(cmd command) error {
	if c.conn == nil {
		return ErrNotConnected
	}

	data, err := json.Marshal(cmd)
	if err != nil {
		return fmt.Errorf("failed to marshal command: %w", err)
	}
	data = append(data, '\n')

	logging.Debug("Raw JSON sent", "json", string(data))
	if _, err := c.conn.Write(data); err != nil {
		return fmt.Errorf("failed to send command: %w", err)
	}
	return nil
}

// Size returns the buffer dimensions
func (c *Client) Size() (int, int) {
	return c.rows, c.cols
}

// Cell returns the mirrored cell at the given 1-based position
func (c *Client) Cell(row, col int) (Cell, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if row < 1 || row > c.rows {
		return Cell{}, &RowError{Row: row, Rows: c.rows}
	}
	if col < 1 || col > c.cols {
		return Cell{}, &ColError{Col: col, Cols: c.cols}
	}
	return c.cells[row-1][col-1], nil
}

// WriteInput injects raw bytes into the host emulator's input stream
func (c *Client) WriteInput(data []byte) error {
	return c.sendCommand(command{
		Execute:   "input",
		Arguments: map[string]string{"data": string(data)},
	})
}

// Updates subscribes to screen repaints pushed by the bridge
func (c *Client) Updates() (<-chan struct{}, func()) {
	c.mu.Lock()
	defer c.mu.Unlock()

	id := c.nextSub
	c.nextSub++
	ch := make(chan struct{}, 16)
	c.updateSubs[id] = ch

	return ch, func() {
		c.mu.Lock()
		delete(c.updateSubs, id)
		c.mu.Unlock()
	}
}

// Clicks subscribes to operator clicks pushed by the bridge
func (c *Client) Clicks() (<-chan Click, func()) {
	c.mu.Lock()
	defer c.mu.Unlock()

	id := c.nextSub
	c.nextSub++
	ch := make(chan Click, 4)
	c.clickSubs[id] = ch

	return ch, func() {
		c.mu.Lock()
		delete(c.clickSubs, id)
		c.mu.Unlock()
	}
}
