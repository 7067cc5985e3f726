package automation

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/rmacedo/rotinactl/internal/rotina"
	"github.com/rmacedo/rotinactl/internal/term"
)

// stubPrompter records notifications and returns canned answers
type stubPrompter struct {
	mu            sync.Mutex
	notifications []string
	confirmAnswer bool
	chooseAnswer  string
}

func (p *stubPrompter) Notify(msg string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.notifications = append(p.notifications, msg)
}

func (p *stubPrompter) Confirm(msg string) bool { return p.confirmAnswer }

func (p *stubPrompter) Choose(msg string, options ...string) string {
	if p.chooseAnswer != "" {
		return p.chooseAnswer
	}
	return options[0]
}

func (p *stubPrompter) notified() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.notifications...)
}

// stubClipboard records the last written text
type stubClipboard struct {
	mu      sync.Mutex
	written []string
}

func (c *stubClipboard) WriteAll(text string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.written = append(c.written, text)
	return nil
}

func (c *stubClipboard) ReadAll() (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.written) == 0 {
		return "", nil
	}
	return c.written[len(c.written)-1], nil
}

func newTestAutomator(t *testing.T) (*Automator, *term.Memory, *stubPrompter, *stubClipboard) {
	t.Helper()
	m := term.NewMemory(26, 80)
	p := &stubPrompter{}
	c := &stubClipboard{}
	a := New(Config{
		Terminal:  m,
		Prompter:  p,
		Clipboard: c,
		StepDelay: 10 * time.Millisecond,
		Session:   "test",
	})
	return a, m, p, c
}

// echoInput makes injected input show up on screen shortly afterwards, like a
// live host application would.
func echoInput(m *term.Memory, row, col, fg int) *[]string {
	var mu sync.Mutex
	captured := &[]string{}
	m.InputFunc = func(data []byte) {
		mu.Lock()
		*captured = append(*captured, string(data))
		mu.Unlock()
		text := string(data)
		go func() {
			time.Sleep(30 * time.Millisecond)
			m.SetText(row, col, text, fg)
		}()
	}
	return captured
}

func TestWaitForConditionSynchronous(t *testing.T) {
	a, m, _, _ := newTestAutomator(t)
	m.SetText(3, 1, "Bem-vindo", 7)

	found, err := a.WaitForCondition(context.Background(), "bem-vindo", WaitOptions{})
	assert.NoError(t, err)
	assert.True(t, found)

	found, err = a.WaitForCondition(context.Background(), "inexistente", WaitOptions{})
	assert.NoError(t, err)
	assert.False(t, found, "zero timeout evaluates once without waiting")
}

func TestWaitForConditionEventDriven(t *testing.T) {
	a, m, _, _ := newTestAutomator(t)

	go func() {
		time.Sleep(100 * time.Millisecond)
		m.SetText(5, 1, "Processamento concluido", 7)
	}()

	start := time.Now()
	found, err := a.WaitForCondition(context.Background(), "concluido", WaitOptions{Timeout: 3 * time.Second})
	assert.NoError(t, err)
	assert.True(t, found)
	assert.Less(t, time.Since(start), 2*time.Second, "the repaint event should resolve the wait early")
}

func TestWaitForConditionTimeout(t *testing.T) {
	a, _, _, _ := newTestAutomator(t)

	found, err := a.WaitForCondition(context.Background(), "nunca", WaitOptions{Timeout: 300 * time.Millisecond})
	assert.NoError(t, err)
	assert.False(t, found)

	_, err = a.WaitForCondition(context.Background(), "nunca", WaitOptions{
		Timeout:        300 * time.Millisecond,
		RaiseOnTimeout: true,
	})
	var timeoutErr *TimeoutError
	assert.True(t, errors.As(err, &timeoutErr))
}

func TestWaitForConditionStopCancels(t *testing.T) {
	a, _, _, _ := newTestAutomator(t)
	assert.NoError(t, a.Rotina().Begin("r"))
	defer a.Rotina().Finish()

	go func() {
		time.Sleep(100 * time.Millisecond)
		a.Rotina().RequestStop()
	}()

	start := time.Now()
	found, err := a.WaitForCondition(context.Background(), "nunca", WaitOptions{Timeout: 10 * time.Second})
	assert.False(t, found)
	assert.True(t, rotina.IsCancelled(err))
	assert.Less(t, time.Since(start), 2*time.Second, "the stop should interrupt the wait")
}

func TestWaitForConditionStopWinsOverMatch(t *testing.T) {
	a, m, _, _ := newTestAutomator(t)
	assert.NoError(t, a.Rotina().Begin("r"))
	defer a.Rotina().Finish()

	go func() {
		time.Sleep(100 * time.Millisecond)
		a.Rotina().RequestStop()
		m.SetText(2, 1, "alvo", 7)
	}()

	found, err := a.WaitForCondition(context.Background(), "alvo", WaitOptions{Timeout: 5 * time.Second})
	assert.False(t, found)
	assert.True(t, rotina.IsCancelled(err), "a stop observed alongside a match must win")
}

func TestWaitForConditionPauseFreezesDeadline(t *testing.T) {
	a, m, _, _ := newTestAutomator(t)
	assert.NoError(t, a.Rotina().Begin("r"))
	defer a.Rotina().Finish()

	go func() {
		time.Sleep(50 * time.Millisecond)
		a.Rotina().RequestPause()
		time.Sleep(600 * time.Millisecond)
		a.Rotina().Resume()
		time.Sleep(50 * time.Millisecond)
		m.SetText(2, 1, "alvo", 7)
	}()

	found, err := a.WaitForCondition(context.Background(), "alvo", WaitOptions{Timeout: 400 * time.Millisecond})
	assert.NoError(t, err)
	assert.True(t, found, "time spent paused must not count against the timeout")
}

func TestWaitForConditionPausedIgnoresEventMatch(t *testing.T) {
	a, m, _, _ := newTestAutomator(t)
	assert.NoError(t, a.Rotina().Begin("r"))
	defer a.Rotina().Finish()
	a.Rotina().RequestPause()

	done := make(chan struct{})
	var found bool
	var err error
	go func() {
		defer close(done)
		found, err = a.WaitForCondition(context.Background(), "alvo", WaitOptions{Timeout: 2 * time.Second})
	}()

	// the repaint lands while the rotina is paused
	time.Sleep(100 * time.Millisecond)
	m.SetText(2, 1, "alvo", 7)

	select {
	case <-done:
		t.Fatal("a paused rotina must not resolve waits, even on a repaint match")
	case <-time.After(300 * time.Millisecond):
	}

	a.Rotina().Resume()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("the wait did not resolve after resume")
	}
	assert.NoError(t, err)
	assert.True(t, found)
}

func TestWaitForConditionPromptOnFailure(t *testing.T) {
	a, _, p, _ := newTestAutomator(t)
	assert.NoError(t, a.Rotina().Begin("r"))
	defer a.Rotina().Finish()

	p.confirmAnswer = true
	found, err := a.WaitForCondition(context.Background(), "nunca", WaitOptions{
		Timeout:         200 * time.Millisecond,
		PromptOnFailure: true,
	})
	assert.NoError(t, err)
	assert.False(t, found)
	assert.Equal(t, rotina.Running, a.Rotina().Status(), "continuing resumes the rotina")

	p.confirmAnswer = false
	_, err = a.WaitForCondition(context.Background(), "nunca", WaitOptions{
		Timeout:         200 * time.Millisecond,
		PromptOnFailure: true,
	})
	assert.True(t, rotina.IsCancelled(err))
	assert.Equal(t, rotina.Stopped, a.Rotina().Status())
}

// blockingPrompter parks Choose until released, like the console prompter
// waiting on stdin.
type blockingPrompter struct {
	stubPrompter
	release   chan string
	dismissed bool
}

func (p *blockingPrompter) Choose(msg string, options ...string) string {
	return <-p.release
}

func (p *blockingPrompter) Dismiss() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.dismissed = true
}

func (p *blockingPrompter) wasDismissed() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.dismissed
}

func TestWaitForTerminalReadyDismissedByUpdate(t *testing.T) {
	m := term.NewMemory(26, 80)
	p := &blockingPrompter{release: make(chan string)}
	defer close(p.release)
	a := New(Config{
		Terminal:  m,
		Prompter:  p,
		StepDelay: 10 * time.Millisecond,
		Session:   "test",
	})

	done := make(chan error, 1)
	go func() {
		done <- a.WaitForTerminalReady(context.Background(), 100*time.Millisecond)
	}()

	// the stall prompt is up; a repaint resolves it without an answer
	time.Sleep(250 * time.Millisecond)
	m.SetText(1, 1, "acordou", 7)

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("the repaint did not resolve the stall")
	}
	assert.True(t, p.wasDismissed(), "screen activity withdraws the pending prompt")
}

func TestTypeWithVerify(t *testing.T) {
	a, m, _, _ := newTestAutomator(t)
	captured := echoInput(m, 4, 10, 10)

	err := a.Type(context.Background(), "joao.silva", true)
	assert.NoError(t, err)
	assert.Equal(t, []string{"joao.silva"}, *captured)
}

func TestTypeStoppedBeforeSideEffect(t *testing.T) {
	a, m, _, _ := newTestAutomator(t)
	var injected []string
	m.InputFunc = func(data []byte) { injected = append(injected, string(data)) }

	assert.NoError(t, a.Rotina().Begin("r"))
	defer a.Rotina().Finish()
	a.Rotina().RequestStop()

	err := a.Type(context.Background(), "nao digitar", true)
	assert.True(t, rotina.IsCancelled(err))
	assert.Empty(t, injected, "a stopped rotina must not inject input")
}

func TestPressKey(t *testing.T) {
	a, m, _, _ := newTestAutomator(t)
	captured := echoInput(m, 1, 1, 7)

	err := a.PressKey(context.Background(), "enter")
	assert.NoError(t, err)
	assert.Equal(t, []string{"\r"}, *captured)
}

func TestPressKeyUnknownIsIgnored(t *testing.T) {
	a, m, _, _ := newTestAutomator(t)
	var injected []string
	m.InputFunc = func(data []byte) { injected = append(injected, string(data)) }

	err := a.PressKey(context.Background(), "no-such-key")
	assert.NoError(t, err)
	assert.Empty(t, injected)
}

func TestClick(t *testing.T) {
	a, m, _, _ := newTestAutomator(t)
	captured := echoInput(m, 1, 1, 7)

	err := a.Click(context.Background(), 5, 8)
	assert.NoError(t, err)
	assert.Equal(t, []string{term.MouseClickSequence(5, 8)}, *captured)

	err = a.Click(context.Background(), 0, 8)
	assert.Error(t, err, "coordinates are 1-based")
}

func TestSleepInterruptedByStop(t *testing.T) {
	a, _, _, _ := newTestAutomator(t)
	assert.NoError(t, a.Rotina().Begin("r"))
	defer a.Rotina().Finish()

	go func() {
		time.Sleep(100 * time.Millisecond)
		a.Rotina().RequestStop()
	}()

	start := time.Now()
	err := a.Sleep(context.Background(), 10*time.Second)
	assert.True(t, rotina.IsCancelled(err))
	assert.Less(t, time.Since(start), 2*time.Second)
}

func TestPositionAtBelow(t *testing.T) {
	a, m, _, _ := newTestAutomator(t)
	m.SetText(3, 10, "Senha", 7)
	m.SetText(5, 8, "____", 10)
	m.SetText(5, 40, "____", 10)
	captured := echoInput(m, 1, 1, 7)

	err := a.PositionAt(context.Background(), "senha", PositionOptions{Direction: Below})
	assert.NoError(t, err)
	assert.Equal(t, []string{term.MouseClickSequence(5, 8)}, *captured,
		"the field nearest the label's column wins")
}

func TestPositionAtAfterTabsToField(t *testing.T) {
	a, m, _, _ := newTestAutomator(t)
	m.SetText(3, 10, "Usuario", 7)
	captured := echoInput(m, 1, 1, 7)

	err := a.PositionAt(context.Background(), "Usuario", PositionOptions{Offset: 1})
	assert.NoError(t, err)

	// click past the label, then 1+offset tabs
	assert.Equal(t, []string{term.MouseClickSequence(3, 17), "\t", "\t"}, *captured)
}

func TestPositionAtMultibyteTextBeforeLabel(t *testing.T) {
	a, m, _, _ := newTestAutomator(t)
	m.SetText(3, 1, "Seção", 7)
	m.SetText(3, 10, "Usuario", 7)
	captured := echoInput(m, 1, 1, 7)

	err := a.PositionAt(context.Background(), "Usuario", PositionOptions{})
	assert.NoError(t, err)

	// columns count cells, so the two 2-byte runes left of the label must
	// not shift the click
	assert.Equal(t, []string{term.MouseClickSequence(3, 17), "\t"}, *captured)
}

func TestPositionAtLabelNotFound(t *testing.T) {
	a, _, _, _ := newTestAutomator(t)

	err := a.PositionAt(context.Background(), "inexistente", PositionOptions{})
	var notFound *LabelNotFoundError
	assert.True(t, errors.As(err, &notFound))
}

func TestCopyFullScreen(t *testing.T) {
	a, m, p, c := newTestAutomator(t)
	m.SetText(1, 1, "primeira linha", 7)
	m.SetText(2, 1, "segunda", 7)

	err := a.Copy(context.Background())
	assert.NoError(t, err)
	assert.Len(t, c.written, 1)

	lines := strings.Split(c.written[0], "\n")
	assert.Len(t, lines, 26)
	assert.Equal(t, "primeira linha", lines[0], "lines are right-trimmed")
	assert.Equal(t, "segunda", lines[1])
	assert.NotEmpty(t, p.notified())
}

func TestCopyLineFromColumn(t *testing.T) {
	a, m, _, c := newTestAutomator(t)
	m.SetText(2, 1, "0123456789", 7)

	err := a.Copy(context.Background(), 2, 5)
	assert.NoError(t, err)
	assert.Equal(t, "456789", c.written[0])
}

func TestCopyBlockNormalizesCorners(t *testing.T) {
	a, m, _, c := newTestAutomator(t)
	m.SetText(2, 1, "abcdefghij", 7)
	m.SetText(3, 1, "0123456789", 7)

	err := a.Copy(context.Background(), 3, 2, 6, 3)
	assert.NoError(t, err)
	assert.Equal(t, "cdef\n2345", c.written[0])
}

func TestCopyInvalidArgumentCount(t *testing.T) {
	a, _, p, c := newTestAutomator(t)

	err := a.Copy(context.Background(), 1, 2, 3)
	assert.NoError(t, err, "bad argument counts notify instead of failing")
	assert.Empty(t, c.written)
	assert.NotEmpty(t, p.notified())
}

func TestCopyLineOutOfRange(t *testing.T) {
	a, _, p, c := newTestAutomator(t)

	err := a.Copy(context.Background(), 99)
	assert.NoError(t, err)
	assert.Empty(t, c.written)
	assert.NotEmpty(t, p.notified())
}

func TestForEachLine(t *testing.T) {
	a, _, _, _ := newTestAutomator(t)

	file := filepath.Join(t.TempDir(), "entrada.txt")
	assert.NoError(t, os.WriteFile(file, []byte("um\n\n  dois  \n\ntres\n"), 0o644))

	var seen []string
	err := a.ForEachLine(context.Background(), file, func(ctx context.Context, line string) error {
		seen = append(seen, line)
		return nil
	})
	assert.NoError(t, err)
	assert.Equal(t, []string{"um", "dois", "tres"}, seen, "blank lines are skipped, values trimmed")
}

func TestForEachLineStops(t *testing.T) {
	a, _, _, _ := newTestAutomator(t)
	assert.NoError(t, a.Rotina().Begin("r"))
	defer a.Rotina().Finish()

	file := filepath.Join(t.TempDir(), "entrada.txt")
	assert.NoError(t, os.WriteFile(file, []byte("um\ndois\ntres\n"), 0o644))

	var seen []string
	err := a.ForEachLine(context.Background(), file, func(ctx context.Context, line string) error {
		seen = append(seen, line)
		if len(seen) == 1 {
			a.Rotina().RequestStop()
		}
		return nil
	})
	assert.True(t, rotina.IsCancelled(err))
	assert.Len(t, seen, 1)
}

func TestReadScreenRegion(t *testing.T) {
	a, m, _, _ := newTestAutomator(t)
	m.SetText(2, 1, "abcdefghij", 7)
	m.SetText(3, 1, "0123456789", 7)

	done := make(chan struct{})
	go func() {
		defer close(done)
		time.Sleep(100 * time.Millisecond)
		m.EmitClick(3, 6)
		time.Sleep(100 * time.Millisecond)
		m.EmitClick(2, 3)
	}()

	result, err := a.ReadScreenRegion(context.Background())
	<-done
	assert.NoError(t, err)
	if assert.NotNil(t, result) {
		assert.Equal(t, "cdef\n2345", result.Text, "corners arriving in any order form the block")
	}
}
