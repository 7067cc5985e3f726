package script

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/rmacedo/rotinactl/internal/automation"
	"github.com/rmacedo/rotinactl/internal/term"
)

// testRig wires an executor to an in-memory terminal that echoes injected
// input back into a digitable field.
type testRig struct {
	memory   *term.Memory
	auto     *automation.Automator
	injected *[]string
}

func newTestRig(t *testing.T) *testRig {
	t.Helper()
	m := term.NewMemory(26, 80)
	auto := automation.New(automation.Config{
		Terminal:  m,
		StepDelay: 10 * time.Millisecond,
		Session:   "test",
	})

	var mu sync.Mutex
	injected := &[]string{}
	m.InputFunc = func(data []byte) {
		mu.Lock()
		*injected = append(*injected, string(data))
		mu.Unlock()
		text := string(data)
		go func() {
			time.Sleep(30 * time.Millisecond)
			m.SetText(4, 10, text, 10)
		}()
	}

	return &testRig{memory: m, auto: auto, injected: injected}
}

func (r *testRig) execute(t *testing.T, content string) *ExecutionResult {
	t.Helper()
	variables := NewVariableExpander(nil, nil, nil)
	parser := NewParser(variables)
	parsed, err := parser.ParseScript(content)
	assert.NoError(t, err)

	executor := NewExecutor(&ExecutionContext{
		Automator: r.auto,
		Session:   "test",
		Variables: variables,
		StartTime: time.Now(),
		Timeout:   30 * time.Second,
	})
	executor.SetParser(parser)

	result, err := executor.Execute(context.Background(), parsed)
	assert.NoError(t, err)
	return result
}

func TestExecuteTypesAndWatches(t *testing.T) {
	rig := newTestRig(t)

	result := rig.execute(t, "USER=joao\n$USER\n<watch \"joao\" 5>\n<exit 0>")

	assert.True(t, result.Success)
	assert.Equal(t, 0, result.ExitCode)
	assert.Equal(t, []string{"joao"}, *rig.injected)
	assert.Equal(t, 4, result.LinesExecuted)
	assert.Equal(t, "joao", result.Variables["USER"])
}

func TestExecuteExitNonzero(t *testing.T) {
	rig := newTestRig(t)

	result := rig.execute(t, "<exit 3>\nnunca executa")

	assert.False(t, result.Success)
	assert.Equal(t, 3, result.ExitCode)
	assert.Empty(t, *rig.injected, "lines after exit never run")
}

func TestExecuteCancelled(t *testing.T) {
	rig := newTestRig(t)
	assert.NoError(t, rig.auto.Rotina().Begin("r"))
	defer rig.auto.Rotina().Finish()
	rig.auto.Rotina().RequestStop()

	result := rig.execute(t, "texto\n<exit 0>")

	assert.False(t, result.Success)
	assert.True(t, result.Cancelled)
	assert.Empty(t, *rig.injected)
}

func TestExecuteWatchTimeout(t *testing.T) {
	rig := newTestRig(t)

	result := rig.execute(t, "<watch \"nunca aparece\" 1>")

	assert.False(t, result.Success)
	assert.False(t, result.Cancelled)
	assert.Contains(t, result.Error, "line 1")
}

func TestExecuteOverallTimeout(t *testing.T) {
	rig := newTestRig(t)

	variables := NewVariableExpander(nil, nil, nil)
	parser := NewParser(variables)
	parsed, err := parser.ParseScript("<wait 1>\n<wait 1>")
	assert.NoError(t, err)

	executor := NewExecutor(&ExecutionContext{
		Automator: rig.auto,
		Session:   "test",
		Variables: variables,
		StartTime: time.Now(),
		Timeout:   time.Nanosecond,
	})
	executor.SetParser(parser)

	result, err := executor.Execute(context.Background(), parsed)
	assert.NoError(t, err)
	assert.False(t, result.Success)
	assert.Contains(t, result.Error, "timed out")
	assert.Zero(t, result.LinesExecuted)
}

func TestExecuteDryRun(t *testing.T) {
	variables := NewVariableExpander(nil, nil, nil)
	parser := NewParser(variables)
	parsed, err := parser.ParseScript("# comentario\ntexto\n<enter>\n\n<exit 0>")
	assert.NoError(t, err)

	executor := NewExecutor(&ExecutionContext{
		Session:   "test",
		Variables: variables,
		StartTime: time.Now(),
		Timeout:   time.Minute,
		DryRun:    true,
	})
	executor.SetParser(parser)

	result, err := executor.Execute(context.Background(), parsed)
	assert.NoError(t, err)
	assert.True(t, result.Success)
	assert.Equal(t, 3, result.LinesExecuted, "comments and blanks are not counted")
}
