package rotina

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLifecycle(t *testing.T) {
	c := NewController()
	assert.Equal(t, Idle, c.Status())
	assert.False(t, c.Active())

	assert.NoError(t, c.Begin("consulta"))
	assert.Equal(t, Running, c.Status())
	assert.Equal(t, "consulta", c.Name())
	assert.True(t, c.Active())

	c.RequestPause()
	assert.Equal(t, Paused, c.Status())

	c.Resume()
	assert.Equal(t, Running, c.Status())

	c.RequestStop()
	assert.Equal(t, Stopped, c.Status())

	c.Finish()
	assert.Equal(t, Idle, c.Status())
	assert.Empty(t, c.Name())
}

func TestBeginRejectsSecondRotina(t *testing.T) {
	c := NewController()
	assert.NoError(t, c.Begin("first"))

	err := c.Begin("second")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "first")

	// paused still counts as active
	c.RequestPause()
	assert.Error(t, c.Begin("third"))

	c.Finish()
	assert.NoError(t, c.Begin("second"))
}

func TestPauseOnlyAffectsRunning(t *testing.T) {
	c := NewController()

	c.RequestPause()
	assert.Equal(t, Idle, c.Status(), "pausing an idle controller is a no-op")

	assert.NoError(t, c.Begin("r"))
	c.RequestStop()
	c.RequestPause()
	assert.Equal(t, Stopped, c.Status(), "a stopped rotina cannot be paused")
	c.Resume()
	assert.Equal(t, Stopped, c.Status(), "a stopped rotina cannot be resumed")
}

func TestCheckWhileRunning(t *testing.T) {
	c := NewController()
	assert.NoError(t, c.Check(context.Background()), "idle check passes")

	assert.NoError(t, c.Begin("r"))
	assert.NoError(t, c.Check(context.Background()))
}

func TestCheckWhenStopped(t *testing.T) {
	c := NewController()
	assert.NoError(t, c.Begin("r"))
	c.RequestStop()

	err := c.Check(context.Background())
	assert.Error(t, err)
	assert.True(t, IsCancelled(err))
}

func TestCheckBlocksWhilePaused(t *testing.T) {
	c := NewController()
	assert.NoError(t, c.Begin("r"))
	c.RequestPause()

	done := make(chan error, 1)
	go func() {
		done <- c.Check(context.Background())
	}()

	select {
	case <-done:
		t.Fatal("check returned while paused")
	case <-time.After(250 * time.Millisecond):
	}

	c.Resume()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("check did not return after resume")
	}
}

func TestCheckPausedThenStopped(t *testing.T) {
	c := NewController()
	assert.NoError(t, c.Begin("r"))
	c.RequestPause()

	done := make(chan error, 1)
	go func() {
		done <- c.Check(context.Background())
	}()

	time.Sleep(150 * time.Millisecond)
	c.RequestStop()

	select {
	case err := <-done:
		assert.True(t, IsCancelled(err))
	case <-time.After(time.Second):
		t.Fatal("check did not observe the stop")
	}
}

func TestCheckHonorsContext(t *testing.T) {
	c := NewController()
	assert.NoError(t, c.Begin("r"))
	c.RequestPause()

	ctx, cancel := context.WithTimeout(context.Background(), 150*time.Millisecond)
	defer cancel()

	err := c.Check(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestIsCancelledWrapped(t *testing.T) {
	err := fmt.Errorf("line 3: %w", Cancelled("operator"))
	assert.True(t, IsCancelled(err))
	assert.False(t, IsCancelled(fmt.Errorf("plain failure")))
}
