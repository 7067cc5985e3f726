package term

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKeySequence(t *testing.T) {
	cases := []struct {
		name string
		want string
	}{
		{"enter", "\r"},
		{"tab", "\t"},
		{"backtab", "\x1b[Z"},
		{"f3", "\x1bOR"},
		{"f12", "\x1b[24~"},
		{"page_down", "\x1b[6~"},
		{"ctrl+a", "\x01"},
		{"ctrl+c", "\x03"},
		{"ctrl+z", "\x1a"},
	}
	for _, tc := range cases {
		seq, ok := KeySequence(tc.name)
		assert.True(t, ok, "key: %s", tc.name)
		assert.Equal(t, tc.want, seq, "key: %s", tc.name)
	}
}

func TestKeySequenceUnknown(t *testing.T) {
	for _, name := range []string{"inexistente", "ctrl+1", "ctrl+", "ctrl+aa", "ENTER"} {
		_, ok := KeySequence(name)
		assert.False(t, ok, "key: %s", name)
	}
}

func TestKeyNames(t *testing.T) {
	names := KeyNames()
	assert.Contains(t, names, "enter")
	assert.Contains(t, names, "f1")
	assert.Contains(t, names, "page_up")
	assert.NotContains(t, names, "ctrl+a", "control chords are derived, not listed")
}

func TestMouseClickSequence(t *testing.T) {
	// X10 encoding: press button 0 then release, coordinates offset by 32
	seq := MouseClickSequence(5, 8)
	assert.Equal(t, "\x1b[M\x20\x28\x25\x1b[M\x23\x28\x25", seq)
}
