package term

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoadTextMultibyteColumns(t *testing.T) {
	m := NewMemory(26, 80)
	m.LoadText("Seção x\nlinha dois")

	// cells are rune addressed: ç and ã each occupy one column
	cell, err := m.Cell(1, 3)
	assert.NoError(t, err)
	assert.Equal(t, 'ç', cell.Char)

	cell, err = m.Cell(1, 7)
	assert.NoError(t, err)
	assert.Equal(t, 'x', cell.Char)

	cell, err = m.Cell(2, 7)
	assert.NoError(t, err)
	assert.Equal(t, 'd', cell.Char)
}

func TestLoadTextClipsToGeometry(t *testing.T) {
	m := NewMemory(2, 4)
	m.LoadText("abcdefgh\nxy\nnunca aparece")

	cell, _ := m.Cell(1, 4)
	assert.Equal(t, 'd', cell.Char)
	cell, _ = m.Cell(2, 1)
	assert.Equal(t, 'x', cell.Char)
	cell, _ = m.Cell(2, 3)
	assert.Equal(t, ' ', cell.Char, "short lines leave the rest of the row blank")
}
