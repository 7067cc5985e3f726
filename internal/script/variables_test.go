package script

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExpandSimple(t *testing.T) {
	ve := NewVariableExpander(nil, map[string]string{"USER": "joao"}, nil)

	out, err := ve.Expand("login $USER aqui")
	assert.NoError(t, err)
	assert.Equal(t, "login joao aqui", out)

	out, err = ve.Expand("login ${USER} aqui")
	assert.NoError(t, err)
	assert.Equal(t, "login joao aqui", out)
}

func TestExpandUndefinedIsEmpty(t *testing.T) {
	ve := NewVariableExpander(nil, nil, nil)

	out, err := ve.Expand("valor: [$NADA]")
	assert.NoError(t, err)
	assert.Equal(t, "valor: []", out)
}

func TestExpandDefault(t *testing.T) {
	ve := NewVariableExpander(nil, map[string]string{"SET": "x"}, nil)

	out, err := ve.Expand("${SET:-fallback} ${UNSET:-fallback}")
	assert.NoError(t, err)
	assert.Equal(t, "x fallback", out)

	// :- does not persist the default
	_, ok := ve.Get("UNSET")
	assert.False(t, ok)
}

func TestExpandAssignDefault(t *testing.T) {
	ve := NewVariableExpander(nil, nil, nil)

	out, err := ve.Expand("${HOST:=servidor}")
	assert.NoError(t, err)
	assert.Equal(t, "servidor", out)

	value, ok := ve.Get("HOST")
	assert.True(t, ok)
	assert.Equal(t, "servidor", value, ":= persists the default")
}

func TestExpandConditional(t *testing.T) {
	ve := NewVariableExpander(nil, map[string]string{"DEBUG": "1"}, nil)

	out, err := ve.Expand("${DEBUG:+--verbose}${SILENT:+--quiet}")
	assert.NoError(t, err)
	assert.Equal(t, "--verbose", out)
}

func TestExpandEscapedDollar(t *testing.T) {
	ve := NewVariableExpander(nil, map[string]string{"V": "x"}, nil)

	out, err := ve.Expand(`custo \$100 e $V`)
	assert.NoError(t, err)
	assert.Equal(t, "custo $100 e x", out)
}

func TestPrecedence(t *testing.T) {
	ve := NewVariableExpander(
		map[string]string{"A": "env", "B": "env", "C": "env"},
		map[string]string{"A": "script", "B": "script"},
		map[string]string{"A": "override"},
	)

	a, _ := ve.Get("A")
	b, _ := ve.Get("B")
	c, _ := ve.Get("C")
	assert.Equal(t, "override", a)
	assert.Equal(t, "script", b)
	assert.Equal(t, "env", c)
}

func TestParseAssignment(t *testing.T) {
	ve := NewVariableExpander(nil, map[string]string{"BASE": "prod"}, nil)

	name, value, ok := ve.ParseAssignment("HOST=${BASE}-01")
	assert.True(t, ok)
	assert.Equal(t, "HOST", name)
	assert.Equal(t, "prod-01", value)

	_, _, ok = ve.ParseAssignment("not an assignment")
	assert.False(t, ok)

	_, _, ok = ve.ParseAssignment("1BAD=x")
	assert.False(t, ok, "assignment names cannot start with a digit")
}

func TestSetOverrides(t *testing.T) {
	ve := NewVariableExpander(nil, nil, nil)

	assert.NoError(t, ve.SetOverrides([]string{"USER=ana", "HOST = caixa2"}))
	user, _ := ve.Get("USER")
	host, _ := ve.Get("HOST")
	assert.Equal(t, "ana", user)
	assert.Equal(t, "caixa2", host)

	assert.Error(t, ve.SetOverrides([]string{"semigual"}))
	assert.Error(t, ve.SetOverrides([]string{"9bad=x"}))
}

func TestLoadFromFile(t *testing.T) {
	file := filepath.Join(t.TempDir(), "vars.env")
	content := "# comentario\nUSER=ana\n\nHOST=caixa1\n"
	assert.NoError(t, os.WriteFile(file, []byte(content), 0o644))

	ve := NewVariableExpander(nil, nil, nil)
	assert.NoError(t, ve.LoadFromFile(file))

	user, _ := ve.Get("USER")
	assert.Equal(t, "ana", user)

	bad := filepath.Join(t.TempDir(), "bad.env")
	assert.NoError(t, os.WriteFile(bad, []byte("linha invalida\n"), 0o644))
	assert.Error(t, ve.LoadFromFile(bad))
}

func TestUsedVariables(t *testing.T) {
	names := UsedVariables(`$A ${B} ${C:-x} ${D:=y} ${E:+z} \$NOT`)
	assert.ElementsMatch(t, []string{"A", "B", "C", "D", "E", "NOT"}, names)
}
