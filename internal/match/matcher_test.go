package match

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMatchString(t *testing.T) {
	ok, err := Match("senha", "Informe a SENHA do usuario", Options{})
	assert.NoError(t, err)
	assert.True(t, ok, "insensitive substring should match")

	ok, err = Match("senha", "Informe a SENHA do usuario", Options{CaseSensitive: true})
	assert.NoError(t, err)
	assert.False(t, ok, "sensitive substring should not match different case")

	ok, err = Match("SENHA", "Informe a SENHA do usuario", Options{CaseSensitive: true})
	assert.NoError(t, err)
	assert.True(t, ok)
}

func TestMatchStringSliceRequiresAll(t *testing.T) {
	text := "Aplicacao: SIGA\nUsuario: joao"

	ok, err := Match([]string{"Aplicacao", "Usuario"}, text, Options{})
	assert.NoError(t, err)
	assert.True(t, ok)

	ok, err = Match([]string{"Aplicacao", "Senha"}, text, Options{})
	assert.NoError(t, err)
	assert.False(t, ok, "one missing element should fail the whole slice")
}

func TestMatchEmptySlice(t *testing.T) {
	ok, err := Match([]string{}, "anything", Options{})
	assert.NoError(t, err)
	assert.False(t, ok, "an empty target slice never matches")
}

func TestMatchRegexp(t *testing.T) {
	re := regexp.MustCompile(`protocolo \d+`)

	ok, err := Match(re, "Protocolo 12345 registrado", Options{})
	assert.NoError(t, err)
	assert.True(t, ok, "case insensitivity should be forced by default")

	ok, err = Match(re, "Protocolo 12345 registrado", Options{CaseSensitive: true})
	assert.NoError(t, err)
	assert.False(t, ok)

	ok, err = Match(re, "protocolo 12345 registrado", Options{CaseSensitive: true})
	assert.NoError(t, err)
	assert.True(t, ok)
}

func TestMatchRegexpDoesNotMutateCaller(t *testing.T) {
	re := regexp.MustCompile(`senha`)
	before := re.String()

	_, err := Match(re, "SENHA", Options{})
	assert.NoError(t, err)
	assert.Equal(t, before, re.String(), "caller's pattern must stay untouched")

	insensitive := regexp.MustCompile(`(?i)senha`)
	before = insensitive.String()
	_, err = Match(insensitive, "senha", Options{CaseSensitive: true})
	assert.NoError(t, err)
	assert.Equal(t, before, insensitive.String())
}

func TestMatchMixedSlice(t *testing.T) {
	targets := []any{"Usuario", regexp.MustCompile(`\d{4}`)}

	ok, err := Match(targets, "Usuario 1234", Options{})
	assert.NoError(t, err)
	assert.True(t, ok)

	ok, err = Match(targets, "Usuario abcd", Options{})
	assert.NoError(t, err)
	assert.False(t, ok)
}

func TestMatchUnsupportedTarget(t *testing.T) {
	_, err := Match(42, "text", Options{})
	assert.Error(t, err)

	_, err = Match(nil, "text", Options{})
	assert.Error(t, err)
}
