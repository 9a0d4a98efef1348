package locale

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func clearLocaleEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{"LC_ALL", "LC_CTYPE", "LC_MESSAGES", "LANG"} {
		t.Setenv(k, "")
	}
}

func TestLCAllWinsOverEverything(t *testing.T) {
	clearLocaleEnv(t)
	t.Setenv("LC_ALL", "de_DE.UTF-8")
	t.Setenv("LC_MESSAGES", "fr_FR.UTF-8")
	t.Setenv("LANG", "en_US.UTF-8")

	assert.Equal(t, "de_DE.UTF-8", Get(Messages))
	assert.Equal(t, "de_DE.UTF-8", Get(CType))
}

func TestCategoryBeatsLang(t *testing.T) {
	clearLocaleEnv(t)
	t.Setenv("LC_MESSAGES", "fr_FR.UTF-8")
	t.Setenv("LANG", "en_US.UTF-8")

	assert.Equal(t, "fr_FR.UTF-8", Get(Messages))
	assert.Equal(t, "en_US.UTF-8", Get(CType), "other categories fall to LANG")
}

func TestLangIsTheFallback(t *testing.T) {
	clearLocaleEnv(t)
	t.Setenv("LANG", "en_US.UTF-8")
	assert.Equal(t, "en_US.UTF-8", Current())
}

func TestDefaultIsC(t *testing.T) {
	clearLocaleEnv(t)
	assert.Equal(t, "C", Get(Time))
	assert.Equal(t, "C", Current())
}
