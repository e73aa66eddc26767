package cmd

import (
	"testing"

	"fitstatus/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCatalogBuild_RequiresTranslator(t *testing.T) {
	withTempHome(t)

	_, _, err := executeCommand(t, newCatalogCmd(), "", "catalog", "build", "fr")
	require.Error(t, err)
	assert.ErrorIs(t, err, errTranslatorMissing)
}

func TestCatalogBuild_DefaultLanguage(t *testing.T) {
	withTempHome(t)

	_, _, err := executeCommand(t, newCatalogCmd(), "", "catalog", "build", "en")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "built-in language")
}

func TestCatalogShow_Default(t *testing.T) {
	withTempHome(t)

	out, _, err := executeCommand(t, newCatalogCmd(), "", "catalog", "show")
	require.NoError(t, err)
	assert.Contains(t, out, "language: en\n")
	assert.Contains(t, out, "  burning: Burning\n")
	assert.NotContains(t, out, "fallback")
}

func TestCatalogShow_FallbackNotice(t *testing.T) {
	withTempHome(t)
	setTestConfig(t, func(c *config.Config) { c.Language = "fr" })

	out, errOut, err := executeCommand(t, newCatalogCmd(), "", "catalog", "show")
	require.NoError(t, err)
	assert.Contains(t, out, "language: en\n")
	assert.Contains(t, out, "fallback: built-in English catalog\n")
	assert.Contains(t, errOut, "translation backend")
}
