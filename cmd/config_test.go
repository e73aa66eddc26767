package cmd

import (
	"testing"

	"fitstatus/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfig_ShowDefaults(t *testing.T) {
	withTempHome(t)

	out, _, err := executeCommand(t, newConfigCmd(), "", "config")
	require.NoError(t, err)
	assert.Equal(t, "wrap_length: 100\n"+
		"language: en\n"+
		"quiet: false\n"+
		"charset: utf-8\n"+
		"catalog_dir: (none)\n"+
		"translate_model: gemini-2.5-flash\n"+
		"translate_api_key: (none)\n", out)
}

func TestConfig_SetValue(t *testing.T) {
	withTempHome(t)

	_, _, err := executeCommand(t, newConfigCmd(), "", "config", "wrap_length", "80")
	require.NoError(t, err)

	cfg, err := config.Load()
	require.NoError(t, err)
	assert.Equal(t, 80, cfg.WrapLength)
}

func TestConfig_HidesAPIKey(t *testing.T) {
	withTempHome(t)
	setTestConfig(t, func(c *config.Config) { c.TranslateAPIKey = "secret" })

	out, _, err := executeCommand(t, newConfigCmd(), "", "config")
	require.NoError(t, err)
	assert.Contains(t, out, "translate_api_key: (set)\n")
	assert.NotContains(t, out, "secret")
}

func TestConfig_UnsupportedKey(t *testing.T) {
	withTempHome(t)

	_, _, err := executeCommand(t, newConfigCmd(), "", "config", "months", "6")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unsupported key "months"`)
}

func TestConfig_InvalidValueNotSaved(t *testing.T) {
	withTempHome(t)

	_, _, err := executeCommand(t, newConfigCmd(), "", "config", "quiet", "maybe")
	require.Error(t, err)

	cfg, err := config.Load()
	require.NoError(t, err)
	assert.False(t, cfg.Quiet)
}

func TestConfig_WrongArgCount(t *testing.T) {
	withTempHome(t)

	_, _, err := executeCommand(t, newConfigCmd(), "", "config", "wrap_length")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "usage: fitstatus config")
}
