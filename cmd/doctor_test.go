package cmd

import (
	"bytes"
	"testing"

	"fitstatus/internal/catalog"
	"fitstatus/internal/config"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runDoctorForTest(t *testing.T) (string, error) {
	t.Helper()

	var out bytes.Buffer
	var errBuf bytes.Buffer
	c := &cobra.Command{}
	c.SetOut(&out)
	c.SetErr(&errBuf)

	err := runDoctor(c, nil)
	return out.String(), err
}

func TestDoctor_Defaults_AllOK(t *testing.T) {
	withTempHome(t)

	s, err := runDoctorForTest(t)
	require.NoError(t, err)
	assert.Contains(t, s, "Running diagnostics...")
	assert.Contains(t, s, "✅ Config: OK")
	assert.Contains(t, s, "✅ Charset: utf-8")
	assert.Contains(t, s, "✅ Catalog: built-in (en)")
	assert.Contains(t, s, "✅ Translation: not needed")
	assert.Contains(t, s, "✅ Rank: leader")
}

func TestDoctor_ForeignLanguageWithoutCatalog_WarnOnly(t *testing.T) {
	withTempHome(t)
	setTestConfig(t, func(c *config.Config) { c.Language = "fr" })

	s, err := runDoctorForTest(t)
	require.NoError(t, err)
	assert.Contains(t, s, "⚠️  Catalog:")
	assert.Contains(t, s, "not built yet")
	assert.Contains(t, s, "fitstatus catalog build fr")
	assert.Contains(t, s, "⚠️  Translation: no API key")
}

func TestDoctor_StaleCatalog(t *testing.T) {
	withTempHome(t)
	setTestConfig(t, func(c *config.Config) { c.Language = "fr" })

	cfg, err := config.Load()
	require.NoError(t, err)
	dir, err := cfg.ResolvedCatalogDir()
	require.NoError(t, err)
	require.NoError(t, catalog.Save(catalog.LocalePath(dir, "fr"), catalog.New("fr", map[string]string{"burning": "Combustion"})))

	s, err := runDoctorForTest(t)
	require.NoError(t, err)
	assert.Contains(t, s, "is out of date")
}

func TestDoctor_UnknownCharset_ReturnsError(t *testing.T) {
	withTempHome(t)
	setTestConfig(t, func(c *config.Config) { c.Charset = "klingon" })

	s, err := runDoctorForTest(t)
	require.Error(t, err)
	assert.Contains(t, s, "❌ Charset")
}

func TestDoctor_NonLeaderRank(t *testing.T) {
	withTempHome(t)
	t.Setenv("SLURM_PROCID", "2")

	s, err := runDoctorForTest(t)
	require.NoError(t, err)
	assert.Contains(t, s, "⚠️  Rank: 2")
}
