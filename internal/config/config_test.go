package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoundTrip(t *testing.T) {
	cfg := Default("Studio Rossi")
	cfg.Statistics.CE = "CE-RICL"
	cfg.Display.Decimals = 0

	path := filepath.Join(t.TempDir(), FileName)
	require.NoError(t, Save(path, cfg))

	got, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, got)
}

func TestDefaults(t *testing.T) {
	cfg := Default("Studio Rossi")

	assert.Equal(t, "Studio Rossi", cfg.Firm.Name)
	assert.Equal(t, "EUR", cfg.Display.Currency)
	assert.Equal(t, "it", cfg.Display.Locale)
	assert.Equal(t, 2, cfg.Display.Decimals)
	assert.Equal(t, "CE", cfg.Statistics.CE)
	assert.Equal(t, "SP", cfg.Statistics.SP)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.True(t, cfg.Git.AutoCommit)
	assert.NoError(t, cfg.Validate())
}

func TestLoadNotFound(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nonexistent.yaml"))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoadPartialKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	require.NoError(t, os.WriteFile(path, []byte("firm:\n  name: Studio Bianchi\nstatistics:\n  sp: PATR\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "Studio Bianchi", cfg.Firm.Name)
	assert.Equal(t, "CE", cfg.Statistics.CE)
	assert.Equal(t, "PATR", cfg.Statistics.SP)
	assert.Equal(t, "EUR", cfg.Display.Currency)
}

func TestLoadInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	require.NoError(t, os.WriteFile(path, []byte("firm:\n  name: \"\"\nlog:\n  level: loud\n"), 0o644))

	_, err := Load(path)
	require.Error(t, err)
	var verrs validator.ValidationErrors
	require.ErrorAs(t, err, &verrs)
	fields := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, fe.Field())
	}
	assert.ElementsMatch(t, []string{"Name", "Level"}, fields)
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("RECLASS_LOG_LEVEL", "debug")
	t.Setenv("RECLASS_LOG_FORMAT", "json")
	t.Setenv("RECLASS_LOCALE", "en")

	path := filepath.Join(t.TempDir(), FileName)
	require.NoError(t, Save(path, Default("Studio Rossi")))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, "en", cfg.Display.Locale)
}

func TestYAMLFormat(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	require.NoError(t, Save(path, Default("Studio Rossi")))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	contents := string(data)

	assert.Contains(t, contents, "name: Studio Rossi")
	assert.Contains(t, contents, "currency: EUR")
	assert.Contains(t, contents, "ce: CE")
	assert.Contains(t, contents, "auto_commit: true")
}
