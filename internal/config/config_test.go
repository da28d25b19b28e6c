package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_MissingFile(t *testing.T) {
	cfg, err := Load(t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, &ProjectConfig{}, cfg)
}

func TestLoad_Yml(t *testing.T) {
	dir := t.TempDir()
	content := `dbPath: .codelens/facts.kuzu
languages:
  - python
  - go
excludeDirs:
  - gen
excludePatterns:
  - "**_test.py"
workers: 4
verbose: true
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "codelens.yml"), []byte(content), 0o644))

	cfg, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, ".codelens/facts.kuzu", cfg.DBPath)
	assert.Equal(t, []string{"python", "go"}, cfg.Languages)
	assert.Equal(t, []string{"gen"}, cfg.ExcludeDirs)
	assert.Equal(t, []string{"**_test.py"}, cfg.ExcludePatterns)
	assert.Equal(t, 4, cfg.Workers)
	assert.True(t, cfg.Verbose)
}

func TestLoad_YamlFallback(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "codelens.yaml"), []byte("workers: 2\n"), 0o644))

	cfg, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, 2, cfg.Workers)
}

func TestLoad_YmlWinsOverYaml(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "codelens.yml"), []byte("workers: 1\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "codelens.yaml"), []byte("workers: 2\n"), 0o644))

	cfg, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, 1, cfg.Workers)
}

func TestLoad_Malformed(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "codelens.yml"), []byte(":\n  - not yaml"), 0o644))

	_, err := Load(dir)
	assert.Error(t, err)
}
