package maincmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/mna/wisp/lang/values"
	"github.com/stretchr/testify/require"
)

func TestLoadProjectConfigMissingFileIsNotAnError(t *testing.T) {
	cfg, err := loadProjectConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	require.Empty(t, cfg.SourceRoots)
	require.Empty(t, cfg.Constants)
}

func TestLoadProjectConfigParsesRootsAndConstants(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".wisprc.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
source_roots:
  - lib
  - vendor/lib
constants:
  VERSION: "1.0"
  DEBUG: true
`), 0o644))

	cfg, err := loadProjectConfig(path)
	require.NoError(t, err)
	require.Equal(t, []string{"lib", "vendor/lib"}, cfg.SourceRoots)
	require.Equal(t, values.String("1.0"), yamlToValue(cfg.Constants["VERSION"]))
	require.Equal(t, values.Bool(true), yamlToValue(cfg.Constants["DEBUG"]))
}

func TestYamlToValueConvertsSequencesAndMappings(t *testing.T) {
	lst := yamlToValue([]interface{}{"a", 1.0})
	l, ok := lst.(*values.List)
	require.True(t, ok)
	require.Equal(t, []values.Value{values.String("a"), values.Number(1)}, l.Elems())

	m := yamlToValue(map[string]interface{}{"k": "v"})
	mv, ok := m.(*values.Map)
	require.True(t, ok)
	got, found, err := mv.Get(values.String("k"))
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, values.String("v"), got)
}
