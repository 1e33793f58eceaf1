package maincmd

import (
	"fmt"
	"os"

	"github.com/mna/wisp/lang/runtime"
	"github.com/mna/wisp/lang/values"
	"gopkg.in/yaml.v3"
)

// projectConfig is the optional `.wisprc.yaml` project manifest
// SPEC_FULL.md §4.5 adds: extra source roots and predeclared constants
// exposed to every module's free set alongside the standard builtins.
type projectConfig struct {
	SourceRoots []string               `yaml:"source_roots"`
	Constants   map[string]interface{} `yaml:"constants"`
}

// loadProjectConfig reads path if it exists; a missing file is not an
// error, since the project manifest is optional.
func loadProjectConfig(path string) (*projectConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &projectConfig{}, nil
		}
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	var cfg projectConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return &cfg, nil
}

// apply registers cfg's source roots and predeclared constants on g. It is
// a no-op on a zero-value projectConfig (no `.wisprc.yaml` found).
func (cfg *projectConfig) apply(g *runtime.Globals) {
	for _, root := range cfg.SourceRoots {
		g.AddSourceRoot(root)
	}
	for name, raw := range cfg.Constants {
		g.AddConstant(name, yamlToValue(raw))
	}
}

// yamlToValue converts a yaml.v3-decoded scalar/sequence/mapping into the
// language's own value universe. Unrecognized shapes become nil rather
// than failing the whole manifest load: a predeclared constant of a type
// this conversion doesn't understand is simply absent, not fatal.
func yamlToValue(raw interface{}) values.Value {
	switch v := raw.(type) {
	case nil:
		return values.TheNil
	case bool:
		return values.Bool(v)
	case int:
		return values.Number(v)
	case int64:
		return values.Number(v)
	case float64:
		return values.Number(v)
	case string:
		return values.String(v)
	case []interface{}:
		elems := make([]values.Value, len(v))
		for i, e := range v {
			elems[i] = yamlToValue(e)
		}
		return values.NewList(elems)
	case map[string]interface{}:
		m := values.NewMap(len(v))
		for k, e := range v {
			// error is impossible: m was just constructed and is not being
			// iterated concurrently.
			_ = m.SetKey(values.String(k), yamlToValue(e))
		}
		return m
	default:
		return values.TheNil
	}
}
