// Package config loads project-level settings for codelens.
package config

import (
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// ProjectConfig holds project-level settings loaded from codelens.yml.
type ProjectConfig struct {
	// DBPath is where the persistent fact store lives. Empty selects an
	// in-memory store.
	DBPath string `yaml:"dbPath,omitempty"`

	// Languages restricts indexing to the named languages.
	Languages []string `yaml:"languages,omitempty"`

	// ExcludeDirs are directory names skipped during corpus walks.
	ExcludeDirs []string `yaml:"excludeDirs,omitempty"`

	// ExcludePatterns are glob patterns matched against relative paths.
	ExcludePatterns []string `yaml:"excludePatterns,omitempty"`

	// Workers bounds parallel extraction; zero means one per CPU.
	Workers int `yaml:"workers,omitempty"`

	Verbose bool `yaml:"verbose,omitempty"`
}

// Load attempts to read codelens.yml or codelens.yaml from the given
// directory. Returns a zero-value config (not an error) if no config file
// exists.
func Load(dir string) (*ProjectConfig, error) {
	for _, name := range []string{"codelens.yml", "codelens.yaml"} {
		path := filepath.Join(dir, name)
		data, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		var cfg ProjectConfig
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, err
		}
		return &cfg, nil
	}
	return &ProjectConfig{}, nil
}
