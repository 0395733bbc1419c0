package model

import "runtime"

// Config holds the settings for a create or watch run.
// Fields map to the keys of the optional --config file.
type Config struct {
	Bindings string `yaml:"bindings" mapstructure:"bindings"` // Path to the namespace bindings file
	Format   string `yaml:"format" mapstructure:"format"`     // Output serialization format
	Output   string `yaml:"output" mapstructure:"output"`     // Output base name, empty for stdout
	BaseURI  string `yaml:"base_uri" mapstructure:"base_uri"` // Switches subjects from blank to named
	Workers  int    `yaml:"workers" mapstructure:"workers"`   // Concurrent mappers, 1 maps sequentially
	Atomic   bool   `yaml:"atomic" mapstructure:"atomic"`     // Roll back the graph on a failed batch
	Verbose  bool   `yaml:"verbose" mapstructure:"verbose"`
}

// DefaultConfig returns the settings used when no config file or flag overrides them
func DefaultConfig() *Config {
	return &Config{
		Format:  "turtle",
		Workers: 1,
	}
}

// Normalize clamps values that would make a run meaningless
func (c *Config) Normalize() {
	if c.Workers <= 0 {
		c.Workers = 1
	}
	if c.Workers > 4*runtime.NumCPU() {
		c.Workers = 4 * runtime.NumCPU()
	}
	if c.Format == "" {
		c.Format = "turtle"
	}
}
