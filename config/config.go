// Package config describes a recombination run, as read from a YAML file.
//
// A typical file looks like:
//
//	nk:
//	  m: 40
//	  k: 3
//	  n: 50
//	seed: 12
//	pairs: 100
//	workers: 4
//	check: true
//	log: info
//
// Unknown keys are rejected.
package config

import (
	"io"
	"os"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

// NKConfig are the parameters of a random NK landscape.
type NKConfig struct {
	M int `yaml:"m"` // Number of sub-functions.
	K int `yaml:"k"` // Number of vars per sub-function.
	N int `yaml:"n"` // Number of vars.
}

// Config describes a run.
type Config struct {
	Instance      string    `yaml:"instance"` // Path to a WCNF or CNF file.
	NK            *NKConfig `yaml:"nk"`       // Used when Instance is empty.
	Seed          int64     `yaml:"seed"`
	Pairs         int       `yaml:"pairs"`
	Workers       int       `yaml:"workers"`
	Check         bool      `yaml:"check"` // Compare each offspring with a brute force search.
	MaxCliqueSize int       `yaml:"max_clique_size"`
	Verbose       bool      `yaml:"verbose"` // Print statistics about each recombination.
	Log           string    `yaml:"log"`
	MetricsOut    string    `yaml:"metrics_out"`
}

// Default returns the configuration used when nothing is specified.
func Default() Config {
	return Config{
		Seed:    1,
		Pairs:   1,
		Workers: 1,
		Log:     "warn",
	}
}

// Load reads a YAML configuration from r. Missing keys keep their default value.
func Load(r io.Reader) (Config, error) {
	cfg := Default()
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && err != io.EOF {
		return cfg, errors.Wrap(err, "could not parse configuration")
	}
	return cfg, nil
}

// LoadFile reads a YAML configuration from the file at path.
func LoadFile(path string) (Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return Default(), errors.Wrapf(err, "could not open configuration %q", path)
	}
	defer f.Close()
	return Load(f)
}

// Validate checks the configuration is usable.
func (c Config) Validate() error {
	switch {
	case c.Instance == "" && c.NK == nil:
		return errors.New("no instance: either a file or NK parameters are needed")
	case c.Instance != "" && c.NK != nil:
		return errors.New("both an instance file and NK parameters were given")
	case c.Pairs <= 0:
		return errors.Errorf("invalid number of pairs %d", c.Pairs)
	case c.Workers < 0:
		return errors.Errorf("invalid number of workers %d", c.Workers)
	case c.MaxCliqueSize < 0:
		return errors.Errorf("invalid max clique size %d", c.MaxCliqueSize)
	}
	if c.NK != nil && (c.NK.M <= 0 || c.NK.K <= 0 || c.NK.N <= 0) {
		return errors.Errorf("invalid NK parameters m=%d k=%d n=%d", c.NK.M, c.NK.K, c.NK.N)
	}
	if _, err := logrus.ParseLevel(c.Log); err != nil {
		return errors.Wrap(err, "invalid log level")
	}
	return nil
}
