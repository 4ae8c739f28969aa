// config.go - generator configuration
//
// Copyright 2013-2017 Sudhi Herle <sudhi.herle-at-gmail-dot-com>
// License: MIT
//

package dhke

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	jsoniter "github.com/json-iterator/go"
	stripjsoncomments "github.com/trapcodeio/go-strip-json-comments"
	"gopkg.in/yaml.v3"
)

// MinBits is the smallest BitLower that can contain a strong prime
// (p = 7 is the first value of the form 4k+3 with k >= 1).
const MinBits = 3

// Config tunes a strong prime search. Generated primes satisfy
// BitLower <= p.BitLen() < BitUpper.
type Config struct {
	BitLower int `yaml:"bit_lower" json:"bit_lower"`
	BitUpper int `yaml:"bit_upper" json:"bit_upper"`

	// DebugInterval > 0 emits a Progress record every DebugInterval
	// iterations. Zero disables progress records.
	DebugInterval int `yaml:"debug_interval" json:"debug_interval"`

	// MaxIterations > 0 caps the search; zero searches until success.
	MaxIterations int `yaml:"max_iterations" json:"max_iterations"`

	// Rounds is the Miller-Rabin round count of the default oracle.
	Rounds int `yaml:"rounds" json:"rounds"`
}

// DefaultConfig returns the production scale configuration: 1024 to
// 1033 bit primes, i.e. witnesses k in [2^1021, 2^1030).
func DefaultConfig() Config {
	return Config{
		BitLower: 1024,
		BitUpper: 1033,
		Rounds:   DefaultRounds,
	}
}

// Validate checks c before any sampling happens.
func (c *Config) Validate() error {
	if c.BitLower < MinBits {
		return fmt.Errorf("%w: bit_lower %d < %d", ErrInvalidRange, c.BitLower, MinBits)
	}
	if c.BitLower >= c.BitUpper {
		return fmt.Errorf("%w: bit_lower %d >= bit_upper %d", ErrInvalidRange, c.BitLower, c.BitUpper)
	}
	if c.DebugInterval < 0 {
		return fmt.Errorf("%w: negative debug_interval %d", ErrInvalidConfig, c.DebugInterval)
	}
	if c.MaxIterations < 0 {
		return fmt.Errorf("%w: negative max_iterations %d", ErrInvalidConfig, c.MaxIterations)
	}
	if c.Rounds < 0 {
		return fmt.Errorf("%w: negative rounds %d", ErrInvalidConfig, c.Rounds)
	}
	return nil
}

// LoadConfig reads a YAML (.yaml, .yml) or JSON (.json) file on top of
// DefaultConfig. JSON files may carry // and /* */ comments.
func LoadConfig(path string) (Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}

	ext := strings.ToLower(filepath.Ext(path))
	c, err := ParseConfig(b, strings.TrimPrefix(ext, "."))
	if err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return c, nil
}

// ParseConfig decodes b in the given format ("yaml", "yml" or "json")
// on top of DefaultConfig and validates the result.
func ParseConfig(b []byte, format string) (Config, error) {
	c := DefaultConfig()

	switch format {
	case "yaml", "yml":
		if err := yaml.Unmarshal(b, &c); err != nil {
			return Config{}, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
		}

	case "json":
		s := stripjsoncomments.Strip(string(b))
		if err := jsoniter.ConfigCompatibleWithStandardLibrary.UnmarshalFromString(s, &c); err != nil {
			return Config{}, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
		}

	default:
		return Config{}, fmt.Errorf("%w: unknown config format %q", ErrInvalidConfig, format)
	}

	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}
