// Package config loads and validates the three integer parameters that
// configure a Tomasulo simulation run: the common-data-bus slot count
// ("ROB size" in the original design), the per-type functional-unit mix,
// and the fetch width.
//
// Its shape follows a JSON-tagged struct with a Default constructor,
// Load/Save backed by encoding/json and os.ReadFile/os.WriteFile, and a
// Validate method that rejects settings the engine could never make
// progress with.
package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/sarchlab/tomasim/tomasulo"
)

// Config is the external, serializable form of a simulation's
// configuration.
type Config struct {
	// CDBSlots is the number of common-data-bus broadcast slots ("r" /
	// "ROB size" in the original design - the design notes record that
	// this core has no true reorder buffer, so the field is named for
	// what it actually gates: CDB broadcasts per cycle).
	CDBSlots uint64 `json:"cdb_slots"`

	// FUCounts is the number of functional units of each of the three
	// types.
	FUCounts [tomasulo.NumFUTypes]uint64 `json:"fu_counts"`

	// FetchWidth is the number of instructions fetched per cycle.
	FetchWidth uint64 `json:"fetch_width"`
}

// DefaultConfig returns the original design's default parameters:
// r=8, k=(1,2,3), f=4.
func DefaultConfig() *Config {
	return &Config{
		CDBSlots:   8,
		FUCounts:   [tomasulo.NumFUTypes]uint64{1, 2, 3},
		FetchWidth: 4,
	}
}

// Load reads a Config from a JSON file, starting from DefaultConfig so
// that a partial file only overrides the fields it sets.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read simulator config file: %w", err)
	}

	cfg := DefaultConfig()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse simulator config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid simulator config: %w", err)
	}

	return cfg, nil
}

// Save writes c to path as indented JSON.
func (c *Config) Save(path string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to serialize simulator config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write simulator config file: %w", err)
	}
	return nil
}

// Validate rejects configurations the engine could never make progress
// with: a zero fetch width (fetch never runs), an all-zero functional
// unit mix (the scheduling queue would have zero capacity and no
// reservation station could ever fire), or zero CDB slots (no executed
// instruction could ever broadcast or retire).
func (c *Config) Validate() error {
	if c.FetchWidth == 0 {
		return fmt.Errorf("fetch_width must be > 0")
	}
	if c.CDBSlots == 0 {
		return fmt.Errorf("cdb_slots must be > 0")
	}
	var total uint64
	for _, k := range c.FUCounts {
		total += k
	}
	if total == 0 {
		return fmt.Errorf("fu_counts must sum to > 0")
	}
	return nil
}

// EngineConfig converts c to the tomasulo.Config the engine consumes.
func (c *Config) EngineConfig() tomasulo.Config {
	return tomasulo.Config{
		CDBSlots:   c.CDBSlots,
		FUCounts:   c.FUCounts,
		FetchWidth: c.FetchWidth,
	}
}

// Clone returns a deep copy of c.
func (c *Config) Clone() *Config {
	clone := *c
	return &clone
}
