// Package veloconfig holds the JSON-loadable tunables for the three
// track-finding engines, following the same optional-pointer-field
// pattern the rest of this codebase uses for runtime configuration:
// every field is a pointer so a config file can override a subset of
// defaults, and Get* accessors resolve nil fields to the spec-mandated
// defaults.
package veloconfig

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// EngineConfig holds overridable parameters for all three engines.
// Fields left nil fall back to the defaults documented in the core
// specification (§4.2-§4.4).
type EngineConfig struct {
	// Track-Following (C)
	TFMaxSlopeX           *float64 `json:"tf_max_slope_x,omitempty"`
	TFMaxSlopeY           *float64 `json:"tf_max_slope_y,omitempty"`
	TFMaxToleranceX       *float64 `json:"tf_max_tolerance_x,omitempty"`
	TFMaxToleranceY       *float64 `json:"tf_max_tolerance_y,omitempty"`
	TFMaxScatter          *float64 `json:"tf_max_scatter,omitempty"`
	TFMinTrackLength      *int     `json:"tf_min_track_length,omitempty"`
	TFMinStrongTrackLen   *int     `json:"tf_min_strong_track_length,omitempty"`

	// Graph-DFS (D)
	GDMaxSlopeX              *float64 `json:"gd_max_slope_x,omitempty"`
	GDMaxSlopeY              *float64 `json:"gd_max_slope_y,omitempty"`
	GDMaxToleranceX          *float64 `json:"gd_max_tolerance_x,omitempty"`
	GDMaxToleranceY          *float64 `json:"gd_max_tolerance_y,omitempty"`
	GDMaxScatter             *float64 `json:"gd_max_scatter,omitempty"`
	GDMinimumRootWeight      *int     `json:"gd_minimum_root_weight,omitempty"`
	GDWeightAssignIterations *int     `json:"gd_weight_assignment_iterations,omitempty"`
	GDAllowedSkipModules     *int     `json:"gd_allowed_skip_modules,omitempty"`
	GDAllowCrossTrack        *bool    `json:"gd_allow_cross_track,omitempty"`
	GDCloneGhostKilling      *bool    `json:"gd_clone_ghost_killing,omitempty"`

	// Search-by-Triplet-Trie (E)
	STMaxScatter            *float64 `json:"st_max_scatter,omitempty"`
	STMinTrackLength        *int     `json:"st_min_track_length,omitempty"`
	STMinStrongTrackLen     *int     `json:"st_min_strong_track_length,omitempty"`
	STAllowedMissedModules  *int     `json:"st_allowed_missed_modules,omitempty"`
}

func ptrFloat64(v float64) *float64 { return &v }
func ptrInt(v int) *int             { return &v }
func ptrBool(v bool) *bool          { return &v }

// EmptyEngineConfig returns a config with every field nil, so every
// accessor resolves to its hardcoded default.
func EmptyEngineConfig() *EngineConfig {
	return &EngineConfig{}
}

// LoadEngineConfig reads and validates a JSON engine config file.
func LoadEngineConfig(path string) (*EngineConfig, error) {
	if filepath.Ext(path) != ".json" {
		return nil, fmt.Errorf("veloconfig: config file must have .json extension: %s", path)
	}
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("veloconfig: stat %s: %w", path, err)
	}
	if info.Size() > 1<<20 {
		return nil, fmt.Errorf("veloconfig: config file %s exceeds 1MB limit", path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("veloconfig: read %s: %w", path, err)
	}
	cfg := &EngineConfig{}
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("veloconfig: parse %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("veloconfig: invalid config %s: %w", path, err)
	}
	return cfg, nil
}

// MustLoadDefaultEngineConfig searches a small set of relative path
// candidates for a default engine config file and panics if none is
// found. Intended for tests and binaries that have already validated
// config availability.
func MustLoadDefaultEngineConfig() *EngineConfig {
	candidates := []string{
		"engine.defaults.json",
		"config/engine.defaults.json",
		"../config/engine.defaults.json",
		"../../config/engine.defaults.json",
	}
	for _, c := range candidates {
		if _, err := os.Stat(c); err == nil {
			cfg, err := LoadEngineConfig(c)
			if err == nil {
				return cfg
			}
		}
	}
	panic("veloconfig: no default engine config found among candidate paths")
}

// Validate checks that any set fields are within sane ranges.
func (c *EngineConfig) Validate() error {
	if c.TFMinTrackLength != nil && *c.TFMinTrackLength < 2 {
		return fmt.Errorf("tf_min_track_length must be >= 2")
	}
	if c.STMinTrackLength != nil && *c.STMinTrackLength < 2 {
		return fmt.Errorf("st_min_track_length must be >= 2")
	}
	if c.GDWeightAssignIterations != nil && *c.GDWeightAssignIterations < 1 {
		return fmt.Errorf("gd_weight_assignment_iterations must be >= 1")
	}
	return nil
}

// --- Track-Following accessors ---

func (c *EngineConfig) GetTFMaxSlopeX() float64 {
	if c == nil || c.TFMaxSlopeX == nil {
		return 0.7
	}
	return *c.TFMaxSlopeX
}

func (c *EngineConfig) GetTFMaxSlopeY() float64 {
	if c == nil || c.TFMaxSlopeY == nil {
		return 0.7
	}
	return *c.TFMaxSlopeY
}

func (c *EngineConfig) GetTFMaxToleranceX() float64 {
	if c == nil || c.TFMaxToleranceX == nil {
		return 0.4
	}
	return *c.TFMaxToleranceX
}

func (c *EngineConfig) GetTFMaxToleranceY() float64 {
	if c == nil || c.TFMaxToleranceY == nil {
		return 0.4
	}
	return *c.TFMaxToleranceY
}

func (c *EngineConfig) GetTFMaxScatter() float64 {
	if c == nil || c.TFMaxScatter == nil {
		return 0.4
	}
	return *c.TFMaxScatter
}

func (c *EngineConfig) GetTFMinTrackLength() int {
	if c == nil || c.TFMinTrackLength == nil {
		return 3
	}
	return *c.TFMinTrackLength
}

func (c *EngineConfig) GetTFMinStrongTrackLength() int {
	if c == nil || c.TFMinStrongTrackLen == nil {
		return 4
	}
	return *c.TFMinStrongTrackLen
}

// --- Graph-DFS accessors ---

func (c *EngineConfig) GetGDMaxSlopeX() float64 {
	if c == nil || c.GDMaxSlopeX == nil {
		return 0.7
	}
	return *c.GDMaxSlopeX
}

func (c *EngineConfig) GetGDMaxSlopeY() float64 {
	if c == nil || c.GDMaxSlopeY == nil {
		return 0.7
	}
	return *c.GDMaxSlopeY
}

func (c *EngineConfig) GetGDMaxToleranceX() float64 {
	if c == nil || c.GDMaxToleranceX == nil {
		return 0.4
	}
	return *c.GDMaxToleranceX
}

func (c *EngineConfig) GetGDMaxToleranceY() float64 {
	if c == nil || c.GDMaxToleranceY == nil {
		return 0.4
	}
	return *c.GDMaxToleranceY
}

func (c *EngineConfig) GetGDMaxScatter() float64 {
	if c == nil || c.GDMaxScatter == nil {
		return 0.4
	}
	return *c.GDMaxScatter
}

func (c *EngineConfig) GetGDMinimumRootWeight() int {
	if c == nil || c.GDMinimumRootWeight == nil {
		return 1
	}
	return *c.GDMinimumRootWeight
}

func (c *EngineConfig) GetGDWeightAssignmentIterations() int {
	if c == nil || c.GDWeightAssignIterations == nil {
		return 2
	}
	return *c.GDWeightAssignIterations
}

func (c *EngineConfig) GetGDAllowedSkipModules() int {
	if c == nil || c.GDAllowedSkipModules == nil {
		return 1
	}
	return *c.GDAllowedSkipModules
}

func (c *EngineConfig) GetGDAllowCrossTrack() bool {
	if c == nil || c.GDAllowCrossTrack == nil {
		return true
	}
	return *c.GDAllowCrossTrack
}

func (c *EngineConfig) GetGDCloneGhostKilling() bool {
	if c == nil || c.GDCloneGhostKilling == nil {
		return true
	}
	return *c.GDCloneGhostKilling
}

// --- Search-by-Triplet-Trie accessors ---

func (c *EngineConfig) GetSTMaxScatter() float64 {
	if c == nil || c.STMaxScatter == nil {
		return 0.1
	}
	return *c.STMaxScatter
}

func (c *EngineConfig) GetSTMinTrackLength() int {
	if c == nil || c.STMinTrackLength == nil {
		return 3
	}
	return *c.STMinTrackLength
}

func (c *EngineConfig) GetSTMinStrongTrackLength() int {
	if c == nil || c.STMinStrongTrackLen == nil {
		return 4
	}
	return *c.STMinStrongTrackLen
}

func (c *EngineConfig) GetSTAllowedMissedModules() int {
	if c == nil || c.STAllowedMissedModules == nil {
		return 2
	}
	return *c.STAllowedMissedModules
}

// DefaultEngineConfig returns a config with every field explicitly set
// to the spec-mandated default, useful as a starting point for a
// config file a deployment wants to partially override.
func DefaultEngineConfig() *EngineConfig {
	return &EngineConfig{
		TFMaxSlopeX:         ptrFloat64(0.7),
		TFMaxSlopeY:         ptrFloat64(0.7),
		TFMaxToleranceX:     ptrFloat64(0.4),
		TFMaxToleranceY:     ptrFloat64(0.4),
		TFMaxScatter:        ptrFloat64(0.4),
		TFMinTrackLength:    ptrInt(3),
		TFMinStrongTrackLen: ptrInt(4),

		GDMaxSlopeX:              ptrFloat64(0.7),
		GDMaxSlopeY:              ptrFloat64(0.7),
		GDMaxToleranceX:          ptrFloat64(0.4),
		GDMaxToleranceY:          ptrFloat64(0.4),
		GDMaxScatter:             ptrFloat64(0.4),
		GDMinimumRootWeight:      ptrInt(1),
		GDWeightAssignIterations: ptrInt(2),
		GDAllowedSkipModules:     ptrInt(1),
		GDAllowCrossTrack:        ptrBool(true),
		GDCloneGhostKilling:      ptrBool(true),

		STMaxScatter:           ptrFloat64(0.1),
		STMinTrackLength:       ptrInt(3),
		STMinStrongTrackLen:    ptrInt(4),
		STAllowedMissedModules: ptrInt(2),
	}
}
