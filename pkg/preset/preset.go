// Package preset loads glitch configurations from TOML files.
//
// A preset may hold a [sort] table, an [offset] table, and three
// [[channels]] tables for per-channel sorting:
//
//	[sort]
//	traversal = "diagonals"
//	flip = true
//	chunking = "tracers"
//	key = "hue"
//	reverse = true
//	color_mods = [1.0, 0.9, 1.2]
//	region = [0, 0, 640, 480]
//	seed = 7
//
//	[sort.chunk]
//	tracer_length = 60
//	border_width = 3
//	threshold = 0.3
//
//	[offset]
//	traversal = "columns"
//	function = "sine"
//	wrap = true
//	aura = [0.5, 0.5, 0.5]
//
//	[offset.params]
//	amplitude = 48
//	inv_wavelength = 0.01
package preset

import (
	"fmt"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/jpfielding/glitch.go/pkg/glitch"
)

// Preset is the decoded form of a preset file
type Preset struct {
	Sort     *SortSection   `toml:"sort"`
	Offset   *OffsetSection `toml:"offset"`
	Channels []SortSection  `toml:"channels"`
}

// SortSection describes one sort pass. Empty selectors fall back to rows,
// linear chunking and the brightness key.
type SortSection struct {
	Traversal string             `toml:"traversal"`
	Flip      bool               `toml:"flip"`
	Chunking  string             `toml:"chunking"`
	Chunk     glitch.ChunkParams `toml:"chunk"`
	Key       string             `toml:"key"`
	Reverse   bool               `toml:"reverse"`
	ColorMods []float64          `toml:"color_mods"`
	Region    []int              `toml:"region"`
	// Seed below zero asks for a time-derived seed
	Seed int64 `toml:"seed"`
}

// OffsetSection describes one offset pass. Wrap defaults to true.
type OffsetSection struct {
	Traversal string              `toml:"traversal"`
	Flip      bool                `toml:"flip"`
	Function  string              `toml:"function"`
	Params    glitch.OffsetParams `toml:"params"`
	Wrap      *bool               `toml:"wrap"`
	Aura      []float64           `toml:"aura"`
	Region    []int               `toml:"region"`
	Seed      int64               `toml:"seed"`
}

// Load decodes a preset file. Unknown keys are rejected so typos do not
// silently fall back to defaults.
func Load(path string) (*Preset, error) {
	var p Preset
	md, err := toml.DecodeFile(path, &p)
	if err != nil {
		return nil, fmt.Errorf("%w: preset %s: %v", glitch.ErrConfig, path, err)
	}
	return &p, checkUndecoded(md)
}

// Parse decodes preset text
func Parse(data string) (*Preset, error) {
	var p Preset
	md, err := toml.Decode(data, &p)
	if err != nil {
		return nil, fmt.Errorf("%w: preset: %v", glitch.ErrConfig, err)
	}
	return &p, checkUndecoded(md)
}

func checkUndecoded(md toml.MetaData) error {
	if keys := md.Undecoded(); len(keys) > 0 {
		names := make([]string, len(keys))
		for i, k := range keys {
			names[i] = k.String()
		}
		return fmt.Errorf("%w: unknown preset keys: %s", glitch.ErrConfig, strings.Join(names, ", "))
	}
	return nil
}

// ResolveSeed turns a negative seed into one derived from the clock
func ResolveSeed(seed int64) int64 {
	if seed < 0 {
		return time.Now().UTC().UnixNano()
	}
	return seed
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

func traversal(name string, flip bool) (glitch.Traversal, error) {
	kind, err := glitch.ParseTraversal(orDefault(name, "rows"))
	if err != nil {
		return glitch.Traversal{}, err
	}
	return glitch.Traversal{Kind: kind, Flip: flip}, nil
}

func triple(name string, v []float64, def [3]float64) (*[3]float64, error) {
	if len(v) == 0 {
		return &def, nil
	}
	if len(v) != 3 {
		return nil, fmt.Errorf("%w: %s needs 3 values, got %d", glitch.ErrConfig, name, len(v))
	}
	return &[3]float64{v[0], v[1], v[2]}, nil
}

func region(v []int) (*glitch.Rect, error) {
	switch len(v) {
	case 0:
		return nil, nil
	case 4:
		return &glitch.Rect{Left: v[0], Top: v[1], Right: v[2], Bottom: v[3]}, nil
	}
	return nil, fmt.Errorf("%w: region needs 4 values (left, top, right, bottom), got %d", glitch.ErrConfig, len(v))
}

// Config resolves every selector of the section into an engine configuration
func (s SortSection) Config() (glitch.SortConfig, error) {
	var cfg glitch.SortConfig
	var err error
	if cfg.Traversal, err = traversal(s.Traversal, s.Flip); err != nil {
		return cfg, err
	}
	if cfg.Chunker, err = glitch.ChunkerByName(orDefault(s.Chunking, "linear"), s.Chunk); err != nil {
		return cfg, err
	}
	if cfg.Key, err = glitch.KeyByName(orDefault(s.Key, "brightness")); err != nil {
		return cfg, err
	}
	mods, err := triple("color_mods", s.ColorMods, glitch.IdentityMods)
	if err != nil {
		return cfg, err
	}
	cfg.ColorMods = *mods
	if cfg.Region, err = region(s.Region); err != nil {
		return cfg, err
	}
	cfg.Reverse = s.Reverse
	cfg.Seed = ResolveSeed(s.Seed)
	return cfg, nil
}

// Config resolves every selector of the section into an engine configuration
func (s OffsetSection) Config() (glitch.OffsetConfig, error) {
	var cfg glitch.OffsetConfig
	var err error
	if cfg.Traversal, err = traversal(s.Traversal, s.Flip); err != nil {
		return cfg, err
	}
	if cfg.Offsetter, err = glitch.OffsetterByName(orDefault(s.Function, "static"), s.Params); err != nil {
		return cfg, err
	}
	if len(s.Aura) > 0 {
		if cfg.Aura, err = triple("aura", s.Aura, [3]float64{}); err != nil {
			return cfg, err
		}
	}
	if cfg.Region, err = region(s.Region); err != nil {
		return cfg, err
	}
	cfg.Wrap = s.Wrap == nil || *s.Wrap
	cfg.Seed = ResolveSeed(s.Seed)
	return cfg, cfg.Validate()
}

// ChannelConfigs resolves the three [[channels]] tables, in R, G, B order
func (p *Preset) ChannelConfigs() ([3]glitch.SortConfig, error) {
	var cfgs [3]glitch.SortConfig
	if len(p.Channels) != 3 {
		return cfgs, fmt.Errorf("%w: channels needs 3 tables, got %d", glitch.ErrConfig, len(p.Channels))
	}
	for c, s := range p.Channels {
		cfg, err := s.Config()
		if err != nil {
			return cfgs, fmt.Errorf("channel %d: %w", c, err)
		}
		cfgs[c] = cfg
	}
	return cfgs, nil
}
