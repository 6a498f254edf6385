package cmd

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jpfielding/glitch.go/pkg/glitch"
	"github.com/jpfielding/glitch.go/pkg/imageio"
	"github.com/jpfielding/glitch.go/pkg/preset"
	"github.com/spf13/cobra"
)

func NewSortCmd(ctx context.Context) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sort <image>",
		Short: "pixel sort an image",
		Long:  "sort runs of pixels along each traversal line by a key; flags override values from --preset",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			in := args[0]
			p, err := loadPreset(cmd)
			if err != nil {
				return err
			}
			section := preset.SortSection{}
			if p.Sort != nil {
				section = *p.Sort
			}
			if err := sortOverrides(cmd, &section); err != nil {
				return err
			}
			section.Seed = preset.ResolveSeed(section.Seed)
			for i := range p.Channels {
				p.Channels[i].Seed = preset.ResolveSeed(p.Channels[i].Seed)
			}
			split, _ := cmd.Flags().GetBool("channels")
			mono, _ := cmd.Flags().GetBool("mono")
			if split && mono {
				return fmt.Errorf("%w: --channels and --mono are exclusive", glitch.ErrConfig)
			}
			mode := imageio.ModeAuto
			if mono {
				mode = imageio.ModeMono
			} else if split {
				mode = imageio.ModeRGB
			}

			buf, err := imageio.LoadBuffer(in, mode)
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			var out *glitch.Buffer
			if split {
				cfgs, err := channelConfigs(p, section)
				if err != nil {
					return err
				}
				out, err = glitch.SortChannels(buf, cfgs)
				if err != nil {
					return err
				}
			} else {
				cfg, err := section.Config()
				if err != nil {
					return err
				}
				slog.DebugContext(ctx, "sort", "traversal", cfg.Traversal.Kind, "chunker", cfg.Chunker.Name(), "key", cfg.Key.Name, "seed", cfg.Seed)
				out, err = glitch.Sort(buf, cfg)
				if err != nil {
					return err
				}
			}
			dst, err := outputPath(cmd, in, sortSettings(section, mono, split, p))
			if err != nil {
				return err
			}
			if err := imageio.SaveBuffer(dst, out); err != nil {
				return err
			}
			slog.InfoContext(ctx, "sorted", "in", in, "out", dst, "width", out.Width, "height", out.Height)
			fmt.Fprintln(cmd.OutOrStdout(), dst)
			return nil
		},
	}
	f := cmd.Flags()
	ioFlags(cmd)
	f.String("traversal", "rows", "traversal: "+joinNames(glitch.TraversalNames()))
	f.Bool("flip", false, "walk diagonals the other way")
	f.String("chunking", "linear", "chunking: "+joinNames(glitch.ChunkerNames()))
	f.Int("size", 0, "shutter size in pixels (0 = a tenth of the line)")
	f.Int("min", 0, "variable shutter minimum in pixels")
	f.Int("max", 0, "variable shutter maximum in pixels")
	f.Float64("fraction", 0, "shutter size as a fraction of the line")
	f.Float64("min-fraction", 0, "variable shutter minimum as a fraction of the line")
	f.Float64("max-fraction", 0, "variable shutter maximum as a fraction of the line")
	f.Int("tracer-length", 0, "tracer trail length in pixels")
	f.Int("border-width", 0, "tracer border width in pixels")
	f.Float64("threshold", 0, "tracer border threshold in [0,1]")
	f.String("key", "brightness", "sort key: "+joinNames(glitch.KeyNames()))
	f.Bool("reverse", false, "sort descending")
	f.Float64Slice("mods", nil, "post-sort color multipliers r,g,b")
	f.IntSlice("region", nil, "limit to left,top,right,bottom")
	f.Int64("seed", 0, "seed for randomized chunking, -1 for time based")
	f.Bool("mono", false, "convert the image to luma before sorting")
	f.Bool("channels", false, "sort each RGB channel as its own band")
	return cmd
}

// sortOverrides copies every explicitly set flag over the preset section
func sortOverrides(cmd *cobra.Command, s *preset.SortSection) error {
	f := cmd.Flags()
	var err error
	set := func(name string, fn func() error) {
		if err == nil && f.Changed(name) {
			err = fn()
		}
	}
	set("traversal", func() (e error) { s.Traversal, e = f.GetString("traversal"); return })
	set("flip", func() (e error) { s.Flip, e = f.GetBool("flip"); return })
	set("chunking", func() (e error) { s.Chunking, e = f.GetString("chunking"); return })
	set("size", func() (e error) { s.Chunk.Size, e = f.GetInt("size"); return })
	set("min", func() (e error) { s.Chunk.Min, e = f.GetInt("min"); return })
	set("max", func() (e error) { s.Chunk.Max, e = f.GetInt("max"); return })
	set("fraction", func() (e error) { s.Chunk.Fraction, e = f.GetFloat64("fraction"); return })
	set("min-fraction", func() (e error) { s.Chunk.MinFraction, e = f.GetFloat64("min-fraction"); return })
	set("max-fraction", func() (e error) { s.Chunk.MaxFraction, e = f.GetFloat64("max-fraction"); return })
	set("tracer-length", func() (e error) { s.Chunk.TracerLength, e = f.GetInt("tracer-length"); return })
	set("border-width", func() (e error) { s.Chunk.BorderWidth, e = f.GetInt("border-width"); return })
	set("threshold", func() (e error) { s.Chunk.Threshold, e = f.GetFloat64("threshold"); return })
	set("key", func() (e error) { s.Key, e = f.GetString("key"); return })
	set("reverse", func() (e error) { s.Reverse, e = f.GetBool("reverse"); return })
	set("mods", func() (e error) { s.ColorMods, e = f.GetFloat64Slice("mods"); return })
	set("region", func() (e error) { s.Region, e = f.GetIntSlice("region"); return })
	set("seed", func() (e error) { s.Seed, e = f.GetInt64("seed"); return })
	return err
}

// sortSettings is everything that shapes a sort result, hashed into the
// default output name
func sortSettings(s preset.SortSection, mono, split bool, p *preset.Preset) any {
	settings := struct {
		Sort     preset.SortSection   `json:"sort"`
		Mono     bool                 `json:"mono"`
		Channels bool                 `json:"channels"`
		Bands    []preset.SortSection `json:"bands,omitempty"`
	}{Sort: s, Mono: mono, Channels: split}
	if split {
		settings.Bands = p.Channels
	}
	return settings
}

// channelConfigs prefers the preset's [[channels]] tables, otherwise every
// band gets the flag section with its own channel multiplier
func channelConfigs(p *preset.Preset, s preset.SortSection) ([3]glitch.SortConfig, error) {
	if len(p.Channels) > 0 {
		return p.ChannelConfigs()
	}
	var cfgs [3]glitch.SortConfig
	cfg, err := s.Config()
	if err != nil {
		return cfgs, err
	}
	for c := range cfgs {
		cfgs[c] = cfg
		cfgs[c].ColorMods = [3]float64{cfg.ColorMods[c], 1, 1}
	}
	return cfgs, nil
}
