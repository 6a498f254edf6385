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

func NewOffsetCmd(ctx context.Context) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "offset <image>",
		Short: "rotate each traversal line by a per-line offset",
		Long:  "rotate each traversal line by the offset function's value for that line; flags override values from --preset",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			in := args[0]
			p, err := loadPreset(cmd)
			if err != nil {
				return err
			}
			section := preset.OffsetSection{}
			if p.Offset != nil {
				section = *p.Offset
			}
			if err := offsetOverrides(cmd, &section); err != nil {
				return err
			}
			section.Seed = preset.ResolveSeed(section.Seed)
			cfg, err := section.Config()
			if err != nil {
				return err
			}
			buf, err := imageio.LoadBuffer(in, imageio.ModeAuto)
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			slog.DebugContext(ctx, "offset", "traversal", cfg.Traversal.Kind, "func", cfg.Offsetter.Name(), "wrap", cfg.Wrap, "seed", cfg.Seed)
			out, err := glitch.Offset(buf, cfg)
			if err != nil {
				return err
			}
			dst, err := outputPath(cmd, in, section)
			if err != nil {
				return err
			}
			if err := imageio.SaveBuffer(dst, out); err != nil {
				return err
			}
			slog.InfoContext(ctx, "offset", "in", in, "out", dst, "width", out.Width, "height", out.Height)
			fmt.Fprintln(cmd.OutOrStdout(), dst)
			return nil
		},
	}
	f := cmd.Flags()
	ioFlags(cmd)
	f.String("traversal", "rows", "traversal: "+joinNames(glitch.TraversalNames()))
	f.Bool("flip", false, "walk diagonals the other way")
	f.String("func", "static", "offset function: "+joinNames(glitch.OffsetterNames()))
	f.Int("amount", 0, "static offset in pixels")
	f.Float64("amplitude", 0, "wave or random amplitude in pixels")
	f.Float64("inv-wavelength", 0, "wave frequency per line")
	f.Bool("wrap", true, "rotate lines instead of repeating the edge pixel")
	f.Float64Slice("aura", nil, "blend the shifted line over the original with alpha r,g,b")
	f.IntSlice("region", nil, "limit to left,top,right,bottom")
	f.Int64("seed", 0, "seed for random offsets, -1 for time based")
	return cmd
}

func offsetOverrides(cmd *cobra.Command, s *preset.OffsetSection) error {
	f := cmd.Flags()
	var err error
	set := func(name string, fn func() error) {
		if err == nil && f.Changed(name) {
			err = fn()
		}
	}
	set("traversal", func() (e error) { s.Traversal, e = f.GetString("traversal"); return })
	set("flip", func() (e error) { s.Flip, e = f.GetBool("flip"); return })
	set("func", func() (e error) { s.Function, e = f.GetString("func"); return })
	set("amount", func() (e error) { s.Params.Amount, e = f.GetInt("amount"); return })
	set("amplitude", func() (e error) { s.Params.Amplitude, e = f.GetFloat64("amplitude"); return })
	set("inv-wavelength", func() (e error) { s.Params.InvWavelength, e = f.GetFloat64("inv-wavelength"); return })
	set("wrap", func() error {
		wrap, e := f.GetBool("wrap")
		s.Wrap = &wrap
		return e
	})
	set("aura", func() (e error) { s.Aura, e = f.GetFloat64Slice("aura"); return })
	set("region", func() (e error) { s.Region, e = f.GetIntSlice("region"); return })
	set("seed", func() (e error) { s.Seed, e = f.GetInt64("seed"); return })
	return err
}
