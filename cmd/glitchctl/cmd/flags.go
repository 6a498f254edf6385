package cmd

import (
	"path/filepath"
	"strings"

	"github.com/jpfielding/glitch.go/pkg/imageio"
	"github.com/jpfielding/glitch.go/pkg/preset"
	"github.com/jpfielding/glitch.go/pkg/util"
	"github.com/spf13/cobra"
)

func ioFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.StringP("out", "o", "", "output image, named from the input and settings when empty")
	f.String("format", "", "output codec when --out is empty (defaults to the input's)")
	if cmd.Name() != "swizzle" {
		f.StringP("preset", "p", "", "TOML preset file")
	}
}

func loadPreset(cmd *cobra.Command) (*preset.Preset, error) {
	path, _ := cmd.Flags().GetString("preset")
	if path == "" {
		return &preset.Preset{}, nil
	}
	return preset.Load(path)
}

// outputPath honors --out, otherwise derives a stable name from settings
func outputPath(cmd *cobra.Command, in string, settings any) (string, error) {
	if out, _ := cmd.Flags().GetString("out"); out != "" {
		return out, nil
	}
	format, _ := cmd.Flags().GetString("format")
	if format == "" {
		format = filepath.Ext(in)
		// webp only decodes
		if strings.EqualFold(format, ".webp") {
			format = "png"
		}
	}
	codec, err := imageio.CodecByName(strings.TrimPrefix(format, "."))
	if err != nil {
		return "", err
	}
	return util.OutputPath(in, settings, codec.Extensions()[0]), nil
}

func joinNames(names []string) string {
	return strings.Join(names, ", ")
}
