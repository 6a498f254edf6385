package cmd

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jpfielding/glitch.go/pkg/glitch"
	"github.com/jpfielding/glitch.go/pkg/imageio"
	"github.com/spf13/cobra"
)

func NewSwizzleCmd(ctx context.Context) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "swizzle <image>",
		Short: "permute the RGB channels of an image",
		Long:  "permute the RGB channels of an image, e.g. --order BRG puts blue in red, red in green and green in blue",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			in := args[0]
			order, _ := cmd.Flags().GetString("order")
			buf, err := imageio.LoadBuffer(in, imageio.ModeRGB)
			if err != nil {
				return err
			}
			out, err := glitch.Swizzle(buf, order)
			if err != nil {
				return err
			}
			dst, err := outputPath(cmd, in, map[string]string{"swizzle": order})
			if err != nil {
				return err
			}
			if err := imageio.SaveBuffer(dst, out); err != nil {
				return err
			}
			slog.InfoContext(cmd.Context(), "swizzled", "in", in, "out", dst, "order", order)
			fmt.Fprintln(cmd.OutOrStdout(), dst)
			return nil
		},
	}
	ioFlags(cmd)
	cmd.Flags().String("order", "BRG", "channel order, a permutation of RGB")
	return cmd
}
