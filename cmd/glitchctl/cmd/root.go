package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/jpfielding/glitch.go/pkg/glitch"
	"github.com/jpfielding/glitch.go/pkg/logging"
	"github.com/spf13/cobra"
)

func NewRoot(ctx context.Context, gitsha string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "glitchctl",
		Short: "a CLI for pixel sorting and line offset glitches",
		Long:  "glitchctl sorts runs of pixels along rows, columns or diagonals and rotates image lines by per-line offsets",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			logLevel, _ := cmd.Flags().GetString("log-level")
			logJSON, _ := cmd.Flags().GetBool("log-json")
			logFile, _ := cmd.Flags().GetString("log-file")

			// Parse log level
			var level slog.Level
			levelErr := level.UnmarshalText([]byte(strings.ToUpper(logLevel)))
			if levelErr != nil {
				level = slog.LevelInfo
			}
			var w io.Writer = os.Stderr
			if logFile != "" {
				w = logging.Tee(os.Stderr, logging.RotatingFile(logFile, 10, 3, 28))
			}
			slog.SetDefault(logging.Logger(w, logJSON, level))

			if levelErr != nil {
				slog.WarnContext(ctx, "Invalid log level, defaulting to INFO", "level", logLevel, "error", levelErr)
			}
			return nil
		},
		Run: func(cmd *cobra.Command, args []string) {
			printCommandTree(cmd, 0)
		},
		SilenceUsage: true,
	}
	cmd.AddCommand(
		NewVersionCmd(ctx, gitsha),
		NewSortCmd(ctx),
		NewOffsetCmd(ctx),
		NewSwizzleCmd(ctx),
		NewKeysCmd(ctx),
	)
	pf := cmd.PersistentFlags()
	pf.String("log-level", "INFO", "Log level (DEBUG, INFO, WARN, ERROR)")
	pf.Bool("log-json", false, "Log as JSON instead of text")
	pf.String("log-file", "", "Also log to this file, rotated by size")
	return cmd
}

func printCommandTree(cmd *cobra.Command, indent int) {
	fmt.Fprintln(cmd.OutOrStdout(), strings.Repeat("\t", indent), cmd.Use+":", cmd.Short)
	for _, subCmd := range cmd.Commands() {
		printCommandTree(subCmd, indent+1)
	}
}

func NewVersionCmd(ctx context.Context, gitsha string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "version",
		Short: "git sha for this build",
		Long:  "git sha for this build",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), gitsha)
		},
	}
	return cmd
}

// NewKeysCmd prints every selector the other commands accept
func NewKeysCmd(ctx context.Context) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "keys",
		Short: "list traversals, chunking strategies, keys and offset functions",
		Long:  "list traversals, chunking strategies, keys and offset functions",
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, "traversals:", strings.Join(glitch.TraversalNames(), ", "))
			fmt.Fprintln(out, "chunking:  ", strings.Join(glitch.ChunkerNames(), ", "))
			fmt.Fprintln(out, "keys:      ", strings.Join(glitch.KeyNames(), ", "))
			fmt.Fprintln(out, "offsets:   ", strings.Join(glitch.OffsetterNames(), ", "))
		},
	}
	return cmd
}
