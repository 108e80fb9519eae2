package commands

import (
	"github.com/spf13/cobra"
	"go.trai.ch/fastbuild/internal/app"
)

func (c *CLI) newBuildCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "build [targets...]",
		Short: "Fast build the specified targets",
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				// Display command usage help without returning an error
				_ = cmd.Help()
				return nil
			}
			binary, _ := cmd.Flags().GetString("binary")
			flags, _ := cmd.Flags().GetStringArray("flag")
			rebaseline, _ := cmd.Flags().GetBool("rebaseline")

			return c.app.Build(cmd.Context(), args, app.BuildOptions{
				Binary:     binary,
				Flags:      flags,
				Rebaseline: rebaseline,
			})
		},
	}
	cmd.Flags().StringP("binary", "b", "", "Build binary to invoke (overrides the project file)")
	cmd.Flags().StringArrayP("flag", "f", nil, "Extra build flag, appended after project flags (repeatable)")
	cmd.Flags().Bool("rebaseline", false, "After a failed build, discard the last good output instead of serving it")
	return cmd
}
