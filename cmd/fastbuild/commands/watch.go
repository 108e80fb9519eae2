package commands

import (
	"github.com/spf13/cobra"
	"go.trai.ch/fastbuild/internal/app"
)

func (c *CLI) newWatchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch [target]",
		Short: "Rebuild a target on every file change",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			binary, _ := cmd.Flags().GetString("binary")
			flags, _ := cmd.Flags().GetStringArray("flag")

			return c.app.Watch(cmd.Context(), args[0], app.WatchOptions{
				Binary: binary,
				Flags:  flags,
			})
		},
	}
	cmd.Flags().StringP("binary", "b", "", "Build binary to invoke (overrides the project file)")
	cmd.Flags().StringArrayP("flag", "f", nil, "Extra build flag, appended after project flags (repeatable)")
	return cmd
}
