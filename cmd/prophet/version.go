package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/weisyn/prophet-sdk/client/core/output"
	"github.com/weisyn/prophet-sdk/internal/app/version"
)

func (c *cli) versionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "显示版本信息",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if c.flags.OutputFormat == string(output.FormatText) {
				fmt.Fprintln(cmd.OutOrStdout(), version.GetFullVersion())
				return nil
			}
			return c.formatter.Print(version.GetBuildInfo())
		},
	}
}
