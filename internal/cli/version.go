package cli

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/hupe1980/centipede"
	"github.com/hupe1980/centipede/record"
)

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, err := fmt.Fprintf(cmd.OutOrStdout(), "centipede %s (%s, %s byte order)\n",
				centipede.Version, runtime.Version(), record.ByteOrder())
			return err
		},
	}
}
