package subcmd

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"
)

// Version is set at build time with -ldflags "-X ...subcmd.Version=v1.2.3".
var Version = "dev"

func init() {
	register(NewVersionCommand)
}

func NewVersionCommand(_ *GlobalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		PersistentPreRunE: func(*cobra.Command, []string) error {
			return nil
		},
		Run: func(cmd *cobra.Command, _ []string) {
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "androtainer %s (%s/%s)\n", Version, runtime.GOOS, runtime.GOARCH)
		},
	}
}
