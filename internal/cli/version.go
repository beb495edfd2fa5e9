package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// Version is the release version, set at build time with
// -ldflags "-X github.com/mesh-intelligence/ossuary/internal/cli.Version=...".
var Version = "0.1.0-dev"

const modulePath = "github.com/mesh-intelligence/ossuary"

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the ossuary version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintf(out(cmd), "ossuary v%s\nmodule: %s\n", Version, modulePath)
			return nil
		},
	}
}
