package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/ossuary/internal/paths"
)

func (a *app) newInitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Initialize ossuary storage",
		Long:  "Create the configuration and data directories, then initialize the storage backend.",
		Args:  cobra.NoArgs,
		RunE:  a.runInit,
	}
}

// runInit relies on setup having written config.yaml; attaching the backend
// creates the data directory and schema.
func (a *app) runInit(cmd *cobra.Command, _ []string) error {
	b, err := a.attach()
	if err != nil {
		return err
	}
	if err := b.Detach(); err != nil {
		return sysError(fmt.Errorf("finalize storage: %w", err))
	}
	a.logger.Info("storage initialized", "backend", a.settings.Store.Backend, "data_dir", a.settings.Store.DataDir)
	fmt.Fprintf(out(cmd), "ossuary initialized (%s backend at %s)\nconfig: %s\n",
		a.settings.Store.Backend, a.settings.Store.DataDir, paths.ConfigFile(a.configDir))
	return nil
}
