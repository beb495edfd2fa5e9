package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/ossuary/internal/ludog"
)

func (a *app) newDemoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "demo",
		Short: "Add a sample program to the store",
		Long: `Demo registers the program

  {
      let x = 1 + 2;
      add(x, true);
  }

in the store and saves it. Under the derived id policy running it twice
leaves the store unchanged.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			b, err := a.attach()
			if err != nil {
				return err
			}
			defer a.detach(b)
			s, err := a.load(cmd.Context(), b)
			if err != nil {
				return err
			}
			block := ludog.Demo(s)
			if err := a.save(cmd.Context(), b, s); err != nil {
				return err
			}
			a.logger.Info("demo program added", "block", block.ID(), "records", recordCount(s))
			if a.flags.jsonMode {
				return printJSON(out(cmd), map[string]any{"block": block.ID(), "records": recordCount(s)})
			}
			fmt.Fprintf(out(cmd), "block %s (%d records)\n", block.ID(), recordCount(s))
			return nil
		},
	}
}
