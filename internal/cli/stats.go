package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/ossuary/internal/ludog"
	"github.com/mesh-intelligence/ossuary/internal/metrics"
)

// statsReport is the JSON form of the stats command.
type statsReport struct {
	Records    map[string]int    `json:"records"`
	Operations []metrics.OpCount `json:"operations"`
}

func (a *app) newStatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show record counts and the collection operations of a load",
		Long: `Stats loads the store with collection metrics enabled, then walks every
record once through its collection. It prints the record count of each
collection and the operation counters recorded along the way.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			obs := metrics.New()
			return a.withStore(cmd.Context(), func(s *ludog.Store) error {
				report := statsReport{Records: map[string]int{}}
				for _, k := range ludog.Kinds() {
					for _, rec := range k.List(s) {
						if _, err := k.Exhume(s, rec.ID()); err != nil {
							return sysError(err)
						}
					}
					report.Records[k.Collection] = k.Count(s)
				}
				ops, err := obs.Summary()
				if err != nil {
					return sysError(fmt.Errorf("gather metrics: %w", err))
				}
				report.Operations = ops

				if a.flags.jsonMode {
					return printJSON(out(cmd), report)
				}
				tw := tabwriter.NewWriter(out(cmd), 0, 4, 2, ' ', 0)
				fmt.Fprintln(tw, "COLLECTION\tRECORDS")
				for _, k := range ludog.Kinds() {
					fmt.Fprintf(tw, "%s\t%d\n", k.Collection, report.Records[k.Collection])
				}
				fmt.Fprintln(tw)
				fmt.Fprintln(tw, "COLLECTION\tOP\tCOUNT")
				for _, op := range ops {
					fmt.Fprintf(tw, "%s\t%s\t%.0f\n", op.Collection, op.Op, op.Count)
				}
				return tw.Flush()
			}, ludog.WithObserver(obs))
		},
	}
}
