package cli

import (
	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/ossuary/internal/ludog"
	"github.com/mesh-intelligence/ossuary/pkg/types"
)

func (a *app) newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list <entity> [filter...]",
		Short: "List records with optional filter",
		Long: `List prints the records of an entity type in insertion order.

Filters are field=value pairs on the JSON form of a record; a dotted field
descends into nested objects. Multiple filters are ANDed together.

Example:
  ossuary list statements
  ossuary list statements subtype.kind=let_statement
  ossuary list integer_literals value=2`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, err := ludog.LookupKind(args[0])
			if err != nil {
				return lookupError(err)
			}
			filters, err := parseFilters(args[1:])
			if err != nil {
				return err
			}
			return a.withStore(cmd.Context(), func(s *ludog.Store) error {
				matched := []types.Entity{}
				for _, rec := range kind.List(s) {
					ok, err := matchFilters(rec, filters)
					if err != nil {
						return sysError(err)
					}
					if ok {
						matched = append(matched, rec)
					}
				}
				return printJSON(out(cmd), matched)
			})
		},
	}
}
