package cli

import (
	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/ossuary/internal/ludog"
)

func (a *app) newGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <entity> <id>",
		Short: "Get a record by ID",
		Long: `Get prints the record of the given entity type registered under id.

Entity types may be named by type ("LetStatement"), snake case
("let_statement") or collection ("let_statements").

Example:
  ossuary get blocks 0190b7e2-...
  ossuary get LetStatement 0190b7e2-...`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, err := ludog.LookupKind(args[0])
			if err != nil {
				return lookupError(err)
			}
			return a.withStore(cmd.Context(), func(s *ludog.Store) error {
				rec, err := kind.Exhume(s, args[1])
				if err != nil {
					return lookupError(err)
				}
				return printJSON(out(cmd), rec)
			})
		},
	}
}
