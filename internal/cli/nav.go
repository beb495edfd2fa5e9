package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/ossuary/internal/ludog"
	"github.com/mesh-intelligence/ossuary/pkg/types"
)

func (a *app) newNavCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "nav <entity> <id> <relationship>",
		Short: "Follow a relationship from a record",
		Long: `Nav prints the records reached by following a numbered relationship
from the record of the given entity type registered under id. The result is
always a JSON array; an optional relationship that is not set yields [].

Run "ossuary tables" to see the relationships of every entity type.

Example:
  ossuary nav blocks <id> R18Statement
  ossuary nav statements <id> R16Subtype
  ossuary nav calls <id> Arguments`,
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, err := ludog.LookupKind(args[0])
			if err != nil {
				return lookupError(err)
			}
			return a.withStore(cmd.Context(), func(s *ludog.Store) error {
				recs, err := kind.Navigate(s, args[1], args[2])
				if errors.Is(err, types.ErrUnknownRelationship) {
					return userError(fmt.Errorf("%w (valid: %s)", err, strings.Join(kind.Navigators(), ", ")))
				}
				if err != nil {
					return lookupError(err)
				}
				if recs == nil {
					recs = []types.Entity{}
				}
				return printJSON(out(cmd), recs)
			})
		},
	}
}
