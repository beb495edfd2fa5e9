package cli

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/ossuary/internal/ludog"
)

// tableInfo is one row of the tables command.
type tableInfo struct {
	Entity        string   `json:"entity"`
	Collection    string   `json:"collection"`
	Records       int      `json:"records"`
	Relationships []string `json:"relationships"`
}

func (a *app) newTablesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tables",
		Short: "List entity types with their record counts and relationships",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.withStore(cmd.Context(), func(s *ludog.Store) error {
				var rows []tableInfo
				for _, k := range ludog.Kinds() {
					rows = append(rows, tableInfo{
						Entity:        k.Name,
						Collection:    k.Collection,
						Records:       k.Count(s),
						Relationships: k.Navigators(),
					})
				}
				if a.flags.jsonMode {
					return printJSON(out(cmd), rows)
				}
				tw := tabwriter.NewWriter(out(cmd), 0, 4, 2, ' ', 0)
				fmt.Fprintln(tw, "ENTITY\tCOLLECTION\tRECORDS\tRELATIONSHIPS")
				for _, r := range rows {
					fmt.Fprintf(tw, "%s\t%s\t%d\t%s\n", r.Entity, r.Collection, r.Records, strings.Join(r.Relationships, ","))
				}
				return tw.Flush()
			})
		},
	}
}
