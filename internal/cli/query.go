package cli

import (
	"encoding/json"
	"fmt"

	"github.com/itchyny/gojq"
	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/ossuary/internal/ludog"
)

func (a *app) newQueryCmd() *cobra.Command {
	var raw bool
	cmd := &cobra.Command{
		Use:   "query <jq-expression>",
		Short: "Run a jq expression over the store",
		Long: `Query evaluates a jq expression against the JSON snapshot of the store,
the same document "ossuary export" writes, and prints every result.

Example:
  ossuary query '.blocks | length'
  ossuary query '.statements[] | select(.subtype.kind == "let_statement") | .id'
  ossuary query --raw '.variable_expressions[].name'`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			query, err := gojq.Parse(args[0])
			if err != nil {
				return userError(fmt.Errorf("invalid jq expression %q: %w", args[0], err))
			}
			return a.withStore(cmd.Context(), func(s *ludog.Store) error {
				input, err := snapshotValue(s)
				if err != nil {
					return sysError(err)
				}
				iter := query.RunWithContext(cmd.Context(), input)
				for {
					v, ok := iter.Next()
					if !ok {
						return nil
					}
					if err, isErr := v.(error); isErr {
						return userError(fmt.Errorf("jq: %w", err))
					}
					if str, isStr := v.(string); raw && isStr {
						fmt.Fprintln(out(cmd), str)
						continue
					}
					if err := printJSON(out(cmd), v); err != nil {
						return err
					}
				}
			})
		},
	}
	cmd.Flags().BoolVarP(&raw, "raw", "r", false, "print string results without quotes")
	return cmd
}

// snapshotValue returns the snapshot of s as generic JSON values.
func snapshotValue(s *ludog.Store) (any, error) {
	data, err := json.Marshal(s.Snapshot())
	if err != nil {
		return nil, fmt.Errorf("encode snapshot: %w", err)
	}
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return nil, fmt.Errorf("decode snapshot: %w", err)
	}
	return v, nil
}
