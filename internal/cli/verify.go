package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/ossuary/internal/ludog"
	"github.com/mesh-intelligence/ossuary/pkg/types"
)

func (a *app) newVerifyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "verify",
		Short: "Check that every stored reference resolves",
		Long: `Verify loads the persisted store and reports every reference that names
a missing record. It exits 1 when any reference dangles.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			b, err := a.attach()
			if err != nil {
				return err
			}
			defer a.detach(b)
			doc, err := b.Load(cmd.Context())
			if err != nil {
				return sysError(fmt.Errorf("load: %w", err))
			}
			opts, err := a.storeOptions()
			if err != nil {
				return err
			}
			s, err := ludog.FromDocument(doc, opts...)
			if err != nil && !errors.Is(err, types.ErrDanglingReference) {
				return sysError(err)
			}

			dangling := danglingErrors(s.Verify())
			if a.flags.jsonMode {
				if err := printJSON(out(cmd), dangling); err != nil {
					return err
				}
			} else {
				for _, d := range dangling {
					fmt.Fprintln(out(cmd), d.Error())
				}
			}
			if len(dangling) > 0 {
				return userError(fmt.Errorf("%d dangling references", len(dangling)))
			}
			if !a.flags.jsonMode {
				fmt.Fprintf(out(cmd), "ok: %d records verified\n", recordCount(s))
			}
			return nil
		},
	}
}

// danglingErrors flattens the joined result of Store.Verify.
func danglingErrors(err error) []*types.DanglingError {
	if err == nil {
		return []*types.DanglingError{}
	}
	var errs []error
	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		errs = joined.Unwrap()
	} else {
		errs = []error{err}
	}
	found := make([]*types.DanglingError, 0, len(errs))
	for _, e := range errs {
		var d *types.DanglingError
		if errors.As(e, &d) {
			found = append(found, d)
		}
	}
	return found
}
