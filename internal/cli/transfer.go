package cli

import (
	"context"
	"errors"
	"fmt"
	"io/fs"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/ossuary/internal/blob"
	"github.com/mesh-intelligence/ossuary/internal/ludog"
	"github.com/mesh-intelligence/ossuary/pkg/types"
)

const transferLong = `
Targets are local paths, file:///path URLs or s3://bucket/key URLs. S3
targets use the s3 section of config.yaml and the default AWS credential
chain. The snapshot encoding comes from --format, then the target's
extension (.json, .yaml, .yml, .msgpack), then the configured codec.`

func (a *app) newExportCmd() *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "export <target>",
		Short: "Write the store as a snapshot",
		Long:  "Export writes every record of the store to one snapshot.\n" + transferLong,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := snapshotCodec(format, args[0], a.settings.Store.CodecName())
			if err != nil {
				return err
			}
			sink, err := a.openSink(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return a.withStore(cmd.Context(), func(s *ludog.Store) error {
				data, err := c.Marshal(s.Snapshot())
				if err != nil {
					return sysError(fmt.Errorf("encode snapshot: %w", err))
				}
				if err := sink.Put(cmd.Context(), data); err != nil {
					return sysError(fmt.Errorf("write %s: %w", sink, err))
				}
				a.logger.Info("snapshot exported", "target", sink.String(), "codec", c.Name(), "bytes", len(data))
				fmt.Fprintf(out(cmd), "exported %d records to %s\n", recordCount(s), sink)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&format, "format", "", "snapshot encoding: json, msgpack or yaml")
	return cmd
}

func (a *app) newImportCmd() *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "import <source>",
		Short: "Replace the store with a snapshot",
		Long: "Import reads a snapshot, verifies that every reference resolves and\n" +
			"replaces the persisted store with it.\n" + transferLong,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := snapshotCodec(format, args[0], a.settings.Store.CodecName())
			if err != nil {
				return err
			}
			sink, err := a.openSink(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			data, err := sink.Get(cmd.Context())
			if errors.Is(err, fs.ErrNotExist) {
				return userError(fmt.Errorf("read %s: %w", sink, err))
			}
			if err != nil {
				return sysError(fmt.Errorf("read %s: %w", sink, err))
			}
			var snap ludog.Snapshot
			if err := c.Unmarshal(data, &snap); err != nil {
				return userError(fmt.Errorf("%w: decode snapshot: %v", types.ErrInvalidData, err))
			}
			opts, err := a.storeOptions()
			if err != nil {
				return err
			}
			s, err := ludog.FromSnapshot(snap, opts...)
			if err != nil {
				return userError(err)
			}

			b, err := a.attach()
			if err != nil {
				return err
			}
			defer a.detach(b)
			if err := a.save(cmd.Context(), b, s); err != nil {
				return err
			}
			a.logger.Info("snapshot imported", "source", sink.String(), "codec", c.Name())
			fmt.Fprintf(out(cmd), "imported %d records from %s\n", recordCount(s), sink)
			return nil
		},
	}
	cmd.Flags().StringVar(&format, "format", "", "snapshot encoding: json, msgpack or yaml")
	return cmd
}

func (a *app) openSink(ctx context.Context, target string) (blob.Sink, error) {
	sink, err := blob.Open(ctx, target, a.settings.S3)
	if errors.Is(err, blob.ErrTarget) {
		return nil, userError(err)
	}
	if err != nil {
		return nil, sysError(err)
	}
	return sink, nil
}
