package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/mesh-intelligence/ossuary/internal/backend"
	"github.com/mesh-intelligence/ossuary/internal/codec"
	"github.com/mesh-intelligence/ossuary/internal/ludog"
	"github.com/mesh-intelligence/ossuary/pkg/ids"
	"github.com/mesh-intelligence/ossuary/pkg/types"
)

// attach opens the configured backend. The caller must defer detach.
func (a *app) attach() (types.Backend, error) {
	b, err := backend.Open(a.settings.Store, a.logger)
	if err != nil {
		return nil, sysError(err)
	}
	a.logger.Debug("backend attached", "backend", a.settings.Store.Backend)
	return b, nil
}

func (a *app) detach(b types.Backend) {
	if err := b.Detach(); err != nil {
		a.logger.Warn("detach backend", "err", err)
	}
}

// storeOptions returns the Store options implied by configuration.
func (a *app) storeOptions(extra ...ludog.Option) ([]ludog.Option, error) {
	policy, err := ids.Parse(a.settings.Store.IDPolicy)
	if err != nil {
		return nil, userError(err)
	}
	opts := []ludog.Option{
		ludog.WithLocking(a.settings.Store.LockingName()),
		ludog.WithIDPolicy(policy),
		ludog.WithLogger(a.logger),
	}
	return append(opts, extra...), nil
}

// load reads the persisted document from b and decodes it into a verified
// Store.
func (a *app) load(ctx context.Context, b types.Backend, extra ...ludog.Option) (*ludog.Store, error) {
	opts, err := a.storeOptions(extra...)
	if err != nil {
		return nil, err
	}
	doc, err := b.Load(ctx)
	if err != nil {
		return nil, sysError(fmt.Errorf("load: %w", err))
	}
	s, err := ludog.FromDocument(doc, opts...)
	if err != nil {
		return nil, sysError(err)
	}
	a.logger.Debug("store loaded", "records", doc.Len())
	return s, nil
}

// save replaces the persisted document in b with the contents of s.
func (a *app) save(ctx context.Context, b types.Backend, s *ludog.Store) error {
	c, err := codec.ByName(a.settings.Store.CodecName())
	if err != nil {
		return userError(err)
	}
	doc, err := s.Document(ctx, c)
	if err != nil {
		return sysError(fmt.Errorf("encode: %w", err))
	}
	if err := b.Save(ctx, doc); err != nil {
		return sysError(fmt.Errorf("save: %w", err))
	}
	a.logger.Debug("store saved", "records", doc.Len(), "codec", c.Name())
	return nil
}

// withStore attaches the backend, loads the store and calls fn.
func (a *app) withStore(ctx context.Context, fn func(*ludog.Store) error, extra ...ludog.Option) error {
	b, err := a.attach()
	if err != nil {
		return err
	}
	defer a.detach(b)
	s, err := a.load(ctx, b, extra...)
	if err != nil {
		return err
	}
	return fn(s)
}

// lookupError classifies an error from a catalog lookup.
func lookupError(err error) error {
	switch {
	case errors.Is(err, types.ErrUnknownEntity),
		errors.Is(err, types.ErrUnknownRelationship),
		errors.Is(err, types.ErrNotFound):
		return userError(err)
	default:
		return sysError(err)
	}
}

// recordCount returns the number of records in s across all entity types.
func recordCount(s *ludog.Store) int {
	n := 0
	for _, k := range ludog.Kinds() {
		n += k.Count(s)
	}
	return n
}

// printJSON writes v as indented JSON.
func printJSON(w io.Writer, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return sysError(fmt.Errorf("marshal output: %w", err))
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}

// snapshotCodec picks the codec of an export or import target: the explicit
// name if set, then the file extension, then fallback.
func snapshotCodec(name, target, fallback string) (codec.Codec, error) {
	if name == "" {
		switch strings.ToLower(filepath.Ext(target)) {
		case ".json":
			name = types.CodecJSON
		case ".yaml", ".yml":
			name = types.CodecYAML
		case ".msgpack", ".mpk":
			name = types.CodecMsgPack
		default:
			name = fallback
		}
	}
	c, err := codec.ByName(name)
	if err != nil {
		return nil, userError(err)
	}
	return c, nil
}

// matchFilters reports whether e has every field=value pair in filters.
// Fields are JSON names; a dotted name descends into nested objects.
func matchFilters(e types.Entity, filters map[string]string) (bool, error) {
	if len(filters) == 0 {
		return true, nil
	}
	data, err := json.Marshal(e)
	if err != nil {
		return false, err
	}
	var fields map[string]any
	if err := json.Unmarshal(data, &fields); err != nil {
		return false, err
	}
	for key, want := range filters {
		got, ok := lookupField(fields, strings.Split(key, "."))
		if !ok || fmt.Sprint(got) != want {
			return false, nil
		}
	}
	return true, nil
}

func lookupField(fields map[string]any, path []string) (any, bool) {
	v, ok := fields[path[0]]
	if !ok || len(path) == 1 {
		return v, ok
	}
	nested, isMap := v.(map[string]any)
	if !isMap {
		return nil, false
	}
	return lookupField(nested, path[1:])
}

// parseFilters turns key=value arguments into a filter map.
func parseFilters(args []string) (map[string]string, error) {
	filters := make(map[string]string, len(args))
	for _, arg := range args {
		key, value, ok := strings.Cut(arg, "=")
		if !ok || key == "" {
			return nil, userError(fmt.Errorf("invalid filter %q (expected key=value)", arg))
		}
		filters[key] = value
	}
	return filters, nil
}
