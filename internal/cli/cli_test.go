package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/ossuary/internal/jsonl"
	"github.com/mesh-intelligence/ossuary/internal/logging"
	"github.com/mesh-intelligence/ossuary/internal/paths"
	"github.com/mesh-intelligence/ossuary/pkg/types"
)

// testEnv is an isolated configuration and data directory pair.
type testEnv struct {
	t         *testing.T
	configDir string
	dataDir   string
}

type result struct {
	Stdout string
	Stderr string
	Code   int
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	root := t.TempDir()
	for _, key := range envKeys {
		t.Setenv(envPrefix+"_"+strings.ToUpper(strings.ReplaceAll(key, ".", "_")), "")
	}
	t.Setenv(paths.EnvDataDir, "")
	return &testEnv{
		t:         t,
		configDir: filepath.Join(root, "config"),
		dataDir:   filepath.Join(root, "data"),
	}
}

// runRaw executes the root command with exactly args.
func (e *testEnv) runRaw(args ...string) result {
	e.t.Helper()
	var stdout, stderr bytes.Buffer
	root := NewRootCmd()
	root.SetArgs(args)
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	err := root.ExecuteContext(context.Background())
	if err != nil {
		stderr.WriteString("Error: " + err.Error() + "\n")
	}
	return result{Stdout: stdout.String(), Stderr: stderr.String(), Code: exitCode(err)}
}

// run executes the root command against the environment's directories.
func (e *testEnv) run(args ...string) result {
	e.t.Helper()
	return e.runRaw(append([]string{"--config-dir", e.configDir, "--data-dir", e.dataDir}, args...)...)
}

func (e *testEnv) mustRun(args ...string) result {
	e.t.Helper()
	r := e.run(args...)
	require.Equal(e.t, exitSuccess, r.Code, "ossuary %v\nstdout: %s\nstderr: %s", args, r.Stdout, r.Stderr)
	return r
}

func parseJSON[T any](t *testing.T, s string) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal([]byte(s), &v), "output: %s", s)
	return v
}

type demoOutput struct {
	Block   string `json:"block"`
	Records int    `json:"records"`
}

func counts(t *testing.T, e *testEnv, extra ...string) map[string]int {
	t.Helper()
	r := e.mustRun(append(extra, "tables", "--json")...)
	rows := parseJSON[[]tableInfo](t, r.Stdout)
	out := make(map[string]int, len(rows))
	for _, row := range rows {
		out[row.Collection] = row.Records
	}
	return out
}

func TestVersion(t *testing.T) {
	env := newTestEnv(t)
	r := env.mustRun("version")
	assert.Contains(t, r.Stdout, "ossuary v"+Version)
	assert.Contains(t, r.Stdout, modulePath)
	assert.NoDirExists(t, env.configDir)
}

func TestInit(t *testing.T) {
	env := newTestEnv(t)
	r := env.mustRun("init")
	assert.Contains(t, r.Stdout, "sqlite backend")
	assert.FileExists(t, paths.ConfigFile(env.configDir))
	assert.DirExists(t, env.dataDir)

	// A second init keeps the existing config.yaml.
	require.NoError(t, os.WriteFile(paths.ConfigFile(env.configDir), []byte("backend: jsonl\n"), 0o644))
	r = env.mustRun("init")
	assert.Contains(t, r.Stdout, "jsonl backend")
}

func TestConfigPrecedence(t *testing.T) {
	t.Run("env overrides config.yaml", func(t *testing.T) {
		env := newTestEnv(t)
		t.Setenv("OSSUARY_BACKEND", types.BackendBadger)
		r := env.mustRun("init")
		assert.Contains(t, r.Stdout, "badger backend")
	})

	t.Run("flag overrides env", func(t *testing.T) {
		env := newTestEnv(t)
		t.Setenv("OSSUARY_BACKEND", types.BackendBadger)
		r := env.mustRun("--backend", types.BackendJSONL, "init")
		assert.Contains(t, r.Stdout, "jsonl backend")
	})

	t.Run("data_dir from config.yaml", func(t *testing.T) {
		env := newTestEnv(t)
		require.NoError(t, os.MkdirAll(env.configDir, 0o755))
		fromConfig := filepath.Join(t.TempDir(), "from-config")
		cfg := "backend: jsonl\ndata_dir: " + fromConfig + "\n"
		require.NoError(t, os.WriteFile(paths.ConfigFile(env.configDir), []byte(cfg), 0o644))

		r := env.runRaw("--config-dir", env.configDir, "init")
		require.Equal(t, exitSuccess, r.Code, r.Stderr)
		assert.DirExists(t, fromConfig)
	})

	t.Run("invalid configuration is a user error", func(t *testing.T) {
		env := newTestEnv(t)
		assert.Equal(t, exitUserError, env.run("--backend", "floppy", "init").Code)
		assert.Equal(t, exitUserError, env.run("--backend", types.BackendJSONL, "--codec", types.CodecMsgPack, "init").Code)
		assert.Equal(t, exitUserError, env.run("--codec", "xml", "init").Code)
	})
}

func TestDemoAndTables(t *testing.T) {
	env := newTestEnv(t)
	r := env.mustRun("demo", "--json")
	demo := parseJSON[demoOutput](t, r.Stdout)
	assert.NotEmpty(t, demo.Block)
	assert.Equal(t, 24, demo.Records)

	assert.Equal(t, map[string]int{
		"blocks":                1,
		"statements":            2,
		"expression_statements": 1,
		"let_statements":        1,
		"local_variables":       1,
		"expressions":           8,
		"calls":                 1,
		"arguments":             2,
		"operators":             1,
		"binaries":              1,
		"integer_literals":      2,
		"boolean_literals":      1,
		"variable_expressions":  2,
	}, counts(t, env))

	r = env.mustRun("tables")
	assert.Contains(t, r.Stdout, "ENTITY")
	assert.Contains(t, r.Stdout, "let_statements")
}

func TestDemoIDPolicy(t *testing.T) {
	t.Run("random ids add a second program", func(t *testing.T) {
		env := newTestEnv(t)
		env.mustRun("demo")
		env.mustRun("demo")
		assert.Equal(t, 2, counts(t, env)["blocks"])
	})

	t.Run("derived ids are idempotent", func(t *testing.T) {
		env := newTestEnv(t)
		t.Setenv("OSSUARY_ID_POLICY", types.IDPolicyDerived)
		first := parseJSON[demoOutput](t, env.mustRun("demo", "--json").Stdout)
		second := parseJSON[demoOutput](t, env.mustRun("demo", "--json").Stdout)
		assert.Equal(t, first, second)
		assert.Equal(t, 1, counts(t, env)["blocks"])
	})
}

func TestGet(t *testing.T) {
	env := newTestEnv(t)
	demo := parseJSON[demoOutput](t, env.mustRun("demo", "--json").Stdout)

	for _, name := range []string{"blocks", "Block", "block"} {
		r := env.mustRun("get", name, demo.Block)
		got := parseJSON[map[string]any](t, r.Stdout)
		assert.Equal(t, demo.Block, got["id"], name)
	}

	assert.Equal(t, exitUserError, env.run("get", "widgets", demo.Block).Code)
	r := env.run("get", "blocks", "no-such-id")
	assert.Equal(t, exitUserError, r.Code)
	assert.Contains(t, r.Stderr, "not found")
}

func TestList(t *testing.T) {
	env := newTestEnv(t)
	env.mustRun("demo")

	all := parseJSON[[]map[string]any](t, env.mustRun("list", "statements").Stdout)
	assert.Len(t, all, 2)

	lets := parseJSON[[]map[string]any](t, env.mustRun("list", "statements", "subtype.kind=let_statement").Stdout)
	require.Len(t, lets, 1)
	assert.EqualValues(t, 0, lets[0]["index"])

	twos := parseJSON[[]map[string]any](t, env.mustRun("list", "integer_literals", "value=2").Stdout)
	assert.Len(t, twos, 1)

	none := env.mustRun("list", "calls", "arg_check=false")
	assert.Equal(t, "[]\n", none.Stdout)

	assert.Equal(t, exitUserError, env.run("list", "statements", "novalue").Code)
}

func TestNav(t *testing.T) {
	env := newTestEnv(t)
	demo := parseJSON[demoOutput](t, env.mustRun("demo", "--json").Stdout)

	stmts := parseJSON[[]map[string]any](t, env.mustRun("nav", "blocks", demo.Block, "Statements").Stdout)
	require.Len(t, stmts, 2)
	assert.EqualValues(t, 0, stmts[0]["index"])
	assert.EqualValues(t, 1, stmts[1]["index"])

	first := stmts[0]["id"].(string)
	sub := parseJSON[[]map[string]any](t, env.mustRun("nav", "statements", first, "R16Subtype").Stdout)
	require.Len(t, sub, 1)
	assert.Contains(t, sub[0], "variable_id")

	prev := env.mustRun("nav", "statements", first, "R17CStatement")
	assert.Equal(t, "[]\n", prev.Stdout)

	r := env.run("nav", "blocks", demo.Block, "R99Nothing")
	assert.Equal(t, exitUserError, r.Code)
	assert.Contains(t, r.Stderr, "valid:")
	assert.Contains(t, r.Stderr, "R18Statement")
}

func TestExportImport(t *testing.T) {
	src := newTestEnv(t)
	src.mustRun("demo")
	want := counts(t, src)
	dir := t.TempDir()

	for _, name := range []string{"snap.json", "snap.yaml", "snap.msgpack"} {
		t.Run(name, func(t *testing.T) {
			target := filepath.Join(dir, name)
			r := src.mustRun("export", target)
			assert.Contains(t, r.Stdout, "exported 24 records")
			assert.FileExists(t, target)

			dst := newTestEnv(t)
			r = dst.mustRun("--backend", types.BackendJSONL, "import", target)
			assert.Contains(t, r.Stdout, "imported 24 records")
			assert.Equal(t, want, counts(t, dst, "--backend", types.BackendJSONL))
			assert.Contains(t, dst.mustRun("--backend", types.BackendJSONL, "verify").Stdout, "ok: 24 records")
		})
	}

	t.Run("format flag overrides extension", func(t *testing.T) {
		target := filepath.Join(dir, "snap.data")
		src.mustRun("export", "--format", types.CodecYAML, target)
		data, err := os.ReadFile(target)
		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(string(data), "blocks:"), string(data))
	})

	t.Run("bad target", func(t *testing.T) {
		assert.Equal(t, exitUserError, src.run("export", "ftp://host/snap.json").Code)
		assert.Equal(t, exitUserError, src.run("export", "s3://bucket-only").Code)
	})
}

func TestImportRejectsDanglingSnapshot(t *testing.T) {
	env := newTestEnv(t)
	src := filepath.Join(t.TempDir(), "bad.json")
	snap := `{"statements":[{"id":"s1","index":0,"block_id":"missing","subtype":{"kind":"item"}}]}`
	require.NoError(t, os.WriteFile(src, []byte(snap), 0o644))

	r := env.run("import", src)
	assert.Equal(t, exitUserError, r.Code)
	assert.Contains(t, r.Stderr, "references missing")

	require.NoError(t, os.WriteFile(src, []byte("{not json"), 0o644))
	assert.Equal(t, exitUserError, env.run("import", src).Code)

	require.NoError(t, os.WriteFile(src, []byte(`{"statements":[null]}`), 0o644))
	assert.Equal(t, exitUserError, env.run("import", src).Code)
}

func TestVerify(t *testing.T) {
	env := newTestEnv(t)
	env.mustRun("demo")
	assert.Contains(t, env.mustRun("verify").Stdout, "ok: 24 records verified")

	// Write a document with a dangling reference behind the CLI's back.
	bad := newTestEnv(t)
	b := jsonl.NewBackend(logging.Discard())
	require.NoError(t, b.Attach(types.Config{Backend: types.BackendJSONL, DataDir: bad.dataDir}))
	doc := types.Document{Codec: types.CodecJSON, Sections: []types.Section{{
		Name: "statements",
		Records: []types.Record{{
			ID:   "s1",
			Body: []byte(`{"id":"s1","index":0,"block_id":"missing","subtype":{"kind":"item"}}`),
		}},
	}}}
	require.NoError(t, b.Save(context.Background(), doc))
	require.NoError(t, b.Detach())

	r := bad.run("--backend", types.BackendJSONL, "verify")
	assert.Equal(t, exitUserError, r.Code)
	assert.Contains(t, r.Stdout, "references missing")
	assert.Contains(t, r.Stderr, "1 dangling references")

	r = bad.run("--backend", types.BackendJSONL, "--json", "verify")
	assert.Equal(t, exitUserError, r.Code)
	found := parseJSON[[]types.DanglingError](t, r.Stdout)
	require.Len(t, found, 1)
	assert.Equal(t, "R18", found[0].Field)
	assert.Equal(t, "missing", found[0].Ref)

	// Other commands refuse the corrupt store.
	assert.Equal(t, exitSysError, bad.run("--backend", types.BackendJSONL, "tables").Code)
}

func TestStats(t *testing.T) {
	env := newTestEnv(t)
	env.mustRun("demo")

	report := parseJSON[statsReport](t, env.mustRun("stats", "--json").Stdout)
	assert.Equal(t, 1, report.Records["blocks"])
	assert.Equal(t, 8, report.Records["expressions"])

	ops := map[string]float64{}
	for _, op := range report.Operations {
		ops[op.Collection+"/"+op.Op] = op.Count
	}
	assert.Equal(t, float64(8), ops["Expression/inter"])
	assert.GreaterOrEqual(t, ops["Expression/exhume"], float64(8))

	r := env.mustRun("stats")
	assert.Contains(t, r.Stdout, "COLLECTION")
	assert.Contains(t, r.Stdout, "inter")
}

func TestExitCode(t *testing.T) {
	assert.Equal(t, exitSuccess, exitCode(nil))
	assert.Equal(t, exitUserError, exitCode(userError(errors.New("bad input"))))
	assert.Equal(t, exitSysError, exitCode(sysError(errors.New("disk on fire"))))
	assert.Equal(t, exitUserError, exitCode(errors.New("unknown flag")))

	wrapped := sysError(types.ErrBackendDetached)
	assert.ErrorIs(t, wrapped, types.ErrBackendDetached)
}

func TestUnknownCommand(t *testing.T) {
	env := newTestEnv(t)
	assert.Equal(t, exitUserError, env.run("exhume").Code)
}

func TestQuery(t *testing.T) {
	env := newTestEnv(t)
	env.mustRun("demo")

	assert.Equal(t, "8\n", env.mustRun("query", ".expressions | length").Stdout)

	r := env.mustRun("query", "--raw", ".variable_expressions[].name")
	assert.Equal(t, "add\nx\n", r.Stdout)

	lets := env.mustRun("query", `[.statements[] | select(.subtype.kind == "let_statement")] | length`)
	assert.Equal(t, "1\n", lets.Stdout)

	assert.Equal(t, exitUserError, env.run("query", ".blocks[").Code)
	assert.Equal(t, exitUserError, env.run("query", `error("boom")`).Code)
}

func TestImportMissingSource(t *testing.T) {
	env := newTestEnv(t)
	r := env.run("import", filepath.Join(t.TempDir(), "absent.json"))
	assert.Equal(t, exitUserError, r.Code)
}
