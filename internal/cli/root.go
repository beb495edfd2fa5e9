// Package cli implements the ossuary command-line interface: it opens the
// configured backend, loads the object store from it and exposes lookups,
// navigation, export and import as subcommands.
package cli

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/ossuary/internal/logging"
	"github.com/mesh-intelligence/ossuary/internal/paths"
)

// Exit codes.
const (
	exitSuccess   = 0
	exitUserError = 1
	exitSysError  = 2
)

// rootFlags holds global flag values accessible to all subcommands.
type rootFlags struct {
	configDir string
	dataDir   string
	backend   string
	codec     string
	logLevel  string
	jsonMode  bool
}

// app carries the state shared by the subcommands of one invocation.
type app struct {
	flags     rootFlags
	configDir string
	settings  settings
	logger    *slog.Logger
}

// NewRootCmd creates the top-level "ossuary" command with global flags and
// all subcommands registered.
func NewRootCmd() *cobra.Command {
	a := &app{logger: logging.Discard()}
	root := &cobra.Command{
		Use:   "ossuary",
		Short: "A relational object store for program models",
		Long: "ossuary keeps a program model as keyed collections of records joined\n" +
			"by numbered relationships, persists it in a pluggable backend and\n" +
			"navigates it from the command line.",
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.setup,
	}

	pf := root.PersistentFlags()
	pf.StringVar(&a.flags.configDir, "config-dir", "", "configuration directory (default: platform config dir)")
	pf.StringVar(&a.flags.dataDir, "data-dir", "", "data directory (default: $(CWD)/"+paths.DefaultDataDirName+")")
	pf.StringVar(&a.flags.backend, "backend", "", "storage backend, overrides config.yaml")
	pf.StringVar(&a.flags.codec, "codec", "", "record codec, overrides config.yaml")
	pf.StringVar(&a.flags.logLevel, "log-level", "", "log level: debug, info, warn or error")
	pf.BoolVar(&a.flags.jsonMode, "json", false, "output in JSON format")

	root.AddCommand(
		newVersionCmd(),
		a.newInitCmd(),
		a.newTablesCmd(),
		a.newGetCmd(),
		a.newListCmd(),
		a.newNavCmd(),
		a.newQueryCmd(),
		a.newDemoCmd(),
		a.newExportCmd(),
		a.newImportCmd(),
		a.newVerifyCmd(),
		a.newStatsCmd(),
	)
	return root
}

// Execute runs the root command and returns the process exit code.
func Execute() int {
	root := NewRootCmd()
	err := root.Execute()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
	}
	return exitCode(err)
}

// setup resolves directories, reads configuration and builds the logger.
func (a *app) setup(cmd *cobra.Command, _ []string) error {
	if cmd.Name() == "version" {
		return nil
	}

	configDir, err := paths.ResolveConfigDir(a.flags.configDir)
	if err != nil {
		return sysError(fmt.Errorf("resolve config dir: %w", err))
	}
	v, err := loadConfig(configDir)
	if err != nil {
		return sysError(err)
	}
	s := decodeSettings(v)

	if a.flags.backend != "" {
		s.Store.Backend = a.flags.backend
	}
	if a.flags.codec != "" {
		s.Store.Codec = a.flags.codec
	}
	if a.flags.logLevel != "" {
		s.Log.Level = a.flags.logLevel
	}
	s.Store.DataDir, err = paths.ResolveDataDir(a.flags.dataDir, s.Store.DataDir)
	if err != nil {
		return sysError(fmt.Errorf("resolve data dir: %w", err))
	}
	if err := s.Store.Validate(); err != nil {
		return userError(fmt.Errorf("invalid configuration: %w", err))
	}

	a.configDir = configDir
	a.settings = s
	a.logger = logging.New(s.Log.Level, s.Log.Format, cmd.ErrOrStderr())
	a.logger.Debug("configuration loaded",
		"config_dir", configDir,
		"data_dir", s.Store.DataDir,
		"backend", s.Store.Backend,
		"codec", s.Store.CodecName())
	return nil
}

// exitError attaches an exit code to an error.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string { return e.err.Error() }

func (e *exitError) Unwrap() error { return e.err }

// userError marks err as caused by invalid input.
func userError(err error) error { return &exitError{code: exitUserError, err: err} }

// sysError marks err as a storage or environment failure.
func sysError(err error) error { return &exitError{code: exitSysError, err: err} }

// exitCode maps an error returned by the root command to an exit code.
// Errors without a code, such as flag parsing failures, are user errors.
func exitCode(err error) int {
	if err == nil {
		return exitSuccess
	}
	var ee *exitError
	if errors.As(err, &ee) {
		return ee.code
	}
	return exitUserError
}

// out returns the writer for command output.
func out(cmd *cobra.Command) io.Writer { return cmd.OutOrStdout() }
