package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"

	"github.com/mesh-intelligence/ossuary/internal/blob"
	"github.com/mesh-intelligence/ossuary/internal/paths"
	"github.com/mesh-intelligence/ossuary/pkg/types"
)

const (
	configFileName = "config"
	configFileType = "yaml"

	envPrefix = "OSSUARY"

	cfgKeyBackend  = "backend"
	cfgKeyDataDir  = "data_dir"
	cfgKeyCodec    = "codec"
	cfgKeyLocking  = "locking"
	cfgKeyIDPolicy = "id_policy"
	cfgKeyDSN      = "dsn"
	cfgKeyLogLevel = "log.level"
	cfgKeyLogFmt   = "log.format"

	cfgKeyS3Region    = "s3.region"
	cfgKeyS3Endpoint  = "s3.endpoint"
	cfgKeyS3AccessKey = "s3.access_key_id"
	cfgKeyS3Secret    = "s3.secret_access_key"
	cfgKeyS3PathStyle = "s3.path_style"
)

// envKeys lists the keys environment variables may override. data_dir is
// absent: OSSUARY_DATA_DIR ranks below config.yaml and is handled by
// paths.ResolveDataDir.
var envKeys = []string{
	cfgKeyBackend,
	cfgKeyCodec,
	cfgKeyLocking,
	cfgKeyIDPolicy,
	cfgKeyDSN,
	cfgKeyLogLevel,
	cfgKeyLogFmt,
	cfgKeyS3Region,
	cfgKeyS3Endpoint,
	cfgKeyS3AccessKey,
	cfgKeyS3Secret,
	cfgKeyS3PathStyle,
}

// defaultConfigYAML is written to config.yaml on first run.
const defaultConfigYAML = `# ossuary configuration

# Storage backend: sqlite, jsonl, badger or postgres.
backend: sqlite

# Record encoding: json, msgpack or yaml. The jsonl backend needs json.
codec: json

# Collection locking: none, mutex, rwmutex or watchdog.
locking: none

# Identifier policy for constructors: random or derived.
id_policy: random

# Data directory (optional; overridable by --data-dir).
# data_dir:

# Postgres connection string, required by the postgres backend.
# dsn: postgres://localhost/ossuary?sslmode=disable

log:
  level: info
  format: text

# S3 options for export and import targets of the form s3://bucket/key.
# s3:
#   region: us-east-1
#   endpoint: http://localhost:9000
#   path_style: true
`

// settings is the decoded configuration.
type settings struct {
	Store types.Config
	Log   struct {
		Level  string
		Format string
	}
	S3 blob.S3Config
}

// loadConfig reads config.yaml from configDir, creating the directory and a
// default file on first run. Environment variables prefixed OSSUARY_
// override file values for the keys in envKeys; nested keys use
// underscores (OSSUARY_LOG_LEVEL).
func loadConfig(configDir string) (*viper.Viper, error) {
	if err := os.MkdirAll(configDir, 0o755); err != nil {
		return nil, fmt.Errorf("ensure config dir: %w", err)
	}
	if err := ensureDefaultConfigFile(configDir); err != nil {
		return nil, fmt.Errorf("ensure default config: %w", err)
	}

	v := viper.New()
	v.SetDefault(cfgKeyBackend, types.BackendSQLite)
	v.SetDefault(cfgKeyDataDir, "")
	v.SetDefault(cfgKeyCodec, types.CodecJSON)
	v.SetDefault(cfgKeyLocking, types.LockingNone)
	v.SetDefault(cfgKeyIDPolicy, types.IDPolicyRandom)
	v.SetDefault(cfgKeyDSN, "")
	v.SetDefault(cfgKeyLogLevel, "info")
	v.SetDefault(cfgKeyLogFmt, "text")
	v.SetDefault(cfgKeyS3Region, "")
	v.SetDefault(cfgKeyS3Endpoint, "")
	v.SetDefault(cfgKeyS3AccessKey, "")
	v.SetDefault(cfgKeyS3Secret, "")
	v.SetDefault(cfgKeyS3PathStyle, false)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	for _, key := range envKeys {
		if err := v.BindEnv(key); err != nil {
			return nil, fmt.Errorf("bind env %s: %w", key, err)
		}
	}

	v.SetConfigName(configFileName)
	v.SetConfigType(configFileType)
	v.AddConfigPath(configDir)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return v, nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}
	return v, nil
}

// ensureDefaultConfigFile creates config.yaml if it does not exist.
func ensureDefaultConfigFile(configDir string) error {
	path := paths.ConfigFile(configDir)
	_, err := os.Stat(path)
	if err == nil {
		return nil
	}
	if !os.IsNotExist(err) {
		return fmt.Errorf("stat config file: %w", err)
	}
	return os.WriteFile(path, []byte(defaultConfigYAML), 0o644)
}

// decodeSettings reads every key out of v.
func decodeSettings(v *viper.Viper) settings {
	var s settings
	s.Store = types.Config{
		Backend:  v.GetString(cfgKeyBackend),
		DataDir:  v.GetString(cfgKeyDataDir),
		Codec:    v.GetString(cfgKeyCodec),
		Locking:  v.GetString(cfgKeyLocking),
		IDPolicy: v.GetString(cfgKeyIDPolicy),
		DSN:      v.GetString(cfgKeyDSN),
	}
	s.Log.Level = v.GetString(cfgKeyLogLevel)
	s.Log.Format = v.GetString(cfgKeyLogFmt)
	s.S3 = blob.S3Config{
		Region:          v.GetString(cfgKeyS3Region),
		Endpoint:        v.GetString(cfgKeyS3Endpoint),
		AccessKeyID:     v.GetString(cfgKeyS3AccessKey),
		SecretAccessKey: v.GetString(cfgKeyS3Secret),
		PathStyle:       v.GetBool(cfgKeyS3PathStyle),
	}
	return s
}
