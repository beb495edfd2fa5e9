package types

import "errors"

// Config holds backend selection and parameters for Backend.Attach and for
// the object store built on top of it.
type Config struct {
	Backend  string `json:"backend" yaml:"backend" mapstructure:"backend"`
	DataDir  string `json:"data_dir" yaml:"data_dir" mapstructure:"data_dir"`
	Codec    string `json:"codec,omitempty" yaml:"codec,omitempty" mapstructure:"codec"`
	Locking  string `json:"locking,omitempty" yaml:"locking,omitempty" mapstructure:"locking"`
	IDPolicy string `json:"id_policy,omitempty" yaml:"id_policy,omitempty" mapstructure:"id_policy"`
	DSN      string `json:"dsn,omitempty" yaml:"dsn,omitempty" mapstructure:"dsn"`
}

// Supported backend names.
const (
	BackendSQLite   = "sqlite"
	BackendJSONL    = "jsonl"
	BackendBadger   = "badger"
	BackendPostgres = "postgres"
)

// Supported codec names. An empty codec means CodecJSON.
const (
	CodecJSON    = "json"
	CodecMsgPack = "msgpack"
	CodecYAML    = "yaml"
)

// Supported locking strategies. An empty strategy means LockingNone.
const (
	LockingNone     = "none"
	LockingMutex    = "mutex"
	LockingRWMutex  = "rwmutex"
	LockingWatchdog = "watchdog"
)

// Supported identifier policies. An empty policy means IDPolicyRandom.
const (
	IDPolicyRandom  = "random"
	IDPolicyDerived = "derived"
)

// Config validation errors.
var (
	ErrBackendEmpty     = errors.New("backend must not be empty")
	ErrBackendUnknown   = errors.New("unknown backend")
	ErrCodecUnknown     = errors.New("unknown codec")
	ErrCodecUnsupported = errors.New("codec not supported by backend")
	ErrLockingUnknown   = errors.New("unknown locking strategy")
	ErrIDPolicyUnknown  = errors.New("unknown id policy")
	ErrDSNRequired      = errors.New("dsn is required for the postgres backend")
)

var knownBackends = map[string]bool{
	BackendSQLite:   true,
	BackendJSONL:    true,
	BackendBadger:   true,
	BackendPostgres: true,
}

var knownCodecs = map[string]bool{
	"":           true,
	CodecJSON:    true,
	CodecMsgPack: true,
	CodecYAML:    true,
}

var knownLocking = map[string]bool{
	"":              true,
	LockingNone:     true,
	LockingMutex:    true,
	LockingRWMutex:  true,
	LockingWatchdog: true,
}

var knownIDPolicies = map[string]bool{
	"":              true,
	IDPolicyRandom:  true,
	IDPolicyDerived: true,
}

// Validate checks that the Config is well-formed. It returns a sentinel error
// from this package on failure.
func (c Config) Validate() error {
	if c.Backend == "" {
		return ErrBackendEmpty
	}
	if !knownBackends[c.Backend] {
		return ErrBackendUnknown
	}
	if !knownCodecs[c.Codec] {
		return ErrCodecUnknown
	}
	// JSONL files hold one JSON document per line.
	if c.Backend == BackendJSONL && c.CodecName() != CodecJSON {
		return ErrCodecUnsupported
	}
	if !knownLocking[c.Locking] {
		return ErrLockingUnknown
	}
	if !knownIDPolicies[c.IDPolicy] {
		return ErrIDPolicyUnknown
	}
	if c.Backend == BackendPostgres && c.DSN == "" {
		return ErrDSNRequired
	}
	return nil
}

// CodecName returns the effective codec name.
func (c Config) CodecName() string {
	if c.Codec == "" {
		return CodecJSON
	}
	return c.Codec
}

// LockingName returns the effective locking strategy.
func (c Config) LockingName() string {
	if c.Locking == "" {
		return LockingNone
	}
	return c.Locking
}

// IDPolicyName returns the effective identifier policy.
func (c Config) IDPolicyName() string {
	if c.IDPolicy == "" {
		return IDPolicyRandom
	}
	return c.IDPolicy
}
