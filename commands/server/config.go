package server

import (
	"io"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/iov-one/vault/errors"
	"github.com/tendermint/tendermint/libs/log"
	lumberjack "gopkg.in/natefinch/lumberjack.v2"
)

// ConfigFile is the name of the node configuration file kept in the home
// directory.
const ConfigFile = "escrowd.toml"

// Config holds the node local settings of the daemon. Values declared here
// are not part of the consensus state and may differ between nodes.
type Config struct {
	// Bind is the address the ABCI server listens on.
	Bind string `toml:"bind"`
	// Debug includes stack traces in the error logs returned to clients.
	Debug bool `toml:"debug"`
	// Metrics is the address of the prometheus endpoint. Empty disables
	// metrics collection.
	Metrics string `toml:"metrics"`
	// LogLevel is one of debug, info, error or none.
	LogLevel string `toml:"log_level"`
	// LogFile if set redirects the logs to a rotated file.
	LogFile       string `toml:"log_file"`
	LogMaxSizeMB  int    `toml:"log_max_size_mb"`
	LogMaxBackups int    `toml:"log_max_backups"`
	LogMaxAgeDays int    `toml:"log_max_age_days"`
}

// DefaultConfig returns the settings used when no configuration file exists.
func DefaultConfig() Config {
	return Config{
		Bind:          "tcp://localhost:26658",
		LogLevel:      "info",
		LogMaxSizeMB:  100,
		LogMaxBackups: 5,
		LogMaxAgeDays: 30,
	}
}

// LoadConfig reads the configuration file from the home directory. Missing
// values keep their defaults and a missing file is not an error.
func LoadConfig(home string) (Config, error) {
	cfg := DefaultConfig()
	path := filepath.Join(home, ConfigFile)
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return cfg, errors.Wrapf(errors.ErrInput, "%s: %s", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return cfg, errors.Wrapf(errors.ErrInput, "%s: unknown key %q", path, undecoded[0].String())
	}
	return cfg, cfg.Validate()
}

// Validate returns an error if the configuration cannot be used to start
// the node.
func (c Config) Validate() error {
	if c.Bind == "" {
		return errors.Wrap(errors.ErrEmpty, "bind")
	}
	if _, err := log.AllowLevel(c.LogLevel); err != nil {
		return errors.Wrap(errors.ErrInput, err.Error())
	}
	if c.LogMaxSizeMB < 0 || c.LogMaxBackups < 0 || c.LogMaxAgeDays < 0 {
		return errors.Wrap(errors.ErrInput, "negative log rotation setting")
	}
	return nil
}

// writeConfig stores the configuration in the home directory unless a file
// already exists.
func writeConfig(home string, cfg Config) (string, error) {
	path := filepath.Join(home, ConfigFile)
	if _, err := os.Stat(path); err == nil {
		return path, nil
	}
	if err := os.MkdirAll(home, 0755); err != nil {
		return path, errors.Wrap(err, "create home directory")
	}
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_TRUNC|os.O_CREATE, 0644)
	if err != nil {
		return path, errors.Wrap(err, "create config file")
	}
	defer f.Close()
	if err := toml.NewEncoder(f).Encode(cfg); err != nil {
		return path, errors.Wrap(err, "encode config")
	}
	return path, nil
}

// newLogger returns a logger filtered by the configured level. When a log
// file is configured the logs are written there instead of to the base
// logger. The returned closer must be called on shutdown.
func (c Config) newLogger(base log.Logger) (log.Logger, io.Closer, error) {
	logger := base
	var closer io.Closer = nopCloser{}
	if c.LogFile != "" {
		out := &lumberjack.Logger{
			Filename:   c.LogFile,
			MaxSize:    c.LogMaxSizeMB,
			MaxBackups: c.LogMaxBackups,
			MaxAge:     c.LogMaxAgeDays,
		}
		logger = log.NewTMLogger(log.NewSyncWriter(out)).With("module", "escrowd")
		closer = out
	}
	lvl, err := log.AllowLevel(c.LogLevel)
	if err != nil {
		return nil, nil, errors.Wrap(errors.ErrInput, err.Error())
	}
	return log.NewFilter(logger, lvl), closer, nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
