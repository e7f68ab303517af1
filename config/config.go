package config

import (
	"errors"
	"strings"

	"github.com/gagliardetto/solana-go"
	"github.com/spf13/viper"
)

type Config struct {
	WrappedNativeMint string `mapstructure:"wrapped_native_mint"`
	SlippageBps       uint64 `mapstructure:"slippage_bps"`
	DebugLogging      bool   `mapstructure:"debug_logging"`
	SnapshotPath      string `mapstructure:"snapshot_path"`
	Workers           int    `mapstructure:"workers"`
}

const (
	DefaultSlippageBps = 100
	DefaultWorkers     = 4

	MaxSlippageBps = 10000
)

// LoadConfig reads path, fills defaults and applies STRATA_* environment
// overrides. An empty path loads defaults and environment only.
func LoadConfig(path string) (*Config, error) {
	v := viper.New()

	defaults := map[string]interface{}{
		"wrapped_native_mint": solana.WrappedSol.String(),
		"slippage_bps":        DefaultSlippageBps,
		"debug_logging":       false,
		"snapshot_path":       "",
		"workers":             DefaultWorkers,
	}
	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	v.SetEnvPrefix("STRATA")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, err
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	return &cfg, validateConfig(&cfg)
}

// WrappedNativeMintKey parses WrappedNativeMint.
func (c *Config) WrappedNativeMintKey() (solana.PublicKey, error) {
	return solana.PublicKeyFromBase58(c.WrappedNativeMint)
}

func validateConfig(cfg *Config) error {
	if _, err := cfg.WrappedNativeMintKey(); err != nil {
		return errors.New("invalid wrapped_native_mint")
	}
	if cfg.SlippageBps > MaxSlippageBps {
		return errors.New("slippage_bps must be at most 10000")
	}
	if cfg.Workers <= 0 {
		return errors.New("invalid workers count")
	}
	return nil
}
