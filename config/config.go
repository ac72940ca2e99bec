package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"socialfi/crypto"
)

// Config holds the node-level settings read from the TOML config file.
type Config struct {
	RPCAddress        string `toml:"RPCAddress"`
	MetricsAddress    string `toml:"MetricsAddress"`
	DataDir           string `toml:"DataDir"`
	NetworkName       string `toml:"NetworkName"`
	Environment       string `toml:"Environment"`
	AdminKeystorePath string `toml:"AdminKeystorePath"`
	AdminAddress      string `toml:"AdminAddress"`
	FeeCollector      string `toml:"FeeCollector"`

	TradeQuota QuotaConfig     `toml:"TradeQuota"`
	Telemetry  TelemetryConfig `toml:"Telemetry"`
}

// QuotaConfig bounds per-trader market activity. The zero value disables
// enforcement.
type QuotaConfig struct {
	MaxRequestsPerEpoch uint32 `toml:"MaxRequestsPerEpoch"`
	MaxValuePerEpoch    uint64 `toml:"MaxValuePerEpoch"`
	EpochSeconds        uint32 `toml:"EpochSeconds"`
}

// TelemetryConfig wires the optional OTLP exporters. Telemetry stays off until
// an endpoint is configured.
type TelemetryConfig struct {
	Endpoint string `toml:"Endpoint"`
	Insecure bool   `toml:"Insecure"`
}

// PassphraseSource supplies the secret protecting a freshly generated admin
// keystore.
type PassphraseSource interface {
	Get() (string, error)
}

// StaticPassphrase is a fixed-value passphrase source, used in tests and for
// throwaway dev keystores.
type StaticPassphrase string

// Get implements the PassphraseSource interface.
func (s StaticPassphrase) Get() (string, error) { return string(s), nil }

// Load reads the configuration from the given path, creating a default file
// with a fresh admin keystore when none exists yet. The passphrase source is
// only consulted when a keystore has to be generated.
func Load(path string, secret PassphraseSource) (*Config, error) {
	if secret == nil {
		secret = StaticPassphrase("")
	}
	cfg := &Config{}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return createDefault(path, secret)
	}

	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, err
	}

	if err := ensureKeystore(path, cfg, secret); err != nil {
		return nil, err
	}
	applyDefaults(cfg)
	return cfg, nil
}

func applyDefaults(cfg *Config) {
	if strings.TrimSpace(cfg.RPCAddress) == "" {
		cfg.RPCAddress = "127.0.0.1:8545"
	}
	if strings.TrimSpace(cfg.MetricsAddress) == "" {
		cfg.MetricsAddress = "127.0.0.1:9464"
	}
	if strings.TrimSpace(cfg.DataDir) == "" {
		cfg.DataDir = "./socialfi-data"
	}
	if strings.TrimSpace(cfg.NetworkName) == "" {
		cfg.NetworkName = "socialfi-local"
	}
	if strings.TrimSpace(cfg.Environment) == "" {
		cfg.Environment = "dev"
	}
}

func ensureKeystore(configPath string, cfg *Config, secret PassphraseSource) error {
	keystorePath := cfg.AdminKeystorePath
	if keystorePath == "" {
		keystorePath = defaultKeystorePath(configPath)
	}

	if _, err := os.Stat(keystorePath); os.IsNotExist(err) {
		key, genErr := crypto.GeneratePrivateKey()
		if genErr != nil {
			return genErr
		}
		passphrase, err := secret.Get()
		if err != nil {
			return err
		}
		if err := crypto.SaveToKeystore(keystorePath, key, passphrase); err != nil {
			return err
		}
		if cfg.AdminAddress == "" {
			cfg.AdminAddress = key.PubKey().Address().String()
		}
	} else if err != nil {
		return err
	}

	if cfg.AdminKeystorePath != keystorePath {
		cfg.AdminKeystorePath = keystorePath
		return persist(configPath, cfg)
	}
	return nil
}

func defaultKeystorePath(configPath string) string {
	dir := filepath.Dir(configPath)
	return filepath.Join(dir, "admin.keystore")
}

// createDefault creates and saves a default configuration file alongside a
// freshly generated admin keystore.
func createDefault(path string, secret PassphraseSource) (*Config, error) {
	key, err := crypto.GeneratePrivateKey()
	if err != nil {
		return nil, err
	}

	passphrase, err := secret.Get()
	if err != nil {
		return nil, err
	}
	keystorePath := defaultKeystorePath(path)
	if err := crypto.SaveToKeystore(keystorePath, key, passphrase); err != nil {
		return nil, err
	}

	admin := key.PubKey().Address().String()
	cfg := &Config{
		AdminKeystorePath: keystorePath,
		AdminAddress:      admin,
		FeeCollector:      admin,
	}
	applyDefaults(cfg)

	if err := persist(path, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func persist(path string, cfg *Config) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()
	return toml.NewEncoder(file).Encode(cfg)
}
