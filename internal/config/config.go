package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/ethereum/go-ethereum/common"
	"gopkg.in/yaml.v3"

	"github.com/GianfrancoBazzani/uni-v4-address-miner/internal/crypto"
	"github.com/GianfrancoBazzani/uni-v4-address-miner/pkg/types"
)

// Defaults target the Uniswap v4 PoolManager deployment.
const (
	DefaultDeployerAddress = "0x48E516B34A1274f49457b9C6182097796D0498Cb"
	DefaultInitCodeHash    = "0x94d114296a5af85c1fd2dc039cdaa32f1ed4b0fe0868f02d888bfc91feb645d9"
	DefaultWorkers         = 8
	DefaultLogInterval     = 5
	DefaultLogLevel        = "info"
)

// Errors
var (
	ErrInvalidDeployer     = errors.New("invalid deployer address")
	ErrInvalidInitCodeHash = errors.New("invalid initialization code hash")
	ErrInvalidMinerAddress = errors.New("invalid miner address")
	ErrInvalidWorkers      = errors.New("number of threads must be positive")
)

// Config holds the application configuration
type Config struct {
	Workers      int    `yaml:"threads"`
	Deployer     string `yaml:"deployer_address"`
	InitCodeHash string `yaml:"init_code_hash"`
	MinerAddress string `yaml:"miner_address"`
	Threshold    int    `yaml:"score_threshold"`
	Verbose      bool   `yaml:"verbose"`
	LogFile      string `yaml:"log_file"`
	LogLevel     string `yaml:"log_level"`
	LogInterval  int    `yaml:"log_interval"` // Logging interval in seconds
}

// NewConfig creates a new configuration with default values
func NewConfig() *Config {
	return &Config{
		Workers:      DefaultWorkers,
		Deployer:     DefaultDeployerAddress,
		InitCodeHash: DefaultInitCodeHash,
		LogLevel:     DefaultLogLevel,
		LogInterval:  DefaultLogInterval,
	}
}

// LoadFile reads a YAML configuration file on top of the defaults
func LoadFile(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open config %q: %w", path, err)
	}
	defer f.Close()

	c := NewConfig()
	if err := yaml.NewDecoder(f).Decode(c); err != nil {
		return nil, fmt.Errorf("decode config yaml %q: %w", path, err)
	}
	return c, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	_, err := c.WorkerConfig()
	return err
}

// WorkerConfig parses the hex parameters into the values shared by all workers.
// Malformed and all-zero addresses or hashes are rejected.
func (c *Config) WorkerConfig() (*types.WorkerConfig, error) {
	if c.Workers <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidWorkers, c.Workers)
	}

	deployer, err := crypto.ParseAddress(c.Deployer)
	if err != nil || deployer == (common.Address{}) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidDeployer, c.Deployer)
	}
	initCodeHash, err := crypto.ParseHash(c.InitCodeHash)
	if err != nil || initCodeHash == (common.Hash{}) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidInitCodeHash, c.InitCodeHash)
	}
	minerAddress, err := crypto.ParseAddress(c.MinerAddress)
	if err != nil || minerAddress == (common.Address{}) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidMinerAddress, c.MinerAddress)
	}

	return &types.WorkerConfig{
		Deployer:     deployer,
		InitCodeHash: initCodeHash,
		MinerAddress: minerAddress,
		Threshold:    c.Threshold,
	}, nil
}
