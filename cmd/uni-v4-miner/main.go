package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/GianfrancoBazzani/uni-v4-address-miner/internal/config"
	logpkg "github.com/GianfrancoBazzani/uni-v4-address-miner/internal/logger"
	minerpkg "github.com/GianfrancoBazzani/uni-v4-address-miner/pkg/miner"
	"github.com/GianfrancoBazzani/uni-v4-address-miner/pkg/types"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	cfg := config.NewConfig()
	var configPath string

	rootCmd := &cobra.Command{
		Use:   "uni-v4-miner [miner_address] [score_threshold]",
		Short: "CREATE2 salt miner for Uniswap v4 style vanity addresses",
		Long: `Searches for a CREATE2 salt, prefixed by the miner address, whose resulting
contract address scores at least score_threshold under the Uniswap v4 address
mining rules. The search has no attempt limit: an unreachable threshold runs
until interrupted.`,
		Args:          cobra.MaximumNArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if configPath != "" {
				fileCfg, err := config.LoadFile(configPath)
				if err != nil {
					return err
				}
				applyFlags(cmd, fileCfg, cfg)
				cfg = fileCfg
			}
			if len(args) > 0 {
				cfg.MinerAddress = args[0]
			}
			if len(args) > 1 {
				threshold, err := strconv.Atoi(args[1])
				if err != nil {
					return fmt.Errorf("invalid score threshold %q: %w", args[1], err)
				}
				cfg.Threshold = threshold
			}
			return runMiner(cmd.Context(), cmd.OutOrStdout(), cfg)
		},
	}

	rootCmd.Flags().IntVarP(&cfg.Workers, "threads", "t", config.DefaultWorkers, "Number of worker goroutines")
	rootCmd.Flags().StringVarP(&cfg.Deployer, "deployer-address", "d", config.DefaultDeployerAddress, "CREATE2 deployer address (hex)")
	rootCmd.Flags().StringVarP(&cfg.InitCodeHash, "init-code-hash", "i", config.DefaultInitCodeHash, "Keccak-256 hash of the contract init code (hex)")
	rootCmd.Flags().StringVarP(&configPath, "config", "c", "", "YAML configuration file; explicit flags and arguments take precedence")
	rootCmd.Flags().BoolVarP(&cfg.Verbose, "verbose", "v", false, "Log progress periodically")
	rootCmd.Flags().StringVarP(&cfg.LogFile, "log-file", "l", "", "Log file for progress tracking (default: stdout)")
	rootCmd.Flags().StringVar(&cfg.LogLevel, "log-level", config.DefaultLogLevel, "Log level: debug, info, warn or error")
	rootCmd.Flags().IntVar(&cfg.LogInterval, "log-interval", config.DefaultLogInterval, "Logging interval in seconds")

	return rootCmd
}

// applyFlags copies the explicitly set flags from flagCfg over fileCfg.
func applyFlags(cmd *cobra.Command, fileCfg, flagCfg *config.Config) {
	changed := cmd.Flags().Changed
	if changed("threads") {
		fileCfg.Workers = flagCfg.Workers
	}
	if changed("deployer-address") {
		fileCfg.Deployer = flagCfg.Deployer
	}
	if changed("init-code-hash") {
		fileCfg.InitCodeHash = flagCfg.InitCodeHash
	}
	if changed("verbose") {
		fileCfg.Verbose = flagCfg.Verbose
	}
	if changed("log-file") {
		fileCfg.LogFile = flagCfg.LogFile
	}
	if changed("log-level") {
		fileCfg.LogLevel = flagCfg.LogLevel
	}
	if changed("log-interval") {
		fileCfg.LogInterval = flagCfg.LogInterval
	}
}

func runMiner(ctx context.Context, out io.Writer, cfg *config.Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger, closeLog, err := setupLogging(cfg)
	if err != nil {
		return err
	}
	defer closeLog()

	miner, err := minerpkg.NewMiner(cfg, logger)
	if err != nil {
		return err
	}

	logger.Infow("Starting address mining...",
		"deployer", cfg.Deployer,
		"init_code_hash", cfg.InitCodeHash,
		"miner_address", cfg.MinerAddress,
		"score_threshold", cfg.Threshold,
		"threads", cfg.Workers,
	)

	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	result := miner.Mine(ctx)
	if result != nil {
		fmt.Fprintln(out, "Found a valid salt!")
		printResult(out, result)
		logger.Infow("found match",
			"attempts", result.Attempts,
			"duration", result.Duration,
			"rate", rate(result),
		)
		return nil
	}

	logger.Info("Received interrupt signal. Mining stopped.")
	if best := miner.GetBestResult(); best != nil {
		fmt.Fprintln(out, "Best result so far (below threshold):")
		printResult(out, best)
	}
	return nil
}

func printResult(out io.Writer, result *types.Result) {
	fmt.Fprintf(out, "Salt: %s\n", result.Salt.Hex())
	fmt.Fprintf(out, "Address: %s\n", result.Address.Hex())
	fmt.Fprintf(out, "Address score: %d\n", result.Score)
}

func rate(result *types.Result) float64 {
	if result.Duration.Seconds() > 0 {
		return float64(result.Attempts) / result.Duration.Seconds()
	}
	return 0
}

func setupLogging(cfg *config.Config) (*logpkg.Logger, func(), error) {
	if cfg.LogFile == "" {
		logger := logpkg.New(cfg.LogLevel)
		return logger, func() { _ = logger.Sync() }, nil
	}

	file, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}
	logger := logpkg.NewWriter(file, cfg.LogLevel)
	return logger, func() {
		_ = logger.Sync()
		_ = file.Close()
	}, nil
}
