package miner

import (
	"bytes"
	"context"
	"math"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GianfrancoBazzani/uni-v4-address-miner/internal/config"
	"github.com/GianfrancoBazzani/uni-v4-address-miner/internal/crypto"
	"github.com/GianfrancoBazzani/uni-v4-address-miner/internal/logger"
	"github.com/GianfrancoBazzani/uni-v4-address-miner/pkg/score"
)

const testMiner = "0x1111111111111111111111111111111111111111"

func testConfig(workers, threshold int) *config.Config {
	cfg := config.NewConfig()
	cfg.MinerAddress = testMiner
	cfg.Workers = workers
	cfg.Threshold = threshold
	return cfg
}

func TestNewMiner(t *testing.T) {
	cfg := testConfig(2, 0)
	miner, err := NewMiner(cfg, logger.NewNop())
	require.NoError(t, err)
	require.NotNil(t, miner)
	assert.Same(t, cfg, miner.config)
	assert.Equal(t, common.HexToAddress(testMiner), miner.workerConfig.MinerAddress)
}

func TestNewMinerInvalidConfig(t *testing.T) {
	cfg := testConfig(2, 0)
	cfg.MinerAddress = ""
	_, err := NewMiner(cfg, logger.NewNop())
	assert.ErrorIs(t, err, config.ErrInvalidMinerAddress)
}

func TestMine(t *testing.T) {
	tests := []struct {
		name      string
		workers   int
		threshold int
	}{
		{"single worker, zero threshold", 1, 0},
		{"eight workers, zero threshold", 8, 0},
		{"single worker, leading zero", 1, 10},
		{"eight workers, leading zero", 8, 10},
		{"minimum threshold", 4, math.MinInt},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testConfig(tt.workers, tt.threshold)
			miner, err := NewMiner(cfg, logger.NewNop())
			require.NoError(t, err)

			result := miner.Mine(context.Background())
			require.NotNil(t, result)

			minerAddr := common.HexToAddress(testMiner)
			assert.Equal(t, minerAddr.Bytes(), result.Salt[:crypto.SaltPrefixLen])

			derived := crypto.Create2Address(common.HexToAddress(cfg.Deployer), result.Salt, common.HexToHash(cfg.InitCodeHash))
			assert.Equal(t, derived, result.Address)
			assert.Equal(t, score.Score(derived), result.Score)
			assert.GreaterOrEqual(t, result.Score, tt.threshold)
			assert.GreaterOrEqual(t, result.Attempts, int64(1))
			assert.Equal(t, result.Attempts, miner.Attempts())
		})
	}
}

func TestMineCancelled(t *testing.T) {
	cfg := testConfig(2, math.MaxInt)
	miner, err := NewMiner(cfg, logger.NewNop())
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	result := miner.Mine(ctx)
	assert.Nil(t, result)
	assert.Greater(t, miner.Attempts(), int64(0))

	best := miner.GetBestResult()
	require.NotNil(t, best)
	assert.Equal(t, score.Score(best.Address), best.Score)
}

func TestStop(t *testing.T) {
	cfg := testConfig(2, math.MaxInt)
	miner, err := NewMiner(cfg, logger.NewNop())
	require.NoError(t, err)

	go func() {
		time.Sleep(20 * time.Millisecond)
		miner.Stop()
	}()
	assert.Nil(t, miner.Mine(context.Background()))

	// stopping twice is harmless
	miner.Stop()
}

func TestPeriodicLogger(t *testing.T) {
	var buf bytes.Buffer
	cfg := testConfig(1, math.MaxInt)
	miner, err := NewMiner(cfg, logger.NewWriter(&buf, "info"))
	require.NoError(t, err)

	ticker := time.NewTicker(5 * time.Millisecond)
	done := make(chan struct{})
	finished := make(chan struct{})
	go func() {
		miner.periodicLogger(ticker, done, time.Now())
		close(finished)
	}()
	time.Sleep(30 * time.Millisecond)
	close(done)
	<-finished

	assert.Contains(t, buf.String(), "progress")
	assert.Contains(t, buf.String(), "attempts")
}
