package miner

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/GianfrancoBazzani/uni-v4-address-miner/internal/config"
	"github.com/GianfrancoBazzani/uni-v4-address-miner/internal/logger"
	"github.com/GianfrancoBazzani/uni-v4-address-miner/pkg/types"
	"github.com/GianfrancoBazzani/uni-v4-address-miner/pkg/worker"
)

// batchSize is the number of attempts a worker makes between checks of the done channel.
const batchSize = 1000

// Miner runs independent salt-mining workers and reports the first qualifying salt
type Miner struct {
	config       *config.Config
	logger       *logger.Logger
	attempts     int64
	result       *types.Result // first qualifying result
	bestResult   *types.Result // highest score seen so far
	mu           sync.RWMutex
	done         chan struct{}
	wg           sync.WaitGroup
	once         sync.Once
	workerConfig *types.WorkerConfig
}

// NewMiner creates a new miner instance from a validated configuration
func NewMiner(cfg *config.Config, log *logger.Logger) (*Miner, error) {
	workerConfig, err := cfg.WorkerConfig()
	if err != nil {
		return nil, err
	}

	return &Miner{
		config:       cfg,
		logger:       log,
		done:         make(chan struct{}),
		workerConfig: workerConfig,
	}, nil
}

// Mine starts the workers and blocks until one of them finds a salt that reaches
// the threshold, or until ctx is cancelled or Stop is called. It returns nil if
// the search was stopped before any match.
func (m *Miner) Mine(ctx context.Context) *types.Result {
	start := time.Now()

	for i := 0; i < m.config.Workers; i++ {
		m.wg.Add(1)
		go m.worker(i)
	}

	go func() {
		select {
		case <-ctx.Done():
			m.Stop()
		case <-m.done:
		}
	}()

	// Start periodic logging if verbose mode is enabled
	var logDone chan struct{}
	if m.config.Verbose && m.config.LogInterval > 0 {
		interval := time.Duration(m.config.LogInterval) * time.Second
		logDone = make(chan struct{})
		go m.periodicLogger(time.NewTicker(interval), logDone, start)

		m.logger.Infof("Mining started with %d workers, logging every %d seconds...",
			m.config.Workers, m.config.LogInterval)
	}

	m.wg.Wait()

	if logDone != nil {
		close(logDone)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	duration := time.Since(start)
	if m.bestResult != nil {
		m.bestResult.Attempts = atomic.LoadInt64(&m.attempts)
		m.bestResult.Duration = duration
	}
	if m.result != nil {
		m.result.Attempts = atomic.LoadInt64(&m.attempts)
		m.result.Duration = duration
	}
	return m.result
}

// worker runs the mining loop for a single worker
func (m *Miner) worker(workerID int) {
	defer m.wg.Done()

	w := worker.NewWorker(m.workerConfig, &m.attempts)
	m.logger.Debugw("worker started", "worker", workerID)

	for {
		select {
		case <-m.done:
			return
		default:
		}

		candidate := w.ProcessBatch(batchSize)
		if candidate == nil {
			continue
		}

		m.mu.Lock()
		if m.bestResult == nil || candidate.Score > m.bestResult.Score {
			m.bestResult = toResult(candidate)
		}
		if candidate.IsMatch && m.result == nil {
			m.result = toResult(candidate)
			m.logger.Debugw("worker found match", "worker", workerID, "attempts", candidate.Attempts)
			m.once.Do(func() { close(m.done) })
		}
		m.mu.Unlock()

		if candidate.IsMatch {
			return
		}
	}
}

func toResult(c *types.WorkerResult) *types.Result {
	return &types.Result{
		Salt:    c.Salt,
		Address: c.Address,
		Score:   c.Score,
	}
}

// Stop stops the mining process
func (m *Miner) Stop() {
	m.once.Do(func() { close(m.done) })
}

// Attempts returns the number of addresses derived so far by all workers
func (m *Miner) Attempts() int64 {
	return atomic.LoadInt64(&m.attempts)
}

// GetBestResult returns the highest-scoring candidate seen so far
func (m *Miner) GetBestResult() *types.Result {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.bestResult
}

// periodicLogger logs mining progress at regular intervals
func (m *Miner) periodicLogger(ticker *time.Ticker, done chan struct{}, start time.Time) {
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			attempts := atomic.LoadInt64(&m.attempts)
			elapsed := time.Since(start)

			// Calculate rate safely
			rate := 0.0
			if elapsed.Seconds() > 0 {
				rate = float64(attempts) / elapsed.Seconds()
			}

			m.mu.RLock()
			best := m.bestResult
			m.mu.RUnlock()

			if best != nil {
				m.logger.Infow("progress",
					"attempts", attempts,
					"rate", rate,
					"best_score", best.Score,
					"best_address", best.Address.Hex(),
				)
			} else {
				m.logger.Infow("progress", "attempts", attempts, "rate", rate)
			}
		case <-done:
			return
		}
	}
}
