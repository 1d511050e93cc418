package worker

import (
	crand "crypto/rand"
	"encoding/binary"
	"hash"
	"math/rand/v2"
	"sync/atomic"

	"github.com/ethereum/go-ethereum/common"

	"github.com/GianfrancoBazzani/uni-v4-address-miner/internal/crypto"
	"github.com/GianfrancoBazzani/uni-v4-address-miner/pkg/score"
	"github.com/GianfrancoBazzani/uni-v4-address-miner/pkg/types"
)

// Worker generates candidate salts and scores the resulting addresses.
// A Worker is not safe for concurrent use; run one per goroutine.
type Worker struct {
	config   *types.WorkerConfig
	attempts *int64 // shared counter, may be nil
	local    int64
	rng      *rand.ChaCha8

	// Pre-allocated buffers for performance
	hasher  hash.Hash
	input   [crypto.Create2InputLen]byte
	hashBuf [32]byte
	addrBuf common.Address
}

// NewWorker creates a new worker instance with its own randomly seeded generator.
// attempts, when not nil, is incremented for every address derived.
func NewWorker(config *types.WorkerConfig, attempts *int64) *Worker {
	var seed [32]byte
	if _, err := crand.Read(seed[:]); err != nil {
		panic("seed worker rng: " + err.Error())
	}
	return NewSeededWorker(config, attempts, seed)
}

// NewSeededWorker creates a worker whose salt sequence is fully determined by seed.
func NewSeededWorker(config *types.WorkerConfig, attempts *int64, seed [32]byte) *Worker {
	var salt common.Hash
	copy(salt[:crypto.SaltPrefixLen], config.MinerAddress[:])

	return &Worker{
		config:   config,
		attempts: attempts,
		rng:      rand.NewChaCha8(seed),
		hasher:   crypto.NewHasher(),
		input:    crypto.Create2Input(config.Deployer, salt, config.InitCodeHash),
	}
}

// next draws fresh random salt bytes and derives the resulting address into addrBuf.
func (w *Worker) next() {
	tail := w.input[crypto.SaltRandomOffset : crypto.SaltRandomOffset+crypto.SaltRandomLen]
	binary.LittleEndian.PutUint64(tail[:8], w.rng.Uint64())
	binary.LittleEndian.PutUint32(tail[8:], uint32(w.rng.Uint64()))

	crypto.Create2AddressInto(w.hasher, w.input[:], w.hashBuf[:], w.addrBuf[:])
	w.local++
}

// salt returns the salt used for the latest attempt.
func (w *Worker) salt() common.Hash {
	return common.BytesToHash(w.input[crypto.SaltOffset : crypto.SaltOffset+crypto.Create2SaltLen])
}

func (w *Worker) result(s int) *types.WorkerResult {
	return &types.WorkerResult{
		Salt:     w.salt(),
		Address:  w.addrBuf,
		Score:    s,
		Attempts: w.local,
		IsMatch:  s >= w.config.Threshold,
	}
}

// GenerateAddress generates a single address and scores it
func (w *Worker) GenerateAddress() *types.WorkerResult {
	w.next()
	if w.attempts != nil {
		atomic.AddInt64(w.attempts, 1)
	}
	return w.result(score.Score(w.addrBuf))
}

// ProcessBatch makes up to batchSize attempts. It returns as soon as a candidate
// reaches the threshold; otherwise it returns the best candidate of the batch,
// with IsMatch unset. It returns nil when batchSize is not positive.
func (w *Worker) ProcessBatch(batchSize int) *types.WorkerResult {
	var best *types.WorkerResult
	start := w.local
	defer func() {
		if w.attempts != nil {
			atomic.AddInt64(w.attempts, w.local-start)
		}
	}()

	for i := 0; i < batchSize; i++ {
		w.next()
		s := score.Score(w.addrBuf)
		if s >= w.config.Threshold {
			return w.result(s)
		}
		if best == nil || s > best.Score {
			best = w.result(s)
		}
	}
	return best
}

// Mine searches until it finds a salt whose address reaches the threshold.
// There is no attempt limit: an unreachable threshold never returns.
func (w *Worker) Mine() common.Hash {
	start := w.local
	for {
		w.next()
		if score.Score(w.addrBuf) >= w.config.Threshold {
			if w.attempts != nil {
				atomic.AddInt64(w.attempts, w.local-start)
			}
			return w.salt()
		}
	}
}

// MineSalt returns a salt, prefixed by minerAddress, for which the CREATE2 address
// of initCodeHash deployed by deployer scores at least threshold.
// It blocks until such a salt is found.
func MineSalt(deployer common.Address, initCodeHash common.Hash, minerAddress common.Address, threshold int) common.Hash {
	return NewWorker(&types.WorkerConfig{
		Deployer:     deployer,
		InitCodeHash: initCodeHash,
		MinerAddress: minerAddress,
		Threshold:    threshold,
	}, nil).Mine()
}
