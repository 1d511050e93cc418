package types

import (
	"time"

	"github.com/ethereum/go-ethereum/common"
)

// Result represents a mining result
type Result struct {
	Salt     common.Hash
	Address  common.Address
	Score    int
	Attempts int64
	Duration time.Duration
}

// WorkerConfig contains the search parameters shared by every worker
type WorkerConfig struct {
	Deployer     common.Address
	InitCodeHash common.Hash
	MinerAddress common.Address // high-order 20 bytes of every salt
	Threshold    int
}

// WorkerResult represents a candidate produced by a single worker
type WorkerResult struct {
	Salt     common.Hash
	Address  common.Address
	Score    int
	Attempts int64 // attempts made by the worker when the candidate was produced
	IsMatch  bool
}
