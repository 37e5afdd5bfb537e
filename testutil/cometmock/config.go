package cometmock

import (
	"errors"
	"time"
)

var (
	ErrInvalidValidatorCount = errors.New("validator count must be at least 1")
	ErrInvalidBlockTime      = errors.New("block time must be at least 1ms")
	ErrInvalidBlockSize      = errors.New("max block size must be positive")
	ErrInvalidMaxGas         = errors.New("max gas must be positive")
	ErrMissingChainID        = errors.New("chain ID cannot be empty")
	ErrInvalidInitialHeight  = errors.New("initial height must be at least 1")
)

// MockConfig configures the mock consensus harness.
type MockConfig struct {
	BlockTime    time.Duration
	MaxBlockSize int64
	MaxGas       int64

	ChainID       string
	NumValidators int
	InitialHeight int64
}

// DefaultMockConfig returns a single-validator chain with fast blocks.
func DefaultMockConfig() MockConfig {
	return MockConfig{
		BlockTime:     time.Second,
		MaxBlockSize:  200000,
		MaxGas:        2000000,
		ChainID:       "obligo-test-1",
		NumValidators: 1,
		InitialHeight: 1,
	}
}

// WithChainID sets the chain ID.
func (c MockConfig) WithChainID(chainID string) MockConfig {
	c.ChainID = chainID
	return c
}

// WithValidators sets the number of validators.
func (c MockConfig) WithValidators(num int) MockConfig {
	c.NumValidators = num
	return c
}

// WithBlockTime sets how far each NextBlock advances the block clock.
func (c MockConfig) WithBlockTime(duration time.Duration) MockConfig {
	c.BlockTime = duration
	return c
}

// Validate checks if the configuration is valid.
func (c MockConfig) Validate() error {
	if c.NumValidators < 1 {
		return ErrInvalidValidatorCount
	}
	if c.BlockTime < time.Millisecond {
		return ErrInvalidBlockTime
	}
	if c.MaxBlockSize < 1 {
		return ErrInvalidBlockSize
	}
	if c.MaxGas < 1 {
		return ErrInvalidMaxGas
	}
	if c.ChainID == "" {
		return ErrMissingChainID
	}
	if c.InitialHeight < 1 {
		return ErrInvalidInitialHeight
	}
	return nil
}
