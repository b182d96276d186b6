package app

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

const (
	seedBalanceMin = 1_000_000   // won
	seedBalanceMax = 100_000_000 // exclusive
)

// NewAccountNumber generates a 12-digit account number as three independently
// random 4-digit groups, leading zeros preserved (NNNN-NNNN-NNNN).
// Uniqueness is probabilistic only; with 10^12 possible numbers the collision
// risk is accepted for this system.
func NewAccountNumber() string {
	return fmt.Sprintf("%s-%s-%s", randomGroup(), randomGroup(), randomGroup())
}

func randomGroup() string {
	n, err := rand.Int(rand.Reader, big.NewInt(10_000))
	if err != nil {
		// crypto/rand only fails when the platform's entropy source is broken.
		panic(fmt.Sprintf("account number generation failed: %v", err))
	}
	return fmt.Sprintf("%04d", n.Int64())
}

// NewSeedBalance picks the demonstration opening balance uniformly from
// [1,000,000, 100,000,000) won.
func NewSeedBalance() int64 {
	n, err := rand.Int(rand.Reader, big.NewInt(seedBalanceMax-seedBalanceMin))
	if err != nil {
		panic(fmt.Sprintf("seed balance generation failed: %v", err))
	}
	return n.Int64() + seedBalanceMin
}
