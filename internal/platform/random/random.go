// Package random provides cryptographic randomness helpers.
package random

import (
	crand "crypto/rand"
	"encoding/binary"
	"fmt"
)

// NewSeed generates a random seed using crypto/rand.
func NewSeed() (int64, error) {
	var b [8]byte
	if _, err := crand.Read(b[:]); err != nil {
		return 0, fmt.Errorf("read random seed: %w", err)
	}

	return int64(binary.LittleEndian.Uint64(b[:])), nil
}

// CoinFlip returns a fair random boolean using crypto/rand.
func CoinFlip() (bool, error) {
	var b [1]byte
	if _, err := crand.Read(b[:]); err != nil {
		return false, fmt.Errorf("read random byte: %w", err)
	}
	return b[0]&1 == 1, nil
}
