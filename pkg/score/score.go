// Package score rates CREATE2 addresses by how closely they match the
// Uniswap v4 address mining rules.
//
// Rules, evaluated over the 40 nibbles of the address:
//   - 10 points for each leading 0 nibble
//   - 60 points if the leading zeros are followed by exactly four 4s,
//     40 points if they are followed by five or more 4s
//   - 20 points if the last four nibbles are all 4s
//   - 1 point for each 4 nibble outside the leading zeros, including
//     the nibbles of the leading run of 4s
package score

import "github.com/ethereum/go-ethereum/common"

// Points awarded per rule.
const (
	LeadingZeroPoints  = 10
	FourPoints         = 1
	ExactFourRunBonus  = 60
	LongFourRunBonus   = 40
	TrailingFoursBonus = 20

	// NibbleCount is the number of nibbles in an address.
	NibbleCount = 2 * common.AddressLength
)

// Nibble returns the i-th nibble of addr, high nibble first.
func Nibble(addr common.Address, i int) byte {
	b := addr[i/2]
	if i%2 == 0 {
		return b >> 4
	}
	return b & 0x0f
}

// Score computes the score of addr. It is a pure function of the address bytes.
func Score(addr common.Address) int {
	var (
		score        int
		leadingZeros int
		leadingFours int
		inZeros      = true
		inFours      bool
	)

	for i := 0; i < NibbleCount; i++ {
		n := Nibble(addr, i)
		if inZeros {
			if n == 0 {
				leadingZeros++
				continue
			}
			// the run of fours starts at the first non-zero nibble
			inZeros = false
			inFours = true
		}
		if inFours {
			if n == 4 {
				leadingFours++
				score += FourPoints
				continue
			}
			inFours = false
		}
		if n == 4 {
			score += FourPoints
		}
	}

	score += leadingZeros * LeadingZeroPoints
	switch {
	case leadingFours == 4:
		score += ExactFourRunBonus
	case leadingFours > 4:
		score += LongFourRunBonus
	}
	if HasTrailingFours(addr) {
		score += TrailingFoursBonus
	}
	return score
}

// HasTrailingFours reports whether the last two bytes of addr are 0x4444.
func HasTrailingFours(addr common.Address) bool {
	return addr[18] == 0x44 && addr[19] == 0x44
}
