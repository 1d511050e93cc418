package score

import (
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
)

func TestScore(t *testing.T) {
	tests := []struct {
		name     string
		addr     string
		expected int
	}{
		{"no points", "0x1111111111111111111111111111111111111111", 0},
		{"four leading zeros", "0x0000111111111111111111111111111111111111", 40},
		{"exact run of four 4s", "0x4444111111111111111111111111111111111111", 64},
		{"run of five 4s caps the bonus", "0x4444411111111111111111111111111111111111", 45},
		{"single leading 4", "0x4111111111111111111111111111111111111111", 1},
		{"trailing fours only", "0x1111111111111111111111111111111111114444", 24},
		{"zeros then a single 4", "0x0004111111111111111111111111111111111444", 34},
		{"zeros then exact run", "0x0044440111111111111111111111111111111111", 84},
		{"zeros, run and trailing fours", "0x0000444412111111111111111111111111114444", 128},
		{"all zeros", "0x0000000000000000000000000000000000000000", 400},
		{"all fours", "0x4444444444444444444444444444444444444444", 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Score(common.HexToAddress(tt.addr)))
		})
	}
}

func TestScoreTrailingFoursIsIndependent(t *testing.T) {
	base := common.HexToAddress("0x0000444412111111111111111111111111111111")
	withTail := base
	withTail[18], withTail[19] = 0x44, 0x44

	// two 0x11 bytes replaced by four 4 nibbles: +4 scattered, +20 bonus
	assert.Equal(t, Score(base)+4*FourPoints+TrailingFoursBonus, Score(withTail))
}

func TestScoreIsDeterministic(t *testing.T) {
	addr := common.HexToAddress("0xe07d489d16f827ae3ef19663fd167c7755cd767b")
	first := Score(addr)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, Score(addr))
	}
	assert.Equal(t, 1, first)
}

func TestNibble(t *testing.T) {
	addr := common.HexToAddress("0xab00000000000000000000000000000000000012")
	assert.Equal(t, byte(0xa), Nibble(addr, 0))
	assert.Equal(t, byte(0xb), Nibble(addr, 1))
	assert.Equal(t, byte(0x1), Nibble(addr, NibbleCount-2))
	assert.Equal(t, byte(0x2), Nibble(addr, NibbleCount-1))
}
