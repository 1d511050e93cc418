package crypto

import (
	"fmt"
	"hash"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	gethcrypto "github.com/ethereum/go-ethereum/crypto"
	"golang.org/x/crypto/sha3"
)

const (
	// CREATE2 input layout: 0xff (1) + deployer (20) + salt (32) + initcodeHash (32) = 85
	Create2PrefixLen = 1 + common.AddressLength
	Create2SaltLen   = common.HashLength
	Create2SuffixLen = common.HashLength
	Create2InputLen  = Create2PrefixLen + Create2SaltLen + Create2SuffixLen

	// Salt layout: miner address (20) + random bytes (12)
	SaltPrefixLen = common.AddressLength
	SaltRandomLen = Create2SaltLen - SaltPrefixLen

	// Offsets of the salt and its random tail inside the CREATE2 input.
	SaltOffset       = Create2PrefixLen
	SaltRandomOffset = SaltOffset + SaltPrefixLen
)

// NewHasher returns a Keccak-256 hasher suitable for Create2AddressInto.
func NewHasher() hash.Hash {
	return sha3.NewLegacyKeccak256()
}

// Create2Input lays out the CREATE2 preimage for deployer, salt and initCodeHash.
// Workers keep the returned buffer and only rewrite the random salt bytes between attempts.
func Create2Input(deployer common.Address, salt, initCodeHash common.Hash) [Create2InputLen]byte {
	var buf [Create2InputLen]byte
	buf[0] = 0xff
	copy(buf[1:Create2PrefixLen], deployer[:])
	copy(buf[SaltOffset:SaltOffset+Create2SaltLen], salt[:])
	copy(buf[SaltOffset+Create2SaltLen:], initCodeHash[:])
	return buf
}

// Create2AddressInto hashes CREATE2 input and writes the 20-byte address into addrBuf.
// Reuses the provided hasher to avoid allocations. inputBuf must be Create2InputLen (85),
// hashBuf must be at least 32 bytes, addrBuf must be 20 bytes.
func Create2AddressInto(hasher hash.Hash, inputBuf, hashBuf, addrBuf []byte) {
	hasher.Reset()
	hasher.Write(inputBuf)
	sum := hasher.Sum(hashBuf[:0])
	copy(addrBuf, sum[12:32])
}

// Create2Address computes the address of a contract created with CREATE2:
// keccak256(0xff ++ deployer ++ salt ++ initCodeHash)[12:].
func Create2Address(deployer common.Address, salt, initCodeHash common.Hash) common.Address {
	return gethcrypto.CreateAddress2(deployer, salt, initCodeHash.Bytes())
}

// ParseAddress decodes a 20-byte hex address, with or without 0x.
func ParseAddress(s string) (common.Address, error) {
	h := strings.TrimSpace(s)
	if !common.IsHexAddress(h) {
		return common.Address{}, fmt.Errorf("invalid address %q", s)
	}
	return common.HexToAddress(h), nil
}

// ParseHash decodes a 32-byte hex hash, with or without 0x.
func ParseHash(s string) (common.Hash, error) {
	h := strings.TrimSpace(s)
	if !has0xPrefix(h) {
		h = "0x" + h
	}
	b, err := hexutil.Decode(h)
	if err != nil {
		return common.Hash{}, fmt.Errorf("invalid hash %q: %w", s, err)
	}
	if len(b) != common.HashLength {
		return common.Hash{}, fmt.Errorf("invalid hash length: got %d bytes, want %d", len(b), common.HashLength)
	}
	return common.BytesToHash(b), nil
}

func has0xPrefix(s string) bool {
	return len(s) >= 2 && s[0] == '0' && (s[1] == 'x' || s[1] == 'X')
}
