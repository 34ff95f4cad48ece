// Package bloom implements the fixed 2048-bit log bloom carried in EVM
// block headers.
//
// The filter supports membership testing only: three bit positions are
// derived from the Keccak-256 hash of a candidate byte string, and the
// candidate "may be present" iff all three bits are set. The check has no
// false negatives by construction; false positives are possible and
// expected. There is deliberately no insert/resize/tuning API — the
// parameters are fixed by the header encoding, not chosen here.
package bloom

import (
	"encoding/binary"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/sha3"
)

const (
	// ByteLength is the number of bytes in a header log bloom.
	ByteLength = 256

	// BitLength is the number of bits in a header log bloom.
	BitLength = 8 * ByteLength
)

var (
	// ErrLength is returned when constructing a Bloom from input that is
	// not exactly ByteLength bytes.
	ErrLength = errors.New("bloom: filter must be exactly 256 bytes")

	// ErrNotHex is returned when a textual filter is not valid 0x hex.
	ErrNotHex = errors.New("bloom: filter must be 0x-prefixed hex")
)

// Bloom is a 2048-bit log bloom filter.
//
// The bit layout matches the big-endian integer interpretation of the
// header field: bit i lives in byte ByteLength-1-i/8, at position i%8.
type Bloom [ByteLength]byte

// FromBytes constructs a Bloom from raw header bytes.
// The input must be exactly ByteLength bytes; anything else is a caller
// input error, never a silent truncation.
func FromBytes(b []byte) (Bloom, error) {
	var bl Bloom
	if len(b) != ByteLength {
		return bl, fmt.Errorf("%w, got %d", ErrLength, len(b))
	}
	copy(bl[:], b)
	return bl, nil
}

// FromHex constructs a Bloom from the 0x-prefixed hex form used by the
// logsBloom header field.
func FromHex(s string) (Bloom, error) {
	var bl Bloom
	if !strings.HasPrefix(s, "0x") {
		return bl, ErrNotHex
	}
	raw, err := hex.DecodeString(s[2:])
	if err != nil {
		return bl, fmt.Errorf("%w: %v", ErrNotHex, err)
	}
	return FromBytes(raw)
}

// Bytes returns a copy of the filter's backing bytes.
func (b Bloom) Bytes() []byte {
	out := make([]byte, ByteLength)
	copy(out, b[:])
	return out
}

// Hex returns the 0x-prefixed hex form of the filter.
func (b Bloom) Hex() string {
	return "0x" + hex.EncodeToString(b[:])
}

// BitSet reports whether bit i of the filter is set. i must be in
// [0, BitLength); the index is masked to that range.
func (b Bloom) BitSet(i uint) bool {
	i &= BitLength - 1
	return b[ByteLength-1-i/8]>>(i%8)&1 == 1
}

// Indexes derives the three filter bit positions for data.
//
// Each position is formed from a byte pair of keccak256(data): bytes 2i
// and 2i+1 combined as a big-endian uint16, masked into [0, 2048). The
// function is total (the empty string is a valid input) and deterministic.
// Duplicate positions are returned as-is, never deduplicated.
func Indexes(data []byte) [3]uint {
	h := sha3.NewLegacyKeccak256()
	h.Write(data)
	sum := h.Sum(nil)

	var idx [3]uint
	for i := 0; i < 3; i++ {
		idx[i] = uint(binary.BigEndian.Uint16(sum[2*i:])) & (BitLength - 1)
	}
	return idx
}

// Test reports whether data may have been used to populate the filter.
//
// A false result is definitive: the candidate's bytes were not inserted.
// A true result is only "maybe": distinct inputs can hash to overlapping
// bit positions.
func (b Bloom) Test(data []byte) bool {
	for _, i := range Indexes(data) {
		if !b.BitSet(i) {
			return false
		}
	}
	return true
}
