package domain

import (
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
)

const (
	// AddressBytes is the raw length of a contract/account address.
	AddressBytes = 20

	// TopicBytes is the raw length of an event topic.
	TopicBytes = 32
)

var (
	// ErrNotHex is returned for candidates that are not 0x-prefixed hex.
	ErrNotHex = errors.New("candidate must be 0x-prefixed hex")

	// ErrBadLength is returned for candidates of the wrong byte length.
	ErrBadLength = errors.New("candidate has wrong length")
)

// ParseAddress decodes a 0x-prefixed 20-byte address into raw bytes.
// These are the exact bytes hashed for bloom index derivation; the
// textual form is never hashed.
func ParseAddress(s string) ([]byte, error) {
	return parseCandidate(s, AddressBytes, "address")
}

// ParseTopic decodes a 0x-prefixed 32-byte event topic into raw bytes.
func ParseTopic(s string) ([]byte, error) {
	return parseCandidate(s, TopicBytes, "topic")
}

func parseCandidate(s string, size int, kind string) ([]byte, error) {
	if !strings.HasPrefix(s, "0x") {
		return nil, fmt.Errorf("%s %q: %w", kind, s, ErrNotHex)
	}
	raw, err := hex.DecodeString(strings.ToLower(s[2:]))
	if err != nil {
		return nil, fmt.Errorf("%s %q: %w", kind, s, ErrNotHex)
	}
	if len(raw) != size {
		return nil, fmt.Errorf("%s %q: %w: want %d bytes, got %d",
			kind, s, ErrBadLength, size, len(raw))
	}
	return raw, nil
}
