package domain

import (
	"bytes"
	"strings"
	"testing"
)

func TestParseAddress(t *testing.T) {
	raw, err := ParseAddress("0x" + strings.Repeat("ab", 20))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !bytes.Equal(raw, bytes.Repeat([]byte{0xab}, 20)) {
		t.Errorf("unexpected decode: %x", raw)
	}

	// Checksummed (mixed-case) input decodes to the same bytes.
	upper, err := ParseAddress("0x" + strings.Repeat("AB", 20))
	if err != nil {
		t.Fatalf("unexpected error for mixed case: %v", err)
	}
	if !bytes.Equal(upper, raw) {
		t.Error("case of hex input changed decoded bytes")
	}
}

func TestParseAddress_Invalid(t *testing.T) {
	cases := []string{
		"",
		"abab",                           // no 0x prefix
		"0x" + strings.Repeat("ab", 19),  // short
		"0x" + strings.Repeat("ab", 21),  // long
		"0x" + strings.Repeat("zz", 20),  // not hex
	}
	for _, in := range cases {
		if _, err := ParseAddress(in); err == nil {
			t.Errorf("expected error for %q", in)
		}
	}
}

func TestParseTopic(t *testing.T) {
	// ERC20 Transfer event signature.
	const sig = "0xddf252ad1be2c89b69c2b068fc378daa952ba7f163c4a11628f55a4df523b3ef"
	raw, err := ParseTopic(sig)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(raw) != TopicBytes {
		t.Errorf("expected %d bytes, got %d", TopicBytes, len(raw))
	}

	if _, err := ParseTopic("0x" + strings.Repeat("00", 20)); err == nil {
		t.Error("expected error for 20-byte topic")
	}
}

func TestChainIDName(t *testing.T) {
	if got := ChainIDEthereum.Name(); got != "Ethereum Mainnet" {
		t.Errorf("unexpected name: %s", got)
	}
	if got := ChainID(999999).Name(); got != "Unknown (chain ID 999999)" {
		t.Errorf("unexpected unknown-chain name: %s", got)
	}
}
