package encryption

import (
	"bytes"
	"errors"
	"testing"
)

var algorithms = []Algorithm{AlgorithmAESGCM, AlgorithmChaCha20}

func TestSealOpenRoundTrip(t *testing.T) {
	plaintexts := [][]byte{
		[]byte(`{"users":[]}`),
		{},
		bytes.Repeat([]byte("x"), 10_000),
	}
	for _, alg := range algorithms {
		t.Run(string(alg), func(t *testing.T) {
			enc, err := New("test-key", WithAlgorithm(alg))
			if err != nil {
				t.Fatalf("New: %v", err)
			}
			for _, pt := range plaintexts {
				sealed, err := enc.Seal(pt)
				if err != nil {
					t.Fatalf("Seal: %v", err)
				}
				if len(pt) > 0 && bytes.Contains(sealed, pt) {
					t.Error("sealed output contains plaintext")
				}
				got, err := enc.Open(sealed)
				if err != nil {
					t.Fatalf("Open: %v", err)
				}
				if !bytes.Equal(got, pt) {
					t.Errorf("roundtrip mismatch: got %d bytes, want %d", len(got), len(pt))
				}
			}
		})
	}
}

func TestSealUsesFreshNonce(t *testing.T) {
	enc, _ := New("test-key")
	a, _ := enc.Seal([]byte("same"))
	b, _ := enc.Seal([]byte("same"))
	if bytes.Equal(a, b) {
		t.Error("expected different ciphertexts for the same plaintext")
	}
}

func TestOpenWithWrongKey(t *testing.T) {
	for _, alg := range algorithms {
		t.Run(string(alg), func(t *testing.T) {
			a, _ := New("key-a", WithAlgorithm(alg))
			b, _ := New("key-b", WithAlgorithm(alg))
			sealed, _ := a.Seal([]byte("secret"))
			if _, err := b.Open(sealed); err == nil {
				t.Error("expected error opening with the wrong key")
			}
		})
	}
}

func TestOpenTampered(t *testing.T) {
	enc, _ := New("test-key")
	sealed, _ := enc.Seal([]byte("secret"))
	sealed[len(sealed)-1] ^= 0xff
	if _, err := enc.Open(sealed); err == nil {
		t.Error("expected authentication failure")
	}
}

func TestOpenTooShort(t *testing.T) {
	enc, _ := New("test-key")
	if _, err := enc.Open([]byte{1, 2, 3}); !errors.Is(err, ErrCiphertextTooShort) {
		t.Errorf("expected ErrCiphertextTooShort, got %v", err)
	}
}

func TestNewUnsupportedAlgorithm(t *testing.T) {
	if _, err := New("k", WithAlgorithm("rot13")); err == nil {
		t.Error("expected error for unsupported algorithm")
	}
}

func TestFromConfig(t *testing.T) {
	enc, err := FromConfig(Config{})
	if err != nil || enc != nil {
		t.Errorf("disabled config: got %v, %v", enc, err)
	}
	if _, err := FromConfig(Config{Enabled: true}); err == nil {
		t.Error("expected error for enabled config without key")
	}
	enc, err = FromConfig(Config{Enabled: true, Key: "k", Algorithm: AlgorithmChaCha20})
	if err != nil || enc == nil {
		t.Fatalf("enabled config: got %v, %v", enc, err)
	}
}
