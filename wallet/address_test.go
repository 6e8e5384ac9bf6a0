package wallet

import (
	"crypto/ed25519"
	"crypto/sha256"
	"encoding/binary"
	"testing"

	"filippo.io/edwards25519"
	"github.com/mr-tron/base58"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newWalletAddress(t *testing.T) string {
	t.Helper()
	pub, _, err := ed25519.GenerateKey(nil)
	require.NoError(t, err)
	return base58.Encode(pub)
}

func offCurveAddress(t *testing.T) string {
	t.Helper()
	var seed [8]byte
	for i := uint64(0); i < 1000; i++ {
		binary.BigEndian.PutUint64(seed[:], i)
		candidate := sha256.Sum256(seed[:])
		if _, err := new(edwards25519.Point).SetBytes(candidate[:]); err != nil {
			return base58.Encode(candidate[:])
		}
	}
	t.Fatalf("no off-curve point found")
	return ""
}

func TestValidateAddress(t *testing.T) {
	valid := newWalletAddress(t)

	got, err := ValidateAddress("  " + valid + "\n")
	require.NoError(t, err)
	assert.Equal(t, valid, got)

	for name, address := range map[string]string{
		"empty":      "",
		"not base58": "0OIl" + valid[4:],
		"too short":  base58.Encode([]byte{1, 2, 3}),
		"too long":   base58.Encode(make([]byte, 64)),
		"off curve":  offCurveAddress(t),
	} {
		t.Run(name, func(t *testing.T) {
			_, err := ValidateAddress(address)
			assert.ErrorIs(t, err, ErrInvalidAddress)
		})
	}
}

func TestLamportsToSOL(t *testing.T) {
	assert.Equal(t, 0.0, LamportsToSOL(0))
	assert.Equal(t, 1.0, LamportsToSOL(1_000_000_000))
	assert.Equal(t, 0.000000001, LamportsToSOL(1))
	assert.Equal(t, 12.3456789, LamportsToSOL(12_345_678_900))
}
