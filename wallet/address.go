// Package wallet validates Solana wallet addresses, reads their balance over
// JSON-RPC and records connected wallets.
package wallet

import (
	"strings"

	"filippo.io/edwards25519"
	"github.com/mr-tron/base58"
	"github.com/pkg/errors"
)

const publicKeyLength = 32

var ErrInvalidAddress = errors.New("invalid wallet address")

// ValidateAddress accepts a base58 encoded ed25519 public key that lies on
// the curve. Program derived addresses are off the curve and are rejected
// since no wallet can sign for them.
func ValidateAddress(address string) (string, error) {
	address = strings.TrimSpace(address)
	if address == "" {
		return "", errors.Wrap(ErrInvalidAddress, "empty")
	}
	decoded, err := base58.Decode(address)
	if err != nil {
		return "", errors.Wrapf(ErrInvalidAddress, "%s is not base58", address)
	}
	if len(decoded) != publicKeyLength {
		return "", errors.Wrapf(ErrInvalidAddress, "%s decodes to %d bytes", address, len(decoded))
	}
	if _, err := new(edwards25519.Point).SetBytes(decoded); err != nil {
		return "", errors.Wrapf(ErrInvalidAddress, "%s is not on the ed25519 curve", address)
	}
	return address, nil
}
