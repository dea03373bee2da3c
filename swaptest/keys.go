package swaptest

import (
	"github.com/iov-one/pairswap"
	"golang.org/x/crypto/ed25519"
)

// NewKey returns a freshly generated ed25519 private key.
func NewKey() ed25519.PrivateKey {
	_, priv, err := ed25519.GenerateKey(nil)
	if err != nil {
		panic(err)
	}
	return priv
}

// NewCondition returns a signature condition of a freshly generated
// ed25519 key.
func NewCondition() pairswap.Condition {
	pub := NewKey().Public().(ed25519.PublicKey)
	return pairswap.NewCondition("sigs", "ed25519", pub)
}
