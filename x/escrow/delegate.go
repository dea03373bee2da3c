package escrow

import (
	"context"
	"crypto/sha256"

	"filippo.io/edwards25519"
	"github.com/iov-one/pairswap"
	"github.com/iov-one/pairswap/errors"
	"github.com/iov-one/pairswap/x"
)

// DelegateSeed is mixed into every delegate derivation. It binds delegates
// to this program so that no other program can derive the same authority
// from the same base.
const DelegateSeed = "pairswap/escrow/v1"

// MaxBump is the highest derivation bump value.
const MaxBump = 255

// Delegate is the keyless authority of a single escrow. It is reconstructed
// from the escrow base and bump whenever the escrow must sign.
type Delegate struct {
	base   pairswap.Address
	bump   uint32
	digest []byte
}

// NewDelegate derives the delegate of given base using given bump. It fails
// with ErrInvalidDerivation if the derived digest is a valid ed25519 public
// key, because then a private key could exist for it.
func NewDelegate(base pairswap.Address, bump uint32) (*Delegate, error) {
	if err := base.Validate(); err != nil {
		return nil, errors.Wrap(err, "base")
	}
	if bump > MaxBump {
		return nil, errors.Wrapf(ErrInvalidDerivation, "bump %d out of range", bump)
	}
	digest := delegateDigest(base, byte(bump))
	if onCurve(digest) {
		return nil, errors.Wrapf(ErrInvalidDerivation, "bump %d derives a curve point", bump)
	}
	return &Delegate{base: base, bump: bump, digest: digest}, nil
}

// FindDelegate searches for the highest bump that derives a valid delegate
// for given base.
func FindDelegate(base pairswap.Address) (*Delegate, error) {
	for bump := MaxBump; bump >= 0; bump-- {
		d, err := NewDelegate(base, uint32(bump))
		switch {
		case err == nil:
			return d, nil
		case !ErrInvalidDerivation.Is(err):
			return nil, err
		}
	}
	return nil, errors.Wrapf(ErrInvalidDerivation, "no bump for base %s", base)
}

// CanonicalDelegate derives the delegate of given base and requires bump to
// be the one FindDelegate selects. Every other bump is rejected, so a base
// derives exactly one escrow key.
func CanonicalDelegate(base pairswap.Address, bump uint32) (*Delegate, error) {
	d, err := FindDelegate(base)
	if err != nil {
		return nil, err
	}
	if d.Bump() != bump {
		return nil, errors.Wrapf(ErrInvalidDerivation, "bump %d, canonical bump is %d", bump, d.Bump())
	}
	return d, nil
}

func delegateDigest(base pairswap.Address, bump byte) []byte {
	h := sha256.New()
	h.Write(base)
	h.Write([]byte{bump})
	h.Write([]byte(DelegateSeed))
	return h.Sum(nil)
}

func onCurve(b []byte) bool {
	_, err := new(edwards25519.Point).SetBytes(b)
	return err == nil
}

// Base returns the identifier this delegate was derived from.
func (d *Delegate) Base() pairswap.Address {
	return d.base
}

// Bump returns the derivation bump.
func (d *Delegate) Bump() uint32 {
	return d.bump
}

// Condition returns the condition this delegate authorizes with.
func (d *Delegate) Condition() pairswap.Condition {
	return pairswap.NewCondition("escrow", "delegate", d.digest)
}

// Address returns the delegate address. It is also the key of the escrow
// record the delegate belongs to.
func (d *Delegate) Address() pairswap.Address {
	return d.Condition().Address()
}

type contextKey int // local to the escrow module

const (
	contextKeyDelegate contextKey = iota
)

// withDelegate is a private method, as only this module
// can add a delegate signer
func withDelegate(ctx pairswap.Context, d *Delegate) pairswap.Context {
	prev, _ := ctx.Value(contextKeyDelegate).([]pairswap.Condition)
	conds := make([]pairswap.Condition, 0, len(prev)+1)
	conds = append(conds, prev...)
	conds = append(conds, d.Condition())
	return context.WithValue(ctx, contextKeyDelegate, conds)
}

// Authenticate exposes delegates that signed within the current context.
type Authenticate struct{}

var _ x.Authenticator = Authenticate{}

// GetConditions returns delegate conditions previously set on this context
func (Authenticate) GetConditions(ctx pairswap.Context) []pairswap.Condition {
	// (val, ok) form to return nil instead of panic if unset
	val, _ := ctx.Value(contextKeyDelegate).([]pairswap.Condition)
	return val
}

// HasAddress returns true iff this address is in GetConditions
func (a Authenticate) HasAddress(ctx pairswap.Context, addr pairswap.Address) bool {
	for _, s := range a.GetConditions(ctx) {
		if addr.Equals(s.Address()) {
			return true
		}
	}
	return false
}
