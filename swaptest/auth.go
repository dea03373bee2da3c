package swaptest

import (
	"context"
	"fmt"

	"github.com/iov-one/pairswap"
)

// Auth is a mock implementing x.Authenticator interface.
//
// This structure authenticates any of referenced conditions.
// You can use either Signer or Signers (or both) attributes to reference
// conditions. Each time all signers (regardless which attribute) are
// considered.
type Auth struct {
	// Signer represents an authentication of a single signer.
	Signer pairswap.Condition

	// Signers represents an authentication of multiple signers.
	Signers []pairswap.Condition
}

func (a *Auth) GetConditions(pairswap.Context) []pairswap.Condition {
	var res []pairswap.Condition
	res = append(res, a.Signers...)
	if a.Signer != nil {
		res = append(res, a.Signer)
	}
	return res
}

func (a *Auth) HasAddress(ctx pairswap.Context, addr pairswap.Address) bool {
	for _, s := range a.Signers {
		if addr.Equals(s.Address()) {
			return true
		}
	}
	if a.Signer == nil {
		return false
	}
	return addr.Equals(a.Signer.Address())
}

// CtxAuth is a mock implementing x.Authenticator interface.
//
// This implementation is using context to store and retrieve permissions.
type CtxAuth struct {
	// Key used to set and retrieve conditions from the context. For
	// convenience only string type keys are allowed.
	Key string
}

func (a *CtxAuth) SetConditions(ctx pairswap.Context, permissions ...pairswap.Condition) pairswap.Context {
	return context.WithValue(ctx, a.Key, permissions)
}

func (a *CtxAuth) GetConditions(ctx pairswap.Context) []pairswap.Condition {
	val := ctx.Value(a.Key)
	if val == nil {
		return nil
	}
	conds, ok := val.([]pairswap.Condition)
	if !ok {
		panic(fmt.Sprintf("instead of []pairswap.Condition got %T", ctx.Value(a.Key)))
	}
	return conds
}

func (a *CtxAuth) HasAddress(ctx pairswap.Context, addr pairswap.Address) bool {
	for _, s := range a.GetConditions(ctx) {
		if addr.Equals(s.Address()) {
			return true
		}
	}
	return false
}
