package swaptest

import (
	"context"
	"testing"

	"github.com/iov-one/pairswap"
)

func TestAuth(t *testing.T) {
	ctx := context.Background()
	a, b, c := NewCondition(), NewCondition(), NewCondition()

	auth := &Auth{Signer: a, Signers: []pairswap.Condition{b}}
	if !auth.HasAddress(ctx, a.Address()) {
		t.Fatal("signer not authenticated")
	}
	if !auth.HasAddress(ctx, b.Address()) {
		t.Fatal("signers member not authenticated")
	}
	if auth.HasAddress(ctx, c.Address()) {
		t.Fatal("unknown condition authenticated")
	}
	if n := len(auth.GetConditions(ctx)); n != 2 {
		t.Fatalf("want 2 conditions, got %d", n)
	}
}

func TestAuthDoesNotShareSigners(t *testing.T) {
	ctx := context.Background()
	a, b, c := NewCondition(), NewCondition(), NewCondition()

	// Spare capacity must not receive the single signer.
	signers := make([]pairswap.Condition, 1, 4)
	signers[0] = b
	backing := signers[:2]

	auth := &Auth{Signer: a, Signers: signers}
	got := auth.GetConditions(ctx)
	if len(got) != 2 || !got[0].Equals(b) || !got[1].Equals(a) {
		t.Fatalf("unexpected conditions: %v", got)
	}
	if backing[1] != nil {
		t.Fatal("signer written into the caller backing array")
	}

	got[0] = c
	if !auth.Signers[0].Equals(b) {
		t.Fatal("returned conditions share memory with Signers")
	}
}

func TestCtxAuth(t *testing.T) {
	a, b := NewCondition(), NewCondition()
	auth := &CtxAuth{Key: "auth"}

	ctx := context.Background()
	if auth.HasAddress(ctx, a.Address()) {
		t.Fatal("empty context must not authenticate")
	}

	ctx = auth.SetConditions(ctx, a)
	if !auth.HasAddress(ctx, a.Address()) {
		t.Fatal("condition not authenticated")
	}
	if auth.HasAddress(ctx, b.Address()) {
		t.Fatal("unknown condition authenticated")
	}
}
