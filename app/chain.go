package app

import (
	"reflect"

	"github.com/iov-one/pairswap"
)

// Decorator wraps a Handler to provide common functionality like logging
// or panic recovery, before or after calling the next one.
type Decorator interface {
	Check(ctx pairswap.Context, db pairswap.KVStore, tx pairswap.Tx, next pairswap.Checker) (*pairswap.CheckResult, error)
	Deliver(ctx pairswap.Context, db pairswap.KVStore, tx pairswap.Tx, next pairswap.Deliverer) (*pairswap.DeliverResult, error)
}

// Decorators holds a chain of decorators, not yet resolved by a Handler
type Decorators struct {
	chain []Decorator
}

/*
ChainDecorators takes a chain of decorators,
and upon adding a final Handler (often a Router),
returns a Handler that will execute this whole stack.

  app.ChainDecorators(
    app.NewLogging(),
    app.NewRecovery(),
  ).WithHandler(
    router,
  )
*/
func ChainDecorators(chain ...Decorator) Decorators {
	return Decorators{}.Chain(chain...)
}

// Chain allows us to keep adding more Decorators to the chain
func (d Decorators) Chain(chain ...Decorator) Decorators {
	chain = cutoffNil(chain)
	newChain := make([]Decorator, 0, len(d.chain)+len(chain))
	newChain = append(newChain, d.chain...)
	newChain = append(newChain, chain...)
	return Decorators{newChain}
}

// cutoffNil will in-place remove all nil values from given slice.
func cutoffNil(ds []Decorator) []Decorator {
	var cutoff int
	for i := 0; i < len(ds); i++ {
		ds[i-cutoff] = ds[i]
		if ds[i] == nil || (reflect.ValueOf(ds[i]).Kind() == reflect.Ptr && reflect.ValueOf(ds[i]).IsNil()) {
			cutoff++
		}
	}
	return ds[:len(ds)-cutoff]
}

// WithHandler resolves the stack and returns a concrete Handler
// that will pass through the chain of decorators before calling
// the final Handler.
func (d Decorators) WithHandler(h pairswap.Handler) pairswap.Handler {
	// The top of the chain is executed first.
	for i := len(d.chain) - 1; i >= 0; i-- {
		h = step{d: d.chain[i], next: h}
	}
	return h
}

// step captures one step executing a decorator around a
// specific Handler.
type step struct {
	d    Decorator
	next pairswap.Handler
}

var _ pairswap.Handler = step{}

func (s step) Check(ctx pairswap.Context, db pairswap.KVStore, tx pairswap.Tx) (*pairswap.CheckResult, error) {
	return s.d.Check(ctx, db, tx, s.next)
}

func (s step) Deliver(ctx pairswap.Context, db pairswap.KVStore, tx pairswap.Tx) (*pairswap.DeliverResult, error) {
	return s.d.Deliver(ctx, db, tx, s.next)
}
