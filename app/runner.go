package app

import (
	"context"
	"sync"

	"github.com/iov-one/pairswap"
	"github.com/iov-one/pairswap/errors"
	"github.com/tendermint/tendermint/libs/log"
)

// Runner executes transactions against a committed store. Transactions are
// processed one at a time and each runs inside its own cache wrap: a
// transaction either writes all of its changes or none of them.
type Runner struct {
	mu sync.Mutex

	logger  log.Logger
	debug   bool
	store   *CommitStore
	handler pairswap.Handler
	init    pairswap.Initializer

	// chainID is loaded from db in initialization,
	// saved once in InitChain.
	chainID string
	// height of the last committed block.
	height int64
}

// NewRunner loads the latest committed state and returns a runner
// dispatching every transaction to the handler.
func NewRunner(kv pairswap.CommitKVStore, h pairswap.Handler, init pairswap.Initializer) (*Runner, error) {
	cs, err := NewCommitStore(kv)
	if err != nil {
		return nil, err
	}
	chainID, err := loadChainID(cs.DeliverStore())
	if err != nil {
		return nil, errors.Wrap(err, "chain id")
	}
	info, err := cs.CommitInfo()
	if err != nil {
		return nil, errors.Wrap(err, "commit info")
	}
	return &Runner{
		logger:  log.NewNopLogger(),
		store:   cs,
		handler: h,
		init:    init,
		chainID: chainID,
		height:  info.Version,
	}, nil
}

// WithLogger sets the logger passed to every handler through the context.
func (r *Runner) WithLogger(logger log.Logger) *Runner {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.logger = logger
	return r
}

// WithDebug controls error redaction. Outside of debug mode, errors that
// are not registered, including recovered panics, are returned to the
// caller as a generic internal error. They are always logged in full.
func (r *Runner) WithDebug(debug bool) *Runner {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.debug = debug
	return r
}

// ChainID returns the chain id set at genesis, or an empty string.
func (r *Runner) ChainID() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.chainID
}

// Height returns the height of the last committed block.
func (r *Runner) Height() int64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.height
}

// InitChain stores the chain id and initializes every extension from the
// genesis app state. It can be called only once per chain.
func (r *Runner) InitChain(gen Genesis) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.chainID != "" {
		return errors.Wrapf(errors.ErrInvalidState, "app state previously loaded for chain %q", r.chainID)
	}

	cache := r.store.DeliverStore().CacheWrap()
	if err := saveChainID(cache, gen.ChainID); err != nil {
		cache.Discard()
		return err
	}
	if r.init != nil {
		if err := r.init.FromGenesis(gen.AppState, cache); err != nil {
			cache.Discard()
			return errors.Wrap(err, "genesis")
		}
	}
	if err := cache.Write(); err != nil {
		return errors.Wrap(err, "write genesis")
	}
	r.chainID = gen.ChainID
	r.logger.Info("chain initialized", "chain_id", gen.ChainID)
	return nil
}

// CheckTx validates the transaction against the check state. Successful
// checks are kept so that subsequent checks in the same block see them.
func (r *Runner) CheckTx(tx pairswap.Tx) (*pairswap.CheckResult, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	ctx := pairswap.WithLogInfo(r.blockContext(), "call", "check_tx", "path", pairswap.GetPath(tx))
	cache := r.store.CheckStore().CacheWrap()
	res, err := r.handler.Check(ctx, cache, tx)
	if err != nil {
		cache.Discard()
		return nil, r.fail(ctx, "check failed", err)
	}
	if err := cache.Write(); err != nil {
		return nil, r.fail(ctx, "check failed", errors.Wrap(err, "write check state"))
	}
	return res, nil
}

// DeliverTx executes the transaction. Any error discards all writes the
// transaction made.
func (r *Runner) DeliverTx(tx pairswap.Tx) (*pairswap.DeliverResult, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	ctx := pairswap.WithLogInfo(r.blockContext(), "call", "deliver_tx", "path", pairswap.GetPath(tx))
	cache := r.store.DeliverStore().CacheWrap()
	res, err := r.handler.Deliver(ctx, cache, tx)
	if err != nil {
		cache.Discard()
		return nil, r.fail(ctx, "deliver failed", err)
	}
	if err := cache.Write(); err != nil {
		return nil, r.fail(ctx, "deliver failed", errors.Wrap(err, "write deliver state"))
	}
	return res, nil
}

// fail logs a transaction error with all details and returns it redacted
// unless running in debug mode.
func (r *Runner) fail(ctx pairswap.Context, msg string, err error) error {
	code, info := errors.ABCIInfo(err, true)
	pairswap.GetLogger(ctx).Info(msg, "code", code, "log", info)
	return errors.Redact(err, r.debug)
}

// Commit persists all delivered transactions and starts a new block.
func (r *Runner) Commit() (pairswap.CommitID, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	id, err := r.store.Commit()
	if err != nil {
		return id, errors.Wrap(err, "commit")
	}
	r.height = id.Version
	r.logger.Info("commit", "height", id.Version, "hash", id.Hash)
	return id, nil
}

// Query runs fn against the delivered, not yet committed, state.
func (r *Runner) Query(fn func(db pairswap.ReadOnlyKVStore) error) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return fn(r.store.DeliverStore())
}

// blockContext returns the context for transactions of the block that is
// being built. The caller must hold the lock.
func (r *Runner) blockContext() pairswap.Context {
	ctx := pairswap.WithLogger(context.Background(), r.logger)
	if r.chainID != "" {
		ctx = pairswap.WithChainID(ctx, r.chainID)
	}
	return pairswap.WithHeight(ctx, r.height+1)
}
