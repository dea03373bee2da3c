package escrow

import (
	"github.com/iov-one/pairswap"
	"github.com/iov-one/pairswap/coin"
	"github.com/iov-one/pairswap/errors"
	"github.com/iov-one/pairswap/orm"
	"github.com/iov-one/pairswap/store"
)

// FulfillStatus is reported after every successful fulfillment.
type FulfillStatus string

const (
	// Pending means at least one participant did not deposit yet.
	Pending FulfillStatus = "pending"
	// Fulfilled means both deposits were made and released.
	Fulfilled FulfillStatus = "fulfilled"
)

// FulfillResult describes the escrow after a fulfillment.
type FulfillResult struct {
	Status   FulfillStatus
	Approved []bool
	// Replayed is true when the participant had already fulfilled and
	// nothing was transferred.
	Replayed bool
}

// Controller implements the escrow lifecycle.
type Controller struct {
	bucket  orm.ModelBucket
	ledger  Ledger
	invoker *Invoker
}

// NewController returns a controller moving funds on given ledger.
func NewController(l Ledger) *Controller {
	return &Controller{
		bucket:  NewBucket(),
		ledger:  l,
		invoker: NewInvoker(l),
	}
}

// Escrow returns the escrow stored under given key.
func (c *Controller) Escrow(db pairswap.ReadOnlyKVStore, key pairswap.Address) (*Escrow, error) {
	var e Escrow
	if err := c.bucket.One(db, key, &e); err != nil {
		return nil, errors.Wrapf(err, "escrow %s", key)
	}
	return &e, nil
}

// ByParticipant returns the keys of all escrows given address participates
// in.
func (c *Controller) ByParticipant(db pairswap.ReadOnlyKVStore, addr pairswap.Address) ([]pairswap.Address, error) {
	keys, err := c.bucket.ByIndex(db, "participant", addr)
	if err != nil {
		return nil, err
	}
	res := make([]pairswap.Address, len(keys))
	for i, k := range keys {
		res[i] = k
	}
	return res, nil
}

// Create stores a new escrow and returns its key, which is the address of
// the escrow delegate. Only the canonical bump of the base is accepted, so
// a base can be used for one escrow only.
//
// The holding account of every required token is opened at
// HoldingAccountAddress, owned by the escrow key.
func (c *Controller) Create(ctx pairswap.Context, db pairswap.KVStore, msg *CreateMsg) (pairswap.Address, *Escrow, error) {
	if err := msg.validateLengths(); err != nil {
		return nil, nil, err
	}
	d, err := CanonicalDelegate(msg.Base, msg.Bump)
	if err != nil {
		return nil, nil, err
	}
	key := d.Address()

	escrow := &Escrow{
		Metadata: &pairswap.Metadata{Schema: pairswap.CurrentSchema},
		Base:     msg.Base,
		Bump:     msg.Bump,
		Legs:     msg.legs(),
	}
	if err := escrow.Validate(); err != nil {
		return nil, nil, err
	}

	switch err := c.bucket.Has(db, key); {
	case err == nil:
		return nil, nil, errors.Wrapf(errors.ErrDuplicate, "escrow %s", key)
	case !errors.ErrNotFound.Is(err):
		return nil, nil, err
	}

	cache := store.CacheWrap(db)
	if err := openHoldingAccounts(cache, c.ledger, key, escrow.Legs); err != nil {
		cache.Discard()
		return nil, nil, err
	}
	if err := c.bucket.Put(cache, key, escrow); err != nil {
		cache.Discard()
		return nil, nil, errors.Wrap(err, "cannot store escrow")
	}
	if err := cache.Write(); err != nil {
		return nil, nil, errors.Wrap(errors.ErrDatabase, err.Error())
	}

	pairswap.GetLogger(ctx).Info("escrow created",
		"escrow", key, "participants", escrow.Participants())
	return key, escrow, nil
}

// openHoldingAccounts opens the holding account of every required token.
// An account already present at the holding address is kept if it is owned
// by the escrow key and holds the right token.
func openHoldingAccounts(db pairswap.KVStore, l Ledger, key pairswap.Address, legs []*Leg) error {
	for _, leg := range legs {
		ticker := leg.Required.Ticker
		addr := HoldingAccountAddress(key, ticker)
		acc, err := l.Account(db, addr)
		switch {
		case errors.ErrNotFound.Is(err):
			if _, err := l.CreateAccount(db, addr, key, ticker); err != nil {
				return errors.Wrapf(err, "holding account %s", ticker)
			}
		case err != nil:
			return err
		case !acc.Owner.Equals(key) || acc.Ticker() != ticker:
			return errors.Wrapf(ErrInvalidHoldingAccount, "account %s is taken", addr)
		}
	}
	return nil
}

// RegisterHoldingAccount sets the account that receives the deposit of
// given participant. The account must be owned by the escrow delegate and
// hold the token of the participant obligation. It can be set only once.
func (c *Controller) RegisterHoldingAccount(ctx pairswap.Context, db pairswap.KVStore, key, caller, holding pairswap.Address) (*Escrow, error) {
	escrow, index, err := c.checkRegister(db, key, caller, holding)
	if err != nil {
		return nil, err
	}
	escrow.Legs[index].Holding = &HoldingAccount{Address: holding}
	if err := c.bucket.Put(db, key, escrow); err != nil {
		return nil, errors.Wrap(err, "cannot store escrow")
	}

	pairswap.GetLogger(ctx).Info("escrow holding account registered",
		"escrow", key, "participant", caller, "holding", holding)
	return escrow, nil
}

// checkRegister validates a holding account registration without
// modifying any state.
func (c *Controller) checkRegister(db pairswap.ReadOnlyKVStore, key, caller, holding pairswap.Address) (*Escrow, int, error) {
	escrow, err := c.Escrow(db, key)
	if err != nil {
		return nil, 0, err
	}
	index, ok := escrow.ParticipantIndex(caller)
	if !ok {
		return nil, 0, errors.Wrapf(ErrInvalidParticipant, "%s", caller)
	}
	leg := escrow.Legs[index]
	if leg.Holding != nil {
		return nil, 0, errors.Wrapf(ErrHoldingAccountRegistered, "participant %d", index)
	}

	acc, err := c.ledger.Account(db, holding)
	if err != nil {
		if errors.ErrNotFound.Is(err) {
			return nil, 0, errors.Wrapf(ErrInvalidHoldingAccount, "account %s does not exist", holding)
		}
		return nil, 0, err
	}
	if !acc.Owner.Equals(key) {
		return nil, 0, errors.Wrapf(ErrInvalidHoldingAccount, "account owned by %s, not the escrow", acc.Owner)
	}
	if acc.Ticker() != leg.Required.Ticker {
		return nil, 0, errors.Wrapf(ErrInvalidHoldingAccount, "account holds %q, obligation is %q",
			acc.Ticker(), leg.Required.Ticker)
	}
	return escrow, index, nil
}

// Fulfill deposits the obligation of the caller. The transfer must move the
// exact required amount from the caller source account to the registered
// holding account. Once both participants fulfilled, each deposit is
// released to the counterparty destination account.
//
// The deposit and the release are atomic: if any ledger transfer fails, no
// state is modified. Repeated fulfillment by an approved participant
// transfers nothing and reports the current status.
func (c *Controller) Fulfill(ctx pairswap.Context, db pairswap.KVStore, key, caller pairswap.Address, t *TransferDescriptor, amount coin.Coin) (*FulfillResult, error) {
	escrow, index, err := c.checkFulfill(db, key, caller, t, amount)
	if err != nil {
		return nil, err
	}
	if escrow.Legs[index].Approved {
		pairswap.GetLogger(ctx).Debug("escrow fulfill replayed",
			"escrow", key, "participant", caller)
		return resultOf(escrow, true), nil
	}
	d, err := escrow.Delegate()
	if err != nil {
		return nil, errors.Wrap(err, "escrow delegate")
	}
	if !d.Address().Equals(key) {
		return nil, errors.Wrap(ErrInvalidDerivation, "delegate does not match the escrow key")
	}

	cache := store.CacheWrap(db)
	if err := c.fulfill(ctx, cache, key, escrow, index, d, t); err != nil {
		cache.Discard()
		return nil, err
	}
	if err := cache.Write(); err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, err.Error())
	}

	res := resultOf(escrow, false)
	if res.Status == Fulfilled {
		pairswap.GetLogger(ctx).Info("escrow fulfilled",
			"escrow", key, "approved", res.Approved)
	} else {
		pairswap.GetLogger(ctx).Info("escrow pending",
			"escrow", key, "approved", res.Approved)
	}
	return res, nil
}

func (c *Controller) fulfill(ctx pairswap.Context, db pairswap.KVStore, key pairswap.Address, escrow *Escrow, index int, d *Delegate, t *TransferDescriptor) error {
	escrow.Legs[index].Approved = true
	if err := c.invoker.Invoke(ctx, db, t, d); err != nil {
		return errors.Wrap(err, "deposit")
	}
	if escrow.State() == StateFulfilled {
		if err := c.release(ctx, db, escrow, d); err != nil {
			return err
		}
		escrow.Executed = true
	}
	if err := c.bucket.Put(db, key, escrow); err != nil {
		return errors.Wrap(err, "cannot store escrow")
	}
	return nil
}

// release moves every deposit from its holding account to the
// counterparty destination account, signed by the delegate only.
func (c *Controller) release(ctx pairswap.Context, db pairswap.KVStore, escrow *Escrow, d *Delegate) error {
	for i, leg := range escrow.Legs {
		counterparty := escrow.Legs[1-i]
		t := &TransferDescriptor{
			Source:      leg.Holding.Address,
			Destination: counterparty.To,
			Authority:   d.Address(),
			Amount:      leg.Required,
		}
		if err := c.invoker.Invoke(ctx, db, t, d); err != nil {
			return errors.Wrapf(err, "release of participant %d deposit", i)
		}
	}
	return nil
}

// checkFulfill validates a fulfillment without modifying any state. The
// transfer descriptor must describe exactly the deposit the escrow expects
// from the caller.
func (c *Controller) checkFulfill(db pairswap.ReadOnlyKVStore, key, caller pairswap.Address, t *TransferDescriptor, amount coin.Coin) (*Escrow, int, error) {
	escrow, err := c.Escrow(db, key)
	if err != nil {
		return nil, 0, err
	}
	index, ok := escrow.ParticipantIndex(caller)
	if !ok {
		return nil, 0, errors.Wrapf(ErrInvalidParticipant, "%s", caller)
	}
	leg := escrow.Legs[index]
	if !amount.Equals(*leg.Required) {
		return nil, 0, errors.Wrapf(ErrFulfillmentAmountNotExact, "want %s, got %s", leg.Required, amount)
	}

	if t == nil {
		return nil, 0, errors.Wrap(ErrTransferMismatch, "missing transfer")
	}
	if t.Amount == nil || !t.Amount.Equals(amount) {
		return nil, 0, errors.Wrapf(ErrTransferMismatch, "transfer amount %v, declared %s", t.Amount, amount)
	}
	if !t.Source.Equals(leg.From) {
		return nil, 0, errors.Wrapf(ErrTransferMismatch, "source %s, want %s", t.Source, leg.From)
	}
	if leg.Holding == nil {
		return nil, 0, errors.Wrapf(ErrHoldingAccountMissing, "participant %d", index)
	}
	if !t.Destination.Equals(leg.Holding.Address) {
		return nil, 0, errors.Wrapf(ErrTransferMismatch, "destination %s, want %s", t.Destination, leg.Holding.Address)
	}
	if !t.Authority.Equals(caller) {
		return nil, 0, errors.Wrapf(ErrTransferMismatch, "authority %s, want %s", t.Authority, caller)
	}
	if err := c.checkDestinations(db, escrow); err != nil {
		return nil, 0, err
	}
	return escrow, index, nil
}

// checkDestinations ensures the release can succeed before anything is
// deposited. Every destination account must exist and hold the token the
// counterparty deposits.
func (c *Controller) checkDestinations(db pairswap.ReadOnlyKVStore, escrow *Escrow) error {
	for i, leg := range escrow.Legs {
		want := escrow.Legs[1-i].Required.Ticker
		acc, err := c.ledger.Account(db, leg.To)
		if err != nil {
			if errors.ErrNotFound.Is(err) {
				return errors.Wrapf(ErrInvalidDestination, "participant %d destination %s does not exist", i, leg.To)
			}
			return err
		}
		if acc.Ticker() != want {
			return errors.Wrapf(ErrInvalidDestination, "participant %d destination holds %q, want %q",
				i, acc.Ticker(), want)
		}
	}
	return nil
}

func resultOf(escrow *Escrow, replayed bool) *FulfillResult {
	status := Pending
	if escrow.State() == StateFulfilled {
		status = Fulfilled
	}
	return &FulfillResult{
		Status:   status,
		Approved: escrow.Approvals(),
		Replayed: replayed,
	}
}
