package ledger

import (
	"github.com/iov-one/pairswap"
	"github.com/iov-one/pairswap/coin"
	"github.com/iov-one/pairswap/errors"
	"github.com/iov-one/pairswap/orm"
	"github.com/iov-one/pairswap/x"
)

// Controller gives access to token accounts. Transfers are authorized using
// the authenticator it was created with.
type Controller struct {
	auth   x.Authenticator
	bucket orm.ModelBucket
}

// NewController returns a controller that authorizes transfers using given
// authenticator.
func NewController(auth x.Authenticator) *Controller {
	return &Controller{
		auth:   auth,
		bucket: NewBucket(),
	}
}

// CreateAccount stores a new empty account of given token under given
// address. An address can be used only once.
func (c *Controller) CreateAccount(db pairswap.KVStore, addr, owner pairswap.Address, ticker string) (*Account, error) {
	if err := addr.Validate(); err != nil {
		return nil, errors.Wrap(err, "account address")
	}
	switch err := c.bucket.Has(db, addr); {
	case err == nil:
		return nil, errors.Wrapf(errors.ErrDuplicate, "account %s", addr)
	case !errors.ErrNotFound.Is(err):
		return nil, err
	}

	acc := NewAccount(owner, ticker)
	if err := c.bucket.Put(db, addr, acc); err != nil {
		return nil, errors.Wrap(err, "cannot store account")
	}
	return acc, nil
}

// Account returns the account stored under given address.
func (c *Controller) Account(db pairswap.ReadOnlyKVStore, addr pairswap.Address) (*Account, error) {
	var acc Account
	if err := c.bucket.One(db, addr, &acc); err != nil {
		return nil, errors.Wrapf(err, "account %s", addr)
	}
	return &acc, nil
}

// Balance returns the amount of tokens held by the account stored under
// given address.
func (c *Controller) Balance(db pairswap.ReadOnlyKVStore, addr pairswap.Address) (coin.Coin, error) {
	acc, err := c.Account(db, addr)
	if err != nil {
		return coin.Coin{}, err
	}
	return *acc.Balance, nil
}

// ByOwner returns the addresses of all accounts controlled by given owner.
func (c *Controller) ByOwner(db pairswap.ReadOnlyKVStore, owner pairswap.Address) ([]pairswap.Address, error) {
	keys, err := c.bucket.ByIndex(db, "owner", owner)
	if err != nil {
		return nil, err
	}
	addrs := make([]pairswap.Address, len(keys))
	for i, k := range keys {
		addrs[i] = k
	}
	return addrs, nil
}

// Issue mints given amount into the account stored under given address.
// It fails if the account holds a different token or if the balance would
// overflow.
func (c *Controller) Issue(db pairswap.KVStore, addr pairswap.Address, amount coin.Coin) error {
	acc, err := c.Account(db, addr)
	if err != nil {
		return err
	}
	balance, err := acc.Balance.Add(amount)
	if err != nil {
		return errors.Wrapf(err, "issue to %s", addr)
	}
	acc.Balance = &balance
	return c.bucket.Put(db, addr, acc)
}

// Transfer moves given amount from src to dst. The authority must be
// authenticated in the context and must own the source account. Both
// accounts must hold the transferred token.
func (c *Controller) Transfer(ctx pairswap.Context, db pairswap.KVStore, src, dst, authority pairswap.Address, amount coin.Coin) error {
	if !amount.IsPositive() {
		return errors.Wrapf(errors.ErrInvalidAmount, "non positive transfer %s", amount)
	}
	if !c.auth.HasAddress(ctx, authority) {
		return errors.Wrapf(errors.ErrUnauthorized, "authority %s not signed", authority)
	}
	if src.Equals(dst) {
		return errors.Wrap(errors.ErrInvalidInput, "source and destination are the same account")
	}

	from, err := c.Account(db, src)
	if err != nil {
		return errors.Wrap(err, "source")
	}
	if !from.Owner.Equals(authority) {
		return errors.Wrapf(errors.ErrUnauthorized, "%s does not own %s", authority, src)
	}
	to, err := c.Account(db, dst)
	if err != nil {
		return errors.Wrap(err, "destination")
	}
	if from.Ticker() != amount.Ticker || to.Ticker() != amount.Ticker {
		return errors.Wrapf(errors.ErrCurrency, "transfer of %s between %s and %s accounts",
			amount.Ticker, from.Ticker(), to.Ticker())
	}

	fromBalance, err := from.Balance.Subtract(amount)
	if err != nil {
		return errors.Wrapf(err, "source %s", src)
	}
	toBalance, err := to.Balance.Add(amount)
	if err != nil {
		return errors.Wrapf(err, "destination %s", dst)
	}
	from.Balance = &fromBalance
	to.Balance = &toBalance

	if err := c.bucket.Put(db, src, from); err != nil {
		return errors.Wrap(err, "cannot store source")
	}
	if err := c.bucket.Put(db, dst, to); err != nil {
		return errors.Wrap(err, "cannot store destination")
	}

	pairswap.GetLogger(ctx).Debug("ledger transfer",
		"src", src, "dst", dst, "amount", amount.String())
	return nil
}
