package ledger

import (
	"github.com/iov-one/pairswap"
	"github.com/iov-one/pairswap/coin"
	"github.com/iov-one/pairswap/errors"
)

const optKey = "ledger"

// GenesisAccount is used to parse the json from genesis file.
// Addresses are hex encoded, balances use the "<amount> <ticker>" form.
type GenesisAccount struct {
	Address pairswap.Address `json:"address"`
	Owner   pairswap.Address `json:"owner"`
	Balance coin.Coin        `json:"balance"`
}

// Initializer fulfils the Initializer interface to load data from
// the genesis file
type Initializer struct{}

var _ pairswap.Initializer = Initializer{}

// FromGenesis will parse initial account info from genesis
// and save it to the database
func (Initializer) FromGenesis(opts pairswap.Options, db pairswap.KVStore) error {
	var accts []GenesisAccount
	if err := opts.ReadOptions(optKey, &accts); err != nil {
		return errors.Wrap(errors.ErrInvalidInput, err.Error())
	}
	bucket := NewBucket()
	for i, a := range accts {
		if err := a.Address.Validate(); err != nil {
			return errors.Wrapf(err, "account %d address", i)
		}
		acc := &Account{
			Metadata: &pairswap.Metadata{Schema: pairswap.CurrentSchema},
			Owner:    a.Owner,
			Balance:  a.Balance.Clone(),
		}
		if err := bucket.Put(db, a.Address, acc); err != nil {
			return errors.Wrapf(err, "account %d", i)
		}
	}
	return nil
}
