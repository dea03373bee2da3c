package escrow

import (
	"github.com/iov-one/pairswap"
	"github.com/iov-one/pairswap/errors"
	"github.com/iov-one/pairswap/x/ledger"
)

const optKey = "escrow"

// GenesisEscrow is used to parse the json from genesis file.
type GenesisEscrow struct {
	Base pairswap.Address `json:"base"`
	Bump uint32           `json:"bump"`
	Legs []*Leg           `json:"legs"`
}

// Initializer fulfils the Initializer interface to load data from the
// genesis file
type Initializer struct{}

var _ pairswap.Initializer = Initializer{}

// FromGenesis will parse initial escrow info from genesis and save it in
// the database. Escrows are stored under their delegate address and get
// their holding accounts opened as if created with a message.
func (Initializer) FromGenesis(opts pairswap.Options, db pairswap.KVStore) error {
	var escrows []GenesisEscrow
	if err := opts.ReadOptions(optKey, &escrows); err != nil {
		return errors.Wrap(errors.ErrInvalidInput, err.Error())
	}

	bucket := NewBucket()
	accounts := ledger.NewController(Authenticate{})
	for i, g := range escrows {
		d, err := CanonicalDelegate(g.Base, g.Bump)
		if err != nil {
			return errors.Wrapf(err, "escrow %d", i)
		}
		escrow := &Escrow{
			Metadata: &pairswap.Metadata{Schema: pairswap.CurrentSchema},
			Base:     g.Base,
			Bump:     g.Bump,
			Legs:     g.Legs,
		}
		// Deposits and registrations cannot be made at genesis, every leg
		// starts unfulfilled and without a holding account.
		for _, leg := range g.Legs {
			if leg == nil {
				continue
			}
			if leg.Approved {
				return errors.Wrapf(errors.ErrInvalidState, "escrow %d: genesis legs must not be approved", i)
			}
			if leg.Holding != nil {
				return errors.Wrapf(errors.ErrInvalidState, "escrow %d: genesis legs must not register a holding account", i)
			}
		}
		switch err := bucket.Has(db, d.Address()); {
		case err == nil:
			return errors.Wrapf(errors.ErrDuplicate, "escrow %d", i)
		case !errors.ErrNotFound.Is(err):
			return errors.Wrapf(err, "escrow %d", i)
		}
		if err := bucket.Put(db, d.Address(), escrow); err != nil {
			return errors.Wrapf(err, "escrow %d", i)
		}
		if err := openHoldingAccounts(db, accounts, d.Address(), escrow.Legs); err != nil {
			return errors.Wrapf(err, "escrow %d", i)
		}
	}
	return nil
}
