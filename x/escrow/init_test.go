package escrow

import (
	"encoding/json"
	stdlib "errors"
	"testing"

	"github.com/iov-one/pairswap"
	"github.com/iov-one/pairswap/coin"
	"github.com/iov-one/pairswap/errors"
	"github.com/iov-one/pairswap/store"
	"github.com/iov-one/pairswap/swaptest"
	"github.com/iov-one/pairswap/x/ledger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenesis(t *testing.T) {
	base := swaptest.NewCondition().Address()
	d, err := FindDelegate(base)
	require.NoError(t, err)

	legs := validEscrow().Legs
	valid, err := json.Marshal([]GenesisEscrow{{Base: base, Bump: d.Bump(), Legs: legs}})
	require.NoError(t, err)

	approvedLegs := validEscrow().Legs
	approvedLegs[0].Approved = true
	approved, err := json.Marshal([]GenesisEscrow{{Base: base, Bump: d.Bump(), Legs: approvedLegs}})
	require.NoError(t, err)

	registeredLegs := validEscrow().Legs
	registeredLegs[1].Holding = &HoldingAccount{Address: swaptest.NewCondition().Address()}
	registered, err := json.Marshal([]GenesisEscrow{{Base: base, Bump: d.Bump(), Legs: registeredLegs}})
	require.NoError(t, err)

	wrongBump, err := json.Marshal([]GenesisEscrow{{Base: base, Bump: invalidBump(t, base), Legs: legs}})
	require.NoError(t, err)

	duplicated, err := json.Marshal([]GenesisEscrow{
		{Base: base, Bump: d.Bump(), Legs: legs},
		{Base: base, Bump: d.Bump(), Legs: validEscrow().Legs},
	})
	require.NoError(t, err)

	cases := map[string]struct {
		opts    pairswap.Options
		broken  bool
		wantErr *errors.Error
		wantKey bool
	}{
		"no data":            {opts: pairswap.Options{}},
		"valid escrow":       {opts: pairswap.Options{"escrow": valid}, wantKey: true},
		"approved leg":       {opts: pairswap.Options{"escrow": approved}, wantErr: errors.ErrInvalidState},
		"registered holding": {opts: pairswap.Options{"escrow": registered}, wantErr: errors.ErrInvalidState},
		"wrong bump":         {opts: pairswap.Options{"escrow": wrongBump}, wantErr: ErrInvalidDerivation},
		"duplicated":         {opts: pairswap.Options{"escrow": duplicated}, wantErr: errors.ErrDuplicate},
		"malformed":          {opts: pairswap.Options{"escrow": []byte(`{"base": 1}`)}, wantErr: errors.ErrInvalidInput},
		"store failure":      {opts: pairswap.Options{"escrow": valid}, broken: true, wantErr: errors.ErrDatabase},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			var db pairswap.KVStore = store.MemStore()
			if tc.broken {
				db = brokenStore{db}
			}
			err := Initializer{}.FromGenesis(tc.opts, db)
			if tc.wantErr != nil {
				require.True(t, tc.wantErr.Is(err), "want %s, got %+v", tc.wantErr, err)
				return
			}
			require.NoError(t, err)

			if tc.wantKey {
				ctrl := NewController(ledger.NewController(Authenticate{}))
				e, err := ctrl.Escrow(db, d.Address())
				require.NoError(t, err)
				assert.Equal(t, []bool{false, false}, e.Approvals())
				assert.Equal(t, *coin.NewCoinp(200, "BTC"), *e.Legs[1].Required)

				accounts := ledger.NewController(Authenticate{})
				for _, ticker := range []string{"ETH", "BTC"} {
					acc, err := accounts.Account(db, HoldingAccountAddress(d.Address(), ticker))
					require.NoError(t, err)
					assert.Equal(t, d.Address(), acc.Owner)
					assert.Equal(t, ticker, acc.Ticker())
				}
			}
		})
	}
}

// brokenStore fails every existence check.
type brokenStore struct {
	pairswap.KVStore
}

func (brokenStore) Has([]byte) (bool, error) {
	return false, stdlib.New("disk failure")
}
