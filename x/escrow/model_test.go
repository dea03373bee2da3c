package escrow

import (
	"testing"

	"github.com/gogo/protobuf/proto"
	"github.com/iov-one/pairswap"
	"github.com/iov-one/pairswap/coin"
	"github.com/iov-one/pairswap/errors"
	"github.com/iov-one/pairswap/swaptest"
	"github.com/iov-one/pairswap/swaptest/assert"
)

func validEscrow() *Escrow {
	return &Escrow{
		Metadata: &pairswap.Metadata{Schema: 1},
		Base:     swaptest.NewCondition().Address(),
		Bump:     254,
		Legs: []*Leg{
			{
				Participant: swaptest.NewCondition().Address(),
				Required:    coin.NewCoinp(100, "ETH"),
				From:        swaptest.NewCondition().Address(),
				To:          swaptest.NewCondition().Address(),
			},
			{
				Participant: swaptest.NewCondition().Address(),
				Required:    coin.NewCoinp(200, "BTC"),
				From:        swaptest.NewCondition().Address(),
				To:          swaptest.NewCondition().Address(),
			},
		},
	}
}

func TestEscrowValidate(t *testing.T) {
	cases := map[string]struct {
		mutate  func(*Escrow)
		wantErr *errors.Error
	}{
		"valid": {
			mutate: func(*Escrow) {},
		},
		"one leg": {
			mutate:  func(e *Escrow) { e.Legs = e.Legs[:1] },
			wantErr: ErrExactlyTwoParticipantsAllowed,
		},
		"missing metadata": {
			mutate:  func(e *Escrow) { e.Metadata = nil },
			wantErr: errors.ErrMetadata,
		},
		"nil leg": {
			mutate:  func(e *Escrow) { e.Legs[1] = nil },
			wantErr: errors.ErrEmpty,
		},
		"zero amount": {
			mutate:  func(e *Escrow) { e.Legs[0].Required = coin.NewCoinp(0, "ETH") },
			wantErr: errors.ErrInvalidAmount,
		},
		"invalid ticker": {
			mutate:  func(e *Escrow) { e.Legs[0].Required = coin.NewCoinp(1, "eth") },
			wantErr: errors.ErrCurrency,
		},
		"same participant twice": {
			mutate:  func(e *Escrow) { e.Legs[1].Participant = e.Legs[0].Participant },
			wantErr: ErrInvalidParticipant,
		},
		"executed while pending": {
			mutate: func(e *Escrow) {
				e.Legs[0].Approved = true
				e.Executed = true
			},
			wantErr: errors.ErrInvalidState,
		},
		"executed after both approvals": {
			mutate: func(e *Escrow) {
				e.Legs[0].Approved = true
				e.Legs[1].Approved = true
				e.Executed = true
			},
		},
		"bump out of range": {
			mutate:  func(e *Escrow) { e.Bump = 256 },
			wantErr: ErrInvalidDerivation,
		},
	}
	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			e := validEscrow()
			tc.mutate(e)
			assert.IsErr(t, tc.wantErr, e.Validate())
		})
	}
}

func TestEscrowState(t *testing.T) {
	e := validEscrow()
	assert.Equal(t, StateCreated, e.State())
	e.Legs[1].Approved = true
	assert.Equal(t, StatePartiallyFulfilled, e.State())
	e.Legs[0].Approved = true
	assert.Equal(t, StateFulfilled, e.State())
}

func TestEscrowSerialization(t *testing.T) {
	e := validEscrow()
	e.Legs[0].Holding = &HoldingAccount{Address: swaptest.NewCondition().Address()}
	e.Legs[0].Approved = true

	raw, err := proto.Marshal(e)
	assert.Nil(t, err)
	var got Escrow
	assert.Nil(t, proto.Unmarshal(raw, &got))

	assert.Nil(t, got.Validate())
	assert.Equal(t, e.Base, got.Base)
	assert.Equal(t, e.Bump, got.Bump)
	assert.Equal(t, e.Participants(), got.Participants())
	assert.Equal(t, e.Approvals(), got.Approvals())
	assert.Equal(t, e.Legs[0].Holding.Address, got.Legs[0].Holding.Address)
	if got.Legs[1].Holding != nil {
		t.Fatal("unset holding account must stay unset")
	}
	assert.Equal(t, *e.Legs[1].Required, *got.Legs[1].Required)
}

func TestEscrowCopy(t *testing.T) {
	e := validEscrow()
	e.Legs[0].Holding = &HoldingAccount{Address: swaptest.NewCondition().Address()}

	cpy := e.Copy()
	cpy.Legs[0].Approved = true
	cpy.Legs[0].Holding.Address[0]++
	cpy.Legs[1].Required.Amount = 1

	assert.Equal(t, []bool{false, false}, e.Approvals())
	if e.Legs[0].Holding.Address.Equals(cpy.Legs[0].Holding.Address) {
		t.Fatal("holding address shared with the copy")
	}
	assert.Equal(t, uint64(200), e.Legs[1].Required.Amount)
}

func TestHoldingAccountAddress(t *testing.T) {
	key := swaptest.NewCondition().Address()
	eth := HoldingAccountAddress(key, "ETH")
	assert.Nil(t, eth.Validate())
	assert.Equal(t, eth, HoldingAccountAddress(key, "ETH"))
	if eth.Equals(HoldingAccountAddress(key, "BTC")) {
		t.Fatal("tokens must use distinct holding accounts")
	}
}
