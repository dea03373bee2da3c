package escrow

import (
	"testing"

	"github.com/iov-one/pairswap"
	"github.com/iov-one/pairswap/coin"
	"github.com/iov-one/pairswap/errors"
	"github.com/iov-one/pairswap/swaptest"
	"github.com/iov-one/pairswap/swaptest/assert"
)

type registry map[string]pairswap.Handler

func (r registry) Handle(m pairswap.Msg, h pairswap.Handler) {
	r[m.Path()] = h
}

func (r registry) run(t *testing.T, ctx pairswap.Context, db pairswap.KVStore, msg pairswap.Msg) (*pairswap.DeliverResult, error) {
	t.Helper()
	tx := &swaptest.Tx{Msg: msg}
	h, ok := r[msg.Path()]
	if !ok {
		t.Fatalf("no handler for %q", msg.Path())
	}
	if _, err := h.Check(ctx, db, tx); err != nil {
		return nil, err
	}
	return h.Deliver(ctx, db, tx)
}

func TestHandlersFullSwap(t *testing.T) {
	f := newFixture(t)
	routes := registry{}
	RegisterRoutes(routes, f.auth, f.ctrl)
	meta := &pairswap.Metadata{Schema: 1}

	base := swaptest.NewCondition()
	d, err := FindDelegate(base.Address())
	assert.Nil(t, err)
	create := &CreateMsg{
		Metadata:     meta,
		Base:         base.Address(),
		Bump:         d.Bump(),
		Participants: []pairswap.Address{f.alice.Address(), f.bert.Address()},
		Amounts:      []*coin.Coin{coin.NewCoinp(100, "ETH"), coin.NewCoinp(200, "BTC")},
		FromKeys:     []pairswap.Address{f.aliceFrom, f.bertFrom},
		ToKeys:       []pairswap.Address{f.aliceTo, f.bertTo},
	}

	// The base must sign the creation.
	_, err = routes.run(t, f.ctx(f.alice), f.db, create)
	assert.IsErr(t, errors.ErrUnauthorized, err)

	res, err := routes.run(t, f.ctx(base), f.db, create)
	assert.Nil(t, err)
	key := pairswap.Address(res.Data)
	assert.Equal(t, d.Address(), key)

	aliceHolding := HoldingAccountAddress(key, "ETH")
	bertHolding := HoldingAccountAddress(key, "BTC")

	// Holding account registration is refused for strangers.
	_, err = routes.run(t, f.ctx(f.carl), f.db, &RegisterHoldingMsg{Metadata: meta, EscrowID: key, Holding: aliceHolding})
	assert.IsErr(t, ErrInvalidParticipant, err)

	_, err = routes.run(t, f.ctx(f.alice), f.db, &RegisterHoldingMsg{Metadata: meta, EscrowID: key, Holding: aliceHolding})
	assert.Nil(t, err)
	_, err = routes.run(t, f.ctx(f.bert), f.db, &RegisterHoldingMsg{Metadata: meta, EscrowID: key, Holding: bertHolding})
	assert.Nil(t, err)
	_, err = routes.run(t, f.ctx(f.bert), f.db, &RegisterHoldingMsg{Metadata: meta, EscrowID: key, Holding: bertHolding})
	assert.IsErr(t, ErrHoldingAccountRegistered, err)

	aliceFulfill := &FulfillMsg{
		Metadata: meta,
		EscrowID: key,
		Transfer: &TransferDescriptor{
			Source:      f.aliceFrom,
			Destination: aliceHolding,
			Authority:   f.alice.Address(),
			Amount:      coin.NewCoinp(100, "ETH"),
		},
		Amount: coin.NewCoinp(100, "ETH"),
	}
	res, err = routes.run(t, f.ctx(f.alice), f.db, aliceFulfill)
	assert.Nil(t, err)
	assert.Equal(t, []byte(Pending), res.Data)

	// Unsigned fulfillment is refused.
	_, err = routes.run(t, f.ctx(), f.db, aliceFulfill)
	assert.IsErr(t, errors.ErrUnauthorized, err)

	bertFulfill := &FulfillMsg{
		Metadata: meta,
		EscrowID: key,
		Transfer: &TransferDescriptor{
			Source:      f.bertFrom,
			Destination: bertHolding,
			Authority:   f.bert.Address(),
			Amount:      coin.NewCoinp(200, "BTC"),
		},
		Amount: coin.NewCoinp(199, "BTC"),
	}
	_, err = routes.run(t, f.ctx(f.bert), f.db, bertFulfill)
	assert.IsErr(t, ErrFulfillmentAmountNotExact, err)

	bertFulfill.Amount = coin.NewCoinp(200, "BTC")
	res, err = routes.run(t, f.ctx(f.bert), f.db, bertFulfill)
	assert.Nil(t, err)
	assert.Equal(t, []byte(Fulfilled), res.Data)

	assert.Equal(t, uint64(200), f.balance(t, f.aliceTo))
	assert.Equal(t, uint64(100), f.balance(t, f.bertTo))

	e, err := f.ctrl.Escrow(f.db, key)
	assert.Nil(t, err)
	if !e.Executed {
		t.Fatal("escrow must be executed")
	}
}
