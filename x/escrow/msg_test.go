package escrow

import (
	"testing"

	"github.com/iov-one/pairswap"
	"github.com/iov-one/pairswap/coin"
	"github.com/iov-one/pairswap/errors"
	"github.com/iov-one/pairswap/swaptest"
	"github.com/iov-one/pairswap/swaptest/assert"
)

func TestCreateMsgValidate(t *testing.T) {
	alice := swaptest.NewCondition().Address()
	bert := swaptest.NewCondition().Address()
	acc := swaptest.NewCondition().Address()
	base := swaptest.NewCondition().Address()
	d, err := FindDelegate(base)
	assert.Nil(t, err)
	nonCanonical := otherValidBump(t, base, d.Bump())

	valid := func() *CreateMsg {
		return &CreateMsg{
			Metadata:     &pairswap.Metadata{Schema: 1},
			Base:         base,
			Bump:         d.Bump(),
			Participants: []pairswap.Address{alice, bert},
			Amounts:      []*coin.Coin{coin.NewCoinp(1, "ETH"), coin.NewCoinp(2, "BTC")},
			FromKeys:     []pairswap.Address{acc, acc},
			ToKeys:       []pairswap.Address{acc, acc},
		}
	}

	cases := map[string]struct {
		mutate  func(*CreateMsg)
		field   string
		wantErr *errors.Error
	}{
		"valid": {
			mutate: func(*CreateMsg) {},
		},
		"missing base": {
			mutate:  func(m *CreateMsg) { m.Base = nil },
			field:   "Base",
			wantErr: errors.ErrInvalidInput,
		},
		"missing amount": {
			mutate:  func(m *CreateMsg) { m.Amounts[1] = nil },
			field:   "Legs.1",
			wantErr: errors.ErrEmpty,
		},
		"invalid participant address": {
			mutate:  func(m *CreateMsg) { m.Participants[0] = []byte("short") },
			field:   "Legs.0",
			wantErr: errors.ErrInvalidInput,
		},
		"same participants": {
			mutate:  func(m *CreateMsg) { m.Participants[1] = alice },
			field:   "Participants",
			wantErr: ErrInvalidParticipant,
		},
		"bump other than the canonical one": {
			mutate:  func(m *CreateMsg) { m.Bump = nonCanonical },
			field:   "Bump",
			wantErr: ErrInvalidDerivation,
		},
		"bump out of range": {
			mutate:  func(m *CreateMsg) { m.Bump = 300 },
			field:   "Bump",
			wantErr: ErrInvalidDerivation,
		},
	}
	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			msg := valid()
			tc.mutate(msg)
			err := msg.Validate()
			if tc.wantErr == nil {
				assert.Nil(t, err)
				return
			}
			assert.FieldError(t, err, tc.field, tc.wantErr)
		})
	}
}

func TestFulfillMsgValidate(t *testing.T) {
	addr := swaptest.NewCondition().Address()
	msg := &FulfillMsg{
		Metadata: &pairswap.Metadata{Schema: 1},
		EscrowID: addr,
		Amount:   coin.NewCoinp(1, "ETH"),
	}
	assert.FieldError(t, msg.Validate(), "Transfer", errors.ErrEmpty)

	msg.Transfer = &TransferDescriptor{Source: addr, Destination: addr, Authority: addr}
	assert.FieldError(t, msg.Validate(), "Transfer", errors.ErrEmpty)

	msg.Transfer.Amount = coin.NewCoinp(1, "ETH")
	assert.Nil(t, msg.Validate())

	msg.Amount = nil
	assert.FieldError(t, msg.Validate(), "Amount", errors.ErrEmpty)
}

func TestRegisterHoldingMsgValidate(t *testing.T) {
	msg := &RegisterHoldingMsg{
		Metadata: &pairswap.Metadata{Schema: 1},
		EscrowID: swaptest.NewCondition().Address(),
	}
	assert.FieldError(t, msg.Validate(), "Holding", errors.ErrInvalidInput)

	msg.Holding = swaptest.NewCondition().Address()
	assert.Nil(t, msg.Validate())
}
