package ledger

import (
	"github.com/gogo/protobuf/proto"
	"github.com/iov-one/pairswap"
	"github.com/iov-one/pairswap/coin"
	"github.com/iov-one/pairswap/errors"
	"github.com/iov-one/pairswap/orm"
)

// Account is a single token balance controlled by an owner.
type Account struct {
	Metadata *pairswap.Metadata `protobuf:"bytes,1,opt,name=metadata,proto3" json:"metadata,omitempty"`
	// Owner is the address that must authorize any transfer out of this
	// account.
	Owner pairswap.Address `protobuf:"bytes,2,opt,name=owner,proto3,casttype=github.com/iov-one/pairswap.Address" json:"owner,omitempty"`
	// Balance declares the token this account holds and its amount.
	Balance *coin.Coin `protobuf:"bytes,3,opt,name=balance,proto3" json:"balance,omitempty"`
}

func (m *Account) Reset()         { *m = Account{} }
func (m *Account) String() string { return proto.CompactTextString(m) }
func (*Account) ProtoMessage()    {}

var _ orm.Model = (*Account)(nil)

// Validate ensures the account is well formed.
func (m *Account) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Metadata", m.Metadata.Validate())
	errs = errors.AppendField(errs, "Owner", m.Owner.Validate())
	if m.Balance == nil {
		errs = errors.AppendField(errs, "Balance", errors.ErrEmpty)
	} else {
		errs = errors.AppendField(errs, "Balance", m.Balance.Validate())
	}
	return errs
}

// Copy returns a deep copy of this account.
func (m *Account) Copy() *Account {
	return &Account{
		Metadata: m.Metadata.Copy(),
		Owner:    m.Owner.Clone(),
		Balance:  m.Balance.Clone(),
	}
}

// Ticker returns the token this account holds.
func (m *Account) Ticker() string {
	if m.Balance == nil {
		return ""
	}
	return m.Balance.Ticker
}

// NewAccount returns an empty account of given token owned by owner.
func NewAccount(owner pairswap.Address, ticker string) *Account {
	return &Account{
		Metadata: &pairswap.Metadata{Schema: pairswap.CurrentSchema},
		Owner:    owner,
		Balance:  coin.NewCoinp(0, ticker),
	}
}

// AccountAddress returns the address of the account of given owner for
// given token. Accounts opened with a message always live at this address,
// so an owner has at most one such account per token.
func AccountAddress(owner pairswap.Address, ticker string) pairswap.Address {
	data := make([]byte, 0, len(owner)+len(ticker))
	data = append(data, owner...)
	data = append(data, ticker...)
	return pairswap.NewCondition("ledger", "account", data).Address()
}

// NewBucket returns a bucket storing accounts by their address. Accounts
// are indexed by owner.
func NewBucket() orm.ModelBucket {
	return orm.NewModelBucket("ledger", &Account{},
		orm.WithIndex("owner", ownerIndexer, false),
	)
}

func ownerIndexer(m orm.Model) ([][]byte, error) {
	acc, ok := m.(*Account)
	if !ok {
		return nil, errors.WithType(errors.ErrInvalidModel, m)
	}
	return [][]byte{acc.Owner}, nil
}
