package escrow

import (
	"github.com/gogo/protobuf/proto"
	"github.com/iov-one/pairswap"
	"github.com/iov-one/pairswap/coin"
	"github.com/iov-one/pairswap/errors"
	"github.com/iov-one/pairswap/x/ledger"
)

// Ledger moves tokens between accounts. It is implemented by
// ledger.Controller.
type Ledger interface {
	// Account returns the account stored under given address.
	Account(db pairswap.ReadOnlyKVStore, addr pairswap.Address) (*ledger.Account, error)
	// CreateAccount opens an empty account of given token and owner.
	CreateAccount(db pairswap.KVStore, addr, owner pairswap.Address, ticker string) (*ledger.Account, error)
	// Transfer moves amount from src to dst. The authority must be
	// authenticated in the context and must own the source account.
	Transfer(ctx pairswap.Context, db pairswap.KVStore, src, dst, authority pairswap.Address, amount coin.Coin) error
}

var _ Ledger = (*ledger.Controller)(nil)

// TransferDescriptor describes a single ledger transfer.
type TransferDescriptor struct {
	Source      pairswap.Address `protobuf:"bytes,1,opt,name=source,proto3,casttype=github.com/iov-one/pairswap.Address" json:"source,omitempty"`
	Destination pairswap.Address `protobuf:"bytes,2,opt,name=destination,proto3,casttype=github.com/iov-one/pairswap.Address" json:"destination,omitempty"`
	Authority   pairswap.Address `protobuf:"bytes,3,opt,name=authority,proto3,casttype=github.com/iov-one/pairswap.Address" json:"authority,omitempty"`
	Amount      *coin.Coin       `protobuf:"bytes,4,opt,name=amount,proto3" json:"amount,omitempty"`
}

func (m *TransferDescriptor) Reset()         { *m = TransferDescriptor{} }
func (m *TransferDescriptor) String() string { return proto.CompactTextString(m) }
func (*TransferDescriptor) ProtoMessage()    {}

// Validate ensures the descriptor is well formed.
func (m *TransferDescriptor) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Source", m.Source.Validate())
	errs = errors.AppendField(errs, "Destination", m.Destination.Validate())
	errs = errors.AppendField(errs, "Authority", m.Authority.Validate())
	errs = errors.AppendField(errs, "Amount", validateAmount(m.Amount))
	return errs
}

// Invoker executes transfer descriptors against the ledger.
type Invoker struct {
	ledger Ledger
}

// NewInvoker returns an invoker executing transfers on given ledger.
func NewInvoker(l Ledger) *Invoker {
	return &Invoker{ledger: l}
}

// Invoke executes the transfer synchronously. When a delegate is given, the
// transfer is signed by it in addition to whatever authentication the
// context already carries.
func (i *Invoker) Invoke(ctx pairswap.Context, db pairswap.KVStore, t *TransferDescriptor, signer *Delegate) error {
	if err := t.Validate(); err != nil {
		return errors.Wrap(err, "transfer")
	}
	if signer != nil {
		ctx = withDelegate(ctx, signer)
	}
	err := i.ledger.Transfer(ctx, db, t.Source, t.Destination, t.Authority, *t.Amount)
	return errors.Wrapf(err, "transfer %s from %s to %s", t.Amount, t.Source, t.Destination)
}
