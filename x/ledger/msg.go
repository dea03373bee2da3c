package ledger

import (
	"github.com/gogo/protobuf/proto"
	"github.com/iov-one/pairswap"
	"github.com/iov-one/pairswap/coin"
	"github.com/iov-one/pairswap/errors"
)

const (
	pathCreateAccountMsg = "ledger/create_account"
	pathTransferMsg      = "ledger/transfer"
)

// CreateAccountMsg opens an empty token account at AccountAddress(Owner,
// Ticker). The owner must sign.
type CreateAccountMsg struct {
	Metadata *pairswap.Metadata `protobuf:"bytes,1,opt,name=metadata,proto3" json:"metadata,omitempty"`
	Owner    pairswap.Address   `protobuf:"bytes,2,opt,name=owner,proto3,casttype=github.com/iov-one/pairswap.Address" json:"owner,omitempty"`
	Ticker   string             `protobuf:"bytes,3,opt,name=ticker,proto3" json:"ticker,omitempty"`
}

func (m *CreateAccountMsg) Reset()         { *m = CreateAccountMsg{} }
func (m *CreateAccountMsg) String() string { return proto.CompactTextString(m) }
func (*CreateAccountMsg) ProtoMessage()    {}

var _ pairswap.Msg = (*CreateAccountMsg)(nil)

// Path fulfills pairswap.Msg interface to allow routing
func (CreateAccountMsg) Path() string {
	return pathCreateAccountMsg
}

// Validate makes sure that this is sensible
func (m *CreateAccountMsg) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Metadata", m.Metadata.Validate())
	errs = errors.AppendField(errs, "Owner", m.Owner.Validate())
	if !coin.IsCC(m.Ticker) {
		errs = errors.AppendField(errs, "Ticker", errors.ErrCurrency)
	}
	return errs
}

// TransferMsg moves tokens between two accounts of the same token. The
// source account owner must sign.
type TransferMsg struct {
	Metadata    *pairswap.Metadata `protobuf:"bytes,1,opt,name=metadata,proto3" json:"metadata,omitempty"`
	Source      pairswap.Address   `protobuf:"bytes,2,opt,name=source,proto3,casttype=github.com/iov-one/pairswap.Address" json:"source,omitempty"`
	Destination pairswap.Address   `protobuf:"bytes,3,opt,name=destination,proto3,casttype=github.com/iov-one/pairswap.Address" json:"destination,omitempty"`
	Amount      *coin.Coin         `protobuf:"bytes,4,opt,name=amount,proto3" json:"amount,omitempty"`
}

func (m *TransferMsg) Reset()         { *m = TransferMsg{} }
func (m *TransferMsg) String() string { return proto.CompactTextString(m) }
func (*TransferMsg) ProtoMessage()    {}

var _ pairswap.Msg = (*TransferMsg)(nil)

// Path fulfills pairswap.Msg interface to allow routing
func (TransferMsg) Path() string {
	return pathTransferMsg
}

// Validate makes sure that this is sensible
func (m *TransferMsg) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Metadata", m.Metadata.Validate())
	errs = errors.AppendField(errs, "Source", m.Source.Validate())
	errs = errors.AppendField(errs, "Destination", m.Destination.Validate())
	switch {
	case m.Amount == nil:
		errs = errors.AppendField(errs, "Amount", errors.ErrEmpty)
	case !m.Amount.IsPositive():
		errs = errors.AppendField(errs, "Amount", errors.ErrInvalidAmount)
	default:
		errs = errors.AppendField(errs, "Amount", m.Amount.Validate())
	}
	return errs
}
