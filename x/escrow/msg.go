package escrow

import (
	"fmt"

	"github.com/gogo/protobuf/proto"
	"github.com/iov-one/pairswap"
	"github.com/iov-one/pairswap/coin"
	"github.com/iov-one/pairswap/errors"
)

const (
	pathCreateMsg          = "escrow/create"
	pathRegisterHoldingMsg = "escrow/register_holding"
	pathFulfillMsg         = "escrow/fulfill"
)

var _ pairswap.Msg = (*CreateMsg)(nil)
var _ pairswap.Msg = (*RegisterHoldingMsg)(nil)
var _ pairswap.Msg = (*FulfillMsg)(nil)

// CreateMsg creates a new escrow. All lists are indexed by participant and
// must hold exactly two elements. The base must sign.
type CreateMsg struct {
	Metadata     *pairswap.Metadata `protobuf:"bytes,1,opt,name=metadata,proto3" json:"metadata,omitempty"`
	Base         pairswap.Address   `protobuf:"bytes,2,opt,name=base,proto3,casttype=github.com/iov-one/pairswap.Address" json:"base,omitempty"`
	Bump         uint32             `protobuf:"varint,3,opt,name=bump,proto3" json:"bump,omitempty"`
	Participants []pairswap.Address `protobuf:"bytes,4,rep,name=participants,proto3,casttype=github.com/iov-one/pairswap.Address" json:"participants,omitempty"`
	Amounts      []*coin.Coin       `protobuf:"bytes,5,rep,name=amounts,proto3" json:"amounts,omitempty"`
	FromKeys     []pairswap.Address `protobuf:"bytes,6,rep,name=from_keys,json=fromKeys,proto3,casttype=github.com/iov-one/pairswap.Address" json:"from_keys,omitempty"`
	ToKeys       []pairswap.Address `protobuf:"bytes,7,rep,name=to_keys,json=toKeys,proto3,casttype=github.com/iov-one/pairswap.Address" json:"to_keys,omitempty"`
}

func (m *CreateMsg) Reset()         { *m = CreateMsg{} }
func (m *CreateMsg) String() string { return proto.CompactTextString(m) }
func (*CreateMsg) ProtoMessage()    {}

// Path fulfills pairswap.Msg interface to allow routing
func (CreateMsg) Path() string {
	return pathCreateMsg
}

// Validate makes sure that this is sensible
func (m *CreateMsg) Validate() error {
	if err := m.validateLengths(); err != nil {
		return err
	}
	var errs error
	errs = errors.AppendField(errs, "Metadata", m.Metadata.Validate())
	baseErr := m.Base.Validate()
	errs = errors.AppendField(errs, "Base", baseErr)
	switch {
	case m.Bump > MaxBump:
		errs = errors.AppendField(errs, "Bump", ErrInvalidDerivation)
	case baseErr == nil:
		if _, err := CanonicalDelegate(m.Base, m.Bump); err != nil {
			errs = errors.AppendField(errs, "Bump", err)
		}
	}
	for i, leg := range m.legs() {
		errs = errors.Append(errs, errors.Field(fmt.Sprintf("Legs.%d", i), leg.Validate(), ""))
	}
	if m.Participants[0].Equals(m.Participants[1]) {
		errs = errors.AppendField(errs, "Participants",
			errors.Wrap(ErrInvalidParticipant, "participants must be distinct"))
	}
	return errs
}

func (m *CreateMsg) validateLengths() error {
	if len(m.Participants) != 2 || len(m.Amounts) != 2 ||
		len(m.FromKeys) != 2 || len(m.ToKeys) != 2 {
		return errors.Wrapf(ErrExactlyTwoParticipantsAllowed,
			"participants %d, amounts %d, from %d, to %d",
			len(m.Participants), len(m.Amounts), len(m.FromKeys), len(m.ToKeys))
	}
	return nil
}

// legs groups the parallel lists per participant. Lengths must be
// validated first.
func (m *CreateMsg) legs() []*Leg {
	legs := make([]*Leg, 2)
	for i := range legs {
		legs[i] = &Leg{
			Participant: m.Participants[i],
			Required:    m.Amounts[i],
			From:        m.FromKeys[i],
			To:          m.ToKeys[i],
		}
	}
	return legs
}

// RegisterHoldingMsg registers the holding account of the signing
// participant.
type RegisterHoldingMsg struct {
	Metadata *pairswap.Metadata `protobuf:"bytes,1,opt,name=metadata,proto3" json:"metadata,omitempty"`
	EscrowID pairswap.Address   `protobuf:"bytes,2,opt,name=escrow_id,json=escrowId,proto3,casttype=github.com/iov-one/pairswap.Address" json:"escrow_id,omitempty"`
	Holding  pairswap.Address   `protobuf:"bytes,3,opt,name=holding,proto3,casttype=github.com/iov-one/pairswap.Address" json:"holding,omitempty"`
}

func (m *RegisterHoldingMsg) Reset()         { *m = RegisterHoldingMsg{} }
func (m *RegisterHoldingMsg) String() string { return proto.CompactTextString(m) }
func (*RegisterHoldingMsg) ProtoMessage()    {}

// Path fulfills pairswap.Msg interface to allow routing
func (RegisterHoldingMsg) Path() string {
	return pathRegisterHoldingMsg
}

// Validate makes sure that this is sensible
func (m *RegisterHoldingMsg) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Metadata", m.Metadata.Validate())
	errs = errors.AppendField(errs, "EscrowID", m.EscrowID.Validate())
	errs = errors.AppendField(errs, "Holding", m.Holding.Validate())
	return errs
}

// FulfillMsg deposits the obligation of the signing participant.
type FulfillMsg struct {
	Metadata *pairswap.Metadata  `protobuf:"bytes,1,opt,name=metadata,proto3" json:"metadata,omitempty"`
	EscrowID pairswap.Address    `protobuf:"bytes,2,opt,name=escrow_id,json=escrowId,proto3,casttype=github.com/iov-one/pairswap.Address" json:"escrow_id,omitempty"`
	Transfer *TransferDescriptor `protobuf:"bytes,3,opt,name=transfer,proto3" json:"transfer,omitempty"`
	Amount   *coin.Coin          `protobuf:"bytes,4,opt,name=amount,proto3" json:"amount,omitempty"`
}

func (m *FulfillMsg) Reset()         { *m = FulfillMsg{} }
func (m *FulfillMsg) String() string { return proto.CompactTextString(m) }
func (*FulfillMsg) ProtoMessage()    {}

// Path fulfills pairswap.Msg interface to allow routing
func (FulfillMsg) Path() string {
	return pathFulfillMsg
}

// Validate makes sure that this is sensible
func (m *FulfillMsg) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Metadata", m.Metadata.Validate())
	errs = errors.AppendField(errs, "EscrowID", m.EscrowID.Validate())
	errs = errors.AppendField(errs, "Amount", validateAmount(m.Amount))
	if m.Transfer == nil {
		errs = errors.AppendField(errs, "Transfer", errors.ErrEmpty)
	} else {
		errs = errors.AppendField(errs, "Transfer", m.Transfer.Validate())
	}
	return errs
}
