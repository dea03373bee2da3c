package escrow

import (
	"fmt"

	"github.com/gogo/protobuf/proto"
	"github.com/iov-one/pairswap"
	"github.com/iov-one/pairswap/coin"
	"github.com/iov-one/pairswap/errors"
	"github.com/iov-one/pairswap/orm"
	"github.com/iov-one/pairswap/x/ledger"
)

// State describes how far an escrow progressed.
type State string

const (
	StateCreated            State = "created"
	StatePartiallyFulfilled State = "partially_fulfilled"
	StateFulfilled          State = "fulfilled"
)

// HoldingAccount references the ledger account that receives a
// participant deposit. It is owned by the escrow delegate.
type HoldingAccount struct {
	Address pairswap.Address `protobuf:"bytes,1,opt,name=address,proto3,casttype=github.com/iov-one/pairswap.Address" json:"address,omitempty"`
}

func (m *HoldingAccount) Reset()         { *m = HoldingAccount{} }
func (m *HoldingAccount) String() string { return proto.CompactTextString(m) }
func (*HoldingAccount) ProtoMessage()    {}

// Leg is the obligation of a single participant.
type Leg struct {
	// Participant must sign the fulfillment of this leg.
	Participant pairswap.Address `protobuf:"bytes,1,opt,name=participant,proto3,casttype=github.com/iov-one/pairswap.Address" json:"participant,omitempty"`
	// Required is the exact amount the participant must deposit.
	Required *coin.Coin `protobuf:"bytes,2,opt,name=required,proto3" json:"required,omitempty"`
	// From is the account the deposit is taken from.
	From pairswap.Address `protobuf:"bytes,3,opt,name=from,proto3,casttype=github.com/iov-one/pairswap.Address" json:"from,omitempty"`
	// To is the account that receives the counterparty deposit.
	To pairswap.Address `protobuf:"bytes,4,opt,name=to,proto3,casttype=github.com/iov-one/pairswap.Address" json:"to,omitempty"`
	// Holding is unset until the participant registers it.
	Holding  *HoldingAccount `protobuf:"bytes,5,opt,name=holding,proto3" json:"holding,omitempty"`
	Approved bool            `protobuf:"varint,6,opt,name=approved,proto3" json:"approved,omitempty"`
}

func (m *Leg) Reset()         { *m = Leg{} }
func (m *Leg) String() string { return proto.CompactTextString(m) }
func (*Leg) ProtoMessage()    {}

// Validate ensures the leg is well formed.
func (m *Leg) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Participant", m.Participant.Validate())
	errs = errors.AppendField(errs, "Required", validateAmount(m.Required))
	errs = errors.AppendField(errs, "From", m.From.Validate())
	errs = errors.AppendField(errs, "To", m.To.Validate())
	if m.Holding != nil {
		errs = errors.AppendField(errs, "Holding", m.Holding.Address.Validate())
	}
	return errs
}

// Copy returns a deep copy of this leg.
func (m *Leg) Copy() *Leg {
	cpy := &Leg{
		Participant: m.Participant.Clone(),
		Required:    m.Required.Clone(),
		From:        m.From.Clone(),
		To:          m.To.Clone(),
		Approved:    m.Approved,
	}
	if m.Holding != nil {
		cpy.Holding = &HoldingAccount{Address: m.Holding.Address.Clone()}
	}
	return cpy
}

func validateAmount(c *coin.Coin) error {
	if c == nil {
		return errors.ErrEmpty
	}
	if err := c.Validate(); err != nil {
		return err
	}
	if !c.IsPositive() {
		return errors.Wrap(errors.ErrInvalidAmount, "must be positive")
	}
	return nil
}

// Escrow binds two participants into a conditional exchange.
type Escrow struct {
	Metadata *pairswap.Metadata `protobuf:"bytes,1,opt,name=metadata,proto3" json:"metadata,omitempty"`
	// Base together with Bump derives the escrow delegate.
	Base pairswap.Address `protobuf:"bytes,2,opt,name=base,proto3,casttype=github.com/iov-one/pairswap.Address" json:"base,omitempty"`
	Bump uint32           `protobuf:"varint,3,opt,name=bump,proto3" json:"bump,omitempty"`
	// Legs always holds exactly two obligations, one per participant.
	Legs []*Leg `protobuf:"bytes,4,rep,name=legs,proto3" json:"legs,omitempty"`
	// Executed is set once both deposits were released.
	Executed bool `protobuf:"varint,5,opt,name=executed,proto3" json:"executed,omitempty"`
}

func (m *Escrow) Reset()         { *m = Escrow{} }
func (m *Escrow) String() string { return proto.CompactTextString(m) }
func (*Escrow) ProtoMessage()    {}

var _ orm.Model = (*Escrow)(nil)

// Validate ensures the escrow is well formed.
func (m *Escrow) Validate() error {
	if len(m.Legs) != 2 {
		return errors.Wrapf(ErrExactlyTwoParticipantsAllowed, "got %d legs", len(m.Legs))
	}

	var errs error
	errs = errors.AppendField(errs, "Metadata", m.Metadata.Validate())
	errs = errors.AppendField(errs, "Base", m.Base.Validate())
	if m.Bump > MaxBump {
		errs = errors.AppendField(errs, "Bump", ErrInvalidDerivation)
	}
	for i, leg := range m.Legs {
		if leg == nil {
			errs = errors.Append(errs, errors.Field(fmt.Sprintf("Legs.%d", i), errors.ErrEmpty, ""))
			continue
		}
		if err := leg.Validate(); err != nil {
			errs = errors.Append(errs, errors.Field(fmt.Sprintf("Legs.%d", i), err, ""))
		}
	}
	if errs != nil {
		return errs
	}

	if m.Legs[0].Participant.Equals(m.Legs[1].Participant) {
		errs = errors.AppendField(errs, "Legs.1.Participant",
			errors.Wrap(ErrInvalidParticipant, "participants must be distinct"))
	}
	if m.Executed && m.State() != StateFulfilled {
		errs = errors.AppendField(errs, "Executed",
			errors.Wrap(errors.ErrInvalidState, "executed before both legs were approved"))
	}
	return errs
}

// Copy returns a deep copy of this escrow.
func (m *Escrow) Copy() *Escrow {
	legs := make([]*Leg, len(m.Legs))
	for i, l := range m.Legs {
		legs[i] = l.Copy()
	}
	return &Escrow{
		Metadata: m.Metadata.Copy(),
		Base:     m.Base.Clone(),
		Bump:     m.Bump,
		Legs:     legs,
		Executed: m.Executed,
	}
}

// Delegate reconstructs the authority of this escrow.
func (m *Escrow) Delegate() (*Delegate, error) {
	return NewDelegate(m.Base, m.Bump)
}

// Participants returns both participant addresses in leg order.
func (m *Escrow) Participants() []pairswap.Address {
	res := make([]pairswap.Address, len(m.Legs))
	for i, l := range m.Legs {
		res[i] = l.Participant
	}
	return res
}

// Approvals returns the approval state of both legs.
func (m *Escrow) Approvals() []bool {
	res := make([]bool, len(m.Legs))
	for i, l := range m.Legs {
		res[i] = l.Approved
	}
	return res
}

// ParticipantIndex returns the position of given participant.
func (m *Escrow) ParticipantIndex(addr pairswap.Address) (int, bool) {
	for i, l := range m.Legs {
		if l.Participant.Equals(addr) {
			return i, true
		}
	}
	return -1, false
}

// State returns the progress of this escrow.
func (m *Escrow) State() State {
	approved := 0
	for _, l := range m.Legs {
		if l.Approved {
			approved++
		}
	}
	switch {
	case approved == 0:
		return StateCreated
	case approved < len(m.Legs):
		return StatePartiallyFulfilled
	default:
		return StateFulfilled
	}
}

// HoldingAccountAddress returns the address of the holding account the
// escrow opens for given token when it is created.
func HoldingAccountAddress(escrowKey pairswap.Address, ticker string) pairswap.Address {
	return ledger.AccountAddress(escrowKey, ticker)
}

// NewBucket returns a bucket storing escrows by their delegate address.
// Escrows are indexed by both participants.
func NewBucket() orm.ModelBucket {
	return orm.NewModelBucket("escrow", &Escrow{},
		orm.WithIndex("participant", participantIndexer, false),
	)
}

func participantIndexer(m orm.Model) ([][]byte, error) {
	e, ok := m.(*Escrow)
	if !ok {
		return nil, errors.WithType(errors.ErrInvalidModel, m)
	}
	keys := make([][]byte, 0, len(e.Legs))
	for _, l := range e.Legs {
		keys = append(keys, l.Participant)
	}
	return keys, nil
}
