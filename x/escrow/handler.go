package escrow

import (
	"fmt"

	"github.com/iov-one/pairswap"
	"github.com/iov-one/pairswap/errors"
	"github.com/iov-one/pairswap/x"
)

const (
	createEscrowCost    int64 = 300
	registerHoldingCost int64 = 50
	fulfillEscrowCost   int64 = 100
)

// RegisterRoutes will instantiate and register
// all handlers in this package
func RegisterRoutes(r pairswap.Registry, auth x.Authenticator, ctrl *Controller) {
	r.Handle(&CreateMsg{}, CreateEscrowHandler{auth: auth, ctrl: ctrl})
	r.Handle(&RegisterHoldingMsg{}, RegisterHoldingHandler{auth: auth, ctrl: ctrl})
	r.Handle(&FulfillMsg{}, FulfillHandler{auth: auth, ctrl: ctrl})
}

// CreateEscrowHandler stores new escrows.
type CreateEscrowHandler struct {
	auth x.Authenticator
	ctrl *Controller
}

var _ pairswap.Handler = CreateEscrowHandler{}

// Check just verifies it is properly formed and returns
// the cost of executing it.
func (h CreateEscrowHandler) Check(ctx pairswap.Context, db pairswap.KVStore, tx pairswap.Tx) (*pairswap.CheckResult, error) {
	if _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &pairswap.CheckResult{GasAllocated: createEscrowCost}, nil
}

// Deliver stores the escrow and returns its key.
func (h CreateEscrowHandler) Deliver(ctx pairswap.Context, db pairswap.KVStore, tx pairswap.Tx) (*pairswap.DeliverResult, error) {
	msg, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	key, _, err := h.ctrl.Create(ctx, db, msg)
	if err != nil {
		return nil, err
	}
	return &pairswap.DeliverResult{Data: key}, nil
}

// validate does all common pre-processing between Check and Deliver.
func (h CreateEscrowHandler) validate(ctx pairswap.Context, db pairswap.KVStore, tx pairswap.Tx) (*CreateMsg, error) {
	var msg CreateMsg
	if err := pairswap.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	if !h.auth.HasAddress(ctx, msg.Base) {
		return nil, errors.Wrap(errors.ErrUnauthorized, "base signature required")
	}
	return &msg, nil
}

// RegisterHoldingHandler sets the holding account of the signing
// participant.
type RegisterHoldingHandler struct {
	auth x.Authenticator
	ctrl *Controller
}

var _ pairswap.Handler = RegisterHoldingHandler{}

func (h RegisterHoldingHandler) Check(ctx pairswap.Context, db pairswap.KVStore, tx pairswap.Tx) (*pairswap.CheckResult, error) {
	msg, caller, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	if _, _, err := h.ctrl.checkRegister(db, msg.EscrowID, caller, msg.Holding); err != nil {
		return nil, err
	}
	return &pairswap.CheckResult{GasAllocated: registerHoldingCost}, nil
}

func (h RegisterHoldingHandler) Deliver(ctx pairswap.Context, db pairswap.KVStore, tx pairswap.Tx) (*pairswap.DeliverResult, error) {
	msg, caller, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	if _, err := h.ctrl.RegisterHoldingAccount(ctx, db, msg.EscrowID, caller, msg.Holding); err != nil {
		return nil, err
	}
	return &pairswap.DeliverResult{Data: msg.EscrowID}, nil
}

func (h RegisterHoldingHandler) validate(ctx pairswap.Context, db pairswap.KVStore, tx pairswap.Tx) (*RegisterHoldingMsg, pairswap.Address, error) {
	var msg RegisterHoldingMsg
	if err := pairswap.LoadMsg(tx, &msg); err != nil {
		return nil, nil, errors.Wrap(err, "load msg")
	}
	caller := x.MainSigner(ctx, h.auth)
	if caller == nil {
		return nil, nil, errors.Wrap(errors.ErrUnauthorized, "signature required")
	}
	return &msg, caller.Address(), nil
}

// FulfillHandler deposits the obligation of the signing participant.
type FulfillHandler struct {
	auth x.Authenticator
	ctrl *Controller
}

var _ pairswap.Handler = FulfillHandler{}

func (h FulfillHandler) Check(ctx pairswap.Context, db pairswap.KVStore, tx pairswap.Tx) (*pairswap.CheckResult, error) {
	msg, caller, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	if _, _, err := h.ctrl.checkFulfill(db, msg.EscrowID, caller, msg.Transfer, *msg.Amount); err != nil {
		return nil, err
	}
	return &pairswap.CheckResult{GasAllocated: fulfillEscrowCost}, nil
}

// Deliver returns the fulfillment status as data and the approval vector
// as log.
func (h FulfillHandler) Deliver(ctx pairswap.Context, db pairswap.KVStore, tx pairswap.Tx) (*pairswap.DeliverResult, error) {
	msg, caller, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	res, err := h.ctrl.Fulfill(ctx, db, msg.EscrowID, caller, msg.Transfer, *msg.Amount)
	if err != nil {
		return nil, err
	}
	return &pairswap.DeliverResult{
		Data: []byte(res.Status),
		Log:  fmt.Sprintf("%s %v", res.Status, res.Approved),
	}, nil
}

func (h FulfillHandler) validate(ctx pairswap.Context, db pairswap.KVStore, tx pairswap.Tx) (*FulfillMsg, pairswap.Address, error) {
	var msg FulfillMsg
	if err := pairswap.LoadMsg(tx, &msg); err != nil {
		return nil, nil, errors.Wrap(err, "load msg")
	}
	caller := x.MainSigner(ctx, h.auth)
	if caller == nil {
		return nil, nil, errors.Wrap(errors.ErrUnauthorized, "signature required")
	}
	return &msg, caller.Address(), nil
}
