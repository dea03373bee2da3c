package ledger

import (
	"github.com/iov-one/pairswap"
	"github.com/iov-one/pairswap/errors"
	"github.com/iov-one/pairswap/x"
)

const (
	createAccountCost int64 = 50
	transferCost      int64 = 10
)

// RegisterRoutes will instantiate and register all handlers in this package.
// The transfer handler authorizes using the controller's authenticator,
// the auth argument is used to identify the message signer.
func RegisterRoutes(r pairswap.Registry, auth x.Authenticator, ctrl *Controller) {
	r.Handle(&CreateAccountMsg{}, CreateAccountHandler{auth: auth, ctrl: ctrl})
	r.Handle(&TransferMsg{}, TransferHandler{auth: auth, ctrl: ctrl})
}

// CreateAccountHandler opens empty token accounts on behalf of their
// signing owner.
type CreateAccountHandler struct {
	auth x.Authenticator
	ctrl *Controller
}

var _ pairswap.Handler = CreateAccountHandler{}

func (h CreateAccountHandler) Check(ctx pairswap.Context, db pairswap.KVStore, tx pairswap.Tx) (*pairswap.CheckResult, error) {
	if _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &pairswap.CheckResult{GasAllocated: createAccountCost}, nil
}

func (h CreateAccountHandler) Deliver(ctx pairswap.Context, db pairswap.KVStore, tx pairswap.Tx) (*pairswap.DeliverResult, error) {
	msg, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	addr := AccountAddress(msg.Owner, msg.Ticker)
	if _, err := h.ctrl.CreateAccount(db, addr, msg.Owner, msg.Ticker); err != nil {
		return nil, err
	}
	return &pairswap.DeliverResult{Data: addr}, nil
}

func (h CreateAccountHandler) validate(ctx pairswap.Context, db pairswap.KVStore, tx pairswap.Tx) (*CreateAccountMsg, error) {
	var msg CreateAccountMsg
	if err := pairswap.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	if !h.auth.HasAddress(ctx, msg.Owner) {
		return nil, errors.Wrap(errors.ErrUnauthorized, "owner signature required")
	}
	return &msg, nil
}

// TransferHandler moves tokens between accounts on behalf of the source
// account owner.
type TransferHandler struct {
	auth x.Authenticator
	ctrl *Controller
}

var _ pairswap.Handler = TransferHandler{}

func (h TransferHandler) Check(ctx pairswap.Context, db pairswap.KVStore, tx pairswap.Tx) (*pairswap.CheckResult, error) {
	if _, _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &pairswap.CheckResult{GasAllocated: transferCost}, nil
}

func (h TransferHandler) Deliver(ctx pairswap.Context, db pairswap.KVStore, tx pairswap.Tx) (*pairswap.DeliverResult, error) {
	msg, src, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	if err := h.ctrl.Transfer(ctx, db, msg.Source, msg.Destination, src.Owner, *msg.Amount); err != nil {
		return nil, err
	}
	return &pairswap.DeliverResult{}, nil
}

// validate ensures the source account owner signed the message.
func (h TransferHandler) validate(ctx pairswap.Context, db pairswap.KVStore, tx pairswap.Tx) (*TransferMsg, *Account, error) {
	var msg TransferMsg
	if err := pairswap.LoadMsg(tx, &msg); err != nil {
		return nil, nil, errors.Wrap(err, "load msg")
	}
	src, err := h.ctrl.Account(db, msg.Source)
	if err != nil {
		return nil, nil, err
	}
	if !h.auth.HasAddress(ctx, src.Owner) {
		return nil, nil, errors.Wrap(errors.ErrUnauthorized, "source owner signature required")
	}
	return &msg, src, nil
}
