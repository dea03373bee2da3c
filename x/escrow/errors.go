package escrow

import (
	"github.com/iov-one/pairswap/errors"
)

// escrow takes 1100-1110
var (
	ErrExactlyTwoParticipantsAllowed = errors.Register(1100, "exactly two participants allowed")
	ErrInvalidParticipant            = errors.Register(1101, "invalid participant")
	ErrFulfillmentAmountNotExact     = errors.Register(1102, "fulfillment amount not exact")
	ErrHoldingAccountRegistered      = errors.Register(1103, "holding account already registered")
	ErrHoldingAccountMissing         = errors.Register(1104, "holding account missing")
	ErrInvalidHoldingAccount         = errors.Register(1105, "invalid holding account")
	ErrTransferMismatch              = errors.Register(1106, "transfer does not match escrow")
	ErrInvalidDerivation             = errors.Register(1107, "invalid delegate derivation")
	ErrInvalidDestination            = errors.Register(1108, "invalid destination account")
)
