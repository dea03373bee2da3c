package swaptest

import "github.com/iov-one/pairswap"

// Tx represents a single message that is to be processed within a
// transaction.
type Tx struct {
	// Msg is the message that is to be processed by this transaction.
	Msg pairswap.Msg
	// Err if set is returned by any method call.
	Err error
}

var _ pairswap.Tx = (*Tx)(nil)

func (tx *Tx) GetMsg() (pairswap.Msg, error) {
	return tx.Msg, tx.Err
}

// Msg represents a message with a configurable route path.
type Msg struct {
	// Path returned by the path method, consumed by the router.
	RoutePath string
	// Err if set is returned by validate.
	Err error
}

var _ pairswap.Msg = (*Msg)(nil)

func (m *Msg) Path() string {
	return m.RoutePath
}

func (m *Msg) Validate() error {
	return m.Err
}
