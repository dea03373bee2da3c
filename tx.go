package pairswap

import (
	"reflect"
	"regexp"

	"github.com/iov-one/pairswap/errors"
)

var isPath = regexp.MustCompile(`^[a-zA-Z0-9_/]+$`).MatchString

// Msg is message for the application to take an action
// (Make a state transition). It is just the request, and
// must be validated by the Handlers. All authentication
// information is in the wrapping Tx.
type Msg interface {
	// Path returns the message path.
	// This is used by the Router to locate the proper Handler.
	// Msg should be created alongside the Handler that corresponds to them.
	//
	// Must be alphanumeric [0-9A-Za-z_/]+
	Path() string

	// Validate performs a sanity checks on this message. It returns an
	// error if at least one test does not pass and message is considered
	// invalid.
	// This validation performs only tests that do not require access to
	// the store.
	Validate() error
}

// Tx represent the data sent from the user to the application.
// It includes the actual message, along with information needed
// to authenticate the sender, which is consumed by an Authenticator.
type Tx interface {
	// GetMsg returns the action we wish to communicate
	GetMsg() (Msg, error)
}

// GetPath returns the path of the message, or (missing) if no message
func GetPath(tx Tx) string {
	msg, err := tx.GetMsg()
	if err == nil && msg != nil {
		return msg.Path()
	}
	return "(missing)"
}

// ValidPath returns true if given string can be used as a message path.
func ValidPath(path string) bool {
	return isPath(path)
}

// LoadMsg extracts the message represented by given transaction into given
// destination. Before returning message validation method is called.
func LoadMsg(tx Tx, destination interface{}) error {
	msg, err := tx.GetMsg()
	if err != nil {
		return errors.Wrap(err, "cannot get transaction message")
	}
	if msg == nil {
		return errors.Wrap(errors.ErrInvalidMsg, "no message")
	}

	// Destination must be a pointer to the same type as the message, so
	// that we can copy the value over.
	dval := reflect.ValueOf(destination)
	if dval.Kind() != reflect.Ptr || dval.IsNil() {
		return errors.Wrapf(errors.ErrHuman, "destination must be a non nil pointer, got %T", destination)
	}
	mval := reflect.ValueOf(msg)
	if mval.Kind() == reflect.Ptr {
		mval = mval.Elem()
	}
	if dval.Elem().Type() != mval.Type() {
		return errors.Wrapf(errors.ErrInvalidType, "want %T message, got %T", destination, msg)
	}
	dval.Elem().Set(mval)

	if err := msg.Validate(); err != nil {
		return errors.Wrap(err, "invalid message")
	}
	return nil
}
