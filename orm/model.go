package orm

import (
	"github.com/gogo/protobuf/proto"
	"github.com/iov-one/pairswap/errors"
)

// Model is implemented by any entity that can be stored using ModelBucket.
//
// Models are protobuf messages. They must not implement Marshal/Unmarshal
// methods themselves, serialization is driven by the struct field tags.
type Model interface {
	proto.Message
	Validate() error
}

// Marshal serializes given model.
func Marshal(m Model) ([]byte, error) {
	raw, err := proto.Marshal(m)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrInvalidModel, "cannot marshal %T: %s", m, err)
	}
	return raw, nil
}

// Unmarshal loads serialized model data into given destination.
func Unmarshal(raw []byte, dest Model) error {
	if err := proto.Unmarshal(raw, dest); err != nil {
		return errors.Wrapf(errors.ErrInvalidModel, "cannot unmarshal %T: %s", dest, err)
	}
	return nil
}
