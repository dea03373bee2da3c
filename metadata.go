package pairswap

import (
	"github.com/gogo/protobuf/proto"
	"github.com/iov-one/pairswap/errors"
)

// Metadata is attached to every model and message. It carries the schema
// version the entity was written with.
type Metadata struct {
	Schema uint32 `protobuf:"varint,1,opt,name=schema,proto3" json:"schema,omitempty"`
}

func (m *Metadata) Reset()         { *m = Metadata{} }
func (m *Metadata) String() string { return proto.CompactTextString(m) }
func (*Metadata) ProtoMessage()    {}

// Validate returns an error if the metadata does not declare a known schema.
func (m *Metadata) Validate() error {
	if m == nil {
		return errors.Wrap(errors.ErrMetadata, "missing metadata")
	}
	if m.Schema == 0 {
		return errors.Wrap(errors.ErrMetadata, "schema version is required")
	}
	if m.Schema > CurrentSchema {
		return errors.Wrapf(errors.ErrSchema, "unknown schema version %d", m.Schema)
	}
	return nil
}

// Copy returns a copy of this object. This method is helpful when implementing
// model Copy methods.
func (m *Metadata) Copy() *Metadata {
	if m == nil {
		return nil
	}
	cpy := *m
	return &cpy
}

// CurrentSchema is the schema version all new entities are written with.
const CurrentSchema uint32 = 1
