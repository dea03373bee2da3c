package orm

import (
	"bytes"
	"fmt"
	"regexp"

	"github.com/iov-one/pairswap"
	"github.com/iov-one/pairswap/errors"
)

var isIndexName = regexp.MustCompile(`^[a-z_]{3,20}$`).MatchString

// MultiKeyIndexer calculates the secondary index keys for a given object.
// A single model can be present under many keys of the same index.
type MultiKeyIndexer func(Model) ([][]byte, error)

// Index represents a secondary index on some data.
// It is indexed by an arbitrary key returned by MultiKeyIndexer.
// The value is one primary key (unique),
// Or an array of primary keys (!unique).
type Index struct {
	name   string
	id     []byte
	unique bool
	index  MultiKeyIndexer
}

// NewIndex constructs an index.
// Indexer calculates the index for an object.
// unique enforces a unique constraint on the index.
// refKey calculates the absolute dbkey for a ref.
func NewIndex(name string, indexer MultiKeyIndexer, unique bool) Index {
	if !isIndexName(name) {
		panic(fmt.Sprintf("Illegal index: %s", name))
	}
	// all indexes are stored with the "_i." prefix so they never collide
	// with a bucket
	return Index{
		name:   name,
		id:     append([]byte("_i."), name...),
		unique: unique,
		index:  indexer,
	}
}

// Name returns the name of this index.
func (i Index) Name() string {
	return i.name
}

// Keys returns the primary keys of all models indexed under given value.
func (i Index) Keys(db pairswap.ReadOnlyKVStore, value []byte) ([][]byte, error) {
	raw, err := db.Get(i.indexKey(value))
	if err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, err.Error())
	}
	if raw == nil {
		return nil, nil
	}
	if i.unique {
		return [][]byte{raw}, nil
	}
	var ref MultiRef
	if err := Unmarshal(raw, &ref); err != nil {
		return nil, err
	}
	return ref.Refs, nil
}

// Update modifies the index given model changes.
// prev is nil when the model is inserted, next is nil when the model is
// deleted.
func (i Index) Update(db pairswap.KVStore, pk []byte, prev, next Model) error {
	if prev == nil && next == nil {
		return errors.Wrap(errors.ErrHuman, "update requires at least one non-nil model")
	}

	var prevKeys, nextKeys [][]byte
	var err error
	if prev != nil {
		if prevKeys, err = i.index(prev); err != nil {
			return err
		}
	}
	if next != nil {
		if nextKeys, err = i.index(next); err != nil {
			return err
		}
	}

	for _, k := range prevKeys {
		if containsKey(nextKeys, k) {
			continue
		}
		if err := i.remove(db, k, pk); err != nil {
			return err
		}
	}
	for _, k := range nextKeys {
		if containsKey(prevKeys, k) {
			continue
		}
		if err := i.insert(db, k, pk); err != nil {
			return err
		}
	}
	return nil
}

func (i Index) indexKey(value []byte) []byte {
	out := make([]byte, 0, len(i.id)+1+len(value))
	out = append(out, i.id...)
	out = append(out, ':')
	return append(out, value...)
}

func (i Index) insert(db pairswap.KVStore, value, pk []byte) error {
	key := i.indexKey(value)
	raw, err := db.Get(key)
	if err != nil {
		return errors.Wrap(errors.ErrDatabase, err.Error())
	}

	if i.unique {
		if raw != nil {
			return errors.Wrapf(errors.ErrDuplicate, "%s index", i.name)
		}
		return db.Set(key, pk)
	}

	var ref MultiRef
	if raw != nil {
		if err := Unmarshal(raw, &ref); err != nil {
			return err
		}
	}
	if err := ref.Add(pk); err != nil {
		return err
	}
	val, err := Marshal(&ref)
	if err != nil {
		return err
	}
	return db.Set(key, val)
}

func (i Index) remove(db pairswap.KVStore, value, pk []byte) error {
	key := i.indexKey(value)
	raw, err := db.Get(key)
	if err != nil {
		return errors.Wrap(errors.ErrDatabase, err.Error())
	}
	if raw == nil {
		return errors.Wrapf(errors.ErrNotFound, "%s index", i.name)
	}

	if i.unique {
		if !bytes.Equal(raw, pk) {
			return errors.Wrapf(errors.ErrInvalidState, "%s index points elsewhere", i.name)
		}
		return db.Delete(key)
	}

	var ref MultiRef
	if err := Unmarshal(raw, &ref); err != nil {
		return err
	}
	if err := ref.Remove(pk); err != nil {
		return err
	}
	if len(ref.Refs) == 0 {
		return db.Delete(key)
	}
	val, err := Marshal(&ref)
	if err != nil {
		return err
	}
	return db.Set(key, val)
}

func containsKey(keys [][]byte, k []byte) bool {
	for _, x := range keys {
		if bytes.Equal(x, k) {
			return true
		}
	}
	return false
}
