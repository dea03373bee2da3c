package orm

import (
	"reflect"

	"github.com/iov-one/pairswap"
	"github.com/iov-one/pairswap/errors"
)

// ModelBucket is implemented by buckets that operates on Models rather than
// Objects.
type ModelBucket interface {
	// One query the database for a single model instance. Lookup is done
	// by the primary index key. Result is loaded into given destination
	// model.
	// This method returns ErrNotFound if the entity does not exist in the
	// database.
	// If given model type cannot be used to contain stored entity, ErrType
	// is returned.
	One(db pairswap.ReadOnlyKVStore, key []byte, dest Model) error

	// Has returns nil if an entity with given primary key value exists. It
	// returns ErrNotFound if no entity can be found.
	Has(db pairswap.KVStore, key []byte) error

	// ByIndex returns the primary keys of all entities that are indexed
	// under given value by the named index.
	ByIndex(db pairswap.ReadOnlyKVStore, indexName string, value []byte) ([][]byte, error)

	// Put saves given model in the database. Before inserting into
	// database, model is validated using its Validate method.
	// Using a key that already exists in the database overwrites the
	// stored entity and updates all indexes.
	Put(db pairswap.KVStore, key []byte, m Model) error

	// Delete removes an entity with given primary key from the database.
	// It returns ErrNotFound if an entity with given key does not exist.
	Delete(db pairswap.KVStore, key []byte) error
}

// ModelBucketOption is implemented by any function that can configure
// ModelBucket during creation.
type ModelBucketOption func(mb *modelBucket)

// WithIndex configures the bucket to build an index with given name. All
// entities stored in the bucket are indexed using value returned by the
// indexer function. If an index is unique, there can be only one entity
// referenced per index value.
func WithIndex(name string, indexer MultiKeyIndexer, unique bool) ModelBucketOption {
	return func(mb *modelBucket) {
		mb.indexes[name] = NewIndex(mb.b.Name()+"_"+name, indexer, unique)
	}
}

// NewModelBucket returns a ModelBucket instance. This implementation
// relies on a bucket instance. Final implementation should operate directly
// on the KVStore instead.
func NewModelBucket(name string, m Model, opts ...ModelBucketOption) ModelBucket {
	tp := reflect.TypeOf(m)
	if tp.Kind() != reflect.Ptr {
		panic("model must be a pointer")
	}
	mb := &modelBucket{
		b:       NewBucket(name),
		model:   tp.Elem(),
		indexes: make(map[string]Index),
	}
	for _, fn := range opts {
		fn(mb)
	}
	return mb
}

type modelBucket struct {
	b       Bucket
	model   reflect.Type
	indexes map[string]Index
}

func (mb *modelBucket) One(db pairswap.ReadOnlyKVStore, key []byte, dest Model) error {
	if err := mb.checkType(dest); err != nil {
		return err
	}
	raw, err := db.Get(mb.b.DBKey(key))
	if err != nil {
		return errors.Wrap(errors.ErrDatabase, err.Error())
	}
	if raw == nil {
		return errors.Wrapf(errors.ErrNotFound, "%s %X", mb.b.Name(), key)
	}
	return Unmarshal(raw, dest)
}

func (mb *modelBucket) Has(db pairswap.KVStore, key []byte) error {
	if len(key) == 0 {
		return errors.Wrap(errors.ErrNotFound, "empty key")
	}
	ok, err := db.Has(mb.b.DBKey(key))
	if err != nil {
		return errors.Wrap(errors.ErrDatabase, err.Error())
	}
	if !ok {
		return errors.Wrapf(errors.ErrNotFound, "%s %X", mb.b.Name(), key)
	}
	return nil
}

func (mb *modelBucket) ByIndex(db pairswap.ReadOnlyKVStore, indexName string, value []byte) ([][]byte, error) {
	idx, ok := mb.indexes[indexName]
	if !ok {
		return nil, errors.Wrapf(errors.ErrHuman, "%s bucket has no %q index", mb.b.Name(), indexName)
	}
	return idx.Keys(db, value)
}

func (mb *modelBucket) Put(db pairswap.KVStore, key []byte, m Model) error {
	if err := mb.checkType(m); err != nil {
		return err
	}
	if len(key) == 0 {
		return errors.Wrap(errors.ErrEmpty, "key")
	}
	if err := m.Validate(); err != nil {
		return errors.Wrap(err, "invalid model")
	}

	prev, err := mb.load(db, key)
	if err != nil {
		return err
	}
	for _, idx := range mb.indexes {
		if err := idx.Update(db, key, prev, m); err != nil {
			return errors.Wrapf(err, "cannot update %q index", idx.Name())
		}
	}

	raw, err := Marshal(m)
	if err != nil {
		return err
	}
	if err := db.Set(mb.b.DBKey(key), raw); err != nil {
		return errors.Wrap(errors.ErrDatabase, err.Error())
	}
	return nil
}

func (mb *modelBucket) Delete(db pairswap.KVStore, key []byte) error {
	prev, err := mb.load(db, key)
	if err != nil {
		return err
	}
	if prev == nil {
		return errors.Wrapf(errors.ErrNotFound, "%s %X", mb.b.Name(), key)
	}
	for _, idx := range mb.indexes {
		if err := idx.Update(db, key, prev, nil); err != nil {
			return errors.Wrapf(err, "cannot update %q index", idx.Name())
		}
	}
	if err := db.Delete(mb.b.DBKey(key)); err != nil {
		return errors.Wrap(errors.ErrDatabase, err.Error())
	}
	return nil
}

// load returns the currently stored model or nil if there is none.
func (mb *modelBucket) load(db pairswap.ReadOnlyKVStore, key []byte) (Model, error) {
	raw, err := db.Get(mb.b.DBKey(key))
	if err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, err.Error())
	}
	if raw == nil {
		return nil, nil
	}
	m := reflect.New(mb.model).Interface().(Model)
	if err := Unmarshal(raw, m); err != nil {
		return nil, err
	}
	return m, nil
}

func (mb *modelBucket) checkType(m Model) error {
	tp := reflect.TypeOf(m)
	if tp == nil || tp.Kind() != reflect.Ptr || tp.Elem() != mb.model {
		return errors.Wrapf(errors.ErrInvalidType, "%s bucket stores %s, got %T", mb.b.Name(), mb.model.Name(), m)
	}
	return nil
}
