package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustGet(t *testing.T, db ReadOnlyKVStore, key []byte) []byte {
	t.Helper()
	v, err := db.Get(key)
	require.NoError(t, err)
	return v
}

func mustHas(t *testing.T, db ReadOnlyKVStore, key []byte) bool {
	t.Helper()
	ok, err := db.Has(key)
	require.NoError(t, err)
	return ok
}

// TestBTreeCacheGetSet does basic sanity checks on our cache
func TestBTreeCacheGetSet(t *testing.T) {
	// devnull is a black hole... just to keep our types proper
	devnull := BTreeCacheable{EmptyKVStore{}}

	// base is the root of our data, we can layer on top and
	// all queries should work
	base := devnull.CacheWrap()

	k, v := []byte("french"), []byte("fry")
	assert.Nil(t, mustGet(t, base, k))
	assert.False(t, mustHas(t, base, k))
	require.NoError(t, base.Set(k, v))
	assert.Equal(t, v, mustGet(t, base, k))
	assert.True(t, mustHas(t, base, k))

	// now layer another btree on top and make sure that we get
	// base data
	cache := base.CacheWrap()
	assert.Equal(t, v, mustGet(t, cache, k))

	// writing more data is only visible in the cache
	k2, v2 := []byte("LA"), []byte("Dodgers")
	require.NoError(t, cache.Set(k2, v2))
	assert.Equal(t, v2, mustGet(t, cache, k2))
	assert.Nil(t, mustGet(t, base, k2))
	assert.False(t, mustHas(t, base, k2))

	// we can write the cache to the base layer...
	require.NoError(t, cache.Write())
	assert.Equal(t, v, mustGet(t, base, k))
	assert.Equal(t, v2, mustGet(t, base, k2))

	// we can discard one
	k3, v3 := []byte("Bayern"), []byte("Munich")
	c2 := base.CacheWrap()
	require.NoError(t, c2.Set(k3, v3))
	c2.Discard()
	assert.Nil(t, mustGet(t, base, k3))

	// a discarded cache does not write anything
	require.NoError(t, c2.Write())
	assert.Nil(t, mustGet(t, base, k3))

	// and commit another
	c3 := base.CacheWrap()
	require.NoError(t, c3.Delete(k))
	assert.False(t, mustHas(t, c3, k))
	assert.True(t, mustHas(t, base, k))
	require.NoError(t, c3.Write())

	assert.Nil(t, mustGet(t, base, k))
	assert.Equal(t, v2, mustGet(t, base, k2))
}

func TestCacheWrapAnyStore(t *testing.T) {
	db := MemStore()

	// Cacheable store provides its own wrapper.
	c := CacheWrap(db)
	require.NoError(t, c.Set([]byte("a"), []byte("1")))
	assert.Nil(t, mustGet(t, db, []byte("a")))
	require.NoError(t, c.Write())
	assert.Equal(t, []byte("1"), mustGet(t, db, []byte("a")))

	// Non cacheable stores are wrapped with a btree.
	plain := plainStore{db}
	c = CacheWrap(plain)
	require.NoError(t, c.Set([]byte("b"), []byte("2")))
	assert.Nil(t, mustGet(t, db, []byte("b")))
	c.Discard()
	require.NoError(t, c.Write())
	assert.Nil(t, mustGet(t, db, []byte("b")))

	c = CacheWrap(plain)
	require.NoError(t, c.Set([]byte("b"), []byte("3")))
	require.NoError(t, c.Write())
	assert.Equal(t, []byte("3"), mustGet(t, db, []byte("b")))
}

// plainStore hides the CacheWrap method of the wrapped store.
type plainStore struct {
	KVStore
}

func TestNonAtomicBatch(t *testing.T) {
	db := MemStore()
	b := NewNonAtomicBatch(db)
	require.NoError(t, b.Set([]byte("x"), []byte("y")))
	require.NoError(t, b.Delete([]byte("z")))
	assert.Len(t, b.ShowOps(), 2)
	assert.Nil(t, mustGet(t, db, []byte("x")))

	require.NoError(t, b.Write())
	assert.Len(t, b.ShowOps(), 0)
	assert.Equal(t, []byte("y"), mustGet(t, db, []byte("x")))
}
