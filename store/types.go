//nolint
package store

import "github.com/iov-one/pairswap"

// Move references for all storage types into this package
// for shorter names everywhere

type ReadOnlyKVStore = pairswap.ReadOnlyKVStore
type SetDeleter = pairswap.SetDeleter
type KVStore = pairswap.KVStore
type Batch = pairswap.Batch
type CacheableKVStore = pairswap.CacheableKVStore
type KVCacheWrap = pairswap.KVCacheWrap
type CommitKVStore = pairswap.CommitKVStore
type CommitID = pairswap.CommitID
