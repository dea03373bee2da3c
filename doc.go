/*
Package pairswap defines the interfaces shared by all pairswap extensions:
addresses and conditions, storage, messages, handlers and the context
helpers used to pass block and logging information around.

Extensions (see x/) build on top of these contracts. The escrow extension
in x/escrow implements a two party asset exchange, where funds held in
escrow can only be moved by a keyless delegate derived from the escrow
record itself.

We pass context through context.Context between app, middleware, and
handlers. For every value XYZ of type T that we want to support in the
context there are two functions:

  WithXYZ(Context, T) Context
  GetXYZ(Context) (val T, ok bool)

WithXYZ panics if the value was previously set, to avoid lower level modules
overwriting the value (eg. height, chain id).
*/
package pairswap
