/*
Package coin defines the token amount type used by ledger accounts and
escrow obligations.

A coin is an integer amount of the smallest indivisible unit of a token,
identified by its ticker. Arithmetic never wraps: overflows and
underflows are reported as errors.
*/
package coin
