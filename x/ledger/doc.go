/*
Package ledger implements the token account ledger that escrow deposits
and releases move funds on.

Every account holds a balance of exactly one token and is controlled by a
single owner address. An owner can be a key holder or a program derived
authority, such as an escrow delegate. Transfers must be authorized by the
owner of the source account.
*/
package ledger
