/*
Package escrow implements a two-party conditional asset exchange.

An escrow binds two participants, each obligated to deposit a required
amount of a token. A participant fulfills its obligation by depositing into
a holding account owned by the escrow delegate. Once both obligations are
fulfilled, the delegate releases each deposit to the counterparty.

The delegate is a keyless signing authority derived from the escrow base
and a derivation bump. No private key exists for it. Only this package can
place the delegate condition into a context, so only the escrow logic can
authorize movement of escrowed funds.
*/
package escrow
