/*
Package x contains helpers shared by the extensions. Each extension lives
in its own subpackage, ie. x/ledger or x/escrow.
*/
package x
