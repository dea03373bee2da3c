/*
Package app wires extensions into a runnable application.

A Router dispatches messages by path to the handlers registered by every
extension. A Runner owns the committed store and executes transactions one
at a time, each inside its own cache wrap, so that a failed transaction
never leaves partial writes behind. Genesis files are loaded with
LoadGenesis and applied through ChainInitializers.
*/
package app
