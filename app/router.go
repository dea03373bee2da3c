package app

import (
	"fmt"

	"github.com/iov-one/pairswap"
	"github.com/iov-one/pairswap/errors"
)

// Router allows us to register many handlers with different paths and then
// direct each message to the proper handler.
//
// Minimal interface modeled after net/http.ServeMux
type Router struct {
	routes map[string]pairswap.Handler
}

var _ pairswap.Registry = (*Router)(nil)
var _ pairswap.Handler = (*Router)(nil)

// NewRouter returns a new empty router instance.
func NewRouter() *Router {
	return &Router{
		routes: make(map[string]pairswap.Handler),
	}
}

// Handle adds a new Handler for the given message path. It panics if the
// path is not valid or a handler is already registered for it.
func (r *Router) Handle(m pairswap.Msg, h pairswap.Handler) {
	path := m.Path()
	if !pairswap.ValidPath(path) {
		panic(fmt.Sprintf("invalid path: %q", path))
	}
	if _, ok := r.routes[path]; ok {
		panic(fmt.Sprintf("re-registering route: %q", path))
	}
	r.routes[path] = h
}

// handler returns the registered Handler for this path. If no path is
// found, returns a noSuchPath Handler. Always returns a non-nil Handler.
func (r *Router) handler(path string) pairswap.Handler {
	if h, ok := r.routes[path]; ok {
		return h
	}
	return notFoundHandler(path)
}

// Check dispatches to the proper handler based on path.
func (r *Router) Check(ctx pairswap.Context, db pairswap.KVStore, tx pairswap.Tx) (*pairswap.CheckResult, error) {
	msg, err := tx.GetMsg()
	if err != nil {
		return nil, errors.Wrap(err, "cannot load msg")
	}
	return r.handler(msg.Path()).Check(ctx, db, tx)
}

// Deliver dispatches to the proper handler based on path.
func (r *Router) Deliver(ctx pairswap.Context, db pairswap.KVStore, tx pairswap.Tx) (*pairswap.DeliverResult, error) {
	msg, err := tx.GetMsg()
	if err != nil {
		return nil, errors.Wrap(err, "cannot load msg")
	}
	return r.handler(msg.Path()).Deliver(ctx, db, tx)
}

// notFoundHandler always returns ErrNotFound error regardless of the
// arguments provided.
type notFoundHandler string

func (path notFoundHandler) Check(pairswap.Context, pairswap.KVStore, pairswap.Tx) (*pairswap.CheckResult, error) {
	return nil, errors.Wrapf(errors.ErrNotFound, "no handler for message path %q", string(path))
}

func (path notFoundHandler) Deliver(pairswap.Context, pairswap.KVStore, pairswap.Tx) (*pairswap.DeliverResult, error) {
	return nil, errors.Wrapf(errors.ErrNotFound, "no handler for message path %q", string(path))
}
