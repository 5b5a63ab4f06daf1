// Package middleware provides the HTTP middleware the gateway is wired with:
// request IDs, CORS, and a structured request logger.
package middleware

import "net/http"

// Middleware wraps an http.Handler to modify or enhance its behavior.
type Middleware func(http.Handler) http.Handler

// Chain applies middleware to a handler in the order provided. The first
// middleware in the list is the outermost wrapper (executed first).
func Chain(h http.Handler, middlewares ...Middleware) http.Handler {
	for i := len(middlewares) - 1; i >= 0; i-- {
		h = middlewares[i](h)
	}
	return h
}
