// Package httpmiddleware holds the HTTP middleware chain shared by the API
// server: recovery, CORS, rate limiting, request IDs, logging, and tracing.
package httpmiddleware

import "net/http"

// Middleware wraps an http.Handler with extra behaviour.
type Middleware func(http.Handler) http.Handler

// Wrap applies middlewares so that the first listed one sees the request
// first.
func Wrap(h http.Handler, mw ...Middleware) http.Handler {
	for i := len(mw) - 1; i >= 0; i-- {
		h = mw[i](h)
	}
	return h
}
