package server

import (
	"net/http"
)

// Middleware wraps an http.Handler and returns a new http.Handler with
// additional behavior (logging, panic recovery, session resolution).
type Middleware func(http.Handler) http.Handler

// Route pairs a method-qualified [http.ServeMux] pattern (e.g.
// "GET /api/journal_entries/{$}") with the function serving it.
type Route struct {
	Pattern string
	Handler http.HandlerFunc
}

// Handler is implemented by components exposing a group of related routes,
// letting route definitions live next to the code serving them.
type Handler interface {
	Routes() []Route
}

// Router registers handlers and applies middleware to everything it serves.
type Router interface {
	Use(middleware ...Middleware)                     // Use appends middleware to the stack
	Handle(pattern string, handler http.Handler)      // Handle registers a single pattern
	Mount(handler Handler)                            // Mount registers every route of a Handler
	ServeHTTP(w http.ResponseWriter, r *http.Request) // ServeHTTP implements http.Handler
}
