// Package server provides HTTP routing, middleware, and the journal entry API.
//
// # Router Infrastructure
//
// The [Router] interface defines HTTP routing with middleware support.
// [BasicRouter] builds on [http.ServeMux], using Go's method-qualified
// patterns ("POST /api/journal_entries/{$}") and path wildcards for dispatch.
//
// [Middleware] applies in registration order: the first middleware added is
// the outermost wrapper.
//
// # Sessions
//
// [SessionStore] issues an opaque cookie handle mapping to a user id. A
// request with no (or an unknown) handle is bound lazily to the default
// user, created on first use. The resolved identity travels as an explicit
// [SessionContext] in the request context. Sessions scope which entries are
// visible; they do not authenticate anyone.
//
// # Entry API
//
// [EntryHandler] serves the CRUD and date-query endpoints:
//
//	GET    /                                  → liveness message
//	POST   /api/journal_entries/              → create (partial payload), 201
//	GET    /api/journal_entries/              → list session user's entries
//	GET    /api/journal_entries/{entry_id}/   → single entry
//	POST   /api/journal_entries/{entry_id}/   → analysis update (all four fields)
//	DELETE /api/journal_entries/{entry_id}/   → delete, returns final snapshot
//	GET    /api/journal_entries/date/?date=   → entries within one UTC day
//
// Validation failures return 400, absent entries 404, entries owned by a
// different session user 403, store failures 500. Every error body is
// {"error": message}.
package server
