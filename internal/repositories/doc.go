// Package repositories is the persistence layer for users and journal entries.
//
// It is the sole writer to the underlying SQLite database: the HTTP layer and
// the capture pipeline only reach rows through these repositories. Each
// operation commits independently; there are no cross-operation transactions.
//
// Timestamps are stored in UTC. The date-window query interprets its day
// argument as a UTC calendar day, inclusive of 23:59:59 and exclusive of the
// following midnight.
//
// Absent rows surface as [shared.ErrEntryNotFound] / [shared.ErrUserNotFound]
// so callers can branch on them with errors.Is; they are never swallowed.
package repositories
