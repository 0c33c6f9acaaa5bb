// Package models defines domain entities and payload types for the yap journaling service.
//
// Two categories of types live here:
//
// 1. Persistent entities, owned by the repositories package:
//   - [User] : account rows, one default user bootstrapped lazily
//   - [JournalEntry] : one journal record tying a recording to its derived text
//
// 2. Request payloads, decoded at the API boundary:
//   - [EntryDraft] : partial creation payload, sentinel defaults applied by Materialize
//   - [EntryAnalysis] : the all-or-nothing enrichment update
//
// Entry identifiers are never recycled, even across deletes, so links held by
// external clients stay stable. Serialization follows the struct JSON tags;
// timestamps render as ISO-8601 via the standard time.Time encoding.
package models
