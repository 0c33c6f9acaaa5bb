// Package services contains HTTP clients for the external transcription and
// enrichment proxies, plus a typed client for the journal entry API itself.
//
// All clients accept a context on every call and translate upstream error
// bodies into wrapped sentinel errors from the shared package.
package services
