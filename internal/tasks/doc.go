// Package tasks orchestrates the voice-note capture pipeline with real-time
// progress reporting.
//
// # Core Operations
//
// The [CaptureEngine] interface defines the pipeline:
//
//  1. [CaptureEngine.Capture] : Full recording → enriched entry run
//     - Validates the local audio file (size, format)
//     - Uploads it to blob storage when a store is configured
//     - Creates the journal entry with the recording URL
//     - Transcribes the recording through the speech-to-text proxy
//     - Generates title, summary and key insights from the transcript
//     - Saves the analysis back onto the entry
//
// [JournalEngine.Enrich] additionally re-runs transcription and enrichment
// for an existing entry so a partially failed capture can be resumed.
//
// # Progress Reporting
//
// All operations use non-blocking channels for progress updates.
//
// The [ProgressUpdate] struct contains phase, step counters, messages, and
// optional data for advanced UI rendering. Updates use select with default
// to prevent blocking.
//
// # Failure Semantics
//
// The pipeline is fail-fast, but an entry created before a later phase fails
// is kept: its text fields stay at their sentinel value and the run can be
// resumed with Enrich.
package tasks
