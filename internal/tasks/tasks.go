package tasks

import (
	"context"
	"fmt"

	"github.com/yapjournal/yap/internal/models"
	"github.com/yapjournal/yap/internal/services"
)

// CaptureResult contains all data from a full capture run.
type CaptureResult struct {
	Entry        *models.JournalEntry // Final enriched entry
	RecordingKey string               // Object key in blob storage (empty when uploads are disabled)
	RecordingURL string               // URL stored on the entry
	Transcript   string               // Raw transcript text
	Uploaded     bool                 // Whether the recording left the machine
}

// EntryWriter is the slice of the journal API the pipeline needs.
type EntryWriter interface {
	CreateEntry(ctx context.Context, draft models.EntryDraft) (*models.JournalEntry, error)
	UpdateAnalysis(ctx context.Context, entryID int64, analysis models.EntryAnalysis) (*models.JournalEntry, error)
}

// RecordingUploader pushes a local audio file into blob storage.
type RecordingUploader interface {
	Upload(ctx context.Context, path string) (key, url string, err error)
}

// CaptureEngine defines the voice-note pipeline.
type CaptureEngine interface {
	// Capture runs the full pipeline for one local recording: validate,
	// upload, create entry, transcribe, enrich, save analysis.
	Capture(ctx context.Context, progress chan<- ProgressUpdate, audioPath string) (*CaptureResult, error)
}

// JournalEngine implements [CaptureEngine]. The uploader is optional; when
// nil the entry records the local path and the transcription proxy must be
// able to reach it by that path.
type JournalEngine struct {
	entries     EntryWriter
	transcriber services.Transcriber
	enricher    services.Enricher
	uploader    RecordingUploader
}

// NewJournalEngine creates a JournalEngine with the provided collaborators.
func NewJournalEngine(entries EntryWriter, transcriber services.Transcriber, enricher services.Enricher, uploader RecordingUploader) *JournalEngine {
	return &JournalEngine{
		entries:     entries,
		transcriber: transcriber,
		enricher:    enricher,
		uploader:    uploader,
	}
}

// captureSteps is the total step count reported in progress updates.
const captureSteps = 6

// sendProgress sends a progress update through the channel without blocking.
// Uses select with default so progress reporting never stalls the pipeline.
func (e *JournalEngine) sendProgress(progress chan<- ProgressUpdate, update ProgressUpdate) {
	if progress == nil {
		return
	}
	select {
	case progress <- update:
	default:
	}
}

// Capture runs the full voice-note pipeline. Fail-fast: each phase depends on
// the previous one, so the first error aborts the run. An entry created
// before a later phase fails is left in place with its sentinel fields; the
// enrichment can be retried against it later.
func (e *JournalEngine) Capture(ctx context.Context, progress chan<- ProgressUpdate, audioPath string) (*CaptureResult, error) {
	result := &CaptureResult{}

	e.sendProgress(progress, validateAudioUpdate(1, captureSteps, audioPath))
	if err := services.ValidateAudioFile(audioPath); err != nil {
		return nil, err
	}

	recordingURL := audioPath
	if e.uploader != nil {
		e.sendProgress(progress, uploadRecordingUpdate(2, captureSteps))
		key, url, err := e.uploader.Upload(ctx, audioPath)
		if err != nil {
			return nil, fmt.Errorf("upload failed: %w", err)
		}
		result.RecordingKey = key
		result.Uploaded = true
		recordingURL = url
		e.sendProgress(progress, uploadedRecordingUpdate(2, captureSteps, url))
	}
	result.RecordingURL = recordingURL

	e.sendProgress(progress, createEntryUpdate(3, captureSteps, nil))
	entry, err := e.entries.CreateEntry(ctx, models.EntryDraft{RecordingURL: recordingURL})
	if err != nil {
		return nil, fmt.Errorf("entry creation failed: %w", err)
	}
	result.Entry = entry
	e.sendProgress(progress, createEntryUpdate(3, captureSteps, entry))

	e.sendProgress(progress, transcribeUpdate(4, captureSteps))
	transcript, err := e.transcriber.TranscribeURL(ctx, recordingURL)
	if err != nil {
		return result, fmt.Errorf("transcription failed: %w", err)
	}
	result.Transcript = transcript

	e.sendProgress(progress, enrichUpdate(5, captureSteps))
	analysis, err := e.enricher.Analyze(ctx, transcript)
	if err != nil {
		return result, fmt.Errorf("enrichment failed: %w", err)
	}

	e.sendProgress(progress, saveAnalysisUpdate(6, captureSteps, nil))
	updated, err := e.entries.UpdateAnalysis(ctx, entry.EntryID, analysis)
	if err != nil {
		return result, fmt.Errorf("saving analysis failed: %w", err)
	}
	result.Entry = updated
	e.sendProgress(progress, saveAnalysisUpdate(6, captureSteps, updated))

	return result, nil
}

// Enrich re-runs transcription and enrichment for an existing entry, using
// the recording URL already stored on it. Lets a failed capture be resumed
// without re-uploading audio.
func (e *JournalEngine) Enrich(ctx context.Context, progress chan<- ProgressUpdate, entry *models.JournalEntry) (*models.JournalEntry, error) {
	if entry.RecordingURL == models.FieldUnset {
		return nil, fmt.Errorf("entry %d has no recording to transcribe", entry.EntryID)
	}

	e.sendProgress(progress, transcribeUpdate(1, 3))
	transcript, err := e.transcriber.TranscribeURL(ctx, entry.RecordingURL)
	if err != nil {
		return nil, fmt.Errorf("transcription failed: %w", err)
	}

	e.sendProgress(progress, enrichUpdate(2, 3))
	analysis, err := e.enricher.Analyze(ctx, transcript)
	if err != nil {
		return nil, fmt.Errorf("enrichment failed: %w", err)
	}

	e.sendProgress(progress, saveAnalysisUpdate(3, 3, nil))
	updated, err := e.entries.UpdateAnalysis(ctx, entry.EntryID, analysis)
	if err != nil {
		return nil, fmt.Errorf("saving analysis failed: %w", err)
	}
	e.sendProgress(progress, saveAnalysisUpdate(3, 3, updated))

	return updated, nil
}
