package tasks

import (
	"fmt"

	"github.com/yapjournal/yap/internal/models"
)

// ProgressUpdate represents a progress event during a capture pipeline run.
//
// Used to send real-time updates to the CLI or UI layer for display.
type ProgressUpdate struct {
	Phase   Phase  // Pipeline phase
	Step    int    // Current step number
	Total   int    // Total steps in the pipeline
	Message string // Human-readable message for display
	Data    any    // Optional phase-specific data for advanced UIs
}

// Pipeline phase enumeration
type Phase int

const (
	ValidateAudio Phase = iota
	UploadRecording
	CreateEntry
	Transcribe
	Enrich
	SaveAnalysis
)

func (p Phase) String() string {
	switch p {
	case ValidateAudio:
		return "validate_audio"
	case UploadRecording:
		return "upload_recording"
	case CreateEntry:
		return "create_entry"
	case Transcribe:
		return "transcribe"
	case Enrich:
		return "enrich"
	case SaveAnalysis:
		return "save_analysis"
	default:
		return ""
	}
}

func validateAudioUpdate(step, total int, path string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ValidateAudio,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("Checking recording %s...", path),
	}
}

func uploadRecordingUpdate(step, total int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   UploadRecording,
		Step:    step,
		Total:   total,
		Message: "Uploading recording to blob storage...",
	}
}

func uploadedRecordingUpdate(step, total int, url string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   UploadRecording,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("Recording stored at %s", url),
	}
}

func createEntryUpdate(step, total int, entry *models.JournalEntry) ProgressUpdate {
	if entry == nil {
		return ProgressUpdate{
			Phase:   CreateEntry,
			Step:    step,
			Total:   total,
			Message: "Creating journal entry...",
		}
	}
	return ProgressUpdate{
		Phase:   CreateEntry,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("Entry created (ID: %d)", entry.EntryID),
		Data:    entry,
	}
}

func transcribeUpdate(step, total int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   Transcribe,
		Step:    step,
		Total:   total,
		Message: "Transcribing recording...",
	}
}

func enrichUpdate(step, total int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   Enrich,
		Step:    step,
		Total:   total,
		Message: "Generating title, summary and key insights...",
	}
}

func saveAnalysisUpdate(step, total int, entry *models.JournalEntry) ProgressUpdate {
	if entry == nil {
		return ProgressUpdate{
			Phase:   SaveAnalysis,
			Step:    step,
			Total:   total,
			Message: "Saving analysis to the entry...",
		}
	}
	return ProgressUpdate{
		Phase:   SaveAnalysis,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("Entry %d enriched: %s", entry.EntryID, entry.Title),
		Data:    entry,
	}
}
