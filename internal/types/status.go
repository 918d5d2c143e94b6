package types

// Resume lifecycle statuses. Transitions only move forward along
// processing -> {analyzing, generating} -> {analyzed, completed}, except for
// an explicit user-triggered regenerate which resets to generating. The
// extraction task alone owns the terminal transition; the analysis task never
// writes status.
const (
	StatusUploading  = "uploading"
	StatusProcessing = "processing"
	StatusAnalyzing  = "analyzing"
	StatusAnalyzed   = "analyzed"
	StatusGenerating = "generating"
	StatusCompleted  = "completed"
	StatusFailed     = "failed"
)

// TerminalStatuses are the statuses after which clients stop polling.
var TerminalStatuses = []string{StatusAnalyzed, StatusCompleted, StatusFailed}

// IsTerminalStatus reports whether a record in this status will receive no
// further background updates.
func IsTerminalStatus(status string) bool {
	for _, s := range TerminalStatuses {
		if s == status {
			return true
		}
	}
	return false
}
