package dedup

import (
	"time"

	"github.com/google/uuid"
)

// RunSummary is what the -summary flag writes: one entry per processed directory.
type RunSummary struct {
	RunID       string            `json:"run_id"`
	Mode        string            `json:"mode"`
	DryRun      bool              `json:"dry_run"`
	FinishedAt  time.Time         `json:"finished_at"`
	Unique      int               `json:"unique"`
	Deleted     int               `json:"deleted"`
	Directories []DirectoryResult `json:"directories"`
}

// NewRunSummary totals results under a fresh run id.
func NewRunSummary(mode string, dryRun bool, results []DirectoryResult) RunSummary {
	summary := RunSummary{
		RunID:       uuid.NewString(),
		Mode:        mode,
		DryRun:      dryRun,
		FinishedAt:  time.Now().UTC(),
		Directories: results,
	}
	for _, result := range results {
		summary.Unique += len(result.Texts)
		summary.Deleted += result.Deleted
	}
	return summary
}
