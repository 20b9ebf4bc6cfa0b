package notifier

import (
	"context"

	"internship-watcher/internal/extractor"
)

// Batch is the set of listings to report in one email. Built once per run,
// never persisted; callers only invoke Notify with a non-empty batch.
type Batch []extractor.Listing

// Notifier delivers one notification summarizing all new listings of a run
type Notifier interface {
	// Notify makes exactly one delivery attempt; retry policy belongs to
	// the caller
	Notify(ctx context.Context, batch Batch) error
}
