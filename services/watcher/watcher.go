package watcher

import (
	"context"
	"time"

	"internship-watcher/internal/diff"
	"internship-watcher/internal/extractor"
	"internship-watcher/logger"
	apperr "internship-watcher/pkg/errors"
	"internship-watcher/services/notifier"
	"internship-watcher/services/store"
)

// Watcher ties one invocation of the pipeline together:
// extract, diff, notify, persist, with failure isolation at each stage.
type Watcher struct {
	extractor extractor.Extractor
	store     store.Store
	notifier  notifier.Notifier

	// markFailedSeen controls whether new identifiers still enter the
	// seen-set when delivery fails. True: a failed notification is never
	// re-sent. False: the same batch is retried on the next run.
	markFailedSeen bool

	log *logger.Logger
}

// RunResult summarizes one run for the outcome log
type RunResult struct {
	Extracted   int
	New         int
	Notified    bool
	DeliveryErr error
	StoreWarn   error
}

// New creates a watcher over the given collaborators
func New(ext extractor.Extractor, st store.Store, not notifier.Notifier, markFailedSeen bool) *Watcher {
	return &Watcher{
		extractor:      ext,
		store:          st,
		notifier:       not,
		markFailedSeen: markFailedSeen,
		log:            logger.ForWatcher(),
	}
}

// RunOnce executes one complete run. Extraction failure aborts before any
// state mutation, so the next run diffs against an unchanged baseline.
// Delivery failure is degraded: the run still completes and persists per
// the configured policy. Persistence failure is fatal but leaves the prior
// durable state intact.
func (w *Watcher) RunOnce(ctx context.Context) (*RunResult, error) {
	result := &RunResult{}

	seen, err := w.store.Load()
	if err != nil {
		if !apperr.IsType(err, apperr.ErrorTypeStoreCorrupt) {
			return nil, err
		}
		// Continue against an empty baseline at the cost of a possible
		// one-time duplicate notification.
		result.StoreWarn = err
		w.log.Warn().Err(err).Msg("Seen-set unreadable, starting from empty baseline")
	}

	listings, err := w.extractor.Extract(ctx)
	if err != nil {
		return nil, err
	}
	result.Extracted = len(listings)

	fresh := diff.Listings(listings, seen)
	result.New = len(fresh)

	if len(fresh) > 0 {
		if err := w.notifier.Notify(ctx, notifier.Batch(fresh)); err != nil {
			result.DeliveryErr = err
			w.log.Error().Err(err).Int("new", len(fresh)).Msg("Notification delivery failed")
		} else {
			result.Notified = true
		}
	}

	if result.DeliveryErr == nil || w.markFailedSeen {
		// Every extracted identifier enters the set, not just the new
		// ones, so identifiers dropped from a corrupt baseline are
		// re-learned.
		for _, listing := range listings {
			seen.Add(listing.Identifier)
		}
	}

	if err := w.store.Save(seen); err != nil {
		return result, apperr.NewPersistence("failed to persist seen-set", err)
	}

	w.log.Info().
		Int("extracted", result.Extracted).
		Int("new", result.New).
		Bool("notified", result.Notified).
		Int("seen_total", seen.Len()).
		Msg("Run complete")

	return result, nil
}

// Start runs the pipeline immediately and then on every interval tick until
// the context is cancelled. Runs never overlap; each tick waits for the
// previous run to finish. For deployments driven by an external scheduler,
// call RunOnce instead.
func (w *Watcher) Start(ctx context.Context, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		if _, err := w.RunOnce(ctx); err != nil {
			w.log.Error().Err(err).Msg("Run failed")
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}
