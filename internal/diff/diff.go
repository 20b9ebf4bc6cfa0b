// Package diff computes the listings that have not been notified yet.
package diff

import (
	"internship-watcher/internal/extractor"
	"internship-watcher/services/store"
)

// Listings returns, in the same relative order as the input, exactly those
// listings whose identifier is absent from seen. Pure: neither the input
// slice nor the seen-set is mutated; the orchestrator updates the set after
// diffing completes.
func Listings(records []extractor.Listing, seen *store.SeenSet) []extractor.Listing {
	fresh := make([]extractor.Listing, 0, len(records))
	for _, record := range records {
		if !seen.Contains(record.Identifier) {
			fresh = append(fresh, record)
		}
	}
	return fresh
}
