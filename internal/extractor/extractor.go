package extractor

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"internship-watcher/helpers"
	"internship-watcher/logger"
	apperr "internship-watcher/pkg/errors"
	"internship-watcher/services/cache"
)

// Descriptions are truncated so a flaky rich-text render cannot bloat the
// notification body.
const maxDescriptionLen = 500

// Options configures optional extractor behavior
type Options struct {
	// Strategies overrides DefaultStrategies when non-nil
	Strategies []Strategy

	// CacheSvc enables the cross-process fetch cooldown when set
	CacheSvc  cache.CacheService
	CacheKey  string
	BlockTime time.Duration
}

// PageExtractor extracts listings from the target page using a prioritized
// list of structural strategies
type PageExtractor struct {
	targetURL  string
	renderer   Renderer
	strategies []Strategy
	cacheSvc   cache.CacheService
	cacheKey   string
	blockTime  time.Duration
	log        *logger.Logger
}

var _ Extractor = (*PageExtractor)(nil)

// New creates an extractor for the given page
func New(targetURL string, renderer Renderer, opts Options) *PageExtractor {
	strategies := opts.Strategies
	if strategies == nil {
		strategies = DefaultStrategies()
	}
	return &PageExtractor{
		targetURL:  targetURL,
		renderer:   renderer,
		strategies: strategies,
		cacheSvc:   opts.CacheSvc,
		cacheKey:   opts.CacheKey,
		blockTime:  opts.BlockTime,
		log:        logger.ForExtractor(),
	}
}

// Extract renders the target page and parses it into listings, in page
// order. No strategy matching any node is a valid outcome (no internships
// currently posted) and returns an empty slice, not an error.
func (e *PageExtractor) Extract(ctx context.Context) ([]Listing, error) {
	// Honor a cooldown left behind by an earlier rate-limited run
	if e.cacheSvc != nil && e.cacheKey != "" {
		if _, err := e.cacheSvc.Get(e.cacheKey); err == nil {
			return nil, apperr.NewRateLimit(e.blockTime)
		}
	}

	html, err := e.renderer.Render(ctx, e.targetURL)
	if err != nil {
		if errors.Is(err, helpers.ErrRateLimited) && e.cacheSvc != nil && e.cacheKey != "" {
			if setErr := e.cacheSvc.Set(e.cacheKey, []byte(fmt.Sprintf("%d", e.blockTime/time.Second)), e.blockTime); setErr != nil {
				e.log.Warn().Err(setErr).Msg("Failed to set fetch cooldown")
			}
		}
		return nil, apperr.NewExtraction("failed to render "+e.targetURL, err)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, apperr.NewExtraction("failed to parse rendered page", err)
	}

	nodes, strategy, ok := e.findCandidates(doc)
	if !ok {
		e.log.Debug().Msg("No strategy matched any node")
		return []Listing{}, nil
	}

	base, err := url.Parse(e.targetURL)
	if err != nil {
		base = nil
	}

	// Nodes are processed in document order so the notification preserves
	// the page's ordering.
	listings := make([]Listing, 0, nodes.Length())
	nodes.Each(func(_ int, s *goquery.Selection) {
		if listing, ok := parseListing(s, strategy, base); ok {
			listings = append(listings, listing)
		}
	})

	e.log.Debug().
		Str("strategy", strategy.Name).
		Int("nodes", nodes.Length()).
		Int("listings", len(listings)).
		Msg("Extraction complete")

	return listings, nil
}

// findCandidates tries each strategy in priority order and returns the
// selection of the first one that yields at least one node. Results are
// never merged across strategies; overlapping selectors would double-count.
func (e *PageExtractor) findCandidates(doc *goquery.Document) (*goquery.Selection, Strategy, bool) {
	for _, strategy := range e.strategies {
		sel := doc.Find(strategy.Container)
		if sel.Length() > 0 {
			return sel, strategy, true
		}
	}
	return nil, Strategy{}, false
}

// parseListing extracts one listing from a candidate node. Missing
// sub-fields default to empty strings; only a node with neither a title nor
// a detail link is dropped, since nothing stable identifies it.
func parseListing(s *goquery.Selection, strategy Strategy, base *url.URL) (Listing, bool) {
	title := helpers.CollapseWhitespace(firstText(s, strategy.Title))
	company := helpers.CollapseWhitespace(firstText(s, strategy.Company))
	location := helpers.CollapseWhitespace(firstText(s, strategy.Location))
	description := helpers.Truncate(helpers.CollapseWhitespace(firstText(s, strategy.Description)), maxDescriptionLen)

	var detailURL string
	if link := s.Find(strategy.Link).First(); link.Length() > 0 {
		if href, exists := link.Attr("href"); exists {
			detailURL = resolveURL(base, strings.TrimSpace(href))
		}
	}

	if title == "" && detailURL == "" {
		return Listing{}, false
	}

	return Listing{
		Identifier:  identify(detailURL, title, company, location),
		Title:       title,
		Company:     company,
		Location:    location,
		Description: description,
		DetailURL:   detailURL,
	}, true
}

// firstText returns the trimmed text of the first element matching selector
func firstText(s *goquery.Selection, selector string) string {
	if selector == "" {
		return ""
	}
	sel := s.Find(selector).First()
	if sel.Length() == 0 {
		return ""
	}
	return sel.Text()
}

// resolveURL resolves href against the page URL
func resolveURL(base *url.URL, href string) string {
	if href == "" {
		return ""
	}
	ref, err := url.Parse(href)
	if err != nil {
		return ""
	}
	if base == nil {
		return ref.String()
	}
	return base.ResolveReference(ref).String()
}

// identify derives the stable identifier for a listing: the detail URL when
// present, otherwise a content hash over the descriptive fields
func identify(detailURL, title, company, location string) string {
	if detailURL != "" {
		return detailURL
	}
	sum := sha256.Sum256([]byte(title + "|" + company + "|" + location))
	return hex.EncodeToString(sum[:16])
}
