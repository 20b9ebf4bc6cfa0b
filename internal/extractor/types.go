package extractor

import "context"

// Listing represents one internship posting extracted from the target page.
// Two listings with equal Identifier are the same posting; the other fields
// may legitimately differ between renders.
type Listing struct {
	Identifier  string `json:"identifier"`
	Title       string `json:"title"`
	Company     string `json:"company"`
	Location    string `json:"location,omitempty"`
	Description string `json:"description,omitempty"`
	DetailURL   string `json:"detail_url,omitempty"`
}

// Extractor retrieves the current listings from a source
type Extractor interface {
	// Extract returns the listings in page order. An empty page yields an
	// empty slice and no error; a fetch or render failure yields an error.
	Extract(ctx context.Context) ([]Listing, error)
}

// Strategy describes one structural approach for locating listing nodes
// within the rendered page. Container selects candidate nodes; the other
// selectors extract sub-fields relative to each node.
type Strategy struct {
	Name        string
	Container   string
	Title       string
	Company     string
	Location    string
	Description string
	Link        string
}

// DefaultStrategies returns the prioritized strategy list for the target
// page. The page's markup is an unstable external contract, so each entry
// is a progressively more generic guess at the listing structure.
func DefaultStrategies() []Strategy {
	return []Strategy{
		{
			Name:        "data-attribute",
			Container:   "[data-internship-id]",
			Title:       ".title, h3, h2",
			Company:     ".company",
			Location:    ".location",
			Description: ".description",
			Link:        "a[href]",
		},
		{
			Name:        "internship-card",
			Container:   ".internship-card",
			Title:       ".title, h3, h2",
			Company:     ".company",
			Location:    ".location",
			Description: ".description, p",
			Link:        "a[href]",
		},
		{
			Name:        "generic-card",
			Container:   ".card",
			Title:       "h1, h2, h3, h4",
			Company:     ".company, .subtitle",
			Location:    ".location, .meta",
			Description: ".description, p",
			Link:        "a[href]",
		},
		{
			Name:        "article",
			Container:   "article",
			Title:       "h1, h2, h3, h4",
			Company:     ".company",
			Location:    ".location",
			Description: "p",
			Link:        "a[href]",
		},
		{
			Name:        "list-item",
			Container:   "main li, ul.listings li",
			Title:       "h1, h2, h3, h4, .title",
			Company:     ".company",
			Location:    ".location",
			Description: "p",
			Link:        "a[href]",
		},
	}
}
