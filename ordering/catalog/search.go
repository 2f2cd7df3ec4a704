package catalog

import (
	"strings"

	contractx "github.com/marova/sliceline/ordering/contract"
)

// DefaultSearchLimit caps search output so the agent gets a scannable list.
const DefaultSearchLimit = 20

// SearchResult is one search hit. Category carries the vendor's raw
// product type, not the classifier's bucket.
type SearchResult struct {
	Code        string `json:"code"`
	Name        string `json:"name"`
	Category    string `json:"category"`
	Price       string `json:"price"`
	Description string `json:"description"`
}

// Search does a case-insensitive substring match over variant names and
// descriptions, capped at limit results (DefaultSearchLimit when <= 0).
func Search(raw *contractx.RawMenu, query string, limit int) []SearchResult {
	if limit <= 0 {
		limit = DefaultSearchLimit
	}
	if raw == nil || len(raw.Variants) == 0 {
		return nil
	}

	needle := strings.ToLower(strings.TrimSpace(query))
	var results []SearchResult
	for _, code := range sortedKeys(raw.Variants) {
		fields, ok := raw.Variants[code].(map[string]any)
		if !ok {
			continue
		}
		name := asString(fields["Name"])
		description := asString(fields["Description"])
		if !strings.Contains(strings.ToLower(name), needle) &&
			!strings.Contains(strings.ToLower(description), needle) {
			continue
		}
		results = append(results, SearchResult{
			Code:        code,
			Name:        name,
			Category:    asString(fields["ProductType"]),
			Price:       asString(fields["Price"]),
			Description: description,
		})
		if len(results) >= limit {
			break
		}
	}
	return results
}
