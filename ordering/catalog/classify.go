package catalog

import (
	"fmt"
	"sort"
	"strings"

	contractx "github.com/marova/sliceline/ordering/contract"
)

const (
	CategoryOther   = "Other"
	CategoryCoupons = "Coupons"
)

// categoryRules is an ordered keyword pass: the first category whose
// keyword set matches the item's product type, name, or stringified tags
// wins. Order matters; "Pizza" must beat looser matches below it.
var categoryRules = []struct {
	name     string
	keywords []string
}{
	{"Pizza", []string{"pizza"}},
	{"Wings", []string{"wings", "wing"}},
	{"Pasta", []string{"pasta"}},
	{"Bread", []string{"bread", "breadsticks"}},
	{"Drinks", []string{"drinks", "beverage", "coke", "sprite"}},
	{"Desserts", []string{"desserts", "dessert"}},
}

// Classify turns the vendor's raw catalog into a categorized menu. It never
// fails: a catalog without the expected variants shape degrades to the
// structural fallback, and unusable entries are skipped. Item codes are
// walked in sorted order so the category layout is deterministic.
func Classify(raw *contractx.RawMenu) *Menu {
	menu := NewMenu()
	if raw == nil {
		return menu
	}

	if len(raw.Variants) == 0 {
		classifyFallback(raw, menu)
		return menu
	}

	for _, code := range sortedKeys(raw.Variants) {
		fields, ok := raw.Variants[code].(map[string]any)
		if !ok {
			continue
		}

		name := asString(fields["Name"])
		price := asString(fields["Price"])
		productType := asString(fields["ProductType"])
		tags := fmt.Sprint(fields["Tags"])

		menu.Add(categorize(productType, name, tags), Item{
			Code:        code,
			Name:        name,
			Price:       price,
			Description: asString(fields["Description"]),
		})
	}

	// Coupons form their own category, untouched by the keyword pass.
	if len(raw.Coupons) > 0 {
		menu.AddCategory(CategoryCoupons)
		for _, code := range sortedKeys(raw.Coupons) {
			fields, ok := raw.Coupons[code].(map[string]any)
			if !ok {
				continue
			}
			menu.Add(CategoryCoupons, Item{
				Code:        code,
				Name:        asString(fields["Name"]),
				Price:       asString(fields["Price"]),
				Description: asString(fields["Description"]),
			})
		}
	}

	return menu
}

func categorize(productType, name, tags string) string {
	haystacks := []string{
		strings.ToLower(productType),
		strings.ToLower(name),
		strings.ToLower(tags),
	}
	for _, rule := range categoryRules {
		for _, kw := range rule.keywords {
			for _, hay := range haystacks {
				if strings.Contains(hay, kw) {
					return rule.name
				}
			}
		}
	}
	return CategoryOther
}

// classifyFallback is the degraded path for catalogs missing the variants
// shape: every recognizable entry lands under "Other" with a blank
// description. A smaller result beats no result.
func classifyFallback(raw *contractx.RawMenu, menu *Menu) {
	variants, ok := raw.Raw["Variants"].(map[string]any)
	if !ok {
		return
	}
	for _, code := range sortedKeys(variants) {
		fields, ok := variants[code].(map[string]any)
		if !ok {
			continue
		}
		name := asString(fields["Name"])
		if name == "" {
			name = code
		}
		menu.Add(CategoryOther, Item{
			Code:  code,
			Name:  name,
			Price: asString(fields["Price"]),
		})
	}
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func asString(v any) string {
	s, _ := v.(string)
	return s
}
