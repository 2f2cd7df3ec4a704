package catalog

import (
	"bytes"
	"encoding/json"
)

// Item is one sellable entry of the categorized catalog.
type Item struct {
	Code        string `json:"code"`
	Name        string `json:"name"`
	Price       string `json:"price"`
	Description string `json:"description"`
}

// Menu is a categorized catalog. Categories keep the order in which their
// first item was seen, so it marshals as a JSON object in that order
// instead of a plain (unordered) Go map.
type Menu struct {
	names []string
	items map[string][]Item
}

func NewMenu() *Menu {
	return &Menu{items: map[string][]Item{}}
}

// Add appends an item, creating the category on first use.
func (m *Menu) Add(category string, it Item) {
	if _, ok := m.items[category]; !ok {
		m.names = append(m.names, category)
	}
	m.items[category] = append(m.items[category], it)
}

// AddCategory creates an empty category if absent.
func (m *Menu) AddCategory(category string) {
	if _, ok := m.items[category]; !ok {
		m.names = append(m.names, category)
		m.items[category] = []Item{}
	}
}

func (m *Menu) Categories() []string {
	return append([]string(nil), m.names...)
}

func (m *Menu) Items(category string) ([]Item, bool) {
	items, ok := m.items[category]
	return items, ok
}

func (m *Menu) Len() int {
	n := 0
	for _, items := range m.items {
		n += len(items)
	}
	return n
}

// Lookup finds an item by code across all categories.
func (m *Menu) Lookup(code string) (Item, bool) {
	for _, items := range m.items {
		for _, it := range items {
			if it.Code == code {
				return it, true
			}
		}
	}
	return Item{}, false
}

// Filter returns the single-category view used by get_menu. "All" returns
// the menu unchanged; an unknown category yields that category empty, so
// the agent sees the shape it asked for.
func (m *Menu) Filter(category string) *Menu {
	if category == "" || category == "All" {
		return m
	}
	out := NewMenu()
	out.AddCategory(category)
	if items, ok := m.items[category]; ok {
		for _, it := range items {
			out.Add(category, it)
		}
	}
	return out
}

// MarshalJSON emits {"Category": [items...], ...} preserving category order.
func (m *Menu) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, name := range m.names {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(name)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		items, err := json.Marshal(m.items[name])
		if err != nil {
			return nil, err
		}
		buf.Write(items)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
