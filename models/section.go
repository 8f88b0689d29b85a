package models

import "encoding/json"

type SectionKind int

const (
	// SectionFirst holds every merged item, shown as a horizontal list
	SectionFirst SectionKind = iota
	// SectionSecond holds the single item resolved from a cascade URL
	SectionSecond
)

func (k SectionKind) String() string {
	switch k {
	case SectionFirst:
		return "first"
	case SectionSecond:
		return "second"
	default:
		return "unknown"
	}
}

// Layout is the rendering hint handed to the display layer
func (k SectionKind) Layout() string {
	if k == SectionSecond {
		return "full-width"
	}
	return "carousel"
}

// Section is one display section of the pipeline output. Build it with
// FirstSection or SecondSection.
type Section struct {
	Kind  SectionKind
	items []MergedItem
}

func FirstSection(items []MergedItem) Section {
	return Section{Kind: SectionFirst, items: items}
}

func SecondSection(item MergedItem) Section {
	return Section{Kind: SectionSecond, items: []MergedItem{item}}
}

// Items returns the items to render, a single element slice for SectionSecond
func (s Section) Items() []MergedItem {
	return s.items
}

// Item returns the resolved item of a SectionSecond
func (s Section) Item() (MergedItem, bool) {
	if s.Kind != SectionSecond || len(s.items) != 1 {
		return MergedItem{}, false
	}
	return s.items[0], true
}

func (s Section) Layout() string {
	return s.Kind.Layout()
}

func (s Section) MarshalJSON() ([]byte, error) {
	items := s.items
	if items == nil {
		items = []MergedItem{}
	}
	return json.Marshal(struct {
		Kind   string       `json:"kind"`
		Layout string       `json:"layout"`
		Items  []MergedItem `json:"items"`
	}{
		Kind:   s.Kind.String(),
		Layout: s.Layout(),
		Items:  items,
	})
}
