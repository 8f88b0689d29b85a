// Package aggregator merges feed records sharing an id into display items and
// finds the cascade URL among them.
package aggregator

import (
	"feedstitch/models"
	"net/url"
	"sort"
	"strings"
	"unicode"

	"github.com/samber/lo"
)

const cascadePrefix = "https://"

// Group holds the records sharing one id, in the order they were encountered
type Group []models.Record

// ID is the id of the first record in the group
func (g Group) ID() int {
	if len(g) == 0 {
		return 0
	}
	return g[0].ID
}

// GroupByID partitions records by id. Groups are ordered by descending id;
// map iteration order never reaches the output.
func GroupByID(records []models.Record) []Group {
	byID := lo.GroupBy(records, func(r models.Record) int {
		return r.ID
	})

	groups := lo.Map(lo.Values(byID), func(records []models.Record, _ int) Group {
		return Group(records)
	})

	sort.Slice(groups, func(i, j int) bool {
		return groups[i].ID() > groups[j].ID()
	})

	return groups
}

// Merge concatenates the group's text in ascending position order. The
// thumbnail is the first one present in encounter order, not position order.
func Merge(g Group) models.MergedItem {
	sorted := make([]models.Record, len(g))
	copy(sorted, g)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Position < sorted[j].Position
	})

	var text strings.Builder
	for _, r := range sorted {
		text.WriteString(r.Text)
	}

	var thumbnailURL *string
	if first, ok := lo.Find(g, func(r models.Record) bool {
		return r.ThumbnailURL != nil
	}); ok {
		thumbnailURL = first.ThumbnailURL
	}

	return models.MergedItem{
		Text:         text.String(),
		ThumbnailURL: thumbnailURL,
	}
}

// MergeAll groups records by id and merges every group
func MergeAll(records []models.Record) []models.MergedItem {
	return lo.Map(GroupByID(records), func(g Group, _ int) models.MergedItem {
		return Merge(g)
	})
}

// DetectCascade returns the URL held by an item whose text is an https URL.
// When several items qualify the last one wins.
func DetectCascade(items []models.MergedItem) (*url.URL, bool) {
	var target *url.URL
	for _, item := range items {
		if u, ok := parseCascadeURL(item.Text); ok {
			target = u
		}
	}
	return target, target != nil
}

// Characters that may not appear unescaped in a URL (RFC 3986). url.Parse
// would escape them silently; such text is not treated as a URL.
const invalidURLChars = " \"<>\\^`{|}"

func parseCascadeURL(text string) (*url.URL, bool) {
	if !strings.HasPrefix(text, cascadePrefix) {
		return nil, false
	}
	if strings.ContainsAny(text, invalidURLChars) || strings.IndexFunc(text, unicode.IsControl) >= 0 {
		return nil, false
	}
	u, err := url.Parse(text)
	if err != nil || u.Host == "" {
		return nil, false
	}
	return u, true
}
