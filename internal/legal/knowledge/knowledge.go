// Package knowledge holds the ordered, immutable legal knowledge base consumed by
// the response classifier, together with the portal's static reference data.
package knowledge

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrEmptyBase    = errors.New("KNOWLEDGE_BASE_EMPTY")
	ErrInvalidEntry = errors.New("KNOWLEDGE_ENTRY_INVALID")
)

// Entry is one topic of the knowledge base.
type Entry struct {
	ID               string   `json:"id" yaml:"id"`
	Keywords         []string `json:"keywords" yaml:"keywords"`
	Response         string   `json:"response" yaml:"response"`
	BaseConfidence   float64  `json:"baseConfidence" yaml:"baseConfidence"`
	SuggestedActions []string `json:"suggestedActions" yaml:"suggestedActions"`
	RelatedSections  []string `json:"relatedSections" yaml:"relatedSections"`
}

func (e Entry) clone() Entry {
	e.Keywords = append([]string(nil), e.Keywords...)
	e.SuggestedActions = append([]string{}, e.SuggestedActions...)
	e.RelatedSections = append([]string{}, e.RelatedSections...)
	return e
}

// Base is an ordered sequence of entries. Order is significant: the classifier
// resolves score ties in favour of the earlier entry.
type Base struct {
	entries []Entry
}

// NewBase validates and copies entries. Keywords are lowercased, trimmed and
// de-duplicated so that they can be matched against a normalized query.
// An empty slice yields an empty Base; callers that require content check Len.
func NewBase(entries []Entry) (*Base, error) {
	out := make([]Entry, 0, len(entries))
	seen := make(map[string]struct{}, len(entries))

	for i, e := range entries {
		if e.ID == "" {
			e.ID = fmt.Sprintf("entry_%d", i+1)
		}
		if _, dup := seen[e.ID]; dup {
			return nil, fmt.Errorf("%w: duplicate id %q", ErrInvalidEntry, e.ID)
		}
		seen[e.ID] = struct{}{}

		if strings.TrimSpace(e.Response) == "" {
			return nil, fmt.Errorf("%w: %s has no response", ErrInvalidEntry, e.ID)
		}
		if e.BaseConfidence < 0 || e.BaseConfidence > 1 {
			return nil, fmt.Errorf("%w: %s base confidence %.2f outside [0,1]", ErrInvalidEntry, e.ID, e.BaseConfidence)
		}

		keywords := normalizeKeywords(e.Keywords)
		if len(keywords) == 0 {
			return nil, fmt.Errorf("%w: %s has no keywords", ErrInvalidEntry, e.ID)
		}

		e = e.clone()
		e.Keywords = keywords
		out = append(out, e)
	}

	return &Base{entries: out}, nil
}

func normalizeKeywords(in []string) []string {
	out := make([]string, 0, len(in))
	seen := make(map[string]struct{}, len(in))
	for _, k := range in {
		k = strings.ToLower(strings.TrimSpace(k))
		if k == "" {
			continue
		}
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, k)
	}
	return out
}

func (b *Base) Len() int {
	if b == nil {
		return 0
	}
	return len(b.entries)
}

// At returns a copy of the i-th entry.
func (b *Base) At(i int) Entry {
	return b.entries[i].clone()
}

// Entries returns copies of all entries in base order.
func (b *Base) Entries() []Entry {
	out := make([]Entry, 0, b.Len())
	for i := 0; i < b.Len(); i++ {
		out = append(out, b.entries[i].clone())
	}
	return out
}

// Lookup finds an entry by id.
func (b *Base) Lookup(id string) (Entry, bool) {
	for i := 0; i < b.Len(); i++ {
		if b.entries[i].ID == id {
			return b.entries[i].clone(), true
		}
	}
	return Entry{}, false
}

// Each calls fn for every entry in order without copying. fn must not retain
// or mutate the slices it receives.
func (b *Base) Each(fn func(i int, e *Entry)) {
	for i := 0; i < b.Len(); i++ {
		fn(i, &b.entries[i])
	}
}
