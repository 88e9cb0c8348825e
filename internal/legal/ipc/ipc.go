// Package ipc suggests statutory sections for an FIR from its description and
// crime type.
package ipc

import (
	"sort"
	"strings"
)

type Suggestion struct {
	Section     string  `json:"section"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Confidence  float64 `json:"confidence"`
}

// Rule fires when the crime type contains any of CrimeTypeTerms or the
// description contains any of DescriptionTerms. Terms are lowercase.
type Rule struct {
	CrimeTypeTerms   []string
	DescriptionTerms []string
	Suggestion       Suggestion
}

func (r Rule) matches(description, crimeType string) bool {
	for _, t := range r.CrimeTypeTerms {
		if strings.Contains(crimeType, t) {
			return true
		}
	}
	for _, t := range r.DescriptionTerms {
		if strings.Contains(description, t) {
			return true
		}
	}
	return false
}

// DefaultRules is the portal's rule table in evaluation order.
func DefaultRules() []Rule {
	return []Rule{
		{
			CrimeTypeTerms:   []string{"theft"},
			DescriptionTerms: []string{"steal", "theft"},
			Suggestion: Suggestion{
				Section:     "379",
				Title:       "Theft",
				Description: "Whoever intends to take dishonestly any movable property out of the possession of any person",
				Confidence:  0.9,
			},
		},
		{
			CrimeTypeTerms:   []string{"fraud"},
			DescriptionTerms: []string{"cheat", "fraud"},
			Suggestion: Suggestion{
				Section:     "420",
				Title:       "Cheating and dishonestly inducing delivery of property",
				Description: "Whoever cheats and thereby dishonestly induces the person deceived to deliver any property",
				Confidence:  0.85,
			},
		},
		{
			CrimeTypeTerms:   []string{"assault"},
			DescriptionTerms: []string{"assault", "attack"},
			Suggestion: Suggestion{
				Section:     "351",
				Title:       "Assault",
				Description: "Whoever makes any gesture or preparation intending or knowing it to be likely to cause apprehension",
				Confidence:  0.8,
			},
		},
		{
			CrimeTypeTerms:   []string{"cybercrime"},
			DescriptionTerms: []string{"online", "internet"},
			Suggestion: Suggestion{
				Section:     "IT Act 66",
				Title:       "Computer related offenses",
				Description: "If any person, dishonestly or fraudulently, does any act referred to in section 43",
				Confidence:  0.9,
			},
		},
	}
}

// Generator evaluates an immutable rule table.
type Generator struct {
	rules []Rule
}

func NewGenerator(rules []Rule) *Generator {
	cp := make([]Rule, len(rules))
	for i, r := range rules {
		cp[i] = Rule{
			CrimeTypeTerms:   lowerAll(r.CrimeTypeTerms),
			DescriptionTerms: lowerAll(r.DescriptionTerms),
			Suggestion:       r.Suggestion,
		}
		cp[i].Suggestion.Confidence = clamp(r.Suggestion.Confidence)
	}
	return &Generator{rules: cp}
}

func NewDefaultGenerator() *Generator {
	return NewGenerator(DefaultRules())
}

// Suggest returns one suggestion per matching rule, ordered by descending
// confidence. Ties keep rule order. The result is never nil.
func (g *Generator) Suggest(description, crimeType string) []Suggestion {
	desc := strings.ToLower(description)
	ct := strings.ToLower(crimeType)

	out := []Suggestion{}
	for _, r := range g.rules {
		if r.matches(desc, ct) {
			out = append(out, r.Suggestion)
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Confidence > out[j].Confidence
	})
	return out
}

// TopSections returns the section codes of the first n suggestions.
func TopSections(suggestions []Suggestion, n int) []string {
	if n > len(suggestions) {
		n = len(suggestions)
	}
	if n < 0 {
		n = 0
	}
	out := make([]string, 0, n)
	for _, s := range suggestions[:n] {
		out = append(out, s.Section)
	}
	return out
}

func lowerAll(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s = strings.ToLower(strings.TrimSpace(s)); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func clamp(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
