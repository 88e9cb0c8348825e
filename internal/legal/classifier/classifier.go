// Package classifier maps free-text legal questions onto the best matching
// knowledge base entry using keyword containment and a query-length bonus.
package classifier

import (
	"strings"
	"unicode/utf8"

	"legal-workers/internal/legal/knowledge"
)

const (
	// FallbackThreshold is the lowest candidate score accepted as a match.
	FallbackThreshold = 0.4
	// FallbackConfidence is reported whenever the fallback chain answers.
	FallbackConfidence = 0.5

	lengthBonusDivisor = 50.0
	maxLengthBonus     = 0.2
	hintThreshold      = 0.5

	LanguageEnglish = "english"
	LanguageHindi   = "hindi"
	LanguageMarathi = "marathi"
)

// Result is the answer to one query.
type Result struct {
	Response         string   `json:"response"`
	Confidence       float64  `json:"confidence"`
	SuggestedActions []string `json:"suggestedActions"`
	RelatedSections  []string `json:"relatedSections"`
	EntryID          string   `json:"entryId,omitempty"`
	Fallback         bool     `json:"fallback"`
}

// Score is the per-entry breakdown produced by Rank.
type Score struct {
	EntryID           string  `json:"entryId"`
	Matches           int     `json:"matches"`
	Keywords          int     `json:"keywords"`
	KeywordConfidence float64 `json:"keywordConfidence"`
	LengthBonus       float64 `json:"lengthBonus"`
	Confidence        float64 `json:"confidence"`
}

// Classifier is safe for concurrent use; it never mutates its base.
type Classifier struct {
	base *knowledge.Base
}

func New(base *knowledge.Base) *Classifier {
	return &Classifier{base: base}
}

// Base returns the knowledge base the classifier was built with.
func (c *Classifier) Base() *knowledge.Base {
	return c.base
}

// Normalize lowercases and trims a query.
func Normalize(query string) string {
	return strings.ToLower(strings.TrimSpace(query))
}

// LengthBonus rewards longer queries, independent of the entry being scored.
// Length is counted in characters so non-Latin queries are treated alike.
func LengthBonus(normalized string) float64 {
	return clamp(min(float64(utf8.RuneCountInString(normalized))/lengthBonusDivisor, maxLengthBonus))
}

// Classify never fails: queries without a confident match are answered by the
// fallback chain with FallbackConfidence.
func (c *Classifier) Classify(query, language string) Result {
	normalized := Normalize(query)
	if language == "" {
		language = LanguageEnglish
	}

	var (
		best      *knowledge.Entry
		bestScore float64
	)
	bonus := LengthBonus(normalized)
	c.base.Each(func(_ int, e *knowledge.Entry) {
		s := score(normalized, e.Keywords, bonus)
		if best == nil || s.Confidence > bestScore {
			best = e
			bestScore = s.Confidence
		}
	})

	var res Result
	if best == nil || bestScore < FallbackThreshold {
		res = Result{
			Response:         fallbackResponse(normalized),
			Confidence:       FallbackConfidence,
			SuggestedActions: fallbackActions(),
			RelatedSections:  []string{},
			Fallback:         true,
		}
	} else {
		res = Result{
			Response:         best.Response,
			Confidence:       clamp(bestScore),
			SuggestedActions: append([]string{}, best.SuggestedActions...),
			RelatedSections:  append([]string{}, best.RelatedSections...),
			EntryID:          best.ID,
		}
	}

	res.Response = appendLanguageHint(res.Response, language, res.Confidence)
	return res
}

// Rank scores every entry in base order.
func (c *Classifier) Rank(query string) []Score {
	normalized := Normalize(query)
	bonus := LengthBonus(normalized)
	out := make([]Score, 0, c.base.Len())
	c.base.Each(func(_ int, e *knowledge.Entry) {
		s := score(normalized, e.Keywords, bonus)
		s.EntryID = e.ID
		out = append(out, s)
	})
	return out
}

func score(normalized string, keywords []string, bonus float64) Score {
	matches := 0
	for _, k := range keywords {
		if strings.Contains(normalized, k) {
			matches++
		}
	}

	kc := 0.0
	if len(keywords) > 0 {
		kc = float64(matches) / float64(len(keywords))
	}

	return Score{
		Matches:           matches,
		Keywords:          len(keywords),
		KeywordConfidence: kc,
		LengthBonus:       bonus,
		Confidence:        clamp(min(kc+bonus, 1.0)),
	}
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
