package search

import "strings"

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// Query filters police FIR searches. Zero values are ignored.
type Query struct {
	Text      string `json:"text,omitempty"`
	Status    string `json:"status,omitempty"`
	CrimeType string `json:"crimeType,omitempty"`
	Section   string `json:"section,omitempty"`
	UserID    string `json:"userId,omitempty"`
	From      int    `json:"from,omitempty"`
	Size      int    `json:"size,omitempty"`
}

// Normalize clamps pagination to sane bounds.
func (q Query) Normalize() Query {
	if q.From < 0 {
		q.From = 0
	}
	if q.Size <= 0 {
		q.Size = DefaultPageSize
	}
	if q.Size > MaxPageSize {
		q.Size = MaxPageSize
	}
	q.Text = strings.TrimSpace(q.Text)
	q.CrimeType = strings.ToLower(strings.TrimSpace(q.CrimeType))
	return q
}

// BuildQuery renders q as an Elasticsearch request body.
func BuildQuery(q Query) map[string]interface{} {
	must := []interface{}{}
	filter := []interface{}{}

	if q.Text != "" {
		must = append(must, map[string]interface{}{
			"multi_match": map[string]interface{}{
				"query":  q.Text,
				"fields": []string{"firNumber^3", "description^2", "location", "crimeType"},
				"type":   "best_fields",
			},
		})
	}
	terms := []struct{ field, value string }{
		{"status", q.Status},
		{"crimeType", q.CrimeType},
		{"ipcSections", q.Section},
		{"userId", q.UserID},
	}
	for _, t := range terms {
		if t.value != "" {
			filter = append(filter, map[string]interface{}{
				"term": map[string]interface{}{t.field: t.value},
			})
		}
	}

	body := map[string]interface{}{
		"from": q.From,
		"size": q.Size,
		"sort": []interface{}{
			map[string]interface{}{"_score": "desc"},
			map[string]interface{}{"createdAt": "desc"},
		},
	}
	if len(must) == 0 && len(filter) == 0 {
		body["query"] = map[string]interface{}{"match_all": map[string]interface{}{}}
		return body
	}
	boolQuery := map[string]interface{}{}
	if len(must) > 0 {
		boolQuery["must"] = must
	}
	if len(filter) > 0 {
		boolQuery["filter"] = filter
	}
	body["query"] = map[string]interface{}{"bool": boolQuery}
	return body
}
