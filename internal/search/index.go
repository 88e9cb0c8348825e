package search

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"

	apperrors "legal-workers/internal/common/errors"
	"legal-workers/internal/store"
)

// Mapping is the index definition for FIR documents.
const Mapping = `{
	"mappings": {
		"properties": {
			"id":            {"type": "keyword"},
			"userId":        {"type": "keyword"},
			"firNumber":     {"type": "keyword"},
			"crimeType":     {"type": "keyword"},
			"description":   {"type": "text"},
			"location":      {"type": "text"},
			"ipcSections":   {"type": "keyword"},
			"status":        {"type": "keyword"},
			"policeStation": {"type": "keyword"},
			"incidentDate":  {"type": "date"},
			"createdAt":     {"type": "date"},
			"updatedAt":     {"type": "date"}
		}
	}
}`

// Document is the searchable projection of an FIR.
type Document struct {
	ID                   string    `json:"id"`
	UserID               string    `json:"userId"`
	FIRNumber            string    `json:"firNumber"`
	CrimeType            string    `json:"crimeType"`
	Description          string    `json:"description"`
	Location             string    `json:"location"`
	IPCSections          []string  `json:"ipcSections"`
	Status               string    `json:"status"`
	InvestigatingOfficer string    `json:"investigatingOfficer,omitempty"`
	PoliceStation        string    `json:"policeStation,omitempty"`
	IncidentDate         time.Time `json:"incidentDate"`
	CreatedAt            time.Time `json:"createdAt"`
	UpdatedAt            time.Time `json:"updatedAt"`
}

func NewDocument(fir store.FIR) Document {
	return Document{
		ID:                   fir.ID,
		UserID:               fir.UserID,
		FIRNumber:            fir.FIRNumber,
		CrimeType:            fir.CrimeType,
		Description:          fir.Description,
		Location:             fir.Location,
		IPCSections:          fir.IPCSections,
		Status:               fir.Status,
		InvestigatingOfficer: fir.InvestigatingOfficer,
		PoliceStation:        fir.PoliceStation,
		IncidentDate:         fir.IncidentDate,
		CreatedAt:            fir.CreatedAt,
		UpdatedAt:            fir.UpdatedAt,
	}
}

type Result struct {
	Total    int64      `json:"total"`
	MaxScore float64    `json:"maxScore"`
	Took     int64      `json:"took"`
	FIRs     []Document `json:"firs"`
}

type FIRIndex struct {
	client *elasticsearch.Client
	index  string
}

func NewFIRIndex(client *elasticsearch.Client, index string) *FIRIndex {
	return &FIRIndex{client: client, index: index}
}

func (x *FIRIndex) Name() string {
	return x.index
}

// Index upserts the FIR document under its id.
func (x *FIRIndex) Index(ctx context.Context, fir store.FIR) error {
	body, err := json.Marshal(NewDocument(fir))
	if err != nil {
		return apperrors.NewInternalError(err)
	}

	req := esapi.IndexRequest{
		Index:      x.index,
		DocumentID: fir.ID,
		Body:       bytes.NewReader(body),
	}
	res, err := req.Do(ctx, x.client)
	if err != nil {
		return x.mapError(ctx, "index_fir", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return x.mapStatus("index_fir", res)
	}
	return nil
}

func (x *FIRIndex) Search(ctx context.Context, q Query) (*Result, error) {
	q = q.Normalize()
	body, err := json.Marshal(BuildQuery(q))
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}

	start := time.Now()
	req := esapi.SearchRequest{
		Index: []string{x.index},
		Body:  bytes.NewReader(body),
	}
	res, err := req.Do(ctx, x.client)
	if err != nil {
		return nil, x.mapError(ctx, "search_firs", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return nil, x.mapStatus("search_firs", res)
	}

	var r struct {
		Hits struct {
			Total struct {
				Value int64 `json:"value"`
			} `json:"total"`
			MaxScore *float64 `json:"max_score"`
			Hits     []struct {
				Source Document `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&r); err != nil {
		return nil, apperrors.NewSearchQueryFailedError("search_firs", err)
	}

	out := &Result{
		Total: r.Hits.Total.Value,
		Took:  time.Since(start).Milliseconds(),
		FIRs:  make([]Document, 0, len(r.Hits.Hits)),
	}
	if r.Hits.MaxScore != nil {
		out.MaxScore = *r.Hits.MaxScore
	}
	for _, hit := range r.Hits.Hits {
		out.FIRs = append(out.FIRs, hit.Source)
	}
	return out, nil
}

func (x *FIRIndex) mapError(ctx context.Context, queryType string, err error) error {
	if errors.Is(ctx.Err(), context.DeadlineExceeded) || errors.Is(err, context.DeadlineExceeded) {
		return apperrors.NewSearchTimeoutError(queryType)
	}
	return apperrors.NewElasticsearchConnectionFailedError(err)
}

func (x *FIRIndex) mapStatus(queryType string, res *esapi.Response) error {
	if res.StatusCode == http.StatusNotFound {
		return apperrors.NewIndexNotFoundError(x.index)
	}
	return apperrors.NewSearchQueryFailedError(queryType, fmt.Errorf("elasticsearch returned %s", res.Status()))
}
