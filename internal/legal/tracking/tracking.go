// Package tracking renders stored case records into the view citizens see:
// court details plus a three-step timeline.
package tracking

import (
	"time"

	"legal-workers/internal/common/config"
	"legal-workers/internal/store"
)

const (
	StepCompleted = "completed"
	StepPending   = "pending"
	StepUpcoming  = "upcoming"

	investigationOffset = 7 * 24 * time.Hour
)

type CourtDetails struct {
	Name      string `json:"name"`
	Judge     string `json:"judge"`
	Courtroom string `json:"courtroom"`
	Address   string `json:"address"`
}

type TimelineStep struct {
	Date   *time.Time `json:"date,omitempty"`
	Event  string     `json:"event"`
	Status string     `json:"status"`
}

type CaseView struct {
	store.CaseStatus
	CourtDetails CourtDetails   `json:"courtDetails"`
	Timeline     []TimelineStep `json:"timeline"`
}

// Enrich fills court details from the record, falling back to defaults, and
// derives the timeline from the record's own dates.
func Enrich(cs store.CaseStatus, defaults config.CaseConfig) CaseView {
	court := CourtDetails{
		Name:      cs.Court,
		Judge:     cs.Judge,
		Courtroom: defaults.Courtroom,
		Address:   defaults.Address,
	}
	if court.Name == "" {
		court.Name = defaults.Court
	}
	if court.Judge == "" {
		court.Judge = defaults.Judge
	}

	filed := cs.CreatedAt
	investigation := filed.Add(investigationOffset)
	investigationStatus := StepCompleted
	if cs.Status == store.FIRStatusPending {
		investigationStatus = StepPending
	}

	return CaseView{
		CaseStatus:   cs,
		CourtDetails: court,
		Timeline: []TimelineStep{
			{Date: &filed, Event: "FIR Filed", Status: StepCompleted},
			{Date: &investigation, Event: "Investigation Started", Status: investigationStatus},
			{Date: cs.HearingDate, Event: "First Hearing", Status: StepUpcoming},
		},
	}
}

func EnrichAll(cases []store.CaseStatus, defaults config.CaseConfig) []CaseView {
	out := make([]CaseView, 0, len(cases))
	for _, cs := range cases {
		out = append(out, Enrich(cs, defaults))
	}
	return out
}

// Find returns the case whose case id or row id equals key.
func Find(cases []store.CaseStatus, key string) (store.CaseStatus, bool) {
	for _, cs := range cases {
		if cs.CaseID == key || cs.ID == key {
			return cs, true
		}
	}
	return store.CaseStatus{}, false
}

// NewCase builds the record opened alongside a freshly filed FIR.
func NewCase(fir store.FIR, defaults config.CaseConfig, now time.Time) *store.CaseStatus {
	hearing := now.AddDate(0, 0, defaults.HearingOffsetDays)
	return &store.CaseStatus{
		CaseID:      fir.FIRNumber,
		FIRID:       fir.ID,
		UserID:      fir.UserID,
		Status:      store.FIRStatusPending,
		Court:       defaults.Court,
		HearingDate: &hearing,
		Remarks:     defaults.Remarks,
	}
}
