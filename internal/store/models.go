package store

import "time"

const (
	FIRStatusPending          = "pending"
	FIRStatusInvestigating    = "investigating"
	FIRStatusChargesheetFiled = "chargesheet_filed"
	FIRStatusCourtProceedings = "court_proceedings"
	FIRStatusDisposed         = "disposed"
)

var firStatuses = []string{
	FIRStatusPending,
	FIRStatusInvestigating,
	FIRStatusChargesheetFiled,
	FIRStatusCourtProceedings,
	FIRStatusDisposed,
}

func ValidFIRStatus(status string) bool {
	for _, s := range firStatuses {
		if s == status {
			return true
		}
	}
	return false
}

func FIRStatuses() []string {
	return append([]string(nil), firStatuses...)
}

type User struct {
	ID        string    `json:"id"`
	Email     string    `json:"email,omitempty"`
	Phone     string    `json:"phone,omitempty"`
	FirstName string    `json:"firstName,omitempty"`
	LastName  string    `json:"lastName,omitempty"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"createdAt"`
}

type FIR struct {
	ID                   string    `json:"id"`
	UserID               string    `json:"userId"`
	FIRNumber            string    `json:"firNumber"`
	CrimeType            string    `json:"crimeType"`
	Description          string    `json:"description"`
	Location             string    `json:"location"`
	IncidentDate         time.Time `json:"incidentDate"`
	IncidentTime         string    `json:"incidentTime,omitempty"`
	IPCSections          []string  `json:"ipcSections"`
	EvidenceURLs         []string  `json:"evidenceUrls"`
	Status               string    `json:"status"`
	InvestigatingOfficer string    `json:"investigatingOfficer,omitempty"`
	PoliceStation        string    `json:"policeStation,omitempty"`
	PDFURL               string    `json:"pdfUrl,omitempty"`
	CreatedAt            time.Time `json:"createdAt"`
	UpdatedAt            time.Time `json:"updatedAt"`
}

type ChatLog struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	Query     string    `json:"query"`
	Response  string    `json:"response"`
	Language  string    `json:"language"`
	CreatedAt time.Time `json:"createdAt"`
}

type CaseStatus struct {
	ID          string     `json:"id"`
	CaseID      string     `json:"caseId"`
	FIRID       string     `json:"firId,omitempty"`
	UserID      string     `json:"userId"`
	Status      string     `json:"status"`
	Court       string     `json:"court,omitempty"`
	Judge       string     `json:"judge,omitempty"`
	HearingDate *time.Time `json:"hearingDate,omitempty"`
	NextHearing *time.Time `json:"nextHearing,omitempty"`
	Remarks     string     `json:"remarks,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

type AuditLog struct {
	ID        string                 `json:"id"`
	UserID    string                 `json:"userId,omitempty"`
	Module    string                 `json:"module"`
	Action    string                 `json:"action"`
	Details   map[string]interface{} `json:"details,omitempty"`
	IPAddress string                 `json:"ipAddress,omitempty"`
	UserAgent string                 `json:"userAgent,omitempty"`
	CreatedAt time.Time              `json:"createdAt"`
}

type Stats struct {
	TotalUsers        int `json:"totalUsers"`
	TotalFIRs         int `json:"totalFIRs"`
	TotalChatSessions int `json:"totalChatSessions"`
	PendingFIRs       int `json:"pendingFIRs"`
}
