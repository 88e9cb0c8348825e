package api

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"legal-workers/internal/common/auth"
	"legal-workers/internal/legal/knowledge"
	"legal-workers/internal/store"
	portalstats "legal-workers/internal/workers/admin/portal-stats"
	getcasestatus "legal-workers/internal/workers/cases/get-case-status"
	generatefir "legal-workers/internal/workers/fir/generate-fir"
	notifyfir "legal-workers/internal/workers/fir/notify-fir"
	searchfirs "legal-workers/internal/workers/fir/search-firs"
	updatefirstatus "legal-workers/internal/workers/fir/update-fir-status"
	classifyquery "legal-workers/internal/workers/legal-assistant/classify-query"
	getchathistory "legal-workers/internal/workers/legal-assistant/get-chat-history"
	suggestipcsections "legal-workers/internal/workers/legal-assistant/suggest-ipc-sections"
)

const allFIRsLimit = 500

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"version": s.deps.Version,
	})
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	status := http.StatusOK
	checks := make(map[string]string, len(s.deps.Readiness))
	for name, check := range s.deps.Readiness {
		if err := check(ctx); err != nil {
			checks[name] = err.Error()
			status = http.StatusServiceUnavailable
			continue
		}
		checks[name] = "ok"
	}

	state := "ready"
	if status != http.StatusOK {
		state = "not_ready"
	}
	writeJSON(w, status, map[string]interface{}{"status": state, "checks": checks})
}

func (s *Server) handleSuggestedQuestions(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, knowledge.SuggestedQuestions())
}

func (s *Server) handleEmergencyContacts(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, knowledge.EmergencyContacts())
}

func (s *Server) handleCurrentUser(w http.ResponseWriter, r *http.Request) {
	p, _ := principalFrom(r.Context())
	if s.deps.Directory == nil {
		writeNotEnabled(w)
		return
	}
	user, err := s.deps.Directory.GetUser(r.Context(), p.UserID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

type chatRequest struct {
	Query    string `json:"query"`
	Language string `json:"language"`
}

func (s *Server) handleChatbot(w http.ResponseWriter, r *http.Request) {
	h := s.deps.Handlers.Classify
	if h == nil {
		writeNotEnabled(w)
		return
	}
	var req chatRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, err)
		return
	}

	p, _ := principalFrom(r.Context())
	out, err := h.Execute(r.Context(), &classifyquery.Input{
		Query:     req.Query,
		Language:  req.Language,
		UserID:    p.UserID,
		IPAddress: clientIP(r),
		UserAgent: r.UserAgent(),
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleChatHistory(w http.ResponseWriter, r *http.Request) {
	h := s.deps.Handlers.ChatHistory
	if h == nil {
		writeNotEnabled(w)
		return
	}
	p, _ := principalFrom(r.Context())
	out, err := h.Execute(r.Context(), &getchathistory.Input{
		UserID: p.UserID,
		Limit:  queryInt(r, "limit"),
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, out.History)
}

type ipcRequest struct {
	Description string `json:"description"`
	CrimeType   string `json:"crimeType"`
}

func (s *Server) handleIPCSuggestions(w http.ResponseWriter, r *http.Request) {
	h := s.deps.Handlers.SuggestIPC
	if h == nil {
		writeNotEnabled(w)
		return
	}
	var req ipcRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, err)
		return
	}
	out, err := h.Execute(r.Context(), &suggestipcsections.Input{
		Description: req.Description,
		CrimeType:   req.CrimeType,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

type firRequest struct {
	CrimeType    string   `json:"crimeType"`
	Description  string   `json:"description"`
	Location     string   `json:"location"`
	IncidentDate string   `json:"incidentDate"`
	IncidentTime string   `json:"incidentTime"`
	EvidenceURLs []string `json:"evidenceUrls"`
}

func (s *Server) handleGenerateFIR(w http.ResponseWriter, r *http.Request) {
	h := s.deps.Handlers.GenerateFIR
	if h == nil {
		writeNotEnabled(w)
		return
	}
	var req firRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, err)
		return
	}

	p, _ := principalFrom(r.Context())
	out, err := h.Execute(r.Context(), &generatefir.Input{
		UserID:       p.UserID,
		CrimeType:    req.CrimeType,
		Description:  req.Description,
		Location:     req.Location,
		IncidentDate: req.IncidentDate,
		IncidentTime: req.IncidentTime,
		EvidenceURLs: req.EvidenceURLs,
		IPAddress:    clientIP(r),
		UserAgent:    r.UserAgent(),
	})
	if err != nil {
		writeError(w, err)
		return
	}

	s.notify(r.Context(), out.FIRID, notifyfir.EventCreated)
	writeJSON(w, http.StatusCreated, out)
}

type statusRequest struct {
	Status               string `json:"status"`
	InvestigatingOfficer string `json:"investigatingOfficer"`
	PoliceStation        string `json:"policeStation"`
}

func (s *Server) handleUpdateFIRStatus(w http.ResponseWriter, r *http.Request) {
	h := s.deps.Handlers.UpdateStatus
	if h == nil {
		writeNotEnabled(w)
		return
	}
	var req statusRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, err)
		return
	}

	p, _ := principalFrom(r.Context())
	out, err := h.Execute(r.Context(), &updatefirstatus.Input{
		FIRID:                mux.Vars(r)["id"],
		Status:               req.Status,
		ActorID:              p.UserID,
		InvestigatingOfficer: req.InvestigatingOfficer,
		PoliceStation:        req.PoliceStation,
		IPAddress:            clientIP(r),
		UserAgent:            r.UserAgent(),
	})
	if err != nil {
		writeError(w, err)
		return
	}

	s.notify(r.Context(), out.FIRID, notifyfir.EventStatusChanged)
	writeJSON(w, http.StatusOK, out)
}

// notify sends the owner notification without failing the request.
func (s *Server) notify(ctx context.Context, firID, event string) {
	h := s.deps.Handlers.NotifyFIR
	if h == nil {
		return
	}
	if _, err := h.Execute(ctx, &notifyfir.Input{FIRID: firID, Event: event}); err != nil {
		s.logger.Warn("fir notification failed", map[string]interface{}{
			"firId": firID,
			"event": event,
			"error": err.Error(),
		})
	}
}

func (s *Server) handleUserFIRs(w http.ResponseWriter, r *http.Request) {
	if s.deps.Directory == nil {
		writeNotEnabled(w)
		return
	}
	p, _ := principalFrom(r.Context())
	firs, err := s.deps.Directory.ListFIRsByUser(r.Context(), p.UserID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, firs)
}

func (s *Server) handleAllFIRs(w http.ResponseWriter, r *http.Request) {
	if s.deps.Directory == nil {
		writeNotEnabled(w)
		return
	}
	p, _ := principalFrom(r.Context())
	if err := auth.RequireOfficer(p.UserID, p.Role); err != nil {
		writeError(w, err)
		return
	}
	firs, err := s.deps.Directory.ListFIRs(r.Context(), allFIRsLimit)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, firs)
}

func (s *Server) handleSearchFIRs(w http.ResponseWriter, r *http.Request) {
	h := s.deps.Handlers.SearchFIRs
	if h == nil {
		writeNotEnabled(w)
		return
	}
	p, _ := principalFrom(r.Context())
	q := r.URL.Query()
	out, err := h.Execute(r.Context(), &searchfirs.Input{
		ActorID:   p.UserID,
		Text:      q.Get("q"),
		Status:    q.Get("status"),
		CrimeType: q.Get("crimeType"),
		Section:   q.Get("section"),
		UserID:    q.Get("userId"),
		From:      queryInt(r, "from"),
		Size:      queryInt(r, "size"),
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleCaseStatus(w http.ResponseWriter, r *http.Request) {
	h := s.deps.Handlers.CaseStatus
	if h == nil {
		writeNotEnabled(w)
		return
	}
	p, _ := principalFrom(r.Context())
	caseID := mux.Vars(r)["caseId"]

	out, err := h.Execute(r.Context(), &getcasestatus.Input{UserID: p.UserID, CaseID: caseID})
	if err != nil {
		writeError(w, err)
		return
	}
	if caseID != "" {
		writeJSON(w, http.StatusOK, out.Case)
		return
	}
	writeJSON(w, http.StatusOK, out.Cases)
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	out, ok := s.portalStats(w, r, false)
	if ok {
		writeJSON(w, http.StatusOK, out.Stats)
	}
}

func (s *Server) handleAudit(w http.ResponseWriter, r *http.Request) {
	out, ok := s.portalStats(w, r, true)
	if ok {
		writeJSON(w, http.StatusOK, out.AuditLogs)
	}
}

func (s *Server) portalStats(w http.ResponseWriter, r *http.Request, audit bool) (*portalstats.Output, bool) {
	h := s.deps.Handlers.PortalStats
	if h == nil {
		writeNotEnabled(w)
		return nil, false
	}
	p, _ := principalFrom(r.Context())
	out, err := h.Execute(r.Context(), &portalstats.Input{
		ActorID:      p.UserID,
		IncludeAudit: audit,
		AuditLimit:   queryInt(r, "limit"),
		Refresh:      r.URL.Query().Get("refresh") == "true",
	})
	if err != nil {
		writeError(w, err)
		return nil, false
	}
	if audit && out.AuditLogs == nil {
		out.AuditLogs = []store.AuditLog{}
	}
	return out, true
}

// queryInt parses a non-negative integer parameter; anything else reads as 0.
func queryInt(r *http.Request, name string) int {
	n, err := strconv.Atoi(r.URL.Query().Get(name))
	if err != nil || n < 0 {
		return 0
	}
	return n
}
