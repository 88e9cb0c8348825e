package registry

import (
	"legal-workers/internal/common/errors"
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

const builtinVersion = "1.0.0"

func codes(c ...errors.ErrorCode) []string {
	out := make([]string, 0, len(c)+1)
	out = append(out, string(errors.ErrCodeInputValidationFailed))
	for _, code := range c {
		out = append(out, string(code))
	}
	return out
}

// Builtin returns the activities implemented by worker-manager.
func Builtin() *ActivityRegistry {
	const (
		chat    = "legal-assistant"
		fir     = "fir"
		cases   = "cases"
		admin   = "admin"
		done    = "completed"
		flowFIR = "fir-filing"
	)
	reg := &ActivityRegistry{
		Version: builtinVersion,
		Activities: []Activity{
			{
				ID:          "classify-query",
				DisplayName: "Classify Legal Query",
				Description: "Answers a legal question from the keyword knowledge base and logs the chat",
				Category:    chat,
				TaskType:    classifyquery.TaskType,
				ErrorCodes:  codes(errors.ErrCodeDatabaseInsertFailed, errors.ErrCodeInternal),
				Timeout:     "10s",
				Retries:     3,
				Workflows:   []string{"legal-chat"},
				Tags:        []string{"chatbot", "classifier"},
			},
			{
				ID:          "suggest-ipc-sections",
				DisplayName: "Suggest IPC Sections",
				Description: "Suggests IPC sections for an incident description and crime type",
				Category:    chat,
				TaskType:    suggestipcsections.TaskType,
				ErrorCodes:  codes(),
				Timeout:     "5s",
				Retries:     3,
				Workflows:   []string{flowFIR},
				Tags:        []string{"ipc"},
			},
			{
				ID:          "get-chat-history",
				DisplayName: "Get Chat History",
				Description: "Returns a user's most recent chat exchanges",
				Category:    chat,
				TaskType:    getchathistory.TaskType,
				ErrorCodes:  codes(errors.ErrCodeQueryExecutionFailed),
				Timeout:     "5s",
				Retries:     3,
				Workflows:   []string{"legal-chat"},
				Tags:        []string{"chatbot"},
			},
			{
				ID:          "generate-fir",
				DisplayName: "Generate FIR",
				Description: "Files an FIR with suggested sections, opens its case and indexes it",
				Category:    fir,
				TaskType:    generatefir.TaskType,
				ErrorCodes:  codes(errors.ErrCodeDuplicateFIR, errors.ErrCodeDatabaseInsertFailed, errors.ErrCodeQueryExecutionFailed),
				Timeout:     "15s",
				Retries:     3,
				Workflows:   []string{flowFIR},
				Tags:        []string{"fir", "postgres", "elasticsearch"},
			},
			{
				ID:          "update-fir-status",
				DisplayName: "Update FIR Status",
				Description: "Moves an FIR to a new status on behalf of a police officer or admin",
				Category:    fir,
				TaskType:    updatefirstatus.TaskType,
				ErrorCodes:  codes(errors.ErrCodeInvalidFIRStatus, errors.ErrCodeAccessDenied, errors.ErrCodeFIRNotFound, errors.ErrCodeUserNotFound),
				Timeout:     "10s",
				Retries:     3,
				Workflows:   []string{"fir-investigation"},
				Tags:        []string{"fir", "police"},
			},
			{
				ID:          "search-firs",
				DisplayName: "Search FIRs",
				Description: "Full-text and filtered FIR search for police and admins",
				Category:    fir,
				TaskType:    searchfirs.TaskType,
				ErrorCodes:  codes(errors.ErrCodeAccessDenied, errors.ErrCodeSearchQueryFailed, errors.ErrCodeSearchTimeout, errors.ErrCodeIndexNotFound),
				Timeout:     "10s",
				Retries:     2,
				Workflows:   []string{"fir-investigation"},
				Tags:        []string{"fir", "elasticsearch"},
			},
			{
				ID:          "notify-fir",
				DisplayName: "Notify FIR Owner",
				Description: "Emails and texts the complainant when an FIR is filed or changes status",
				Category:    fir,
				TaskType:    notifyfir.TaskType,
				ErrorCodes:  codes(errors.ErrCodeFIRNotFound, errors.ErrCodeNotificationSendFailed),
				Timeout:     "20s",
				Retries:     5,
				Workflows:   []string{flowFIR, "fir-investigation"},
				Tags:        []string{"ses", "sns"},
			},
			{
				ID:          "get-case-status",
				DisplayName: "Get Case Status",
				Description: "Returns a user's cases with court details and the progress timeline",
				Category:    cases,
				TaskType:    getcasestatus.TaskType,
				ErrorCodes:  codes(errors.ErrCodeCaseNotFound, errors.ErrCodeQueryExecutionFailed),
				Timeout:     "5s",
				Retries:     3,
				Workflows:   []string{"case-tracking"},
				Tags:        []string{"cases"},
			},
			{
				ID:          "portal-stats",
				DisplayName: "Portal Statistics",
				Description: "Admin dashboard counters and recent audit entries, cached in Redis",
				Category:    admin,
				TaskType:    portalstats.TaskType,
				ErrorCodes:  codes(errors.ErrCodeAccessDenied, errors.ErrCodeQueryExecutionFailed),
				Timeout:     "10s",
				Retries:     1,
				Workflows:   []string{"admin-dashboard"},
				Tags:        []string{"admin", "redis"},
			},
		},
	}
	for i := range reg.Activities {
		reg.Activities[i].Version = builtinVersion
		reg.Activities[i].ImplementationStatus = done
	}
	return reg
}
