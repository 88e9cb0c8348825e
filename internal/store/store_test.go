package store

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "legal-workers/internal/common/errors"
)

var fixedNow = time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC)

func newTestStore(t *testing.T) (*Store, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	s := New(db)
	s.now = func() time.Time { return fixedNow }
	ids := 0
	s.newID = func() string {
		ids++
		return []string{"id-1", "id-2", "id-3", "id-4"}[ids-1]
	}
	return s, mock
}

var firCols = []string{
	"id", "user_id", "fir_number", "crime_type", "description", "location", "incident_date",
	"incident_time", "ipc_sections", "evidence_urls", "status", "investigating_officer",
	"police_station", "pdf_url", "created_at", "updated_at",
}

func firRow(rows *sqlmock.Rows, id, status string) *sqlmock.Rows {
	return rows.AddRow(
		id, "user-1", "FIR/2026/000007", "theft", "phone stolen at market", "Pune",
		fixedNow.AddDate(0, 0, -1), "18:30", []byte(`["379"]`), []byte(`[]`), status,
		nil, "Shivaji Nagar", nil, fixedNow, fixedNow,
	)
}

func TestFormatFIRNumber(t *testing.T) {
	assert.Equal(t, "FIR/2026/000001", FormatFIRNumber(2026, 1))
	assert.Equal(t, "FIR/2025/123456", FormatFIRNumber(2025, 123456))
	assert.Equal(t, "FIR/2025/1234567", FormatFIRNumber(2025, 1234567))
}

func TestNextFIRNumber(t *testing.T) {
	s, mock := newTestStore(t)
	mock.ExpectQuery("SELECT COUNT").WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(41))

	number, err := s.NextFIRNumber(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "FIR/2026/000042", number)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFileFIR(t *testing.T) {
	s, mock := newTestStore(t)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO fir_reports").
		WithArgs("id-1", "user-1", "FIR/2026/000001", "theft", sqlmock.AnyArg(), "Pune",
			sqlmock.AnyArg(), "18:30", []byte(`["379"]`), []byte(`[]`), FIRStatusPending,
			nil, nil, nil, fixedNow, fixedNow).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("INSERT INTO case_status").
		WithArgs("id-2", "FIR/2026/000001", "id-1", "user-1", FIRStatusPending, "District Court",
			nil, sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), fixedNow, fixedNow).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("INSERT INTO audit_logs").
		WithArgs("id-3", "user-1", "fir", "create", sqlmock.AnyArg(), nil, nil, fixedNow).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	hearing := fixedNow.AddDate(0, 0, 30)
	fir := &FIR{
		UserID: "user-1", FIRNumber: "FIR/2026/000001", CrimeType: "theft",
		Description: "phone stolen", Location: "Pune", IncidentDate: fixedNow, IncidentTime: "18:30",
		IPCSections: []string{"379"}, Status: FIRStatusPending,
	}
	cs := &CaseStatus{
		CaseID: fir.FIRNumber, UserID: "user-1", Status: FIRStatusPending,
		Court: "District Court", HearingDate: &hearing, Remarks: "Case under review by investigating officer",
	}
	audit := &AuditLog{UserID: "user-1", Module: "fir", Action: "create", Details: map[string]interface{}{"firNumber": fir.FIRNumber}}

	require.NoError(t, s.FileFIR(context.Background(), fir, cs, audit))
	assert.Equal(t, "id-1", fir.ID)
	assert.Equal(t, "id-1", cs.FIRID)
	assert.Equal(t, []string{}, fir.EvidenceURLs)
	assert.Equal(t, "id-1", audit.Details["firId"])
	assert.Equal(t, "FIR/2026/000001", audit.Details["firNumber"])
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFileFIR_DuplicateNumber(t *testing.T) {
	s, mock := newTestStore(t)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO fir_reports").WillReturnError(&pq.Error{Code: "23505"})
	mock.ExpectRollback()

	err := s.FileFIR(context.Background(), &FIR{FIRNumber: "FIR/2026/000001", Status: FIRStatusPending}, nil, nil)
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrCodeDuplicateFIR, apperrors.CodeOf(err))
	assert.True(t, apperrors.IsRetryableErrorCode(apperrors.CodeOf(err)))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetFIR(t *testing.T) {
	s, mock := newTestStore(t)
	mock.ExpectQuery("FROM fir_reports WHERE id").
		WithArgs("fir-1").
		WillReturnRows(firRow(sqlmock.NewRows(firCols), "fir-1", FIRStatusPending))

	fir, err := s.GetFIR(context.Background(), "fir-1")
	require.NoError(t, err)
	assert.Equal(t, []string{"379"}, fir.IPCSections)
	assert.Equal(t, []string{}, fir.EvidenceURLs)
	assert.Equal(t, "Shivaji Nagar", fir.PoliceStation)
	assert.Empty(t, fir.InvestigatingOfficer)

	mock.ExpectQuery("FROM fir_reports WHERE id").WithArgs("missing").WillReturnError(sql.ErrNoRows)
	_, err = s.GetFIR(context.Background(), "missing")
	assert.Equal(t, apperrors.ErrCodeFIRNotFound, apperrors.CodeOf(err))
}

func TestListFIRsByUser(t *testing.T) {
	s, mock := newTestStore(t)
	rows := sqlmock.NewRows(firCols)
	firRow(rows, "fir-2", FIRStatusInvestigating)
	firRow(rows, "fir-1", FIRStatusPending)
	mock.ExpectQuery("WHERE user_id").WithArgs("user-1").WillReturnRows(rows)

	firs, err := s.ListFIRsByUser(context.Background(), "user-1")
	require.NoError(t, err)
	require.Len(t, firs, 2)
	assert.Equal(t, "fir-2", firs[0].ID)
}

func TestUpdateFIRStatus(t *testing.T) {
	t.Run("invalid status", func(t *testing.T) {
		s, mock := newTestStore(t)
		_, err := s.UpdateFIRStatus(context.Background(), "fir-1", "closed", "", "", nil)
		assert.Equal(t, apperrors.ErrCodeInvalidFIRStatus, apperrors.CodeOf(err))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("updated", func(t *testing.T) {
		s, mock := newTestStore(t)
		mock.ExpectBegin()
		mock.ExpectQuery("UPDATE fir_reports SET").
			WithArgs("fir-1", FIRStatusInvestigating, "SI Patil", "", fixedNow).
			WillReturnRows(firRow(sqlmock.NewRows(firCols), "fir-1", FIRStatusInvestigating))
		mock.ExpectExec("INSERT INTO audit_logs").
			WithArgs("id-1", "officer-1", "fir", "update", sqlmock.AnyArg(), nil, nil, fixedNow).
			WillReturnResult(sqlmock.NewResult(1, 1))
		mock.ExpectCommit()

		audit := &AuditLog{UserID: "officer-1", Module: "fir", Action: "update",
			Details: map[string]interface{}{"firId": "fir-1", "newStatus": FIRStatusInvestigating}}
		fir, err := s.UpdateFIRStatus(context.Background(), "fir-1", FIRStatusInvestigating, "SI Patil", "", audit)
		require.NoError(t, err)
		assert.Equal(t, FIRStatusInvestigating, fir.Status)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("not found", func(t *testing.T) {
		s, mock := newTestStore(t)
		mock.ExpectBegin()
		mock.ExpectQuery("UPDATE fir_reports SET").WillReturnRows(sqlmock.NewRows(firCols))
		mock.ExpectRollback()

		_, err := s.UpdateFIRStatus(context.Background(), "nope", FIRStatusDisposed, "", "", nil)
		assert.Equal(t, apperrors.ErrCodeFIRNotFound, apperrors.CodeOf(err))
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestCreateChatLog(t *testing.T) {
	s, mock := newTestStore(t)
	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO chat_logs").
		WithArgs("id-1", "user-1", "what is bail", "Bail is...", "hindi", fixedNow).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("INSERT INTO audit_logs").
		WithArgs("id-2", "user-1", "chat", "create", []byte(`{"chatId":"id-1","language":"hindi"}`), nil, nil, fixedNow).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	log := &ChatLog{UserID: "user-1", Query: "what is bail", Response: "Bail is...", Language: "hindi"}
	audit := &AuditLog{UserID: "user-1", Module: "chat", Action: "create", Details: map[string]interface{}{"language": "hindi"}}
	require.NoError(t, s.CreateChatLog(context.Background(), log, audit))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestChatHistory(t *testing.T) {
	s, mock := newTestStore(t)
	rows := sqlmock.NewRows([]string{"id", "user_id", "query", "response", "language", "created_at"}).
		AddRow("c2", "user-1", "second", "r2", "english", fixedNow).
		AddRow("c1", "user-1", "first", "r1", "english", fixedNow.Add(-time.Hour))
	mock.ExpectQuery("FROM chat_logs").WithArgs("user-1", 50).WillReturnRows(rows)

	logs, err := s.ChatHistory(context.Background(), "user-1", 50)
	require.NoError(t, err)
	require.Len(t, logs, 2)
	assert.Equal(t, "second", logs[0].Query)
}

var caseCols = []string{
	"id", "case_id", "fir_id", "user_id", "status", "court", "judge", "hearing_date",
	"next_hearing", "remarks", "created_at", "updated_at",
}

func TestGetCase(t *testing.T) {
	s, mock := newTestStore(t)
	hearing := fixedNow.AddDate(0, 0, 30)
	mock.ExpectQuery("FROM case_status").
		WithArgs("FIR/2026/000007").
		WillReturnRows(sqlmock.NewRows(caseCols).AddRow(
			"case-1", "FIR/2026/000007", "fir-1", "user-1", "pending", "District Court", nil,
			hearing, nil, "Case under review by investigating officer", fixedNow, fixedNow,
		))

	cs, err := s.GetCase(context.Background(), "FIR/2026/000007")
	require.NoError(t, err)
	require.NotNil(t, cs.HearingDate)
	assert.True(t, hearing.Equal(*cs.HearingDate))
	assert.Nil(t, cs.NextHearing)
	assert.Empty(t, cs.Judge)

	mock.ExpectQuery("FROM case_status").WithArgs("missing").WillReturnRows(sqlmock.NewRows(caseCols))
	_, err = s.GetCase(context.Background(), "missing")
	assert.Equal(t, apperrors.ErrCodeCaseNotFound, apperrors.CodeOf(err))
}

func TestAuditLogs(t *testing.T) {
	s, mock := newTestStore(t)
	rows := sqlmock.NewRows([]string{"id", "user_id", "module", "action", "details", "ip_address", "user_agent", "created_at"}).
		AddRow("a1", "user-1", "fir", "create", []byte(`{"firNumber":"FIR/2026/000001"}`), "10.0.0.1", nil, fixedNow).
		AddRow("a2", nil, "system", "migrate", nil, nil, nil, fixedNow)
	mock.ExpectQuery("FROM audit_logs").WithArgs(100).WillReturnRows(rows)

	logs, err := s.AuditLogs(context.Background(), 100)
	require.NoError(t, err)
	require.Len(t, logs, 2)
	assert.Equal(t, "FIR/2026/000001", logs[0].Details["firNumber"])
	assert.Empty(t, logs[1].UserID)
	assert.Nil(t, logs[1].Details)
}

func TestStats(t *testing.T) {
	s, mock := newTestStore(t)
	mock.ExpectQuery("SELECT").
		WithArgs(FIRStatusPending).
		WillReturnRows(sqlmock.NewRows([]string{"users", "firs", "chats", "pending"}).AddRow(12, 30, 140, 9))

	st, err := s.Stats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, Stats{TotalUsers: 12, TotalFIRs: 30, TotalChatSessions: 140, PendingFIRs: 9}, *st)
}

func TestGetUserRole(t *testing.T) {
	s, mock := newTestStore(t)
	mock.ExpectQuery("FROM users WHERE id").
		WithArgs("officer-1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "email", "phone", "first_name", "last_name", "role", "created_at"}).
			AddRow("officer-1", "o@police.example.in", nil, "Ravi", nil, "police", fixedNow))

	role, err := s.GetUserRole(context.Background(), "officer-1")
	require.NoError(t, err)
	assert.Equal(t, "police", role)

	mock.ExpectQuery("FROM users WHERE id").WithArgs("ghost").WillReturnError(sql.ErrNoRows)
	_, err = s.GetUserRole(context.Background(), "ghost")
	assert.Equal(t, apperrors.ErrCodeUserNotFound, apperrors.CodeOf(err))
}

func TestValidFIRStatus(t *testing.T) {
	for _, st := range FIRStatuses() {
		assert.True(t, ValidFIRStatus(st))
	}
	assert.False(t, ValidFIRStatus("closed"))
	assert.False(t, ValidFIRStatus(""))
}
