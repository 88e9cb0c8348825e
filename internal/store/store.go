package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	apperrors "legal-workers/internal/common/errors"
)

const uniqueViolation = "23505"

const firColumns = `id, user_id, fir_number, crime_type, description, location, incident_date,
	incident_time, ipc_sections, evidence_urls, status, investigating_officer, police_station,
	pdf_url, created_at, updated_at`

const caseColumns = `id, case_id, fir_id, user_id, status, court, judge, hearing_date,
	next_hearing, remarks, created_at, updated_at`

// Store is the Postgres repository for the portal tables.
type Store struct {
	db    *sql.DB
	now   func() time.Time
	newID func() string
}

func New(db *sql.DB) *Store {
	return &Store{
		db:    db,
		now:   func() time.Time { return time.Now().UTC() },
		newID: uuid.NewString,
	}
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func (s *Store) GetUser(ctx context.Context, userID string) (*User, error) {
	var u User
	var email, phone, first, last sql.NullString
	err := s.db.QueryRowContext(ctx, `
		SELECT id, email, phone, first_name, last_name, role, created_at
		FROM users WHERE id = $1`, userID).
		Scan(&u.ID, &email, &phone, &first, &last, &u.Role, &u.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.NewUserNotFoundError(userID)
	}
	if err != nil {
		return nil, apperrors.NewQueryExecutionFailedError("get_user", err)
	}
	u.Email, u.Phone, u.FirstName, u.LastName = email.String, phone.String, first.String, last.String
	return &u, nil
}

// GetUserRole implements auth.RoleLookup.
func (s *Store) GetUserRole(ctx context.Context, userID string) (string, error) {
	u, err := s.GetUser(ctx, userID)
	if err != nil {
		return "", err
	}
	return u.Role, nil
}

// NextFIRNumber returns FIR/<year>/<count+1 padded to six digits>.
func (s *Store) NextFIRNumber(ctx context.Context) (string, error) {
	var count int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM fir_reports`).Scan(&count); err != nil {
		return "", apperrors.NewQueryExecutionFailedError("count_firs", err)
	}
	return FormatFIRNumber(s.now().Year(), count+1), nil
}

func FormatFIRNumber(year, sequence int) string {
	return fmt.Sprintf("FIR/%d/%06d", year, sequence)
}

// FileFIR inserts the FIR, its case record and the audit entry in one
// transaction. IDs and timestamps left empty are filled in.
func (s *Store) FileFIR(ctx context.Context, fir *FIR, cs *CaseStatus, audit *AuditLog) error {
	now := s.now()
	if fir.ID == "" {
		fir.ID = s.newID()
	}
	fir.CreatedAt, fir.UpdatedAt = now, now
	if fir.IPCSections == nil {
		fir.IPCSections = []string{}
	}
	if fir.EvidenceURLs == nil {
		fir.EvidenceURLs = []string{}
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return apperrors.NewDatabaseConnectionFailedError(err)
	}
	defer func() { _ = tx.Rollback() }()

	sections, _ := json.Marshal(fir.IPCSections)
	evidence, _ := json.Marshal(fir.EvidenceURLs)
	_, err = tx.ExecContext(ctx, `
		INSERT INTO fir_reports (`+firColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)`,
		fir.ID, fir.UserID, fir.FIRNumber, fir.CrimeType, fir.Description, fir.Location,
		fir.IncidentDate, nullString(fir.IncidentTime), sections, evidence, fir.Status,
		nullString(fir.InvestigatingOfficer), nullString(fir.PoliceStation), nullString(fir.PDFURL),
		fir.CreatedAt, fir.UpdatedAt,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return apperrors.NewDuplicateFIRError(fir.FIRNumber, err)
		}
		return apperrors.NewDatabaseInsertFailedError(err)
	}

	if cs != nil {
		cs.FIRID = fir.ID
		if err := s.insertCase(ctx, tx, cs, now); err != nil {
			return err
		}
	}
	if audit != nil {
		if audit.Details == nil {
			audit.Details = map[string]interface{}{}
		}
		audit.Details["firId"] = fir.ID
		if err := s.insertAudit(ctx, tx, audit, now); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return apperrors.NewDatabaseInsertFailedError(err)
	}
	return nil
}

func (s *Store) GetFIR(ctx context.Context, firID string) (*FIR, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+firColumns+` FROM fir_reports WHERE id = $1`, firID)
	fir, err := scanFIR(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.NewFIRNotFoundError(firID)
	}
	if err != nil {
		return nil, apperrors.NewQueryExecutionFailedError("get_fir", err)
	}
	return fir, nil
}

func (s *Store) ListFIRsByUser(ctx context.Context, userID string) ([]FIR, error) {
	return s.queryFIRs(ctx, "firs_by_user", `
		SELECT `+firColumns+` FROM fir_reports
		WHERE user_id = $1 ORDER BY created_at DESC`, userID)
}

func (s *Store) ListFIRs(ctx context.Context, limit int) ([]FIR, error) {
	return s.queryFIRs(ctx, "all_firs", `
		SELECT `+firColumns+` FROM fir_reports
		ORDER BY created_at DESC LIMIT $1`, limit)
}

func (s *Store) queryFIRs(ctx context.Context, queryType, query string, args ...interface{}) ([]FIR, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewQueryExecutionFailedError(queryType, err)
	}
	defer rows.Close()

	firs := []FIR{}
	for rows.Next() {
		fir, err := scanFIR(rows)
		if err != nil {
			return nil, apperrors.NewQueryExecutionFailedError(queryType, err)
		}
		firs = append(firs, *fir)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewQueryExecutionFailedError(queryType, err)
	}
	return firs, nil
}

// UpdateFIRStatus sets the status and, when non-empty, the officer and
// station, then records audit in the same transaction.
func (s *Store) UpdateFIRStatus(ctx context.Context, firID, status, officer, station string, audit *AuditLog) (*FIR, error) {
	if !ValidFIRStatus(status) {
		return nil, apperrors.NewInvalidFIRStatusError(status)
	}
	now := s.now()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, apperrors.NewDatabaseConnectionFailedError(err)
	}
	defer func() { _ = tx.Rollback() }()

	row := tx.QueryRowContext(ctx, `
		UPDATE fir_reports SET
			status = $2,
			investigating_officer = COALESCE(NULLIF($3, ''), investigating_officer),
			police_station = COALESCE(NULLIF($4, ''), police_station),
			updated_at = $5
		WHERE id = $1
		RETURNING `+firColumns, firID, status, officer, station, now)
	fir, err := scanFIR(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.NewFIRNotFoundError(firID)
	}
	if err != nil {
		return nil, apperrors.NewQueryExecutionFailedError("update_fir_status", err)
	}

	if audit != nil {
		if err := s.insertAudit(ctx, tx, audit, now); err != nil {
			return nil, err
		}
	}
	if err := tx.Commit(); err != nil {
		return nil, apperrors.NewQueryExecutionFailedError("update_fir_status", err)
	}
	return fir, nil
}

func scanFIR(row scanner) (*FIR, error) {
	var (
		fir                                 FIR
		incidentTime, officer, station, pdf sql.NullString
		sections, evidence                  []byte
	)
	err := row.Scan(
		&fir.ID, &fir.UserID, &fir.FIRNumber, &fir.CrimeType, &fir.Description, &fir.Location,
		&fir.IncidentDate, &incidentTime, &sections, &evidence, &fir.Status,
		&officer, &station, &pdf, &fir.CreatedAt, &fir.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	fir.IncidentTime = incidentTime.String
	fir.InvestigatingOfficer = officer.String
	fir.PoliceStation = station.String
	fir.PDFURL = pdf.String
	fir.IPCSections = decodeStrings(sections)
	fir.EvidenceURLs = decodeStrings(evidence)
	return &fir, nil
}

// CreateChatLog stores a chat exchange and its audit entry.
func (s *Store) CreateChatLog(ctx context.Context, log *ChatLog, audit *AuditLog) error {
	now := s.now()
	if log.ID == "" {
		log.ID = s.newID()
	}
	log.CreatedAt = now

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return apperrors.NewDatabaseConnectionFailedError(err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO chat_logs (id, user_id, query, response, language, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		log.ID, log.UserID, log.Query, log.Response, log.Language, log.CreatedAt,
	); err != nil {
		return apperrors.NewDatabaseInsertFailedError(err)
	}

	if audit != nil {
		if audit.Details == nil {
			audit.Details = map[string]interface{}{}
		}
		audit.Details["chatId"] = log.ID
		if err := s.insertAudit(ctx, tx, audit, now); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return apperrors.NewDatabaseInsertFailedError(err)
	}
	return nil
}

// ChatHistory returns a user's chat logs, newest first.
func (s *Store) ChatHistory(ctx context.Context, userID string, limit int) ([]ChatLog, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, user_id, query, response, language, created_at
		FROM chat_logs WHERE user_id = $1
		ORDER BY created_at DESC LIMIT $2`, userID, limit)
	if err != nil {
		return nil, apperrors.NewQueryExecutionFailedError("chat_history", err)
	}
	defer rows.Close()

	logs := []ChatLog{}
	for rows.Next() {
		var l ChatLog
		if err := rows.Scan(&l.ID, &l.UserID, &l.Query, &l.Response, &l.Language, &l.CreatedAt); err != nil {
			return nil, apperrors.NewQueryExecutionFailedError("chat_history", err)
		}
		logs = append(logs, l)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewQueryExecutionFailedError("chat_history", err)
	}
	return logs, nil
}

func (s *Store) insertCase(ctx context.Context, db execer, cs *CaseStatus, now time.Time) error {
	if cs.ID == "" {
		cs.ID = s.newID()
	}
	cs.CreatedAt, cs.UpdatedAt = now, now
	_, err := db.ExecContext(ctx, `
		INSERT INTO case_status (`+caseColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
		cs.ID, cs.CaseID, nullString(cs.FIRID), cs.UserID, cs.Status, nullString(cs.Court),
		nullString(cs.Judge), cs.HearingDate, cs.NextHearing, nullString(cs.Remarks),
		cs.CreatedAt, cs.UpdatedAt,
	)
	if err != nil {
		return apperrors.NewDatabaseInsertFailedError(err)
	}
	return nil
}

func (s *Store) CasesByUser(ctx context.Context, userID string) ([]CaseStatus, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+caseColumns+` FROM case_status
		WHERE user_id = $1 ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, apperrors.NewQueryExecutionFailedError("cases_by_user", err)
	}
	defer rows.Close()

	cases := []CaseStatus{}
	for rows.Next() {
		cs, err := scanCase(rows)
		if err != nil {
			return nil, apperrors.NewQueryExecutionFailedError("cases_by_user", err)
		}
		cases = append(cases, *cs)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewQueryExecutionFailedError("cases_by_user", err)
	}
	return cases, nil
}

// GetCase looks a case up by its public case id or its row id.
func (s *Store) GetCase(ctx context.Context, key string) (*CaseStatus, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+caseColumns+` FROM case_status
		WHERE case_id = $1 OR id::text = $1
		LIMIT 1`, key)
	cs, err := scanCase(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.NewCaseNotFoundError(key)
	}
	if err != nil {
		return nil, apperrors.NewQueryExecutionFailedError("get_case", err)
	}
	return cs, nil
}

func scanCase(row scanner) (*CaseStatus, error) {
	var (
		cs                           CaseStatus
		firID, court, judge, remarks sql.NullString
		hearing, next                sql.NullTime
	)
	err := row.Scan(
		&cs.ID, &cs.CaseID, &firID, &cs.UserID, &cs.Status, &court, &judge,
		&hearing, &next, &remarks, &cs.CreatedAt, &cs.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	cs.FIRID, cs.Court, cs.Judge, cs.Remarks = firID.String, court.String, judge.String, remarks.String
	if hearing.Valid {
		cs.HearingDate = &hearing.Time
	}
	if next.Valid {
		cs.NextHearing = &next.Time
	}
	return &cs, nil
}

func (s *Store) CreateAuditLog(ctx context.Context, audit *AuditLog) error {
	return s.insertAudit(ctx, s.db, audit, s.now())
}

func (s *Store) insertAudit(ctx context.Context, db execer, audit *AuditLog, now time.Time) error {
	if audit.ID == "" {
		audit.ID = s.newID()
	}
	audit.CreatedAt = now

	var details interface{}
	if audit.Details != nil {
		raw, err := json.Marshal(audit.Details)
		if err != nil {
			return apperrors.NewInputValidationError("audit details: " + err.Error())
		}
		details = raw
	}

	_, err := db.ExecContext(ctx, `
		INSERT INTO audit_logs (id, user_id, module, action, details, ip_address, user_agent, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		audit.ID, nullString(audit.UserID), audit.Module, audit.Action, details,
		nullString(audit.IPAddress), nullString(audit.UserAgent), audit.CreatedAt,
	)
	if err != nil {
		return apperrors.NewDatabaseInsertFailedError(err)
	}
	return nil
}

// AuditLogs returns the most recent audit entries.
func (s *Store) AuditLogs(ctx context.Context, limit int) ([]AuditLog, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, user_id, module, action, details, ip_address, user_agent, created_at
		FROM audit_logs ORDER BY created_at DESC LIMIT $1`, limit)
	if err != nil {
		return nil, apperrors.NewQueryExecutionFailedError("audit_logs", err)
	}
	defer rows.Close()

	logs := []AuditLog{}
	for rows.Next() {
		var a AuditLog
		var userID, ip, agent sql.NullString
		var details []byte
		if err := rows.Scan(&a.ID, &userID, &a.Module, &a.Action, &details, &ip, &agent, &a.CreatedAt); err != nil {
			return nil, apperrors.NewQueryExecutionFailedError("audit_logs", err)
		}
		a.UserID, a.IPAddress, a.UserAgent = userID.String, ip.String, agent.String
		if len(details) > 0 {
			_ = json.Unmarshal(details, &a.Details)
		}
		logs = append(logs, a)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewQueryExecutionFailedError("audit_logs", err)
	}
	return logs, nil
}

func (s *Store) Stats(ctx context.Context) (*Stats, error) {
	var st Stats
	err := s.db.QueryRowContext(ctx, `
		SELECT
			(SELECT COUNT(*) FROM users),
			(SELECT COUNT(*) FROM fir_reports),
			(SELECT COUNT(*) FROM chat_logs),
			(SELECT COUNT(*) FROM fir_reports WHERE status = $1)`, FIRStatusPending).
		Scan(&st.TotalUsers, &st.TotalFIRs, &st.TotalChatSessions, &st.PendingFIRs)
	if err != nil {
		return nil, apperrors.NewQueryExecutionFailedError("stats", err)
	}
	return &st, nil
}

func nullString(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}

func decodeStrings(raw []byte) []string {
	out := []string{}
	if len(raw) > 0 {
		_ = json.Unmarshal(raw, &out)
	}
	if out == nil {
		out = []string{}
	}
	return out
}
