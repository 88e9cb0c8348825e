package getcasestatus

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"legal-workers/internal/common/auth"
	"legal-workers/internal/common/config"
	"legal-workers/internal/common/errors"
	"legal-workers/internal/common/logger"
	"legal-workers/internal/legal/tracking"
	"legal-workers/internal/store"
)

var (
	filedAt = time.Date(2024, 4, 1, 9, 0, 0, 0, time.UTC)
	hearing = time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)

	caseCols = []string{
		"id", "case_id", "fir_id", "user_id", "status", "court", "judge", "hearing_date",
		"next_hearing", "remarks", "created_at", "updated_at",
	}
)

type staticRoles map[string]string

func (r staticRoles) Role(_ context.Context, userID string) (string, error) {
	return r[userID], nil
}

func createTestConfig() *Config {
	return &Config{
		Timeout: 5 * time.Second,
		Case: config.CaseConfig{
			Court:     "District Court",
			Judge:     "Hon. Justice R.K. Sharma",
			Courtroom: "Courtroom 3",
			Address:   "District Court Complex, Civil Lines",
		},
	}
}

func newTestHandler(t *testing.T, roles RoleResolver) (*Handler, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewHandler(createTestConfig(), store.New(db), roles, logger.NewTestLogger(t)), mock
}

func caseRow(rows *sqlmock.Rows, id, caseID, userID, status string) *sqlmock.Rows {
	return rows.AddRow(id, caseID, "fir-"+id, userID, status, nil, nil, hearing, nil,
		"Case under review by investigating officer", filedAt, filedAt)
}

func TestExecute_ListsUserCases(t *testing.T) {
	h, mock := newTestHandler(t, nil)
	mock.ExpectQuery("FROM case_status").
		WithArgs("user-1").
		WillReturnRows(caseRow(caseRow(sqlmock.NewRows(caseCols),
			"c2", "FIR/2024/000002", "user-1", store.FIRStatusInvestigating),
			"c1", "FIR/2024/000001", "user-1", store.FIRStatusPending))

	out, err := h.Execute(context.Background(), &Input{UserID: "user-1"})
	require.NoError(t, err)
	require.Equal(t, 2, out.Count)
	assert.Nil(t, out.Case)

	first := out.Cases[0]
	assert.Equal(t, "FIR/2024/000002", first.CaseID)
	assert.Equal(t, "District Court", first.CourtDetails.Name)
	assert.Equal(t, "Hon. Justice R.K. Sharma", first.CourtDetails.Judge)
	require.Len(t, first.Timeline, 3)
	assert.Equal(t, tracking.StepCompleted, first.Timeline[1].Status)
	assert.Equal(t, tracking.StepPending, out.Cases[1].Timeline[1].Status)
	assert.Equal(t, hearing, *first.Timeline[2].Date)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestExecute_FindsOwnCaseByKey(t *testing.T) {
	for _, key := range []string{"FIR/2024/000001", "c1"} {
		t.Run(key, func(t *testing.T) {
			h, mock := newTestHandler(t, nil)
			mock.ExpectQuery("FROM case_status").
				WillReturnRows(caseRow(sqlmock.NewRows(caseCols), "c1", "FIR/2024/000001", "user-1", store.FIRStatusPending))

			out, err := h.Execute(context.Background(), &Input{UserID: "user-1", CaseID: key})
			require.NoError(t, err)
			require.NotNil(t, out.Case)
			assert.Equal(t, "c1", out.Case.ID)
			assert.Equal(t, 1, out.Count)
		})
	}
}

func TestExecute_OtherUsersCaseHidden(t *testing.T) {
	h, mock := newTestHandler(t, staticRoles{"user-1": auth.RoleCitizen})
	mock.ExpectQuery("FROM case_status").WillReturnRows(sqlmock.NewRows(caseCols))

	_, err := h.Execute(context.Background(), &Input{UserID: "user-1", CaseID: "FIR/2024/000077"})
	require.Error(t, err)
	assert.Equal(t, errors.ErrCodeCaseNotFound, errors.CodeOf(err))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestExecute_OfficerOpensAnyCase(t *testing.T) {
	h, mock := newTestHandler(t, staticRoles{"officer-1": auth.RolePolice})
	mock.ExpectQuery("FROM case_status").WithArgs("officer-1").WillReturnRows(sqlmock.NewRows(caseCols))
	mock.ExpectQuery("FROM case_status").
		WithArgs("FIR/2024/000077").
		WillReturnRows(caseRow(sqlmock.NewRows(caseCols), "c77", "FIR/2024/000077", "user-9", store.FIRStatusCourtProceedings))

	out, err := h.Execute(context.Background(), &Input{UserID: "officer-1", CaseID: "FIR/2024/000077"})
	require.NoError(t, err)
	assert.Equal(t, "user-9", out.Case.UserID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestExecute_MissingUser(t *testing.T) {
	h, _ := newTestHandler(t, nil)
	_, err := h.Execute(context.Background(), &Input{})
	require.Error(t, err)
	assert.Equal(t, errors.ErrCodeInputValidationFailed, errors.CodeOf(err))
}
