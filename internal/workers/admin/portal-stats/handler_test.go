package portalstats

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redismock/v9"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"legal-workers/internal/common/auth"
	"legal-workers/internal/common/errors"
	"legal-workers/internal/common/logger"
	"legal-workers/internal/store"
)

var fixedNow = time.Date(2024, 7, 1, 12, 0, 0, 0, time.UTC)

type staticRoles map[string]string

func (r staticRoles) Role(_ context.Context, userID string) (string, error) {
	return r[userID], nil
}

var roles = staticRoles{"admin-1": auth.RoleAdmin, "officer-1": auth.RolePolice}

func createTestConfig() *Config {
	return &Config{
		Timeout:      5 * time.Second,
		CacheKey:     "legal:portal:stats",
		CacheTTL:     time.Minute,
		AuditLimit:   100,
		MaxAuditRows: 1000,
	}
}

func newTestHandler(t *testing.T, cache redis.Cmdable) (*Handler, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	h := NewHandler(createTestConfig(), store.New(db), roles, cache, logger.NewTestLogger(t))
	h.now = func() time.Time { return fixedNow }
	return h, mock
}

func expectStats(mock sqlmock.Sqlmock) {
	mock.ExpectQuery("SELECT").
		WithArgs(store.FIRStatusPending).
		WillReturnRows(sqlmock.NewRows([]string{"users", "firs", "chats", "pending"}).AddRow(12, 7, 40, 3))
}

func TestExecute_CachesStats(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	h, mock := newTestHandler(t, client)
	expectStats(mock)

	first, err := h.Execute(context.Background(), &Input{ActorID: "admin-1"})
	require.NoError(t, err)
	assert.False(t, first.Cached)
	assert.Equal(t, store.Stats{TotalUsers: 12, TotalFIRs: 7, TotalChatSessions: 40, PendingFIRs: 3}, first.Stats)
	assert.True(t, mr.Exists("legal:portal:stats"))
	assert.Equal(t, time.Minute, mr.TTL("legal:portal:stats"))

	second, err := h.Execute(context.Background(), &Input{ActorID: "admin-1"})
	require.NoError(t, err)
	assert.True(t, second.Cached)
	assert.Equal(t, first.Stats, second.Stats)
	assert.Equal(t, fixedNow, second.GeneratedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestExecute_RefreshBypassesCache(t *testing.T) {
	mr := miniredis.RunT(t)
	require.NoError(t, mr.Set("legal:portal:stats", `{"stats":{"totalUsers":1}}`))
	h, mock := newTestHandler(t, redis.NewClient(&redis.Options{Addr: mr.Addr()}))
	expectStats(mock)

	out, err := h.Execute(context.Background(), &Input{ActorID: "admin-1", Refresh: true})
	require.NoError(t, err)
	assert.False(t, out.Cached)
	assert.Equal(t, 12, out.Stats.TotalUsers)
}

func TestExecute_CacheErrorsFallBackToDatabase(t *testing.T) {
	client, redisMock := redismock.NewClientMock()
	h, mock := newTestHandler(t, client)

	redisMock.ExpectGet("legal:portal:stats").SetErr(assert.AnError)
	expectStats(mock)
	payload, _ := json.Marshal(cachedStats{
		Stats:       store.Stats{TotalUsers: 12, TotalFIRs: 7, TotalChatSessions: 40, PendingFIRs: 3},
		GeneratedAt: fixedNow,
	})
	redisMock.ExpectSet("legal:portal:stats", payload, time.Minute).SetErr(assert.AnError)

	out, err := h.Execute(context.Background(), &Input{ActorID: "admin-1"})
	require.NoError(t, err)
	assert.False(t, out.Cached)
	assert.Equal(t, 7, out.Stats.TotalFIRs)
	assert.NoError(t, redisMock.ExpectationsWereMet())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestExecute_IncludesAuditLogs(t *testing.T) {
	h, mock := newTestHandler(t, nil)
	expectStats(mock)
	mock.ExpectQuery("FROM audit_logs").
		WithArgs(100).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "module", "action", "details", "ip_address", "user_agent", "created_at"}).
			AddRow("a1", "officer-1", "fir", "update", []byte(`{"firId":"fir-1","newStatus":"investigating"}`), nil, nil, fixedNow))

	out, err := h.Execute(context.Background(), &Input{ActorID: "admin-1", IncludeAudit: true})
	require.NoError(t, err)
	require.Len(t, out.AuditLogs, 1)
	assert.Equal(t, "investigating", out.AuditLogs[0].Details["newStatus"])
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestExecute_AuditLimitClamped(t *testing.T) {
	h, mock := newTestHandler(t, nil)
	expectStats(mock)
	mock.ExpectQuery("FROM audit_logs").WithArgs(1000).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "module", "action", "details", "ip_address", "user_agent", "created_at"}))

	_, err := h.Execute(context.Background(), &Input{ActorID: "admin-1", IncludeAudit: true, AuditLimit: 50000})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestExecute_NonAdminDenied(t *testing.T) {
	h, mock := newTestHandler(t, nil)

	_, err := h.Execute(context.Background(), &Input{ActorID: "officer-1"})
	require.Error(t, err)
	assert.Equal(t, errors.ErrCodeAccessDenied, errors.CodeOf(err))
	assert.NoError(t, mock.ExpectationsWereMet())
}
