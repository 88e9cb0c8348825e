//go:build e2e

// test/e2e/e2e_test.go
package e2e

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/zbc"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"legal-workers/internal/common/auth"
	"legal-workers/internal/common/config"
	"legal-workers/internal/common/database"
	"legal-workers/internal/common/events"
	"legal-workers/internal/common/logger"
	"legal-workers/internal/legal/classifier"
	"legal-workers/internal/legal/ipc"
	"legal-workers/internal/legal/knowledge"
	"legal-workers/internal/search"
	"legal-workers/internal/store"

	portalstats "legal-workers/internal/workers/admin/portal-stats"
	getcasestatus "legal-workers/internal/workers/cases/get-case-status"
	generatefir "legal-workers/internal/workers/fir/generate-fir"
	notifyfir "legal-workers/internal/workers/fir/notify-fir"
	searchfirs "legal-workers/internal/workers/fir/search-firs"
	updatefirstatus "legal-workers/internal/workers/fir/update-fir-status"
	classifyquery "legal-workers/internal/workers/legal-assistant/classify-query"
	getchathistory "legal-workers/internal/workers/legal-assistant/get-chat-history"
)

var zeebeClient zbc.Client

func TestMain(m *testing.M) {
	var err error
	zeebeClient, err = zbc.NewClient(&zbc.ClientConfig{
		GatewayAddress:         "localhost:26500",
		UsePlaintextConnection: true,
	})
	if err != nil {
		panic(fmt.Sprintf("❌ Failed to connect to Zeebe: %v", err))
	}

	code := m.Run()

	zeebeClient.Close()
	os.Exit(code)
}

type env struct {
	cfg   *config.Config
	pg    *database.PostgresClient
	es    *database.ElasticsearchClient
	redis *database.RedisClient
	store *store.Store
	index *search.FIRIndex
	roles *auth.RoleCache

	citizen, officer, admin string
}

func TestFullE2E(t *testing.T) {
	cfg, err := config.Load()
	require.NoError(t, err)

	// 🔧 FORCE LOCALHOST FOR E2E TESTS
	cfg.Database.Postgres.Host = "localhost"
	cfg.Database.Redis.Address = "localhost:6379"
	cfg.Database.Elasticsearch.URL = "http://localhost:9200"
	cfg.Database.Elasticsearch.Addresses = nil
	cfg.Database.Elasticsearch.FIRIndex = "fir_reports_e2e"

	t.Log("🚀 Starting legal portal E2E test with real services...")
	e := connect(t, cfg)
	seedUsers(t, e)

	t.Run("chat", func(t *testing.T) { testChat(t, e) })
	t.Run("fir lifecycle", func(t *testing.T) { testFIRLifecycle(t, e) })
	t.Run("portal stats", func(t *testing.T) { testPortalStats(t, e) })

	t.Log("✅ ALL TESTS PASSED")
}

func connect(t *testing.T, cfg *config.Config) *env {
	ctx := context.Background()

	_, err := zeebeClient.NewTopologyCommand().Send(ctx)
	require.NoError(t, err, "❌ Zeebe topology request failed")
	t.Log("✅ Zeebe connected")

	pg, err := database.NewPostgres(cfg.Database.Postgres)
	require.NoError(t, err)
	require.NoError(t, pg.Ping(ctx), "❌ PostgreSQL ping failed")
	require.NoError(t, database.EnsureSchema(ctx, pg.DB))
	t.Cleanup(func() { pg.Close() })
	t.Log("✅ PostgreSQL connected, schema applied")

	es, err := database.NewElasticsearch(cfg.Database.Elasticsearch)
	require.NoError(t, err)
	require.NoError(t, es.Ping(ctx), "❌ Elasticsearch ping failed")
	require.NoError(t, es.EnsureIndex(ctx, cfg.Database.Elasticsearch.FIRIndex, search.Mapping))
	t.Log("✅ Elasticsearch connected")

	rdb := database.NewRedis(cfg.Database.Redis)
	require.NoError(t, rdb.Ping(ctx), "❌ Redis ping failed")
	t.Cleanup(func() { rdb.Close() })
	t.Log("✅ Redis connected")

	s := store.New(pg.DB)
	return &env{
		cfg:   cfg,
		pg:    pg,
		es:    es,
		redis: rdb,
		store: s,
		index: search.NewFIRIndex(es.Client, cfg.Database.Elasticsearch.FIRIndex),
		roles: auth.NewRoleCache(s, time.Minute),
	}
}

func seedUsers(t *testing.T, e *env) {
	suffix := uuid.NewString()[:8]
	e.citizen = "e2e-citizen-" + suffix
	e.officer = "e2e-officer-" + suffix
	e.admin = "e2e-admin-" + suffix

	for id, role := range map[string]string{e.citizen: auth.RoleCitizen, e.officer: auth.RolePolice, e.admin: auth.RoleAdmin} {
		_, err := e.pg.DB.ExecContext(context.Background(),
			`INSERT INTO users (id, email, phone, first_name, role) VALUES ($1, $2, $3, $4, $5)`,
			id, id+"@example.in", "+919800000000", "E2E", role)
		require.NoError(t, err)
	}
	t.Log("✅ Test users created")
}

func testChat(t *testing.T, e *env) {
	ctx := context.Background()
	log := logger.NewTestLogger(t)

	h := classifyquery.NewHandler(classifyquery.LoadConfig(), classifier.New(knowledge.Default()),
		e.store, events.NoopPublisher{}, nil, log)
	out, err := h.Execute(ctx, &classifyquery.Input{
		Query:  "how do I apply for anticipatory bail",
		UserID: e.citizen,
	})
	require.NoError(t, err)
	assert.Equal(t, "bail_procedure", out.EntryID)
	assert.NotEmpty(t, out.ChatID)

	history := getchathistory.NewHandler(getchathistory.LoadConfig(), e.store, log)
	hist, err := history.Execute(ctx, &getchathistory.Input{UserID: e.citizen})
	require.NoError(t, err)
	require.Equal(t, 1, hist.Count)
	assert.Equal(t, out.ChatID, hist.History[0].ID)
}

func testFIRLifecycle(t *testing.T, e *env) {
	ctx := context.Background()
	log := logger.NewTestLogger(t)

	gen := generatefir.NewHandler(generatefir.LoadConfig(e.cfg.Legal), ipc.NewDefaultGenerator(),
		e.store, e.index, events.NoopPublisher{}, log)
	filed, err := gen.Execute(ctx, &generatefir.Input{
		UserID:       e.citizen,
		CrimeType:    "theft",
		Description:  "My phone was stolen by someone I met online",
		Location:     "MG Road, Pune",
		IncidentDate: time.Now().Format("2006-01-02"),
	})
	require.NoError(t, err)
	assert.Equal(t, store.FIRStatusPending, filed.Status)
	assert.Equal(t, []string{"379", "IT Act 66"}, filed.IPCSections)
	assert.True(t, filed.Indexed)
	t.Logf("📄 Filed %s", filed.FIRNumber)

	update := updatefirstatus.NewHandler(updatefirstatus.LoadConfig(), e.store, e.roles, e.index, events.NoopPublisher{}, log)
	_, err = update.Execute(ctx, &updatefirstatus.Input{
		FIRID: filed.FIRID, Status: store.FIRStatusInvestigating, ActorID: e.citizen,
	})
	require.Error(t, err, "citizens must not change FIR status")

	updated, err := update.Execute(ctx, &updatefirstatus.Input{
		FIRID:                filed.FIRID,
		Status:               store.FIRStatusInvestigating,
		ActorID:              e.officer,
		InvestigatingOfficer: "SI Patil",
		PoliceStation:        "Shivajinagar",
	})
	require.NoError(t, err)
	assert.Equal(t, store.FIRStatusInvestigating, updated.Status)

	res, err := e.es.Client.Indices.Refresh(e.es.Client.Indices.Refresh.WithIndex(e.index.Name()))
	require.NoError(t, err)
	res.Body.Close()

	searcher := searchfirs.NewHandler(searchfirs.LoadConfig(), e.index, e.roles, log)
	found, err := searcher.Execute(ctx, &searchfirs.Input{ActorID: e.officer, UserID: e.citizen})
	require.NoError(t, err)
	require.EqualValues(t, 1, found.Total)
	assert.Equal(t, "Shivajinagar", found.FIRs[0].PoliceStation)

	notify := notifyfir.NewHandler(notifyfir.LoadConfig(config.NotificationConfig{}), e.store, nil, nil, log)
	sent, err := notify.Execute(ctx, &notifyfir.Input{FIRID: filed.FIRID, Event: notifyfir.EventStatusChanged})
	require.NoError(t, err)
	assert.Equal(t, notifyfir.DeliveryDisabled, sent.Email.Status)

	cases := getcasestatus.NewHandler(getcasestatus.LoadConfig(e.cfg.Legal.Case), e.store, e.roles, log)
	mine, err := cases.Execute(ctx, &getcasestatus.Input{UserID: e.citizen})
	require.NoError(t, err)
	require.Equal(t, 1, mine.Count)

	one, err := cases.Execute(ctx, &getcasestatus.Input{UserID: e.officer, CaseID: filed.CaseID})
	require.NoError(t, err)
	assert.Equal(t, filed.CaseID, one.Case.CaseID)
}

func testPortalStats(t *testing.T, e *env) {
	ctx := context.Background()
	cfg := portalstats.LoadConfig(e.cfg.Database.Redis.StatsTTL, e.cfg.Legal.AuditLogLimit)
	cfg.CacheKey = "legal:portal:stats:e2e"
	h := portalstats.NewHandler(cfg, e.store, e.roles, e.redis.Client, logger.NewTestLogger(t))
	t.Cleanup(func() { e.redis.Client.Del(context.Background(), cfg.CacheKey) })

	first, err := h.Execute(ctx, &portalstats.Input{ActorID: e.admin, Refresh: true, IncludeAudit: true})
	require.NoError(t, err)
	assert.False(t, first.Cached)
	assert.GreaterOrEqual(t, first.Stats.TotalFIRs, 1)
	assert.NotEmpty(t, first.AuditLogs)

	second, err := h.Execute(ctx, &portalstats.Input{ActorID: e.admin})
	require.NoError(t, err)
	assert.True(t, second.Cached)
	assert.Equal(t, first.Stats, second.Stats)
}
