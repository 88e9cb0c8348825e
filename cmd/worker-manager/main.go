// cmd/worker-manager/main.go
package main

import (
	"context"
	stderrors "errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"legal-workers/internal/api"
	"legal-workers/internal/common/auth"
	awsclient "legal-workers/internal/common/aws"
	"legal-workers/internal/common/camunda"
	"legal-workers/internal/common/config"
	"legal-workers/internal/common/database"
	"legal-workers/internal/common/events"
	"legal-workers/internal/common/logger"
	"legal-workers/internal/common/observability"
	"legal-workers/internal/legal/classifier"
	"legal-workers/internal/legal/ipc"
	"legal-workers/internal/legal/knowledge"
	"legal-workers/internal/search"
	"legal-workers/internal/store"

	ps "legal-workers/internal/workers/admin/portal-stats"
	gcs "legal-workers/internal/workers/cases/get-case-status"
	gf "legal-workers/internal/workers/fir/generate-fir"
	nf "legal-workers/internal/workers/fir/notify-fir"
	sf "legal-workers/internal/workers/fir/search-firs"
	ufs "legal-workers/internal/workers/fir/update-fir-status"
	cq "legal-workers/internal/workers/legal-assistant/classify-query"
	gch "legal-workers/internal/workers/legal-assistant/get-chat-history"
	sis "legal-workers/internal/workers/legal-assistant/suggest-ipc-sections"
)

var version = "dev"

// retryWithBackoff attempts to execute a function with exponential backoff
func retryWithBackoff(operation func() error, maxRetries int, initialDelay time.Duration, log *zap.Logger, operationName string) error {
	var err error
	delay := initialDelay

	for i := 0; i < maxRetries; i++ {
		err = operation()
		if err == nil {
			return nil
		}

		if i < maxRetries-1 {
			log.Warn(fmt.Sprintf("%s failed, retrying...", operationName),
				zap.Error(err),
				zap.Int("attempt", i+1),
				zap.Int("maxRetries", maxRetries),
				zap.Duration("nextRetryIn", delay),
			)
			time.Sleep(delay)
			delay *= 2
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operationName, maxRetries, err)
}

// jobTimeout prefers an explicitly configured worker timeout over the
// handler's own default.
func jobTimeout(cfg *config.Config, taskType string, fallback time.Duration) time.Duration {
	if w, ok := cfg.Workers[config.WorkerKey(taskType)]; ok && w.Timeout > 0 {
		return config.GetDuration(w.Timeout)
	}
	return fallback
}

func main() {
	bootLog := logger.New("info", "console")

	cfg, err := config.Load()
	if err != nil {
		bootLog.Fatal("config load failed", zap.Error(err))
	}
	if cfg.App.Version == "" {
		cfg.App.Version = version
	}

	zapLog := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	defer zapLog.Sync()
	log := logger.NewZapAdapter(zapLog)

	zapLog.Info("Starting worker manager...",
		zap.String("version", cfg.App.Version),
		zap.String("environment", cfg.App.Environment),
		zap.String("configFile", cfg.ConfigFile),
	)

	obs, err := observability.New(cfg.App.Name)
	if err != nil {
		zapLog.Warn("metrics provider unavailable", zap.Error(err))
	}
	tracing, err := observability.InitTracing(cfg.Tracing, cfg.App.Version, cfg.App.Environment)
	if err != nil {
		zapLog.Warn("tracing disabled", zap.Error(err))
	}
	obs.AttachTracing(tracing)
	defer obs.Shutdown(context.Background())

	ctx := context.Background()

	// --- Zeebe ---
	zeebe, err := camunda.NewClient(ctx, cfg.Camunda, camunda.DefaultRetryConfig)
	if err != nil {
		zapLog.Fatal("zeebe client failed after retries", zap.Error(err))
	}
	zapLog.Info("Zeebe client connected successfully")

	// --- PostgreSQL ---
	var pg *database.PostgresClient
	err = retryWithBackoff(func() error {
		var err error
		pg, err = database.NewPostgres(cfg.Database.Postgres)
		if err != nil {
			return err
		}
		return pg.Ping(ctx)
	}, 15, 2*time.Second, zapLog, "PostgreSQL connection")
	if err != nil {
		zapLog.Fatal("postgres failed after retries", zap.Error(err))
	}
	defer pg.Close()
	if cfg.Database.Postgres.AutoMigrate {
		if err := database.EnsureSchema(ctx, pg.DB); err != nil {
			zapLog.Fatal("schema migration failed", zap.Error(err))
		}
		zapLog.Info("PostgreSQL schema is up to date")
	}
	zapLog.Info("PostgreSQL connected successfully")

	// --- Elasticsearch ---
	var esClient *database.ElasticsearchClient
	err = retryWithBackoff(func() error {
		var err error
		esClient, err = database.NewElasticsearch(cfg.Database.Elasticsearch)
		if err != nil {
			return err
		}
		if err := esClient.Ping(ctx); err != nil {
			return err
		}
		return esClient.EnsureIndex(ctx, cfg.Database.Elasticsearch.FIRIndex, search.Mapping)
	}, 15, 2*time.Second, zapLog, "Elasticsearch connection")
	if err != nil {
		zapLog.Fatal("elasticsearch failed after retries", zap.Error(err))
	}
	zapLog.Info("Elasticsearch connected successfully",
		zap.String("index", cfg.Database.Elasticsearch.FIRIndex))

	// --- Redis ---
	redis := database.NewRedis(cfg.Database.Redis)
	err = retryWithBackoff(func() error {
		return redis.Ping(ctx)
	}, 10, 2*time.Second, zapLog, "Redis connection")
	if err != nil {
		zapLog.Fatal("redis failed after retries", zap.Error(err))
	}
	defer redis.Close()
	zapLog.Info("Redis connected successfully")

	// --- Kafka ---
	var publisher events.Publisher
	kafkaPublisher, err := events.NewKafkaPublisher(cfg.Kafka)
	switch {
	case stderrors.Is(err, events.ErrNoBrokers):
		zapLog.Info("no kafka brokers configured, portal events are not published")
		publisher = events.NoopPublisher{}
	case err != nil:
		zapLog.Fatal("kafka publisher failed", zap.Error(err))
	default:
		publisher = kafkaPublisher
	}
	defer publisher.Close()

	// --- AWS notifications ---
	var (
		emailSender nf.EmailSender
		smsSender   nf.SMSSender
	)
	if cfg.Notifications.Email.Enabled {
		ses, err := awsclient.NewSESClient(ctx, cfg.Notifications.AWS.Region, cfg.Notifications.Email.FromEmail)
		if err != nil {
			zapLog.Fatal("ses client failed", zap.Error(err))
		}
		emailSender = ses
	}
	if cfg.Notifications.SMS.Enabled {
		sns, err := awsclient.NewSNSClient(ctx, cfg.Notifications.AWS.Region, cfg.Notifications.SMS.SenderID)
		if err != nil {
			zapLog.Fatal("sns client failed", zap.Error(err))
		}
		smsSender = sns
	}

	// --- Knowledge base ---
	base := knowledge.Default()
	if path := cfg.Legal.KnowledgeBasePath; path != "" {
		base, err = knowledge.LoadFile(path)
		if err != nil {
			zapLog.Fatal("knowledge base load failed", zap.String("path", path), zap.Error(err))
		}
	}
	zapLog.Info("Knowledge base loaded", zap.Int("entries", base.Len()))

	// --- Shared services ---
	portalStore := store.New(pg.DB)
	firIndex := search.NewFIRIndex(esClient.Client, cfg.Database.Elasticsearch.FIRIndex)
	roles := auth.NewRoleCache(portalStore, time.Duration(cfg.Auth.RoleTTL)*time.Second)
	keycloak := auth.NewKeycloakClient(
		cfg.Auth.Keycloak.URL,
		cfg.Auth.Keycloak.Realm,
		cfg.Auth.Keycloak.ClientID,
		cfg.Auth.Keycloak.ClientSecret,
	)
	generator := ipc.NewDefaultGenerator()

	// --- Handlers ---
	classifyCfg := cq.LoadConfig()
	classifyCfg.Timeout = jobTimeout(cfg, cq.TaskType, classifyCfg.Timeout)
	classify := cq.NewHandler(classifyCfg, classifier.New(base), portalStore, publisher, obs, log)

	suggestCfg := sis.LoadConfig()
	suggestCfg.Timeout = jobTimeout(cfg, sis.TaskType, suggestCfg.Timeout)
	suggestCfg.TopN = cfg.Legal.IPCSectionLimit
	suggest := sis.NewHandler(suggestCfg, generator, log)

	historyCfg := gch.LoadConfig()
	historyCfg.Timeout = jobTimeout(cfg, gch.TaskType, historyCfg.Timeout)
	historyCfg.DefaultLimit = cfg.Legal.ChatHistoryLimit
	history := gch.NewHandler(historyCfg, portalStore, log)

	generateCfg := gf.LoadConfig(cfg.Legal)
	generateCfg.Timeout = jobTimeout(cfg, gf.TaskType, generateCfg.Timeout)
	generate := gf.NewHandler(generateCfg, generator, portalStore, firIndex, publisher, log)

	updateCfg := ufs.LoadConfig()
	updateCfg.Timeout = jobTimeout(cfg, ufs.TaskType, updateCfg.Timeout)
	update := ufs.NewHandler(updateCfg, portalStore, roles, firIndex, publisher, log)

	searchCfg := sf.LoadConfig()
	searchCfg.Timeout = jobTimeout(cfg, sf.TaskType, searchCfg.Timeout)
	searchFIRs := sf.NewHandler(searchCfg, firIndex, roles, log)

	notifyCfg := nf.LoadConfig(cfg.Notifications)
	notifyCfg.Timeout = jobTimeout(cfg, nf.TaskType, notifyCfg.Timeout)
	notify := nf.NewHandler(notifyCfg, portalStore, emailSender, smsSender, log)

	caseCfg := gcs.LoadConfig(cfg.Legal.Case)
	caseCfg.Timeout = jobTimeout(cfg, gcs.TaskType, caseCfg.Timeout)
	caseStatus := gcs.NewHandler(caseCfg, portalStore, roles, log)

	statsCfg := ps.LoadConfig(cfg.Database.Redis.StatsTTL, cfg.Legal.AuditLogLimit)
	statsCfg.Timeout = jobTimeout(cfg, ps.TaskType, statsCfg.Timeout)
	stats := ps.NewHandler(statsCfg, portalStore, roles, redis.Client, log)

	// --- Workers ---
	registry := camunda.NewRegistry(zeebe.Zeebe(), cfg, log)
	registry.Start(cq.TaskType, classify.Handle)
	registry.Start(sis.TaskType, suggest.Handle)
	registry.Start(gch.TaskType, history.Handle)
	registry.Start(gf.TaskType, generate.Handle)
	registry.Start(ufs.TaskType, update.Handle)
	registry.Start(sf.TaskType, searchFIRs.Handle)
	registry.Start(nf.TaskType, notify.Handle)
	registry.Start(gcs.TaskType, caseStatus.Handle)
	registry.Start(ps.TaskType, stats.Handle)
	zapLog.Info("Workers registered", zap.Strings("taskTypes", registry.TaskTypes()))

	// --- HTTP gateway ---
	server := api.NewServer(cfg.Server, api.Deps{
		Handlers: api.Handlers{
			Classify:     classify,
			SuggestIPC:   suggest,
			ChatHistory:  history,
			GenerateFIR:  generate,
			UpdateStatus: update,
			SearchFIRs:   searchFIRs,
			NotifyFIR:    notify,
			CaseStatus:   caseStatus,
			PortalStats:  stats,
		},
		Tokens:    keycloak,
		Roles:     roles,
		Directory: portalStore,
		Readiness: map[string]api.ReadinessCheck{
			"zeebe":         zeebe.HealthCheck,
			"postgres":      pg.Ping,
			"elasticsearch": esClient.Ping,
			"redis":         redis.Ping,
		},
		Version: cfg.App.Version,
	}, log)

	go func() {
		if err := server.Start(); err != nil {
			zapLog.Fatal("api server failed", zap.Error(err))
		}
	}()

	// --- Graceful Shutdown ---
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	zapLog.Info("Shutdown signal received, stopping workers...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		zapLog.Error("Error stopping api server", zap.Error(err))
	}
	registry.Close()

	if err := zeebe.Close(); err != nil {
		zapLog.Error("Error closing Zeebe client", zap.Error(err))
	}

	zapLog.Info("Worker manager stopped gracefully")
}
