package portalstats

import (
	"context"
	"encoding/json"
	goerrors "errors"
	"fmt"
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/redis/go-redis/v9"

	"legal-workers/internal/common/auth"
	"legal-workers/internal/common/errors"
	"legal-workers/internal/common/logger"
	"legal-workers/internal/common/metrics"
	"legal-workers/internal/common/validation"
	"legal-workers/internal/store"
)

const (
	TaskType = "admin.portal-stats"
)

var schema = validation.MustCompile(inputSchema)

type StatsStore interface {
	Stats(ctx context.Context) (*store.Stats, error)
	AuditLogs(ctx context.Context, limit int) ([]store.AuditLog, error)
}

type RoleResolver interface {
	Role(ctx context.Context, userID string) (string, error)
}

type Handler struct {
	config     *Config
	store      StatsStore
	roles      RoleResolver
	cache      redis.Cmdable
	now        func() time.Time
	errHandler *errors.ErrorHandler
	logger     logger.Logger
}

// NewHandler builds the handler. A nil cache always reads Postgres.
func NewHandler(config *Config, s StatsStore, roles RoleResolver, cache redis.Cmdable, log logger.Logger) *Handler {
	scoped := log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:     config,
		store:      s,
		roles:      roles,
		cache:      cache,
		now:        func() time.Time { return time.Now().UTC() },
		errHandler: errors.NewErrorHandler(scoped),
		logger:     scoped,
	}
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) {
	h.logger.Info("processing job", map[string]interface{}{
		"jobKey":      job.Key,
		"workflowKey": job.ProcessInstanceKey,
	})

	var input Input
	if err := json.Unmarshal([]byte(job.Variables), &input); err != nil {
		h.failJob(client, job, errors.NewInputValidationError(fmt.Sprintf("parse input: %v", err)))
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), h.config.Timeout)
	defer cancel()

	output, err := h.execute(ctx, &input)
	if err != nil {
		h.failJob(client, job, err)
		return
	}

	h.completeJob(client, job, output)
}

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	res, err := schema.Validate(input)
	if err != nil {
		return nil, errors.NewInternalError(err)
	}
	if !res.Valid {
		return nil, errors.NewInputValidationError(res.Summary())
	}

	role, err := h.roles.Role(ctx, input.ActorID)
	if err != nil {
		return nil, err
	}
	if err := auth.RequireAdmin(input.ActorID, role); err != nil {
		return nil, err
	}

	output := &Output{}
	if cached, ok := h.readCache(ctx, input.Refresh); ok {
		output.Stats, output.GeneratedAt, output.Cached = cached.Stats, cached.GeneratedAt, true
	} else {
		stats, err := h.store.Stats(ctx)
		if err != nil {
			return nil, err
		}
		output.Stats, output.GeneratedAt = *stats, h.now()
		h.writeCache(ctx, cachedStats{Stats: *stats, GeneratedAt: output.GeneratedAt})
	}

	if input.IncludeAudit {
		logs, err := h.store.AuditLogs(ctx, h.auditLimit(input.AuditLimit))
		if err != nil {
			return nil, err
		}
		output.AuditLogs = logs
	}

	return output, nil
}

func (h *Handler) auditLimit(requested int) int {
	limit := requested
	if limit <= 0 {
		limit = h.config.AuditLimit
	}
	if h.config.MaxAuditRows > 0 && limit > h.config.MaxAuditRows {
		limit = h.config.MaxAuditRows
	}
	return limit
}

func (h *Handler) readCache(ctx context.Context, refresh bool) (cachedStats, bool) {
	var c cachedStats
	if h.cache == nil || refresh || h.config.CacheTTL <= 0 {
		return c, false
	}
	raw, err := h.cache.Get(ctx, h.config.CacheKey).Bytes()
	if err != nil {
		if !goerrors.Is(err, redis.Nil) {
			h.logger.Warn("stats cache read failed", map[string]interface{}{"error": err.Error()})
		}
		return c, false
	}
	if err := json.Unmarshal(raw, &c); err != nil {
		h.logger.Warn("discarding malformed cached stats", map[string]interface{}{"error": err.Error()})
		return c, false
	}
	return c, true
}

func (h *Handler) writeCache(ctx context.Context, c cachedStats) {
	if h.cache == nil || h.config.CacheTTL <= 0 {
		return
	}
	raw, err := json.Marshal(c)
	if err != nil {
		return
	}
	if err := h.cache.Set(ctx, h.config.CacheKey, raw, h.config.CacheTTL).Err(); err != nil {
		h.logger.Warn("stats cache write failed", map[string]interface{}{"error": err.Error()})
	}
}

func (h *Handler) completeJob(client worker.JobClient, job entities.Job, output *Output) {
	cmd, err := client.NewCompleteJobCommand().
		JobKey(job.Key).
		VariablesFromObject(output)
	if err != nil {
		h.failJob(client, job, errors.NewInternalError(err))
		return
	}
	if _, err := cmd.Send(context.Background()); err != nil {
		h.logger.Error("failed to send complete job command", map[string]interface{}{
			"jobKey": job.Key,
			"error":  err.Error(),
		})
		return
	}
	metrics.WorkerJobsCompleted.WithLabelValues(TaskType).Inc()
}

func (h *Handler) failJob(client worker.JobClient, job entities.Job, err error) {
	metrics.WorkerJobsFailed.WithLabelValues(TaskType, string(errors.CodeOf(err))).Inc()
	h.errHandler.HandleJobError(context.Background(), client, job, err)
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}
