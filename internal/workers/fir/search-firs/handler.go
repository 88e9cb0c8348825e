package searchfirs

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"

	"legal-workers/internal/common/auth"
	"legal-workers/internal/common/errors"
	"legal-workers/internal/common/logger"
	"legal-workers/internal/common/metrics"
	"legal-workers/internal/common/observability"
	"legal-workers/internal/common/validation"
	"legal-workers/internal/search"
)

const (
	TaskType = "fir.search"
)

var schema = validation.MustCompile(inputSchema)

type Searcher interface {
	Search(ctx context.Context, q search.Query) (*search.Result, error)
}

type RoleResolver interface {
	Role(ctx context.Context, userID string) (string, error)
}

type Handler struct {
	config     *Config
	searcher   Searcher
	roles      RoleResolver
	errHandler *errors.ErrorHandler
	logger     logger.Logger
}

func NewHandler(config *Config, searcher Searcher, roles RoleResolver, log logger.Logger) *Handler {
	scoped := log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:     config,
		searcher:   searcher,
		roles:      roles,
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
	if err := auth.RequireOfficer(input.ActorID, role); err != nil {
		return nil, err
	}

	q := search.Query{
		Text:      input.Text,
		Status:    input.Status,
		CrimeType: input.CrimeType,
		Section:   input.Section,
		UserID:    input.UserID,
		From:      input.From,
		Size:      input.Size,
	}.Normalize()

	ctx, span := observability.StartSpan(ctx, "fir.search")
	defer span.End()

	result, err := h.searcher.Search(ctx, q)
	if err != nil {
		observability.RecordSpanError(span, err)
		return nil, err
	}

	h.logger.Debug("fir search", map[string]interface{}{
		"actorId": input.ActorID,
		"total":   result.Total,
		"took":    result.Took,
	})

	return &Output{
		Total:    result.Total,
		MaxScore: result.MaxScore,
		Took:     result.Took,
		FIRs:     result.FIRs,
		From:     q.From,
		Size:     q.Size,
	}, nil
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
