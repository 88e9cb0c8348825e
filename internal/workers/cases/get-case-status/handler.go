package getcasestatus

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
	"legal-workers/internal/common/validation"
	"legal-workers/internal/legal/tracking"
	"legal-workers/internal/store"
)

const (
	TaskType = "case.get-status"
)

var schema = validation.MustCompile(inputSchema)

type CaseStore interface {
	CasesByUser(ctx context.Context, userID string) ([]store.CaseStatus, error)
	GetCase(ctx context.Context, key string) (*store.CaseStatus, error)
}

type RoleResolver interface {
	Role(ctx context.Context, userID string) (string, error)
}

type Handler struct {
	config     *Config
	store      CaseStore
	roles      RoleResolver
	errHandler *errors.ErrorHandler
	logger     logger.Logger
}

// NewHandler builds the handler. With nil roles, users only ever see their
// own cases.
func NewHandler(config *Config, s CaseStore, roles RoleResolver, log logger.Logger) *Handler {
	scoped := log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:     config,
		store:      s,
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

	cases, err := h.store.CasesByUser(ctx, input.UserID)
	if err != nil {
		return nil, err
	}

	if input.CaseID == "" {
		views := tracking.EnrichAll(cases, h.config.Case)
		return &Output{Cases: views, Count: len(views)}, nil
	}

	cs, found := tracking.Find(cases, input.CaseID)
	if !found {
		other, err := h.lookupAsOfficer(ctx, input)
		if err != nil {
			return nil, err
		}
		cs = *other
	}

	view := tracking.Enrich(cs, h.config.Case)
	return &Output{Case: &view, Count: 1}, nil
}

// lookupAsOfficer lets police and admins open cases filed by other users.
func (h *Handler) lookupAsOfficer(ctx context.Context, input *Input) (*store.CaseStatus, error) {
	if h.roles == nil {
		return nil, errors.NewCaseNotFoundError(input.CaseID)
	}
	role, err := h.roles.Role(ctx, input.UserID)
	if err != nil {
		return nil, err
	}
	if !auth.CanViewAllFIRs(role) {
		return nil, errors.NewCaseNotFoundError(input.CaseID)
	}
	return h.store.GetCase(ctx, input.CaseID)
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
