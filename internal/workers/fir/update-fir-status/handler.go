package updatefirstatus

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"

	"legal-workers/internal/common/auth"
	"legal-workers/internal/common/errors"
	"legal-workers/internal/common/events"
	"legal-workers/internal/common/logger"
	"legal-workers/internal/common/metrics"
	"legal-workers/internal/common/validation"
	"legal-workers/internal/store"
)

const (
	TaskType = "fir.update-status"
)

var schema = validation.MustCompile(inputSchema)

type FIRStore interface {
	UpdateFIRStatus(ctx context.Context, firID, status, officer, station string, audit *store.AuditLog) (*store.FIR, error)
}

// RoleResolver is satisfied by *auth.RoleCache.
type RoleResolver interface {
	Role(ctx context.Context, userID string) (string, error)
}

type Indexer interface {
	Index(ctx context.Context, fir store.FIR) error
}

type Handler struct {
	config     *Config
	store      FIRStore
	roles      RoleResolver
	index      Indexer
	publisher  events.Publisher
	errHandler *errors.ErrorHandler
	logger     logger.Logger
}

func NewHandler(config *Config, s FIRStore, roles RoleResolver, index Indexer, publisher events.Publisher, log logger.Logger) *Handler {
	if publisher == nil {
		publisher = events.NoopPublisher{}
	}
	scoped := log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:     config,
		store:      s,
		roles:      roles,
		index:      index,
		publisher:  publisher,
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
	if !store.ValidFIRStatus(input.Status) {
		return nil, errors.NewInvalidFIRStatusError(input.Status)
	}

	role, err := h.roles.Role(ctx, input.ActorID)
	if err != nil {
		return nil, err
	}
	if err := auth.RequireOfficer(input.ActorID, role); err != nil {
		h.logger.Warn("status update denied", map[string]interface{}{
			"actorId": input.ActorID,
			"role":    role,
			"firId":   input.FIRID,
		})
		return nil, err
	}

	audit := &store.AuditLog{
		UserID: input.ActorID,
		Module: "fir",
		Action: "update",
		Details: map[string]interface{}{
			"firId":     input.FIRID,
			"newStatus": input.Status,
		},
		IPAddress: input.IPAddress,
		UserAgent: input.UserAgent,
	}

	fir, err := h.store.UpdateFIRStatus(ctx, input.FIRID, input.Status, input.InvestigatingOfficer, input.PoliceStation, audit)
	if err != nil {
		return nil, err
	}
	metrics.FIRStatusChanges.WithLabelValues(fir.Status).Inc()

	if h.index != nil {
		if err := h.index.Index(ctx, *fir); err != nil {
			h.logger.Warn("failed to reindex fir", map[string]interface{}{
				"firId": fir.ID,
				"error": err.Error(),
			})
		}
	}

	ev := events.New(events.TypeFIRStatusChanged, fir.ID, fir.UserID, map[string]interface{}{
		"firNumber": fir.FIRNumber,
		"status":    fir.Status,
		"updatedBy": input.ActorID,
	})
	if err := h.publisher.Publish(ctx, ev); err != nil {
		h.logger.Warn("failed to publish status event", map[string]interface{}{
			"firId": fir.ID,
			"error": err.Error(),
		})
	}

	h.logger.Info("fir status updated", map[string]interface{}{
		"firId":   fir.ID,
		"status":  fir.Status,
		"actorId": input.ActorID,
	})

	return &Output{
		FIRID:                fir.ID,
		FIRNumber:            fir.FIRNumber,
		OwnerID:              fir.UserID,
		Status:               fir.Status,
		InvestigatingOfficer: fir.InvestigatingOfficer,
		PoliceStation:        fir.PoliceStation,
		UpdatedAt:            fir.UpdatedAt,
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
