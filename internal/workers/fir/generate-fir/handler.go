package generatefir

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"go.opentelemetry.io/otel/trace"

	"legal-workers/internal/common/errors"
	"legal-workers/internal/common/events"
	"legal-workers/internal/common/logger"
	"legal-workers/internal/common/metrics"
	"legal-workers/internal/common/observability"
	"legal-workers/internal/common/validation"
	"legal-workers/internal/legal/ipc"
	"legal-workers/internal/legal/tracking"
	"legal-workers/internal/store"
)

const (
	TaskType = "fir.generate"
)

var schema = validation.MustCompile(inputSchema)

type FIRStore interface {
	NextFIRNumber(ctx context.Context) (string, error)
	FileFIR(ctx context.Context, fir *store.FIR, cs *store.CaseStatus, audit *store.AuditLog) error
}

// Indexer makes filed FIRs searchable.
type Indexer interface {
	Index(ctx context.Context, fir store.FIR) error
}

type Handler struct {
	config     *Config
	generator  *ipc.Generator
	store      FIRStore
	index      Indexer
	publisher  events.Publisher
	now        func() time.Time
	errHandler *errors.ErrorHandler
	logger     logger.Logger
}

// NewHandler builds the handler. index and publisher are optional.
func NewHandler(config *Config, generator *ipc.Generator, s FIRStore, index Indexer, publisher events.Publisher, log logger.Logger) *Handler {
	if publisher == nil {
		publisher = events.NoopPublisher{}
	}
	scoped := log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:     config,
		generator:  generator,
		store:      s,
		index:      index,
		publisher:  publisher,
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

	incidentDate, err := parseIncidentDate(input.IncidentDate)
	if err != nil {
		return nil, errors.NewInputValidationError(err.Error())
	}

	ctx, span := observability.StartSpan(ctx, "fir.generate", trace.WithSpanKind(trace.SpanKindInternal))
	defer span.End()

	suggestions := h.generator.Suggest(input.Description, input.CrimeType)
	sections := ipc.TopSections(suggestions, h.config.IPCSectionLimit)

	fir := &store.FIR{
		UserID:       input.UserID,
		CrimeType:    input.CrimeType,
		Description:  input.Description,
		Location:     input.Location,
		IncidentDate: incidentDate,
		IncidentTime: input.IncidentTime,
		IPCSections:  sections,
		EvidenceURLs: input.EvidenceURLs,
		Status:       store.FIRStatusPending,
	}

	cs, err := h.file(ctx, fir, input)
	if err != nil {
		observability.RecordSpanError(span, err)
		return nil, err
	}
	observability.AddSpanAttributes(span, map[string]string{
		"fir.id":     fir.ID,
		"fir.number": fir.FIRNumber,
	})
	metrics.FIRsGenerated.Inc()
	for _, s := range sections {
		metrics.IPCSuggestions.WithLabelValues(s).Inc()
	}

	indexed := h.indexFIR(ctx, *fir)
	h.publish(ctx, fir)

	h.logger.Info("fir filed", map[string]interface{}{
		"firId":       fir.ID,
		"firNumber":   fir.FIRNumber,
		"ipcSections": sections,
		"indexed":     indexed,
	})

	return &Output{
		FIRID:       fir.ID,
		FIRNumber:   fir.FIRNumber,
		Status:      fir.Status,
		IPCSections: sections,
		Suggestions: suggestions,
		CaseID:      cs.CaseID,
		HearingDate: cs.HearingDate,
		Indexed:     indexed,
		CreatedAt:   fir.CreatedAt,
	}, nil
}

// file draws a number and inserts the FIR with its case and audit rows,
// drawing again when the number was taken concurrently.
func (h *Handler) file(ctx context.Context, fir *store.FIR, input *Input) (*store.CaseStatus, error) {
	attempts := h.config.NumberAttempts
	if attempts <= 0 {
		attempts = 1
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		number, err := h.store.NextFIRNumber(ctx)
		if err != nil {
			return nil, err
		}
		fir.FIRNumber = number

		cs := tracking.NewCase(*fir, h.config.Case, h.now())
		audit := &store.AuditLog{
			UserID: input.UserID,
			Module: "fir",
			Action: "create",
			Details: map[string]interface{}{
				"firNumber":   number,
				"ipcSections": fir.IPCSections,
			},
			IPAddress: input.IPAddress,
			UserAgent: input.UserAgent,
		}

		err = h.store.FileFIR(ctx, fir, cs, audit)
		if err == nil {
			return cs, nil
		}
		if errors.CodeOf(err) != errors.ErrCodeDuplicateFIR {
			return nil, err
		}

		h.logger.Warn("fir number taken, retrying", map[string]interface{}{
			"firNumber": number,
			"attempt":   attempt,
		})
		fir.ID = ""
		lastErr = err
	}
	return nil, lastErr
}

func (h *Handler) indexFIR(ctx context.Context, fir store.FIR) bool {
	if h.index == nil {
		return false
	}
	if err := h.index.Index(ctx, fir); err != nil {
		h.logger.Warn("failed to index fir", map[string]interface{}{
			"firId": fir.ID,
			"error": err.Error(),
		})
		return false
	}
	return true
}

func (h *Handler) publish(ctx context.Context, fir *store.FIR) {
	ev := events.New(events.TypeFIRCreated, fir.ID, fir.UserID, map[string]interface{}{
		"firNumber":   fir.FIRNumber,
		"crimeType":   fir.CrimeType,
		"ipcSections": fir.IPCSections,
		"status":      fir.Status,
	})
	if err := h.publisher.Publish(ctx, ev); err != nil {
		h.logger.Warn("failed to publish fir event", map[string]interface{}{
			"firId": fir.ID,
			"error": err.Error(),
		})
	}
}

func parseIncidentDate(raw string) (time.Time, error) {
	for _, layout := range []string{"2006-01-02", time.RFC3339} {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("incidentDate %q is not a date (YYYY-MM-DD or RFC 3339)", raw)
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
