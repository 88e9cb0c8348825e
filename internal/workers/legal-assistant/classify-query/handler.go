package classifyquery

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"

	"legal-workers/internal/common/errors"
	"legal-workers/internal/common/events"
	"legal-workers/internal/common/logger"
	"legal-workers/internal/common/metrics"
	"legal-workers/internal/common/observability"
	"legal-workers/internal/common/validation"
	"legal-workers/internal/legal/classifier"
	"legal-workers/internal/store"
)

const (
	TaskType = "legal.classify-query"
)

var schema = validation.MustCompile(inputSchema)

type ChatStore interface {
	CreateChatLog(ctx context.Context, log *store.ChatLog, audit *store.AuditLog) error
}

type Handler struct {
	config     *Config
	classifier *classifier.Classifier
	chats      ChatStore
	publisher  events.Publisher
	obs        *observability.Observability
	errHandler *errors.ErrorHandler
	logger     logger.Logger
}

// NewHandler builds the handler. chats and publisher may be nil, in which
// case nothing is persisted or published.
func NewHandler(config *Config, c *classifier.Classifier, chats ChatStore, publisher events.Publisher, obs *observability.Observability, log logger.Logger) *Handler {
	if publisher == nil {
		publisher = events.NoopPublisher{}
	}
	scoped := log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:     config,
		classifier: c,
		chats:      chats,
		publisher:  publisher,
		obs:        obs,
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

	ctx, span := observability.StartSpan(ctx, "legal.classify")
	defer span.End()

	language := input.Language
	if language == "" {
		language = classifier.LanguageEnglish
	}

	result := h.classifier.Classify(input.Query, language)

	outcome := "match"
	if result.Fallback {
		outcome = "fallback"
	}
	label := languageLabel(language)
	metrics.Classifications.WithLabelValues(outcome, label).Inc()
	metrics.ClassificationConfidence.Observe(result.Confidence)
	h.obs.RecordClassification(ctx, result.Confidence, result.Fallback, label)

	output := &Output{
		Response:         result.Response,
		Confidence:       result.Confidence,
		SuggestedActions: result.SuggestedActions,
		RelatedSections:  result.RelatedSections,
		EntryID:          result.EntryID,
		Fallback:         result.Fallback,
		Language:         language,
	}

	if input.UserID != "" && h.chats != nil && h.config.PersistChats {
		chatID, err := h.persist(ctx, input, language, result.Response)
		if err != nil {
			observability.RecordSpanError(span, err)
			return nil, err
		}
		output.ChatID = chatID
	}

	h.logger.Info("query classified", map[string]interface{}{
		"entryId":    result.EntryID,
		"confidence": result.Confidence,
		"fallback":   result.Fallback,
		"language":   language,
	})
	return output, nil
}

func (h *Handler) persist(ctx context.Context, input *Input, language, response string) (string, error) {
	chat := &store.ChatLog{
		UserID:   input.UserID,
		Query:    input.Query,
		Response: response,
		Language: language,
	}
	audit := &store.AuditLog{
		UserID:    input.UserID,
		Module:    "chat",
		Action:    "create",
		Details:   map[string]interface{}{"language": language},
		IPAddress: input.IPAddress,
		UserAgent: input.UserAgent,
	}
	if err := h.chats.CreateChatLog(ctx, chat, audit); err != nil {
		return "", err
	}

	ev := events.New(events.TypeChatLogged, chat.ID, input.UserID, map[string]interface{}{"language": language})
	if err := h.publisher.Publish(ctx, ev); err != nil {
		h.logger.Warn("failed to publish chat event", map[string]interface{}{"chatId": chat.ID, "error": err.Error()})
	}
	return chat.ID, nil
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

// languageLabel folds arbitrary language tags into "other" to keep metric
// cardinality bounded. The tag itself is passed through untouched.
func languageLabel(language string) string {
	switch language {
	case classifier.LanguageEnglish, classifier.LanguageHindi, classifier.LanguageMarathi:
		return language
	}
	return "other"
}
