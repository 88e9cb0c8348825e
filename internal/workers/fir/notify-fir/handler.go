package notifyfir

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"

	"legal-workers/internal/common/errors"
	"legal-workers/internal/common/logger"
	"legal-workers/internal/common/metrics"
	"legal-workers/internal/common/validation"
	"legal-workers/internal/store"
)

const (
	TaskType = "fir.notify"
)

var schema = validation.MustCompile(inputSchema)

type Store interface {
	GetFIR(ctx context.Context, firID string) (*store.FIR, error)
	GetUser(ctx context.Context, userID string) (*store.User, error)
}

// EmailSender is satisfied by *aws.SESClient.
type EmailSender interface {
	SendText(ctx context.Context, to, subject, body string) (string, error)
}

// SMSSender is satisfied by *aws.SNSClient.
type SMSSender interface {
	SendSMS(ctx context.Context, phone, message string) (string, error)
}

type Handler struct {
	config     *Config
	store      Store
	email      EmailSender
	sms        SMSSender
	errHandler *errors.ErrorHandler
	logger     logger.Logger
}

// NewHandler builds the handler. A nil sender disables its channel.
func NewHandler(config *Config, s Store, email EmailSender, sms SMSSender, log logger.Logger) *Handler {
	scoped := log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:     config,
		store:      s,
		email:      email,
		sms:        sms,
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

	fir, err := h.store.GetFIR(ctx, input.FIRID)
	if err != nil {
		return nil, err
	}
	user, err := h.store.GetUser(ctx, fir.UserID)
	if err != nil {
		return nil, err
	}

	subject, body := compose(input.Event, fir, user)
	output := &Output{FIRID: fir.ID, FIRNumber: fir.FIRNumber}

	output.Email, err = h.sendEmail(ctx, user.Email, subject, body)
	if err != nil {
		return nil, err
	}
	output.SMS, err = h.sendSMS(ctx, user.Phone, body)
	if err != nil {
		return nil, err
	}

	h.logger.Info("fir notification processed", map[string]interface{}{
		"firId": fir.ID,
		"event": input.Event,
		"email": output.Email.Status,
		"sms":   output.SMS.Status,
	})
	return output, nil
}

func (h *Handler) sendEmail(ctx context.Context, to, subject, body string) (Delivery, error) {
	if !h.config.EmailEnabled || h.email == nil {
		return record("email", Delivery{Status: DeliveryDisabled}), nil
	}
	if to == "" {
		return record("email", Delivery{Status: DeliverySkipped, Reason: "no email on file"}), nil
	}
	id, err := h.email.SendText(ctx, to, subject, body)
	if err != nil {
		metrics.Notifications.WithLabelValues("email", "failed").Inc()
		return Delivery{}, errors.NewNotificationSendFailedError("email", err)
	}
	return record("email", Delivery{Status: DeliverySent, MessageID: id}), nil
}

func (h *Handler) sendSMS(ctx context.Context, phone, body string) (Delivery, error) {
	if !h.config.SMSEnabled || h.sms == nil {
		return record("sms", Delivery{Status: DeliveryDisabled}), nil
	}
	if phone == "" {
		return record("sms", Delivery{Status: DeliverySkipped, Reason: "no phone on file"}), nil
	}
	id, err := h.sms.SendSMS(ctx, phone, body)
	if err != nil {
		metrics.Notifications.WithLabelValues("sms", "failed").Inc()
		return Delivery{}, errors.NewNotificationSendFailedError("sms", err)
	}
	return record("sms", Delivery{Status: DeliverySent, MessageID: id}), nil
}

func record(channel string, d Delivery) Delivery {
	metrics.Notifications.WithLabelValues(channel, d.Status).Inc()
	return d
}

func compose(event string, fir *store.FIR, user *store.User) (subject, body string) {
	name := strings.TrimSpace(user.FirstName + " " + user.LastName)
	if name == "" {
		name = "Citizen"
	}
	status := strings.ReplaceAll(fir.Status, "_", " ")

	switch event {
	case EventStatusChanged:
		subject = fmt.Sprintf("FIR %s: status updated", fir.FIRNumber)
		body = fmt.Sprintf("Dear %s, the status of your FIR %s is now %q.", name, fir.FIRNumber, status)
		if fir.PoliceStation != "" {
			body += fmt.Sprintf(" Police station: %s.", fir.PoliceStation)
		}
	default:
		subject = fmt.Sprintf("FIR %s registered", fir.FIRNumber)
		body = fmt.Sprintf("Dear %s, your FIR %s has been registered with status %q. Keep this number to track your case.",
			name, fir.FIRNumber, status)
	}
	return subject, body
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
