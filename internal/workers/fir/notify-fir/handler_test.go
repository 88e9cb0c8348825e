package notifyfir

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"legal-workers/internal/common/errors"
	"legal-workers/internal/common/logger"
	"legal-workers/internal/store"
)

type fakeStore struct {
	firs  map[string]*store.FIR
	users map[string]*store.User
}

func (f *fakeStore) GetFIR(_ context.Context, firID string) (*store.FIR, error) {
	if fir, ok := f.firs[firID]; ok {
		return fir, nil
	}
	return nil, errors.NewFIRNotFoundError(firID)
}

func (f *fakeStore) GetUser(_ context.Context, userID string) (*store.User, error) {
	if u, ok := f.users[userID]; ok {
		return u, nil
	}
	return nil, errors.NewUserNotFoundError(userID)
}

type sentMessage struct {
	to, subject, body string
}

type fakeEmail struct {
	sent []sentMessage
	err  error
}

func (f *fakeEmail) SendText(_ context.Context, to, subject, body string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.sent = append(f.sent, sentMessage{to, subject, body})
	return "ses-1", nil
}

type fakeSMS struct {
	sent []sentMessage
	err  error
}

func (f *fakeSMS) SendSMS(_ context.Context, phone, message string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.sent = append(f.sent, sentMessage{to: phone, body: message})
	return "sns-1", nil
}

func newFakeStore(user *store.User) *fakeStore {
	return &fakeStore{
		firs: map[string]*store.FIR{
			"fir-1": {ID: "fir-1", UserID: user.ID, FIRNumber: "FIR/2024/000001", Status: store.FIRStatusChargesheetFiled, PoliceStation: "Kothrud"},
		},
		users: map[string]*store.User{user.ID: user},
	}
}

func createTestConfig() *Config {
	return &Config{Timeout: 5 * time.Second, EmailEnabled: true, SMSEnabled: true}
}

func TestExecute_SendsBothChannels(t *testing.T) {
	fs := newFakeStore(&store.User{ID: "user-1", Email: "asha@example.in", Phone: "+919800000000", FirstName: "Asha"})
	email, sms := &fakeEmail{}, &fakeSMS{}
	h := NewHandler(createTestConfig(), fs, email, sms, logger.NewTestLogger(t))

	out, err := h.Execute(context.Background(), &Input{FIRID: "fir-1", Event: EventStatusChanged})
	require.NoError(t, err)

	assert.Equal(t, Delivery{Status: DeliverySent, MessageID: "ses-1"}, out.Email)
	assert.Equal(t, Delivery{Status: DeliverySent, MessageID: "sns-1"}, out.SMS)
	assert.Equal(t, "FIR/2024/000001", out.FIRNumber)

	require.Len(t, email.sent, 1)
	assert.Equal(t, "asha@example.in", email.sent[0].to)
	assert.Equal(t, "FIR FIR/2024/000001: status updated", email.sent[0].subject)
	assert.Contains(t, email.sent[0].body, "Dear Asha")
	assert.Contains(t, email.sent[0].body, `"chargesheet filed"`)
	assert.Contains(t, email.sent[0].body, "Kothrud")

	require.Len(t, sms.sent, 1)
	assert.Equal(t, "+919800000000", sms.sent[0].to)
	assert.Equal(t, email.sent[0].body, sms.sent[0].body)
}

func TestExecute_MissingContactsAreSkipped(t *testing.T) {
	fs := newFakeStore(&store.User{ID: "user-1"})
	email, sms := &fakeEmail{}, &fakeSMS{}
	h := NewHandler(createTestConfig(), fs, email, sms, logger.NewTestLogger(t))

	out, err := h.Execute(context.Background(), &Input{FIRID: "fir-1", Event: EventCreated})
	require.NoError(t, err)
	assert.Equal(t, DeliverySkipped, out.Email.Status)
	assert.Equal(t, DeliverySkipped, out.SMS.Status)
	assert.Empty(t, email.sent)
	assert.Empty(t, sms.sent)
}

func TestExecute_DisabledChannels(t *testing.T) {
	fs := newFakeStore(&store.User{ID: "user-1", Email: "a@b.in", Phone: "+91"})
	email := &fakeEmail{}
	cfg := &Config{Timeout: time.Second, EmailEnabled: true, SMSEnabled: false}
	h := NewHandler(cfg, fs, email, nil, logger.NewTestLogger(t))

	out, err := h.Execute(context.Background(), &Input{FIRID: "fir-1", Event: EventCreated})
	require.NoError(t, err)
	assert.Equal(t, DeliverySent, out.Email.Status)
	assert.Equal(t, DeliveryDisabled, out.SMS.Status)
	assert.Contains(t, email.sent[0].subject, "registered")
	assert.Contains(t, email.sent[0].body, "Dear Citizen")
}

func TestExecute_Failures(t *testing.T) {
	user := &store.User{ID: "user-1", Email: "a@b.in", Phone: "+91"}

	tests := []struct {
		name  string
		input Input
		email *fakeEmail
		sms   *fakeSMS
		want  errors.ErrorCode
	}{
		{"email failure", Input{FIRID: "fir-1", Event: EventCreated}, &fakeEmail{err: assert.AnError}, &fakeSMS{}, errors.ErrCodeNotificationSendFailed},
		{"sms failure", Input{FIRID: "fir-1", Event: EventCreated}, &fakeEmail{}, &fakeSMS{err: assert.AnError}, errors.ErrCodeNotificationSendFailed},
		{"unknown fir", Input{FIRID: "fir-9", Event: EventCreated}, &fakeEmail{}, &fakeSMS{}, errors.ErrCodeFIRNotFound},
		{"unknown event", Input{FIRID: "fir-1", Event: "deleted"}, &fakeEmail{}, &fakeSMS{}, errors.ErrCodeInputValidationFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewHandler(createTestConfig(), newFakeStore(user), tt.email, tt.sms, logger.NewTestLogger(t))
			_, err := h.Execute(context.Background(), &tt.input)
			require.Error(t, err)
			assert.Equal(t, tt.want, errors.CodeOf(err))
		})
	}
}
