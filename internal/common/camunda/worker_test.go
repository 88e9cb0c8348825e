package camunda

import (
	"testing"
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/pb"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"

	"legal-workers/internal/common/logger"
	"legal-workers/internal/common/metrics"
)

func testJob() entities.Job {
	return entities.Job{ActivatedJob: &pb.ActivatedJob{Key: 42, Type: "test.instrument", Retries: 3}}
}

func TestInstrument_RecoversPanic(t *testing.T) {
	h := Instrument("test.instrument-panic", func(worker.JobClient, entities.Job) {
		panic("boom")
	}, logger.NewTestLogger(t))

	assert.NotPanics(t, func() { h(nil, testJob()) })
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.WorkerJobsFailed.WithLabelValues("test.instrument-panic", "PANIC")))
	assert.Equal(t, 0.0, testutil.ToFloat64(metrics.WorkerJobsActive.WithLabelValues("test.instrument-panic")))
}

func TestInstrument_CallsHandler(t *testing.T) {
	var seen int64
	h := Instrument("test.instrument-ok", func(_ worker.JobClient, job entities.Job) {
		seen = job.Key
	}, logger.NewNoOpLogger())

	h(nil, testJob())
	assert.Equal(t, int64(42), seen)
	assert.Equal(t, 0.0, testutil.ToFloat64(metrics.WorkerJobsActive.WithLabelValues("test.instrument-ok")))
}

func TestBackoff(t *testing.T) {
	r := RetryConfig{BaseDelay: time.Second, MaxDelay: 5 * time.Second}
	assert.Equal(t, time.Second, Backoff(r, 0))
	assert.Equal(t, 4*time.Second, Backoff(r, 2))
	assert.Equal(t, 5*time.Second, Backoff(r, 3))
}

func TestIsRetryableZeebeError(t *testing.T) {
	assert.True(t, IsRetryableZeebeError(assertErr("rpc error: code = Unavailable desc = connection refused")))
	assert.True(t, IsRetryableZeebeError(assertErr("context deadline exceeded")))
	assert.False(t, IsRetryableZeebeError(assertErr("permission denied")))
}

type assertErr string

func (e assertErr) Error() string { return string(e) }
