package camunda

import (
	"fmt"
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/camunda/zeebe/clients/go/v8/pkg/zbc"

	"legal-workers/internal/common/config"
	"legal-workers/internal/common/logger"
	"legal-workers/internal/common/metrics"
)

// HandlerFunc is the signature every worker's Handle method satisfies.
type HandlerFunc func(client worker.JobClient, job entities.Job)

// Registry opens job workers and closes them together on shutdown.
type Registry struct {
	client  zbc.Client
	cfg     *config.Config
	log     logger.Logger
	workers map[string]worker.JobWorker
}

func NewRegistry(client zbc.Client, cfg *config.Config, log logger.Logger) *Registry {
	return &Registry{
		client:  client,
		cfg:     cfg,
		log:     log,
		workers: make(map[string]worker.JobWorker),
	}
}

// Start opens a job worker for taskType unless it is disabled in config.
func (r *Registry) Start(taskType string, handler HandlerFunc) bool {
	wcfg := config.GetWorkerConfig(r.cfg, taskType)
	if !wcfg.Enabled {
		r.log.Info("worker disabled", map[string]interface{}{"taskType": taskType})
		return false
	}
	if _, exists := r.workers[taskType]; exists {
		r.log.Warn("worker already started", map[string]interface{}{"taskType": taskType})
		return false
	}

	r.workers[taskType] = r.client.NewJobWorker().
		JobType(taskType).
		Handler(worker.JobHandler(Instrument(taskType, handler, r.log))).
		MaxJobsActive(wcfg.MaxJobsActive).
		Timeout(config.GetDuration(wcfg.Timeout)).
		Open()

	r.log.Info("worker started", map[string]interface{}{
		"taskType":      taskType,
		"maxJobsActive": wcfg.MaxJobsActive,
		"timeout_ms":    wcfg.Timeout,
	})
	return true
}

func (r *Registry) TaskTypes() []string {
	out := make([]string, 0, len(r.workers))
	for t := range r.workers {
		out = append(out, t)
	}
	return out
}

// Close stops all workers and waits for in-flight jobs.
func (r *Registry) Close() {
	for taskType, w := range r.workers {
		w.Close()
		w.AwaitClose()
		r.log.Info("worker stopped", map[string]interface{}{"taskType": taskType})
	}
	r.workers = make(map[string]worker.JobWorker)
}

// Instrument records the active-job gauge and duration around handler and
// converts a panic into a logged failure so the dispatcher keeps running.
func Instrument(taskType string, handler HandlerFunc, log logger.Logger) HandlerFunc {
	return func(client worker.JobClient, job entities.Job) {
		start := time.Now()
		metrics.WorkerJobsActive.WithLabelValues(taskType).Inc()
		defer func() {
			metrics.WorkerJobsActive.WithLabelValues(taskType).Dec()
			metrics.WorkerJobDuration.WithLabelValues(taskType).Observe(time.Since(start).Seconds())
			if rec := recover(); rec != nil {
				metrics.WorkerJobsFailed.WithLabelValues(taskType, "PANIC").Inc()
				log.Error("handler panicked", map[string]interface{}{
					"taskType": taskType,
					"jobKey":   job.Key,
					"panic":    fmt.Sprint(rec),
				})
			}
		}()
		handler(client, job)
	}
}
