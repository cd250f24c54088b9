package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/robfig/cron/v3"

	"github.com/dgallion1/cirgest/internal/bureau"
	"github.com/dgallion1/cirgest/internal/config"
	"github.com/dgallion1/cirgest/internal/parser"
)

var (
	// ErrQueueFull is returned by Submit when no queue slot is free.
	ErrQueueFull = errors.New("job queue is full")
	// ErrStopped is returned by Submit once Stop has been called.
	ErrStopped = errors.New("pipeline is shutting down")
)

// Orchestrator manages the report extraction pipeline.
type Orchestrator struct {
	jobs    *JobStore
	queue   chan *Job
	worker  *Worker
	stats   *ProcessingStats
	log     *slog.Logger
	cfg     config.Config
	cleanup *cron.Cron

	cancel context.CancelFunc
	wg     sync.WaitGroup

	// mu guards stopped and the close of queue against concurrent Submits.
	mu      sync.Mutex
	stopped bool
}

// NewOrchestrator creates the pipeline. Call Start to launch workers.
func NewOrchestrator(cfg config.Config, metrics *Metrics, log *slog.Logger) *Orchestrator {
	stats := NewProcessingStats(cfg.JobTTL)
	opts := bureau.Options{
		MaxTextBytes: cfg.MaxTextBytes,
		MaxChunks:    cfg.MaxChunks,
		Workers:      cfg.BatchWorkers,
	}
	return &Orchestrator{
		jobs:   NewJobStore(cfg.JobTTL),
		queue:  make(chan *Job, cfg.MaxQueueSize),
		worker: NewWorker(log, opts, parser.Options{FallbackPdftotext: cfg.PDFFallbackPdftotext}, stats, metrics),
		stats:  stats,
		log:    log,
		cfg:    cfg,
	}
}

// Start launches worker goroutines and the job eviction schedule.
func (o *Orchestrator) Start(ctx context.Context) error {
	c := cron.New()
	if _, err := c.AddFunc(o.cfg.CleanupSchedule, o.evictExpired); err != nil {
		return fmt.Errorf("cleanup schedule %q: %w", o.cfg.CleanupSchedule, err)
	}

	workerCtx, cancel := context.WithCancel(ctx)
	o.cancel = cancel

	for i := 0; i < o.cfg.WorkerCount; i++ {
		o.wg.Add(1)
		go func() {
			defer o.wg.Done()
			for {
				select {
				case <-workerCtx.Done():
					return
				case job, ok := <-o.queue:
					if !ok {
						return
					}
					o.worker.Process(workerCtx, job)
				}
			}
		}()
	}

	o.cleanup = c
	c.Start()
	return nil
}

// Stop shuts down the pipeline. Later Submits fail with ErrStopped and jobs
// still waiting in the queue are marked failed. Stop is safe to call twice.
func (o *Orchestrator) Stop() {
	o.mu.Lock()
	if o.stopped {
		o.mu.Unlock()
		return
	}
	o.stopped = true
	close(o.queue)
	o.mu.Unlock()

	if o.cleanup != nil {
		<-o.cleanup.Stop().Done()
	}
	if o.cancel != nil {
		o.cancel()
	}
	o.wg.Wait()

	abandoned := 0
	for job := range o.queue {
		job.AddError("pipeline stopped before the job ran")
		job.SetStatus(StatusFailed, "shutdown")
		abandoned++
	}
	if abandoned > 0 {
		o.log.Warn("abandoned queued jobs", "count", abandoned)
	}
}

func (o *Orchestrator) evictExpired() {
	if n := o.jobs.Cleanup(); n > 0 {
		o.log.Info("evicted expired jobs", "count", n, "remaining", o.jobs.Len())
	}
}

// Submit queues a new job for processing.
func (o *Orchestrator) Submit(job *Job) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.stopped {
		job.SetStatus(StatusFailed, "shutdown")
		return ErrStopped
	}

	o.jobs.Put(job)
	select {
	case o.queue <- job:
		return nil
	default:
		job.SetStatus(StatusFailed, "queue_full")
		return fmt.Errorf("%w (%d)", ErrQueueFull, o.cfg.MaxQueueSize)
	}
}

// Extract processes documents synchronously, outside the job queue.
func (o *Orchestrator) Extract(ctx context.Context, docs []bureau.Document) bureau.Batch {
	return o.worker.Extract(ctx, docs)
}

// GetJob returns a job by ID.
func (o *Orchestrator) GetJob(id string) *Job {
	return o.jobs.Get(id)
}

// QueueDepth returns current queue depth.
func (o *Orchestrator) QueueDepth() int {
	return len(o.queue)
}

// Stats returns the rolling extraction statistics.
func (o *Orchestrator) Stats() *ProcessingStats {
	return o.stats
}
