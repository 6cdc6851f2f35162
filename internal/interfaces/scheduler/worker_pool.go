package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"ledger/internal/shared/logger"
)

var (
	jobTracer          = otel.Tracer("ledger/scheduler")
	jobMeter           = otel.Meter("ledger/scheduler")
	jobDuration, _     = jobMeter.Float64Histogram("scheduler.job.duration", metric.WithDescription("Job execution duration in seconds"), metric.WithUnit("s"))
	jobTotal, _        = jobMeter.Int64Counter("scheduler.job.total", metric.WithDescription("Total jobs executed by status"))
	jobQueueDropped, _ = jobMeter.Int64Counter("scheduler.job.queue_dropped", metric.WithDescription("Jobs dropped due to full queue"))
)

const jobTimeout = 2 * time.Minute

// WorkerPool runs submitted jobs on a fixed number of goroutines.
type WorkerPool struct {
	workerCount int
	jobDelay    time.Duration
	jobs        chan Job
	wg          sync.WaitGroup
	ctx         context.Context
	cancel      context.CancelFunc
	log         *logger.Logger

	mu     sync.Mutex
	closed bool
}

// NewWorkerPool creates a pool. jobDelay is slept by a worker after each
// job; queueSize bounds the pending jobs.
func NewWorkerPool(workerCount int, jobDelay time.Duration, queueSize int, log *logger.Logger) *WorkerPool {
	ctx, cancel := context.WithCancel(context.Background())

	return &WorkerPool{
		workerCount: workerCount,
		jobDelay:    jobDelay,
		jobs:        make(chan Job, queueSize),
		ctx:         ctx,
		cancel:      cancel,
		log:         log,
	}
}

// Start launches the worker goroutines.
func (wp *WorkerPool) Start() {
	wp.log.Debug("Starting worker pool", "workers", wp.workerCount)

	for i := 1; i <= wp.workerCount; i++ {
		wp.wg.Add(1)
		go wp.worker(i)
	}
}

func (wp *WorkerPool) worker(id int) {
	defer wp.wg.Done()

	for {
		select {
		case <-wp.ctx.Done():
			return

		case job, ok := <-wp.jobs:
			if !ok {
				return
			}

			wp.processJob(id, job)

			if wp.jobDelay > 0 {
				select {
				case <-time.After(wp.jobDelay):
				case <-wp.ctx.Done():
					return
				}
			}
		}
	}
}

func (wp *WorkerPool) processJob(workerID int, job Job) {
	ctx, cancel := context.WithTimeout(wp.ctx, jobTimeout)
	defer cancel()

	ctx, span := jobTracer.Start(ctx, "job.execute",
		trace.WithAttributes(
			attribute.Int("worker.id", workerID),
			attribute.String("job.name", job.Name()),
		),
	)
	defer span.End()

	start := time.Now()
	nameAttr := attribute.String("job.name", job.Name())

	if err := job.Execute(ctx); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		jobTotal.Add(ctx, 1, metric.WithAttributes(nameAttr, attribute.String("status", "error")))
		jobDuration.Record(ctx, time.Since(start).Seconds(), metric.WithAttributes(nameAttr))
		wp.log.Error("Job failed", "worker", workerID, "job", job.Name(), "error", err)
		return
	}

	jobTotal.Add(ctx, 1, metric.WithAttributes(nameAttr, attribute.String("status", "success")))
	jobDuration.Record(ctx, time.Since(start).Seconds(), metric.WithAttributes(nameAttr))
	wp.log.Debug("Job completed", "worker", workerID, "job", job.Name(), "duration", time.Since(start))
}

// Submit queues a job without blocking. A full queue drops the job and
// returns an error.
func (wp *WorkerPool) Submit(job Job) error {
	wp.mu.Lock()
	defer wp.mu.Unlock()

	if wp.closed {
		return fmt.Errorf("worker pool closed, dropping %s", job.Name())
	}
	select {
	case wp.jobs <- job:
		return nil
	default:
		jobQueueDropped.Add(context.Background(), 1, metric.WithAttributes(attribute.String("job.name", job.Name())))
		return fmt.Errorf("job queue full, dropping %s", job.Name())
	}
}

// SubmitBatch queues jobs and returns how many were accepted.
func (wp *WorkerPool) SubmitBatch(jobs []Job) int {
	submitted := 0
	for _, job := range jobs {
		if err := wp.Submit(job); err != nil {
			wp.log.Warn("Failed to submit job", "job", job.Name(), "error", err)
			continue
		}
		submitted++
	}
	return submitted
}

// ShutdownWithTimeout stops accepting jobs and waits for running ones. Jobs
// still running after timeout are cancelled through their context.
func (wp *WorkerPool) ShutdownWithTimeout(timeout time.Duration) {
	wp.mu.Lock()
	if !wp.closed {
		wp.closed = true
		close(wp.jobs)
	}
	wp.mu.Unlock()

	done := make(chan struct{})
	go func() {
		wp.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(timeout):
		wp.log.Warn("Worker pool: timeout reached, cancelling running jobs")
	}
	wp.cancel()
}
