// Package worker provides an asynchronous worker pool for recording
// per-request telemetry summaries.
//
// The pool decouples bookkeeping from the gateway's HTTP hot path so that
// the client-gateway-upstream interaction stays fully transparent.
package worker

import (
	"fmt"
	"math"
	"sync"
	"time"

	"go.uber.org/zap"
)

var (
	defaultNumWorkers   uint = 3
	defaultJobQueueSize uint = 256
)

// Job is one completed request's telemetry for the worker pool to record.
type Job struct {
	// RequestID is the per-request trace identifier.
	RequestID string

	// Model is the model id the client asked for.
	Model string

	// Streaming reports whether the response was delivered as a stream.
	Streaming bool

	// Status is the HTTP status returned to the client.
	Status int

	// Chunks is the number of content chunks emitted (streaming only).
	Chunks int

	// ContentBytes is the total answer size in bytes.
	ContentBytes int

	// Duration is the wall time from inbound request to final byte.
	Duration time.Duration
}

// Config is the configuration options for the worker pool.
type Config struct {
	// NumWorkers is the number of background workers in the pool.
	NumWorkers uint

	// QueueSize is the capacity of the buffered job channel (defaults to 256).
	QueueSize uint

	// Logger is the provided zap logger
	Logger *zap.Logger
}

// Pool records request telemetry asynchronously via a worker pool.
type Pool struct {
	config *Config
	queue  chan Job
	wg     sync.WaitGroup
	logger *zap.Logger
}

// NewPool creates a new Pool and starts its worker goroutines.
func NewPool(c *Config) (*Pool, error) {
	if c.NumWorkers == 0 {
		c.NumWorkers = defaultNumWorkers
	}

	if c.QueueSize == 0 {
		c.QueueSize = defaultJobQueueSize
	}

	if c.NumWorkers > uint(math.MaxInt) {
		return nil, fmt.Errorf("NumWorkers %d exceeds max int", c.NumWorkers)
	}

	wp := &Pool{
		config: c,
		queue:  make(chan Job, c.QueueSize),
		logger: c.Logger,
	}

	wp.wg.Add(int(c.NumWorkers))
	for i := range c.NumWorkers {
		go wp.worker(i)
	}

	return wp, nil
}

// Enqueue submits a job for processing by the worker pool.
// Returns true if enqueued, false if the queue is full, resulting in the job being dropped
func (p *Pool) Enqueue(job Job) bool {
	select {
	case p.queue <- job:
		p.logger.Debug("job queued",
			zap.String("request_id", job.RequestID),
			zap.String("model", job.Model),
		)
		return true
	default:
		p.logger.Error("job not queued, queue full, job dropped",
			zap.String("request_id", job.RequestID),
			zap.String("model", job.Model),
		)
		return false
	}
}

// Close signals workers to stop and waits for in-flight jobs to drain.
// Call this during graceful shutdown after the gateway HTTP server has stopped.
func (p *Pool) Close() {
	close(p.queue)
	p.wg.Wait()
}

// worker is the inner worker thread that continuously pulls jobs off the jobs queue
func (p *Pool) worker(id uint) {
	defer p.wg.Done()
	p.logger.Debug("worker started", zap.Uint("worker_id", id))

	for job := range p.queue {
		p.processJob(job)
	}

	p.logger.Debug("telemetry worker stopped", zap.Uint("worker_id", id))
}

// processJob emits the completed-request summary for a Job.
func (p *Pool) processJob(job Job) {
	p.logger.Info("request completed",
		zap.String("request_id", job.RequestID),
		zap.String("model", job.Model),
		zap.Bool("streaming", job.Streaming),
		zap.Int("status", job.Status),
		zap.Int("chunks", job.Chunks),
		zap.Int("content_bytes", job.ContentBytes),
		zap.Duration("duration", job.Duration),
	)
}
