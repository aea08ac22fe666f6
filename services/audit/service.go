package audit

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/upb/agent-access-plane/models"
	"github.com/upb/agent-access-plane/repositories"
	"go.uber.org/zap"
)

// Recorder appends one audit record per evaluated request to the
// authoritative store and optionally forwards a copy to a durable sink.
// The store append is synchronous: the rate limiter reads its windows from
// the same store, so a decision must be visible before the next check.
// Sink forwarding is asynchronous and best-effort.
type Recorder struct {
	store  repositories.AuditStore
	sink   repositories.AuditStore // optional durable sink, may be nil
	logger *zap.Logger

	eventChan chan *models.AuditRecord
	workers   int
	buffer    int
	wg        sync.WaitGroup
	ctx       context.Context
	cancel    context.CancelFunc
	started   bool
	mu        sync.Mutex
}

// Config holds configuration for the Recorder's sink forwarding
type Config struct {
	BufferSize  int // Size of the forward buffer channel
	WorkerCount int // Number of concurrent forward workers
}

// DefaultConfig returns the default configuration
func DefaultConfig() Config {
	return Config{
		BufferSize:  10000,
		WorkerCount: 2,
	}
}

// NewRecorder creates a Recorder. sink may be nil when no durable sink is
// configured; forwarding is then disabled entirely.
func NewRecorder(store repositories.AuditStore, sink repositories.AuditStore, logger *zap.Logger, config Config) *Recorder {
	ctx, cancel := context.WithCancel(context.Background())

	return &Recorder{
		store:     store,
		sink:      sink,
		logger:    logger,
		eventChan: make(chan *models.AuditRecord, config.BufferSize),
		workers:   config.WorkerCount,
		buffer:    config.BufferSize,
		ctx:       ctx,
		cancel:    cancel,
	}
}

// Record appends the record to the store and, when a sink is configured,
// queues it for forwarding. The append must succeed; forwarding is
// best-effort and a full buffer drops the copy with a warning.
func (r *Recorder) Record(ctx context.Context, record *models.AuditRecord) error {
	if err := r.store.Append(ctx, record); err != nil {
		return fmt.Errorf("failed to append audit record: %w", err)
	}

	if r.sink == nil {
		return nil
	}

	r.mu.Lock()
	started := r.started
	r.mu.Unlock()
	if !started {
		return nil
	}

	select {
	case r.eventChan <- record:
	default:
		r.logger.Warn("audit sink buffer full, dropping record",
			zap.String("request_id", record.RequestID),
			zap.String("agent_id", record.AgentID))
	}
	return nil
}

// Start starts the sink forward workers. A no-op when no sink is configured.
func (r *Recorder) Start() error {
	if r.sink == nil {
		return nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.started {
		return fmt.Errorf("audit recorder already started")
	}

	for i := 0; i < r.workers; i++ {
		r.wg.Add(1)
		go r.worker(i)
	}

	r.started = true
	r.logger.Info("started audit sink forwarding",
		zap.Int("worker_count", r.workers),
		zap.Int("buffer_size", r.buffer))
	return nil
}

// Stop gracefully stops sink forwarding, waiting for pending records up to
// the timeout
func (r *Recorder) Stop(timeout time.Duration) error {
	r.mu.Lock()
	if !r.started {
		r.mu.Unlock()
		return nil
	}
	r.started = false
	r.mu.Unlock()

	r.logger.Info("stopping audit sink forwarding", zap.Int("pending_records", len(r.eventChan)))
	close(r.eventChan)

	done := make(chan struct{})
	go func() {
		r.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		r.cancel()
		return nil
	case <-time.After(timeout):
		r.cancel()
		return fmt.Errorf("audit recorder stop timeout after %v", timeout)
	}
}

// worker forwards records from the channel to the sink
func (r *Recorder) worker(id int) {
	defer r.wg.Done()

	for record := range r.eventChan {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := r.sink.Append(ctx, record); err != nil {
			r.logger.Error("failed to forward audit record to sink",
				zap.Int("worker_id", id),
				zap.Error(err),
				zap.String("request_id", record.RequestID))
		}
		cancel()
	}
}

// Stats represents recorder statistics
type Stats struct {
	BufferSize     int
	PendingRecords int
	WorkerCount    int
	SinkConfigured bool
	Started        bool
}

// GetStats returns statistics about the recorder
func (r *Recorder) GetStats() Stats {
	r.mu.Lock()
	defer r.mu.Unlock()

	return Stats{
		BufferSize:     r.buffer,
		PendingRecords: len(r.eventChan),
		WorkerCount:    r.workers,
		SinkConfigured: r.sink != nil,
		Started:        r.started,
	}
}
