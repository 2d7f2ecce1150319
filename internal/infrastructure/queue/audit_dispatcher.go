package queue

import (
	"context"
	"errors"
	"hash/fnv"
	"sync"

	"github.com/rs/zerolog"

	"github.com/cse341/records-api/internal/pkg/metrics"
	"github.com/cse341/records-api/internal/core/domain"
	"github.com/cse341/records-api/internal/core/ports"
)

const (
	defaultWorkers = 4
	channelBuffer  = 256
)

var ErrDispatcherClosed = errors.New("audit dispatcher closed")

// AuditDispatcher moves audit writes off the request path. Entries are routed
// to a fixed set of workers by record ID, so entries for one record reach the
// sink in the order they were recorded.
type AuditDispatcher struct {
	workers []chan domain.AuditEntry
	sink    ports.AuditRepository
	log     zerolog.Logger

	mu     sync.RWMutex
	closed bool
	wg     sync.WaitGroup
}

// NewAuditDispatcher creates a dispatcher with numWorkers sharded workers
// writing to sink. If numWorkers <= 0, defaultWorkers is used.
func NewAuditDispatcher(numWorkers int, sink ports.AuditRepository, log zerolog.Logger) *AuditDispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	d := &AuditDispatcher{
		workers: make([]chan domain.AuditEntry, numWorkers),
		sink:    sink,
		log:     log,
	}
	for i := range d.workers {
		d.workers[i] = make(chan domain.AuditEntry, channelBuffer)
	}
	return d
}

// Start launches all worker goroutines. Workers exit once Close has drained
// their queue.
func (d *AuditDispatcher) Start() {
	for i, ch := range d.workers {
		d.wg.Add(1)
		go d.runWorker(i, ch)
	}
}

// Record enqueues entry. It blocks only while the target worker's buffer is
// full, and gives up when ctx is done.
func (d *AuditDispatcher) Record(ctx context.Context, entry domain.AuditEntry) error {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.closed {
		return ErrDispatcherClosed
	}

	select {
	case d.workers[d.shardIndex(entry.RecordID)] <- entry:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close stops accepting entries and waits for the queued ones to be written.
func (d *AuditDispatcher) Close() {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return
	}
	d.closed = true
	for _, ch := range d.workers {
		close(ch)
	}
	d.mu.Unlock()

	d.wg.Wait()
}

// shardIndex maps a record ID deterministically to a worker index.
func (d *AuditDispatcher) shardIndex(recordID string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(recordID))
	return int(h.Sum32() % uint32(len(d.workers)))
}

func (d *AuditDispatcher) runWorker(id int, ch <-chan domain.AuditEntry) {
	defer d.wg.Done()
	for entry := range ch {
		if err := d.sink.Record(context.Background(), entry); err != nil {
			metrics.AuditFailuresTotal.Inc()
			d.log.Error().Err(err).
				Str("resource", entry.Resource).
				Str("record_id", entry.RecordID).
				Int("worker_id", id).
				Msg("audit write failed")
		}
	}
}
