package queue

import (
	"context"
	"hash/fnv"
	"sync"

	"github.com/rs/zerolog"

	"github.com/senado-bo/portal-api/internal/core/domain"
	"github.com/senado-bo/portal-api/internal/pkg/metrics"
)

const (
	defaultWorkers = 4
	channelBuffer  = 512
)

// ViewIncrementer persists one page view.
type ViewIncrementer interface {
	IncrementViews(ctx context.Context, id string) error
}

type view struct {
	contentID   string
	contentType domain.ContentType
}

// ViewRecorder counts content views off the request path. Views of the same
// item always land on the same worker.
type ViewRecorder struct {
	workers []chan view
	store   ViewIncrementer
	log     zerolog.Logger
	wg      sync.WaitGroup
	once    sync.Once
}

// NewViewRecorder creates a recorder with numWorkers sharded workers.
// If numWorkers <= 0, defaultWorkers is used.
func NewViewRecorder(numWorkers int, store ViewIncrementer, log zerolog.Logger) *ViewRecorder {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	r := &ViewRecorder{
		workers: make([]chan view, numWorkers),
		store:   store,
		log:     log,
	}
	for i := range r.workers {
		r.workers[i] = make(chan view, channelBuffer)
	}
	return r
}

// Start launches the workers. They run until Stop drains the queues.
func (r *ViewRecorder) Start(ctx context.Context) {
	for i, ch := range r.workers {
		r.wg.Add(1)
		go r.runWorker(ctx, i, ch)
	}
}

// Record queues a view. A full shard drops the view rather than block.
func (r *ViewRecorder) Record(contentID string, contentType domain.ContentType) {
	select {
	case r.workers[r.shardIndex(contentID)] <- view{contentID: contentID, contentType: contentType}:
	default:
		r.log.Warn().Str("content_id", contentID).Msg("view queue full, view dropped")
	}
}

// Stop closes the queues and waits for the workers to flush what is pending.
// Record must not be called after Stop.
func (r *ViewRecorder) Stop() {
	r.once.Do(func() {
		for _, ch := range r.workers {
			close(ch)
		}
	})
	r.wg.Wait()
}

func (r *ViewRecorder) shardIndex(contentID string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(contentID))
	return int(h.Sum32() % uint32(len(r.workers)))
}

func (r *ViewRecorder) runWorker(ctx context.Context, id int, ch <-chan view) {
	defer r.wg.Done()
	for v := range ch {
		if err := r.store.IncrementViews(ctx, v.contentID); err != nil {
			r.log.Error().Err(err).
				Str("content_id", v.contentID).
				Int("worker_id", id).
				Msg("view count not recorded")
			continue
		}
		metrics.ContentViewsTotal.WithLabelValues(string(v.contentType)).Inc()
	}
}
