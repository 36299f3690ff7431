package queue

import (
	"context"
	"hash/fnv"
	"strconv"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/aph/pathlabel/internal/core/ports"
	"github.com/aph/pathlabel/internal/pkg/metrics"
)

const (
	defaultWorkers = 2
	channelBuffer  = 256
	writeTimeout   = 5 * time.Second
)

// Dispatcher routes label events to a fixed set of workers using consistent
// hashing on the path id, so events for one label are journaled in order.
type Dispatcher struct {
	workers []chan ports.LabelEvent
	repo    ports.PrintJournalRepository
	log     zerolog.Logger
	wg      sync.WaitGroup
}

// NewDispatcher creates a Dispatcher with numWorkers sharded workers.
// If numWorkers <= 0, defaultWorkers is used.
func NewDispatcher(numWorkers int, repo ports.PrintJournalRepository, log zerolog.Logger) *Dispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	d := &Dispatcher{
		workers: make([]chan ports.LabelEvent, numWorkers),
		repo:    repo,
		log:     log,
	}
	for i := range d.workers {
		d.workers[i] = make(chan ports.LabelEvent, channelBuffer)
	}
	return d
}

// Start launches all worker goroutines. Workers drain their channel and stop
// when ctx is cancelled; Wait blocks until they have.
func (d *Dispatcher) Start(ctx context.Context) {
	for i, ch := range d.workers {
		d.wg.Add(1)
		go d.runWorker(ctx, i, ch)
	}
}

// Wait blocks until every worker has returned.
func (d *Dispatcher) Wait() {
	d.wg.Wait()
}

// TryEnqueue hands ev to its worker without blocking. It reports false when
// the worker's buffer is full and the event was dropped.
func (d *Dispatcher) TryEnqueue(ev ports.LabelEvent) bool {
	idx := d.shardIndex(ev.PathID)
	select {
	case d.workers[idx] <- ev:
		metrics.JournalQueueDepth.WithLabelValues(strconv.Itoa(idx)).Set(float64(len(d.workers[idx])))
		return true
	default:
		return false
	}
}

// shardIndex maps a path id deterministically to a worker index.
func (d *Dispatcher) shardIndex(pathID string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(pathID))
	return int(h.Sum32() % uint32(len(d.workers)))
}

func (d *Dispatcher) runWorker(ctx context.Context, id int, ch <-chan ports.LabelEvent) {
	defer d.wg.Done()
	for {
		select {
		case <-ctx.Done():
			d.drain(id, ch)
			return
		case ev := <-ch:
			d.write(id, ev)
		}
	}
}

// drain flushes whatever is still buffered at shutdown.
func (d *Dispatcher) drain(id int, ch <-chan ports.LabelEvent) {
	for {
		select {
		case ev := <-ch:
			d.write(id, ev)
		default:
			return
		}
	}
}

func (d *Dispatcher) write(id int, ev ports.LabelEvent) {
	workerID := strconv.Itoa(id)
	ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
	defer cancel()

	if err := d.repo.Insert(ctx, ev); err != nil {
		metrics.JournalErrorsTotal.Inc()
		d.log.Error().Err(err).
			Str("path_id", ev.PathID).
			Str("flow", ev.Flow).
			Str("worker_id", workerID).
			Msg("label journal write failed")
	}
	metrics.JournalQueueDepth.WithLabelValues(workerID).Set(float64(len(d.workers[id])))
}
