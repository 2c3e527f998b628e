package library

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/rs/zerolog"

	"github.com/superleo/marketingops/backend/internal/events"
	"github.com/superleo/marketingops/backend/internal/logging"
	"github.com/superleo/marketingops/backend/internal/media"
	"github.com/superleo/marketingops/backend/internal/metrics"
)

var (
	// ErrOperationInProgress is returned by Start while a job of the same operation is running.
	ErrOperationInProgress = errors.New("operation already in progress")

	ErrJobNotFound = errors.New("job not found")
)

// ProcessorOptions tunes a Processor. Zero values select the defaults.
type ProcessorOptions struct {
	MergeDelay            time.Duration
	ExtendDelay           time.Duration
	RemoveBackgroundDelay time.Duration

	// HistorySize bounds how many finished jobs stay queryable.
	HistorySize int
}

func (o ProcessorOptions) delay(op Operation) time.Duration {
	switch op {
	case OpMerge:
		if o.MergeDelay > 0 {
			return o.MergeDelay
		}
		return defaultMergeDelay
	case OpExtend:
		if o.ExtendDelay > 0 {
			return o.ExtendDelay
		}
		return defaultExtendDelay
	default:
		if o.RemoveBackgroundDelay > 0 {
			return o.RemoveBackgroundDelay
		}
		return defaultNoBGDelay
	}
}

// Processor starts batch jobs against a library store.
type Processor struct {
	store     media.LibraryStore
	events    events.Publisher
	opts      ProcessorOptions
	selection *Selection
	jobs      *lru.Cache[string, *Job]
	log       zerolog.Logger
	now       func() time.Time

	mu      sync.Mutex
	running map[Operation]*Job
	wg      sync.WaitGroup
}

// NewProcessor creates a processor adding its results to store.
func NewProcessor(store media.LibraryStore, pub events.Publisher, opts ProcessorOptions) (*Processor, error) {
	if pub == nil {
		pub = events.Discard{}
	}
	size := opts.HistorySize
	if size <= 0 {
		size = defaultJobHistory
	}
	jobs, err := lru.New[string, *Job](size)
	if err != nil {
		return nil, fmt.Errorf("job history: %w", err)
	}
	return &Processor{
		store:     store,
		events:    pub,
		opts:      opts,
		selection: &Selection{},
		jobs:      jobs,
		log:       logging.Component("library"),
		now:       time.Now,
		running:   make(map[Operation]*Job),
	}, nil
}

// Selection is the processor's current selection. It is cleared whenever a job settles.
func (p *Processor) Selection() *Selection { return p.selection }

// Capabilities reports which operations the current selection allows.
func (p *Processor) Capabilities() Capabilities {
	return CapabilitiesOf(p.store.Resolve(p.selection.IDs()))
}

// InProgress reports which operations have a running job.
func (p *Processor) InProgress() []Operation {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]Operation, 0, len(p.running))
	for _, op := range Operations {
		if p.running[op] != nil {
			out = append(out, op)
		}
	}
	return out
}

// Start validates the selection ids for op and, if it passes, runs the operation in the
// background. Ids that are no longer in the library are ignored. A rejected start creates
// nothing. The job stops early, adding nothing, if ctx is cancelled before the delay elapses.
func (p *Processor) Start(ctx context.Context, op Operation, ids []string) (*Job, error) {
	sources := p.store.Resolve(ids)
	if err := Check(op, sources); err != nil {
		return nil, err
	}

	p.mu.Lock()
	if p.running[op] != nil {
		p.mu.Unlock()
		return nil, fmt.Errorf("%s: %w", op, ErrOperationInProgress)
	}
	jobCtx, cancel := context.WithCancel(ctx)
	job := newJob(uuid.NewString(), op, sourceIDs(sources), p.now().UTC(), cancel)
	p.running[op] = job
	p.mu.Unlock()

	p.jobs.Add(job.ID, job)
	logging.Ctx(ctx).Info().Str("job", job.ID).Str("operation", string(op)).Int("sources", len(sources)).Msg("batch job started")

	p.wg.Add(1)
	go p.run(jobCtx, job, sources)
	return job, nil
}

// Wait blocks until every started job has settled.
func (p *Processor) Wait() { p.wg.Wait() }

// Job returns a started job while it is still in the history.
func (p *Processor) Job(id string) (*Job, error) {
	if job, ok := p.jobs.Get(id); ok {
		return job, nil
	}
	return nil, fmt.Errorf("job %s: %w", id, ErrJobNotFound)
}

// Cancel stops a running job. Cancelling a finished job has no effect.
func (p *Processor) Cancel(id string) (*Job, error) {
	job, err := p.Job(id)
	if err != nil {
		return nil, err
	}
	job.cancel()
	return job, nil
}

func (p *Processor) run(ctx context.Context, job *Job, sources []*media.MediaItem) {
	defer p.wg.Done()
	timer := time.NewTimer(p.opts.delay(job.Operation))
	defer timer.Stop()

	var (
		status  JobStatus
		created []string
		errMsg  string
	)
	select {
	case <-ctx.Done():
		status = JobCancelled
		errMsg = ctx.Err().Error()
	case <-timer.C:
		for _, item := range synthesize(job.Operation, sources, p.now().UTC()) {
			p.store.Add(item)
			created = append(created, item.ID)
		}
		status = JobSucceeded
	}

	p.mu.Lock()
	delete(p.running, job.Operation)
	p.mu.Unlock()
	p.selection.Clear()

	job.finish(status, created, errMsg, p.now().UTC())
	job.cancel()

	metrics.RecordBatchJob(string(job.Operation), string(status))
	p.log.Info().Str("job", job.ID).Str("operation", string(job.Operation)).Str("status", string(status)).Strs("created", created).Msg("batch job settled")
	p.events.Publish(events.Event{Type: events.LibraryJobComplete, ID: job.ID, Data: job.Snapshot()})
}

func sourceIDs(items []*media.MediaItem) []string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = it.ID
	}
	return out
}
