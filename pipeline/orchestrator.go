// Package pipeline runs ingestion jobs through extraction, editorial review,
// translation and image sourcing, and publishes every state change to
// subscribers.
package pipeline

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/fwojciec/pressroom"
	"github.com/google/uuid"
	"golang.org/x/sync/semaphore"
)

// Cancellation causes. They decide the failure reported for a job whose
// context ends while a stage is in flight.
var (
	errJobTimeout  = errors.New("job timed out")
	errJobCanceled = errors.New("job canceled")
	errJobRemoved  = errors.New("job removed")
	errShutdown    = errors.New("orchestrator closed")
)

// Services are the collaborators a job runs through. Extractor and Reviewer
// are required for URL submissions, Sanitizer and Reviewer for text
// submissions. The rest are optional.
type Services struct {
	Extractor  pressroom.ContentExtractor
	Sanitizer  pressroom.Sanitizer
	Reviewer   pressroom.Reviewer
	Translator pressroom.Translator
	Images     pressroom.ImageFinder
	Writer     pressroom.ArticleWriter
	Logger     *slog.Logger
}

// Orchestrator owns the job queue. Every job runs in its own goroutine;
// the queue is the only state shared between them. Stored jobs are never
// modified in place: each change stores a new copy, so snapshots handed to
// callers stay consistent.
type Orchestrator struct {
	services Services
	config   Config
	logger   *slog.Logger
	sem      *semaphore.Weighted

	ctx    context.Context
	cancel context.CancelCauseFunc
	wg     sync.WaitGroup

	mu      sync.RWMutex
	jobs    map[string]*pressroom.Job
	order   []string
	cancels map[string]context.CancelCauseFunc
	done    map[string]chan struct{}
	subs    map[int]chan pressroom.JobEvent
	nextSub int
	closed  bool
}

// NewOrchestrator creates an Orchestrator. Zero config fields take their
// defaults.
func NewOrchestrator(services Services, config Config) *Orchestrator {
	def := DefaultConfig()
	if config.JobTimeout <= 0 {
		config.JobTimeout = def.JobTimeout
	}
	if config.EventBuffer <= 0 {
		config.EventBuffer = def.EventBuffer
	}
	if config.ParsingOptions == (pressroom.ParsingOptions{}) {
		config.ParsingOptions = def.ParsingOptions
	}

	logger := services.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	ctx, cancel := context.WithCancelCause(context.Background())
	o := &Orchestrator{
		services: services,
		config:   config,
		logger:   logger,
		ctx:      ctx,
		cancel:   cancel,
		jobs:     make(map[string]*pressroom.Job),
		cancels:  make(map[string]context.CancelCauseFunc),
		done:     make(map[string]chan struct{}),
		subs:     make(map[int]chan pressroom.JobEvent),
	}
	if config.MaxConcurrentJobs > 0 {
		o.sem = semaphore.NewWeighted(config.MaxConcurrentJobs)
	}
	return o
}

// Submit validates sub, queues a pending job and starts processing it in
// the background. It returns the job ID without waiting for the job.
func (o *Orchestrator) Submit(sub pressroom.Submission) (string, error) {
	if err := sub.Validate(); err != nil {
		return "", err
	}

	id := uuid.NewString()
	job := &pressroom.Job{
		ID:           id,
		Status:       pressroom.JobPending,
		StartTime:    time.Now(),
		SourceText:   sub.SourceText,
		ContentStyle: sub.ContentStyle,
		Category:     sub.Category,
	}
	if job.ContentStyle == "" {
		job.ContentStyle = pressroom.StyleNews
	}
	if url := strings.TrimSpace(sub.URL); url != "" {
		job.URL = url
		job.SourceURLs = pressroom.NormalizeSourceURLs(url, sub.SourceURLs)
	} else {
		job.URL = pressroom.TextURLScheme + id
		job.SourceURLs = pressroom.NormalizeSourceURLs("", sub.SourceURLs)
		if len(job.SourceURLs) == 0 {
			job.SourceURLs = []string{job.URL}
		}
	}

	ctx, cancel := context.WithCancelCause(o.ctx)

	o.mu.Lock()
	if o.closed {
		o.mu.Unlock()
		cancel(errShutdown)
		return "", pressroom.Errorf(pressroom.EINTERNAL, "orchestrator is closed")
	}
	o.jobs[id] = job
	o.order = append(o.order, id)
	o.cancels[id] = cancel
	o.done[id] = make(chan struct{})
	o.wg.Add(1)
	o.publish(pressroom.JobCreated, job)
	o.mu.Unlock()

	o.logger.Info("job submitted", "job", id, "url", job.URL)

	go o.run(ctx, job.Clone(), sub)
	return id, nil
}

// Get returns a snapshot of the job. Returns ENOTFOUND if it does not exist.
func (o *Orchestrator) Get(id string) (*pressroom.Job, error) {
	o.mu.RLock()
	defer o.mu.RUnlock()
	job, ok := o.jobs[id]
	if !ok {
		return nil, pressroom.Errorf(pressroom.ENOTFOUND, "job %q not found", id)
	}
	return job.Clone(), nil
}

// List returns snapshots of all jobs in submission order.
func (o *Orchestrator) List() []*pressroom.Job {
	o.mu.RLock()
	defer o.mu.RUnlock()
	out := make([]*pressroom.Job, 0, len(o.order))
	for _, id := range o.order {
		out = append(out, o.jobs[id].Clone())
	}
	return out
}

// Wait blocks until the job reaches a terminal state and returns its
// snapshot. Returns ENOTFOUND if the job does not exist or is removed while
// waiting.
func (o *Orchestrator) Wait(ctx context.Context, id string) (*pressroom.Job, error) {
	o.mu.RLock()
	done, ok := o.done[id]
	o.mu.RUnlock()
	if !ok {
		return nil, pressroom.Errorf(pressroom.ENOTFOUND, "job %q not found", id)
	}

	select {
	case <-done:
	case <-ctx.Done():
		return nil, pressroom.ClassifyError(ctx.Err(), "wait for job %s", id)
	}
	return o.Get(id)
}

// Cancel marks the job failed with an aborted reason and aborts any call in
// flight. Canceling a job in a terminal state is an EINVALID error.
func (o *Orchestrator) Cancel(id string) error {
	o.mu.Lock()
	job, ok := o.jobs[id]
	if !ok {
		o.mu.Unlock()
		return pressroom.Errorf(pressroom.ENOTFOUND, "job %q not found", id)
	}
	if job.Status.Terminal() {
		o.mu.Unlock()
		return pressroom.Errorf(pressroom.EINVALID, "job %q is already %s", id, job.Status)
	}
	o.storeFailure(job, pressroom.Errorf(pressroom.ECANCELED, "job canceled by user"))
	cancel := o.cancels[id]
	o.mu.Unlock()

	o.logger.Info("job canceled", "job", id)
	if cancel != nil {
		cancel(errJobCanceled)
	}
	return nil
}

// Remove deletes the job from the queue, aborting it if it is still
// running. Removal is not a state transition: the job simply disappears.
func (o *Orchestrator) Remove(id string) error {
	o.mu.Lock()
	job, ok := o.jobs[id]
	if !ok {
		o.mu.Unlock()
		return pressroom.Errorf(pressroom.ENOTFOUND, "job %q not found", id)
	}
	delete(o.jobs, id)
	for i, other := range o.order {
		if other == id {
			o.order = append(o.order[:i], o.order[i+1:]...)
			break
		}
	}
	if !job.Status.Terminal() {
		close(o.done[id])
	}
	delete(o.done, id)
	cancel := o.cancels[id]
	o.publish(pressroom.JobRemoved, job)
	o.mu.Unlock()

	o.logger.Info("job removed", "job", id)
	if cancel != nil {
		cancel(errJobRemoved)
	}
	return nil
}

// MarkPublished moves a ready job to published.
func (o *Orchestrator) MarkPublished(id string) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	job, ok := o.jobs[id]
	if !ok {
		return pressroom.Errorf(pressroom.ENOTFOUND, "job %q not found", id)
	}
	if !job.Status.CanTransition(pressroom.JobPublished) {
		return pressroom.Errorf(pressroom.EINVALID, "job %q is %s, only ready jobs can be published", id, job.Status)
	}
	next := job.Clone()
	next.Status = pressroom.JobPublished
	o.jobs[id] = next
	o.publish(pressroom.JobUpdated, next)
	return nil
}

// Subscribe returns a channel receiving an event for every job change, and
// a function that unsubscribes and closes the channel. Events are dropped
// for a subscriber whose buffer is full. A non-positive buffer uses
// Config.EventBuffer.
func (o *Orchestrator) Subscribe(buffer int) (<-chan pressroom.JobEvent, func()) {
	if buffer <= 0 {
		buffer = o.config.EventBuffer
	}
	ch := make(chan pressroom.JobEvent, buffer)

	o.mu.Lock()
	defer o.mu.Unlock()
	if o.closed {
		close(ch)
		return ch, func() {}
	}
	key := o.nextSub
	o.nextSub++
	o.subs[key] = ch

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			o.mu.Lock()
			defer o.mu.Unlock()
			if sub, ok := o.subs[key]; ok {
				delete(o.subs, key)
				close(sub)
			}
		})
	}
}

// Close aborts all running jobs, waits for their goroutines to exit and
// closes every subscriber channel. Jobs remain readable after Close.
func (o *Orchestrator) Close() error {
	o.mu.Lock()
	if o.closed {
		o.mu.Unlock()
		return nil
	}
	o.closed = true
	o.mu.Unlock()

	o.cancel(errShutdown)
	o.wg.Wait()

	o.mu.Lock()
	defer o.mu.Unlock()
	for key, ch := range o.subs {
		delete(o.subs, key)
		close(ch)
	}
	return nil
}

// advance moves the job to status with the given progress.
func (o *Orchestrator) advance(id string, status pressroom.JobStatus, progress int) bool {
	return o.update(id, func(j *pressroom.Job) {
		j.Status = status
		j.Progress = progress
	})
}

func (o *Orchestrator) setProgress(id string, progress int) bool {
	return o.update(id, func(j *pressroom.Job) { j.Progress = progress })
}

// update stores a modified copy of a running job and publishes it. It
// reports false if the job was removed, is already terminal, or fn asks
// for a transition the state machine does not allow.
func (o *Orchestrator) update(id string, fn func(j *pressroom.Job)) bool {
	o.mu.Lock()
	defer o.mu.Unlock()

	cur, ok := o.jobs[id]
	if !ok || cur.Status.Terminal() {
		return false
	}
	next := cur.Clone()
	fn(next)
	if next.Status != cur.Status && !cur.Status.CanTransition(next.Status) {
		o.logger.Error("invalid job transition", "job", id, "from", cur.Status, "to", next.Status)
		return false
	}
	o.store(cur, next)
	return true
}

// storeFailure records err on a running job. The caller holds o.mu.
func (o *Orchestrator) storeFailure(cur *pressroom.Job, err error) {
	code := pressroom.ErrorCode(err)
	next := cur.Clone()
	next.Status = pressroom.JobFailed
	next.Error = pressroom.FailureCategory(code) + ": " + pressroom.ErrorMessage(err)
	next.ErrorCode = code
	next.EndTime = time.Now()
	o.store(cur, next)
}

// store replaces cur with next, closes the job's done channel when it
// becomes terminal and publishes the change. The caller holds o.mu.
func (o *Orchestrator) store(cur, next *pressroom.Job) {
	o.jobs[next.ID] = next
	if next.Status.Terminal() && !cur.Status.Terminal() {
		if done, ok := o.done[next.ID]; ok {
			close(done)
		}
	}
	if next.Status != cur.Status {
		o.logger.Info("job transition", "job", next.ID, "from", cur.Status, "to", next.Status, "progress", next.Progress)
	}
	o.publish(pressroom.JobUpdated, next)
}

// publish sends a snapshot to every subscriber without blocking. The
// caller holds o.mu.
func (o *Orchestrator) publish(typ pressroom.JobEventType, job *pressroom.Job) {
	for _, ch := range o.subs {
		ev := pressroom.JobEvent{Type: typ, Job: job.Clone(), Time: time.Now()}
		select {
		case ch <- ev:
		default:
			o.logger.Debug("dropped job event for slow subscriber", "job", job.ID, "type", typ)
		}
	}
}
