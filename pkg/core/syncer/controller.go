package syncer

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/jakechorley/consult-hub/pkg/core/gateway"
	"github.com/jakechorley/consult-hub/pkg/core/lifecycle"
	"github.com/jakechorley/consult-hub/pkg/core/model"
)

// ErrStopped is returned by operations on a controller that has been stopped
var ErrStopped = errors.New("controller stopped")

// SnapshotLoader provides the last known collection for cold starts and outages
type SnapshotLoader interface {
	LoadLastKnown(ctx context.Context) []model.ConsultationRequest
}

// Status describes the sync state shown to the user
type Status struct {
	Loading  bool
	Err      error
	LastSync time.Time
	Count    int
}

// Controller owns the in-memory collection of requests and keeps it in step with the
// remote store. Local changes are applied optimistically, written through the gateway,
// and reconciled by a later refresh. A refresh replaces the whole collection, so local
// edits the remote store has not reflected yet are lost when it lands.
type Controller struct {
	gateway gateway.Gateway
	store   SnapshotLoader
	logger  *zap.Logger
	opts    options

	mu       sync.Mutex
	requests []model.ConsultationRequest
	// completion stamps seen or assigned by this controller, by request id
	completedAt map[string]int64
	seeded      bool
	loading     int
	lastErr     error
	lastSync    time.Time
	stopped     bool
	poller      *cron.Cron
	timers      map[*time.Timer]struct{}
	listeners   []func(Status)

	// writes are sent one at a time, in call order
	writes        *writeQueue
	writerStarted bool
}

// New creates a controller. store may be nil when no local snapshot is kept.
func New(gw gateway.Gateway, store SnapshotLoader, logger *zap.Logger, opts ...Option) *Controller {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	return &Controller{
		gateway:     gw,
		store:       store,
		logger:      logger,
		opts:        o,
		requests:    []model.ConsultationRequest{},
		completedAt: make(map[string]int64),
		timers:      make(map[*time.Timer]struct{}),
		writes:      newWriteQueue(),
	}
}

// Seed replaces the in-memory collection before the first refresh, for example from a
// shared link. A seeded controller does not load the local snapshot on Load.
func (c *Controller) Seed(requests []model.ConsultationRequest) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.requests = sortByCreatedDesc(model.CloneAll(requests))
	c.rememberCompletions(c.requests)
	c.seeded = true
}

// Subscribe registers fn to be called after every refresh attempt
func (c *Controller) Subscribe(fn func(Status)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.listeners = append(c.listeners, fn)
}

// Load performs the cold start: local snapshot first (unless seeded), then a refresh.
// A failed refresh leaves the snapshot in place with the error flag set.
func (c *Controller) Load(ctx context.Context) {
	c.mu.Lock()
	needSnapshot := !c.seeded && c.store != nil
	c.mu.Unlock()

	if needSnapshot {
		snapshot := c.store.LoadLastKnown(ctx)
		c.mu.Lock()
		if !c.seeded {
			c.requests = sortByCreatedDesc(snapshot)
			c.rememberCompletions(c.requests)
			c.seeded = true
		}
		c.mu.Unlock()
		c.logger.Debug("Loaded last known requests", zap.Int("count", len(snapshot)))
	}

	if err := c.Refresh(ctx, true); err != nil && !errors.Is(err, ErrStopped) {
		c.logger.Warn("Initial refresh failed, serving last known requests", zap.Error(err))
	}
}

// Start loads the collection and begins polling the remote store.
// Polling runs until Stop is called.
func (c *Controller) Start(ctx context.Context) error {
	c.Load(ctx)

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.stopped {
		return ErrStopped
	}
	if c.poller != nil {
		return nil
	}

	c.poller = cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)))
	c.poller.Schedule(cron.Every(c.opts.pollInterval), cron.FuncJob(c.backgroundRefresh))
	c.poller.Start()

	c.logger.Info("Polling remote store", zap.Duration("interval", c.opts.pollInterval))
	return nil
}

// Stop ends polling and cancels pending reconciling refreshes. Results of requests still in
// flight are discarded. Stop waits until queued writes have been dispatched.
func (c *Controller) Stop() {
	c.mu.Lock()
	if c.stopped {
		c.mu.Unlock()
		return
	}
	c.stopped = true

	poller := c.poller
	for t := range c.timers {
		t.Stop()
	}
	c.timers = make(map[*time.Timer]struct{})
	writerStarted := c.writerStarted
	c.mu.Unlock()

	if poller != nil {
		poller.Stop()
	}

	c.writes.close()
	if writerStarted {
		<-c.writes.done
	}
	c.logger.Debug("Controller stopped")
}

// Refresh replaces the collection with the remote snapshot, newest first.
// On failure the collection is left as it was and the error flag is set.
func (c *Controller) Refresh(ctx context.Context, showLoading bool) error {
	c.mu.Lock()
	if c.stopped {
		c.mu.Unlock()
		return ErrStopped
	}
	if showLoading {
		c.loading++
	}
	c.mu.Unlock()

	fetched, fetchErr := c.gateway.FetchAll(ctx)
	if fetchErr != nil && !errors.Is(fetchErr, gateway.ErrRemoteUnavailable) {
		fetchErr = fmt.Errorf("%w: %v", gateway.ErrRemoteUnavailable, fetchErr)
	}

	c.mu.Lock()
	if showLoading {
		c.loading--
	}
	if c.stopped {
		c.mu.Unlock()
		return ErrStopped
	}

	if fetchErr != nil {
		c.lastErr = fetchErr
	} else {
		now := c.opts.now()
		c.requests = c.reconcile(fetched, now)
		c.lastErr = nil
		c.lastSync = now
	}
	status := c.statusLocked()
	listeners := slices.Clone(c.listeners)
	c.mu.Unlock()

	if fetchErr != nil {
		c.logger.Warn("Refresh failed", zap.Error(fetchErr))
	} else {
		c.logger.Debug("Refreshed requests", zap.Int("count", status.Count))
	}
	for _, fn := range listeners {
		fn(status)
	}

	return fetchErr
}

// Create validates a draft, adds the new request at the top of the collection and writes
// it to the remote store in the background.
func (c *Controller) Create(ctx context.Context, draft lifecycle.Draft) (model.ConsultationRequest, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.stopped {
		return model.ConsultationRequest{}, ErrStopped
	}

	rec, err := lifecycle.NewRequest(draft, c.opts.newID(), c.opts.now())
	if err != nil {
		return model.ConsultationRequest{}, err
	}
	if c.indexLocked(rec.ID) >= 0 {
		return model.ConsultationRequest{}, fmt.Errorf("generated id %s already exists", rec.ID)
	}

	c.requests = append([]model.ConsultationRequest{rec}, c.requests...)
	c.dispatchLocked(ctx, gateway.ActionAdd, rec.Clone())

	c.logger.Info("Request created",
		zap.String("id", rec.ID),
		zap.String("student", rec.StudentName),
		zap.String("instructor", rec.AssignedInstructorName))

	return rec.Clone(), nil
}

// Update applies a patch on behalf of actor and writes the result in the background
func (c *Controller) Update(ctx context.Context, id string, actor model.Role, patch lifecycle.Patch) (model.ConsultationRequest, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.stopped {
		return model.ConsultationRequest{}, ErrStopped
	}

	idx := c.indexLocked(id)
	if idx < 0 {
		return model.ConsultationRequest{}, fmt.Errorf("%w: %s", lifecycle.ErrNotFound, id)
	}

	prev := c.requests[idx]
	next, err := lifecycle.Apply(prev, actor, patch, c.opts.policy, c.opts.now())
	if err != nil {
		return model.ConsultationRequest{}, err
	}
	if next.CompletedAt != nil {
		c.completedAt[id] = *next.CompletedAt
	}

	updated := slices.Clone(c.requests)
	updated[idx] = next
	c.requests = updated
	c.dispatchLocked(ctx, gateway.ActionUpdate, next.Clone())

	c.logger.Info("Request updated",
		zap.String("id", id),
		zap.String("patch", patch.Name()),
		zap.String("status", string(next.Status)))

	return next.Clone(), nil
}

// Records returns a copy of the collection, newest first
func (c *Controller) Records() []model.ConsultationRequest {
	c.mu.Lock()
	defer c.mu.Unlock()
	return model.CloneAll(c.requests)
}

// Find returns the request with the given id
func (c *Controller) Find(id string) (model.ConsultationRequest, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	idx := c.indexLocked(id)
	if idx < 0 {
		return model.ConsultationRequest{}, false
	}
	return c.requests[idx].Clone(), true
}

// ForRequester returns the requests opened by a homeroom teacher
func (c *Controller) ForRequester(name string) []model.ConsultationRequest {
	name = strings.TrimSpace(name)
	return c.filter(func(r model.ConsultationRequest) bool {
		return strings.TrimSpace(r.RequesterName) == name
	})
}

// ForInstructor returns an instructor's open requests, or completed ones when completed is set
func (c *Controller) ForInstructor(name string, completed bool) []model.ConsultationRequest {
	name = strings.TrimSpace(name)
	return c.filter(func(r model.ConsultationRequest) bool {
		if strings.TrimSpace(r.AssignedInstructorName) != name {
			return false
		}
		return (r.Status == model.StatusCompleted) == completed
	})
}

// Status reports the loading flag, the last refresh error and the last successful sync
func (c *Controller) Status() Status {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.statusLocked()
}

func (c *Controller) statusLocked() Status {
	return Status{
		Loading:  c.loading > 0,
		Err:      c.lastErr,
		LastSync: c.lastSync,
		Count:    len(c.requests),
	}
}

func (c *Controller) filter(keep func(model.ConsultationRequest) bool) []model.ConsultationRequest {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := []model.ConsultationRequest{}
	for _, r := range c.requests {
		if keep(r) {
			out = append(out, r.Clone())
		}
	}
	return out
}

func (c *Controller) indexLocked(id string) int {
	return slices.IndexFunc(c.requests, func(r model.ConsultationRequest) bool {
		return r.ID == id
	})
}

// dispatchLocked queues rec for the background writer. Writes reach the gateway in the
// order they were queued. Must be called with c.mu held.
func (c *Controller) dispatchLocked(ctx context.Context, action gateway.Action, rec model.ConsultationRequest) {
	if !c.writerStarted {
		c.writerStarted = true
		go c.writes.run(c.send)
	}

	c.writes.push(writeJob{
		ctx:     context.WithoutCancel(ctx),
		action:  action,
		request: rec,
	})
}

// send performs one queued write, then schedules a reconciling refresh whatever the outcome
func (c *Controller) send(job writeJob) {
	if c.gateway.Upsert(job.ctx, job.action, job.request) {
		c.logger.Debug("Write sent, awaiting reconcile", zap.String("action", string(job.action)), zap.String("id", job.request.ID))
	} else {
		c.logger.Warn("Write could not be sent", zap.String("action", string(job.action)), zap.String("id", job.request.ID))
	}

	c.scheduleReconcile()
}

func (c *Controller) scheduleReconcile() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.stopped {
		return
	}

	var t *time.Timer
	t = time.AfterFunc(c.opts.reconcileDelay, func() {
		c.mu.Lock()
		delete(c.timers, t)
		c.mu.Unlock()

		c.backgroundRefresh()
	})
	c.timers[t] = struct{}{}
}

func (c *Controller) backgroundRefresh() {
	ctx, cancel := context.WithTimeout(context.Background(), c.opts.fetchTimeout)
	defer cancel()

	// Failures are already logged and recorded in Status
	_ = c.Refresh(ctx, false)
}

// reconcile turns a fetched snapshot into the new collection. Completion stamps the
// remote store dropped are restored from what this controller has seen, and stamps on
// records that are not completed are cleared.
func (c *Controller) reconcile(fetched []model.ConsultationRequest, now time.Time) []model.ConsultationRequest {
	out := model.CloneAll(fetched)
	for i := range out {
		rec := &out[i]
		if rec.AvailableTimeSlots == nil {
			rec.AvailableTimeSlots = []string{}
		}

		if rec.Status != model.StatusCompleted {
			rec.CompletedAt = nil
			continue
		}

		if known, ok := c.completedAt[rec.ID]; ok {
			rec.CompletedAt = &known
			continue
		}

		stamp := now.UnixMilli()
		if rec.CompletedAt != nil {
			stamp = *rec.CompletedAt
		}
		c.completedAt[rec.ID] = stamp
		rec.CompletedAt = &stamp
	}

	return sortByCreatedDesc(out)
}

func (c *Controller) rememberCompletions(requests []model.ConsultationRequest) {
	for _, r := range requests {
		if r.Status == model.StatusCompleted && r.CompletedAt != nil {
			if _, ok := c.completedAt[r.ID]; !ok {
				c.completedAt[r.ID] = *r.CompletedAt
			}
		}
	}
}

// sortByCreatedDesc orders newest first, keeping the incoming order for equal timestamps
func sortByCreatedDesc(requests []model.ConsultationRequest) []model.ConsultationRequest {
	if requests == nil {
		return []model.ConsultationRequest{}
	}
	slices.SortStableFunc(requests, func(a, b model.ConsultationRequest) int {
		switch {
		case a.CreatedAt > b.CreatedAt:
			return -1
		case a.CreatedAt < b.CreatedAt:
			return 1
		default:
			return 0
		}
	})
	return requests
}
