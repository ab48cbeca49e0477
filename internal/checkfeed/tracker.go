package checkfeed

import (
	"context"
	"sync"

	"github.com/fentz26/papercheck/internal/models"
	"github.com/sirupsen/logrus"
)

// Phase is the tracker's own lifecycle, distinct from both the task status
// and the channel state.
type Phase string

const (
	// PhaseIdle: constructed, not yet started.
	PhaseIdle Phase = "idle"
	// PhaseLoading: initial poll and first connect are in flight.
	PhaseLoading Phase = "loading"
	// PhaseTracking: status known, channel live or silently reconnecting.
	PhaseTracking Phase = "tracking"
	// PhaseLoadFailed: both the poll and the first connection attempt
	// failed. This is a client-side connectivity problem, deliberately
	// distinct from a failed check.
	PhaseLoadFailed Phase = "load_failed"
	// PhaseDone: the task reached completed or failed. Absorbing.
	PhaseDone Phase = "done"
)

// TaskState is the authoritative merged view of one check task.
type TaskState struct {
	Task      models.CheckTask
	Conn      ConnState
	Phase     Phase
	LoadError string // set only in PhaseLoadFailed
}

// StatusFetcher is the one-shot poll dependency; *api.Client satisfies it.
type StatusFetcher interface {
	GetCheckStatus(ctx context.Context, taskID string) (*models.CheckTask, error)
}

// Tracker merges poll results and channel frames into a single TaskState and
// decides terminal transitions. Updates are applied in the order their I/O
// callbacks fire; each field reflects the most recent update that carried it,
// and status never leaves completed or failed once reached.
type Tracker struct {
	taskID  string
	fetcher StatusFetcher
	feed    Feed
	notify  func(TaskState)
	log     *logrus.Logger

	mu         sync.Mutex
	state      TaskState
	stopped    bool
	pollDone   bool
	pollFailed bool
	connOpened bool

	closeFeed sync.Once
	cancel    context.CancelFunc
}

// TrackerOption configures a Tracker.
type TrackerOption func(*Tracker)

// WithNotify registers a listener invoked after every state transition with a
// copy of the new state. It runs on the tracker's calling goroutine.
func WithNotify(fn func(TaskState)) TrackerOption {
	return func(t *Tracker) { t.notify = fn }
}

// WithTrackerLogger sets the tracker's logger.
func WithTrackerLogger(log *logrus.Logger) TrackerOption {
	return func(t *Tracker) { t.log = log }
}

// NewTracker creates a tracker for one task. The feed is owned by the
// tracker from Start onward: the tracker closes it on terminal transition or
// Stop, whichever comes first, and exactly once.
func NewTracker(taskID string, fetcher StatusFetcher, feed Feed, opts ...TrackerOption) *Tracker {
	t := &Tracker{
		taskID:  taskID,
		fetcher: fetcher,
		feed:    feed,
		log:     logrus.New(),
		state: TaskState{
			Task: models.CheckTask{
				TaskID: taskID,
				Status: models.CheckStatusPending,
			},
			Conn:  StateConnecting,
			Phase: PhaseIdle,
		},
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Start fires the one-shot poll and opens the feed. The two are deliberately
// not sequenced; the poll is a best-effort fast path for the first paint,
// not a prerequisite for the channel. Whichever answers first moves the
// tracker to PhaseTracking.
func (t *Tracker) Start(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)

	t.mu.Lock()
	if t.state.Phase != PhaseIdle || t.stopped {
		t.mu.Unlock()
		cancel()
		return
	}
	t.cancel = cancel
	t.state.Phase = PhaseLoading
	snapshot := t.state
	t.mu.Unlock()
	t.emit(snapshot)

	go t.poll(ctx)
	t.feed.Start(t.applyUpdate, t.connStateChanged)
}

// Stop detaches the tracker: the feed is closed and any still-pending poll
// response is discarded rather than applied to stale state. Idempotent.
func (t *Tracker) Stop() {
	t.mu.Lock()
	if t.stopped {
		t.mu.Unlock()
		return
	}
	t.stopped = true
	cancel := t.cancel
	t.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	t.closeFeed.Do(t.feed.Close)
}

// Snapshot returns a copy of the current state.
func (t *Tracker) Snapshot() TaskState {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state
}

func (t *Tracker) poll(ctx context.Context) {
	task, err := t.fetcher.GetCheckStatus(ctx, t.taskID)

	t.mu.Lock()
	if t.stopped || ctx.Err() != nil {
		// Late poll after Stop: discard, never mutate state.
		t.mu.Unlock()
		return
	}
	t.pollDone = true
	if err != nil {
		t.pollFailed = true
		t.log.WithError(err).Debug("initial status poll failed")
		changed := t.evaluateLoadFailureLocked()
		snapshot := t.state
		t.mu.Unlock()
		if changed {
			t.emit(snapshot)
		}
		return
	}
	t.mu.Unlock()

	t.applyUpdate(SnapshotUpdate(task))
}

// applyUpdate merges one partial update into the task state. Fields absent
// from the update keep their previous values; a terminal status is never
// overwritten.
func (t *Tracker) applyUpdate(u StatusUpdate) {
	t.mu.Lock()
	if t.stopped || t.state.Phase == PhaseDone {
		t.mu.Unlock()
		return
	}

	task := &t.state.Task
	if u.Status != nil && !task.Status.Terminal() {
		task.Status = *u.Status
	}
	if u.Progress != nil {
		task.ProgressPercent = *u.Progress
	}
	if u.CurrentStage != nil {
		task.CurrentStage = *u.CurrentStage
	}
	if u.ResultID != nil {
		task.ResultID = *u.ResultID
	}
	if u.Error != nil {
		task.ErrorMessage = *u.Error
	}

	// Data from either source is enough to leave Loading (or to recover
	// from LoadFailed if the channel comes up late).
	if t.state.Phase == PhaseLoading || t.state.Phase == PhaseLoadFailed {
		t.state.Phase = PhaseTracking
		t.state.LoadError = ""
	}

	terminal := task.Status == models.CheckStatusFailed ||
		(task.Status == models.CheckStatusCompleted && task.ResultID != "")
	if terminal {
		t.state.Phase = PhaseDone
	}
	snapshot := t.state
	t.mu.Unlock()

	if terminal {
		// Exactly once, no matter how many terminal frames arrive.
		t.closeFeed.Do(t.feed.Close)
	}
	t.emit(snapshot)
}

// connStateChanged records channel transitions. Below the attempt bound a
// reconnect is invisible to the user; only exhaustion escalates.
func (t *Tracker) connStateChanged(s ConnState) {
	t.mu.Lock()
	if t.stopped {
		t.mu.Unlock()
		return
	}
	t.state.Conn = s
	if s == StateOpen {
		t.connOpened = true
	}
	if s == StateReconnecting || s == StateExhausted {
		t.evaluateLoadFailureLocked()
	}
	snapshot := t.state
	t.mu.Unlock()

	t.emit(snapshot)
}

// evaluateLoadFailureLocked moves Loading to LoadFailed once the poll has
// failed and the channel never managed a first connection. Caller holds mu.
func (t *Tracker) evaluateLoadFailureLocked() bool {
	if t.state.Phase != PhaseLoading {
		return false
	}
	if !t.pollDone || !t.pollFailed || t.connOpened {
		return false
	}
	if t.state.Conn != StateReconnecting && t.state.Conn != StateExhausted {
		return false
	}
	t.state.Phase = PhaseLoadFailed
	t.state.LoadError = "unable to load check status"
	return true
}

func (t *Tracker) emit(s TaskState) {
	if t.notify != nil {
		t.notify(s)
	}
}
