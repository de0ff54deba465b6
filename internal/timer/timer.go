// Package timer implements the focus/break session timer as an
// explicit state machine. The timer owns its lifecycle: callers drive
// it through Start, Pause, Reset and Tick, and a completed focus
// period is recorded exactly once through the Recorder.
package timer

import (
	"context"
	"math"
	"sync"
	"time"

	"github.com/studyhub-app/backend/internal/logging"
	"github.com/studyhub-app/backend/internal/models"
)

// Timer durations.
const (
	FocusDuration = 1500 * time.Second
	BreakDuration = 300 * time.Second
)

// State is the timer's lifecycle position.
type State string

const (
	StateIdle    State = "idle"
	StateRunning State = "running"
	StatePaused  State = "paused"
)

// Recorder persists a completed focus session. Failures are reported
// once and not retried; the timer transitions regardless.
type Recorder interface {
	RecordSession(ctx context.Context, session models.StudySession) error
}

// RecorderFunc adapts a function to the Recorder interface.
type RecorderFunc func(ctx context.Context, session models.StudySession) error

// RecordSession implements Recorder.
func (f RecorderFunc) RecordSession(ctx context.Context, session models.StudySession) error {
	return f(ctx, session)
}

// Status is a point-in-time snapshot of the timer.
type Status struct {
	State    State              `json:"state"`
	Mode     models.SessionType `json:"mode"`
	TimeLeft time.Duration      `json:"timeLeft"`
}

// Timer is the state machine. The zero state is Idle in focus mode
// with the full focus duration remaining.
type Timer struct {
	mu        sync.Mutex
	state     State
	mode      models.SessionType
	timeLeft  time.Duration
	startedAt time.Time // zero until the first Start of a focus period
	recorder  Recorder
	now       func() time.Time
}

// New builds an idle focus timer.
func New(recorder Recorder) *Timer {
	return &Timer{
		state:    StateIdle,
		mode:     models.SessionFocus,
		timeLeft: FocusDuration,
		recorder: recorder,
		now:      time.Now,
	}
}

// Status returns the current snapshot.
func (t *Timer) Status() Status {
	t.mu.Lock()
	defer t.mu.Unlock()
	return Status{State: t.state, Mode: t.mode, TimeLeft: t.timeLeft}
}

// Start begins or resumes the countdown. The focus start time is
// stamped once; resuming after Pause keeps the original stamp so the
// recorded duration reflects wall-clock elapsed time.
func (t *Timer) Start() {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.state == StateRunning {
		return
	}
	if t.mode == models.SessionFocus && t.startedAt.IsZero() {
		t.startedAt = t.now()
	}
	t.state = StateRunning
}

// Pause halts the countdown without losing progress.
func (t *Timer) Pause() {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.state == StateRunning {
		t.state = StatePaused
	}
}

// Reset returns the timer to idle focus with the full duration. No
// session is recorded, however far the countdown had progressed.
func (t *Timer) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.state = StateIdle
	t.mode = models.SessionFocus
	t.timeLeft = FocusDuration
	t.startedAt = time.Time{}
}

// Tick advances the countdown by one second. Ticks are ignored unless
// the timer is running. When a focus period expires the session is
// recorded, the mode flips to break and the timer parks paused; the
// next period never starts on its own.
func (t *Timer) Tick(ctx context.Context) {
	t.mu.Lock()

	if t.state != StateRunning {
		t.mu.Unlock()
		return
	}

	t.timeLeft -= time.Second
	if t.timeLeft > 0 {
		t.mu.Unlock()
		return
	}

	var session *models.StudySession
	if t.mode == models.SessionFocus {
		session = t.buildSession()
		t.startedAt = time.Time{}
		t.mode = models.SessionBreak
		t.timeLeft = BreakDuration
	} else {
		t.mode = models.SessionFocus
		t.timeLeft = FocusDuration
	}
	t.state = StatePaused
	recorder := t.recorder
	t.mu.Unlock()

	if session != nil && recorder != nil {
		if err := recorder.RecordSession(ctx, *session); err != nil {
			logging.Error("failed to record study session", err)
		}
	}
}

// buildSession captures the completed focus period. Duration is the
// wall-clock elapsed time rounded to whole minutes. Callers hold mu.
func (t *Timer) buildSession() *models.StudySession {
	end := t.now()
	start := t.startedAt
	if start.IsZero() {
		start = end.Add(-FocusDuration)
	}
	elapsed := end.Sub(start)

	return &models.StudySession{
		Type:            models.SessionFocus,
		Duration:        int(math.Round(elapsed.Minutes())),
		PlannedDuration: int(FocusDuration / time.Minute),
		StartTime:       start.Unix(),
		EndTime:         end.Unix(),
		Completed:       true,
		Date:            end.Format("2006-01-02"),
	}
}
