package app

import (
	"context"
	"sync"
	"time"

	"quizquest-service/internal/domain"
)

// Workspace is one client's auth and quiz state. Quiz rewards flow to the auth
// service first, then to the workspace's subscribers, then to extra listeners.
type Workspace struct {
	id      string
	Auth    *AuthService
	Quizzes *QuizService
	now     func() time.Time

	mu          sync.Mutex
	attached    int
	subscribers map[chan domain.Notification]struct{}
}

// NewWorkspace seeds a fresh workspace from catalog.
func NewWorkspace(id string, catalog []domain.Quiz, listeners ...RewardListener) *Workspace {
	return NewWorkspaceWithClock(id, catalog, time.Now, listeners...)
}

// NewWorkspaceWithClock is test-only for deterministic timestamps.
func NewWorkspaceWithClock(id string, catalog []domain.Quiz, now func() time.Time, listeners ...RewardListener) *Workspace {
	w := &Workspace{
		id:          id,
		Auth:        NewAuthService(),
		now:         now,
		subscribers: make(map[chan domain.Notification]struct{}),
	}
	all := append([]RewardListener{w.Auth, RewardListenerFunc(w.onReward)}, listeners...)
	w.Quizzes = NewQuizServiceWithClock(catalog, now, all...)
	return w
}

func (w *Workspace) ID() string {
	return w.id
}

// Dashboard assembles the student view for the current user.
func (w *Workspace) Dashboard() (domain.StudentDashboard, error) {
	user, ok := w.Auth.CurrentUser()
	if !ok {
		return domain.StudentDashboard{}, domain.ErrNotAuthenticated
	}
	return domain.StudentDashboard{
		StudentID: user.StudentID,
		Level:     domain.SummarizeLevel(user.Experience),
		Badges:    user.Badges,
		Progress:  w.Quizzes.StudentProgress(user.StudentID),
		Available: w.Quizzes.AvailableQuizzes(user.StudentID),
		Pending:   w.Quizzes.PendingQuizzes(user.StudentID),
		Completed: w.Quizzes.CompletedAttempts(user.StudentID),
	}, nil
}

// NotifyExpired broadcasts that attempt was force-completed at its deadline.
func (w *Workspace) NotifyExpired(attempt domain.QuizAttempt) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.broadcastLocked(domain.Notification{
		Kind:    domain.NotificationAttemptExpired,
		Attempt: &attempt,
		At:      w.now(),
	})
}

func (w *Workspace) onReward(_ context.Context, event domain.RewardEvent) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.broadcastLocked(domain.Notification{
		Kind:   domain.NotificationReward,
		Reward: &event,
		At:     w.now(),
	})
}

// Subscribe returns a channel of notifications. The caller must invoke cancel.
func (w *Workspace) Subscribe() (<-chan domain.Notification, func()) {
	ch := make(chan domain.Notification, 8)

	w.mu.Lock()
	w.subscribers[ch] = struct{}{}
	w.mu.Unlock()

	cancel := func() {
		w.mu.Lock()
		if _, ok := w.subscribers[ch]; ok {
			delete(w.subscribers, ch)
			close(ch)
		}
		w.mu.Unlock()
	}
	return ch, cancel
}

func (w *Workspace) broadcastLocked(n domain.Notification) {
	for ch := range w.subscribers {
		select {
		case ch <- n:
		default:
			// drop the oldest so a slow reader never blocks a command
			select {
			case <-ch:
			default:
			}
			ch <- n
		}
	}
}

// Attach records one more connection on the workspace. Repositories call it
// under their own lock so a concurrent Release cannot drop the workspace first.
func (w *Workspace) Attach() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.attached++
}

// Detach records a closed connection and returns how many remain.
func (w *Workspace) Detach() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.attached > 0 {
		w.attached--
	}
	return w.attached
}

// IsIdle reports whether no connection is attached.
func (w *Workspace) IsIdle() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.attached == 0
}
