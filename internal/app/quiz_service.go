package app

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"quizquest-service/internal/domain"
)

// QuizService holds the quiz catalog and the attempts made against it.
// Unknown ids leave state untouched and surface as domain errors.
type QuizService struct {
	mu        sync.RWMutex
	quizzes   []domain.Quiz
	attempts  []domain.QuizAttempt
	listeners []RewardListener
	now       func() time.Time
	newID     func() string
}

// NewQuizService seeds the catalog with a copy of seed.
func NewQuizService(seed []domain.Quiz, listeners ...RewardListener) *QuizService {
	return NewQuizServiceWithClock(seed, time.Now, listeners...)
}

// NewQuizServiceWithClock allows deterministic start times in tests.
func NewQuizServiceWithClock(seed []domain.Quiz, now func() time.Time, listeners ...RewardListener) *QuizService {
	quizzes := make([]domain.Quiz, 0, len(seed))
	for _, q := range seed {
		quizzes = append(quizzes, q.Clone())
	}
	return &QuizService{
		quizzes:   quizzes,
		listeners: listeners,
		now:       now,
		newID:     uuid.NewString,
	}
}

// AddRewardListener registers l after the existing listeners.
func (s *QuizService) AddRewardListener(l RewardListener) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, l)
}

// Quizzes returns the catalog in insertion order.
func (s *QuizService) Quizzes() []domain.Quiz {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Quiz, 0, len(s.quizzes))
	for _, q := range s.quizzes {
		out = append(out, q.Clone())
	}
	return out
}

func (s *QuizService) Quiz(id string) (domain.Quiz, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i := s.quizIndexLocked(id)
	if i < 0 {
		return domain.Quiz{}, domain.ErrQuizNotFound
	}
	return s.quizzes[i].Clone(), nil
}

// AddQuiz stores quiz under a fresh id; any id on the input is ignored.
func (s *QuizService) AddQuiz(quiz domain.Quiz) domain.Quiz {
	stored := quiz.Clone()
	stored.ID = s.newID()

	s.mu.Lock()
	s.quizzes = append(s.quizzes, stored)
	s.mu.Unlock()

	log.Debug().Str("quizId", stored.ID).Str("title", stored.Title).Msg("quiz added")
	return stored.Clone()
}

// DeleteQuiz removes the quiz. Attempts that reference it are kept.
func (s *QuizService) DeleteQuiz(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.quizIndexLocked(id)
	if i < 0 {
		return domain.ErrQuizNotFound
	}
	s.quizzes = append(s.quizzes[:i], s.quizzes[i+1:]...)
	return nil
}

// UpdateQuiz merges patch into the stored quiz and returns the result.
func (s *QuizService) UpdateQuiz(id string, patch domain.QuizPatch) (domain.Quiz, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.quizIndexLocked(id)
	if i < 0 {
		return domain.Quiz{}, domain.ErrQuizNotFound
	}
	s.quizzes[i] = patch.Apply(s.quizzes[i])
	return s.quizzes[i].Clone(), nil
}

// AllowStudent adds studentID to the quiz access list.
func (s *QuizService) AllowStudent(quizID, studentID string) (domain.Quiz, error) {
	return s.editAllowed(quizID, func(allowed []string) []string {
		for _, id := range allowed {
			if id == studentID {
				return allowed
			}
		}
		return append(allowed, studentID)
	})
}

// RemoveStudent drops studentID from the quiz access list.
func (s *QuizService) RemoveStudent(quizID, studentID string) (domain.Quiz, error) {
	return s.editAllowed(quizID, func(allowed []string) []string {
		kept := make([]string, 0, len(allowed))
		for _, id := range allowed {
			if id != studentID {
				kept = append(kept, id)
			}
		}
		return kept
	})
}

func (s *QuizService) editAllowed(quizID string, edit func([]string) []string) (domain.Quiz, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.quizIndexLocked(quizID)
	if i < 0 {
		return domain.Quiz{}, domain.ErrQuizNotFound
	}
	current := append([]string{}, s.quizzes[i].AllowedStudents...)
	s.quizzes[i] = domain.QuizPatch{AllowedStudents: edit(current)}.Apply(s.quizzes[i])
	return s.quizzes[i].Clone(), nil
}

// Attempts returns all attempts in start order.
func (s *QuizService) Attempts() []domain.QuizAttempt {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.QuizAttempt, 0, len(s.attempts))
	for _, a := range s.attempts {
		out = append(out, a.Clone())
	}
	return out
}

func (s *QuizService) Attempt(id string) (domain.QuizAttempt, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i := s.attemptIndexLocked(id)
	if i < 0 {
		return domain.QuizAttempt{}, domain.ErrAttemptNotFound
	}
	return s.attempts[i].Clone(), nil
}

// StartQuiz opens a new attempt. It checks neither the quiz id, the access list,
// nor whether the student already has an attempt in progress.
func (s *QuizService) StartQuiz(quizID, studentID string) domain.QuizAttempt {
	attempt := domain.QuizAttempt{
		ID:        s.newID(),
		QuizID:    quizID,
		StudentID: studentID,
		Answers:   map[string]int{},
		StartTime: s.now(),
	}

	s.mu.Lock()
	s.attempts = append(s.attempts, attempt)
	s.mu.Unlock()

	log.Debug().Str("attemptId", attempt.ID).Str("quizId", quizID).Str("studentId", studentID).Msg("attempt started")
	return attempt.Clone()
}

// SubmitAnswer records or overwrites the chosen option for questionID.
func (s *QuizService) SubmitAnswer(attemptID, questionID string, answer int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.attemptIndexLocked(attemptID)
	if i < 0 {
		return domain.ErrAttemptNotFound
	}
	if s.attempts[i].Completed {
		return domain.ErrAttemptCompleted
	}
	s.attempts[i].Answers[questionID] = answer
	return nil
}

// CompleteQuiz scores the attempt, marks it completed with the rounded score and,
// when the raw score reaches domain.PassingScore, emits a RewardEvent. Listeners
// run after the lock is released and see the attempt already completed.
func (s *QuizService) CompleteQuiz(ctx context.Context, attemptID string) (domain.QuizAttempt, error) {
	s.mu.Lock()
	done, event, err := s.completeLocked(attemptID)
	listeners := s.listeners
	s.mu.Unlock()

	if event != nil {
		s.emit(ctx, listeners, *event)
	}
	return done, err
}

func (s *QuizService) completeLocked(attemptID string) (domain.QuizAttempt, *domain.RewardEvent, error) {
	ai := s.attemptIndexLocked(attemptID)
	if ai < 0 {
		return domain.QuizAttempt{}, nil, domain.ErrAttemptNotFound
	}
	attempt := &s.attempts[ai]
	if attempt.Completed {
		return attempt.Clone(), nil, domain.ErrAttemptCompleted
	}
	qi := s.quizIndexLocked(attempt.QuizID)
	if qi < 0 {
		return attempt.Clone(), nil, domain.ErrQuizNotFound
	}
	quiz := s.quizzes[qi]

	raw := scoreAttempt(quiz, *attempt)
	rounded := domain.RoundScore(raw)
	attempt.Completed = true
	attempt.Score = &rounded

	log.Info().
		Str("attemptId", attempt.ID).
		Str("quizId", quiz.ID).
		Str("studentId", attempt.StudentID).
		Int("score", rounded).
		Msg("attempt completed")

	if raw < domain.PassingScore || !quiz.HasReward() {
		return attempt.Clone(), nil, nil
	}
	event := &domain.RewardEvent{
		AttemptID:  attempt.ID,
		QuizID:     quiz.ID,
		StudentID:  attempt.StudentID,
		Score:      rounded,
		Experience: quiz.ExperiencePoints,
		AwardedAt:  s.now(),
	}
	if quiz.Badge != nil {
		badge := *quiz.Badge
		event.Badge = &badge
	}
	return attempt.Clone(), event, nil
}

func (s *QuizService) emit(ctx context.Context, listeners []RewardListener, event domain.RewardEvent) {
	for _, l := range listeners {
		l.OnReward(ctx, event)
	}
}

// CurrentAttempt returns the first incomplete attempt of studentID, in start order.
func (s *QuizService) CurrentAttempt(studentID string) (domain.QuizAttempt, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, a := range s.attempts {
		if a.StudentID == studentID && !a.Completed {
			return a.Clone(), true
		}
	}
	return domain.QuizAttempt{}, false
}

// CurrentAttemptFor returns the student's first incomplete attempt at quizID.
func (s *QuizService) CurrentAttemptFor(studentID, quizID string) (domain.QuizAttempt, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, a := range s.attempts {
		if a.StudentID == studentID && a.QuizID == quizID && !a.Completed {
			return a.Clone(), true
		}
	}
	return domain.QuizAttempt{}, false
}

// StudentProgress is completed attempts over active quizzes open to the student, in
// percent. It is 0 when no active quiz allows the student.
func (s *QuizService) StudentProgress(studentID string) float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()

	completed := 0
	for _, a := range s.attempts {
		if a.StudentID == studentID && a.Completed {
			completed++
		}
	}
	available := 0
	for _, q := range s.quizzes {
		if q.IsActive && q.Allows(studentID) {
			available++
		}
	}
	if available == 0 {
		return 0
	}
	return float64(completed) / float64(available) * 100
}

// AvailableQuizzes lists active quizzes open to the student that they have not completed.
func (s *QuizService) AvailableQuizzes(studentID string) []domain.Quiz {
	return s.filterQuizzes(studentID, true)
}

// PendingQuizzes lists active quizzes the student is not yet allowed to take.
func (s *QuizService) PendingQuizzes(studentID string) []domain.Quiz {
	return s.filterQuizzes(studentID, false)
}

func (s *QuizService) filterQuizzes(studentID string, allowed bool) []domain.Quiz {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := []domain.Quiz{}
	for _, q := range s.quizzes {
		if !q.IsActive || q.Allows(studentID) != allowed || s.completedLocked(q.ID, studentID) {
			continue
		}
		out = append(out, q.Clone())
	}
	return out
}

// CompletedAttempts lists the student's finished attempts in start order.
func (s *QuizService) CompletedAttempts(studentID string) []domain.QuizAttempt {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := []domain.QuizAttempt{}
	for _, a := range s.attempts {
		if a.StudentID == studentID && a.Completed {
			out = append(out, a.Clone())
		}
	}
	return out
}

// Deadline is the attempt's start time plus its quiz duration.
func (s *QuizService) Deadline(attempt domain.QuizAttempt) (time.Time, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.deadlineLocked(attempt)
}

func (s *QuizService) deadlineLocked(attempt domain.QuizAttempt) (time.Time, bool) {
	i := s.quizIndexLocked(attempt.QuizID)
	if i < 0 {
		return time.Time{}, false
	}
	return attempt.StartTime.Add(time.Duration(s.quizzes[i].Duration) * time.Minute), true
}

// ExpireOverdue completes every in-progress attempt whose deadline has passed.
func (s *QuizService) ExpireOverdue(ctx context.Context) []domain.QuizAttempt {
	s.mu.Lock()
	now := s.now()
	var (
		expired []domain.QuizAttempt
		events  []domain.RewardEvent
	)
	for i := range s.attempts {
		attempt := s.attempts[i]
		if attempt.Completed {
			continue
		}
		deadline, ok := s.deadlineLocked(attempt)
		if !ok || now.Before(deadline) {
			continue
		}
		done, event, err := s.completeLocked(attempt.ID)
		if err != nil {
			log.Error().Err(err).Str("attemptId", attempt.ID).Msg("expire attempt")
			continue
		}
		expired = append(expired, done)
		if event != nil {
			events = append(events, *event)
		}
	}
	listeners := s.listeners
	s.mu.Unlock()

	for _, event := range events {
		s.emit(ctx, listeners, event)
	}
	return expired
}

func (s *QuizService) completedLocked(quizID, studentID string) bool {
	for _, a := range s.attempts {
		if a.QuizID == quizID && a.StudentID == studentID && a.Completed {
			return true
		}
	}
	return false
}

func (s *QuizService) quizIndexLocked(id string) int {
	for i := range s.quizzes {
		if s.quizzes[i].ID == id {
			return i
		}
	}
	return -1
}

func (s *QuizService) attemptIndexLocked(id string) int {
	for i := range s.attempts {
		if s.attempts[i].ID == id {
			return i
		}
	}
	return -1
}

// scoreAttempt returns the raw percentage of correctly answered questions.
func scoreAttempt(quiz domain.Quiz, attempt domain.QuizAttempt) float64 {
	if len(quiz.Questions) == 0 {
		return 0
	}
	correct := 0
	for _, q := range quiz.Questions {
		if answer, ok := attempt.Answers[q.ID]; ok && answer == q.CorrectAnswer {
			correct++
		}
	}
	return float64(correct) / float64(len(quiz.Questions)) * 100
}
