package app

import (
	"context"
	"sync"

	"github.com/rs/zerolog/log"
	"quizquest-service/internal/domain"
)

// AuthService holds at most one current user and applies experience and badge grants to it.
// Every command is total: without a current user grants are dropped.
type AuthService struct {
	mu   sync.RWMutex
	user *domain.User
}

func NewAuthService() *AuthService {
	return &AuthService{}
}

// Login makes user current, replacing whoever was logged in.
func (s *AuthService) Login(user domain.User) domain.User {
	if user.Experience < 0 {
		user.Experience = 0
	}
	user.Level = domain.Level(user.Experience)

	badges := make([]domain.Badge, 0, len(user.Badges))
	seen := make(map[string]struct{}, len(user.Badges))
	for _, b := range user.Badges {
		if _, ok := seen[b.ID]; ok {
			continue
		}
		seen[b.ID] = struct{}{}
		badges = append(badges, b)
	}
	user.Badges = badges

	s.mu.Lock()
	defer s.mu.Unlock()
	s.user = &user
	return cloneUser(user)
}

// Logout clears the current user.
func (s *AuthService) Logout() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.user = nil
}

// CurrentUser returns a copy of the current user, if any.
func (s *AuthService) CurrentUser() (domain.User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return domain.User{}, false
	}
	return cloneUser(*s.user), true
}

// AddExperience adds points and recomputes the level. Non-positive points are ignored.
func (s *AuthService) AddExperience(points int) {
	if points <= 0 {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.user == nil {
		return
	}
	s.user.Experience += points
	s.user.Level = domain.Level(s.user.Experience)
}

// AddBadge appends badge unless one with the same id is already held.
func (s *AuthService) AddBadge(badge domain.Badge) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.user == nil || s.user.HasBadge(badge.ID) {
		return
	}
	s.user.Badges = append(s.user.Badges, badge)
}

// OnReward grants the event's experience and badge to the current user.
// Grants go to whoever is logged in; a student mismatch is only logged.
func (s *AuthService) OnReward(_ context.Context, event domain.RewardEvent) {
	if current, ok := s.CurrentUser(); !ok {
		log.Warn().Str("attemptId", event.AttemptID).Msg("reward dropped: no user logged in")
		return
	} else if current.StudentID != event.StudentID {
		log.Warn().
			Str("attemptId", event.AttemptID).
			Str("attemptStudent", event.StudentID).
			Str("currentStudent", current.StudentID).
			Msg("granting reward to a user other than the attempt's student")
	}

	s.AddExperience(event.Experience)
	if event.Badge != nil {
		s.AddBadge(*event.Badge)
	}
}

func cloneUser(u domain.User) domain.User {
	u.Badges = append([]domain.Badge(nil), u.Badges...)
	if u.Badges == nil {
		u.Badges = []domain.Badge{}
	}
	return u
}
