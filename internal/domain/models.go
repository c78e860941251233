package domain

import "time"

// Role is the client-trusted role flag carried by a user record.
type Role string

const (
	RoleAdmin   Role = "admin"
	RoleStudent Role = "student"
)

// PassingScore is the minimum raw score (in percent) that earns a quiz's rewards.
const PassingScore = 70

// Badge is a named achievement granted at most once per user.
type Badge struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
	Color       string `json:"color"`
}

// User is the record held by the auth state. Level always derives from Experience.
type User struct {
	ID         string  `json:"id"`
	Name       string  `json:"name"`
	Email      string  `json:"email"`
	Role       Role    `json:"role"`
	StudentID  string  `json:"studentId,omitempty"`
	Experience int     `json:"experience"`
	Level      int     `json:"level"`
	Badges     []Badge `json:"badges"`
}

// HasBadge reports whether a badge with the given id was already granted.
func (u User) HasBadge(id string) bool {
	for _, b := range u.Badges {
		if b.ID == id {
			return true
		}
	}
	return false
}

// Question models an MCQ question; CorrectAnswer indexes into Options.
type Question struct {
	ID            string   `json:"id"`
	Text          string   `json:"text"`
	Options       []string `json:"options"`
	CorrectAnswer int      `json:"correctAnswer"`
}

// Quiz is a timed collection of questions. Duration is in minutes.
type Quiz struct {
	ID               string     `json:"id"`
	Title            string     `json:"title"`
	Description      string     `json:"description"`
	Duration         int        `json:"duration"`
	Questions        []Question `json:"questions"`
	IsActive         bool       `json:"isActive"`
	AllowedStudents  []string   `json:"allowedStudents"`
	ExperiencePoints int        `json:"experiencePoints,omitempty"` // zero means no XP reward
	Badge            *Badge     `json:"badge,omitempty"`
}

// Allows reports whether studentID is on the quiz access list.
func (q Quiz) Allows(studentID string) bool {
	for _, id := range q.AllowedStudents {
		if id == studentID {
			return true
		}
	}
	return false
}

// HasReward reports whether passing the quiz grants anything.
func (q Quiz) HasReward() bool {
	return q.ExperiencePoints > 0 || q.Badge != nil
}

// Clone returns a deep copy so callers never alias stored slices.
func (q Quiz) Clone() Quiz {
	out := q
	if q.Questions != nil {
		out.Questions = make([]Question, len(q.Questions))
		for i, question := range q.Questions {
			question.Options = cloneStrings(question.Options)
			out.Questions[i] = question
		}
	}
	out.AllowedStudents = cloneStrings(q.AllowedStudents)
	if q.Badge != nil {
		badge := *q.Badge
		out.Badge = &badge
	}
	return out
}

// cloneStrings copies s, keeping an empty list empty rather than nil.
func cloneStrings(s []string) []string {
	if s == nil {
		return nil
	}
	out := make([]string, len(s))
	copy(out, s)
	return out
}

// QuizPatch carries a partial quiz update. Nil fields are left unchanged.
type QuizPatch struct {
	Title            *string    `json:"title,omitempty"`
	Description      *string    `json:"description,omitempty"`
	Duration         *int       `json:"duration,omitempty"`
	Questions        []Question `json:"questions,omitempty"`
	IsActive         *bool      `json:"isActive,omitempty"`
	AllowedStudents  []string   `json:"allowedStudents,omitempty"`
	ExperiencePoints *int       `json:"experiencePoints,omitempty"`
	Badge            *Badge     `json:"badge,omitempty"`
}

// Apply merges the patch into q and returns the result.
func (p QuizPatch) Apply(q Quiz) Quiz {
	if p.Title != nil {
		q.Title = *p.Title
	}
	if p.Description != nil {
		q.Description = *p.Description
	}
	if p.Duration != nil {
		q.Duration = *p.Duration
	}
	if p.Questions != nil {
		q.Questions = p.Questions
	}
	if p.IsActive != nil {
		q.IsActive = *p.IsActive
	}
	if p.AllowedStudents != nil {
		q.AllowedStudents = p.AllowedStudents
	}
	if p.ExperiencePoints != nil {
		q.ExperiencePoints = *p.ExperiencePoints
	}
	if p.Badge != nil {
		q.Badge = p.Badge
	}
	return q.Clone()
}

// QuizAttempt is one student's run through a quiz. Score is set iff Completed.
type QuizAttempt struct {
	ID        string         `json:"id"`
	QuizID    string         `json:"quizId"`
	StudentID string         `json:"studentId"`
	Answers   map[string]int `json:"answers"`
	StartTime time.Time      `json:"startTime"`
	Completed bool           `json:"completed"`
	Score     *int           `json:"score,omitempty"`
}

// Clone returns a copy with its own answer map.
func (a QuizAttempt) Clone() QuizAttempt {
	out := a
	out.Answers = make(map[string]int, len(a.Answers))
	for k, v := range a.Answers {
		out.Answers[k] = v
	}
	if a.Score != nil {
		score := *a.Score
		out.Score = &score
	}
	return out
}

// RewardEvent is emitted when a completed attempt reaches PassingScore.
type RewardEvent struct {
	AttemptID  string    `json:"attemptId"`
	QuizID     string    `json:"quizId"`
	StudentID  string    `json:"studentId"`
	Score      int       `json:"score"`
	Experience int       `json:"experience"`
	Badge      *Badge    `json:"badge,omitempty"`
	AwardedAt  time.Time `json:"awardedAt"`
}

// LevelSummary is the level view of a user's experience.
type LevelSummary struct {
	Level         int     `json:"level"`
	Experience    int     `json:"experience"`
	NextLevelAt   int     `json:"nextLevelAt"`
	LevelProgress float64 `json:"levelProgress"`
}

// StudentDashboard groups what a student sees after login.
type StudentDashboard struct {
	StudentID string        `json:"studentId"`
	Level     LevelSummary  `json:"level"`
	Badges    []Badge       `json:"badges"`
	Progress  float64       `json:"progress"`
	Available []Quiz        `json:"available"`
	Pending   []Quiz        `json:"pending"`
	Completed []QuizAttempt `json:"completed"`
}

// NotificationKind names a push sent to clients attached to a workspace.
type NotificationKind string

const (
	NotificationReward         NotificationKind = "reward"
	NotificationAttemptExpired NotificationKind = "attemptExpired"
)

// Notification is a workspace push. Exactly one of Reward and Attempt is set.
type Notification struct {
	Kind    NotificationKind `json:"kind"`
	Reward  *RewardEvent     `json:"reward,omitempty"`
	Attempt *QuizAttempt     `json:"attempt,omitempty"`
	At      time.Time        `json:"at"`
}
