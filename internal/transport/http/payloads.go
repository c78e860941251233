package http

import (
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"quizquest-service/internal/domain"
)

var validate = validator.New()

type loginPayload struct {
	User domain.User `json:"user"`
}

type userPayload struct {
	ID        string      `json:"id" validate:"required"`
	Name      string      `json:"name" validate:"required"`
	Email     string      `json:"email" validate:"required,email"`
	Role      domain.Role `json:"role" validate:"required,oneof=admin student"`
	StudentID string      `json:"studentId" validate:"required_if=Role student"`
}

type questionPayload struct {
	Text          string   `json:"text" validate:"required"`
	Options       []string `json:"options" validate:"min=2,dive,required"`
	CorrectAnswer int      `json:"correctAnswer" validate:"gte=0"`
}

type quizPayload struct {
	Title            string            `json:"title" validate:"required"`
	Description      string            `json:"description"`
	Duration         int               `json:"duration" validate:"gt=0"`
	Questions        []questionPayload `json:"questions" validate:"min=1,dive"`
	IsActive         bool              `json:"isActive"`
	AllowedStudents  []string          `json:"allowedStudents" validate:"dive,required"`
	ExperiencePoints int               `json:"experiencePoints" validate:"gte=0"`
	Badge            *domain.Badge     `json:"badge"`
}

type addQuizPayload struct {
	Quiz quizPayload `json:"quiz"`
}

// quizPatchPayload applies the draft rules to whichever fields are present.
type quizPatchPayload struct {
	Title            *string           `json:"title" validate:"omitnil,min=1"`
	Description      *string           `json:"description"`
	Duration         *int              `json:"duration" validate:"omitnil,gt=0"`
	Questions        []questionPayload `json:"questions" validate:"omitnil,min=1,dive"`
	IsActive         *bool             `json:"isActive"`
	AllowedStudents  []string          `json:"allowedStudents" validate:"omitnil,dive,required"`
	ExperiencePoints *int              `json:"experiencePoints" validate:"omitnil,gte=0"`
	Badge            *domain.Badge     `json:"badge"`
}

type updateQuizPayload struct {
	ID    string           `json:"id" validate:"required"`
	Patch quizPatchPayload `json:"patch"`
}

type quizIDPayload struct {
	ID string `json:"id" validate:"required"`
}

type studentAccessPayload struct {
	QuizID    string `json:"quizId" validate:"required"`
	StudentID string `json:"studentId" validate:"required"`
}

type startQuizPayload struct {
	QuizID string `json:"quizId" validate:"required"`
}

type answerPayload struct {
	AttemptID  string `json:"attemptId" validate:"required"`
	QuestionID string `json:"questionId" validate:"required"`
	Answer     int    `json:"answer" validate:"gte=0"`
}

type completePayload struct {
	AttemptID string `json:"attemptId" validate:"required"`
}

// toUser validates the login record. Credentials are not checked.
func (p loginPayload) toUser() (domain.User, error) {
	u := userPayload{
		ID:        p.User.ID,
		Name:      p.User.Name,
		Email:     p.User.Email,
		Role:      p.User.Role,
		StudentID: p.User.StudentID,
	}
	if err := validate.Struct(u); err != nil {
		return domain.User{}, fmt.Errorf("invalid user: %w", err)
	}
	return p.User, nil
}

// toQuiz validates the draft and assigns question ids.
func (p quizPayload) toQuiz() (domain.Quiz, error) {
	if err := validate.Struct(p); err != nil {
		return domain.Quiz{}, fmt.Errorf("%w: %v", domain.ErrInvalidQuiz, err)
	}
	questions, err := toQuestions(p.Questions)
	if err != nil {
		return domain.Quiz{}, err
	}
	allowed := p.AllowedStudents
	if allowed == nil {
		allowed = []string{}
	}
	return domain.Quiz{
		Title:            p.Title,
		Description:      p.Description,
		Duration:         p.Duration,
		Questions:        questions,
		IsActive:         p.IsActive,
		AllowedStudents:  allowed,
		ExperiencePoints: p.ExperiencePoints,
		Badge:            p.Badge,
	}, nil
}

// toPatch validates the present fields. Replaced questions get fresh ids.
func (p quizPatchPayload) toPatch() (domain.QuizPatch, error) {
	if err := validate.Struct(p); err != nil {
		return domain.QuizPatch{}, fmt.Errorf("%w: %v", domain.ErrInvalidQuiz, err)
	}
	patch := domain.QuizPatch{
		Title:            p.Title,
		Description:      p.Description,
		Duration:         p.Duration,
		IsActive:         p.IsActive,
		AllowedStudents:  p.AllowedStudents,
		ExperiencePoints: p.ExperiencePoints,
		Badge:            p.Badge,
	}
	if p.Questions != nil {
		questions, err := toQuestions(p.Questions)
		if err != nil {
			return domain.QuizPatch{}, err
		}
		patch.Questions = questions
	}
	return patch, nil
}

func toQuestions(in []questionPayload) ([]domain.Question, error) {
	questions := make([]domain.Question, 0, len(in))
	for i, q := range in {
		if q.CorrectAnswer >= len(q.Options) {
			return nil, fmt.Errorf("%w: question %d correct answer out of range", domain.ErrInvalidQuiz, i+1)
		}
		questions = append(questions, domain.Question{
			ID:            uuid.NewString(),
			Text:          q.Text,
			Options:       q.Options,
			CorrectAnswer: q.CorrectAnswer,
		})
	}
	return questions, nil
}
