package memory

import (
	"context"

	"quizquest-service/internal/domain"
)

// StaticCatalogLoader serves a fixed catalog (the built-in seed, tests, demos).
type StaticCatalogLoader struct {
	quizzes []domain.Quiz
}

func NewStaticCatalogLoader(quizzes []domain.Quiz) *StaticCatalogLoader {
	return &StaticCatalogLoader{quizzes: quizzes}
}

func (l *StaticCatalogLoader) LoadCatalog(_ context.Context) ([]domain.Quiz, error) {
	return cloneCatalog(l.quizzes), nil
}

// DefaultCatalog is the catalog every workspace starts from when no database is configured.
func DefaultCatalog() []domain.Quiz {
	return []domain.Quiz{
		{
			ID:               "dsa-fundamentals",
			Title:            "Data Structures & Algorithms",
			Description:      "Master fundamental DSA concepts and problem-solving techniques",
			Duration:         45,
			ExperiencePoints: 200,
			Badge: &domain.Badge{
				ID:          "dsa-master",
				Name:        "Algorithm Master",
				Description: "Mastered DSA fundamentals",
				Icon:        "🎯",
				Color:       "#FF6B6B",
			},
			Questions: []domain.Question{
				{
					ID:            "dsa-q1",
					Text:          "What is the time complexity of binary search?",
					Options:       []string{"O(n)", "O(log n)", "O(n²)", "O(1)"},
					CorrectAnswer: 1,
				},
				{
					ID:            "dsa-q2",
					Text:          "Which data structure follows LIFO principle?",
					Options:       []string{"Queue", "Stack", "LinkedList", "Array"},
					CorrectAnswer: 1,
				},
			},
			IsActive:        true,
			AllowedStudents: []string{"STU001"},
		},
		{
			ID:               "web-design",
			Title:            "Web Design Fundamentals",
			Description:      "Learn modern web design principles and UI/UX best practices",
			Duration:         30,
			ExperiencePoints: 150,
			Badge: &domain.Badge{
				ID:          "web-design",
				Name:        "Design Guru",
				Description: "Mastered web design principles",
				Icon:        "🎨",
				Color:       "#4ECDC4",
			},
			Questions: []domain.Question{
				{
					ID:            "web-q1",
					Text:          "Which color model is used for web design?",
					Options:       []string{"CMYK", "RGB", "HSL", "All of the above"},
					CorrectAnswer: 1,
				},
				{
					ID:            "web-q2",
					Text:          "What is the recommended maximum width for readable text content?",
					Options:       []string{"40-60 characters", "60-75 characters", "75-90 characters", "90-100 characters"},
					CorrectAnswer: 1,
				},
			},
			IsActive:        true,
			AllowedStudents: []string{"STU001"},
		},
		{
			ID:               "react-patterns",
			Title:            "React Advanced Patterns",
			Description:      "Master advanced React patterns and performance optimization",
			Duration:         40,
			ExperiencePoints: 180,
			Badge: &domain.Badge{
				ID:          "react-pro",
				Name:        "React Pro",
				Description: "Mastered advanced React concepts",
				Icon:        "⚛️",
				Color:       "#45B7D1",
			},
			Questions: []domain.Question{
				{
					ID:            "react-q1",
					Text:          "Which hook is used for memoization in React?",
					Options:       []string{"useEffect", "useMemo", "useCallback", "useState"},
					CorrectAnswer: 1,
				},
				{
					ID:            "react-q2",
					Text:          "What pattern is used to share logic between components?",
					Options:       []string{"HOC", "Custom Hooks", "Render Props", "All of the above"},
					CorrectAnswer: 3,
				},
			},
			IsActive:        true,
			AllowedStudents: []string{"STU001"},
		},
	}
}
