package domain

import "errors"

var (
	// ErrQuizNotFound indicates the quiz id is not in the catalog.
	ErrQuizNotFound = errors.New("quiz not found")
	// ErrAttemptNotFound indicates the attempt id is unknown.
	ErrAttemptNotFound = errors.New("attempt not found")
	// ErrAttemptCompleted is returned when acting on an attempt that already finished.
	ErrAttemptCompleted = errors.New("attempt already completed")
	// ErrNotAuthenticated is returned when a command needs a current user.
	ErrNotAuthenticated = errors.New("no user logged in")
	// ErrForbidden is returned when the current user's role does not allow the command.
	ErrForbidden = errors.New("role not allowed")
	// ErrInvalidQuiz indicates a quiz draft failed validation.
	ErrInvalidQuiz = errors.New("invalid quiz")
	// ErrWorkspaceNotFound is returned when a client has no open workspace.
	ErrWorkspaceNotFound = errors.New("workspace not found")
)
