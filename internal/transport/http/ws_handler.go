package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
	"quizquest-service/internal/app"
	"quizquest-service/internal/domain"
)

type WSHandler struct {
	service  *app.WorkspaceService
	tick     time.Duration
	upgrader websocket.Upgrader
}

// NewWSHandler serves workspaces over websockets; tick is the countdown poll interval.
func NewWSHandler(service *app.WorkspaceService, tick time.Duration) *WSHandler {
	return &WSHandler{
		service: service,
		tick:    tick,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

type inboundMessage struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

type outboundMessage[T any] struct {
	Type    string `json:"type"`
	Payload T      `json:"payload"`
}

type errorPayload struct {
	Message string `json:"message"`
}

type okPayload struct {
	OK bool `json:"ok"`
}

type attemptView struct {
	Attempt  domain.QuizAttempt `json:"attempt"`
	Deadline *time.Time         `json:"deadline,omitempty"`
}

// ServeWS upgrades HTTP requests to websockets and binds the connection to the client's workspace.
func (h *WSHandler) ServeWS(w http.ResponseWriter, r *http.Request) {
	clientID := r.URL.Query().Get("clientId")
	if clientID == "" {
		http.Error(w, "missing clientId", http.StatusBadRequest)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Warn().Err(err).Msg("ws upgrade failed")
		return
	}
	defer conn.Close()

	ws, err := h.service.Open(r.Context(), clientID)
	if err != nil {
		_ = conn.WriteJSON(outboundMessage[errorPayload]{Type: "error", Payload: errorPayload{Message: err.Error()}})
		return
	}
	defer h.service.Close(ws)

	notifications, cancelSub := ws.Subscribe()
	defer cancelSub()

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	send := make(chan outboundMessage[any], 16)
	writerDone := make(chan struct{})
	forwardDone := make(chan struct{})
	watcherDone := make(chan struct{})

	go func() {
		defer close(writerDone)
		for msg := range send {
			if err := conn.WriteJSON(msg); err != nil {
				log.Warn().Err(err).Str("clientId", clientID).Msg("ws write error")
				return
			}
		}
	}()

	go func() {
		defer close(forwardDone)
		for {
			select {
			case n, ok := <-notifications:
				if !ok {
					return
				}
				select {
				case send <- outboundMessage[any]{Type: string(n.Kind), Payload: n}:
				case <-ctx.Done():
					return
				}
			case <-ctx.Done():
				return
			}
		}
	}()

	// the countdown lives only as long as the connection
	go func() {
		defer close(watcherDone)
		_ = app.NewDeadlineWatcher(ws, h.tick).Run(ctx)
	}()

	send <- outboundMessage[any]{Type: "joined", Payload: map[string]string{"clientId": clientID}}

	for {
		var inbound inboundMessage
		if err := conn.ReadJSON(&inbound); err != nil {
			break
		}
		reply, err := h.dispatch(ctx, ws, inbound)
		if err != nil {
			send <- outboundMessage[any]{Type: "error", Payload: errorPayload{Message: err.Error()}}
			continue
		}
		send <- outboundMessage[any]{Type: inbound.Type, Payload: reply}
	}

	cancel()
	<-forwardDone
	<-watcherDone
	close(send)
	<-writerDone
}

func (h *WSHandler) dispatch(ctx context.Context, ws *app.Workspace, msg inboundMessage) (any, error) {
	switch msg.Type {
	case "login":
		p, err := decode[loginPayload](msg.Payload)
		if err != nil {
			return nil, err
		}
		user, err := p.toUser()
		if err != nil {
			return nil, err
		}
		log.Info().Str("clientId", ws.ID()).Str("userId", user.ID).Str("role", string(user.Role)).Msg("login")
		return ws.Auth.Login(user), nil

	case "logout":
		ws.Auth.Logout()
		return okPayload{OK: true}, nil

	case "quizzes":
		if _, err := requireRole(ws, ""); err != nil {
			return nil, err
		}
		return ws.Quizzes.Quizzes(), nil

	case "addQuiz":
		if _, err := requireRole(ws, domain.RoleAdmin); err != nil {
			return nil, err
		}
		p, err := decode[addQuizPayload](msg.Payload)
		if err != nil {
			return nil, err
		}
		quiz, err := p.Quiz.toQuiz()
		if err != nil {
			return nil, err
		}
		return ws.Quizzes.AddQuiz(quiz), nil

	case "updateQuiz":
		if _, err := requireRole(ws, domain.RoleAdmin); err != nil {
			return nil, err
		}
		p, err := decode[updateQuizPayload](msg.Payload)
		if err != nil {
			return nil, err
		}
		patch, err := p.Patch.toPatch()
		if err != nil {
			return nil, err
		}
		return ws.Quizzes.UpdateQuiz(p.ID, patch)

	case "deleteQuiz":
		if _, err := requireRole(ws, domain.RoleAdmin); err != nil {
			return nil, err
		}
		p, err := decode[quizIDPayload](msg.Payload)
		if err != nil {
			return nil, err
		}
		if err := ws.Quizzes.DeleteQuiz(p.ID); err != nil {
			return nil, err
		}
		return okPayload{OK: true}, nil

	case "allowStudent", "removeStudent":
		if _, err := requireRole(ws, domain.RoleAdmin); err != nil {
			return nil, err
		}
		p, err := decode[studentAccessPayload](msg.Payload)
		if err != nil {
			return nil, err
		}
		if msg.Type == "allowStudent" {
			return ws.Quizzes.AllowStudent(p.QuizID, p.StudentID)
		}
		return ws.Quizzes.RemoveStudent(p.QuizID, p.StudentID)

	case "startQuiz":
		user, err := requireRole(ws, domain.RoleStudent)
		if err != nil {
			return nil, err
		}
		p, err := decode[startQuizPayload](msg.Payload)
		if err != nil {
			return nil, err
		}
		if _, err := ws.Quizzes.Quiz(p.QuizID); err != nil {
			return nil, err
		}
		// resume instead of restarting the countdown
		attempt, ok := ws.Quizzes.CurrentAttemptFor(user.StudentID, p.QuizID)
		if !ok {
			attempt = ws.Quizzes.StartQuiz(p.QuizID, user.StudentID)
		}
		return h.viewAttempt(ws, attempt), nil

	case "answer":
		user, err := requireRole(ws, domain.RoleStudent)
		if err != nil {
			return nil, err
		}
		p, err := decode[answerPayload](msg.Payload)
		if err != nil {
			return nil, err
		}
		if err := requireOwnAttempt(ws, user, p.AttemptID); err != nil {
			return nil, err
		}
		if err := ws.Quizzes.SubmitAnswer(p.AttemptID, p.QuestionID, p.Answer); err != nil {
			return nil, err
		}
		return okPayload{OK: true}, nil

	case "complete":
		user, err := requireRole(ws, domain.RoleStudent)
		if err != nil {
			return nil, err
		}
		p, err := decode[completePayload](msg.Payload)
		if err != nil {
			return nil, err
		}
		if err := requireOwnAttempt(ws, user, p.AttemptID); err != nil {
			return nil, err
		}
		attempt, err := ws.Quizzes.CompleteQuiz(ctx, p.AttemptID)
		if err != nil {
			return nil, err
		}
		return h.viewAttempt(ws, attempt), nil

	case "dashboard":
		if _, err := requireRole(ws, domain.RoleStudent); err != nil {
			return nil, err
		}
		return ws.Dashboard()

	default:
		return nil, errors.New("unsupported message type")
	}
}

func (h *WSHandler) viewAttempt(ws *app.Workspace, attempt domain.QuizAttempt) attemptView {
	view := attemptView{Attempt: attempt}
	if deadline, ok := ws.Quizzes.Deadline(attempt); ok && !attempt.Completed {
		view.Deadline = &deadline
	}
	return view
}

// requireRole trusts the role flag of the logged-in user. An empty role accepts any user.
func requireRole(ws *app.Workspace, role domain.Role) (domain.User, error) {
	user, ok := ws.Auth.CurrentUser()
	if !ok {
		return domain.User{}, domain.ErrNotAuthenticated
	}
	if role != "" && user.Role != role {
		return domain.User{}, domain.ErrForbidden
	}
	return user, nil
}

func requireOwnAttempt(ws *app.Workspace, user domain.User, attemptID string) error {
	attempt, err := ws.Quizzes.Attempt(attemptID)
	if err != nil {
		return err
	}
	if attempt.StudentID != user.StudentID {
		return domain.ErrForbidden
	}
	return nil
}

func decode[T any](raw json.RawMessage) (T, error) {
	var payload T
	if len(raw) == 0 {
		raw = json.RawMessage("{}")
	}
	if err := json.Unmarshal(raw, &payload); err != nil {
		return payload, fmt.Errorf("invalid payload: %w", err)
	}
	if err := validate.Struct(payload); err != nil {
		return payload, fmt.Errorf("invalid payload: %w", err)
	}
	return payload, nil
}
