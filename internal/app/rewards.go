package app

import (
	"context"

	"quizquest-service/internal/domain"
)

// RewardListener consumes reward events emitted by QuizService.CompleteQuiz.
// Listeners run after the quiz service releases its lock, in registration order.
type RewardListener interface {
	OnReward(ctx context.Context, event domain.RewardEvent)
}

// RewardListenerFunc adapts a plain function to RewardListener.
type RewardListenerFunc func(ctx context.Context, event domain.RewardEvent)

func (f RewardListenerFunc) OnReward(ctx context.Context, event domain.RewardEvent) {
	f(ctx, event)
}
