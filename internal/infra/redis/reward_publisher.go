package redis

import (
	"context"
	"encoding/json"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"quizquest-service/internal/domain"
)

// DefaultRewardChannel is the pub/sub channel reward events are published on.
const DefaultRewardChannel = "quiz:rewards"

// RewardPublisher fans reward events out over Redis pub/sub. It implements app.RewardListener.
// Publishing is best-effort; failures are logged and never block a quiz completion.
type RewardPublisher struct {
	client  *redis.Client
	channel string
}

func NewRewardPublisher(client *redis.Client, channel string) *RewardPublisher {
	if channel == "" {
		channel = DefaultRewardChannel
	}
	return &RewardPublisher{client: client, channel: channel}
}

func (p *RewardPublisher) OnReward(ctx context.Context, event domain.RewardEvent) {
	payload, err := json.Marshal(event)
	if err != nil {
		log.Error().Err(err).Str("attemptId", event.AttemptID).Msg("marshal reward event")
		return
	}
	if err := p.client.Publish(ctx, p.channel, payload).Err(); err != nil {
		log.Warn().Err(err).Str("attemptId", event.AttemptID).Msg("publish reward event")
	}
}
