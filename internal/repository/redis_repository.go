package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"lovelace/backend/internal/auth"
	"lovelace/backend/internal/model"
)

// redisRepository keeps each transcript as a JSON string value plus a
// per-identity sorted set indexing chat ids by recency.
type redisRepository struct {
	rdb *redis.Client
}

func NewRedisRepository(rdb *redis.Client) Repository {
	return &redisRepository{rdb: rdb}
}

func (r *redisRepository) transcriptKey(identity auth.Identity, chatID string) string {
	return fmt.Sprintf("transcript:%s:%s", identity, chatID)
}

func (r *redisRepository) chatsKey(identity auth.Identity) string {
	return fmt.Sprintf("user:%s:chats", identity)
}

func (r *redisRepository) Get(ctx context.Context, identity auth.Identity, chatID string) ([]model.Message, error) {
	raw, err := r.rdb.Get(ctx, r.transcriptKey(identity, chatID)).Result()
	if err != nil {
		if err == redis.Nil {
			return []model.Message{}, nil
		}
		return nil, fmt.Errorf("could not read transcript: %w", err)
	}

	var messages []model.Message
	if err := json.Unmarshal([]byte(raw), &messages); err != nil {
		return nil, fmt.Errorf("could not decode transcript: %w", err)
	}
	if messages == nil {
		messages = []model.Message{}
	}
	return messages, nil
}

func (r *redisRepository) Put(ctx context.Context, identity auth.Identity, chatID string, messages []model.Message) error {
	if messages == nil {
		messages = []model.Message{}
	}
	raw, err := json.Marshal(messages)
	if err != nil {
		return fmt.Errorf("could not encode transcript: %w", err)
	}

	pipe := r.rdb.TxPipeline()
	pipe.Set(ctx, r.transcriptKey(identity, chatID), raw, 0)
	pipe.ZAdd(ctx, r.chatsKey(identity), redis.Z{
		Score:  float64(-time.Now().UnixNano()),
		Member: chatID,
	})
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("could not write transcript: %w", err)
	}
	return nil
}

func (r *redisRepository) Delete(ctx context.Context, identity auth.Identity, chatID string) error {
	pipe := r.rdb.TxPipeline()
	pipe.Del(ctx, r.transcriptKey(identity, chatID))
	pipe.ZRem(ctx, r.chatsKey(identity), chatID)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("could not delete transcript: %w", err)
	}
	return nil
}

func (r *redisRepository) List(ctx context.Context, identity auth.Identity) ([]string, error) {
	chatIDs, err := r.rdb.ZRange(ctx, r.chatsKey(identity), 0, -1).Result()
	if err != nil {
		if err == redis.Nil {
			return []string{}, nil
		}
		return nil, fmt.Errorf("could not list chats: %w", err)
	}
	if chatIDs == nil {
		chatIDs = []string{}
	}
	return chatIDs, nil
}
