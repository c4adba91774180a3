package service

import (
	"context"
	"fmt"
	"log/slog"

	"lovelace/backend/internal/auth"
	app_errors "lovelace/backend/internal/errors"
	"lovelace/backend/internal/llm"
	"lovelace/backend/internal/model"
	"lovelace/backend/internal/repository"
)

type ChatService struct {
	repo repository.Repository
	llm  llm.LLMProvider
}

func NewChatService(repo repository.Repository, llmProvider llm.LLMProvider) *ChatService {
	return &ChatService{repo: repo, llm: llmProvider}
}

// CreateChat registers an empty transcript under a caller-generated chat
// id. The id is generated client-side before this call resolves, which is
// what lets the client navigate to the chat immediately.
func (s *ChatService) CreateChat(ctx context.Context, identity auth.Identity, chatID string) error {
	if chatID == "" {
		return fmt.Errorf("%w: chat id is required", app_errors.ErrValidation)
	}
	return s.repo.Put(ctx, identity, chatID, []model.Message{})
}

// ListChats returns the chat ids stored for one identity.
func (s *ChatService) ListChats(ctx context.Context, identity auth.Identity) ([]string, error) {
	return s.repo.List(ctx, identity)
}

// GetTranscript returns the stored message history for a chat. An absent
// chat yields an empty transcript, never an error.
func (s *ChatService) GetTranscript(ctx context.Context, identity auth.Identity, chatID string) ([]model.Message, error) {
	return s.repo.Get(ctx, identity, chatID)
}

// SaveTranscript overwrites the stored transcript. Last writer wins; this
// is the append-on-complete path, implemented by callers as a full
// read-modify-write replacement.
func (s *ChatService) SaveTranscript(ctx context.Context, identity auth.Identity, chatID string, messages []model.Message) error {
	for _, m := range messages {
		if !m.Role.Valid() {
			return fmt.Errorf("%w: unknown role %q", app_errors.ErrValidation, m.Role)
		}
	}
	return s.repo.Put(ctx, identity, chatID, messages)
}

// DeleteChat removes all persisted state for the chat. In-flight
// exchanges on the chat are not cancelled; that is the caller's concern.
func (s *ChatService) DeleteChat(ctx context.Context, identity auth.Identity, chatID string) error {
	slog.Info("Deleting chat", "chat_id", chatID)
	return s.repo.Delete(ctx, identity, chatID)
}

// StreamExchange forwards the transcript to the model gateway and bridges
// its chunk stream onto streamChan as wire events, terminating with
// exactly one Done event. It closes streamChan when finished. This method
// does not persist anything: persistence after a completed exchange is a
// separate, explicit call made by the consumer.
func (s *ChatService) StreamExchange(ctx context.Context, messages []model.Message, streamChan chan<- model.StreamEvent) {
	defer close(streamChan)

	llmChan := make(chan llm.StreamChunk)
	go s.llm.GenerateStream(ctx, messages, llmChan)

	for chunk := range llmChan {
		if chunk.Err != nil {
			slog.Warn("Stream error from model gateway", "code", chunk.Err.Code, "message", chunk.Err.Message)
			event := model.StreamEvent{Error: true, Message: chunk.Err.Message, Code: chunk.Err.Code}
			if !send(ctx, streamChan, event) {
				return
			}
			break
		}
		if !send(ctx, streamChan, model.StreamEvent{Content: chunk.Content}) {
			return
		}
	}

	send(ctx, streamChan, model.StreamEvent{Done: true})
}

func send(ctx context.Context, ch chan<- model.StreamEvent, event model.StreamEvent) bool {
	select {
	case ch <- event:
		return true
	case <-ctx.Done():
		return false
	}
}
