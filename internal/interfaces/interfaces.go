package interfaces

import (
	"context"

	"lovelace/backend/internal/auth"
	"lovelace/backend/internal/model"
)

// This file defines the interface for the chat service. The API layer
// depends on it instead of the concrete implementation, which decouples
// the layers and makes the handlers testable with mocks.

// ChatService defines the contract for chat-related business logic.
type ChatService interface {
	CreateChat(ctx context.Context, identity auth.Identity, chatID string) error
	ListChats(ctx context.Context, identity auth.Identity) ([]string, error)
	GetTranscript(ctx context.Context, identity auth.Identity, chatID string) ([]model.Message, error)
	SaveTranscript(ctx context.Context, identity auth.Identity, chatID string, messages []model.Message) error
	DeleteChat(ctx context.Context, identity auth.Identity, chatID string) error
	StreamExchange(ctx context.Context, messages []model.Message, streamChan chan<- model.StreamEvent)
}
