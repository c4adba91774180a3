package repository

import (
	"context"

	"lovelace/backend/internal/auth"
	"lovelace/backend/internal/model"
)

// Repository is the durable record of chat transcripts, keyed by
// (identity, chat id). All implementations share one contract:
//
//   - Get of an absent chat returns an empty transcript, never an error.
//   - Put is an idempotent full overwrite; last writer wins, no merge and
//     no optimistic-concurrency check. Callers implementing "append" do a
//     read-modify-write, so two concurrent exchanges on one chat can lose
//     updates. That race is documented behavior, not a bug to fix here.
//   - Delete removes all persisted state for the id; a subsequent Get
//     returns empty. Deleting an absent chat is not an error.
//   - List returns the chat ids stored for one identity.
type Repository interface {
	Get(ctx context.Context, identity auth.Identity, chatID string) ([]model.Message, error)
	Put(ctx context.Context, identity auth.Identity, chatID string, messages []model.Message) error
	Delete(ctx context.Context, identity auth.Identity, chatID string) error
	List(ctx context.Context, identity auth.Identity) ([]string, error)
}
