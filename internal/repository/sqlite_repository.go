package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"lovelace/backend/internal/auth"
	"lovelace/backend/internal/model"
)

type sqliteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(db *sql.DB) Repository {
	return &sqliteRepository{db: db}
}

func (r *sqliteRepository) Get(ctx context.Context, identity auth.Identity, chatID string) ([]model.Message, error) {
	query := "SELECT messages FROM transcripts WHERE identity = ? AND chat_id = ?"
	row := r.db.QueryRowContext(ctx, query, string(identity), chatID)

	var raw string
	if err := row.Scan(&raw); err != nil {
		if err == sql.ErrNoRows {
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

func (r *sqliteRepository) Put(ctx context.Context, identity auth.Identity, chatID string, messages []model.Message) error {
	if messages == nil {
		messages = []model.Message{}
	}
	raw, err := json.Marshal(messages)
	if err != nil {
		return fmt.Errorf("could not encode transcript: %w", err)
	}

	query := `
		INSERT INTO transcripts (identity, chat_id, messages, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(identity, chat_id) DO UPDATE SET messages = excluded.messages, updated_at = excluded.updated_at
	`
	if _, err := r.db.ExecContext(ctx, query, string(identity), chatID, string(raw), time.Now().UTC()); err != nil {
		return fmt.Errorf("could not write transcript: %w", err)
	}
	return nil
}

func (r *sqliteRepository) Delete(ctx context.Context, identity auth.Identity, chatID string) error {
	query := "DELETE FROM transcripts WHERE identity = ? AND chat_id = ?"
	if _, err := r.db.ExecContext(ctx, query, string(identity), chatID); err != nil {
		return fmt.Errorf("could not delete transcript: %w", err)
	}
	return nil
}

func (r *sqliteRepository) List(ctx context.Context, identity auth.Identity) ([]string, error) {
	query := "SELECT chat_id FROM transcripts WHERE identity = ? ORDER BY updated_at DESC"
	rows, err := r.db.QueryContext(ctx, query, string(identity))
	if err != nil {
		return nil, fmt.Errorf("could not list chats: %w", err)
	}
	defer rows.Close()

	chatIDs := []string{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		chatIDs = append(chatIDs, id)
	}
	return chatIDs, rows.Err()
}
