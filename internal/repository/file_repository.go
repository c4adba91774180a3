package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"lovelace/backend/internal/auth"
	"lovelace/backend/internal/model"
)

// fileRepository stores one transcript per (identity, chat id) pair as
// <root>/<identity>/<chatID>/messages.json. The identity segment is the
// normalized caller email, so each tenant gets its own directory tree.
type fileRepository struct {
	root string
}

func NewFileRepository(root string) (Repository, error) {
	if err := os.MkdirAll(root, 0750); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}
	return &fileRepository{root: root}, nil
}

func (r *fileRepository) transcriptPath(identity auth.Identity, chatID string) string {
	return filepath.Join(r.root, string(identity), chatID, "messages.json")
}

func (r *fileRepository) Get(_ context.Context, identity auth.Identity, chatID string) ([]model.Message, error) {
	data, err := os.ReadFile(r.transcriptPath(identity, chatID))
	if err != nil {
		if os.IsNotExist(err) {
			return []model.Message{}, nil
		}
		return nil, fmt.Errorf("could not read transcript: %w", err)
	}

	var messages []model.Message
	if err := json.Unmarshal(data, &messages); err != nil {
		return nil, fmt.Errorf("could not decode transcript: %w", err)
	}
	if messages == nil {
		messages = []model.Message{}
	}
	return messages, nil
}

func (r *fileRepository) Put(_ context.Context, identity auth.Identity, chatID string, messages []model.Message) error {
	if messages == nil {
		messages = []model.Message{}
	}
	data, err := json.Marshal(messages)
	if err != nil {
		return fmt.Errorf("could not encode transcript: %w", err)
	}

	path := r.transcriptPath(identity, chatID)
	if err := os.MkdirAll(filepath.Dir(path), 0750); err != nil {
		return fmt.Errorf("could not create chat directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("could not write transcript: %w", err)
	}
	return nil
}

func (r *fileRepository) Delete(_ context.Context, identity auth.Identity, chatID string) error {
	dir := filepath.Join(r.root, string(identity), chatID)
	if err := os.RemoveAll(dir); err != nil {
		return fmt.Errorf("could not delete chat directory: %w", err)
	}
	return nil
}

func (r *fileRepository) List(_ context.Context, identity auth.Identity) ([]string, error) {
	entries, err := os.ReadDir(filepath.Join(r.root, string(identity)))
	if err != nil {
		if os.IsNotExist(err) {
			return []string{}, nil
		}
		return nil, fmt.Errorf("could not list chats: %w", err)
	}

	chatIDs := make([]string, 0, len(entries))
	for _, entry := range entries {
		// Skip stray files (.DS_Store and friends); chats are directories.
		if !entry.IsDir() || strings.HasPrefix(entry.Name(), ".") {
			continue
		}
		chatIDs = append(chatIDs, entry.Name())
	}
	return chatIDs, nil
}
