// Package cache provides local, non-authoritative persistence for a user's
// conversation list. The app works without it; it only makes conversations
// survive restarts until the next successful remote fetch.
package cache

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/Kedjuprecious/medibot-app/medibot"
)

// FileCache stores each user's conversations as one JSON file,
// conversations_<userID>.json, in a config directory.
type FileCache struct {
	Dir string
}

var _ medibot.ConversationCache = (*FileCache)(nil)

// NewFileCache creates a file cache rooted at dir. An empty dir selects
// ~/.medibot.
func NewFileCache(dir string) (*FileCache, error) {
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		dir = filepath.Join(home, ".medibot")
	}
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, err
	}
	return &FileCache{Dir: dir}, nil
}

func (c *FileCache) path(userID string) string {
	return filepath.Join(c.Dir, "conversations_"+userID+".json")
}

// Load reads the cached conversations for a user. A missing file is not an
// error; it returns nil.
func (c *FileCache) Load(ctx context.Context, userID string) ([]medibot.Conversation, error) {
	data, err := os.ReadFile(c.path(userID))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var convs []medibot.Conversation
	if err := json.Unmarshal(data, &convs); err != nil {
		return nil, err
	}
	return convs, nil
}

// Save writes the conversations for a user, replacing any previous state.
func (c *FileCache) Save(ctx context.Context, userID string, convs []medibot.Conversation) error {
	data, err := json.MarshalIndent(convs, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(c.path(userID), data, 0600)
}

// Clear removes the cached state for a user.
func (c *FileCache) Clear(ctx context.Context, userID string) error {
	err := os.Remove(c.path(userID))
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
