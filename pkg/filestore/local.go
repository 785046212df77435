package filestore

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
)

type LocalStore struct {
	root string
}

func NewLocalStore(root string) *LocalStore {
	return &LocalStore{root: root}
}

func (s *LocalStore) Save(_ context.Context, hint string, data []byte) (string, error) {
	full := filepath.Join(s.root, filepath.FromSlash(Key(hint)))
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return "", fmt.Errorf("create receipt dir: %w", err)
	}
	if err := os.WriteFile(full, data, 0o644); err != nil {
		return "", fmt.Errorf("write receipt: %w", err)
	}
	return full, nil
}
