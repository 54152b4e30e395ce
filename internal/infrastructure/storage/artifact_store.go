// Package storage persists generation output on the local filesystem so
// history queries can serve images back later. Layout:
//
//	<root>/<kind>/<email>/<timestamp>.json
package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/imezy/imezy-api/internal/core/domain"
)

const timestampLayout = "20060102150405"

// FileStore writes one JSON artifact per generation.
type FileStore struct {
	root string
}

func NewFileStore(root string) *FileStore {
	return &FileStore{root: root}
}

func (s *FileStore) path(kind domain.GenerationKind, email string, at time.Time) string {
	return filepath.Join(s.root, string(kind), email, at.UTC().Format(timestampLayout)+".json")
}

func (s *FileStore) Save(kind domain.GenerationKind, email string, at time.Time, res *domain.GenerationResult) error {
	p := s.path(kind, email, at)
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return fmt.Errorf("create artifact dir: %w", err)
	}

	data, err := json.MarshalIndent(res, "", "  ")
	if err != nil {
		return fmt.Errorf("encode artifact: %w", err)
	}
	if err := os.WriteFile(p, data, 0o644); err != nil {
		return fmt.Errorf("write artifact: %w", err)
	}
	return nil
}

func (s *FileStore) Load(kind domain.GenerationKind, email string, at time.Time) (*domain.GenerationResult, error) {
	data, err := os.ReadFile(s.path(kind, email, at))
	if err != nil {
		return nil, fmt.Errorf("read artifact: %w", err)
	}
	var res domain.GenerationResult
	if err := json.Unmarshal(data, &res); err != nil {
		return nil, fmt.Errorf("decode artifact: %w", err)
	}
	return &res, nil
}
