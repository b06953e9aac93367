package repository

import (
	"context"
	"fmt"

	"github.com/novatangle/donorbot/internal/domain"
)

// InfoSections lists every content block in insertion order.
func (s *Store) InfoSections(ctx context.Context) ([]domain.InfoSection, error) {
	var rows []domain.InfoSection
	err := s.db.SelectContext(ctx, &rows,
		`SELECT id, section_key, title, content, updated_at
		 FROM info_sections ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("info sections: %w", err)
	}
	return rows, nil
}

// InfoSectionByKey returns one content block.
func (s *Store) InfoSectionByKey(ctx context.Context, key string) (*domain.InfoSection, error) {
	var sec domain.InfoSection
	err := s.db.GetContext(ctx, &sec,
		`SELECT id, section_key, title, content, updated_at
		 FROM info_sections WHERE section_key = $1`, key)
	if err != nil {
		return nil, mapNotFound(err)
	}
	return &sec, nil
}

// UpsertInfoSection creates or replaces a content block by key.
func (s *Store) UpsertInfoSection(ctx context.Context, key, title, content string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO info_sections (section_key, title, content)
		 VALUES ($1, $2, $3)
		 ON CONFLICT (section_key)
		 DO UPDATE SET title = EXCLUDED.title, content = EXCLUDED.content, updated_at = NOW()`,
		key, title, content)
	if err != nil {
		return fmt.Errorf("upsert info section: %w", err)
	}
	return nil
}

// EnsureInfoSection inserts a content block unless the key already exists.
// Existing admin edits are never overwritten by reseeding.
func (s *Store) EnsureInfoSection(ctx context.Context, sec domain.InfoSection) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO info_sections (section_key, title, content)
		 VALUES ($1, $2, $3)
		 ON CONFLICT (section_key) DO NOTHING`,
		sec.SectionKey, sec.Title, sec.Content)
	if err != nil {
		return fmt.Errorf("ensure info section: %w", err)
	}
	return nil
}
