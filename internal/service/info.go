package service

import (
	"context"
	"log/slog"
	"strings"

	"github.com/novatangle/donorbot/core/logger"
	"github.com/novatangle/donorbot/internal/domain"
)

// InfoStore is the persistence surface of the editable info sections.
type InfoStore interface {
	InfoSections(ctx context.Context) ([]domain.InfoSection, error)
	InfoSectionByKey(ctx context.Context, key string) (*domain.InfoSection, error)
	UpsertInfoSection(ctx context.Context, key, title, content string) error
}

// InfoService serves and edits the info menu content.
type InfoService struct {
	store InfoStore
}

// NewInfoService wires the store.
func NewInfoService(store InfoStore) *InfoService {
	return &InfoService{store: store}
}

// Sections lists every info section for the menu.
func (s *InfoService) Sections(ctx context.Context) ([]domain.InfoSection, error) {
	return s.store.InfoSections(ctx)
}

// Section returns one section by key.
func (s *InfoService) Section(ctx context.Context, key string) (*domain.InfoSection, error) {
	return s.store.InfoSectionByKey(ctx, key)
}

// Edit replaces a section's content, creating the section when missing.
func (s *InfoService) Edit(ctx context.Context, key, title, content string) error {
	content = strings.TrimSpace(content)
	if content == "" {
		return domain.ErrInvalidInput
	}
	if err := s.store.UpsertInfoSection(ctx, key, title, content); err != nil {
		return err
	}
	logger.SVCAdmin.InfoContext(ctx, "info section updated",
		slog.String("event", "admin.edit_info"),
		slog.String("section", key),
	)
	return nil
}
