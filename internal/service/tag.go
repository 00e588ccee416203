package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/pantryapp/pantry-server/internal/domain"
	domainerrors "github.com/pantryapp/pantry-server/internal/errors"
	"github.com/pantryapp/pantry-server/internal/store"
)

// TagService manages a user's recipe tags.
type TagService struct {
	store  store.Store
	logger *slog.Logger
}

// NewTagService creates a new tag service.
func NewTagService(store store.Store, logger *slog.Logger) *TagService {
	return &TagService{
		store:  store,
		logger: logger,
	}
}

// List returns the user's tags ordered by name descending.
func (s *TagService) List(ctx context.Context, userID string) ([]*domain.Tag, error) {
	tags, err := s.store.ListTags(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list tags: %w", err)
	}
	return tags, nil
}

// Create adds a tag for the user. Blank names are rejected; duplicate names
// for the same owner are allowed.
func (s *TagService) Create(ctx context.Context, userID, name string) (*domain.Tag, error) {
	if strings.TrimSpace(name) == "" {
		return nil, domainerrors.Validation("name must not be blank")
	}

	tag := &domain.Tag{
		OwnerID: userID,
		Name:    name,
	}
	tag.InitTimestamps()

	if err := s.store.CreateTag(ctx, tag); err != nil {
		return nil, fmt.Errorf("create tag: %w", err)
	}
	return tag, nil
}

// Get returns one of the user's tags by ID.
func (s *TagService) Get(ctx context.Context, userID string, id int64) (*domain.Tag, error) {
	tag, err := s.store.GetTag(ctx, userID, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, domainerrors.NotFound("tag not found")
		}
		return nil, fmt.Errorf("get tag: %w", err)
	}
	return tag, nil
}

// Update renames one of the user's tags.
func (s *TagService) Update(ctx context.Context, userID string, id int64, name string) (*domain.Tag, error) {
	if strings.TrimSpace(name) == "" {
		return nil, domainerrors.Validation("name must not be blank")
	}

	tag, err := s.Get(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	tag.Name = name
	tag.Touch()
	if err := s.store.UpdateTag(ctx, tag); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, domainerrors.NotFound("tag not found")
		}
		return nil, fmt.Errorf("update tag: %w", err)
	}
	return tag, nil
}

// Delete removes one of the user's tags. Recipes referencing it drop the
// association but are otherwise untouched.
func (s *TagService) Delete(ctx context.Context, userID string, id int64) error {
	if err := s.store.DeleteTag(ctx, userID, id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domainerrors.NotFound("tag not found")
		}
		return fmt.Errorf("delete tag: %w", err)
	}
	return nil
}
