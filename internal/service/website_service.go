package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/laporkendala/lapor-backend/internal/repository"
	"github.com/laporkendala/lapor-backend/internal/socket"
)

// ============================================
// Website Service
// ============================================

type WebsiteService interface {
	List(ctx context.Context) ([]*repository.Website, error)
	Create(ctx context.Context, name string) (*repository.Website, error)
	Update(ctx context.Context, id, name string) (*repository.Website, error)
	Delete(ctx context.Context, id string) error
}

type websiteService struct {
	websiteRepo repository.WebsiteRepository
	broadcaster *socket.Broadcaster
}

func NewWebsiteService(websiteRepo repository.WebsiteRepository, broadcaster *socket.Broadcaster) WebsiteService {
	return &websiteService{websiteRepo: websiteRepo, broadcaster: broadcaster}
}

func (s *websiteService) List(ctx context.Context) ([]*repository.Website, error) {
	return s.websiteRepo.FindAll(ctx)
}

func (s *websiteService) Create(ctx context.Context, name string) (*repository.Website, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: nama website wajib diisi", ErrInvalidInput)
	}

	website := &repository.Website{Name: name}
	if err := s.websiteRepo.Create(ctx, website); err != nil {
		return nil, fmt.Errorf("failed to create website: %w", err)
	}

	if s.broadcaster != nil {
		s.broadcaster.BroadcastWebsiteChanged(map[string]interface{}{
			"id":     website.ID,
			"name":   website.Name,
			"action": "created",
		})
	}

	return website, nil
}

func (s *websiteService) Update(ctx context.Context, id, name string) (*repository.Website, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: nama website wajib diisi", ErrInvalidInput)
	}

	website, err := s.websiteRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if website == nil {
		return nil, ErrNotFound
	}

	website.Name = name
	if err := s.websiteRepo.Update(ctx, website); err != nil {
		return nil, fmt.Errorf("failed to update website: %w", err)
	}

	if s.broadcaster != nil {
		s.broadcaster.BroadcastWebsiteChanged(map[string]interface{}{
			"id":     website.ID,
			"name":   website.Name,
			"action": "updated",
		})
	}

	return website, nil
}

func (s *websiteService) Delete(ctx context.Context, id string) error {
	website, err := s.websiteRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if website == nil {
		return ErrNotFound
	}

	// Reports keep existing with website_id set NULL by the FK
	if err := s.websiteRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete website: %w", err)
	}

	if s.broadcaster != nil {
		s.broadcaster.BroadcastWebsiteChanged(map[string]interface{}{
			"id":     id,
			"action": "deleted",
		})
	}

	return nil
}
