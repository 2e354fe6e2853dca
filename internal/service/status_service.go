package service

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/laporkendala/lapor-backend/internal/repository"
	"github.com/laporkendala/lapor-backend/internal/socket"
)

// ============================================
// Status Service
// ============================================

var hexColorRegex = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)

type StatusService interface {
	List(ctx context.Context) ([]*repository.Status, error)
	Create(ctx context.Context, name, color string) (*repository.Status, error)
	Update(ctx context.Context, id, name, color string) (*repository.Status, error)
	Delete(ctx context.Context, id string) error
}

type statusService struct {
	statusRepo  repository.StatusRepository
	broadcaster *socket.Broadcaster
}

func NewStatusService(statusRepo repository.StatusRepository, broadcaster *socket.Broadcaster) StatusService {
	return &statusService{statusRepo: statusRepo, broadcaster: broadcaster}
}

func (s *statusService) List(ctx context.Context) ([]*repository.Status, error) {
	return s.statusRepo.FindAll(ctx)
}

func (s *statusService) validate(name, color string) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("%w: nama status wajib diisi", ErrInvalidInput)
	}
	if color != "" && !hexColorRegex.MatchString(color) {
		return fmt.Errorf("%w: warna harus format hex (#rrggbb)", ErrInvalidInput)
	}
	return nil
}

func (s *statusService) Create(ctx context.Context, name, color string) (*repository.Status, error) {
	if err := s.validate(name, color); err != nil {
		return nil, err
	}

	status := &repository.Status{
		Name: strings.TrimSpace(name),
	}
	if color != "" {
		status.Color = &color
	}
	if err := s.statusRepo.Create(ctx, status); err != nil {
		return nil, fmt.Errorf("failed to create status: %w", err)
	}

	if s.broadcaster != nil {
		s.broadcaster.BroadcastStatusChanged(map[string]interface{}{
			"id":     status.ID,
			"name":   status.Name,
			"action": "created",
		})
	}

	return status, nil
}

func (s *statusService) Update(ctx context.Context, id, name, color string) (*repository.Status, error) {
	if err := s.validate(name, color); err != nil {
		return nil, err
	}

	status, err := s.statusRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if status == nil {
		return nil, ErrNotFound
	}

	status.Name = strings.TrimSpace(name)
	if color != "" {
		status.Color = &color
	}
	if err := s.statusRepo.Update(ctx, status); err != nil {
		return nil, fmt.Errorf("failed to update status: %w", err)
	}

	if s.broadcaster != nil {
		s.broadcaster.BroadcastStatusChanged(map[string]interface{}{
			"id":     status.ID,
			"name":   status.Name,
			"action": "updated",
		})
	}

	return status, nil
}

func (s *statusService) Delete(ctx context.Context, id string) error {
	status, err := s.statusRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if status == nil {
		return ErrNotFound
	}

	// Reports on this status fall back to NULL via the FK
	if err := s.statusRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete status: %w", err)
	}

	if s.broadcaster != nil {
		s.broadcaster.BroadcastStatusChanged(map[string]interface{}{
			"id":     id,
			"action": "deleted",
		})
	}

	return nil
}
