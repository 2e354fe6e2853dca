package notification

import (
	"context"
	"fmt"

	"github.com/laporkendala/lapor-backend/internal/repository"
	"github.com/laporkendala/lapor-backend/internal/socket"
)

// Notification types
const (
	TypeNewReport           = "NEW_REPORT"
	TypeReportStatusChanged = "REPORT_STATUS_CHANGED"
	TypeAdminCreated        = "ADMIN_CREATED"
	TypePasswordChanged     = "PASSWORD_CHANGED"
)

// Service handles sending notifications
type Service struct {
	notificationRepo repository.NotificationRepository
	roleRepo         repository.RoleRepository
	broadcaster      *socket.Broadcaster
}

// NewService creates a new notification service
func NewService(notificationRepo repository.NotificationRepository, roleRepo repository.RoleRepository) *Service {
	return &Service{
		notificationRepo: notificationRepo,
		roleRepo:         roleRepo,
	}
}

func (s *Service) SetBroadcaster(b *socket.Broadcaster) {
	s.broadcaster = b
}

// sendWebSocketNotification sends real-time notification via WebSocket
func (s *Service) sendWebSocketNotification(notification *repository.Notification) {
	if s.broadcaster == nil || notification == nil {
		return
	}

	s.broadcaster.SendNotification(notification.UserID, map[string]interface{}{
		"id":        notification.ID,
		"type":      notification.Type,
		"title":     notification.Title,
		"message":   notification.Message,
		"data":      notification.Data,
		"read":      notification.Read,
		"createdAt": notification.CreatedAt,
	})
}

// adminUserIDs resolves every user holding the admin role
func (s *Service) adminUserIDs(ctx context.Context) ([]string, error) {
	if s.roleRepo == nil {
		return nil, fmt.Errorf("role repository not available")
	}

	assignments, err := s.roleRepo.FindByRole(ctx, "admin")
	if err != nil {
		return nil, err
	}

	userIDs := make([]string, 0, len(assignments))
	for _, a := range assignments {
		userIDs = append(userIDs, a.UserID)
	}
	return userIDs, nil
}

// SendNewReportToAdmins notifies every admin about a freshly submitted report
func (s *Service) SendNewReportToAdmins(ctx context.Context, reportID, issueTitle, username string) error {
	adminIDs, err := s.adminUserIDs(ctx)
	if err != nil {
		return err
	}

	var errs []error
	for _, userID := range adminIDs {
		if userID == "" {
			continue
		}

		notification := &repository.Notification{
			UserID:  userID,
			Type:    TypeNewReport,
			Title:   "Laporan Baru",
			Message: fmt.Sprintf("Laporan baru dari %s: %s", username, issueTitle),
			Read:    false,
			Data: map[string]interface{}{
				"reportId": reportID,
				"action":   "view_report",
			},
		}

		if err := s.notificationRepo.Create(ctx, notification); err != nil {
			errs = append(errs, fmt.Errorf("failed to notify user %s: %w", userID, err))
		} else {
			s.sendWebSocketNotification(notification)
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("errors sending new report notifications: %v", errs)
	}
	return nil
}

// SendReportStatusChanged notifies admins when a report moves to a new status
func (s *Service) SendReportStatusChanged(ctx context.Context, excludeUserID, reportID, issueTitle, statusName string) error {
	adminIDs, err := s.adminUserIDs(ctx)
	if err != nil {
		return err
	}

	var errs []error
	for _, userID := range adminIDs {
		if userID == "" || userID == excludeUserID {
			continue
		}

		notification := &repository.Notification{
			UserID:  userID,
			Type:    TypeReportStatusChanged,
			Title:   "Status Laporan Berubah",
			Message: fmt.Sprintf("Laporan '%s' sekarang berstatus %s", issueTitle, statusName),
			Read:    false,
			Data: map[string]interface{}{
				"reportId": reportID,
				"status":   statusName,
				"action":   "view_report",
			},
		}

		if err := s.notificationRepo.Create(ctx, notification); err != nil {
			errs = append(errs, fmt.Errorf("failed to notify user %s: %w", userID, err))
		} else {
			s.sendWebSocketNotification(notification)
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("errors sending status change notifications: %v", errs)
	}
	return nil
}

// SendAdminCreated notifies existing admins that a new admin account exists
func (s *Service) SendAdminCreated(ctx context.Context, excludeUserID, newAdminEmail string) error {
	adminIDs, err := s.adminUserIDs(ctx)
	if err != nil {
		return err
	}

	var errs []error
	for _, userID := range adminIDs {
		if userID == "" || userID == excludeUserID {
			continue
		}

		notification := &repository.Notification{
			UserID:  userID,
			Type:    TypeAdminCreated,
			Title:   "Admin Baru",
			Message: fmt.Sprintf("Akun admin baru dibuat: %s", newAdminEmail),
			Read:    false,
			Data: map[string]interface{}{
				"email":  newAdminEmail,
				"action": "view_admins",
			},
		}

		if err := s.notificationRepo.Create(ctx, notification); err != nil {
			errs = append(errs, fmt.Errorf("failed to notify user %s: %w", userID, err))
		} else {
			s.sendWebSocketNotification(notification)
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("errors sending admin created notifications: %v", errs)
	}
	return nil
}

// SendPasswordChanged notifies a user that their password was changed
func (s *Service) SendPasswordChanged(ctx context.Context, userID string) error {
	if userID == "" {
		return nil
	}

	notification := &repository.Notification{
		UserID:  userID,
		Type:    TypePasswordChanged,
		Title:   "Password Diubah",
		Message: "Password akun Anda baru saja diubah",
		Read:    false,
		Data: map[string]interface{}{
			"action": "view_profile",
		},
	}

	if err := s.notificationRepo.Create(ctx, notification); err != nil {
		return err
	}

	s.sendWebSocketNotification(notification)

	return nil
}
