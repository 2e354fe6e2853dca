package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/laporkendala/lapor-backend/internal/config"
	"github.com/laporkendala/lapor-backend/internal/email"
	"github.com/laporkendala/lapor-backend/internal/notification"
	"github.com/laporkendala/lapor-backend/internal/repository"
	"github.com/laporkendala/lapor-backend/internal/socket"
	"github.com/laporkendala/lapor-backend/internal/types"
)

// ============================================
// Admin Service
// ============================================

// AdminAccount is an admin user as returned by ListAdmins
type AdminAccount struct {
	ID           string
	Email        string
	CreatedAt    time.Time
	LastSignInAt *time.Time
}

type AdminService interface {
	// ChangePassword updates the password of targetUserID, or of callerID
	// when targetUserID is empty.
	ChangePassword(ctx context.Context, callerID, targetUserID, newPassword string) error
	CreateAdmin(ctx context.Context, callerID, email, password string) (*repository.User, error)
	ListAdmins(ctx context.Context) ([]*AdminAccount, error)
	DeleteAdmin(ctx context.Context, callerID, targetUserID string) error
	IsAdmin(ctx context.Context, userID string) (bool, error)
}

type adminService struct {
	userRepo    repository.UserRepository
	roleRepo    repository.RoleRepository
	notifSvc    *notification.Service
	emailSvc    *email.Service
	cfg         *config.Config
	broadcaster *socket.Broadcaster
}

func NewAdminService(
	userRepo repository.UserRepository,
	roleRepo repository.RoleRepository,
	notifSvc *notification.Service,
	emailSvc *email.Service,
	cfg *config.Config,
	broadcaster *socket.Broadcaster,
) AdminService {
	return &adminService{
		userRepo:    userRepo,
		roleRepo:    roleRepo,
		notifSvc:    notifSvc,
		emailSvc:    emailSvc,
		cfg:         cfg,
		broadcaster: broadcaster,
	}
}

// IsAdmin checks the live role assignment. The result is never cached:
// a revoked admin loses access on their very next request.
func (s *adminService) IsAdmin(ctx context.Context, userID string) (bool, error) {
	return s.roleRepo.HasRole(ctx, userID, types.RoleAdmin)
}

func (s *adminService) ChangePassword(ctx context.Context, callerID, targetUserID, newPassword string) error {
	if len(newPassword) < 6 {
		return ErrPasswordTooShort
	}

	userID := targetUserID
	if userID == "" {
		userID = callerID
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	if err := s.userRepo.UpdatePassword(ctx, userID, string(hashed)); err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}

	// All sessions of the user are revoked alongside the password
	if err := s.userRepo.DeleteUserRefreshTokens(ctx, userID); err != nil {
		log.Printf("⚠️ Failed to revoke refresh tokens for %s: %v", userID, err)
	}

	if s.notifSvc != nil {
		if err := s.notifSvc.SendPasswordChanged(ctx, userID); err != nil {
			log.Printf("⚠️ Failed to send password changed notification: %v", err)
		}
	}

	return nil
}

func (s *adminService) CreateAdmin(ctx context.Context, callerID, emailAddr, password string) (*repository.User, error) {
	if emailAddr == "" || password == "" {
		return nil, ErrMissingCredentials
	}
	if len(password) < 6 {
		return nil, ErrPasswordTooShort
	}

	existing, _ := s.userRepo.FindByEmail(ctx, emailAddr)
	if existing != nil {
		return nil, ErrUserExists
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	now := time.Now()
	user := &repository.User{
		Email:            emailAddr,
		Password:         string(hashed),
		EmailConfirmedAt: &now,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	// Role grant happens after the user insert. If it fails the account
	// exists without the admin role and can be repaired by re-granting.
	if err := s.roleRepo.Grant(ctx, user.ID, types.RoleAdmin); err != nil {
		return nil, fmt.Errorf("failed to grant admin role: %w", err)
	}

	if s.notifSvc != nil {
		if err := s.notifSvc.SendAdminCreated(ctx, callerID, user.Email); err != nil {
			log.Printf("⚠️ Failed to send admin created notification: %v", err)
		}
	}

	if s.emailSvc != nil {
		go func() {
			if err := s.emailSvc.SendAdminCreated(user.Email, email.AdminCreatedData{
				Email:    user.Email,
				LoginURL: s.cfg.FrontendURL + "/login",
			}); err != nil {
				log.Printf("⚠️ Failed to send admin created email: %v", err)
			}
		}()
	}

	if s.broadcaster != nil {
		s.broadcaster.BroadcastAdminCreated(user.ID, user.Email)
	}

	log.Printf("✅ Admin account created: %s", user.Email)
	return user, nil
}

func (s *adminService) ListAdmins(ctx context.Context) ([]*AdminAccount, error) {
	assignments, err := s.roleRepo.FindByRole(ctx, types.RoleAdmin)
	if err != nil {
		return nil, fmt.Errorf("failed to list admin roles: %w", err)
	}

	admins := make([]*AdminAccount, 0, len(assignments))
	for _, a := range assignments {
		user, err := s.userRepo.FindByID(ctx, a.UserID)
		if err != nil {
			return nil, fmt.Errorf("failed to load user %s: %w", a.UserID, err)
		}
		if user == nil {
			// Orphaned role row, skip
			continue
		}
		admins = append(admins, &AdminAccount{
			ID:           user.ID,
			Email:        user.Email,
			CreatedAt:    user.CreatedAt,
			LastSignInAt: user.LastSignInAt,
		})
	}

	return admins, nil
}

func (s *adminService) DeleteAdmin(ctx context.Context, callerID, targetUserID string) error {
	if targetUserID == "" {
		return ErrMissingUserID
	}
	if targetUserID == callerID {
		return ErrSelfDelete
	}

	// Revoke the role first so an interrupted delete leaves a plain
	// account rather than a roleless admin.
	if err := s.roleRepo.Revoke(ctx, targetUserID, types.RoleAdmin); err != nil {
		return fmt.Errorf("failed to revoke admin role: %w", err)
	}

	if err := s.userRepo.Delete(ctx, targetUserID); err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}

	if s.broadcaster != nil {
		s.broadcaster.BroadcastAdminDeleted(targetUserID)
	}

	log.Printf("✅ Admin account deleted: %s", targetUserID)
	return nil
}
