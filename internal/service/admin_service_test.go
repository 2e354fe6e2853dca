package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/laporkendala/lapor-backend/internal/config"
	"github.com/laporkendala/lapor-backend/internal/repository"
	"github.com/laporkendala/lapor-backend/internal/types"
)

func newTestAdminService(userRepo *fakeUserRepo, roleRepo *fakeRoleRepo) AdminService {
	return NewAdminService(userRepo, roleRepo, nil, nil, &config.Config{}, nil)
}

func seedAdmin(t *testing.T, userRepo *fakeUserRepo, roleRepo *fakeRoleRepo, email string) *repository.User {
	t.Helper()

	hashed, err := bcrypt.GenerateFromPassword([]byte("hunter22"), bcrypt.DefaultCost)
	require.NoError(t, err)

	user := &repository.User{Email: email, Password: string(hashed)}
	require.NoError(t, userRepo.Create(context.Background(), user))
	require.NoError(t, roleRepo.Grant(context.Background(), user.ID, types.RoleAdmin))
	return user
}

func TestChangePasswordTooShort(t *testing.T) {
	userRepo := newFakeUserRepo()
	roleRepo := newFakeRoleRepo()
	svc := newTestAdminService(userRepo, roleRepo)
	admin := seedAdmin(t, userRepo, roleRepo, "admin@example.com")

	err := svc.ChangePassword(context.Background(), admin.ID, "", "12345")
	assert.ErrorIs(t, err, ErrPasswordTooShort)
	assert.Equal(t, 0, userRepo.updatePasswordCalls, "short password must not reach the repository")
}

func TestChangePasswordDefaultsToCaller(t *testing.T) {
	userRepo := newFakeUserRepo()
	roleRepo := newFakeRoleRepo()
	svc := newTestAdminService(userRepo, roleRepo)
	admin := seedAdmin(t, userRepo, roleRepo, "admin@example.com")
	oldHash := admin.Password

	err := svc.ChangePassword(context.Background(), admin.ID, "", "newpassword")
	require.NoError(t, err)

	updated, _ := userRepo.FindByID(context.Background(), admin.ID)
	assert.NotEqual(t, oldHash, updated.Password)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(updated.Password), []byte("newpassword")))
}

func TestChangePasswordRevokesSessions(t *testing.T) {
	userRepo := newFakeUserRepo()
	roleRepo := newFakeRoleRepo()
	svc := newTestAdminService(userRepo, roleRepo)
	admin := seedAdmin(t, userRepo, roleRepo, "admin@example.com")

	authSvc := NewAuthService(&config.Config{JWTSecret: "test-secret", JWTExpiry: 1, RefreshExpiry: 1}, userRepo, roleRepo)
	_, _, _, refreshToken, err := authSvc.Login(context.Background(), "admin@example.com", "hunter22")
	require.NoError(t, err)
	require.NotEmpty(t, refreshToken)

	require.NoError(t, svc.ChangePassword(context.Background(), admin.ID, "", "newpassword"))

	rt, _ := userRepo.FindRefreshToken(context.Background(), refreshToken)
	assert.Nil(t, rt, "password change must revoke existing sessions")
}

func TestCreateAdminMissingCredentials(t *testing.T) {
	userRepo := newFakeUserRepo()
	roleRepo := newFakeRoleRepo()
	svc := newTestAdminService(userRepo, roleRepo)
	admin := seedAdmin(t, userRepo, roleRepo, "admin@example.com")

	for _, tc := range []struct{ email, password string }{
		{"", "validpass"},
		{"new@example.com", ""},
		{"", ""},
	} {
		_, err := svc.CreateAdmin(context.Background(), admin.ID, tc.email, tc.password)
		assert.ErrorIs(t, err, ErrMissingCredentials)
	}

	assert.Len(t, userRepo.users, 1, "no account must be created on validation failure")
}

func TestCreateAdminGrantsRole(t *testing.T) {
	userRepo := newFakeUserRepo()
	roleRepo := newFakeRoleRepo()
	svc := newTestAdminService(userRepo, roleRepo)
	admin := seedAdmin(t, userRepo, roleRepo, "admin@example.com")

	created, err := svc.CreateAdmin(context.Background(), admin.ID, "new@example.com", "secret123")
	require.NoError(t, err)
	require.NotEmpty(t, created.ID)

	isAdmin, err := roleRepo.HasRole(context.Background(), created.ID, types.RoleAdmin)
	require.NoError(t, err)
	assert.True(t, isAdmin)

	// Password is stored hashed, never verbatim
	assert.NotEqual(t, "secret123", created.Password)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(created.Password), []byte("secret123")))
}

func TestCreateAdminDuplicateEmail(t *testing.T) {
	userRepo := newFakeUserRepo()
	roleRepo := newFakeRoleRepo()
	svc := newTestAdminService(userRepo, roleRepo)
	admin := seedAdmin(t, userRepo, roleRepo, "admin@example.com")

	_, err := svc.CreateAdmin(context.Background(), admin.ID, "admin@example.com", "secret123")
	assert.ErrorIs(t, err, ErrUserExists)
}

func TestListAdminsReflectsCreation(t *testing.T) {
	userRepo := newFakeUserRepo()
	roleRepo := newFakeRoleRepo()
	svc := newTestAdminService(userRepo, roleRepo)
	admin := seedAdmin(t, userRepo, roleRepo, "admin@example.com")

	before, err := svc.ListAdmins(context.Background())
	require.NoError(t, err)
	require.Len(t, before, 1)

	created, err := svc.CreateAdmin(context.Background(), admin.ID, "second@example.com", "secret123")
	require.NoError(t, err)

	after, err := svc.ListAdmins(context.Background())
	require.NoError(t, err)
	require.Len(t, after, 2)

	emails := []string{after[0].Email, after[1].Email}
	assert.Contains(t, emails, "second@example.com")
	assert.Equal(t, created.ID, after[1].ID)
}

func TestDeleteAdminSelf(t *testing.T) {
	userRepo := newFakeUserRepo()
	roleRepo := newFakeRoleRepo()
	svc := newTestAdminService(userRepo, roleRepo)
	admin := seedAdmin(t, userRepo, roleRepo, "admin@example.com")

	err := svc.DeleteAdmin(context.Background(), admin.ID, admin.ID)
	assert.ErrorIs(t, err, ErrSelfDelete)

	// Account must be untouched
	still, _ := userRepo.FindByID(context.Background(), admin.ID)
	assert.NotNil(t, still)
	isAdmin, _ := roleRepo.HasRole(context.Background(), admin.ID, types.RoleAdmin)
	assert.True(t, isAdmin)
}

func TestDeleteAdminMissingUserID(t *testing.T) {
	userRepo := newFakeUserRepo()
	roleRepo := newFakeRoleRepo()
	svc := newTestAdminService(userRepo, roleRepo)
	admin := seedAdmin(t, userRepo, roleRepo, "admin@example.com")

	err := svc.DeleteAdmin(context.Background(), admin.ID, "")
	assert.ErrorIs(t, err, ErrMissingUserID)

	isAdmin, _ := roleRepo.HasRole(context.Background(), admin.ID, types.RoleAdmin)
	assert.True(t, isAdmin)
}

func TestDeleteAdminOther(t *testing.T) {
	userRepo := newFakeUserRepo()
	roleRepo := newFakeRoleRepo()
	svc := newTestAdminService(userRepo, roleRepo)
	admin := seedAdmin(t, userRepo, roleRepo, "admin@example.com")
	other := seedAdmin(t, userRepo, roleRepo, "other@example.com")

	require.NoError(t, svc.DeleteAdmin(context.Background(), admin.ID, other.ID))

	gone, _ := userRepo.FindByID(context.Background(), other.ID)
	assert.Nil(t, gone)
	isAdmin, _ := roleRepo.HasRole(context.Background(), other.ID, types.RoleAdmin)
	assert.False(t, isAdmin)
}

func TestIsAdminIsLive(t *testing.T) {
	userRepo := newFakeUserRepo()
	roleRepo := newFakeRoleRepo()
	svc := newTestAdminService(userRepo, roleRepo)
	admin := seedAdmin(t, userRepo, roleRepo, "admin@example.com")

	isAdmin, err := svc.IsAdmin(context.Background(), admin.ID)
	require.NoError(t, err)
	assert.True(t, isAdmin)

	// Revoking the role takes effect on the very next check
	require.NoError(t, roleRepo.Revoke(context.Background(), admin.ID, types.RoleAdmin))
	isAdmin, err = svc.IsAdmin(context.Background(), admin.ID)
	require.NoError(t, err)
	assert.False(t, isAdmin)
}
