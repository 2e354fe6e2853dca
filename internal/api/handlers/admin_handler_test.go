package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/laporkendala/lapor-backend/internal/config"
	"github.com/laporkendala/lapor-backend/internal/repository"
	"github.com/laporkendala/lapor-backend/internal/service"
	"github.com/laporkendala/lapor-backend/internal/types"
)

// Minimal in-memory repositories backing the dispatcher tests.

type memUserRepo struct {
	users         map[string]*repository.User
	refreshTokens map[string]*repository.RefreshToken

	passwordUpdates int
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{
		users:         make(map[string]*repository.User),
		refreshTokens: make(map[string]*repository.RefreshToken),
	}
}

func (r *memUserRepo) Create(_ context.Context, user *repository.User) error {
	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	user.CreatedAt = time.Now()
	r.users[user.ID] = user
	return nil
}

func (r *memUserRepo) FindByID(_ context.Context, id string) (*repository.User, error) {
	return r.users[id], nil
}

func (r *memUserRepo) FindByEmail(_ context.Context, email string) (*repository.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, nil
}

func (r *memUserRepo) FindAll(_ context.Context) ([]*repository.User, error) {
	out := make([]*repository.User, 0, len(r.users))
	for _, u := range r.users {
		out = append(out, u)
	}
	return out, nil
}

func (r *memUserRepo) UpdatePassword(_ context.Context, id, hashedPassword string) error {
	r.passwordUpdates++
	user, ok := r.users[id]
	if !ok {
		return pgx.ErrNoRows
	}
	user.Password = hashedPassword
	return nil
}

func (r *memUserRepo) UpdateLastSignIn(_ context.Context, id string) error { return nil }

func (r *memUserRepo) Delete(_ context.Context, id string) error {
	delete(r.users, id)
	return nil
}

func (r *memUserRepo) SaveRefreshToken(_ context.Context, token *repository.RefreshToken) error {
	r.refreshTokens[token.Token] = token
	return nil
}

func (r *memUserRepo) FindRefreshToken(_ context.Context, token string) (*repository.RefreshToken, error) {
	return r.refreshTokens[token], nil
}

func (r *memUserRepo) DeleteRefreshToken(_ context.Context, token string) error {
	delete(r.refreshTokens, token)
	return nil
}

func (r *memUserRepo) DeleteUserRefreshTokens(_ context.Context, userID string) error {
	for t, rt := range r.refreshTokens {
		if rt.UserID == userID {
			delete(r.refreshTokens, t)
		}
	}
	return nil
}

func (r *memUserRepo) DeleteExpiredRefreshTokens(_ context.Context) (int, error) { return 0, nil }

type memRoleRepo struct {
	roles map[string]map[string]bool
	order []string

	hasRoleErr error
}

func newMemRoleRepo() *memRoleRepo {
	return &memRoleRepo{roles: make(map[string]map[string]bool)}
}

func (r *memRoleRepo) Grant(_ context.Context, userID, role string) error {
	if r.roles[userID] == nil {
		r.roles[userID] = make(map[string]bool)
	}
	r.roles[userID][role] = true
	r.order = append(r.order, userID)
	return nil
}

func (r *memRoleRepo) Revoke(_ context.Context, userID, role string) error {
	if !r.roles[userID][role] {
		return pgx.ErrNoRows
	}
	delete(r.roles[userID], role)
	return nil
}

func (r *memRoleRepo) HasRole(_ context.Context, userID, role string) (bool, error) {
	if r.hasRoleErr != nil {
		return false, r.hasRoleErr
	}
	return r.roles[userID][role], nil
}

func (r *memRoleRepo) FindByRole(_ context.Context, role string) ([]*repository.RoleAssignment, error) {
	var out []*repository.RoleAssignment
	for _, userID := range r.order {
		if r.roles[userID][role] {
			out = append(out, &repository.RoleAssignment{UserID: userID, Role: role})
		}
	}
	return out, nil
}

// ============================================
// Test fixture
// ============================================

type dispatcherFixture struct {
	router   *gin.Engine
	userRepo *memUserRepo
	roleRepo *memRoleRepo
	authSvc  service.AuthService
}

func newDispatcherFixture(t *testing.T) *dispatcherFixture {
	t.Helper()
	gin.SetMode(gin.TestMode)

	userRepo := newMemUserRepo()
	roleRepo := newMemRoleRepo()
	cfg := &config.Config{JWTSecret: "dispatcher-test-secret", JWTExpiry: 1, RefreshExpiry: 1}

	authSvc := service.NewAuthService(cfg, userRepo, roleRepo)
	adminSvc := service.NewAdminService(userRepo, roleRepo, nil, nil, cfg, nil)

	h := &AdminHandler{authService: authSvc, adminService: adminSvc}

	router := gin.New()
	router.OPTIONS("/api/admin/actions", h.Preflight)
	router.POST("/api/admin/actions", h.Dispatch)

	return &dispatcherFixture{
		router:   router,
		userRepo: userRepo,
		roleRepo: roleRepo,
		authSvc:  authSvc,
	}
}

func (f *dispatcherFixture) createUser(t *testing.T, email string, admin bool) *repository.User {
	t.Helper()

	hashed, err := bcrypt.GenerateFromPassword([]byte("hunter22"), bcrypt.DefaultCost)
	require.NoError(t, err)

	user := &repository.User{Email: email, Password: string(hashed)}
	require.NoError(t, f.userRepo.Create(context.Background(), user))
	if admin {
		require.NoError(t, f.roleRepo.Grant(context.Background(), user.ID, types.RoleAdmin))
	}
	return user
}

func (f *dispatcherFixture) tokenFor(t *testing.T, email string) string {
	t.Helper()

	_, _, accessToken, _, err := f.authSvc.Login(context.Background(), email, "hunter22")
	require.NoError(t, err)
	return accessToken
}

func (f *dispatcherFixture) dispatch(t *testing.T, token string, body map[string]interface{}) *httptest.ResponseRecorder {
	t.Helper()

	payload, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/admin/actions", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	return w
}

func errorMessage(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()

	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	msg, _ := resp["error"].(string)
	return msg
}

// ============================================
// Tests
// ============================================

func TestDispatchPreflightSkipsAuth(t *testing.T) {
	f := newDispatcherFixture(t)

	req := httptest.NewRequest(http.MethodOptions, "/api/admin/actions", nil)
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "authorization, x-client-info, apikey, content-type", w.Header().Get("Access-Control-Allow-Headers"))
}

func TestDispatchRequiresBearerToken(t *testing.T) {
	f := newDispatcherFixture(t)

	// No Authorization header
	w := f.dispatch(t, "", map[string]interface{}{"action": types.ActionListAdmins})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "Unauthorized", errorMessage(t, w))

	// Garbage token
	w = f.dispatch(t, "not-a-jwt", map[string]interface{}{"action": types.ActionListAdmins})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestDispatchRejectsNonAdmin(t *testing.T) {
	f := newDispatcherFixture(t)
	f.createUser(t, "user@example.com", false)
	token := f.tokenFor(t, "user@example.com")

	w := f.dispatch(t, token, map[string]interface{}{
		"action":   types.ActionCreateAdmin,
		"email":    "sneaky@example.com",
		"password": "secret123",
	})

	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "Forbidden", errorMessage(t, w))

	// Nothing was created
	sneaky, _ := f.userRepo.FindByEmail(context.Background(), "sneaky@example.com")
	assert.Nil(t, sneaky)
}

func TestDispatchRoleCheckIsLive(t *testing.T) {
	f := newDispatcherFixture(t)
	admin := f.createUser(t, "admin@example.com", true)
	token := f.tokenFor(t, "admin@example.com")

	w := f.dispatch(t, token, map[string]interface{}{"action": types.ActionListAdmins})
	assert.Equal(t, http.StatusOK, w.Code)

	// Revoke the role; the same still-valid JWT must now be refused
	require.NoError(t, f.roleRepo.Revoke(context.Background(), admin.ID, types.RoleAdmin))

	w = f.dispatch(t, token, map[string]interface{}{"action": types.ActionListAdmins})
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestDispatchUnknownAction(t *testing.T) {
	f := newDispatcherFixture(t)
	f.createUser(t, "admin@example.com", true)
	token := f.tokenFor(t, "admin@example.com")

	w := f.dispatch(t, token, map[string]interface{}{"action": "drop_tables"})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Unknown action", errorMessage(t, w))
}

func TestDispatchChangePasswordTooShort(t *testing.T) {
	f := newDispatcherFixture(t)
	f.createUser(t, "admin@example.com", true)
	token := f.tokenFor(t, "admin@example.com")

	w := f.dispatch(t, token, map[string]interface{}{
		"action":       types.ActionChangePassword,
		"new_password": "12345",
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Password minimal 6 karakter", errorMessage(t, w))
	assert.Equal(t, 0, f.userRepo.passwordUpdates, "invalid password must never reach storage")
}

func TestDispatchChangePasswordSuccess(t *testing.T) {
	f := newDispatcherFixture(t)
	admin := f.createUser(t, "admin@example.com", true)
	token := f.tokenFor(t, "admin@example.com")

	w := f.dispatch(t, token, map[string]interface{}{
		"action":       types.ActionChangePassword,
		"new_password": "newpassword",
	})

	require.Equal(t, http.StatusOK, w.Code)

	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, true, resp["success"])

	updated, _ := f.userRepo.FindByID(context.Background(), admin.ID)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(updated.Password), []byte("newpassword")))
}

func TestDispatchCreateAdminMissingFields(t *testing.T) {
	f := newDispatcherFixture(t)
	f.createUser(t, "admin@example.com", true)
	token := f.tokenFor(t, "admin@example.com")

	w := f.dispatch(t, token, map[string]interface{}{
		"action": types.ActionCreateAdmin,
		"email":  "new@example.com",
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Email dan password wajib diisi", errorMessage(t, w))
}

func TestDispatchCreateThenListAdmins(t *testing.T) {
	f := newDispatcherFixture(t)
	f.createUser(t, "admin@example.com", true)
	token := f.tokenFor(t, "admin@example.com")

	w := f.dispatch(t, token, map[string]interface{}{
		"action":   types.ActionCreateAdmin,
		"email":    "second@example.com",
		"password": "secret123",
	})
	require.Equal(t, http.StatusOK, w.Code)

	var created struct {
		Success bool   `json:"success"`
		UserID  string `json:"user_id"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	assert.True(t, created.Success)
	assert.NotEmpty(t, created.UserID)

	w = f.dispatch(t, token, map[string]interface{}{"action": types.ActionListAdmins})
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Admins []struct {
			ID    string `json:"id"`
			Email string `json:"email"`
		} `json:"admins"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Admins, 2)

	emails := []string{resp.Admins[0].Email, resp.Admins[1].Email}
	assert.Contains(t, emails, "admin@example.com")
	assert.Contains(t, emails, "second@example.com")
}

func TestDispatchDeleteAdminSelf(t *testing.T) {
	f := newDispatcherFixture(t)
	admin := f.createUser(t, "admin@example.com", true)
	token := f.tokenFor(t, "admin@example.com")

	w := f.dispatch(t, token, map[string]interface{}{
		"action":  types.ActionDeleteAdmin,
		"user_id": admin.ID,
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Tidak bisa menghapus akun sendiri", errorMessage(t, w))

	// Account survives
	still, _ := f.userRepo.FindByID(context.Background(), admin.ID)
	assert.NotNil(t, still)
}

func TestDispatchDeleteOtherAdmin(t *testing.T) {
	f := newDispatcherFixture(t)
	f.createUser(t, "admin@example.com", true)
	other := f.createUser(t, "other@example.com", true)
	token := f.tokenFor(t, "admin@example.com")

	w := f.dispatch(t, token, map[string]interface{}{
		"action":  types.ActionDeleteAdmin,
		"user_id": other.ID,
	})

	require.Equal(t, http.StatusOK, w.Code)

	gone, _ := f.userRepo.FindByID(context.Background(), other.ID)
	assert.Nil(t, gone)
}

func TestDispatchUpstreamFailurePassesThrough(t *testing.T) {
	f := newDispatcherFixture(t)
	f.createUser(t, "admin@example.com", true)
	token := f.tokenFor(t, "admin@example.com")

	w := f.dispatch(t, token, map[string]interface{}{
		"action":       types.ActionChangePassword,
		"user_id":      "no-such-user",
		"new_password": "newpassword",
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, errorMessage(t, w), "failed to update password")
}

func TestDispatchRoleCheckFailurePassesThrough(t *testing.T) {
	f := newDispatcherFixture(t)
	f.createUser(t, "admin@example.com", true)
	token := f.tokenFor(t, "admin@example.com")

	f.roleRepo.hasRoleErr = errors.New("role table unavailable")

	w := f.dispatch(t, token, map[string]interface{}{"action": types.ActionListAdmins})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "role table unavailable", errorMessage(t, w))
}

func TestDispatchDeleteAdminMissingUserID(t *testing.T) {
	f := newDispatcherFixture(t)
	admin := f.createUser(t, "admin@example.com", true)
	token := f.tokenFor(t, "admin@example.com")

	w := f.dispatch(t, token, map[string]interface{}{"action": types.ActionDeleteAdmin})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "User ID wajib diisi", errorMessage(t, w))

	// The role table was never touched
	still, err := f.roleRepo.HasRole(context.Background(), admin.ID, types.RoleAdmin)
	require.NoError(t, err)
	assert.True(t, still)
}

func TestDispatchResponsesCarryCORSHeaders(t *testing.T) {
	f := newDispatcherFixture(t)

	w := f.dispatch(t, "", map[string]interface{}{"action": types.ActionListAdmins})

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}
