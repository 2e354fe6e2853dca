package service

import (
	"context"
	"io"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/laporkendala/lapor-backend/internal/repository"
)

// In-memory repository fakes used across the service tests.

type fakeUserRepo struct {
	users         map[string]*repository.User
	refreshTokens map[string]*repository.RefreshToken

	updatePasswordCalls int
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{
		users:         make(map[string]*repository.User),
		refreshTokens: make(map[string]*repository.RefreshToken),
	}
}

func (r *fakeUserRepo) Create(_ context.Context, user *repository.User) error {
	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt
	r.users[user.ID] = user
	return nil
}

func (r *fakeUserRepo) FindByID(_ context.Context, id string) (*repository.User, error) {
	return r.users[id], nil
}

func (r *fakeUserRepo) FindByEmail(_ context.Context, email string) (*repository.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, nil
}

func (r *fakeUserRepo) FindAll(_ context.Context) ([]*repository.User, error) {
	users := make([]*repository.User, 0, len(r.users))
	for _, u := range r.users {
		users = append(users, u)
	}
	sort.Slice(users, func(i, j int) bool { return users[i].CreatedAt.Before(users[j].CreatedAt) })
	return users, nil
}

func (r *fakeUserRepo) UpdatePassword(_ context.Context, id, hashedPassword string) error {
	r.updatePasswordCalls++
	user, ok := r.users[id]
	if !ok {
		return pgx.ErrNoRows
	}
	user.Password = hashedPassword
	return nil
}

func (r *fakeUserRepo) UpdateLastSignIn(_ context.Context, id string) error {
	if user, ok := r.users[id]; ok {
		now := time.Now()
		user.LastSignInAt = &now
	}
	return nil
}

func (r *fakeUserRepo) Delete(_ context.Context, id string) error {
	delete(r.users, id)
	return nil
}

func (r *fakeUserRepo) SaveRefreshToken(_ context.Context, token *repository.RefreshToken) error {
	r.refreshTokens[token.Token] = token
	return nil
}

func (r *fakeUserRepo) FindRefreshToken(_ context.Context, token string) (*repository.RefreshToken, error) {
	return r.refreshTokens[token], nil
}

func (r *fakeUserRepo) DeleteRefreshToken(_ context.Context, token string) error {
	delete(r.refreshTokens, token)
	return nil
}

func (r *fakeUserRepo) DeleteUserRefreshTokens(_ context.Context, userID string) error {
	for t, rt := range r.refreshTokens {
		if rt.UserID == userID {
			delete(r.refreshTokens, t)
		}
	}
	return nil
}

func (r *fakeUserRepo) DeleteExpiredRefreshTokens(_ context.Context) (int, error) {
	deleted := 0
	now := time.Now()
	for t, rt := range r.refreshTokens {
		if now.After(rt.ExpiresAt) {
			delete(r.refreshTokens, t)
			deleted++
		}
	}
	return deleted, nil
}

type fakeRoleRepo struct {
	assignments map[string][]string // userID -> roles
	grantOrder  []string            // userIDs in grant order
}

func newFakeRoleRepo() *fakeRoleRepo {
	return &fakeRoleRepo{assignments: make(map[string][]string)}
}

func (r *fakeRoleRepo) Grant(_ context.Context, userID, role string) error {
	r.assignments[userID] = append(r.assignments[userID], role)
	r.grantOrder = append(r.grantOrder, userID)
	return nil
}

func (r *fakeRoleRepo) Revoke(_ context.Context, userID, role string) error {
	roles := r.assignments[userID]
	for i, got := range roles {
		if got == role {
			r.assignments[userID] = append(roles[:i], roles[i+1:]...)
			return nil
		}
	}
	return pgx.ErrNoRows
}

func (r *fakeRoleRepo) HasRole(_ context.Context, userID, role string) (bool, error) {
	for _, got := range r.assignments[userID] {
		if got == role {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeRoleRepo) FindByRole(_ context.Context, role string) ([]*repository.RoleAssignment, error) {
	var out []*repository.RoleAssignment
	for _, userID := range r.grantOrder {
		for _, got := range r.assignments[userID] {
			if got == role {
				out = append(out, &repository.RoleAssignment{UserID: userID, Role: role})
				break
			}
		}
	}
	return out, nil
}

type fakeWebsiteRepo struct {
	websites map[string]*repository.Website
}

func newFakeWebsiteRepo() *fakeWebsiteRepo {
	return &fakeWebsiteRepo{websites: make(map[string]*repository.Website)}
}

func (r *fakeWebsiteRepo) Create(_ context.Context, website *repository.Website) error {
	if website.ID == "" {
		website.ID = uuid.New().String()
	}
	website.CreatedAt = time.Now()
	r.websites[website.ID] = website
	return nil
}

func (r *fakeWebsiteRepo) FindByID(_ context.Context, id string) (*repository.Website, error) {
	return r.websites[id], nil
}

func (r *fakeWebsiteRepo) FindAll(_ context.Context) ([]*repository.Website, error) {
	out := make([]*repository.Website, 0, len(r.websites))
	for _, w := range r.websites {
		out = append(out, w)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (r *fakeWebsiteRepo) Update(_ context.Context, website *repository.Website) error {
	r.websites[website.ID] = website
	return nil
}

func (r *fakeWebsiteRepo) Delete(_ context.Context, id string) error {
	delete(r.websites, id)
	return nil
}

type fakeStatusRepo struct {
	statuses []*repository.Status
}

func (r *fakeStatusRepo) Create(_ context.Context, status *repository.Status) error {
	if status.ID == "" {
		status.ID = uuid.New().String()
	}
	status.CreatedAt = time.Now()
	r.statuses = append(r.statuses, status)
	return nil
}

func (r *fakeStatusRepo) FindByID(_ context.Context, id string) (*repository.Status, error) {
	for _, s := range r.statuses {
		if s.ID == id {
			return s, nil
		}
	}
	return nil, nil
}

func (r *fakeStatusRepo) FindAll(_ context.Context) ([]*repository.Status, error) {
	return r.statuses, nil
}

func (r *fakeStatusRepo) Update(_ context.Context, status *repository.Status) error {
	for i, s := range r.statuses {
		if s.ID == status.ID {
			r.statuses[i] = status
			return nil
		}
	}
	return pgx.ErrNoRows
}

func (r *fakeStatusRepo) Delete(_ context.Context, id string) error {
	for i, s := range r.statuses {
		if s.ID == id {
			r.statuses = append(r.statuses[:i], r.statuses[i+1:]...)
			return nil
		}
	}
	return pgx.ErrNoRows
}

type fakeReportRepo struct {
	reports []*repository.Report
}

func (r *fakeReportRepo) Create(_ context.Context, report *repository.Report) error {
	if report.ID == "" {
		report.ID = uuid.New().String()
	}
	report.CreatedAt = time.Now()
	r.reports = append(r.reports, report)
	return nil
}

func (r *fakeReportRepo) FindByID(_ context.Context, id string) (*repository.Report, error) {
	for _, rep := range r.reports {
		if rep.ID == id {
			return rep, nil
		}
	}
	return nil, nil
}

func (r *fakeReportRepo) FindWithFilters(_ context.Context, filters *repository.ReportFilters) ([]*repository.Report, int, error) {
	var out []*repository.Report
	for _, rep := range r.reports {
		if filters.WebsiteID != nil && (rep.WebsiteID == nil || *rep.WebsiteID != *filters.WebsiteID) {
			continue
		}
		if filters.StatusID != nil && (rep.StatusID == nil || *rep.StatusID != *filters.StatusID) {
			continue
		}
		out = append(out, rep)
	}
	return out, len(out), nil
}

func (r *fakeReportRepo) UpdateStatus(_ context.Context, reportID, statusID string) error {
	for _, rep := range r.reports {
		if rep.ID == reportID {
			rep.StatusID = &statusID
			return nil
		}
	}
	return pgx.ErrNoRows
}

func (r *fakeReportRepo) Delete(_ context.Context, id string) error {
	for i, rep := range r.reports {
		if rep.ID == id {
			r.reports = append(r.reports[:i], r.reports[i+1:]...)
			return nil
		}
	}
	return pgx.ErrNoRows
}

func (r *fakeReportRepo) BulkDelete(_ context.Context, ids []string) (int, error) {
	deleted := 0
	for _, id := range ids {
		if err := r.Delete(context.Background(), id); err == nil {
			deleted++
		}
	}
	return deleted, nil
}

func (r *fakeReportRepo) DeleteOlderThan(_ context.Context, olderThan time.Time) (int, error) {
	deleted := 0
	var kept []*repository.Report
	for _, rep := range r.reports {
		if rep.CreatedAt.Before(olderThan) {
			deleted++
			continue
		}
		kept = append(kept, rep)
	}
	r.reports = kept
	return deleted, nil
}

type fakeObjectStore struct {
	uploads []string
	deleted []string
}

func (s *fakeObjectStore) Upload(_ context.Context, bucket, key string, _ io.Reader, _ string) (string, error) {
	s.uploads = append(s.uploads, bucket+"/"+key)
	return s.PublicURL(bucket, key), nil
}

func (s *fakeObjectStore) Delete(_ context.Context, bucket, key string) error {
	s.deleted = append(s.deleted, bucket+"/"+key)
	return nil
}

func (s *fakeObjectStore) PublicURL(bucket, key string) string {
	return "https://cdn.test/" + bucket + "/" + key
}
