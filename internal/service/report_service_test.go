package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/laporkendala/lapor-backend/internal/config"
	"github.com/laporkendala/lapor-backend/internal/repository"
)

func newTestReportService(t *testing.T) (ReportService, *fakeReportRepo, *fakeWebsiteRepo, *fakeStatusRepo) {
	t.Helper()

	reportRepo := &fakeReportRepo{}
	websiteRepo := newFakeWebsiteRepo()
	statusRepo := &fakeStatusRepo{}

	svc := NewReportService(
		reportRepo, websiteRepo, statusRepo,
		newFakeRoleRepo(), newFakeUserRepo(),
		nil, nil, nil, nil,
		&config.Config{}, nil,
	)
	return svc, reportRepo, websiteRepo, statusRepo
}

func validInput(websiteID string) *CreateReportInput {
	return &CreateReportInput{
		Username:         "budi123",
		Whatsapp:         "081234567890",
		IssueDate:        "2026-08-30",
		IssueTitle:       "Tidak bisa login",
		IssueDescription: "Halaman login menampilkan error 500",
		WebsiteID:        websiteID,
	}
}

func TestCreateReportValidation(t *testing.T) {
	svc, reportRepo, websiteRepo, statusRepo := newTestReportService(t)
	ctx := context.Background()

	website := &repository.Website{Name: "Portal Utama"}
	require.NoError(t, websiteRepo.Create(ctx, website))
	require.NoError(t, statusRepo.Create(ctx, &repository.Status{Name: "Pending"}))

	tests := []struct {
		name   string
		mutate func(*CreateReportInput)
	}{
		{"empty username", func(in *CreateReportInput) { in.Username = "" }},
		{"empty whatsapp", func(in *CreateReportInput) { in.Whatsapp = "  " }},
		{"empty title", func(in *CreateReportInput) { in.IssueTitle = "" }},
		{"empty description", func(in *CreateReportInput) { in.IssueDescription = "" }},
		{"empty date", func(in *CreateReportInput) { in.IssueDate = "" }},
		{"username too long", func(in *CreateReportInput) { in.Username = strings.Repeat("a", 101) }},
		{"whatsapp too long", func(in *CreateReportInput) { in.Whatsapp = strings.Repeat("1", 21) }},
		{"title too long", func(in *CreateReportInput) { in.IssueTitle = strings.Repeat("a", 201) }},
		{"description too long", func(in *CreateReportInput) { in.IssueDescription = strings.Repeat("a", 2001) }},
		{"bad date", func(in *CreateReportInput) { in.IssueDate = "30-08-2026" }},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			input := validInput(website.ID)
			tc.mutate(input)

			_, err := svc.Create(ctx, input, "10.0.0.1")
			assert.ErrorIs(t, err, ErrInvalidInput)
		})
	}

	assert.Empty(t, reportRepo.reports, "invalid input must never be persisted")
}

func TestCreateReportDefaultsToFirstStatus(t *testing.T) {
	svc, _, websiteRepo, statusRepo := newTestReportService(t)
	ctx := context.Background()

	website := &repository.Website{Name: "Portal Utama"}
	require.NoError(t, websiteRepo.Create(ctx, website))
	require.NoError(t, statusRepo.Create(ctx, &repository.Status{Name: "Pending"}))
	require.NoError(t, statusRepo.Create(ctx, &repository.Status{Name: "Selesai"}))

	report, err := svc.Create(ctx, validInput(website.ID), "10.0.0.1")
	require.NoError(t, err)

	require.NotNil(t, report.StatusID)
	assert.Equal(t, statusRepo.statuses[0].ID, *report.StatusID)
	require.NotNil(t, report.WebsiteID)
	assert.Equal(t, website.ID, *report.WebsiteID)
}

func TestCreateReportUnknownWebsite(t *testing.T) {
	svc, reportRepo, _, statusRepo := newTestReportService(t)
	ctx := context.Background()

	require.NoError(t, statusRepo.Create(ctx, &repository.Status{Name: "Pending"}))

	_, err := svc.Create(ctx, validInput("no-such-website"), "10.0.0.1")
	assert.ErrorIs(t, err, ErrInvalidInput)
	assert.Empty(t, reportRepo.reports)
}

func TestUpdateStatusUnknownStatus(t *testing.T) {
	svc, reportRepo, websiteRepo, statusRepo := newTestReportService(t)
	ctx := context.Background()

	website := &repository.Website{Name: "Portal Utama"}
	require.NoError(t, websiteRepo.Create(ctx, website))
	require.NoError(t, statusRepo.Create(ctx, &repository.Status{Name: "Pending"}))

	report, err := svc.Create(ctx, validInput(website.ID), "10.0.0.1")
	require.NoError(t, err)

	_, err = svc.UpdateStatus(ctx, "caller", report.ID, "missing-status")
	assert.ErrorIs(t, err, ErrInvalidInput)

	stored, _ := reportRepo.FindByID(ctx, report.ID)
	assert.Equal(t, *report.StatusID, *stored.StatusID)
}

func TestBulkDeleteEmpty(t *testing.T) {
	svc, _, _, _ := newTestReportService(t)

	_, err := svc.BulkDelete(context.Background(), nil)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestExportCSV(t *testing.T) {
	svc, _, websiteRepo, statusRepo := newTestReportService(t)
	ctx := context.Background()

	website := &repository.Website{Name: "Portal Utama"}
	require.NoError(t, websiteRepo.Create(ctx, website))
	require.NoError(t, statusRepo.Create(ctx, &repository.Status{Name: "Pending"}))

	input := validInput(website.ID)
	input.IssueDescription = `Deskripsi dengan koma, dan "kutipan"`
	_, err := svc.Create(ctx, input, "10.0.0.1")
	require.NoError(t, err)

	filename, data, err := svc.ExportCSV(ctx, &repository.ReportFilters{})
	require.NoError(t, err)

	assert.Equal(t, "laporan-"+time.Now().Format("2006-01-02")+".csv", filename)

	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 2, "header plus one record")
	assert.Equal(t, "Username,WhatsApp,Tanggal Kendala,Judul,Deskripsi,Website,Status,Dibuat", lines[0])
	assert.Contains(t, lines[1], "budi123")
	assert.Contains(t, lines[1], `"Deskripsi dengan koma, dan ""kutipan"""`)
}

func TestBulkDeleteRemovesImages(t *testing.T) {
	reportRepo := &fakeReportRepo{}
	websiteRepo := newFakeWebsiteRepo()
	statusRepo := &fakeStatusRepo{}
	store := &fakeObjectStore{}

	svc := NewReportService(
		reportRepo, websiteRepo, statusRepo,
		newFakeRoleRepo(), newFakeUserRepo(),
		nil, store, nil, nil,
		&config.Config{S3ReportsBucket: "reports"}, nil,
	)
	ctx := context.Background()

	website := &repository.Website{Name: "Portal Utama"}
	require.NoError(t, websiteRepo.Create(ctx, website))
	require.NoError(t, statusRepo.Create(ctx, &repository.Status{Name: "Pending"}))

	withImage := validInput(website.ID)
	withImage.ImageURL = "https://cdn.test/reports/report-abc.png"
	first, err := svc.Create(ctx, withImage, "10.0.0.1")
	require.NoError(t, err)
	second, err := svc.Create(ctx, validInput(website.ID), "10.0.0.2")
	require.NoError(t, err)

	deleted, err := svc.BulkDelete(ctx, []string{first.ID, second.ID})
	require.NoError(t, err)
	assert.Equal(t, 2, deleted)

	// Stored screenshot is cleaned up alongside its report
	assert.Equal(t, []string{"reports/report-abc.png"}, store.deleted)
}

func TestExportCSVRespectsFilters(t *testing.T) {
	svc, _, websiteRepo, statusRepo := newTestReportService(t)
	ctx := context.Background()

	siteA := &repository.Website{Name: "Portal A"}
	siteB := &repository.Website{Name: "Portal B"}
	require.NoError(t, websiteRepo.Create(ctx, siteA))
	require.NoError(t, websiteRepo.Create(ctx, siteB))
	require.NoError(t, statusRepo.Create(ctx, &repository.Status{Name: "Pending"}))

	_, err := svc.Create(ctx, validInput(siteA.ID), "10.0.0.1")
	require.NoError(t, err)
	_, err = svc.Create(ctx, validInput(siteB.ID), "10.0.0.2")
	require.NoError(t, err)

	_, data, err := svc.ExportCSV(ctx, &repository.ReportFilters{WebsiteID: &siteA.ID})
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	assert.Len(t, lines, 2, "only the filtered website's reports")
	assert.Contains(t, lines[1], "Portal A")
}
