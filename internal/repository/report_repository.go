package repository

import (
	"context"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Report struct {
	ID               string
	Username         string
	Whatsapp         string
	IssueDate        time.Time
	IssueTitle       string
	IssueDescription string
	ImageURL         *string
	WebsiteID        *string
	StatusID         *string
	CreatedAt        time.Time
	UpdatedAt        time.Time

	// Joined columns, populated on list/detail queries
	WebsiteName *string
	StatusName  *string
	StatusColor *string
}

// ReportFilters narrows the dashboard listing
type ReportFilters struct {
	DateFrom  *time.Time
	DateTo    *time.Time
	WebsiteID *string
	StatusID  *string
	Search    *string
	Limit     int
	Offset    int
}

type ReportRepository interface {
	Create(ctx context.Context, report *Report) error
	FindByID(ctx context.Context, id string) (*Report, error)
	FindWithFilters(ctx context.Context, filters *ReportFilters) ([]*Report, int, error)
	UpdateStatus(ctx context.Context, reportID, statusID string) error
	Delete(ctx context.Context, id string) error
	BulkDelete(ctx context.Context, ids []string) (int, error)
	DeleteOlderThan(ctx context.Context, olderThan time.Time) (int, error)
}

type pgReportRepository struct {
	pool *pgxpool.Pool
}

func NewReportRepository(pool *pgxpool.Pool) ReportRepository {
	return &pgReportRepository{pool: pool}
}

const reportSelect = `
	SELECT r.id, r.username, r.whatsapp, r.issue_date, r.issue_title, r.issue_description,
	       r.image_url, r.website_id, r.status_id, r.created_at, r.updated_at,
	       w.name, s.name, s.color
	FROM reports r
	LEFT JOIN websites w ON r.website_id = w.id
	LEFT JOIN statuses s ON r.status_id = s.id
`

func (r *pgReportRepository) Create(ctx context.Context, report *Report) error {
	query := `
		INSERT INTO reports (username, whatsapp, issue_date, issue_title, issue_description, image_url, website_id, status_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at, updated_at
	`
	return r.pool.QueryRow(ctx, query,
		report.Username, report.Whatsapp, report.IssueDate, report.IssueTitle,
		report.IssueDescription, report.ImageURL, report.WebsiteID, report.StatusID,
	).Scan(&report.ID, &report.CreatedAt, &report.UpdatedAt)
}

func (r *pgReportRepository) FindByID(ctx context.Context, id string) (*Report, error) {
	query := reportSelect + ` WHERE r.id = $1`
	report := &Report{}
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&report.ID, &report.Username, &report.Whatsapp, &report.IssueDate,
		&report.IssueTitle, &report.IssueDescription, &report.ImageURL,
		&report.WebsiteID, &report.StatusID, &report.CreatedAt, &report.UpdatedAt,
		&report.WebsiteName, &report.StatusName, &report.StatusColor,
	)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return report, nil
}

// FindWithFilters lists reports for the dashboard, newest first
func (r *pgReportRepository) FindWithFilters(ctx context.Context, filters *ReportFilters) ([]*Report, int, error) {
	baseQuery := reportSelect + ` WHERE 1=1`
	countQuery := `
		SELECT COUNT(*)
		FROM reports r
		LEFT JOIN websites w ON r.website_id = w.id
		LEFT JOIN statuses s ON r.status_id = s.id
		WHERE 1=1`
	args := []interface{}{}
	argIndex := 1

	if filters.DateFrom != nil {
		clause := ` AND r.issue_date >= $` + strconv.Itoa(argIndex)
		baseQuery += clause
		countQuery += clause
		args = append(args, *filters.DateFrom)
		argIndex++
	}

	if filters.DateTo != nil {
		clause := ` AND r.issue_date <= $` + strconv.Itoa(argIndex)
		baseQuery += clause
		countQuery += clause
		args = append(args, *filters.DateTo)
		argIndex++
	}

	if filters.WebsiteID != nil {
		clause := ` AND r.website_id = $` + strconv.Itoa(argIndex)
		baseQuery += clause
		countQuery += clause
		args = append(args, *filters.WebsiteID)
		argIndex++
	}

	if filters.StatusID != nil {
		clause := ` AND r.status_id = $` + strconv.Itoa(argIndex)
		baseQuery += clause
		countQuery += clause
		args = append(args, *filters.StatusID)
		argIndex++
	}

	if filters.Search != nil && *filters.Search != "" {
		idx := strconv.Itoa(argIndex)
		clause := ` AND (r.username ILIKE $` + idx +
			` OR r.issue_title ILIKE $` + idx +
			` OR r.issue_description ILIKE $` + idx +
			` OR r.whatsapp ILIKE $` + idx + `)`
		baseQuery += clause
		countQuery += clause
		args = append(args, "%"+*filters.Search+"%")
		argIndex++
	}

	var total int
	if err := r.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	baseQuery += ` ORDER BY r.created_at DESC`
	if filters.Limit > 0 {
		baseQuery += ` LIMIT $` + strconv.Itoa(argIndex) + ` OFFSET $` + strconv.Itoa(argIndex+1)
		args = append(args, filters.Limit, filters.Offset)
	}

	rows, err := r.pool.Query(ctx, baseQuery, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var reports []*Report
	for rows.Next() {
		report := &Report{}
		if err := rows.Scan(
			&report.ID, &report.Username, &report.Whatsapp, &report.IssueDate,
			&report.IssueTitle, &report.IssueDescription, &report.ImageURL,
			&report.WebsiteID, &report.StatusID, &report.CreatedAt, &report.UpdatedAt,
			&report.WebsiteName, &report.StatusName, &report.StatusColor,
		); err != nil {
			return nil, 0, err
		}
		reports = append(reports, report)
	}
	return reports, total, nil
}

func (r *pgReportRepository) UpdateStatus(ctx context.Context, reportID, statusID string) error {
	query := `UPDATE reports SET status_id = $2, updated_at = NOW() WHERE id = $1`
	tag, err := r.pool.Exec(ctx, query, reportID, statusID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *pgReportRepository) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM reports WHERE id = $1`
	tag, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *pgReportRepository) BulkDelete(ctx context.Context, ids []string) (int, error) {
	query := `DELETE FROM reports WHERE id = ANY($1)`
	tag, err := r.pool.Exec(ctx, query, ids)
	if err != nil {
		return 0, err
	}
	return int(tag.RowsAffected()), nil
}

func (r *pgReportRepository) DeleteOlderThan(ctx context.Context, olderThan time.Time) (int, error) {
	query := `DELETE FROM reports WHERE created_at < $1`
	tag, err := r.pool.Exec(ctx, query, olderThan)
	if err != nil {
		return 0, err
	}
	return int(tag.RowsAffected()), nil
}
