package models

import "time"

// ============================================
// Auth DTOs
// ============================================

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refreshToken" binding:"required"`
}

type AuthResponse struct {
	User         UserResponse `json:"user"`
	AccessToken  string       `json:"accessToken"`
	RefreshToken string       `json:"refreshToken"`
}

type UserResponse struct {
	ID           string     `json:"id"`
	Email        string     `json:"email"`
	IsAdmin      bool       `json:"is_admin"`
	LastSignInAt *time.Time `json:"last_sign_in_at,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
}

// ============================================
// Admin action DTOs (privileged dispatcher)
// ============================================

// AdminActionRequest is the flat wire format of the privileged endpoint:
// an action tag plus action-specific parameters.
type AdminActionRequest struct {
	Action      string `json:"action"`
	NewPassword string `json:"new_password,omitempty"`
	UserID      string `json:"user_id,omitempty"`
	Email       string `json:"email,omitempty"`
	Password    string `json:"password,omitempty"`
}

type AdminAccountResponse struct {
	ID           string     `json:"id"`
	Email        string     `json:"email"`
	CreatedAt    time.Time  `json:"created_at"`
	LastSignInAt *time.Time `json:"last_sign_in_at,omitempty"`
}

type CreateAdminRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// ============================================
// Report DTOs
// ============================================

type CreateReportRequest struct {
	Username         string `json:"username" binding:"required,max=100"`
	Whatsapp         string `json:"whatsapp" binding:"required,max=20"`
	IssueDate        string `json:"issue_date" binding:"required"`
	IssueTitle       string `json:"issue_title" binding:"required,max=200"`
	WebsiteID        string `json:"website_id" binding:"required"`
	IssueDescription string `json:"issue_description" binding:"required,max=2000"`
	ImageURL         string `json:"image_url,omitempty"`
}

type UpdateReportStatusRequest struct {
	StatusID string `json:"status_id" binding:"required"`
}

type BulkDeleteReportsRequest struct {
	IDs []string `json:"ids" binding:"required,min=1"`
}

type ReportResponse struct {
	ID               string    `json:"id"`
	Username         string    `json:"username"`
	Whatsapp         string    `json:"whatsapp"`
	IssueDate        string    `json:"issue_date"`
	IssueTitle       string    `json:"issue_title"`
	IssueDescription string    `json:"issue_description"`
	ImageURL         *string   `json:"image_url,omitempty"`
	WebsiteID        *string   `json:"website_id,omitempty"`
	StatusID         *string   `json:"status_id,omitempty"`
	WebsiteName      *string   `json:"website_name,omitempty"`
	StatusName       *string   `json:"status_name,omitempty"`
	StatusColor      *string   `json:"status_color,omitempty"`
	CreatedAt        time.Time `json:"created_at"`
}

type ReportListResponse struct {
	Reports []ReportResponse `json:"reports"`
	Total   int              `json:"total"`
}

// ============================================
// Website / Status DTOs
// ============================================

type CreateWebsiteRequest struct {
	Name string `json:"name" binding:"required,max=200"`
}

type UpdateWebsiteRequest struct {
	Name string `json:"name" binding:"required,max=200"`
}

type WebsiteResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

type CreateStatusRequest struct {
	Name  string `json:"name" binding:"required,max=100"`
	Color string `json:"color,omitempty"`
}

type UpdateStatusRequest struct {
	Name  string `json:"name" binding:"required,max=100"`
	Color string `json:"color,omitempty"`
}

type StatusResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Color     *string   `json:"color,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// ============================================
// Settings DTOs
// ============================================

type UpdateSettingsRequest struct {
	SiteTitle   *string `json:"site_title,omitempty"`
	ButtonColor *string `json:"button_color,omitempty"`
	BorderColor *string `json:"border_color,omitempty"`
}

type SettingsResponse struct {
	ID            string  `json:"id"`
	SiteTitle     *string `json:"site_title,omitempty"`
	FaviconURL    *string `json:"favicon_url,omitempty"`
	LogoURL       *string `json:"logo_url,omitempty"`
	BackgroundURL *string `json:"background_url,omitempty"`
	ButtonColor   *string `json:"button_color,omitempty"`
	BorderColor   *string `json:"border_color,omitempty"`
}

// ============================================
// Public form DTOs
// ============================================

type FormDataResponse struct {
	Websites []WebsiteResponse `json:"websites"`
	Statuses []StatusResponse  `json:"statuses"`
	Settings *SettingsResponse `json:"settings,omitempty"`
}

type UploadResponse struct {
	URL string `json:"url"`
}

// ============================================
// Notification DTOs
// ============================================

type NotificationCountResponse struct {
	Total  int `json:"total"`
	Unread int `json:"unread"`
}

type NotificationResponse struct {
	ID        string                  `json:"id"`
	UserID    string                  `json:"userId"`
	Type      string                  `json:"type"`
	Title     string                  `json:"title"`
	Message   string                  `json:"message"`
	Read      bool                    `json:"read"`
	Data      *map[string]interface{} `json:"data,omitempty"`
	CreatedAt time.Time               `json:"createdAt"`
}
