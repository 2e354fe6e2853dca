package socket

import (
	"log"
)

// Broadcaster provides high-level methods for broadcasting dashboard events
type Broadcaster struct {
	hub *Hub
}

// NewBroadcaster creates a new Broadcaster
func NewBroadcaster(hub *Hub) *Broadcaster {
	return &Broadcaster{hub: hub}
}

// ============================================
// Notification Broadcasting
// ============================================

// SendNotification sends a notification to a specific user
func (b *Broadcaster) SendNotification(userID string, notification map[string]interface{}) {
	b.hub.SendToUser(userID, MessageNotification, notification)
}

// SendNotificationCount updates notification count for a user
func (b *Broadcaster) SendNotificationCount(userID string, total, unread int) {
	b.hub.SendToUser(userID, MessageNotificationCount, map[string]interface{}{
		"total":  total,
		"unread": unread,
	})
}

// ============================================
// Report Broadcasting
// ============================================

// BroadcastReportCreated pushes a new report to every connected dashboard
func (b *Broadcaster) BroadcastReportCreated(report map[string]interface{}) {
	log.Printf("📡 BroadcastReportCreated: reportId=%v", report["id"])
	b.hub.Broadcast(MessageReportCreated, report)
}

// BroadcastReportStatusChanged pushes a status change to every connected dashboard
func (b *Broadcaster) BroadcastReportStatusChanged(payload map[string]interface{}) {
	b.hub.Broadcast(MessageReportStatusChanged, payload)
}

// BroadcastReportDeleted pushes report removals to every connected dashboard
func (b *Broadcaster) BroadcastReportDeleted(payload map[string]interface{}) {
	b.hub.Broadcast(MessageReportDeleted, payload)
}

// ============================================
// Reference data / settings Broadcasting
// ============================================

// BroadcastWebsiteChanged signals a change to the website table
func (b *Broadcaster) BroadcastWebsiteChanged(payload map[string]interface{}) {
	b.hub.Broadcast(MessageWebsiteChanged, payload)
}

// BroadcastStatusChanged signals a change to the status table
func (b *Broadcaster) BroadcastStatusChanged(payload map[string]interface{}) {
	b.hub.Broadcast(MessageStatusChanged, payload)
}

// BroadcastSettingsUpdated pushes new branding to connected clients
func (b *Broadcaster) BroadcastSettingsUpdated(settings map[string]interface{}) {
	b.hub.Broadcast(MessageSettingsUpdated, settings)
}

// ============================================
// Admin account Broadcasting
// ============================================

// BroadcastAdminCreated signals a new admin account
func (b *Broadcaster) BroadcastAdminCreated(userID, email string) {
	b.hub.Broadcast(MessageAdminCreated, map[string]interface{}{
		"userId": userID,
		"email":  email,
	})
}

// BroadcastAdminDeleted signals an admin account removal
func (b *Broadcaster) BroadcastAdminDeleted(userID string) {
	b.hub.Broadcast(MessageAdminDeleted, map[string]interface{}{
		"userId": userID,
	})
}
