// internal/models/notification.go
package models

import "time"

// NotificationChannel is the delivery mechanism of a reminder.
type NotificationChannel string

const (
	ChannelEmail NotificationChannel = "email"
	ChannelSMS   NotificationChannel = "sms"
	ChannelToast NotificationChannel = "toast"
)

// Notification is a persistent in-app notification shown on the bell
// menu until read.
type Notification struct {
	ID        string    `json:"id" db:"id"`
	UserID    string    `json:"userId" db:"user_id"`
	Title     string    `json:"titulo" db:"titulo"`
	Message   string    `json:"mensagem" db:"mensagem"`
	Link      string    `json:"link,omitempty" db:"link"`
	Read      bool      `json:"lida" db:"lida"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}
