package domain

// NotificationKind classifies a transient message.
type NotificationKind string

const (
	NotifySuccess NotificationKind = "success"
	NotifyError   NotificationKind = "error"
	NotifyInfo    NotificationKind = "info"
)

// Notification is one visible entry in the notification list.
type Notification struct {
	ID   int              `json:"id"`
	Kind NotificationKind `json:"kind"`
	Text string           `json:"text"`
}

// Notifier receives success/error/info messages for display.
type Notifier interface {
	Show(kind NotificationKind, text string) int
}
