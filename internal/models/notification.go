package models

import "time"

type NotificationType string

const (
	NotifInfo           NotificationType = "info"
	NotifWarning        NotificationType = "warning"
	NotifAlert          NotificationType = "alert"
	NotifIncidentReport NotificationType = "incident_report"
	NotifSafetyUpdate   NotificationType = "safety_update"
)

type NotificationPriority string

const (
	PriorityLow    NotificationPriority = "low"
	PriorityMedium NotificationPriority = "medium"
	PriorityHigh   NotificationPriority = "high"
)

// Notification is one user-facing alert held in the device store.
type Notification struct {
	ID        string               `json:"id"`
	Title     string               `json:"title"`
	Message   string               `json:"message"`
	Type      NotificationType     `json:"type"`
	Timestamp time.Time            `json:"timestamp"`
	Read      bool                 `json:"read"`
	Location  string               `json:"location,omitempty"`
	Priority  NotificationPriority `json:"priority"`
}

// NotificationSettings gates which notification categories get created and
// persisted. First run uses DefaultNotificationSettings.
type NotificationSettings struct {
	EnableSafetyAlerts    bool `json:"enableSafetyAlerts"`
	EnableIncidentReports bool `json:"enableIncidentReports"`
	EnableLocationBased   bool `json:"enableLocationBased"`
	NotificationSound     bool `json:"notificationSound"`
	Vibration             bool `json:"vibration"`
}

func DefaultNotificationSettings() NotificationSettings {
	return NotificationSettings{
		EnableSafetyAlerts:    true,
		EnableIncidentReports: true,
		EnableLocationBased:   true,
		NotificationSound:     true,
		Vibration:             true,
	}
}
