package assistant

import (
	"citysafe/internal/models"
	"citysafe/internal/notify"
	"citysafe/pkg/logger"
)

// SafetyNotifier bridges chat activity into the notification store. All of
// these are passive side effects: they log failures and never report them
// back to the conversation.
type SafetyNotifier struct {
	store *notify.Store
}

func NewSafetyNotifier(store *notify.Store) *SafetyNotifier {
	return &SafetyNotifier{store: store}
}

// LocationDiscussed creates an area alert when the chat touches a location.
func (n *SafetyNotifier) LocationDiscussed(location string) {
	if n.store == nil || location == "" {
		return
	}
	if created := n.store.GenerateLocationBasedNotification(location, ""); created == nil {
		logger.Debug("location notification suppressed or disabled")
	}
}

// IncidentNearby creates an incident-specific area alert.
func (n *SafetyNotifier) IncidentNearby(location, incidentType string) {
	if n.store == nil || location == "" {
		return
	}
	n.store.GenerateLocationBasedNotification(location, incidentType)
}

// GeneralAlert creates a plain safety alert.
func (n *SafetyNotifier) GeneralAlert(message string, priority models.NotificationPriority) {
	if n.store == nil || message == "" {
		return
	}
	n.store.GenerateSafetyAlert(message, priority)
}
