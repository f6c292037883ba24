package notify

import (
	"fmt"

	"citysafe/internal/models"
)

// The generators consult settings before creating anything. Every disabled
// category behaves the same way: nil return, nothing persisted. (An earlier
// revision handed back an unpersisted object for disabled safety alerts;
// that asymmetry was a bug and is gone.)

// GenerateLocationBasedNotification creates an area alert. With an incident
// type the wording is incident-specific, otherwise generic area safety.
func (s *Store) GenerateLocationBasedNotification(location, incidentType string) *models.Notification {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.settingsLocked().EnableLocationBased {
		return nil
	}

	d := Draft{Location: location, Priority: models.PriorityMedium}
	if incidentType != "" {
		d.Title = fmt.Sprintf("Incident Reported Near %s", location)
		d.Message = fmt.Sprintf("A %s incident was recently reported in your area. Please exercise caution.", incidentType)
		d.Type = models.NotifIncidentReport
	} else {
		d.Title = fmt.Sprintf("Safety Alert for %s", location)
		d.Message = fmt.Sprintf("Safety conditions in %s may require your attention. Please stay alert and follow safety guidelines.", location)
		d.Type = models.NotifWarning
	}
	n := s.createLocked(d)
	return &n
}

// GenerateSafetyAlert creates a general safety alert.
func (s *Store) GenerateSafetyAlert(message string, priority models.NotificationPriority) *models.Notification {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.settingsLocked().EnableSafetyAlerts {
		return nil
	}
	if priority == "" {
		priority = models.PriorityMedium
	}
	n := s.createLocked(Draft{
		Title:    "Safety Alert",
		Message:  message,
		Type:     models.NotifAlert,
		Priority: priority,
	})
	return &n
}

// GenerateIncidentReportNotification announces a freshly filed report.
func (s *Store) GenerateIncidentReportNotification(reportTitle, location string) *models.Notification {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.settingsLocked().EnableIncidentReports {
		return nil
	}
	n := s.createLocked(Draft{
		Title:    "New Incident Report",
		Message:  fmt.Sprintf("A new incident report titled %q has been filed for %s.", reportTitle, location),
		Type:     models.NotifIncidentReport,
		Location: location,
		Priority: models.PriorityMedium,
	})
	return &n
}
