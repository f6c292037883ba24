package notify

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"citysafe/internal/models"
	"citysafe/pkg/kvstore"
	"citysafe/pkg/logger"
)

// Device store keys.
const (
	notificationsKey = "citysafe_notifications"
	settingsKey      = "citysafe_notification_settings"
)

// Store keeps the notification list and settings in the on-device store,
// most recent first. Every read-modify-persist cycle runs under one mutex so
// near-simultaneous mutations cannot lose each other's updates. Storage
// failures are logged and the store behaves as if it were empty.
type Store struct {
	mu sync.Mutex
	kv *kvstore.Store

	now   func() time.Time
	newID func() string
}

func NewStore(kv *kvstore.Store) *Store {
	return &Store{
		kv:    kv,
		now:   time.Now,
		newID: uuid.NewString,
	}
}

// Draft is the caller-supplied part of a notification; the store assigns
// identity, timestamp and the unread flag.
type Draft struct {
	Title    string
	Message  string
	Type     models.NotificationType
	Location string
	Priority models.NotificationPriority
}

// CreateNotification stores a new notification at the head of the list and
// returns it.
func (s *Store) CreateNotification(d Draft) models.Notification {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.createLocked(d)
}

func (s *Store) createLocked(d Draft) models.Notification {
	n := models.Notification{
		ID:        s.newID(),
		Title:     d.Title,
		Message:   d.Message,
		Type:      d.Type,
		Timestamp: s.now(),
		Read:      false,
		Location:  d.Location,
		Priority:  d.Priority,
	}
	list := s.readLocked()
	list = append([]models.Notification{n}, list...)
	s.writeLocked(list)
	return n
}

// Notifications returns the persisted list, most recent first. Read failures
// yield an empty list.
func (s *Store) Notifications() []models.Notification {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.readLocked()
}

// UnreadCount is always recomputed from the stored list, never tracked
// separately.
func (s *Store) UnreadCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	count := 0
	for _, n := range s.readLocked() {
		if !n.Read {
			count++
		}
	}
	return count
}

// MarkAsRead flips the read flag on one notification.
func (s *Store) MarkAsRead(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	list := s.readLocked()
	for i := range list {
		if list[i].ID == id {
			list[i].Read = true
		}
	}
	s.writeLocked(list)
}

// MarkAllAsRead flips the read flag on every notification.
func (s *Store) MarkAllAsRead() {
	s.mu.Lock()
	defer s.mu.Unlock()
	list := s.readLocked()
	for i := range list {
		list[i].Read = true
	}
	s.writeLocked(list)
}

// DeleteNotification removes one entry.
func (s *Store) DeleteNotification(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	list := s.readLocked()
	kept := list[:0]
	for _, n := range list {
		if n.ID != id {
			kept = append(kept, n)
		}
	}
	s.writeLocked(kept)
}

// ClearAllNotifications empties the list.
func (s *Store) ClearAllNotifications() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.writeLocked([]models.Notification{})
}

// Settings returns the persisted settings, or defaults when nothing was
// saved yet or the read fails.
func (s *Store) Settings() models.NotificationSettings {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.settingsLocked()
}

func (s *Store) settingsLocked() models.NotificationSettings {
	var cfg models.NotificationSettings
	ok, err := s.kv.Get(settingsKey, &cfg)
	if err != nil {
		logger.Warn("read notification settings failed", zap.Error(err))
		return models.DefaultNotificationSettings()
	}
	if !ok {
		return models.DefaultNotificationSettings()
	}
	return cfg
}

// SettingsPatch updates only the fields that are set.
type SettingsPatch struct {
	EnableSafetyAlerts    *bool
	EnableIncidentReports *bool
	EnableLocationBased   *bool
	NotificationSound     *bool
	Vibration             *bool
}

// UpdateSettings merges the patch into the current settings and persists the
// result.
func (s *Store) UpdateSettings(p SettingsPatch) models.NotificationSettings {
	s.mu.Lock()
	defer s.mu.Unlock()
	cfg := s.settingsLocked()
	if p.EnableSafetyAlerts != nil {
		cfg.EnableSafetyAlerts = *p.EnableSafetyAlerts
	}
	if p.EnableIncidentReports != nil {
		cfg.EnableIncidentReports = *p.EnableIncidentReports
	}
	if p.EnableLocationBased != nil {
		cfg.EnableLocationBased = *p.EnableLocationBased
	}
	if p.NotificationSound != nil {
		cfg.NotificationSound = *p.NotificationSound
	}
	if p.Vibration != nil {
		cfg.Vibration = *p.Vibration
	}
	if err := s.kv.Put(settingsKey, cfg); err != nil {
		logger.Warn("persist notification settings failed", zap.Error(err))
	}
	return cfg
}

// CleanupOldNotifications drops entries older than 30 days. Nothing calls
// this implicitly; the CLI schedules it.
func (s *Store) CleanupOldNotifications() {
	cutoff := s.now().AddDate(0, 0, -30)
	s.mu.Lock()
	defer s.mu.Unlock()
	list := s.readLocked()
	kept := list[:0]
	for _, n := range list {
		if n.Timestamp.After(cutoff) {
			kept = append(kept, n)
		}
	}
	s.writeLocked(kept)
}

func (s *Store) readLocked() []models.Notification {
	var list []models.Notification
	ok, err := s.kv.Get(notificationsKey, &list)
	if err != nil {
		logger.Warn("read notifications failed", zap.Error(err))
		return nil
	}
	if !ok {
		return nil
	}
	return list
}

func (s *Store) writeLocked(list []models.Notification) {
	if err := s.kv.Put(notificationsKey, list); err != nil {
		logger.Warn("persist notifications failed", zap.Error(err))
	}
}
