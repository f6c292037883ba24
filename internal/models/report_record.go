package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ReportRecord is the stub server's persisted report row.
type ReportRecord struct {
	ID           string `gorm:"primaryKey;size:36"`
	UserID       string `gorm:"index;size:36"`
	IncidentType string `gorm:"size:128"`
	Date         string `gorm:"size:32"`
	Time         string `gorm:"size:32"`
	LocationText string `gorm:"size:512"`
	Description  string
	Witnesses    string
	Anonymous    bool
	Name         string `gorm:"size:255"`
	Phone        string `gorm:"size:64"`
	Email        string `gorm:"size:255"`
	Lat          *float64
	Lng          *float64
	MediaKey     string `gorm:"size:255"`
	MediaType    string `gorm:"size:128"`
	Status       string `gorm:"size:32;default:pending"`
	CreatedAt    time.Time
}

// Doc mirrors the original backend's document shape, including the quirk
// that coordinates replace the location text with a GeoJSON point.
func (r *ReportRecord) Doc() map[string]interface{} {
	doc := map[string]interface{}{
		"_id":          r.ID,
		"incidentType": r.IncidentType,
		"date":         r.Date,
		"time":         r.Time,
		"description":  r.Description,
		"witnesses":    r.Witnesses,
		"anonymous":    r.Anonymous,
		"name":         r.Name,
		"phone":        r.Phone,
		"email":        r.Email,
		"status":       r.Status,
		"createdAt":    r.CreatedAt.UTC().Format(time.RFC3339),
	}
	if r.Lat != nil && r.Lng != nil {
		doc["location"] = map[string]interface{}{
			"type":        "Point",
			"coordinates": []float64{*r.Lng, *r.Lat},
		}
	} else {
		doc["location"] = r.LocationText
	}
	if r.MediaKey != "" {
		doc["media_url"] = "/media/" + r.MediaKey
	}
	if r.UserID != "" {
		doc["user_id"] = r.UserID
	}
	return doc
}

// InsertReportRecord assigns an id and stores the record.
func InsertReportRecord(db *gorm.DB, r *ReportRecord) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	if r.Status == "" {
		r.Status = string(StatusPending)
	}
	return db.Create(r).Error
}

// ListReportRecords pages most-recent-first, optionally filtered by user.
func ListReportRecords(db *gorm.DB, skip, limit int, userID string) ([]ReportRecord, error) {
	if limit <= 0 || limit > 100 {
		limit = 100
	}
	q := db.Order("created_at desc").Offset(skip).Limit(limit)
	if userID != "" {
		q = q.Where("user_id = ?", userID)
	}
	var out []ReportRecord
	if err := q.Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

// FindReportRecord returns nil without error when no report matches.
func FindReportRecord(db *gorm.DB, id string) (*ReportRecord, error) {
	var r ReportRecord
	err := db.First(&r, "id = ?", id).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &r, nil
}
