package models

// ReportStatus is backend-authoritative; the client only ever moves a report
// forward through pending → in-progress → resolved via full list refreshes.
type ReportStatus string

const (
	StatusPending    ReportStatus = "pending"
	StatusInProgress ReportStatus = "in-progress"
	StatusResolved   ReportStatus = "resolved"
)

// GeoPoint is a geocoded location.
type GeoPoint struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Report is one submitted incident as held by the client.
type Report struct {
	ID           string       `json:"id"`
	Title        string       `json:"title"`
	IncidentType string       `json:"incidentType"`
	Description  string       `json:"description"`
	Location     string       `json:"location"`
	Point        *GeoPoint    `json:"point,omitempty"`
	Date         string       `json:"date"`
	Time         string       `json:"time"`
	Witnesses    string       `json:"witnesses"`
	Anonymous    bool         `json:"anonymous"`
	Name         string       `json:"name,omitempty"`
	Phone        string       `json:"phone,omitempty"`
	Email        string       `json:"email,omitempty"`
	MediaURI     string       `json:"mediaUri,omitempty"` // local path before upload
	MediaURL     string       `json:"media_url,omitempty"`
	Status       ReportStatus `json:"status"`
}

// IncidentTypes is the catalog offered by the report form; "Other" unlocks a
// free-text type.
var IncidentTypes = []string{
	"Theft",
	"Robbery",
	"Assault",
	"Vandalism",
	"Harassment",
	"Drug Activity",
	"Burglary",
	"Vehicle Crime",
	"Suspicious Activity",
	"Other",
}
