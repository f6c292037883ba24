package mapview

import (
	"context"
	"time"

	"citysafe/internal/geo"
	"citysafe/internal/models"
	"citysafe/internal/session"
	"citysafe/pkg/cache"
)

const (
	pageSize = 100
	cacheTTL = 30 * time.Second
)

// Marker is one renderable map annotation.
type Marker struct {
	ID           string
	Title        string
	IncidentType string
	Point        models.GeoPoint
	Status       models.ReportStatus
	IsDevice     bool // the user's own position
}

// View is the read-only map/list presentation source. It never mutates
// shared state; it fetches a bounded page, keeps only geocoded entries, and
// adds the device position when available.
type View struct {
	api     session.ReportLister
	cache   cache.Cache
	locator geo.Locator
}

func New(api session.ReportLister, c cache.Cache, locator geo.Locator) *View {
	if c == nil {
		c = cache.NewLocalCache(cache.DefaultLocalConfig())
	}
	return &View{api: api, cache: c, locator: locator}
}

// Markers returns the annotations for the current user identity. Pages are
// cached briefly per identity, so switching users re-fetches.
func (v *View) Markers(ctx context.Context, userID string) ([]Marker, error) {
	reports, err := v.page(ctx, userID)
	if err != nil {
		return nil, err
	}

	markers := make([]Marker, 0, len(reports)+1)
	for _, r := range reports {
		if r.Point == nil {
			continue
		}
		markers = append(markers, Marker{
			ID:           r.ID,
			Title:        r.Title,
			IncidentType: r.IncidentType,
			Point:        *r.Point,
			Status:       r.Status,
		})
	}

	// Device position is optional; denial just means no self marker.
	if v.locator != nil {
		if point, err := v.locator.Current(ctx); err == nil {
			markers = append(markers, Marker{ID: "device", Title: "You are here", Point: point, IsDevice: true})
		}
	}
	return markers, nil
}

func (v *View) page(ctx context.Context, userID string) ([]models.Report, error) {
	key := "mapview:reports:" + userID
	if cached, ok := v.cache.Get(ctx, key); ok {
		if reports, ok := cached.([]models.Report); ok {
			return reports, nil
		}
	}
	reports, err := v.api.GetReports(ctx, 0, pageSize, userID)
	if err != nil {
		return nil, err
	}
	_ = v.cache.Set(ctx, key, reports, cacheTTL)
	return reports, nil
}

// Invalidate drops the cached page for an identity, e.g. after a submission.
func (v *View) Invalidate(ctx context.Context, userID string) {
	_ = v.cache.Delete(ctx, "mapview:reports:"+userID)
}
