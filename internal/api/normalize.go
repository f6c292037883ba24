package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"citysafe/internal/models"
)

// The backend's document shapes are duck-typed: Mongo-era records carry
// "_id" and "full_name", newer ones "id" and "fullName", and a report's
// location is either a free-text string or a GeoJSON point. Everything
// crossing the API boundary is normalized here into the canonical shapes in
// internal/models; nothing past this file deals with shape variants.

const displayDateFormat = "01/02/2006"

func stringField(raw map[string]interface{}, keys ...string) string {
	for _, k := range keys {
		if v, ok := raw[k]; ok {
			if s, ok := v.(string); ok && s != "" {
				return s
			}
		}
	}
	return ""
}

func boolField(raw map[string]interface{}, key string) bool {
	v, ok := raw[key].(bool)
	return ok && v
}

// mapUser normalizes a backend user record.
func mapUser(raw map[string]interface{}) models.User {
	return models.User{
		ID:       stringField(raw, "id", "_id"),
		FullName: stringField(raw, "fullName", "full_name"),
		Email:    stringField(raw, "email"),
		Phone:    stringField(raw, "phone"),
	}
}

// MapReport normalizes a backend report record into the local Report shape.
func MapReport(raw map[string]interface{}) models.Report {
	r := models.Report{
		ID:           stringField(raw, "id", "_id"),
		IncidentType: stringField(raw, "incidentType", "incident_type"),
		Description:  stringField(raw, "description"),
		Time:         stringField(raw, "time"),
		Witnesses:    stringField(raw, "witnesses"),
		Anonymous:    boolField(raw, "anonymous"),
		Name:         stringField(raw, "name"),
		Phone:        stringField(raw, "phone"),
		Email:        stringField(raw, "email"),
		MediaURL:     stringField(raw, "media_url"),
		Status:       mapStatus(stringField(raw, "status")),
	}

	r.Title = r.IncidentType
	if r.Title == "" {
		r.Title = "Report"
	}

	r.Location, r.Point = mapLocation(raw["location"])

	if d := stringField(raw, "date"); d != "" {
		r.Date = d
	} else if created := stringField(raw, "createdAt", "created_at"); created != "" {
		if t, err := time.Parse(time.RFC3339, created); err == nil {
			r.Date = t.Local().Format(displayDateFormat)
		}
	}
	return r
}

// mapLocation accepts a plain string or a GeoJSON point; a point renders as
// "lat, lng" for display and keeps the coordinates.
func mapLocation(v interface{}) (string, *models.GeoPoint) {
	switch loc := v.(type) {
	case string:
		return loc, nil
	case map[string]interface{}:
		coords, ok := loc["coordinates"].([]interface{})
		if !ok || len(coords) < 2 {
			return "", nil
		}
		lng, okLng := coords[0].(float64)
		lat, okLat := coords[1].(float64)
		if !okLng || !okLat {
			return "", nil
		}
		return fmt.Sprintf("%v, %v", lat, lng), &models.GeoPoint{Lat: lat, Lng: lng}
	default:
		return "", nil
	}
}

func mapStatus(s string) models.ReportStatus {
	switch models.ReportStatus(s) {
	case models.StatusInProgress, models.StatusResolved:
		return models.ReportStatus(s)
	case "confirmed": // older backend revisions
		return models.StatusInProgress
	default:
		return models.StatusPending
	}
}

// errorMessage extracts a human-readable message from an error body. The
// backend puts one in "detail": a string, or a list of validation entries
// whose "msg" fields get joined. Raw body text is the fallback.
func errorMessage(status int, body []byte) string {
	var env struct {
		Detail json.RawMessage `json:"detail"`
	}
	if err := json.Unmarshal(body, &env); err == nil && len(env.Detail) > 0 {
		var s string
		if json.Unmarshal(env.Detail, &s) == nil && s != "" {
			return s
		}
		var list []map[string]interface{}
		if json.Unmarshal(env.Detail, &list) == nil && len(list) > 0 {
			msgs := make([]string, 0, len(list))
			for _, item := range list {
				if m, ok := item["msg"].(string); ok && m != "" {
					msgs = append(msgs, m)
				}
			}
			if len(msgs) > 0 {
				return strings.Join(msgs, "; ")
			}
		}
		var plain []string
		if json.Unmarshal(env.Detail, &plain) == nil && len(plain) > 0 {
			return strings.Join(plain, "; ")
		}
	}
	if trimmed := bytes.TrimSpace(body); len(trimmed) > 0 {
		return string(trimmed)
	}
	return fmt.Sprintf("request failed with status %d", status)
}
