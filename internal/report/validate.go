package report

import (
	"strings"

	"citysafe/pkg/errors"
)

// Form is the raw submission input as collected from the user.
type Form struct {
	IncidentType string // picked from the catalog, or "Other"
	CustomType   string // free text when "Other" was picked
	Date         string
	Time         string
	Location     string
	Description  string
	Witnesses    string
	Anonymous    bool
	Name         string
	Phone        string
	Email        string
	MediaURI     string // local path of an attached photo/video
}

// Validate enforces every rule before anything touches the network. Each
// failing rule gets its own field-specific message.
func Validate(f Form) error {
	if strings.TrimSpace(f.resolvedType()) == "" {
		return errors.WithCode(errors.CodeValidation, "please select an incident type")
	}
	if strings.TrimSpace(f.Location) == "" {
		return errors.WithCode(errors.CodeValidation, "please enter the location of the incident")
	}
	if strings.TrimSpace(f.Description) == "" {
		return errors.WithCode(errors.CodeValidation, "please describe the incident")
	}
	if !f.Anonymous {
		if strings.TrimSpace(f.Name) == "" {
			return errors.WithCode(errors.CodeValidation, "please enter your name")
		}
		if strings.TrimSpace(f.Phone) == "" {
			return errors.WithCode(errors.CodeValidation, "please enter your phone number")
		}
		if strings.TrimSpace(f.Email) == "" {
			return errors.WithCode(errors.CodeValidation, "please enter your email address")
		}
	}
	return nil
}

// resolvedType prefers the free-text type when "Other" was picked and
// filled in.
func (f Form) resolvedType() string {
	if f.IncidentType == "Other" && strings.TrimSpace(f.CustomType) != "" {
		return strings.TrimSpace(f.CustomType)
	}
	return f.IncidentType
}

// normalizeType turns a display label into the backend token: lowercased,
// spaces to underscores. "Vehicle Crime" → "vehicle_crime".
func normalizeType(label string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(label)), " ", "_")
}
