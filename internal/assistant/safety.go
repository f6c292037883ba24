package assistant

import "strings"

// SafetyLevel classifies an area.
type SafetyLevel string

const (
	LevelSafe     SafetyLevel = "safe"
	LevelModerate SafetyLevel = "moderate"
	LevelUnsafe   SafetyLevel = "unsafe"
)

// SafetyLocation is one entry of the built-in area knowledge base.
type SafetyLocation struct {
	Name        string
	Level       SafetyLevel
	Description string
	Tips        []string
}

// jamaicaSafetyData is the bundled knowledge base for Jamaica.
var jamaicaSafetyData = map[string]SafetyLocation{
	"kingston": {
		Name:        "Kingston",
		Level:       LevelModerate,
		Description: "Capital city with areas of varying safety. Tourist areas like New Kingston are generally safer than downtown Kingston.",
		Tips: []string{
			"Avoid downtown Kingston and Trench Town after dark",
			"Use registered taxis or car service",
			"Stay in well-lit, populated areas",
			"Be cautious when walking alone at night",
		},
	},
	"montego bay": {
		Name:        "Montego Bay",
		Level:       LevelSafe,
		Description: "Popular tourist destination with generally good safety in resort areas.",
		Tips: []string{
			"Stick to tourist areas and resorts",
			"Avoid walking alone after dark in non-tourist areas",
			"Use hotel-arranged transportation",
			"Keep valuables secure",
		},
	},
	"negril": {
		Name:        "Negril",
		Level:       LevelSafe,
		Description: "Tourist-friendly area with beautiful beaches and generally safe conditions.",
		Tips: []string{
			"Most areas are safe for tourists",
			"Avoid isolated beaches after dark",
			"Use reputable water sports operators",
			"Keep valuables secure at beach areas",
		},
	},
	"ocho rios": {
		Name:        "Ocho Rios",
		Level:       LevelSafe,
		Description: "Popular resort town with good safety in tourist areas.",
		Tips: []string{
			"Safe in tourist zones around main attractions",
			"Avoid walking in residential areas after dark",
			"Use hotel-arranged transportation",
			"Be cautious with personal belongings",
		},
	},
	"spanish town": {
		Name:        "Spanish Town",
		Level:       LevelModerate,
		Description: "Historical city with varying safety conditions.",
		Tips: []string{
			"Avoid certain areas after dark",
			"Be especially vigilant during evening hours",
			"Use official transportation",
			"Stay in well-populated areas",
		},
	},
}

// SafetyInfoForLocation looks up a location mention in the knowledge base.
func SafetyInfoForLocation(location string) (SafetyLocation, bool) {
	normalized := strings.ToLower(strings.TrimSpace(location))
	for key, data := range jamaicaSafetyData {
		if strings.Contains(normalized, key) || strings.Contains(strings.ToLower(data.Name), normalized) {
			return data, true
		}
	}
	return SafetyLocation{}, false
}

// findMentionedLocation scans free text for any known location name.
func findMentionedLocation(text string) (SafetyLocation, bool) {
	lower := strings.ToLower(text)
	for key, data := range jamaicaSafetyData {
		if strings.Contains(lower, key) {
			return data, true
		}
	}
	return SafetyLocation{}, false
}

// RouteAdvice renders general travel-safety guidance between two places.
func RouteAdvice(from, to string) string {
	var b strings.Builder
	b.WriteString("For traveling from " + from + " to " + to + ", here are some safety considerations:\n\n")
	for _, line := range []string{
		"Use main roads and highways when possible",
		"Avoid isolated paths and unknown areas",
		"Travel during daylight hours when possible",
		"Use well-populated, well-lit routes",
		"Let someone know your travel plans",
		"Keep valuables secure and out of sight",
		"Use registered transportation services",
		"Stay alert and aware of your surroundings",
	} {
		b.WriteString("• " + line + "\n")
	}
	return b.String()
}

var safetyKeywords = []string{
	"safety", "safe", "danger", "crime", "emergency",
	"security", "police", "hospital", "dangerous",
}

func mentionsSafety(text string) bool {
	lower := strings.ToLower(text)
	for _, kw := range safetyKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}
