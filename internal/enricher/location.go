package enricher

import (
	"regexp"
	"strings"

	"ledgerflow/ingest/internal/models"
)

// ukPostcode matches the full UK postcode shape, e.g. "SW1A 1AA" or "M1 1AE".
var ukPostcode = regexp.MustCompile(`(?i)\b([A-Z]{1,2}\d[A-Z\d]?)\s*(\d[A-Z]{2})\b`)

// knownCities is the city dictionary for location inference. Deliberately
// small: only cities common enough in UK statement text to be unambiguous.
var knownCities = []string{
	"London", "Manchester", "Birmingham", "Leeds", "Glasgow", "Edinburgh",
	"Liverpool", "Bristol", "Sheffield", "Cardiff", "Newcastle", "Nottingham",
	"Brighton", "Oxford", "Cambridge", "York", "Bath", "Reading", "Leicester",
}

// InferLocation extracts city and postcode from the transaction's location
// hint, falling back to the description. Returns nil when neither yields
// anything.
func InferLocation(locationHint, description string) *models.LocationInfo {
	sources := []string{locationHint, description}

	var info models.LocationInfo
	for _, text := range sources {
		if text == "" {
			continue
		}
		if info.Postcode == "" {
			if m := ukPostcode.FindStringSubmatch(text); len(m) > 2 {
				info.Postcode = strings.ToUpper(m[1]) + " " + strings.ToUpper(m[2])
			}
		}
		if info.City == "" {
			lower := strings.ToLower(text)
			for _, city := range knownCities {
				if strings.Contains(lower, strings.ToLower(city)) {
					info.City = city
					break
				}
			}
		}
	}

	// The hint minus postcode and city is a venue candidate.
	if locationHint != "" {
		venue := ukPostcode.ReplaceAllString(locationHint, "")
		if info.City != "" {
			venue = regexp.MustCompile(`(?i)`+regexp.QuoteMeta(info.City)).ReplaceAllString(venue, "")
		}
		venue = strings.Trim(strings.TrimSpace(venue), ",-/ ")
		if venue != "" && venue != locationHint {
			info.Venue = venue
		}
	}

	if info.City == "" && info.Postcode == "" {
		return nil
	}
	return &info
}
