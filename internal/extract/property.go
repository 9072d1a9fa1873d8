package extract

import (
	"regexp"
	"strings"
)

var (
	addressRe = regexp.MustCompile(`\d+\s+[A-Z][a-zA-Z]*(?:\s+[A-Z][a-zA-Z]*)*\s+(?:Street|St|Avenue|Ave|Road|Rd|Boulevard|Blvd|Drive|Dr|Lane|Ln|Court|Ct|Place|Pl|Way|Terrace|Ter)\b`)

	sentenceSplitRe = regexp.MustCompile(`[.!?]+`)

	// Price patterns are tried in order; the first whole match wins.
	priceRes = []*regexp.Regexp{
		regexp.MustCompile(`\$[0-9][0-9,]*(?:\.\d+)?\s*-\s*\$[0-9][0-9,]*(?:\.\d+)?`),
		regexp.MustCompile(`(?i)\$[0-9][0-9,]*(?:\.\d+)?\s*to\s*\$[0-9][0-9,]*(?:\.\d+)?`),
		regexp.MustCompile(`(?i)\b[0-9][0-9,]*\s*-\s*[0-9][0-9,]*\s*(?:k|thousand)\b`),
		regexp.MustCompile(`(?i)\bbudget[^$.!?]*\$[0-9][0-9,]*(?:\.\d+)?`),
		regexp.MustCompile(`(?i)\bprice[^$.!?]*\$[0-9][0-9,]*(?:\.\d+)?`),
	}

	timelineRes = []*regexp.Regexp{
		regexp.MustCompile(`(?i)\b(?:buy|buying|sell|selling|move|moving|purchase|purchasing|relocate|relocating)\b[^.!?]*?\b(?:within|in the next|by)\b[^.!?]*?\b(?:days?|weeks?|months?|years?|january|february|march|april|may|june|july|august|september|october|november|december|\d{4})\b`),
		regexp.MustCompile(`(?i)\btimeline\b[^.!?]*?\b(?:days?|weeks?|months?|years?)\b`),
		regexp.MustCompile(`(?i)\b(?:urgent|urgently|asap|as soon as possible|soon)\b`),
	}
)

// detailKeywords drive the property-details sentence capture.
var detailKeywords = []string{
	"bedroom", "bathroom", "sq ft", "square feet", "acres", "lot", "garage",
}

// propertyTypes is the fixed vocabulary matched, first hit wins.
var propertyTypes = []string{
	"single family home", "single-family home", "condo", "condominium",
	"apartment", "townhouse", "townhome", "duplex", "multi-family",
	"multifamily", "commercial", "investment property", "rental property",
	"vacation home", "land",
}

// locationKeywords mark sentences that express a location preference.
var locationKeywords = []string{
	"neighborhood", "school district", "zip code", "downtown", "close to",
	"near", "commute", "area", "location", "suburb",
}

// PropertyAddress returns the first street-suffix style address in text.
func PropertyAddress(text string) string {
	return addressRe.FindString(text)
}

// PropertyDetails captures, for each detail keyword present in text, the
// first sentence containing it, and joins the captured sentences with a
// space. A sentence mentioning several keywords appears once.
func PropertyDetails(text string) string {
	sentences := splitSentences(text)
	lower := make([]string, len(sentences))
	for i, s := range sentences {
		lower[i] = strings.ToLower(s)
	}

	var captured []string
	seen := make(map[int]bool)
	for _, kw := range detailKeywords {
		for i, ls := range lower {
			if strings.Contains(ls, kw) {
				if !seen[i] {
					seen[i] = true
					captured = append(captured, sentences[i])
				}
				break
			}
		}
	}
	return strings.Join(captured, " ")
}

// PriceRange returns the first price or budget expression in text, or "".
func PriceRange(text string) string {
	for _, re := range priceRes {
		if m := re.FindString(text); m != "" {
			return strings.TrimSpace(m)
		}
	}
	return ""
}

// PropertyType returns the first property-type vocabulary entry that occurs
// as a substring of text, or "".
func PropertyType(text string) string {
	lower := strings.ToLower(text)
	for _, t := range propertyTypes {
		if strings.Contains(lower, t) {
			return t
		}
	}
	return ""
}

// LocationPreferences returns the first sentence of text containing any
// location keyword, or "".
func LocationPreferences(text string) string {
	for _, s := range splitSentences(text) {
		lower := strings.ToLower(s)
		for _, kw := range locationKeywords {
			if strings.Contains(lower, kw) {
				return s
			}
		}
	}
	return ""
}

// Timeline returns the first urgency or timeframe expression in text, or "".
func Timeline(text string) string {
	for _, re := range timelineRes {
		if m := re.FindString(text); m != "" {
			return strings.TrimSpace(m)
		}
	}
	return ""
}

func splitSentences(text string) []string {
	raw := sentenceSplitRe.Split(text, -1)
	out := make([]string, 0, len(raw))
	for _, s := range raw {
		s = strings.TrimSpace(s)
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}
