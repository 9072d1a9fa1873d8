// Package extract implements the heuristic field extractors that pull
// structured contact and property data out of free-form email text. Every
// extractor is a pure function: deterministic, side-effect free, and never
// panicking. Absence is always the zero value, never an error.
package extract

import (
	"regexp"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var (
	emailRe = regexp.MustCompile(`[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}`)

	// North-American style numbers: optional +1, optional parens around the
	// area code, separators optional.
	phoneRe = regexp.MustCompile(`(?:\+?1[-.\s]?)?\(?[2-9]\d{2}\)?[-.\s]?\d{3}[-.\s]?\d{4}\b`)

	introNameRe = regexp.MustCompile(`(?i:my name is|i['’]?m|i am|this is)\s+([A-Z][a-zA-Z'\-]*(?:\s+[A-Z][a-zA-Z'\-]*){0,3})`)

	companyRe = regexp.MustCompile(`\b(?i:at|with|from)\s+((?:[A-Z][A-Za-z&]*\s+)*[A-Z][A-Za-z&]*)\s+(Inc|LLC|Corp|Company|Ltd|Co\.?)\b`)

	positionRe = regexp.MustCompile(`(?i)\b(?:i am|i'm)\s+(?:a|an)\s+(.+?)\s+(?:at|with)\b`)

	angleRe = regexp.MustCompile(`<[^>]*>`)

	titleCaser = cases.Title(language.English)
)

// SenderAddress returns the bare address from an RFC-ish "Name <email>" or
// bare-email From header, or "" when none is present.
func SenderAddress(from string) string {
	if m := emailRe.FindString(from); m != "" {
		return m
	}
	return ""
}

// SenderName returns the display-name portion of a From header with any
// angle-bracket content stripped, or "" when the header is only an address.
func SenderName(from string) string {
	name := strings.TrimSpace(angleRe.ReplaceAllString(from, ""))
	name = strings.Trim(name, `"' `)
	if name == "" || strings.Contains(name, "@") {
		return ""
	}
	return normalizeName(name)
}

// Name extracts a contact name from an email. It prefers a signature line
// following a "--" delimiter, then an introduction phrase in the body, then
// the From header's display name.
func Name(from, body string) string {
	if sig := signatureName(body); sig != "" {
		return sig
	}

	if m := introNameRe.FindStringSubmatch(body); m != nil {
		return normalizeName(m[1])
	}

	return SenderName(from)
}

// signatureName looks for a personal name on the first non-empty line after
// a conventional "--" signature delimiter.
func signatureName(body string) string {
	lines := strings.Split(body, "\n")
	for i, line := range lines {
		trimmed := strings.TrimSpace(line)
		if len(trimmed) < 2 || strings.Trim(trimmed, "-") != "" {
			continue
		}
		for _, candidate := range lines[i+1:] {
			candidate = strings.TrimSpace(candidate)
			if candidate == "" {
				continue
			}
			if looksLikeName(candidate) {
				return normalizeName(candidate)
			}
			break
		}
	}
	return ""
}

// looksLikeName accepts short sequences of capitalized words with no digits
// or address punctuation.
func looksLikeName(s string) bool {
	words := strings.Fields(s)
	if len(words) == 0 || len(words) > 4 {
		return false
	}
	for _, w := range words {
		first := rune(w[0])
		if first < 'A' || first > 'Z' {
			return false
		}
		for _, r := range w {
			if !(r == '.' || r == '\'' || r == '-' ||
				(r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')) {
				return false
			}
		}
	}
	return true
}

// normalizeName title-cases words that arrive fully upper-cased; mixed-case
// input is left alone so spellings like "McDonald" survive.
func normalizeName(name string) string {
	words := strings.Fields(name)
	for i, w := range words {
		if w == strings.ToUpper(w) && len(w) > 1 {
			words[i] = titleCaser.String(strings.ToLower(w))
		}
	}
	return strings.Join(words, " ")
}

// Emails returns every address found in the body, with the sender's address
// prepended when present. The result contains no duplicates and preserves
// first-seen order.
func Emails(from, body string) []string {
	var out []string
	seen := make(map[string]bool)

	add := func(addr string) {
		key := strings.ToLower(addr)
		if !seen[key] {
			seen[key] = true
			out = append(out, addr)
		}
	}

	if sender := SenderAddress(from); sender != "" {
		add(sender)
	}
	for _, m := range emailRe.FindAllString(body, -1) {
		add(m)
	}
	return out
}

// Phones returns every North-American style phone number in the body,
// deduplicated in first-seen order.
func Phones(body string) []string {
	var out []string
	seen := make(map[string]bool)
	for _, m := range phoneRe.FindAllString(body, -1) {
		if !seen[m] {
			seen[m] = true
			out = append(out, m)
		}
	}
	return out
}

// Company extracts a company name from phrases like "at Acme Corp" or
// "with Initech LLC". Returns "" when absent.
func Company(body string) string {
	m := companyRe.FindStringSubmatch(body)
	if m == nil {
		return ""
	}
	return strings.TrimSpace(m[1]) + " " + m[2]
}

// Position extracts a job title from phrases like "I am a broker at".
func Position(body string) string {
	m := positionRe.FindStringSubmatch(body)
	if m == nil {
		return ""
	}
	return strings.TrimSpace(m[1])
}
