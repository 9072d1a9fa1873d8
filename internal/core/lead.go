package core

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/leadengine/lead-engine/internal/extract"
)

// Sentinel names used when an email carries no parseable contact name.
const (
	UnknownFirstName = "Unknown"
	UnknownLastName  = "Lead"
)

// FallbackSourceName attributes leads that matched no configured source.
const FallbackSourceName = "Email"

// LeadExtractor turns a positive analysis into a normalized LeadData record.
type LeadExtractor struct {
	analyzer *Analyzer
	logger   *zap.Logger
}

// NewLeadExtractor creates a new lead extraction service.
func NewLeadExtractor(analyzer *Analyzer, logger *zap.Logger) *LeadExtractor {
	return &LeadExtractor{analyzer: analyzer, logger: logger}
}

// ExtractLeadData analyzes an email and, when it qualifies as a lead,
// normalizes the extracted fields into a LeadData record. Like the
// analyzer, it reports failure through the result rather than an error.
func (e *LeadExtractor) ExtractLeadData(ctx context.Context, email *Email) *LeadExtractionResult {
	analysis := e.analyzer.AnalyzeEmail(ctx, email)
	if !analysis.IsLead {
		return &LeadExtractionResult{
			Success:  false,
			Error:    "Email does not appear to be a lead",
			Analysis: analysis,
		}
	}

	firstName, lastName := splitName(analysis.ExtractedData.Name, email.From)
	combined := email.Subject + " " + email.Body

	lead := &LeadData{
		FirstName:           firstName,
		LastName:            lastName,
		Email:               extract.Emails(email.From, email.Body),
		Phone:               extract.Phones(email.Body),
		Company:             extract.Company(email.Body),
		Position:            extract.Position(email.Body),
		Message:             truncate(email.Body, 1000),
		PropertyAddress:     extract.PropertyAddress(combined),
		PropertyDetails:     extract.PropertyDetails(combined),
		PriceRange:          extract.PriceRange(combined),
		PropertyType:        extract.PropertyType(combined),
		LocationPreferences: extract.LocationPreferences(combined),
		Timeline:            extract.Timeline(combined),
		LeadSource:          FallbackSourceName,
		ConfidenceScore:     analysis.ConfidenceScore,
	}
	if analysis.DetectedSource != nil {
		lead.LeadSource = analysis.DetectedSource.Name
		lead.LeadSourceID = analysis.DetectedSource.ID
	}

	e.logger.Debug("Extracted lead data",
		zap.String("first_name", lead.FirstName),
		zap.String("last_name", lead.LastName),
		zap.String("lead_source", lead.LeadSource),
		zap.Int("emails", len(lead.Email)))

	return &LeadExtractionResult{
		Success:  true,
		LeadData: lead,
		Analysis: analysis,
	}
}

// splitName resolves a first/last name pair from the extracted name, falling
// back to the From header display name, then to the Unknown/Lead sentinels.
// The name is split on the first space: first token becomes the first name,
// the remainder the last name.
func splitName(extracted, from string) (string, string) {
	name := strings.TrimSpace(extracted)
	if name == "" {
		name = extract.SenderName(from)
	}

	firstName := UnknownFirstName
	lastName := UnknownLastName

	if name != "" {
		parts := strings.SplitN(name, " ", 2)
		if parts[0] != "" {
			firstName = parts[0]
		}
		if len(parts) > 1 && strings.TrimSpace(parts[1]) != "" {
			lastName = strings.TrimSpace(parts[1])
		}
	}
	return firstName, lastName
}
