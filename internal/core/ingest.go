package core

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
)

// IngestRequest is the caller-facing boundary of the ingestion orchestrator.
type IngestRequest struct {
	Email  *Email
	UserID string
}

// Ingestor decides whether an extracted lead becomes a new person record or
// merges into an existing one, and writes the audit trail.
type Ingestor struct {
	extractor  *LeadExtractor
	persons    PersonRepository
	users      UserRepository
	activities ActivityRepository
	logger     *zap.Logger
}

// NewIngestor creates a new lead ingestion orchestrator.
func NewIngestor(
	extractor *LeadExtractor,
	persons PersonRepository,
	users UserRepository,
	activities ActivityRepository,
	logger *zap.Logger,
) *Ingestor {
	return &Ingestor{
		extractor:  extractor,
		persons:    persons,
		users:      users,
		activities: activities,
		logger:     logger,
	}
}

// ProcessEmailAsLead runs the full pipeline for one email: validation,
// extraction, dedup lookup, then merge or create. It always returns a
// definitive result so callers can decide how to mark the source email.
func (g *Ingestor) ProcessEmailAsLead(ctx context.Context, req IngestRequest) *IngestResult {
	if msg := validateRequest(req); msg != "" {
		return &IngestResult{Success: false, Message: msg}
	}

	extraction := g.extractor.ExtractLeadData(ctx, req.Email)
	if !extraction.Success {
		return &IngestResult{
			Success: false,
			Message: extraction.Error,
			Summary: summarize(extraction),
		}
	}

	lead := extraction.LeadData
	if !hasUsableIdentity(lead) && lead.ConfidenceScore < MinSignalConfidence {
		return &IngestResult{
			Success: false,
			Message: "Insufficient lead information to create a record",
			Summary: summarize(extraction),
		}
	}

	existing, err := g.findExistingPerson(ctx, lead)
	if err != nil {
		return &IngestResult{
			Success: false,
			Message: "Failed to look up existing contacts",
			Details: err.Error(),
			Err:     err,
		}
	}

	if existing != nil {
		return g.mergeIntoExisting(ctx, existing, lead, extraction, req)
	}
	return g.createPerson(ctx, lead, extraction, req)
}

// validateRequest fails fast, before any store access, when a required
// input is missing.
func validateRequest(req IngestRequest) string {
	switch {
	case req.Email == nil:
		return "Missing required field: emailData"
	case req.Email.From == "":
		return "Missing required field: from"
	case req.Email.Subject == "":
		return "Missing required field: subject"
	case req.Email.Body == "":
		return "Missing required field: body"
	case req.UserID == "":
		return "Missing required field: userId"
	}
	return ""
}

func hasUsableIdentity(lead *LeadData) bool {
	hasName := lead.FirstName != UnknownFirstName || lead.LastName != UnknownLastName
	return hasName || len(lead.Email) > 0
}

// findExistingPerson walks the dedup ladder: exact email containment first,
// then case-insensitive name match confirmed by a shared phone number, then
// a single exact-name candidate accepted on its own.
//
// The single-candidate branch can merge two different people who share a
// name. That precision/recall tradeoff is deliberate; operators review
// staged leads before assignment.
func (g *Ingestor) findExistingPerson(ctx context.Context, lead *LeadData) (*Person, error) {
	for _, addr := range lead.Email {
		p, err := g.persons.FindByEmail(ctx, addr)
		if err != nil {
			return nil, fmt.Errorf("find person by email: %w", err)
		}
		if p != nil {
			return p, nil
		}
	}

	if lead.FirstName == UnknownFirstName && lead.LastName == UnknownLastName {
		return nil, nil
	}

	candidates, err := g.persons.FindByName(ctx, lead.FirstName, lead.LastName, 5)
	if err != nil {
		return nil, fmt.Errorf("find person by name: %w", err)
	}

	for _, c := range candidates {
		if sharesPhone(c.Phone, lead.Phone) {
			return c, nil
		}
	}
	if len(candidates) == 1 {
		return candidates[0], nil
	}
	return nil, nil
}

func sharesPhone(a, b []string) bool {
	for _, x := range a {
		for _, y := range b {
			if normalizePhone(x) == normalizePhone(y) {
				return true
			}
		}
	}
	return false
}

func normalizePhone(p string) string {
	var sb strings.Builder
	for _, r := range p {
		if r >= '0' && r <= '9' {
			sb.WriteRune(r)
		}
	}
	return sb.String()
}

// mergeIntoExisting fills blank fields on the existing record, appends a
// structured note block, refreshes the interaction timestamps, and logs an
// "updated" activity.
func (g *Ingestor) mergeIntoExisting(
	ctx context.Context,
	person *Person,
	lead *LeadData,
	extraction *LeadExtractionResult,
	req IngestRequest,
) *IngestResult {
	if person.Company == "" && lead.Company != "" {
		person.Company = lead.Company
	}
	if person.Position == "" && lead.Position != "" {
		person.Position = lead.Position
	}
	if person.Address == "" && lead.PropertyAddress != "" {
		person.Address = lead.PropertyAddress
	}

	note := buildNotes(lead, req.Email)
	if person.Notes != "" {
		person.Notes = person.Notes + "\n\n--- NEW EMAIL ---\n" + note
	} else {
		person.Notes = note
	}

	now := time.Now()
	person.LastInteraction = now
	person.NextFollowUp = now.Add(FollowUpDelay)

	if err := g.persons.UpdatePerson(ctx, person); err != nil {
		return &IngestResult{
			Success: false,
			Message: "Failed to update existing lead",
			Details: err.Error(),
			Err:     err,
		}
	}

	g.logActivity(ctx, "updated", person, lead, req.UserID)

	g.logger.Info("Merged lead into existing person",
		zap.String("person_id", person.ID),
		zap.String("lead_source", lead.LeadSource),
		zap.Float64("confidence", lead.ConfidenceScore))

	return &IngestResult{
		Success: true,
		Message: "Lead merged into existing contact",
		Person:  person,
		Created: false,
		Summary: summarize(extraction),
	}
}

// createPerson stages a brand-new person assigned to an admin user.
func (g *Ingestor) createPerson(
	ctx context.Context,
	lead *LeadData,
	extraction *LeadExtractionResult,
	req IngestRequest,
) *IngestResult {
	admin, err := g.users.FindAdmin(ctx)
	if err != nil {
		return &IngestResult{
			Success: false,
			Message: "Failed to look up admin user",
			Details: err.Error(),
			Err:     err,
		}
	}
	if admin == nil {
		return &IngestResult{
			Success: false,
			Message: "No admin user available for lead assignment",
		}
	}

	now := time.Now()
	person := &Person{
		FirstName:       lead.FirstName,
		LastName:        lead.LastName,
		Email:           lead.Email,
		Phone:           lead.Phone,
		LeadSource:      lead.LeadSource,
		LeadSourceID:    lead.LeadSourceID,
		LeadStatus:      StagingStatus,
		ClientType:      "lead",
		AssignedTo:      admin.ID,
		Notes:           buildNotes(lead, req.Email),
		Company:         lead.Company,
		Position:        lead.Position,
		Address:         lead.PropertyAddress,
		LookingFor:      buildLookingFor(lead),
		LastInteraction: now,
		NextFollowUp:    now.Add(FollowUpDelay),
	}

	if err := g.persons.CreatePerson(ctx, person); err != nil {
		return &IngestResult{
			Success: false,
			Message: "Failed to create lead",
			Details: err.Error(),
			Err:     err,
		}
	}

	g.logActivity(ctx, "created", person, lead, req.UserID)

	g.logger.Info("Created staged lead",
		zap.String("person_id", person.ID),
		zap.String("lead_source", lead.LeadSource),
		zap.Float64("confidence", lead.ConfidenceScore))

	return &IngestResult{
		Success: true,
		Message: "Lead created in staging",
		Person:  person,
		Created: true,
		Summary: summarize(extraction),
	}
}

// logActivity writes the audit row. Failures are logged only; the audit
// trail is best-effort telemetry, not a correctness requirement.
func (g *Ingestor) logActivity(ctx context.Context, kind string, person *Person, lead *LeadData, userID string) {
	activity := &Activity{
		Type: kind,
		Description: fmt.Sprintf("Lead %s from email (%s, %.0f%% confidence)",
			kind, lead.LeadSource, lead.ConfidenceScore*100),
		PersonID:  person.ID,
		CreatedBy: userID,
		CreatedAt: time.Now(),
	}
	if err := g.activities.CreateActivity(ctx, activity); err != nil {
		g.logger.Warn("Failed to write activity log",
			zap.Error(err),
			zap.String("person_id", person.ID),
			zap.String("type", kind))
	}
}

// buildNotes renders the structured note block recorded on the person.
func buildNotes(lead *LeadData, email *Email) string {
	date := email.Date
	if date.IsZero() {
		date = time.Now()
	}

	lines := []string{
		"Lead captured from email",
		"Subject: " + email.Subject,
		"Date: " + date.Format("2006-01-02 15:04"),
		"Lead Source: " + lead.LeadSource,
		fmt.Sprintf("Confidence: %.0f%%", lead.ConfidenceScore*100),
	}
	if lead.Company != "" {
		lines = append(lines, "Company: "+lead.Company)
	}
	if lead.Position != "" {
		lines = append(lines, "Position: "+lead.Position)
	}
	if lead.PropertyAddress != "" {
		lines = append(lines, "Property Address: "+lead.PropertyAddress)
	}
	if lead.Message != "" {
		lines = append(lines, "Message: "+truncate(lead.Message, 500))
	}
	return strings.Join(lines, "\n")
}

// buildLookingFor joins whichever property preferences were extracted.
func buildLookingFor(lead *LeadData) string {
	var parts []string
	for _, v := range []string{
		lead.PropertyDetails,
		lead.PriceRange,
		lead.LocationPreferences,
		lead.PropertyType,
		lead.Timeline,
	} {
		if v != "" {
			parts = append(parts, v)
		}
	}
	return strings.Join(parts, " | ")
}

// summarize lists the analysis outcome and the names of every non-empty
// extracted field for the caller's audit view.
func summarize(extraction *LeadExtractionResult) *AnalysisSummary {
	analysis := extraction.Analysis
	if analysis == nil {
		return nil
	}

	summary := &AnalysisSummary{
		ConfidenceScore: analysis.ConfidenceScore,
		Reasons:         analysis.Reasons,
	}
	if analysis.DetectedSource != nil {
		summary.LeadSource = analysis.DetectedSource.Name
	}

	if lead := extraction.LeadData; lead != nil {
		add := func(name, value string) {
			if value != "" {
				summary.ExtractedFields = append(summary.ExtractedFields, name)
			}
		}
		if lead.FirstName != UnknownFirstName || lead.LastName != UnknownLastName {
			summary.ExtractedFields = append(summary.ExtractedFields, "name")
		}
		if len(lead.Email) > 0 {
			summary.ExtractedFields = append(summary.ExtractedFields, "email")
		}
		if len(lead.Phone) > 0 {
			summary.ExtractedFields = append(summary.ExtractedFields, "phone")
		}
		add("company", lead.Company)
		add("position", lead.Position)
		add("property_address", lead.PropertyAddress)
		add("property_details", lead.PropertyDetails)
		add("price_range", lead.PriceRange)
		add("property_type", lead.PropertyType)
		add("location_preferences", lead.LocationPreferences)
		add("timeline", lead.Timeline)
	}
	return summary
}
