package core

import (
	"time"
)

// Email represents an inbound email message
type Email struct {
	ID      string
	From    string
	To      []string
	Subject string
	Body    string
	Date    time.Time
	Headers map[string][]string
}

// LeadSource is a named matcher definition configured by an administrator.
// Pattern lists are always non-nil; an empty list means the source cannot
// match on that axis.
type LeadSource struct {
	ID             string
	Name           string
	Description    string
	EmailPatterns  []string
	DomainPatterns []string
	Keywords       []string
	IsDefault      bool
	IsActive       bool
}

// RuleConditions is the structured condition set of a detection rule.
// MinConfidence defaults to 0.5 when zero.
type RuleConditions struct {
	SubjectKeywords []string
	BodyKeywords    []string
	SenderPatterns  []string
	DomainPatterns  []string
	MinConfidence   float64
}

// DetectionRule is a structured alternative to a lead source for marking
// emails as leads. Priority is a static ordering field, distinct from the
// per-email computed score.
type DetectionRule struct {
	ID         string
	Name       string
	IsActive   bool
	Priority   float64
	Conditions RuleConditions
}

// ExtractedData holds the raw fields pulled out of an email by the
// extractor suite.
type ExtractedData struct {
	Name            string
	Email           []string
	Phone           []string
	Company         string
	Position        string
	Message         string
	PropertyAddress string
	PropertyDetails string
}

// EmailAnalysisResult is the ephemeral outcome of analyzing one email.
// IsLead is true iff ConfidenceScore >= LeadThreshold.
type EmailAnalysisResult struct {
	IsLead          bool
	ConfidenceScore float64
	DetectedSource  *LeadSource
	DetectedRule    *DetectionRule
	ExtractedData   ExtractedData
	Reasons         []string
}

// LeadData is the normalized extraction output, produced once per email and
// consumed immediately by the ingestion orchestrator.
type LeadData struct {
	FirstName           string
	LastName            string
	Email               []string
	Phone               []string
	Company             string
	Position            string
	Message             string
	PropertyAddress     string
	PropertyDetails     string
	PriceRange          string
	PropertyType        string
	LocationPreferences string
	Timeline            string
	LeadSource          string
	LeadSourceID        string
	ConfidenceScore     float64
}

// LeadExtractionResult wraps extraction success or failure together with the
// analysis that produced it.
type LeadExtractionResult struct {
	Success  bool
	Error    string
	LeadData *LeadData
	Analysis *EmailAnalysisResult
}

// Person is a CRM contact row. The engine only ever creates persons with
// lead status "staging" and never deletes one.
type Person struct {
	ID              string
	FirstName       string
	LastName        string
	Email           []string
	Phone           []string
	LeadSource      string
	LeadSourceID    string
	LeadStatus      string
	ClientType      string
	AssignedTo      string
	Notes           string
	Company         string
	Position        string
	Address         string
	LookingFor      string
	LastInteraction time.Time
	NextFollowUp    time.Time
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// User is a CRM user. New leads are always assigned to an admin user.
type User struct {
	ID    string
	Name  string
	Email string
	Role  string
}

// Activity is one audit-trail row written after a person is created or
// updated.
type Activity struct {
	ID          string
	Type        string // "created" or "updated"
	Description string
	PersonID    string
	CreatedBy   string
	CreatedAt   time.Time
}

// AnalysisSummary is the caller-facing digest attached to a successful
// ingestion result.
type AnalysisSummary struct {
	ConfidenceScore float64
	Reasons         []string
	LeadSource      string
	ExtractedFields []string
}

// IngestResult is the definitive outcome of processing one email as a lead.
// The orchestrator never panics and never surfaces a bare error; callers
// always get a success flag plus a message they can act on.
type IngestResult struct {
	Success bool
	Message string
	Details string
	Err     error
	Person  *Person
	Created bool
	Summary *AnalysisSummary
}

const (
	// LeadThreshold is the confidence score at or above which an email is a lead.
	LeadThreshold = 0.6

	// MinSignalConfidence is the floor below which an email with no usable
	// name or address is rejected as insufficient even if nominally a lead.
	MinSignalConfidence = 0.3

	// DefaultRuleMinConfidence gates rule scores when a rule does not carry
	// its own threshold.
	DefaultRuleMinConfidence = 0.5

	// StagingStatus is the only lead status the engine ever assigns.
	StagingStatus = "staging"

	// FollowUpDelay is how far out the next follow-up lands after any touch.
	FollowUpDelay = 24 * time.Hour
)
