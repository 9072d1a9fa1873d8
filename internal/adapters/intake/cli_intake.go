package intake

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"net/mail"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/leadengine/lead-engine/internal/core"
	"github.com/leadengine/lead-engine/internal/utils"
)

// CLIIntake processes a single email from a file or stdin and prints the
// outcome. It is the surface behind the lead-detect command.
type CLIIntake struct {
	ingestor    *core.Ingestor
	text        *utils.TextProcessor
	logger      *zap.Logger
	ingestAs    string
	maxBodySize int
	verbose     bool
}

// NewCLIIntake creates a new CLI intake.
func NewCLIIntake(
	ingestor *core.Ingestor,
	text *utils.TextProcessor,
	logger *zap.Logger,
	ingestAs string,
	maxBodySize int,
	verbose bool,
) *CLIIntake {
	return &CLIIntake{
		ingestor:    ingestor,
		text:        text,
		logger:      logger,
		ingestAs:    ingestAs,
		maxBodySize: maxBodySize,
		verbose:     verbose,
	}
}

// Start is a no-op for the CLI intake.
func (c *CLIIntake) Start() error { return nil }

// Stop is a no-op for the CLI intake.
func (c *CLIIntake) Stop() error { return nil }

// ProcessEmail runs one email through the lead pipeline.
func (c *CLIIntake) ProcessEmail(ctx context.Context, email *core.Email) *core.IngestResult {
	return c.ingestor.ProcessEmailAsLead(ctx, core.IngestRequest{
		Email:  email,
		UserID: c.ingestAs,
	})
}

// ProcessFile reads an RFC 5322 message from path ("-" for stdin), runs it
// through the pipeline and prints a human-readable report.
func (c *CLIIntake) ProcessFile(ctx context.Context, path string) error {
	var (
		rawData []byte
		err     error
	)
	if path == "-" {
		rawData, err = io.ReadAll(os.Stdin)
	} else {
		rawData, err = os.ReadFile(path)
	}
	if err != nil {
		return fmt.Errorf("failed to read email: %w", err)
	}

	msg, err := mail.ReadMessage(bytes.NewReader(rawData))
	if err != nil {
		return fmt.Errorf("failed to parse email: %w", err)
	}

	email := c.buildEmail(msg, rawData)
	result := c.ProcessEmail(ctx, email)
	c.printResult(email, result)

	if result.Err != nil {
		return result.Err
	}
	return nil
}

func (c *CLIIntake) buildEmail(msg *mail.Message, rawData []byte) *core.Email {
	email := &core.Email{
		From:    msg.Header.Get("From"),
		Subject: msg.Header.Get("Subject"),
		Headers: make(map[string][]string),
	}
	for key, values := range msg.Header {
		email.Headers[key] = values
	}
	if to, err := msg.Header.AddressList("To"); err == nil {
		for _, addr := range to {
			email.To = append(email.To, addr.Address)
		}
	}
	if date, err := msg.Header.Date(); err == nil {
		email.Date = date
	} else {
		email.Date = time.Now()
	}

	email.ID = strings.Trim(msg.Header.Get("Message-Id"), "<> ")
	if email.ID == "" {
		sum := sha256.Sum256(rawData)
		email.ID = hex.EncodeToString(sum[:16])
	}

	body, err := extractTextFromMessage(msg)
	if err != nil {
		c.logger.Warn("Failed to extract text content", zap.Error(err))
		body = string(rawData)
	}
	email.Body = c.text.ProcessText(body, c.maxBodySize)

	return email
}

func (c *CLIIntake) printResult(email *core.Email, result *core.IngestResult) {
	fmt.Println("=== Email Summary ===")
	fmt.Printf("From:    %s\n", email.From)
	fmt.Printf("Subject: %s\n", email.Subject)
	if !email.Date.IsZero() {
		fmt.Printf("Date:    %s\n", email.Date.Format("2006-01-02 15:04"))
	}
	fmt.Println()

	fmt.Println("=== Detection Result ===")
	if result.Summary != nil {
		fmt.Printf("Confidence:  %.0f%%\n", result.Summary.ConfidenceScore*100)
		if result.Summary.LeadSource != "" {
			fmt.Printf("Lead source: %s\n", result.Summary.LeadSource)
		}
		if c.verbose {
			for _, reason := range result.Summary.Reasons {
				fmt.Printf("  - %s\n", reason)
			}
			if len(result.Summary.ExtractedFields) > 0 {
				fmt.Printf("Extracted:   %s\n", strings.Join(result.Summary.ExtractedFields, ", "))
			}
		}
	}

	fmt.Println()
	fmt.Println("=== Outcome ===")
	if result.Success {
		fmt.Printf("Result:  %s\n", result.Message)
		if result.Person != nil {
			fmt.Printf("Contact: %s %s (%s)\n",
				result.Person.FirstName, result.Person.LastName, result.Person.ID)
			if result.Created {
				fmt.Printf("Status:  %s\n", result.Person.LeadStatus)
			}
		}
	} else {
		fmt.Printf("Result:  %s\n", result.Message)
		if result.Details != "" {
			fmt.Printf("Details: %s\n", result.Details)
		}
	}
}
