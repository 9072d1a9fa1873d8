// Package intake contains the inbound email surfaces: a local SMTP drop
// endpoint for mail pipelines and a CLI surface for one-shot processing.
package intake

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"io"
	"net/mail"
	"strings"
	"time"

	"github.com/emersion/go-smtp"
	"go.uber.org/zap"

	"github.com/leadengine/lead-engine/internal/core"
	"github.com/leadengine/lead-engine/internal/extract"
	"github.com/leadengine/lead-engine/internal/ignore"
	"github.com/leadengine/lead-engine/internal/utils"
)

// SMTPIntake accepts messages over SMTP and feeds them into the lead
// pipeline. Unlike a content filter it is terminal: messages are consumed,
// not relayed onward. Duplicate deliveries are skipped via the
// processed-email marker, keyed on Message-ID.
type SMTPIntake struct {
	ingestor    *core.Ingestor
	processed   core.ProcessedEmailRepository
	ignored     *ignore.Checker
	text        *utils.TextProcessor
	logger      *zap.Logger
	listenAddr  string
	ingestAs    string
	maxBodySize int
	server      *smtp.Server
}

// NewSMTPIntake creates a new SMTP intake listener.
func NewSMTPIntake(
	ingestor *core.Ingestor,
	processed core.ProcessedEmailRepository,
	ignored *ignore.Checker,
	text *utils.TextProcessor,
	logger *zap.Logger,
	listenAddr string,
	ingestAs string,
	maxBodySize int,
) *SMTPIntake {
	return &SMTPIntake{
		ingestor:    ingestor,
		processed:   processed,
		ignored:     ignored,
		text:        text,
		logger:      logger,
		listenAddr:  listenAddr,
		ingestAs:    ingestAs,
		maxBodySize: maxBodySize,
	}
}

// Start starts the SMTP intake service.
func (f *SMTPIntake) Start() error {
	f.server = smtp.NewServer(&smtpBackend{intake: f})

	f.server.Addr = f.listenAddr
	f.server.Domain = "localhost"
	f.server.ReadTimeout = 30 * time.Second
	f.server.WriteTimeout = 30 * time.Second
	f.server.MaxMessageBytes = 30 * 1024 * 1024 // 30MB
	f.server.MaxRecipients = 50
	f.server.AllowInsecureAuth = true

	f.logger.Info("SMTP intake starting", zap.String("address", f.listenAddr))

	go func() {
		if err := f.server.ListenAndServe(); err != nil {
			if err != smtp.ErrServerClosed {
				f.logger.Error("SMTP server error", zap.Error(err))
			}
		}
	}()

	return nil
}

// Stop stops the SMTP intake service.
func (f *SMTPIntake) Stop() error {
	if f.server != nil {
		return f.server.Close()
	}
	return nil
}

// ProcessEmail runs one email through the lead pipeline.
func (f *SMTPIntake) ProcessEmail(ctx context.Context, email *core.Email) *core.IngestResult {
	return f.ingestor.ProcessEmailAsLead(ctx, core.IngestRequest{
		Email:  email,
		UserID: f.ingestAs,
	})
}

// smtpBackend implements the go-smtp Backend interface.
type smtpBackend struct {
	intake *SMTPIntake
}

// NewSession creates a new SMTP session.
func (b *smtpBackend) NewSession(c *smtp.Conn) (smtp.Session, error) {
	return &smtpSession{
		intake:     b.intake,
		recipients: make([]string, 0),
	}, nil
}

// smtpSession implements the go-smtp Session interface.
type smtpSession struct {
	intake     *SMTPIntake
	sender     string
	recipients []string
}

// Reset resets the session state.
func (s *smtpSession) Reset() {
	s.sender = ""
	s.recipients = make([]string, 0)
}

// Logout is called when the session ends.
func (s *smtpSession) Logout() error {
	return nil
}

// AuthPlain handles PLAIN authentication (not needed for the intake).
func (s *smtpSession) AuthPlain(_ []byte) error {
	return smtp.ErrAuthUnsupported
}

// Mail sets the sender address.
func (s *smtpSession) Mail(from string, _ *smtp.MailOptions) error {
	s.sender = from
	return nil
}

// Rcpt adds a recipient.
func (s *smtpSession) Rcpt(to string, _ *smtp.RcptOptions) error {
	s.recipients = append(s.recipients, to)
	return nil
}

// Data consumes the message: parse, dedup by message ID, then ingest.
func (s *smtpSession) Data(r io.Reader) error {
	rawData, err := io.ReadAll(r)
	if err != nil {
		s.intake.logger.Error("Failed to read message data", zap.Error(err))
		return err
	}

	msg, err := mail.ReadMessage(bytes.NewReader(rawData))
	if err != nil {
		s.intake.logger.Error("Failed to parse email message", zap.Error(err))
		return err
	}

	email := s.buildEmail(msg, rawData)

	if s.intake.ignored.IsIgnored(extract.SenderAddress(email.From)) {
		s.intake.logger.Info("Skipping email from ignored domain",
			zap.String("sender", email.From))
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	fresh, err := s.intake.processed.MarkProcessed(ctx, email.ID)
	if err != nil {
		s.intake.logger.Error("Failed to check processed marker",
			zap.Error(err), zap.String("email_id", email.ID))
		// Temporary failure so the upstream pipeline retries delivery.
		return &smtp.SMTPError{
			Code:         451,
			EnhancedCode: smtp.EnhancedCode{4, 5, 1},
			Message:      "Temporary processing failure",
		}
	}
	if !fresh {
		s.intake.logger.Info("Skipping already-processed email",
			zap.String("email_id", email.ID),
			zap.String("sender", email.From))
		return nil
	}

	result := s.intake.ProcessEmail(ctx, email)

	fields := []zap.Field{
		zap.String("email_id", email.ID),
		zap.String("sender", email.From),
		zap.Bool("success", result.Success),
		zap.String("message", result.Message),
	}
	if result.Summary != nil {
		fields = append(fields,
			zap.Float64("confidence", result.Summary.ConfidenceScore),
			zap.String("lead_source", result.Summary.LeadSource))
	}
	if result.Err != nil {
		// Persistence failures are reported once; the message stays marked
		// processed so the upstream pipeline does not loop on it.
		fields = append(fields, zap.Error(result.Err))
		s.intake.logger.Error("Lead ingestion failed", fields...)
		return nil
	}

	s.intake.logger.Info("Processed inbound email", fields...)
	return nil
}

// buildEmail assembles the pipeline input from a parsed message. The From
// header is preferred over the envelope sender because it carries the
// display name the extractors want.
func (s *smtpSession) buildEmail(msg *mail.Message, rawData []byte) *core.Email {
	email := &core.Email{
		From:    s.sender,
		To:      s.recipients,
		Headers: make(map[string][]string),
	}

	for key, values := range msg.Header {
		email.Headers[key] = values
	}
	if from := msg.Header.Get("From"); from != "" {
		email.From = from
	}
	email.Subject = msg.Header.Get("Subject")
	if date, err := msg.Header.Date(); err == nil {
		email.Date = date
	}

	email.ID = strings.Trim(msg.Header.Get("Message-Id"), "<> ")
	if email.ID == "" {
		// No Message-ID: fall back to a content hash so redelivery of the
		// exact same bytes still dedups.
		sum := sha256.Sum256(rawData)
		email.ID = hex.EncodeToString(sum[:16])
	}

	body, err := extractTextFromMessage(msg)
	if err != nil {
		s.intake.logger.Warn("Failed to extract text content", zap.Error(err))
		body = string(rawData)
	}
	email.Body = s.intake.text.ProcessText(body, s.intake.maxBodySize)

	return email
}
