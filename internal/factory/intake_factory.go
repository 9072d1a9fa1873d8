package factory

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/leadengine/lead-engine/internal/adapters/intake"
	"github.com/leadengine/lead-engine/internal/config"
	"github.com/leadengine/lead-engine/internal/core"
	"github.com/leadengine/lead-engine/internal/ignore"
	"github.com/leadengine/lead-engine/internal/ports"
	"github.com/leadengine/lead-engine/internal/utils"
)

// IntakeFactory creates email intakes based on configuration
type IntakeFactory struct {
	cfg      *config.Config
	logger   *zap.Logger
	ingestor *core.Ingestor
	store    core.Store
	text     *utils.TextProcessor
}

// NewIntakeFactory creates a new intake factory
func NewIntakeFactory(
	cfg *config.Config,
	logger *zap.Logger,
	ingestor *core.Ingestor,
	store core.Store,
	text *utils.TextProcessor,
) *IntakeFactory {
	return &IntakeFactory{
		cfg:      cfg,
		logger:   logger,
		ingestor: ingestor,
		store:    store,
		text:     text,
	}
}

// CreateEmailIntake creates an email intake based on the configuration
func (f *IntakeFactory) CreateEmailIntake() (ports.EmailIntake, error) {
	serverCfg := f.cfg.GetServer()

	switch serverCfg.IntakeType {
	case "smtp":
		ignored := ignore.NewChecker(f.cfg.GetStringSlice("ingest.ignored_domains"), f.logger)
		return intake.NewSMTPIntake(
			f.ingestor,
			f.store,
			ignored,
			f.text,
			f.logger,
			serverCfg.ListenAddress,
			serverCfg.IngestUserID,
			serverCfg.MaxBodySize,
		), nil
	case "cli":
		return intake.NewCLIIntake(
			f.ingestor,
			f.text,
			f.logger,
			serverCfg.IngestUserID,
			serverCfg.MaxBodySize,
			f.cfg.GetBool("cli.verbose"),
		), nil
	default:
		return nil, fmt.Errorf("unsupported intake type: %s", serverCfg.IntakeType)
	}
}
