package di

import (
	"flag"
	"strings"
	"time"

	"go.uber.org/dig"
	"go.uber.org/zap"

	"github.com/leadengine/lead-engine/internal/adapters/memory"
	"github.com/leadengine/lead-engine/internal/config"
	"github.com/leadengine/lead-engine/internal/core"
	"github.com/leadengine/lead-engine/internal/factory"
	"github.com/leadengine/lead-engine/internal/logging"
	"github.com/leadengine/lead-engine/internal/ports"
	"github.com/leadengine/lead-engine/internal/utils"
)

// CLIFlags contains all command line flags for the CLI application
type CLIFlags struct {
	// Inline lead source definition
	SourceName     string
	EmailPatterns  string
	DomainPatterns string
	Keywords       string

	// Inline detection rule definition
	RuleName        string
	SubjectKeywords string
	BodyKeywords    string
	MinConfidence   float64

	// Input flags
	InputFile  string
	Verbose    bool
	JSONLog    bool
	ConfigFile string
}

// ParseFlags parses command line flags and returns a CLIFlags struct
func ParseFlags() *CLIFlags {
	flags := &CLIFlags{}

	// Lead source flags
	flag.StringVar(&flags.SourceName, "source-name", "Web Inquiry", "Name of the inline lead source")
	flag.StringVar(&flags.EmailPatterns, "email-patterns", "", "Comma-separated sender patterns for the inline source")
	flag.StringVar(&flags.DomainPatterns, "domain-patterns", "zillow.com,realtor.com,trulia.com", "Comma-separated domain patterns for the inline source")
	flag.StringVar(&flags.Keywords, "keywords", "interested,property,listing,viewing,tour", "Comma-separated keywords for the inline source")

	// Detection rule flags
	flag.StringVar(&flags.RuleName, "rule-name", "", "Name of an optional inline detection rule")
	flag.StringVar(&flags.SubjectKeywords, "subject-keywords", "", "Comma-separated subject keywords for the inline rule")
	flag.StringVar(&flags.BodyKeywords, "body-keywords", "", "Comma-separated body keywords for the inline rule")
	flag.Float64Var(&flags.MinConfidence, "min-confidence", 0.5, "Minimum confidence for the inline rule to count")

	// Input flags
	flag.StringVar(&flags.InputFile, "file", "-", "Input email file (use stdin if not specified)")
	flag.BoolVar(&flags.Verbose, "verbose", false, "Enable verbose output")
	flag.BoolVar(&flags.JSONLog, "json-log", false, "Output logs in JSON format")
	flag.StringVar(&flags.ConfigFile, "config", "", "Path to config file (overrides command line flags)")

	flag.Parse()
	return flags
}

// BuildCLIContainer creates and configures a dependency injection container
// for the CLI application. The CLI runs fully in memory: the store is
// seeded from the inline flags and nothing is persisted.
func BuildCLIContainer(flags *CLIFlags) (*dig.Container, error) {
	container := dig.New()

	// Register flags
	if err := container.Provide(func() *CLIFlags { return flags }); err != nil {
		return nil, err
	}

	// Register logger
	if err := container.Provide(func(flags *CLIFlags) (*zap.Logger, error) {
		return logging.InitConsoleLogger(flags.Verbose, flags.JSONLog)
	}); err != nil {
		return nil, err
	}

	// Register configuration
	if err := container.Provide(func(flags *CLIFlags, logger *zap.Logger) (*config.Config, error) {
		if flags.ConfigFile != "" {
			cfg, err := config.New()
			if err != nil {
				return nil, err
			}
			logger.Info("Loaded configuration from file", zap.String("file", cfg.GetViper().ConfigFileUsed()))
			return cfg, nil
		}
		return createConfigFromFlags(flags), nil
	}); err != nil {
		return nil, err
	}

	// Register seeded in-memory store
	if err := container.Provide(func(flags *CLIFlags) core.Store {
		return seedStore(flags)
	}); err != nil {
		return nil, err
	}
	if err := container.Provide(func(s core.Store) core.LeadSourceRepository { return s }); err != nil {
		return nil, err
	}
	if err := container.Provide(func(s core.Store) core.DetectionRuleRepository { return s }); err != nil {
		return nil, err
	}
	if err := container.Provide(func(s core.Store) core.PersonRepository { return s }); err != nil {
		return nil, err
	}
	if err := container.Provide(func(s core.Store) core.UserRepository { return s }); err != nil {
		return nil, err
	}
	if err := container.Provide(func(s core.Store) core.ActivityRepository { return s }); err != nil {
		return nil, err
	}

	// Register analyzer with no cache
	if err := container.Provide(func(
		sources core.LeadSourceRepository,
		rules core.DetectionRuleRepository,
		logger *zap.Logger,
	) *core.Analyzer {
		return core.NewAnalyzer(sources, rules, nil, logger, false, time.Duration(0))
	}); err != nil {
		return nil, err
	}

	// Register core services
	if err := container.Provide(core.NewLeadExtractor); err != nil {
		return nil, err
	}
	if err := container.Provide(core.NewIngestor); err != nil {
		return nil, err
	}

	// Register factories and the email intake
	if err := container.Provide(factory.NewTextProcessorFactory); err != nil {
		return nil, err
	}
	if err := container.Provide(factory.NewIntakeFactory); err != nil {
		return nil, err
	}
	if err := container.Provide(func(f *factory.TextProcessorFactory) *utils.TextProcessor {
		return f.CreateTextProcessor()
	}); err != nil {
		return nil, err
	}
	if err := container.Provide(func(f *factory.IntakeFactory) (ports.EmailIntake, error) {
		return f.CreateEmailIntake()
	}); err != nil {
		return nil, err
	}

	return container, nil
}

// createConfigFromFlags creates a configuration from command line flags
func createConfigFromFlags(flags *CLIFlags) *config.Config {
	v := config.NewEmptyViper()

	v.Set("server.intake_type", "cli")
	v.Set("server.ingest_user_id", "cli")
	v.Set("cli.verbose", flags.Verbose)
	v.Set("store.type", "memory")
	v.Set("cache.enabled", false)

	return config.NewFromViper(v)
}

// seedStore builds an in-memory store holding the inline source, the
// optional inline rule and an admin user to receive any created leads.
func seedStore(flags *CLIFlags) *memory.Store {
	store := memory.NewStore()

	store.SeedSources(core.LeadSource{
		ID:             "cli-source",
		Name:           flags.SourceName,
		EmailPatterns:  splitList(flags.EmailPatterns),
		DomainPatterns: splitList(flags.DomainPatterns),
		Keywords:       splitList(flags.Keywords),
		IsActive:       true,
	})

	if flags.RuleName != "" {
		store.SeedRules(core.DetectionRule{
			ID:       "cli-rule",
			Name:     flags.RuleName,
			IsActive: true,
			Conditions: core.RuleConditions{
				SubjectKeywords: splitList(flags.SubjectKeywords),
				BodyKeywords:    splitList(flags.BodyKeywords),
				MinConfidence:   flags.MinConfidence,
			},
		})
	}

	store.SeedUser(core.User{
		ID:    "cli-admin",
		Name:  "CLI Admin",
		Email: "admin@localhost",
		Role:  "admin",
	})

	return store
}

// splitList splits a comma-separated flag value, dropping empty entries.
func splitList(value string) []string {
	if value == "" {
		return nil
	}
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
