package app

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/quantmind-br/smashy/internal/cache"
	"github.com/quantmind-br/smashy/internal/config"
	"github.com/quantmind-br/smashy/internal/discovery"
	"github.com/quantmind-br/smashy/internal/domain"
	"github.com/quantmind-br/smashy/internal/output"
	"github.com/quantmind-br/smashy/internal/pipeline"
	"github.com/quantmind-br/smashy/internal/processor"
	"github.com/quantmind-br/smashy/internal/skeleton"
	"github.com/quantmind-br/smashy/internal/utils"
)

// Orchestrator coordinates discovery, processing and aggregation
type Orchestrator struct {
	config         *config.Config
	logger         *utils.Logger
	registry       *skeleton.Registry
	cache          domain.Cache
	progressOutput io.Writer
}

// OrchestratorOptions contains options for creating an orchestrator
type OrchestratorOptions struct {
	Config  *config.Config
	Verbose bool
	// Logger overrides the logger built from Config.Logging
	Logger *utils.Logger
	// Registry defaults to skeleton.NewDefaultRegistry
	Registry *skeleton.Registry
	// Cache overrides the cache built from Config.Cache
	Cache domain.Cache
	// ProgressOutput overrides the progress destination. By default the
	// bar goes to stderr when enabled and stderr is a terminal.
	ProgressOutput io.Writer
}

// Summary describes one run
type Summary struct {
	Root       string
	Candidates int
	Files      int
	Dropped    int
	// WalkErr is the discovery failure, if any
	WalkErr  error
	Duration time.Duration
}

// NewOrchestrator creates a new orchestrator with the given configuration
func NewOrchestrator(opts OrchestratorOptions) (*Orchestrator, error) {
	cfg := opts.Config
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}

	logger := opts.Logger
	if logger == nil {
		logLevel := config.DefaultLogLevel
		logFormat := config.DefaultLogFormat
		if cfg.Logging.Level != "" {
			logLevel = cfg.Logging.Level
		}
		if cfg.Logging.Format != "" {
			logFormat = cfg.Logging.Format
		}
		logger = utils.NewLogger(utils.LoggerOptions{
			Level:   logLevel,
			Format:  logFormat,
			Verbose: opts.Verbose,
		})
	}

	registry := opts.Registry
	if registry == nil {
		registry = skeleton.NewDefaultRegistry()
	}

	c := opts.Cache
	if c == nil && cfg.Cache.Enabled && !cfg.Raw {
		bc, err := cache.NewBadgerCache(cache.Options{
			Directory: utils.ExpandPath(cfg.Cache.Directory),
		})
		if err != nil {
			logger.Warn().Err(err).Msg("Skeleton cache unavailable, continuing without it")
		} else {
			c = bc
		}
	}

	progressOutput := opts.ProgressOutput
	if progressOutput == nil && cfg.Progress && utils.IsTerminal(os.Stderr) {
		progressOutput = os.Stderr
	}

	return &Orchestrator{
		config:         cfg,
		logger:         logger,
		registry:       registry,
		cache:          c,
		progressOutput: progressOutput,
	}, nil
}

// Run flattens the configured input tree into a document. It never fails:
// discovery errors are logged and reported in the summary, and broken
// files are dropped, so the returned document is always well-formed.
func (o *Orchestrator) Run(ctx context.Context) (string, Summary) {
	start := time.Now()
	summary := Summary{}

	root, err := utils.ResolveRoot(o.config.Input)
	if err != nil {
		summary.WalkErr = domain.NewWalkError(o.config.Input, err)
		o.logger.Error().Err(summary.WalkErr).Msg("Discovery failed")
		summary.Duration = time.Since(start)
		return output.Serialize(nil), summary
	}
	summary.Root = root

	o.logger.Info().
		Str("input", root).
		Bool("raw", o.config.Raw).
		Bool("cache", o.cache != nil).
		Msg("Processing input directory")

	candidates, err := o.discover(ctx, root)
	if err != nil {
		summary.WalkErr = err
		o.logger.Error().
			Err(err).
			Int("candidates", len(candidates)).
			Msg("Discovery failed")
	}
	summary.Candidates = len(candidates)

	proc := processor.New(processor.Options{
		Raw:         o.config.Raw,
		Registry:    o.registry,
		Cache:       o.cache,
		CacheTTL:    o.config.Cache.TTL,
		MaxFileSize: o.config.MaxFileSizeBytes(),
		Logger:      o.logger.WithComponent("processor"),
	})
	p := pipeline.New(pipeline.Options{
		Logger:         o.logger.WithComponent("pipeline"),
		TaskTimeout:    o.config.Pipeline.TaskTimeout,
		ProgressOutput: o.progressOutput,
	})

	result := p.Run(ctx, candidates, proc.Process)
	document := output.Serialize(result.Files)

	summary.Files = len(result.Files)
	summary.Dropped = result.Dropped
	summary.Duration = time.Since(start)

	o.logger.Info().
		Int("discovered", summary.Candidates).
		Int("emitted", summary.Files).
		Int("dropped", summary.Dropped).
		Dur("duration", summary.Duration).
		Msg("Codebase flattening completed")

	return document, summary
}

// discover runs both discovery passes. A failed ignore pass yields no
// candidates; a failed listing pass keeps what it found so far.
func (o *Orchestrator) discover(ctx context.Context, root string) ([]domain.CandidateFile, error) {
	excludes := discovery.NewExcludeSet(o.config.Exclude)

	index, err := discovery.BuildIgnoreIndex(ctx, root, excludes)
	if err != nil {
		return nil, err
	}
	o.logger.Debug().
		Int("gitignores", index.Len()).
		Strs("excludes", excludes.Patterns()).
		Msg("Built ignore index")

	walker := discovery.NewWalker(discovery.WalkerOptions{
		Excludes: excludes,
		Index:    index,
		Logger:   o.logger.WithComponent("discovery"),
	})
	return walker.Walk(ctx, root)
}

// Close releases all resources held by the orchestrator
func (o *Orchestrator) Close() error {
	if o.cache != nil {
		return o.cache.Close()
	}
	return nil
}
