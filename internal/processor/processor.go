package processor

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/quantmind-br/smashy/internal/cache"
	"github.com/quantmind-br/smashy/internal/domain"
	"github.com/quantmind-br/smashy/internal/utils"
)

// ErrFileTooLarge indicates a file above the configured size limit
var ErrFileTooLarge = errors.New("file too large")

// Lookup resolves the skeletonizer for a file path
type Lookup interface {
	Lookup(file string) (domain.Skeletonizer, bool)
}

// Processor turns one candidate file into its document entry
type Processor struct {
	raw         bool
	registry    Lookup
	cache       domain.Cache
	cacheTTL    time.Duration
	maxFileSize int64
	logger      *utils.Logger
}

// Options contains options for creating a processor
type Options struct {
	// Raw disables skeletonization entirely
	Raw      bool
	Registry Lookup
	// Cache is optional; nil disables caching
	Cache    domain.Cache
	CacheTTL time.Duration
	// MaxFileSize in bytes; 0 means unlimited
	MaxFileSize int64
	Logger      *utils.Logger
}

// New creates a new processor
func New(opts Options) *Processor {
	logger := opts.Logger
	if logger == nil {
		logger = utils.NewNopLogger()
	}
	return &Processor{
		raw:         opts.Raw,
		registry:    opts.Registry,
		cache:       opts.Cache,
		cacheTTL:    opts.CacheTTL,
		maxFileSize: opts.MaxFileSize,
		logger:      logger,
	}
}

// Process reads file and returns its entry. Raw mode and extensions with
// no registered skeletonizer pass the content through unchanged.
// Failures are *domain.ReadError or *domain.TransformError.
func (p *Processor) Process(ctx context.Context, file domain.CandidateFile) (*domain.ProcessedFile, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	content, err := p.read(file)
	if err != nil {
		return nil, err
	}

	result := &domain.ProcessedFile{RelPath: file.RelPath, Content: content}
	if p.raw || p.registry == nil {
		return result, nil
	}

	s, ok := p.registry.Lookup(file.RelPath)
	if !ok {
		return result, nil
	}

	skeleton, err := p.skeletonize(ctx, file, s, content)
	if err != nil {
		return nil, err
	}
	result.Content = skeleton
	result.Skeleton = true
	return result, nil
}

func (p *Processor) read(file domain.CandidateFile) (string, error) {
	if p.maxFileSize > 0 {
		info, err := os.Stat(file.AbsPath)
		if err != nil {
			return "", domain.NewReadError(file.RelPath, err)
		}
		if info.Size() > p.maxFileSize {
			return "", domain.NewReadError(file.RelPath,
				fmt.Errorf("%w: %d bytes exceeds limit of %d", ErrFileTooLarge, info.Size(), p.maxFileSize))
		}
	}

	data, err := os.ReadFile(file.AbsPath)
	if err != nil {
		return "", domain.NewReadError(file.RelPath, err)
	}

	text, err := DecodeText(data)
	if err != nil {
		return "", domain.NewReadError(file.RelPath, err)
	}
	return text, nil
}

func (p *Processor) skeletonize(ctx context.Context, file domain.CandidateFile, s domain.Skeletonizer, content string) (string, error) {
	lang := s.Language()
	key := cache.SkeletonKey(lang, content)
	log := p.logger.WithFile(file.RelPath)

	if p.cache != nil {
		data, err := p.cache.Get(ctx, key)
		if err == nil {
			log.Debug().Msg("Skeleton cache hit")
			return string(data), nil
		}
		if !errors.Is(err, domain.ErrCacheMiss) {
			// an unreadable entry is evicted and rebuilt below
			log.Debug().Err(err).Msg("Skeleton cache read failed")
			if err := p.cache.Delete(ctx, key); err != nil {
				log.Debug().Err(err).Msg("Skeleton cache evict failed")
			}
		}
	}

	out, err := s.Skeletonize(content)
	if err != nil {
		return "", domain.NewTransformError(file.RelPath, lang, err)
	}

	if p.cache != nil {
		if err := p.cache.Set(ctx, key, []byte(out), p.cacheTTL); err != nil {
			log.Debug().Err(err).Msg("Skeleton cache write failed")
		}
	}

	return out, nil
}
