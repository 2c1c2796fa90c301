package service

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/Daffa964/api-edutrash/internal/adapter/vertex"
	"github.com/Daffa964/api-edutrash/internal/config"
	"github.com/Daffa964/api-edutrash/internal/repository"
)

const maxCategoryLength = 64

// FunFactService generates short educational texts about a waste category.
type FunFactService struct {
	generator vertex.Generator
	cache     repository.FunFactCache
	cacheTTL  time.Duration
	prompt    string
	timeout   time.Duration
	logger    *zap.Logger
	tracer    trace.Tracer
}

// NewFunFactService wires dependencies. generator and cache may be nil.
func NewFunFactService(generator vertex.Generator, cache repository.FunFactCache, cfg config.Config, logger *zap.Logger) *FunFactService {
	prompt := cfg.FunFactPromptFormat
	if prompt == "" {
		prompt = config.DefaultFunFactPrompt
	}
	if logger == nil {
		logger = zap.L()
	}
	return &FunFactService{
		generator: generator,
		cache:     cache,
		cacheTTL:  cfg.FunFactCacheTTL,
		prompt:    prompt,
		timeout:   cfg.GenAITimeout,
		logger:    logger,
		tracer:    otel.Tracer("github.com/Daffa964/api-edutrash/internal/service"),
	}
}

// WithTracer replaces the tracer used for service spans. A nil tracer is ignored.
func (s *FunFactService) WithTracer(tracer trace.Tracer) *FunFactService {
	if tracer != nil {
		s.tracer = tracer
	}
	return s
}

// Generate returns a fun fact for category, served from cache when possible.
func (s *FunFactService) Generate(ctx context.Context, category string) (string, error) {
	ctx, span := s.tracer.Start(ctx, "FunFactService.Generate")
	defer span.End()

	category = strings.TrimSpace(category)
	if category == "" {
		return "", newValidationError("Kategori wajib diisi")
	}
	if utf8.RuneCountInString(category) > maxCategoryLength {
		return "", newValidationError(fmt.Sprintf("Kategori maksimal %d karakter.", maxCategoryLength))
	}
	if s.generator == nil {
		return "", ErrGeneratorUnavailable
	}

	if s.cache != nil {
		fact, ok, err := s.cache.Get(ctx, category)
		if err != nil {
			s.logger.Warn("fun fact cache read failed", zap.String("category", category), zap.Error(err))
		} else if ok {
			return fact, nil
		}
	}

	genCtx := ctx
	if s.timeout > 0 {
		var cancel context.CancelFunc
		genCtx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	fact, err := s.generator.Generate(genCtx, fmt.Sprintf(s.prompt, category))
	if err != nil {
		span.RecordError(err)
		return "", fmt.Errorf("generate fun fact: %w", err)
	}
	fact = strings.TrimSpace(fact)
	if fact == "" {
		return "", ErrEmptyFunFact
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, category, fact, s.cacheTTL); err != nil {
			s.logger.Warn("fun fact cache write failed", zap.String("category", category), zap.Error(err))
		}
	}
	return fact, nil
}
