package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/cognicursos/backend-go/internal/kafka"
	"github.com/cognicursos/backend-go/internal/llm"
	"github.com/cognicursos/backend-go/internal/metrics"
	"github.com/cognicursos/backend-go/internal/models"
	"github.com/cognicursos/backend-go/internal/repository"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// AnswerSource tells whether an answer came from the model or the fallback table.
type AnswerSource string

const (
	SourceModel    AnswerSource = metrics.SourceModel
	SourceFallback AnswerSource = metrics.SourceFallback
)

// Mode is the value exposed as "modo" in the API.
func (s AnswerSource) Mode() string {
	if s == SourceModel {
		return "modelo"
	}
	return "fallback"
}

// Fallback reasons.
const (
	ReasonNoConfiguration = "no_active_configuration"
	ReasonClientError     = "client_error"
	ReasonPromptError     = "prompt_error"
	ReasonModelError      = "model_error"
	ReasonEmptyAnswer     = "empty_answer"
)

// Outcome is the answer plus how it was produced.
type Outcome struct {
	Answer         string
	Source         AnswerSource
	FallbackReason string
}

// InteractionPublisher receives an event for every persisted interaction.
type InteractionPublisher interface {
	PublishInteractionCreated(ctx context.Context, event kafka.InteractionEvent) error
}

// QuestionService answers course questions and records them as interactions.
type QuestionService struct {
	courses      repository.CourseRepository
	configs      repository.AIConfigurationRepository
	interactions repository.InteractionRepository
	providers    llm.Factory
	publisher    InteractionPublisher
	metrics      *metrics.Metrics
	validator    *Validator
	logger       *zap.Logger
	timeout      time.Duration
}

type QuestionServiceDeps struct {
	Courses      repository.CourseRepository
	Configs      repository.AIConfigurationRepository
	Interactions repository.InteractionRepository
	Providers    llm.Factory
	// Publisher is optional.
	Publisher InteractionPublisher
	// Metrics is optional.
	Metrics   *metrics.Metrics
	Validator *Validator
	Logger    *zap.Logger
	// Timeout bounds the model call; zero means llm.DefaultRequestTimeout.
	Timeout time.Duration
}

func NewQuestionService(deps QuestionServiceDeps) *QuestionService {
	if deps.Timeout <= 0 {
		deps.Timeout = llm.DefaultRequestTimeout
	}
	return &QuestionService{
		courses:      deps.Courses,
		configs:      deps.Configs,
		interactions: deps.Interactions,
		providers:    deps.Providers,
		publisher:    deps.Publisher,
		metrics:      deps.Metrics,
		validator:    deps.Validator,
		logger:       deps.Logger,
		timeout:      deps.Timeout,
	}
}

// Ask answers a question about a course. Provider failures never surface as
// errors; they produce a fallback answer instead.
func (s *QuestionService) Ask(ctx context.Context, courseID uint, in AskInput) (*AskResponse, error) {
	course, err := s.courses.GetByID(ctx, courseID)
	if err != nil {
		return nil, repoError(err, msgCourseNotFound)
	}
	in.Pergunta = strings.TrimSpace(in.Pergunta)
	if err := s.validator.Struct(in); err != nil {
		return nil, err
	}

	cfg, err := s.resolveConfiguration(ctx, in.ConfiguracaoID)
	if err != nil {
		return nil, repoError(err, msgAIConfigNotFound)
	}

	outcome := s.answer(ctx, course, cfg, in)
	tokens := len(strings.Fields(in.Pergunta)) + len(strings.Fields(outcome.Answer))

	interaction := &models.Interaction{
		CourseID:   course.ID,
		Question:   in.Pergunta,
		Answer:     outcome.Answer,
		TokensUsed: tokens,
	}
	if cfg != nil {
		interaction.AIConfigurationID = &cfg.ID
	}
	if err := s.interactions.Create(ctx, interaction); err != nil {
		s.logger.Error("Failed to save interaction", zap.Uint("course_id", course.ID), zap.Error(err))
		return nil, repoError(err, msgInteractionNotFound)
	}

	s.metrics.RecordQuestion(string(outcome.Source))
	s.publish(ctx, interaction, outcome)

	return &AskResponse{
		Resposta:         outcome.Answer,
		InteracaoID:      interaction.ID,
		TokensUtilizados: tokens,
		Modo:             outcome.Source.Mode(),
	}, nil
}

// resolveConfiguration prefers the requested active configuration, then the
// first active one by name. A nil result without error means none exists.
func (s *QuestionService) resolveConfiguration(ctx context.Context, requested *uint) (*models.AIConfiguration, error) {
	if requested != nil {
		cfg, err := s.configs.GetActiveByID(ctx, *requested)
		if err == nil {
			return cfg, nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		s.logger.Warn("Requested AI configuration missing or inactive, using default",
			zap.Uint("config_id", *requested))
	}

	cfg, err := s.configs.FirstActive(ctx)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return cfg, err
}

func (s *QuestionService) answer(ctx context.Context, course *models.Course, cfg *models.AIConfiguration, in AskInput) Outcome {
	if cfg == nil {
		return s.fallback(course, in.Pergunta, ReasonNoConfiguration, nil)
	}

	provider, err := s.providers.New(cfg)
	if err != nil {
		return s.fallback(course, in.Pergunta, ReasonClientError, err, zap.Uint("config_id", cfg.ID))
	}

	prompt, err := BuildPrompt(course, in.Pergunta, in.Contexto)
	if err != nil {
		return s.fallback(course, in.Pergunta, ReasonPromptError, err)
	}

	callCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	start := time.Now()
	answer, err := provider.Answer(callCtx, prompt, llm.Params{
		Model:       cfg.Model,
		Temperature: cfg.Temperature,
		MaxTokens:   cfg.MaxTokens,
	})
	s.metrics.RecordProviderCall(provider.Name(), err, time.Since(start))
	if err != nil {
		return s.fallback(course, in.Pergunta, ReasonModelError, err,
			zap.Uint("config_id", cfg.ID), zap.String("provider", provider.Name()))
	}
	if strings.TrimSpace(answer) == "" {
		return s.fallback(course, in.Pergunta, ReasonEmptyAnswer, nil, zap.Uint("config_id", cfg.ID))
	}

	s.logger.Info("Question answered by model",
		zap.Uint("course_id", course.ID),
		zap.Uint("config_id", cfg.ID),
		zap.String("provider", provider.Name()),
		zap.String("model", cfg.Model),
		zap.Duration("elapsed", time.Since(start)))
	return Outcome{Answer: answer, Source: SourceModel}
}

func (s *QuestionService) fallback(course *models.Course, question, reason string, cause error, fields ...zap.Field) Outcome {
	fields = append(fields, zap.Uint("course_id", course.ID), zap.String("reason", reason))
	if cause != nil {
		fields = append(fields, zap.Error(cause))
	}
	s.logger.Warn("Answering with fallback", fields...)
	return Outcome{
		Answer:         FallbackAnswer(course, question),
		Source:         SourceFallback,
		FallbackReason: reason,
	}
}

func (s *QuestionService) publish(ctx context.Context, interaction *models.Interaction, outcome Outcome) {
	if s.publisher == nil {
		return
	}
	err := s.publisher.PublishInteractionCreated(ctx, kafka.InteractionEvent{
		InteractionID:     interaction.ID,
		CourseID:          interaction.CourseID,
		AIConfigurationID: interaction.AIConfigurationID,
		Source:            string(outcome.Source),
		FallbackReason:    outcome.FallbackReason,
		TokensUsed:        interaction.TokensUsed,
		CreatedAt:         interaction.CreatedAt,
	})
	s.metrics.RecordEvent(err)
	if err != nil {
		s.logger.Warn("Failed to publish interaction event", zap.Uint("interaction_id", interaction.ID), zap.Error(err))
	}
}
