package services

import (
	"context"

	"github.com/cognicursos/backend-go/internal/models"
	"github.com/cognicursos/backend-go/internal/repository"
	"go.uber.org/zap"
)

type aiConfigurationFields struct {
	Nome        string  `json:"nome" validate:"required,max=100"`
	Provedor    string  `json:"provedor" validate:"oneof=deepseek openai"`
	Modelo      string  `json:"modelo" validate:"oneof=deepseek-chat deepseek-lite deepseek-v2 gpt-3.5-turbo gpt-4 gpt-4-turbo"`
	Temperatura float64 `json:"temperatura" validate:"gte=0,lte=2"`
	MaxTokens   int     `json:"max_tokens" validate:"gte=1"`
	ChaveAPI    string  `json:"chave_api" validate:"max=255"`
}

// AIConfigurationService 模型配置管理
type AIConfigurationService struct {
	repo      repository.AIConfigurationRepository
	validator *Validator
	logger    *zap.Logger
}

func NewAIConfigurationService(repo repository.AIConfigurationRepository, validator *Validator, logger *zap.Logger) *AIConfigurationService {
	return &AIConfigurationService{repo: repo, validator: validator, logger: logger}
}

func (s *AIConfigurationService) List(ctx context.Context, opts repository.ListOptions) ([]AIConfigurationResponse, error) {
	configs, err := s.repo.List(ctx, opts)
	if err != nil {
		return nil, repoError(err, msgAIConfigNotFound)
	}
	return mapSlice(configs, NewAIConfigurationResponse), nil
}

func (s *AIConfigurationService) Get(ctx context.Context, id uint) (*AIConfigurationResponse, error) {
	cfg, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, repoError(err, msgAIConfigNotFound)
	}
	resp := NewAIConfigurationResponse(cfg)
	return &resp, nil
}

func (s *AIConfigurationService) Create(ctx context.Context, in AIConfigurationInput) (*AIConfigurationResponse, error) {
	cfg := &models.AIConfiguration{
		Provider:    models.ProviderDeepSeek,
		Model:       models.ModelDeepSeekChat,
		Temperature: models.DefaultTemperature,
		MaxTokens:   models.DefaultMaxTokens,
		Active:      true,
	}
	if err := s.apply(cfg, in); err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, cfg); err != nil {
		return nil, repoError(err, msgAIConfigNotFound)
	}
	s.logger.Info("AI configuration created",
		zap.Uint("config_id", cfg.ID),
		zap.String("provider", string(cfg.Provider)),
		zap.String("model", cfg.Model))
	resp := NewAIConfigurationResponse(cfg)
	return &resp, nil
}

func (s *AIConfigurationService) Update(ctx context.Context, id uint, in AIConfigurationInput) (*AIConfigurationResponse, error) {
	cfg, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, repoError(err, msgAIConfigNotFound)
	}
	if err := s.apply(cfg, in); err != nil {
		return nil, err
	}
	if err := s.repo.Save(ctx, cfg); err != nil {
		return nil, repoError(err, msgAIConfigNotFound)
	}
	resp := NewAIConfigurationResponse(cfg)
	return &resp, nil
}

// Delete keeps historical interactions; their configuration reference is cleared.
func (s *AIConfigurationService) Delete(ctx context.Context, id uint) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return repoError(err, msgAIConfigNotFound)
	}
	s.logger.Info("AI configuration deleted", zap.Uint("config_id", id))
	return nil
}

func (s *AIConfigurationService) apply(cfg *models.AIConfiguration, in AIConfigurationInput) error {
	if v := trimmed(in.Nome); v != nil {
		cfg.Name = *v
	}
	if in.Descricao != nil {
		cfg.Description = *in.Descricao
	}
	if in.Provedor != nil {
		cfg.Provider = models.ProviderSource(*in.Provedor)
	}
	if in.Modelo != nil {
		cfg.Model = *in.Modelo
	}
	if in.Temperatura != nil {
		cfg.Temperature = *in.Temperatura
	}
	if in.MaxTokens != nil {
		cfg.MaxTokens = *in.MaxTokens
	}
	if in.ChaveAPI != nil {
		cfg.APIKey = *in.ChaveAPI
	}
	if in.Ativo != nil {
		cfg.Active = *in.Ativo
	}
	return s.validator.Struct(aiConfigurationFields{
		Nome:        cfg.Name,
		Provedor:    string(cfg.Provider),
		Modelo:      cfg.Model,
		Temperatura: cfg.Temperature,
		MaxTokens:   cfg.MaxTokens,
		ChaveAPI:    cfg.APIKey,
	})
}
