package llm

import (
	"fmt"
	"time"

	"github.com/cognicursos/backend-go/internal/config"
	"github.com/cognicursos/backend-go/internal/models"
)

// Factory builds a provider for a stored configuration.
type Factory interface {
	New(cfg *models.AIConfiguration) (Provider, error)
}

// DefaultRequestTimeout bounds a single completion call.
const DefaultRequestTimeout = 60 * time.Second

type providerFactory struct {
	ai config.AIConfig
}

// NewFactory returns a factory keyed on the configuration's provider field.
// Keys from ai are used only when the configuration has none.
func NewFactory(ai config.AIConfig) Factory {
	if ai.RequestTimeout <= 0 {
		ai.RequestTimeout = DefaultRequestTimeout
	}
	return &providerFactory{ai: ai}
}

func (f *providerFactory) New(cfg *models.AIConfiguration) (Provider, error) {
	switch cfg.Provider {
	case models.ProviderDeepSeek:
		return NewOpenAICompatible(string(cfg.Provider), firstNonEmpty(cfg.APIKey, f.ai.DeepSeekAPIKey), f.ai.DeepSeekBaseURL, f.ai.RequestTimeout)
	case models.ProviderOpenAI:
		return NewOpenAICompatible(string(cfg.Provider), firstNonEmpty(cfg.APIKey, f.ai.OpenAIAPIKey), f.ai.OpenAIBaseURL, f.ai.RequestTimeout)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedProvider, cfg.Provider)
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
