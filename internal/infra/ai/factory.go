package ai

import (
	"fmt"

	"github.com/aareend/llm-text-processor/internal/config"
	"github.com/aareend/llm-text-processor/internal/domain/analysis"
	"github.com/aareend/llm-text-processor/internal/infra/ai/ollama"
	"github.com/aareend/llm-text-processor/internal/infra/ai/openai"
)

// New selects the provider variant once, at startup. The variant never
// changes afterwards; an unknown name is a fatal configuration error.
func New(cfg *config.Config) (analysis.Backend, error) {
	p := cfg.Provider
	switch p.Name {
	case config.ProviderOpenAI:
		return openai.NewClient(p.APIKey, p.Model, p.BaseURL)
	case config.ProviderOllama:
		return ollama.NewClient(ollama.Config{
			BaseURL:        p.BaseURL,
			Model:          p.Model,
			TimeoutSeconds: p.TimeoutSeconds,
		})
	default:
		return nil, fmt.Errorf("unsupported provider: %q (valid: %s, %s)",
			p.Name, config.ProviderOpenAI, config.ProviderOllama)
	}
}
