package ai

import (
	"strings"

	"github.com/jhoicas/abs-rental-api/internal/application/ports"
	"github.com/jhoicas/abs-rental-api/pkg/config"
)

// NewFromConfig elige el proveedor configurado. Devuelve nil si no hay ninguno utilizable.
func NewFromConfig(cfg config.AIConfig) ports.LLMService {
	switch strings.ToLower(cfg.Provider) {
	case "anthropic":
		if cfg.AnthropicAPIKey != "" {
			return NewAnthropicService(cfg.AnthropicAPIKey, cfg.AnthropicModel)
		}
	case "gemini":
		if cfg.GeminiAPIKey != "" {
			return NewGeminiService(cfg.GeminiAPIKey, cfg.GeminiModel)
		}
	}
	return nil
}
