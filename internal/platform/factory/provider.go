package factory

import (
	"time"

	"github.com/ecotrace/ecotrace-server/internal/config"
	"github.com/ecotrace/ecotrace-server/internal/insight"
	"github.com/ecotrace/ecotrace-server/internal/insight/gemini"
)

// NewInsightProvider builds the generative insight provider. With no API
// key configured the returned provider reports Configured() == false and
// the insight agent never calls it.
func NewInsightProvider(cfg *config.Config) insight.Provider {
	baseURL := cfg.GeminiBaseURL
	if baseURL == "" {
		baseURL = gemini.DefaultBaseURL
	}
	timeout := time.Duration(cfg.ProviderTimeoutSeconds) * time.Second
	return gemini.New(baseURL, cfg.GeminiAPIKey, cfg.GeminiModel, timeout)
}
