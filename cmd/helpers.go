package cmd

import (
	"fmt"

	"github.com/procureml/poclass/internal/classify"
	"github.com/procureml/poclass/internal/config"
	"github.com/procureml/poclass/internal/llm"
	"github.com/procureml/poclass/internal/taxonomy"
)

// loadConfig reads and validates the configuration file.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w (run `poclass init`)", err)
	}
	return cfg, nil
}

// buildClassifier assembles the provider chain and classifier from config.
// The provider stack from the inside out: concrete provider, single
// fixed-delay transport retry, optional rate limiter.
func buildClassifier(cfg *config.Config) (*classify.Classifier, error) {
	base, err := llm.NewProvider(string(cfg.Provider), cfg.Model, cfg.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("creating provider: %w", err)
	}

	var provider llm.Provider = llm.NewRetryingProvider(base)
	if cfg.RequestsPerMinute > 0 {
		provider = llm.NewRateLimitedProvider(provider, cfg.RequestsPerMinute)
	}

	session := classify.NewSession(cfg.HistoryLimit)
	return classify.NewClassifier(provider, cfg.Model, taxonomy.Load(), session, classify.Options{
		Temperature: cfg.Temperature,
		MaxTokens:   cfg.MaxTokens,
	}), nil
}
