package config

// defaultModels maps each provider to its default classification model.
var defaultModels = map[ProviderType]string{
	ProviderGroq:   "openai/gpt-oss-120b",
	ProviderOpenAI: "gpt-4o-mini",
	ProviderOllama: "llama3",
}

// DefaultModel returns the default model for the given provider, falling
// back to the Groq default for unknown providers.
func DefaultModel(provider ProviderType) string {
	if m, ok := defaultModels[provider]; ok {
		return m
	}
	return defaultModels[ProviderGroq]
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Provider:     ProviderGroq,
		Model:        DefaultModel(ProviderGroq),
		Temperature:  0.0,
		MaxTokens:    512,
		HistoryLimit: 10,
		Port:         8710,
	}
}
