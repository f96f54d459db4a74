package config

import (
	"sync"
)

var (
	geminiOnce   sync.Once
	geminiConfig *GeminiConfig
)

type GeminiConfig struct {
	APIKey   string
	Model    string
	Endpoint string
}

func GetGeminiConfig() *GeminiConfig {
	geminiOnce.Do(func() {
		loadEnv()

		geminiConfig = &GeminiConfig{
			APIKey:   getenv("GEMINI_API_KEY", ""),
			Model:    getenv("GEMINI_MODEL", "gemini-2.0-flash-exp"),
			Endpoint: getenv("GEMINI_ENDPOINT", ""),
		}
	})
	return geminiConfig
}
