package config

import (
	"sync"
)

var (
	vertexOnce   sync.Once
	vertexConfig *VertexConfig
)

type VertexConfig struct {
	ProjectID   string
	Location    string
	Model       string
	AccessToken string
}

func GetVertexConfig() *VertexConfig {
	vertexOnce.Do(func() {
		loadEnv()

		vertexConfig = &VertexConfig{
			ProjectID:   getenv("VERTEX_PROJECT_ID", ""),
			Location:    getenv("VERTEX_LOCATION", "us-central1"),
			Model:       getenv("VERTEX_MODEL", "gemini-2.5-pro"),
			AccessToken: getenv("VERTEX_ACCESS_TOKEN", ""),
		}
	})
	return vertexConfig
}
