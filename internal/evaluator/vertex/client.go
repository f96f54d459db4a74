// Package vertex implements the evaluator backend on the Vertex AI
// generateContent REST endpoint. Text evaluation only: institutional
// deployments route visual grading through the Gemini API backend.
package vertex

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/feichai0017/pbit-mentor/config"
	"github.com/feichai0017/pbit-mentor/internal/errs"
	"github.com/feichai0017/pbit-mentor/internal/evaluator"
	"github.com/feichai0017/pbit-mentor/internal/models"
	"github.com/feichai0017/pbit-mentor/pkg/logger"
)

type generateRequest struct {
	Contents         []content        `json:"contents"`
	GenerationConfig generationConfig `json:"generationConfig"`
}

type content struct {
	Role  string `json:"role"`
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

type generationConfig struct {
	ResponseMimeType string `json:"responseMimeType"`
}

type generateResponse struct {
	Candidates []struct {
		Content struct {
			Parts []struct {
				Text string `json:"text"`
			} `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

type Client struct {
	projectID   string
	location    string
	model       string
	accessToken string
	logger      logger.Logger
	httpClient  *http.Client
}

func NewClient(cfg *config.VertexConfig, log logger.Logger) *Client {
	return &Client{
		projectID:   cfg.ProjectID,
		location:    cfg.Location,
		model:       cfg.Model,
		accessToken: cfg.AccessToken,
		logger:      log,
		httpClient: &http.Client{
			Timeout: 120 * time.Second,
		},
	}
}

// Evaluate scores a text answer.
func (c *Client) Evaluate(ctx context.Context, question, answer, rubric string) (*models.Evaluation, error) {
	reqBody := generateRequest{
		Contents: []content{{
			Role:  "user",
			Parts: []part{{Text: evaluator.BuildContent(question, answer, rubric)}},
		}},
		GenerationConfig: generationConfig{
			ResponseMimeType: "application/json",
		},
	}

	reqData, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	url := fmt.Sprintf(
		"https://%s-aiplatform.googleapis.com/v1/projects/%s/locations/%s/publishers/google/models/%s:generateContent",
		c.location, c.projectID, c.location, c.model,
	)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(reqData))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.accessToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("vertex returned status %d: %s", resp.StatusCode, string(body))
	}

	var result generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	if len(result.Candidates) == 0 || len(result.Candidates[0].Content.Parts) == 0 {
		return nil, fmt.Errorf("%w: vertex response contains no candidates", errs.ErrMalformedContent)
	}

	return evaluator.DecodeEvaluation(result.Candidates[0].Content.Parts[0].Text)
}

func (c *Client) Close() error {
	c.httpClient.CloseIdleConnections()
	return nil
}
