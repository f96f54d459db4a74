// Package gemini implements the evaluator backend on the Google
// Generative Language REST API.
package gemini

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/feichai0017/pbit-mentor/config"
	"github.com/feichai0017/pbit-mentor/internal/errs"
	"github.com/feichai0017/pbit-mentor/internal/evaluator"
	"github.com/feichai0017/pbit-mentor/internal/models"
	"github.com/feichai0017/pbit-mentor/internal/submission"
	"github.com/feichai0017/pbit-mentor/pkg/logger"
)

const defaultEndpoint = "https://generativelanguage.googleapis.com/v1beta"

// responseSchema forces the API to emit the two-field verdict object.
var responseSchema = map[string]interface{}{
	"type": "object",
	"properties": map[string]interface{}{
		"score": map[string]interface{}{
			"type":        "number",
			"description": "The numerical score for the evaluation",
		},
		"feedback": map[string]interface{}{
			"type":        "string",
			"description": "Detailed feedback explaining the score",
		},
	},
	"required": []string{"score", "feedback"},
}

type generateRequest struct {
	Contents         []content        `json:"contents"`
	GenerationConfig generationConfig `json:"generationConfig"`
}

type content struct {
	Parts []part `json:"parts"`
}

type part struct {
	Text       string      `json:"text,omitempty"`
	InlineData *inlineData `json:"inline_data,omitempty"`
}

type inlineData struct {
	MimeType string `json:"mime_type"`
	Data     string `json:"data"`
}

type generationConfig struct {
	ResponseMimeType string                 `json:"response_mime_type"`
	ResponseSchema   map[string]interface{} `json:"response_schema"`
}

type generateResponse struct {
	Candidates []struct {
		Content struct {
			Parts []struct {
				Text string `json:"text"`
			} `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
	Error *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Status  string `json:"status"`
	} `json:"error,omitempty"`
}

type Client struct {
	endpoint   string
	model      string
	apiKey     string
	logger     logger.Logger
	httpClient *http.Client
}

func NewClient(cfg *config.GeminiConfig, log logger.Logger) *Client {
	endpoint := cfg.Endpoint
	if endpoint == "" {
		endpoint = defaultEndpoint
	}
	return &Client{
		endpoint: endpoint,
		model:    cfg.Model,
		apiKey:   cfg.APIKey,
		logger:   log,
		httpClient: &http.Client{
			Timeout: 120 * time.Second,
		},
	}
}

// Evaluate scores a text answer.
func (c *Client) Evaluate(ctx context.Context, question, answer, rubric string) (*models.Evaluation, error) {
	parts := []part{{Text: evaluator.BuildContent(question, answer, rubric)}}
	return c.generate(ctx, parts)
}

// EvaluateVisual scores a PDF document by sending it inline alongside
// the prompt. The file is checked locally first so a broken export
// fails fast instead of burning an API call.
func (c *Client) EvaluateVisual(ctx context.Context, question, rubric, pdfPath string) (*models.Evaluation, error) {
	pages, err := submission.CheckPDF(pdfPath)
	if err != nil {
		return nil, err
	}
	c.logger.Debug("Sending PDF for visual evaluation",
		logger.String("path", pdfPath),
		logger.Int("pages", pages),
	)

	raw, err := os.ReadFile(pdfPath)
	if err != nil {
		return nil, fmt.Errorf("read pdf %s: %w", pdfPath, err)
	}

	parts := []part{
		{Text: evaluator.BuildVisualContent(question, rubric)},
		{InlineData: &inlineData{
			MimeType: "application/pdf",
			Data:     base64.StdEncoding.EncodeToString(raw),
		}},
	}
	return c.generate(ctx, parts)
}

func (c *Client) generate(ctx context.Context, parts []part) (*models.Evaluation, error) {
	reqBody := generateRequest{
		Contents: []content{{Parts: parts}},
		GenerationConfig: generationConfig{
			ResponseMimeType: "application/json",
			ResponseSchema:   responseSchema,
		},
	}

	reqData, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/models/%s:generateContent?key=%s", c.endpoint, c.model, c.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(reqData))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("gemini returned status %d: %s", resp.StatusCode, string(body))
	}

	var result generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	if result.Error != nil {
		return nil, fmt.Errorf("gemini error %d (%s): %s", result.Error.Code, result.Error.Status, result.Error.Message)
	}
	if len(result.Candidates) == 0 || len(result.Candidates[0].Content.Parts) == 0 {
		return nil, fmt.Errorf("%w: gemini response contains no candidates", errs.ErrMalformedContent)
	}

	return evaluator.DecodeEvaluation(result.Candidates[0].Content.Parts[0].Text)
}

func (c *Client) Close() error {
	c.httpClient.CloseIdleConnections()
	return nil
}
