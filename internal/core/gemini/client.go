package gemini

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/bytedance/sonic"

	"culturescan-server-go/internal/domain/contamination"
	"culturescan-server-go/internal/platform/config"
	"culturescan-server-go/internal/platform/errors"
	"culturescan-server-go/internal/platform/logging"
)

// visionPrompt instructs the model to answer with bare JSON. The model does
// not always comply, which is why the extractor tolerates fences and prose.
const visionPrompt = `Analyze this microbiology culture image for contamination.

You MUST respond with ONLY valid JSON in this exact format (no markdown, no code blocks, no extra text):
{
    "contaminated": true or false,
    "confidence": a number between 0.0 and 1.0,
    "reason": "a detailed explanation of your analysis"
}

Look for:
- Visible contaminants (foreign particles, debris, unwanted growth)
- Signs of contamination (unusual colors, textures, or patterns)
- Overall culture health and purity

Return ONLY the JSON object, nothing else.`

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
	Temperature      float64 `json:"temperature"`
	ResponseMimeType string  `json:"response_mime_type"`
}

// Client talks to the Gemini generateContent REST endpoint. The credential is
// attached as a request header and never changes after construction.
type Client struct {
	cfg        config.GeminiConfig
	httpClient *http.Client
	logger     *logging.Logger
}

// NewClient builds a vision client. A missing API key is a configuration
// error so callers can refuse to start.
func NewClient(cfg config.GeminiConfig, logger *logging.Logger) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, errors.New(errors.KindConfig, "gemini.new", "API key is required")
	}
	if cfg.Timeout <= 0 {
		return nil, errors.New(errors.KindConfig, "gemini.new", "timeout must be positive")
	}

	return &Client{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		logger:     logger,
	}, nil
}

func (c *Client) endpoint() string {
	return fmt.Sprintf("%s/models/%s:generateContent",
		strings.TrimSuffix(c.cfg.BaseURL, "/"), c.cfg.ModelName)
}

// Analyze sends one base64 image (without data-URL prefix) to the upstream
// vision model and returns its raw response envelope. Transport failures,
// including non-2xx statuses, carry the upstream detail.
func (c *Client) Analyze(ctx context.Context, base64Image string) (*contamination.Envelope, error) {
	request := generateRequest{
		Contents: []content{
			{Parts: []part{
				{Text: visionPrompt},
				{InlineData: &inlineData{
					MimeType: "image/jpeg",
					Data:     base64Image,
				}},
			}},
		},
		GenerationConfig: generationConfig{
			Temperature:      c.cfg.Temperature,
			ResponseMimeType: "application/json",
		},
	}

	body, err := sonic.Marshal(request)
	if err != nil {
		return nil, errors.Wrap(errors.KindTransport, "gemini.analyze", "failed to marshal request", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint(), bytes.NewReader(body))
	if err != nil {
		return nil, errors.Wrap(errors.KindTransport, "gemini.analyze", "failed to create request", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("x-goog-api-key", c.cfg.APIKey)

	c.logger.DebugTag("Gemini", "invoke vision API: model=%s image_chars=%d",
		c.cfg.ModelName, len(base64Image))

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, errors.Wrap(errors.KindTransport, "gemini.analyze", "Gemini API request failed", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrap(errors.KindTransport, "gemini.analyze", "failed to read response body", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, errors.New(errors.KindTransport, "gemini.analyze",
			fmt.Sprintf("Gemini API returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(respBody))))
	}

	var envelope contamination.Envelope
	if err := sonic.Unmarshal(respBody, &envelope); err != nil {
		return nil, errors.Wrap(errors.KindTransport, "gemini.analyze", "failed to decode response body", err)
	}

	return &envelope, nil
}
