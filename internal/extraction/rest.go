package extraction

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// RESTClient implements the Extractor interface against the recognition
// service's plain HTTP generateContent endpoint, without the SDK. Useful
// where the SDK's transitive footprint is unwanted or the endpoint is a
// self-hosted proxy.
type RESTClient struct {
	baseURL string
	model   string
	apiKey  string
	client  *http.Client
}

// NewRESTClient creates a REST extractor. An empty API key is a
// *ConfigurationError.
func NewRESTClient(baseURL, modelName, apiKey string) (*RESTClient, error) {
	if apiKey == "" {
		return nil, &ConfigurationError{Reason: "api key is required"}
	}
	if baseURL == "" {
		baseURL = "https://generativelanguage.googleapis.com/v1beta"
	}
	if modelName == "" {
		modelName = "gemini-2.5-pro"
	}

	return &RESTClient{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		model:   modelName,
		apiKey:  apiKey,
		// No client timeout; callers bound each call through ctx.
		client: &http.Client{},
	}, nil
}

type generateRequest struct {
	Contents         []restContent    `json:"contents"`
	GenerationConfig generationConfig `json:"generationConfig"`
}

type restContent struct {
	Parts []restPart `json:"parts"`
}

type restPart struct {
	Text       string      `json:"text,omitempty"`
	InlineData *inlineData `json:"inline_data,omitempty"`
}

type inlineData struct {
	MIMEType string `json:"mime_type"`
	Data     string `json:"data"` // base64
}

type generationConfig struct {
	Temperature     float64 `json:"temperature"`
	MaxOutputTokens int     `json:"maxOutputTokens"`
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

// Extract posts the instruction plus inline image bytes and parses the
// first candidate's concatenated text parts.
func (c *RESTClient) Extract(ctx context.Context, payload *Payload) (*Candidate, error) {
	if payload.ByReference {
		return nil, &ServiceError{Err: errors.New("by-reference payload cannot be embedded")}
	}

	reqBody := generateRequest{
		Contents: []restContent{{
			Parts: []restPart{
				{Text: extractionPrompt},
				{InlineData: &inlineData{
					MIMEType: payload.MIME,
					Data:     base64.StdEncoding.EncodeToString(payload.Data),
				}},
			},
		}},
		GenerationConfig: generationConfig{Temperature: 0.1, MaxOutputTokens: 1024},
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return nil, &ServiceError{Err: fmt.Errorf("marshaling request: %w", err)}
	}

	url := fmt.Sprintf("%s/models/%s:generateContent?key=%s", c.baseURL, c.model, c.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, &ServiceError{Err: fmt.Errorf("creating request: %w", err)}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, &ServiceError{Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, &ServiceError{Err: fmt.Errorf("status %d: %s", resp.StatusCode, string(body))}
	}

	var genResp generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&genResp); err != nil {
		return nil, &FormatError{Reason: "decoding response: " + err.Error()}
	}

	if len(genResp.Candidates) == 0 {
		return nil, &FormatError{Reason: "empty candidates in response"}
	}

	var text strings.Builder
	for _, part := range genResp.Candidates[0].Content.Parts {
		text.WriteString(part.Text)
	}

	return parseCandidateJSON(text.String())
}

// Close closes the REST client (no-op for the shared HTTP client).
func (c *RESTClient) Close() error {
	return nil
}
