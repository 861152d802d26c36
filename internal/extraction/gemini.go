package extraction

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// defaultAPIKey is a build-time credential, set via
//
//	-ldflags "-X snapledger/internal/extraction.defaultAPIKey=..."
var defaultAPIKey string

// ResolveAPIKey resolves the recognition credential: the GEMINI_API_KEY
// environment variable wins, then the build-time default, then the supplied
// flag value. Absence is a *ConfigurationError; nothing can be extracted
// without a credential, so this is checked before any client is built.
func ResolveAPIKey(flagValue string) (string, error) {
	if key := os.Getenv("GEMINI_API_KEY"); key != "" {
		return key, nil
	}
	if defaultAPIKey != "" {
		return defaultAPIKey, nil
	}
	if flagValue != "" {
		return flagValue, nil
	}
	return "", &ConfigurationError{Reason: "no API key: set GEMINI_API_KEY or the --gemini-key flag"}
}

// Gemini implements the Extractor interface using Google Gemini.
type Gemini struct {
	client *genai.Client
	model  *genai.GenerativeModel
}

// NewGemini creates a Gemini extractor. An empty API key is a
// *ConfigurationError.
func NewGemini(ctx context.Context, apiKey, modelName string) (*Gemini, error) {
	if apiKey == "" {
		return nil, &ConfigurationError{Reason: "gemini api key is required"}
	}
	if modelName == "" {
		modelName = "gemini-2.5-pro"
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("creating gemini client: %w", err)
	}

	model := client.GenerativeModel(modelName)
	// Low temperature and a bounded answer: we want one JSON object back,
	// not prose.
	model.SetTemperature(0.1)
	model.SetMaxOutputTokens(1024)

	return &Gemini{client: client, model: model}, nil
}

// Extract sends the embedded payload and the fixed instruction to Gemini
// and parses the answer. No internal timeout; bound the call through ctx.
func (g *Gemini) Extract(ctx context.Context, payload *Payload) (*Candidate, error) {
	if payload.ByReference {
		// The service only accepts embedded bytes; routing should have
		// diverted this payload before reaching the client.
		return nil, &ServiceError{Err: errors.New("by-reference payload cannot be embedded")}
	}

	parts := []genai.Part{
		genai.ImageData("png", payload.Data),
		genai.Text(extractionPrompt),
	}

	resp, err := g.model.GenerateContent(ctx, parts...)
	if err != nil {
		return nil, &ServiceError{Err: err}
	}

	if len(resp.Candidates) == 0 {
		return nil, &FormatError{Reason: "empty candidates in response"}
	}
	if resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return nil, &FormatError{Reason: "candidate has no content parts"}
	}

	var text strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if t, ok := part.(genai.Text); ok {
			text.WriteString(string(t))
		}
	}

	return parseCandidateJSON(text.String())
}

// Close closes the Gemini client.
func (g *Gemini) Close() error {
	return g.client.Close()
}
