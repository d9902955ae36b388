// Package gemini turns free-text conversion questions into structured
// requests using the Google Gemini API.
package gemini

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"google.golang.org/genai"
)

// DefaultModel is used when no model is configured.
const DefaultModel = "gemini-2.5-flash"

var errMissingAPIKey = errors.New("gemini API key is required")

// ContentGenerator is the slice of the genai API the parser needs.
type ContentGenerator interface {
	GenerateContent(
		ctx context.Context,
		model string,
		contents []*genai.Content,
		config *genai.GenerateContentConfig,
	) (*genai.GenerateContentResponse, error)
}

type modelsAdapter struct {
	models *genai.Models
}

func (m *modelsAdapter) GenerateContent(
	ctx context.Context,
	model string,
	contents []*genai.Content,
	config *genai.GenerateContentConfig,
) (*genai.GenerateContentResponse, error) {
	resp, err := m.models.GenerateContent(ctx, model, contents, config)
	if err != nil {
		return nil, fmt.Errorf("genai.GenerateContent: %w", err)
	}
	return resp, nil
}

// Option configures a Client.
type Option func(*Client)

// WithModel overrides DefaultModel. Blank names are ignored.
func WithModel(name string) Option {
	return func(c *Client) {
		if name = strings.TrimSpace(name); name != "" {
			c.model = name
		}
	}
}

// Client parses conversion queries through a ContentGenerator.
type Client struct {
	generator ContentGenerator
	model     string
}

// NewClient creates a Gemini-backed client. The key is only checked for
// presence here; the API validates it on the first request.
func NewClient(ctx context.Context, apiKey string, opts ...Option) (*Client, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, errMissingAPIKey
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return NewClientWithGenerator(&modelsAdapter{models: client.Models}, opts...), nil
}

// NewClientWithGenerator creates a Client over any ContentGenerator.
func NewClientWithGenerator(generator ContentGenerator, opts ...Option) *Client {
	c := &Client{generator: generator, model: DefaultModel}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Model returns the model name sent with every request.
func (c *Client) Model() string {
	return c.model
}
