package gemini

import (
	"context"
	"sync"

	"google.golang.org/genai"
)

type mockGenerator struct {
	response *genai.GenerateContentResponse
	err      error
	delay    bool

	mu       sync.Mutex
	model    string
	contents []*genai.Content
}

func (m *mockGenerator) GenerateContent(
	ctx context.Context,
	model string,
	contents []*genai.Content,
	_ *genai.GenerateContentConfig,
) (*genai.GenerateContentResponse, error) {
	m.mu.Lock()
	m.model = model
	m.contents = contents
	m.mu.Unlock()

	if m.delay {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	return m.response, m.err
}

func (m *mockGenerator) lastModel() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.model
}

func (m *mockGenerator) prompt() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.contents) == 0 || len(m.contents[0].Parts) == 0 {
		return ""
	}
	return m.contents[0].Parts[0].Text
}

func textResponse(text string) *genai.GenerateContentResponse {
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{
			{Content: &genai.Content{Parts: []*genai.Part{{Text: text}}}},
		},
	}
}
