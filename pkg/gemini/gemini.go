package gemini

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

type summarizer struct {
	client *genai.Client
	model  *genai.GenerativeModel
}

// New creates a Gemini-backed summarizer. The caller owns Close via the
// returned client's lifetime; in practice the process exits with it.
func New(ctx context.Context, apiKey, modelName string) (ISummarizer, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini: missing API key: %w", ErrNotConfigured)
	}
	if modelName == "" {
		modelName = DefaultModel
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("gemini: failed to create client: %w", err)
	}

	model := client.GenerativeModel(modelName)
	model.SetTemperature(summaryTemperature)
	model.SetMaxOutputTokens(summaryMaxOutputTokens)
	model.SystemInstruction = &genai.Content{
		Parts: []genai.Part{genai.Text(SummarySystemInstruction)},
	}

	return &summarizer{client: client, model: model}, nil
}

// SummarizePullRequest sends one generation request and returns the trimmed
// summary text.
func (s *summarizer) SummarizePullRequest(ctx context.Context, req SummaryRequest) (string, error) {
	prompt := BuildPRSummaryPrompt(req)

	resp, err := s.model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", fmt.Errorf("gemini: generate content: %w", err)
	}

	text := flattenResponse(resp)
	if text == "" {
		return "", ErrEmptyResponse
	}
	return text, nil
}

// flattenResponse concatenates the text parts of the first candidate.
func flattenResponse(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return ""
	}

	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			sb.WriteString(string(text))
		}
	}
	return strings.TrimSpace(sb.String())
}
