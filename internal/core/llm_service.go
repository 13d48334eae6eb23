package core

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

const (
	maxProjectNameWords = 6

	nameSystemInstruction = "You are a helpful assistant that names software product ideas. " +
		"The name should be 3-6 words maximum. Just return the name itself, nothing else."
)

// LLMService names projects with Gemini.
type LLMService struct {
	client *genai.Client
	model  string
}

func NewLLMService(ctx context.Context, apiKey, model string) (*LLMService, error) {
	if apiKey == "" {
		return nil, errors.New("gemini api key is empty")
	}
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create GenAI client: %w", err)
	}
	return &LLMService{client: client, model: model}, nil
}

func (s *LLMService) Close() error {
	if s.client == nil {
		return nil
	}
	return s.client.Close()
}

func (s *LLMService) NameProject(ctx context.Context, idea string) (string, error) {
	model := s.client.GenerativeModel(s.model)
	model.SystemInstruction = &genai.Content{
		Parts: []genai.Part{genai.Text(nameSystemInstruction)},
	}

	temp := float32(0.3)
	maxTokens := int32(20)
	model.GenerationConfig = genai.GenerationConfig{
		MaxOutputTokens: &maxTokens,
		Temperature:     &temp,
	}

	prompt := fmt.Sprintf("Suggest a short, catchy name (3-6 words maximum) for this project idea: %q.", idea)
	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", fmt.Errorf("gemini name generation request failed: %w", err)
	}
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", errors.New("LLM did not generate a name (empty response)")
	}

	var text strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			text.WriteString(string(txt))
		}
	}

	name := cleanProjectName(text.String())
	if name == "" {
		return "", errors.New("LLM generated an empty name")
	}
	return name, nil
}

// cleanProjectName strips quoting and punctuation the model tends to add,
// keeps the first line and caps the word count.
func cleanProjectName(raw string) string {
	line, _, _ := strings.Cut(strings.TrimSpace(raw), "\n")
	words := strings.Fields(strings.Trim(line, "\"'*`\r\t ."))
	if len(words) > maxProjectNameWords {
		words = words[:maxProjectNameWords]
	}
	return strings.Trim(strings.Join(words, " "), "\"'*`.")
}
