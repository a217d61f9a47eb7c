package fortune

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/genai"
)

const (
	defaultModel = "gemini-3-flash-preview"

	systemInstruction = "You are a professional fortune teller for the 2026 Year of the Red Horse. " +
		"Provide encouraging and energetic responses in Korean. Keep the response short and impactful."
)

// GeminiGenerator generates fortunes through the Gemini API.
type GeminiGenerator struct {
	client *genai.Client
	model  string
}

func NewGeminiGenerator(ctx context.Context, apiKey, model string) (*GeminiGenerator, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini API key is required")
	}
	if model == "" {
		model = defaultModel
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey: apiKey,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create genai client: %w", err)
	}

	return &GeminiGenerator{client: client, model: model}, nil
}

func (g *GeminiGenerator) Generate(ctx context.Context, content string) (string, error) {
	prompt := fmt.Sprintf("2026년 병오년(붉은 말의 해)를 맞아 다음 소원에 대한 힘찬 응원과 운세를 한 문장으로 적어줘: %q", content)

	resp, err := g.client.Models.GenerateContent(ctx, g.model,
		genai.Text(prompt),
		&genai.GenerateContentConfig{
			SystemInstruction: genai.NewContentFromText(systemInstruction, genai.RoleUser),
		},
	)
	if err != nil {
		return "", fmt.Errorf("fortune generation failed: %w", err)
	}
	return strings.TrimSpace(resp.Text()), nil
}
