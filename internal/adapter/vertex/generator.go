package vertex

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/genai"
)

// Generator produces free-form text for a prompt.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// VertexGenerator calls a Vertex AI hosted model.
type VertexGenerator struct {
	client *genai.Client
	model  string
	config *genai.GenerateContentConfig
}

var _ Generator = (*VertexGenerator)(nil)

// NewVertexGenerator builds a client using application default credentials.
func NewVertexGenerator(ctx context.Context, project, location, model string) (*VertexGenerator, error) {
	if strings.TrimSpace(project) == "" || strings.TrimSpace(model) == "" {
		return nil, fmt.Errorf("genai project and model are required")
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		Project:  project,
		Location: location,
		Backend:  genai.BackendVertexAI,
	})
	if err != nil {
		return nil, fmt.Errorf("genai client: %w", err)
	}
	return &VertexGenerator{client: client, model: model, config: generationConfig()}, nil
}

func generationConfig() *genai.GenerateContentConfig {
	off := func(category genai.HarmCategory) *genai.SafetySetting {
		return &genai.SafetySetting{Category: category, Threshold: genai.HarmBlockThresholdOff}
	}
	return &genai.GenerateContentConfig{
		Temperature:     genai.Ptr[float32](1),
		TopP:            genai.Ptr[float32](0.95),
		MaxOutputTokens: 8192,
		SafetySettings: []*genai.SafetySetting{
			off(genai.HarmCategoryHateSpeech),
			off(genai.HarmCategoryDangerousContent),
			off(genai.HarmCategorySexuallyExplicit),
			off(genai.HarmCategoryHarassment),
		},
	}
}

// Generate returns the text of the first candidate, or "" when the model produced none.
func (g *VertexGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	resp, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(prompt), g.config)
	if err != nil {
		return "", fmt.Errorf("generate content: %w", err)
	}
	return firstCandidateText(resp), nil
}

func firstCandidateText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 {
		return ""
	}
	candidate := resp.Candidates[0]
	if candidate == nil || candidate.Content == nil {
		return ""
	}
	var b strings.Builder
	for _, part := range candidate.Content.Parts {
		if part == nil || part.Thought {
			continue
		}
		b.WriteString(part.Text)
	}
	return strings.TrimSpace(b.String())
}
