package vertex

import (
	"testing"

	"github.com/stretchr/testify/require"
	"google.golang.org/genai"
)

func TestFirstCandidateText(t *testing.T) {
	require.Equal(t, "", firstCandidateText(nil))
	require.Equal(t, "", firstCandidateText(&genai.GenerateContentResponse{}))
	require.Equal(t, "", firstCandidateText(&genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{}},
	}))

	resp := &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{
			{Content: &genai.Content{Parts: []*genai.Part{
				{Text: "thinking", Thought: true},
				{Text: "1. Sampah plastik "},
				{Text: "sulit terurai.\n"},
			}}},
			{Content: &genai.Content{Parts: []*genai.Part{{Text: "ignored"}}}},
		},
	}
	require.Equal(t, "1. Sampah plastik sulit terurai.", firstCandidateText(resp))
}

func TestGenerationConfigMatchesModelSettings(t *testing.T) {
	cfg := generationConfig()
	require.Equal(t, float32(1), *cfg.Temperature)
	require.Equal(t, float32(0.95), *cfg.TopP)
	require.Equal(t, int32(8192), cfg.MaxOutputTokens)
	require.Len(t, cfg.SafetySettings, 4)
	for _, s := range cfg.SafetySettings {
		require.Equal(t, genai.HarmBlockThresholdOff, s.Threshold)
	}
}
