package integration

import (
	"context"
	"os"
	"strings"
	"testing"
	"time"

	"ai-jobadvisor-be/pkg/llm"
	"ai-jobadvisor-be/pkg/llm/factory"
	"ai-jobadvisor-be/pkg/prompt"
)

// Exercises the real provider stack end to end: factory, provider HTTP
// call, and template rendering through the completer. Needs a reachable
// model, so it is env-gated.
func TestLLMProviderGenerate(t *testing.T) {
	providerType := os.Getenv("LLM_INTEGRATION_PROVIDER")
	if providerType == "" {
		t.Skip("Skipping integration test: LLM_INTEGRATION_PROVIDER not set (ollama or openai)")
	}

	modelName := os.Getenv("LLM_MODEL")
	if modelName == "" {
		if providerType == "ollama" {
			modelName = "gemma:2b"
		} else {
			modelName = "gpt-3.5-turbo"
		}
	}

	provider, err := factory.NewLLMProvider(
		providerType,
		modelName,
		os.Getenv("LLM_BASE_URL"),
		os.Getenv("OPENAI_API_KEY"),
	)
	if err != nil {
		t.Fatalf("factory: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	t.Run("raw generate", func(t *testing.T) {
		answer, err := provider.Generate(ctx, "한 단어로 대답하세요: 한국의 수도는?", llm.WithTemperature(0.0))
		if err != nil {
			t.Fatalf("Generate: %v", err)
		}
		if strings.TrimSpace(answer) == "" {
			t.Fatal("empty answer")
		}
		t.Logf("answer: %s", answer)
	})

	t.Run("intent classification template", func(t *testing.T) {
		completer := prompt.NewCompleter(provider)
		answer, err := completer.Complete(ctx, prompt.IntentClassification, map[string]string{
			"chat_history": "",
			"question":     "백엔드 개발자 공고를 추천해주세요",
		}, llm.WithTemperature(0.0))
		if err != nil {
			t.Fatalf("Complete: %v", err)
		}
		t.Logf("classified as: %s", strings.TrimSpace(answer))
	})
}
