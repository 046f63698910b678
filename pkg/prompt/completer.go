package prompt

import (
	"context"
	"fmt"

	"ai-jobadvisor-be/pkg/llm"
)

// Completer renders a named template and sends it to the model.
// All advisor components speak to the LLM through this interface.
type Completer interface {
	Complete(ctx context.Context, templateName string, vars map[string]string, opts ...llm.Option) (string, error)
}

type llmCompleter struct {
	provider llm.LLMProvider
}

func NewCompleter(provider llm.LLMProvider) Completer {
	return &llmCompleter{provider: provider}
}

func (c *llmCompleter) Complete(ctx context.Context, templateName string, vars map[string]string, opts ...llm.Option) (string, error) {
	rendered, err := Render(templateName, vars)
	if err != nil {
		return "", err
	}
	answer, err := c.provider.Generate(ctx, rendered, opts...)
	if err != nil {
		return "", fmt.Errorf("complete %s: %w", templateName, err)
	}
	return answer, nil
}
