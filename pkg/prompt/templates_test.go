package prompt

import (
	"strings"
	"testing"
)

func TestRenderSubstitutesVariables(t *testing.T) {
	out, err := Render(IntentClassification, map[string]string{
		"chat_history": "user: 안녕",
		"question":     "백엔드 공고 추천해줘",
	})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if !strings.Contains(out, "user: 안녕") {
		t.Error("chat_history not substituted")
	}
	if !strings.Contains(out, "백엔드 공고 추천해줘") {
		t.Error("question not substituted")
	}
	if strings.Contains(out, "{chat_history}") || strings.Contains(out, "{question}") {
		t.Error("placeholders left in rendered output")
	}
}

func TestRenderLeavesUnknownPlaceholders(t *testing.T) {
	out, err := Render(ContextualQA, map[string]string{
		"question": "연봉은 어때요",
	})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	// Missing vars stay visible instead of silently vanishing.
	if !strings.Contains(out, "{company_context}") {
		t.Error("unfilled placeholder should remain in output")
	}
}

func TestRenderUnknownTemplate(t *testing.T) {
	if _, err := Render("no_such_template", nil); err == nil {
		t.Fatal("expected error for unknown template name")
	}
}

func TestAllTemplatesRegistered(t *testing.T) {
	want := []string{
		IntentClassification,
		ReformulateQuery,
		ConfirmationRouting,
		CompanyContextPlanning,
		PreparationAdvice,
		FinalAnswer,
		ContextualQA,
		SummaryMemory,
	}
	names := Names()
	registered := make(map[string]bool, len(names))
	for _, n := range names {
		registered[n] = true
	}
	for _, n := range want {
		if !registered[n] {
			t.Errorf("template %q not registered", n)
		}
	}
}
