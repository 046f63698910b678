package respond

import (
	"context"
	"log"

	"ai-jobadvisor-be/pkg/advisor"
	"ai-jobadvisor-be/pkg/prompt"
	"ai-jobadvisor-be/pkg/store"
)

// summarizeEvery is the turn cadence for folding history into the
// running summary.
const summarizeEvery = 5

// keepRecentTurns is how much raw history survives a summarization.
const keepRecentTurns = 2

// Recorder writes the answer into history and keeps the persisted
// session bounded by periodically folding old turns into the summary.
type Recorder struct {
	completer prompt.Completer
	logger    *log.Logger
}

func NewRecorder(completer prompt.Completer, logger *log.Logger) *Recorder {
	return &Recorder{completer: completer, logger: logger}
}

// Record fills the assistant slot of the latest turn. On every fifth
// turn the history is summarized and truncated; a failed summarization
// leaves history untouched rather than losing turns.
func (r *Recorder) Record(ctx context.Context, session *store.ConversationSession) {
	session.RecordAnswer(session.FinalAnswer)

	if session.ConversationTurn == 0 || session.ConversationTurn%summarizeEvery != 0 {
		return
	}

	newLines := advisor.RenderHistory(session.ChatHistory)
	summary, err := r.completer.Complete(ctx, prompt.SummaryMemory, map[string]string{
		"summary":   session.Summary,
		"new_lines": newLines,
	})
	if err != nil {
		r.logger.Printf("[WARN] summary generation failed, keeping full history: %v", err)
		return
	}

	session.Summary = summary
	if len(session.ChatHistory) > keepRecentTurns {
		session.ChatHistory = session.ChatHistory[len(session.ChatHistory)-keepRecentTurns:]
	}
}
