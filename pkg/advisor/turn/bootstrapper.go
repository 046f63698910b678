// Package turn seeds the session with the incoming message before the
// rest of the pipeline runs.
package turn

import (
	"time"

	"ai-jobadvisor-be/pkg/advisor"
	"ai-jobadvisor-be/pkg/store"
)

// Bootstrapper merges the incoming request into the session record.
type Bootstrapper struct {
	now func() time.Time
}

func NewBootstrapper() *Bootstrapper {
	return &Bootstrapper{now: time.Now}
}

// Begin validates the turn and appends the user message to history.
// Nothing else is touched; routing decides what happens next.
func (b *Bootstrapper) Begin(session *store.ConversationSession, userID string, input store.UserInput) error {
	if userID == "" {
		return advisor.ErrMissingUserID
	}
	session.UserInput = input
	session.FinalAnswer = ""
	session.NextAction = ""
	session.AppendTurn(input.Question, b.now())
	return nil
}
