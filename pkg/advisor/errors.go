// Package advisor holds the shared contracts of the dialogue
// orchestration pipeline: the error taxonomy and the fixed user-facing
// messages produced when a tool degrades.
package advisor

import (
	"errors"
	"fmt"
)

// ErrMissingUserID aborts the turn before any state is touched. It is
// the only error in the taxonomy that surfaces to the caller as-is.
var ErrMissingUserID = errors.New("missing user id")

// ErrInvalidSelection marks a selection message that matched neither an
// index nor a company name. The selection flow re-prompts on it.
var ErrInvalidSelection = errors.New("selection did not match any candidate")

// ErrClassification marks an intent classification that could not be
// mapped to a known label. Callers degrade to chit_chat.
var ErrClassification = errors.New("intent classification failed")

// ToolError wraps a failure of an external collaborator (retrieval,
// completion, web search). Nodes catch it locally and substitute a
// degraded value; it never aborts a traversal.
type ToolError struct {
	Tool string
	Err  error
}

func (e *ToolError) Error() string {
	return fmt.Sprintf("tool %s failed: %v", e.Tool, e.Err)
}

func (e *ToolError) Unwrap() error { return e.Err }

// NewToolError tags err with the collaborator that produced it.
func NewToolError(tool string, err error) *ToolError {
	return &ToolError{Tool: tool, Err: err}
}
