package port

import "context"

// Completer sends a single prompt to a hosted language model and returns
// the raw text of its first answer.
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}
