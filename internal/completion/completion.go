package completion

import "context"

// Client is a synchronous prompt-to-text round trip against a completion
// service. Implementations return the raw response text; callers own any
// structure they expect to find in it.
type Client interface {
	Complete(ctx context.Context, prompt string) (string, error)
}
