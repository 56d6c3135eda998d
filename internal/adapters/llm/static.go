package llm

import "context"

// Static returns a fixed reply, or echoes nothing to force callers onto
// their fallback path when Reply is empty. Used in tests and offline
// deployments.
type Static struct {
	Reply string
	Err   error

	// Prompts records every prompt seen, newest last.
	Prompts []string
}

// NewStatic builds a static client with a fixed reply.
func NewStatic(reply string) *Static {
	return &Static{Reply: reply}
}

func (s *Static) Name() string { return "static" }

// Complete records the prompt and returns the configured reply or error.
func (s *Static) Complete(_ context.Context, prompt string) (string, error) {
	s.Prompts = append(s.Prompts, prompt)
	if s.Err != nil {
		return "", s.Err
	}
	if s.Reply == "" {
		return "", ErrEmptyCompletion
	}
	return s.Reply, nil
}
