package llm

import "context"

// Provider sends one fully rendered prompt as a single user message and
// returns the text of the first choice. No streaming, no retries.
type Provider interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// Unconfigured fails every call with a configuration error; used when no
// credential is present so the failure shows up per workflow, not at startup.
type Unconfigured struct {
	Err error
}

func (u Unconfigured) Complete(context.Context, string) (string, error) {
	return "", u.Err
}
