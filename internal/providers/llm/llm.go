package llm

import "context"

// Provider is the external text-generation capability. A single call,
// no retries; retry policy belongs to the caller.
type Provider interface {
	Generate(ctx context.Context, system, user string) (string, error)
	Close() error
}
