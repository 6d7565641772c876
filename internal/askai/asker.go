package askai

import (
	"context"
	"errors"
	"fmt"
)

// ErrNotConfigured is returned by Unavailable.
var ErrNotConfigured = errors.New("ai collaborator not configured")

// Asker answers a conversation with a reply.
type Asker interface {
	Ask(ctx context.Context, conv Conversation) (string, error)
}

// Unavailable is an Asker used when no collaborator could be configured.
type Unavailable struct {
	Reason string
}

// Ask always fails with ErrNotConfigured.
func (u Unavailable) Ask(context.Context, Conversation) (string, error) {
	if u.Reason == "" {
		return "", ErrNotConfigured
	}
	return "", fmt.Errorf("%w: %s", ErrNotConfigured, u.Reason)
}
