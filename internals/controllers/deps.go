package controllers

import (
	"context"

	"github.com/turinhub/toolbox-sub001/internals/upstream"
)

// ChallengeVerifier confirms one-time challenge tokens against the external
// human-verification service.
type ChallengeVerifier interface {
	Verify(ctx context.Context, token string, remoteIP string) bool
}

// ImageGenerator produces one image per call against the AI provider.
type ImageGenerator interface {
	GenerateImage(ctx context.Context, prompt string, steps int) (*upstream.ImageResult, error)
}

// ChatCompleter runs one chat exchange against the AI provider.
type ChatCompleter interface {
	ChatCompletion(ctx context.Context, messages []upstream.Message) (string, error)
}
