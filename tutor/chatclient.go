package tutor

import "context"

//go:generate mockgen -source=chatclient.go -destination=mock_generator.go -package=tutor

// Generator produces model text for a fully rendered prompt. Rate limit
// rejections must wrap ErrRateLimited.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}
