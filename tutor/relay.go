package tutor

import (
	"context"
	"strings"

	"github.com/sirupsen/logrus"
)

// Relay turns a student message into a prompt, sends it upstream through
// the Retrier and hands back the model's reply.
type Relay struct {
	Gen     Generator
	Retrier *Retrier
	Prompts PromptBuilder
	Log     logrus.FieldLogger
}

func NewRelay(gen Generator, retrier *Retrier, prompts PromptBuilder) *Relay {
	if retrier == nil {
		retrier = NewRetrier(DefaultMaxAttempts, DefaultInitialDelay)
	}
	return &Relay{Gen: gen, Retrier: retrier, Prompts: prompts, Log: logrus.StandardLogger()}
}

func (r *Relay) WithLogger(log logrus.FieldLogger) *Relay {
	r.Log = log
	return r
}

// Ask runs one exchange against a server held conversation. The student
// turn is logged before the prompt is built, so it is part of the context
// block; the assistant turn is logged only on success.
func (r *Relay) Ask(ctx context.Context, conv *Conversation, message string) (string, error) {
	if strings.TrimSpace(message) == "" {
		return "", ErrMissingInput
	}
	conv.Append(Turn{Role: RoleStudent, Text: message})
	text, err := r.generate(ctx, r.Prompts.Build(conv.Snapshot(), message))
	if err != nil {
		return "", err
	}
	conv.Append(Turn{Role: RoleAssistant, Text: text})
	return text, nil
}

// AskStateless runs one exchange with history supplied by the client.
// Nothing is retained.
func (r *Relay) AskStateless(ctx context.Context, history []Turn, message string) (string, error) {
	if strings.TrimSpace(message) == "" {
		return "", ErrMissingInput
	}
	return r.generate(ctx, r.Prompts.Build(history, message))
}

func (r *Relay) generate(ctx context.Context, prompt string) (string, error) {
	if r.Log != nil {
		r.Log.WithField("prompt_bytes", len(prompt)).Debug("sending prompt upstream")
	}
	return r.Retrier.Do(ctx, func(ctx context.Context) (string, error) {
		return r.Gen.Generate(ctx, prompt)
	})
}
