package client

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/ibreez3/socratic-relay/tutor"
)

const (
	Greeting       = "Hello! I'm your AI Teaching Assistant. How can I help you today?"
	NoReply        = "AI failed to respond."
	NetworkProblem = "Error communicating with server."
)

// REPL is a line based chat frontend. It keeps its own transcript; in
// stateless mode the transcript is sent with every message.
type REPL struct {
	Client    *Client
	Stateless bool
	In        io.Reader
	Out       io.Writer

	transcript []tutor.HistoryItem
}

func (r *REPL) Transcript() []tutor.HistoryItem {
	out := make([]tutor.HistoryItem, len(r.transcript))
	copy(out, r.transcript)
	return out
}

func (r *REPL) Run(ctx context.Context) error {
	r.transcript = []tutor.HistoryItem{{Role: "ai", Content: Greeting}}
	r.say(Greeting)

	sc := bufio.NewScanner(r.In)
	for {
		fmt.Fprint(r.Out, "> ")
		if !sc.Scan() {
			return sc.Err()
		}
		line := strings.TrimSpace(sc.Text())
		switch line {
		case "":
			continue
		case "/quit", "/exit":
			return nil
		case "/clear":
			r.clear(ctx)
			continue
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		r.send(ctx, line)
	}
}

func (r *REPL) send(ctx context.Context, line string) {
	var history []tutor.HistoryItem
	if r.Stateless {
		history = r.Transcript()
	}
	r.transcript = append(r.transcript, tutor.HistoryItem{Role: "user", Content: line})

	reply, err := r.Client.Ask(ctx, line, history)
	text := r.render(reply, err)
	r.transcript = append(r.transcript, tutor.HistoryItem{Role: "ai", Content: text})
	r.say(text)
}

func (r *REPL) clear(ctx context.Context) {
	msg, err := r.Client.ClearHistory(ctx)
	if err != nil {
		r.say(r.render("", err))
		return
	}
	r.transcript = []tutor.HistoryItem{{Role: "ai", Content: Greeting}}
	r.say(msg)
}

func (r *REPL) render(reply string, err error) string {
	var rerr *ResponseError
	switch {
	case err == nil && reply != "":
		return reply
	case err == nil:
		return NoReply
	case errors.As(err, &rerr) && rerr.Message != "":
		return rerr.Message
	case errors.Is(err, tutor.ErrNetwork):
		return NetworkProblem
	default:
		return NoReply
	}
}

func (r *REPL) say(text string) {
	fmt.Fprintf(r.Out, "AI: %s\n", text)
}
