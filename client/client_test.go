package client

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/ibreez3/socratic-relay/config"
	"github.com/ibreez3/socratic-relay/service"
	"github.com/ibreez3/socratic-relay/tutor"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRelayServer(t *testing.T, mode string) *httptest.Server {
	gin.SetMode(gin.TestMode)
	log, _ := logtest.NewNullLogger()
	relay := tutor.NewRelay(tutor.NewEchoGenerator(), tutor.NewRetrier(1, 0), tutor.NewPromptBuilder(tutor.DefaultContextTurns)).WithLogger(log)
	h := service.NewHandler(relay, service.NewSessions(8, time.Hour, nil), mode, log, nil)
	srv := httptest.NewServer(service.NewRouter(h, service.RouterOptions{}))
	t.Cleanup(srv.Close)
	return srv
}

func TestClientAskAndClear(t *testing.T) {
	srv := newRelayServer(t, config.ModeServer)
	c := New(srv.URL+"/", WithSession("s1"))

	reply, err := c.Ask(context.Background(), "What is a linked list?", nil)
	require.NoError(t, err)
	assert.Contains(t, reply, `"What is a linked list?"`)

	msg, err := c.ClearHistory(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Conversation history cleared.", msg)
}

func TestClientMissingMessage(t *testing.T) {
	srv := newRelayServer(t, config.ModeServer)

	_, err := New(srv.URL).Ask(context.Background(), " ", nil)
	var rerr *ResponseError
	require.ErrorAs(t, err, &rerr)
	assert.Equal(t, http.StatusBadRequest, rerr.Status)
	assert.Equal(t, tutor.KindMissingInput, rerr.Kind)
	assert.Equal(t, "Message is required.", rerr.Message)
}

func TestClientNetworkFailure(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	_, err := New(url).Ask(context.Background(), "hello", nil)
	assert.ErrorIs(t, err, tutor.ErrNetwork)
	assert.Equal(t, tutor.KindNetworkFailure, tutor.KindOf(err))
}

func TestREPLStatelessSendsTranscript(t *testing.T) {
	var bodies []askBody
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var b askBody
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&b))
		bodies = append(bodies, b)
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"aiResponse":"What do you think?"}`)
	}))
	defer srv.Close()

	var out bytes.Buffer
	repl := &REPL{
		Client:    New(srv.URL),
		Stateless: true,
		In:        strings.NewReader("What is Big-O?\nIs O(1) always fastest?\n/quit\n"),
		Out:       &out,
	}
	require.NoError(t, repl.Run(context.Background()))

	require.Len(t, bodies, 2)
	assert.Equal(t, []tutor.HistoryItem{{Role: "ai", Content: Greeting}}, bodies[0].ConversationHistory)
	assert.Equal(t, []tutor.HistoryItem{
		{Role: "ai", Content: Greeting},
		{Role: "user", Content: "What is Big-O?"},
		{Role: "ai", Content: "What do you think?"},
	}, bodies[1].ConversationHistory)
	assert.Equal(t, "Is O(1) always fastest?", bodies[1].Message)
	assert.Contains(t, out.String(), "AI: What do you think?")
}

func TestREPLRendersErrorsInline(t *testing.T) {
	status := http.StatusTooManyRequests
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = io.WriteString(w, `{"error":"Rate limit exceeded. Please wait and try again later.","kind":"RetriesExhausted"}`)
	}))
	defer srv.Close()

	var out bytes.Buffer
	repl := &REPL{Client: New(srv.URL), In: strings.NewReader("What is a tree?\n"), Out: &out}
	require.NoError(t, repl.Run(context.Background()))
	assert.Contains(t, out.String(), "AI: Rate limit exceeded. Please wait and try again later.")

	srv.Close()
	out.Reset()
	repl = &REPL{Client: New(srv.URL), In: strings.NewReader("What is a tree?\n"), Out: &out}
	require.NoError(t, repl.Run(context.Background()))
	assert.Contains(t, out.String(), "AI: "+NetworkProblem)
}

func TestREPLClearResetsTranscript(t *testing.T) {
	srv := newRelayServer(t, config.ModeServer)

	var out bytes.Buffer
	repl := &REPL{Client: New(srv.URL), In: strings.NewReader("What is a graph?\n/clear\n"), Out: &out}
	require.NoError(t, repl.Run(context.Background()))

	assert.Equal(t, []tutor.HistoryItem{{Role: "ai", Content: Greeting}}, repl.Transcript())
	assert.Contains(t, out.String(), "AI: Conversation history cleared.")
}
