package service

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/ibreez3/socratic-relay/config"
	"github.com/ibreez3/socratic-relay/metrics"
	"github.com/ibreez3/socratic-relay/tutor"
	"github.com/sirupsen/logrus"
)

const SessionHeader = "X-Session-ID"

const (
	msgMissingInput  = "Message is required."
	msgBadRequest    = "Invalid request body."
	msgRateLimited   = "Rate limit exceeded. Please wait and try again later."
	msgUpstreamError = "Failed to fetch AI response. Please try again later."
	msgCleared       = "Conversation history cleared."
)

type AskRequest struct {
	Message             string              `json:"message"`
	ConversationHistory []tutor.HistoryItem `json:"conversationHistory"`
}

type Handler struct {
	relay    *tutor.Relay
	sessions *Sessions
	mode     string
	log      logrus.FieldLogger
	metrics  *metrics.Metrics
}

func NewHandler(relay *tutor.Relay, sessions *Sessions, mode string, log logrus.FieldLogger, m *metrics.Metrics) *Handler {
	if mode == "" {
		mode = config.ModeServer
	}
	return &Handler{
		relay:    relay,
		sessions: sessions,
		mode:     mode,
		log:      log.WithField("component", "handler"),
		metrics:  m,
	}
}

// AskAI handles POST /ask-ai.
func (h *Handler) AskAI(c *gin.Context) {
	var req AskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.fail(c, http.StatusBadRequest, tutor.KindMissingInput, msgBadRequest)
		return
	}
	if strings.TrimSpace(req.Message) == "" {
		h.fail(c, http.StatusBadRequest, tutor.KindMissingInput, msgMissingInput)
		return
	}

	var (
		text string
		err  error
	)
	if h.mode == config.ModeStateless {
		history, herr := tutor.TurnsFromHistory(req.ConversationHistory)
		if herr != nil {
			h.fail(c, http.StatusBadRequest, tutor.KindMissingInput, herr.Error())
			return
		}
		text, err = h.relay.AskStateless(c.Request.Context(), history, req.Message)
	} else {
		conv := h.sessions.Get(c.GetHeader(SessionHeader))
		text, err = h.relay.Ask(c.Request.Context(), conv, req.Message)
	}
	if err != nil {
		h.log.WithError(err).WithField("request_id", c.GetString(requestIDKey)).Error("error with upstream provider")
		h.failWith(c, err)
		return
	}
	h.metrics.ObserveAsk(http.StatusOK)
	c.JSON(http.StatusOK, gin.H{"aiResponse": text})
}

// ClearHistory handles POST /clear-history.
func (h *Handler) ClearHistory(c *gin.Context) {
	n := 0
	if h.mode == config.ModeServer {
		n = h.sessions.Reset(c.GetHeader(SessionHeader))
	}
	h.log.WithField("cleared", n).Info("conversation history cleared")
	c.JSON(http.StatusOK, gin.H{"message": msgCleared, "cleared": n})
}

func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *Handler) failWith(c *gin.Context, err error) {
	switch kind := tutor.KindOf(err); {
	case errors.Is(err, tutor.ErrMissingInput):
		h.fail(c, http.StatusBadRequest, kind, msgMissingInput)
	case errors.Is(err, tutor.ErrRetriesExhausted):
		h.fail(c, http.StatusTooManyRequests, kind, msgRateLimited)
	default:
		h.fail(c, http.StatusInternalServerError, kind, msgUpstreamError)
	}
}

func (h *Handler) fail(c *gin.Context, status int, kind tutor.Kind, msg string) {
	h.metrics.ObserveAsk(status)
	c.JSON(status, gin.H{"error": msg, "kind": kind})
}
