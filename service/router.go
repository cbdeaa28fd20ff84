package service

import (
	"net/http"
	"slices"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
)

type RouterOptions struct {
	CORSOrigins []string
	// MetricsPath is left unrouted when Gatherer is nil.
	MetricsPath string
	Gatherer    prometheus.Gatherer
	Log         logrus.FieldLogger
}

func NewRouter(h *Handler, opts RouterOptions) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), RequestID())
	if opts.Log != nil {
		r.Use(RequestLogger(opts.Log.WithField("component", "http")))
	}
	r.Use(cors.New(corsConfig(opts.CORSOrigins)))

	r.POST("/ask-ai", h.AskAI)
	r.POST("/clear-history", h.ClearHistory)
	r.GET("/healthz", h.Health)

	if opts.Gatherer != nil && opts.MetricsPath != "" {
		r.GET(opts.MetricsPath, gin.WrapH(promhttp.HandlerFor(opts.Gatherer, promhttp.HandlerOpts{})))
	}
	return r
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:  []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowHeaders:  []string{"Origin", "Content-Type", SessionHeader, RequestIDHeader},
		ExposeHeaders: []string{RequestIDHeader},
		MaxAge:        12 * time.Hour,
	}
	if len(origins) == 0 || slices.Contains(origins, "*") {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = origins
	}
	return cfg
}
