// Package handlers holds the HTTP handlers for accounts, breeds and dogs.
package handlers

import (
	"context"
	"log/slog"

	"github.com/dogwatch-dev/dogwatch/internal/access"
	"github.com/dogwatch-dev/dogwatch/internal/apperr"
	"github.com/dogwatch-dev/dogwatch/internal/auth"
	"github.com/dogwatch-dev/dogwatch/internal/monitors"
	"github.com/dogwatch-dev/dogwatch/internal/store"
	"github.com/gin-gonic/gin"
)

// HealthReporter probes the services the API depends on.
type HealthReporter interface {
	Run(ctx context.Context) map[string]monitors.Result
}

type Handler struct {
	store    *store.Store
	sessions *auth.Manager
	gate     *access.Gate
	hub      *Hub
	health   HealthReporter
	logger   *slog.Logger
	version  string
}

type Options struct {
	Store    *store.Store
	Sessions *auth.Manager
	Gate     *access.Gate
	Hub      *Hub
	Health   HealthReporter
	Logger   *slog.Logger
	Version  string
}

func New(opts Options) *Handler {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	hub := opts.Hub
	if hub == nil {
		hub = NewHub(nil, logger)
	}

	return &Handler{
		store:    opts.Store,
		sessions: opts.Sessions,
		gate:     opts.Gate,
		hub:      hub,
		health:   opts.Health,
		logger:   logger,
		version:  opts.Version,
	}
}

func (h *Handler) Hub() *Hub {
	return h.hub
}

// respondError writes err as {"error": ...} with the status of its kind.
// Internal errors are logged and their cause withheld from the caller.
func (h *Handler) respondError(ctx *gin.Context, err error) {
	status := apperr.StatusOf(err)

	if status >= 500 {
		h.logger.ErrorContext(ctx.Request.Context(), "request failed",
			"path", ctx.Request.URL.Path,
			"code", apperr.CodeOf(err),
			"error", err,
		)
	}

	_ = ctx.Error(err)
	ctx.JSON(status, gin.H{"error": apperr.Message(err)})
}

func malformed() error {
	return apperr.BadRequest(apperr.CodeMalformedRequest, "Invalid request")
}
