package logging

import (
	"log/slog"
	"time"

	"github.com/dogwatch-dev/dogwatch/internal/auth"
	"github.com/dogwatch-dev/dogwatch/internal/types"
	"github.com/gin-gonic/gin"
)

// RequestLogger logs one line per request once the handler chain returns.
func RequestLogger(logger *slog.Logger) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		start := time.Now()

		ctx.Next()

		status := ctx.Writer.Status()
		attrs := []any{
			"method", ctx.Request.Method,
			"path", ctx.Request.URL.Path,
			"status", status,
			"latency_ms", time.Since(start).Milliseconds(),
		}

		if op := ctx.GetString(types.ContextOperationKey); op != "" {
			attrs = append(attrs, "operation", op)
		}

		if identity, ok := auth.IdentityFrom(ctx); ok {
			attrs = append(attrs, "user_id", identity.UserID)
		}

		if len(ctx.Errors) > 0 {
			attrs = append(attrs, "errors", ctx.Errors.String())
		}

		level := slog.LevelInfo
		switch {
		case status >= 500:
			level = slog.LevelError
		case status >= 400:
			level = slog.LevelWarn
		}

		logger.Log(ctx.Request.Context(), level, "request", attrs...)
	}
}
