package middleware

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/dogwatch-dev/dogwatch/internal/apperr"
	"github.com/dogwatch-dev/dogwatch/internal/auth"
	"github.com/dogwatch-dev/dogwatch/internal/models"
	"github.com/gin-gonic/gin"
)

// UserLookup loads the account a session points at.
type UserLookup interface {
	GetUser(ctx context.Context, id uint) (models.User, error)
}

// Session binds the caller's identity to the request when its session cookie
// resolves to an existing user. It never rejects a request on its own; an
// unresolved session just leaves the request anonymous for the gate to judge.
func Session(manager *auth.Manager, users UserLookup, logger *slog.Logger) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		userID, sessionID, ok, err := manager.Resolve(ctx)

		if err != nil {
			logger.ErrorContext(ctx.Request.Context(), "session lookup failed", "error", err)
			ctx.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
			return
		}

		if !ok {
			ctx.Next()
			return
		}

		user, err := users.GetUser(ctx.Request.Context(), userID)

		if err != nil {
			if !apperr.Is(err, apperr.KindNotFound) {
				logger.ErrorContext(ctx.Request.Context(), "failed to load session user", "user_id", userID, "error", err)
				ctx.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
				return
			}
			// The account is gone; the stale session stays anonymous.
			ctx.Next()
			return
		}

		auth.SetIdentity(ctx, auth.Identity{
			UserID:    user.ID,
			Username:  user.Username,
			SessionID: sessionID,
		})
		ctx.Next()
	}
}
