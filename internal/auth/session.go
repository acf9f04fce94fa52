package auth

import (
	"errors"
	"net/http"
	"time"

	"github.com/dogwatch-dev/dogwatch/internal/apperr"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/samber/oops"
)

const SessionCookieName = "session"

type CookieOptions struct {
	Domain string
	Secure bool
}

// Manager binds authenticated user ids to client sessions.
type Manager struct {
	store  SessionStore
	signer *TokenSigner
	ttl    time.Duration
	cookie CookieOptions
}

func NewManager(store SessionStore, signer *TokenSigner, ttl time.Duration, cookie CookieOptions) *Manager {
	return &Manager{
		store:  store,
		signer: signer,
		ttl:    ttl,
		cookie: cookie,
	}
}

// Login starts a new session for userID and hands its token to the client.
// A session already bound to the request is ended first.
func (m *Manager) Login(ctx *gin.Context, userID uint) (string, error) {
	if previous, ok := IdentityFrom(ctx); ok && previous.SessionID != "" {
		if err := m.store.Delete(ctx.Request.Context(), previous.SessionID); err != nil {
			return "", err
		}
	}

	sessionID := uuid.NewString()

	if err := m.store.Save(ctx.Request.Context(), sessionID, userID, m.ttl); err != nil {
		return "", err
	}

	token, err := m.signer.Sign(sessionID, m.ttl)
	if err != nil {
		return "", oops.In("session").Code("SESSION_SIGN_FAILED").Wrapf(err, "failed to sign session token")
	}

	m.setCookie(ctx, token, int(m.ttl.Seconds()))
	return sessionID, nil
}

// Resolve looks up the user bound to the request's session. ok is false when
// the request carries no valid session.
func (m *Manager) Resolve(ctx *gin.Context) (userID uint, sessionID string, ok bool, err error) {
	token, err := ctx.Cookie(SessionCookieName)
	if err != nil || token == "" {
		return 0, "", false, nil
	}

	sessionID, err = m.signer.Verify(token)
	if err != nil {
		return 0, "", false, nil
	}

	userID, err = m.store.Get(ctx.Request.Context(), sessionID)
	if errors.Is(err, ErrSessionNotFound) {
		return 0, "", false, nil
	}
	if err != nil {
		return 0, "", false, err
	}

	return userID, sessionID, true, nil
}

// Logout clears the binding for the request's session.
func (m *Manager) Logout(ctx *gin.Context) error {
	identity, ok := IdentityFrom(ctx)
	if !ok {
		return apperr.Unauthenticated(apperr.CodeNotAuthenticated, "Already logged out")
	}

	if err := m.store.Delete(ctx.Request.Context(), identity.SessionID); err != nil {
		return err
	}

	m.setCookie(ctx, "", -1)
	ClearIdentity(ctx)
	return nil
}

func (m *Manager) setCookie(ctx *gin.Context, value string, maxAge int) {
	sameSite := http.SameSiteLaxMode
	if m.cookie.Secure {
		sameSite = http.SameSiteNoneMode
	}

	http.SetCookie(ctx.Writer, &http.Cookie{
		Name:     SessionCookieName,
		Value:    value,
		Path:     "/",
		Domain:   m.cookie.Domain,
		MaxAge:   maxAge,
		Secure:   m.cookie.Secure,
		HttpOnly: true,
		SameSite: sameSite,
	})
}
