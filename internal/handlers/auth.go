package handlers

import (
	"net/http"

	"github.com/dogwatch-dev/dogwatch/internal/types"
	"github.com/dogwatch-dev/dogwatch/internal/utils"
	"github.com/gin-gonic/gin"
)

type CredentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type DeleteAccountRequest struct {
	Password string `json:"password"`
}

// CreateUser signs a new account up and logs it in.
func (h *Handler) CreateUser(ctx *gin.Context) {
	var req CredentialsRequest

	if err := ctx.ShouldBindJSON(&req); err != nil {
		h.respondError(ctx, malformed())
		return
	}

	user, err := h.store.CreateUser(ctx.Request.Context(), req.Username, req.Password)

	if err != nil {
		h.respondError(ctx, err)
		return
	}

	if _, err := h.sessions.Login(ctx, user.ID); err != nil {
		h.respondError(ctx, err)
		return
	}

	h.logger.InfoContext(ctx.Request.Context(), "user signed up", "user_id", user.ID)
	ctx.JSON(http.StatusCreated, types.NewUserResponse(user))
}

func (h *Handler) LoginUser(ctx *gin.Context) {
	var req CredentialsRequest

	if err := ctx.ShouldBindJSON(&req); err != nil {
		h.respondError(ctx, malformed())
		return
	}

	user, err := h.store.Authenticate(ctx.Request.Context(), req.Username, req.Password)

	if err != nil {
		h.respondError(ctx, err)
		return
	}

	if _, err := h.sessions.Login(ctx, user.ID); err != nil {
		h.respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, types.NewUserResponse(user))
}

func (h *Handler) LogoutUser(ctx *gin.Context) {
	if err := h.sessions.Logout(ctx); err != nil {
		h.respondError(ctx, err)
		return
	}

	ctx.Status(http.StatusNoContent)
}

// Me reports who the session belongs to.
func (h *Handler) Me(ctx *gin.Context) {
	currentUser, err := utils.GetCurrentUser(ctx)

	if err != nil {
		h.respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, types.UserResponse{
		ID:       currentUser.UserID,
		Username: currentUser.Username,
	})
}

// DeleteUser removes the caller's account and every dog it owns. The
// password is asked for again.
func (h *Handler) DeleteUser(ctx *gin.Context) {
	currentUser, err := utils.GetCurrentUser(ctx)

	if err != nil {
		h.respondError(ctx, err)
		return
	}

	var req DeleteAccountRequest

	if err := ctx.ShouldBindJSON(&req); err != nil {
		h.respondError(ctx, malformed())
		return
	}

	if _, err := h.store.Authenticate(ctx.Request.Context(), currentUser.Username, req.Password); err != nil {
		h.respondError(ctx, err)
		return
	}

	if err := h.store.DeleteUser(ctx.Request.Context(), currentUser.UserID); err != nil {
		h.respondError(ctx, err)
		return
	}

	// The account is gone either way; a stale session no longer resolves.
	if err := h.sessions.Logout(ctx); err != nil {
		h.logger.WarnContext(ctx.Request.Context(), "failed to end session after account deletion",
			"user_id", currentUser.UserID, "error", err)
	}

	h.logger.InfoContext(ctx.Request.Context(), "account deleted", "user_id", currentUser.UserID)
	h.hub.Broadcast(ctx.Request.Context(), DogEvent{Type: EventDogsRemoved, UserID: currentUser.UserID})
	ctx.Status(http.StatusNoContent)
}
