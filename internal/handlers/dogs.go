package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/dogwatch-dev/dogwatch/internal/access"
	"github.com/dogwatch-dev/dogwatch/internal/models"
	"github.com/dogwatch-dev/dogwatch/internal/store"
	"github.com/dogwatch-dev/dogwatch/internal/types"
	"github.com/dogwatch-dev/dogwatch/internal/utils"
	"github.com/gin-gonic/gin"
)

func (h *Handler) ListDogs(ctx *gin.Context) {
	dogs, err := h.store.ListAvailableDogs(ctx.Request.Context())

	if err != nil {
		h.respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, types.NewDogResponses(dogs))
}

func (h *Handler) CreateDog(ctx *gin.Context) {
	ownerID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		h.respondError(ctx, err)
		return
	}

	patch, err := bindDogPatch(ctx, store.DogCreateFields)

	if err != nil {
		h.respondError(ctx, err)
		return
	}

	dog, err := h.store.CreateDog(ctx.Request.Context(), ownerID, patch)

	if err != nil {
		h.respondError(ctx, err)
		return
	}

	resp := types.NewDogResponse(dog)
	h.hub.Broadcast(ctx.Request.Context(), DogEvent{Type: EventDogCreated, DogID: dog.ID, UserID: dog.UserID, Dog: &resp})
	ctx.JSON(http.StatusCreated, resp)
}

func (h *Handler) GetDog(ctx *gin.Context) {
	dogID, err := utils.GetDogID(ctx)

	if err != nil {
		h.respondError(ctx, err)
		return
	}

	dog, err := h.store.GetDog(ctx.Request.Context(), dogID)

	if err != nil {
		h.respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, types.NewDogResponse(dog))
}

// UpdateDog checks ownership before it looks at the body, so a non-owner is
// refused whatever they send.
func (h *Handler) UpdateDog(ctx *gin.Context) {
	dog, ok := h.loadOwnedDog(ctx, access.OpUpdateDog)

	if !ok {
		return
	}

	patch, err := bindDogPatch(ctx, store.DogUpdateFields)

	if err != nil {
		h.respondError(ctx, err)
		return
	}

	previous := dog.Status
	dog, err = h.store.UpdateDog(ctx.Request.Context(), dog, patch)

	if err != nil {
		h.respondError(ctx, err)
		return
	}

	resp := types.NewDogResponse(dog)
	h.hub.Broadcast(ctx.Request.Context(), DogEvent{Type: EventDogUpdated, DogID: dog.ID, UserID: dog.UserID, Dog: &resp, PreviousStatus: previous})
	ctx.JSON(http.StatusOK, resp)
}

func (h *Handler) DeleteDog(ctx *gin.Context) {
	dog, ok := h.loadOwnedDog(ctx, access.OpDeleteDog)

	if !ok {
		return
	}

	if err := h.store.DeleteDog(ctx.Request.Context(), dog.ID); err != nil {
		h.respondError(ctx, err)
		return
	}

	h.hub.Broadcast(ctx.Request.Context(), DogEvent{Type: EventDogDeleted, DogID: dog.ID, UserID: dog.UserID})
	ctx.Status(http.StatusNoContent)
}

// loadOwnedDog resolves :id and writes the error response itself when the
// dog is missing or belongs to someone else.
func (h *Handler) loadOwnedDog(ctx *gin.Context, op access.Operation) (models.Dog, bool) {
	currentUser, err := utils.GetCurrentUser(ctx)

	if err != nil {
		h.respondError(ctx, err)
		return models.Dog{}, false
	}

	dogID, err := utils.GetDogID(ctx)

	if err != nil {
		h.respondError(ctx, err)
		return models.Dog{}, false
	}

	dog, err := h.store.GetDog(ctx.Request.Context(), dogID)

	if err != nil {
		h.respondError(ctx, err)
		return models.Dog{}, false
	}

	if err := access.RequireOwner(currentUser, dog.UserID); err != nil {
		if h.gate != nil {
			h.gate.Denied(op, "forbidden")
		}
		h.respondError(ctx, err)
		return models.Dog{}, false
	}

	return dog, true
}

func bindDogPatch(ctx *gin.Context, allowed []string) (store.DogPatch, error) {
	var body map[string]json.RawMessage

	if err := ctx.ShouldBindJSON(&body); err != nil {
		return store.DogPatch{}, malformed()
	}

	return store.ParseDogPatch(body, allowed)
}
