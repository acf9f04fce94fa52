package handlers

import (
	"net/http"

	"github.com/dogwatch-dev/dogwatch/internal/types"
	"github.com/dogwatch-dev/dogwatch/internal/utils"
	"github.com/gin-gonic/gin"
)

func (h *Handler) ListBreeds(ctx *gin.Context) {
	breeds, err := h.store.ListBreeds(ctx.Request.Context())

	if err != nil {
		h.respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, types.NewBreedResponses(breeds))
}

// ListDogsByBreed lists the available dogs of the breed with the given
// external catalog id.
func (h *Handler) ListDogsByBreed(ctx *gin.Context) {
	apiID, err := utils.GetBreedAPIID(ctx)

	if err != nil {
		h.respondError(ctx, err)
		return
	}

	dogs, err := h.store.ListAvailableDogsByBreedAPIID(ctx.Request.Context(), apiID)

	if err != nil {
		h.respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, types.NewDogResponses(dogs))
}
