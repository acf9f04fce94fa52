package utils

import (
	"strconv"

	"github.com/dogwatch-dev/dogwatch/internal/apperr"
	"github.com/gin-gonic/gin"
)

// GetDogID parses the :id path parameter.
func GetDogID(ctx *gin.Context) (uint, error) {
	return getUintParam(ctx, "id", "Invalid dog ID")
}

// GetBreedAPIID parses the :api_id path parameter. Unlike row ids it is
// signed, since it belongs to the external catalog.
func GetBreedAPIID(ctx *gin.Context) (int, error) {
	apiID, err := strconv.Atoi(ctx.Param("api_id"))

	if err != nil {
		return 0, apperr.NotFound(apperr.CodeBreedNotFound, "Breed not found")
	}

	return apiID, nil
}

func getUintParam(ctx *gin.Context, name, msg string) (uint, error) {
	raw := ctx.Param(name)

	if raw == "" {
		return 0, apperr.BadRequest(apperr.CodeMalformedRequest, "%s", msg)
	}

	id, err := strconv.ParseUint(raw, 10, 32)

	if err != nil {
		return 0, apperr.BadRequest(apperr.CodeMalformedRequest, "%s", msg)
	}

	return uint(id), nil
}
