package utils

import (
	"github.com/dogwatch-dev/dogwatch/internal/apperr"
	"github.com/dogwatch-dev/dogwatch/internal/auth"
	"github.com/gin-gonic/gin"
)

func GetCurrentUser(ctx *gin.Context) (auth.Identity, error) {
	identity, ok := auth.IdentityFrom(ctx)

	if !ok {
		return auth.Identity{}, apperr.Unauthenticated(apperr.CodeNotAuthenticated, "Unauthorized")
	}

	return identity, nil
}

func GetCurrentUserID(ctx *gin.Context) (uint, error) {
	user, err := GetCurrentUser(ctx)

	if err != nil {
		return 0, err
	}

	return user.UserID, nil
}
