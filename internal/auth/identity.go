package auth

import (
	"github.com/dogwatch-dev/dogwatch/internal/types"
	"github.com/gin-gonic/gin"
)

// Identity is the authenticated principal of a single request.
type Identity struct {
	UserID    uint
	Username  string
	SessionID string
}

func SetIdentity(ctx *gin.Context, identity Identity) {
	ctx.Set(types.ContextUserKey, identity)
}

func ClearIdentity(ctx *gin.Context) {
	ctx.Set(types.ContextUserKey, nil)
}

// IdentityFrom returns the identity bound to the request, if any.
func IdentityFrom(ctx *gin.Context) (Identity, bool) {
	v, exists := ctx.Get(types.ContextUserKey)
	if !exists {
		return Identity{}, false
	}
	identity, ok := v.(Identity)
	return identity, ok
}
