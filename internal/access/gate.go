package access

import (
	"net/http"

	"github.com/dogwatch-dev/dogwatch/internal/auth"
	"github.com/dogwatch-dev/dogwatch/internal/types"
	"github.com/gin-gonic/gin"
)

// DenialRecorder is notified whenever a request is turned away.
type DenialRecorder interface {
	AccessDenied(operation, reason string)
}

type Gate struct {
	policy   Policy
	recorder DenialRecorder
}

func NewGate(policy Policy, recorder DenialRecorder) *Gate {
	return &Gate{policy: policy, recorder: recorder}
}

// Guard must run before the handler of op. It tags the request with the
// operation name and stops unauthenticated calls to protected operations.
func (g *Gate) Guard(op Operation) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		ctx.Set(types.ContextOperationKey, string(op))

		if g.policy.IsPublic(op) {
			ctx.Next()
			return
		}

		if _, ok := auth.IdentityFrom(ctx); !ok {
			g.Denied(op, "unauthenticated")
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		ctx.Next()
	}
}

// Denied records a rejection made outside the gate, such as a failed
// ownership check.
func (g *Gate) Denied(op Operation, reason string) {
	if g.recorder != nil {
		g.recorder.AccessDenied(string(op), reason)
	}
}
