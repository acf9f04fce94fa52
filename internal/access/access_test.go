package access

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dogwatch-dev/dogwatch/internal/apperr"
	"github.com/dogwatch-dev/dogwatch/internal/auth"
	"github.com/dogwatch-dev/dogwatch/internal/types"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

type recorder struct {
	denied []string
}

func (r *recorder) AccessDenied(operation, reason string) {
	r.denied = append(r.denied, operation+":"+reason)
}

func TestDefaultPolicy(t *testing.T) {
	p := DefaultPolicy()

	for _, op := range []Operation{OpSignup, OpLogin, OpLogout, OpCheckSession, OpListBreeds, OpListDogs, OpListDogsByBreed} {
		assert.True(t, p.IsPublic(op), "%s should be public", op)
	}

	for _, op := range []Operation{OpCreateDog, OpGetDog, OpUpdateDog, OpDeleteDog, OpDeleteAccount, Operation("not_registered")} {
		assert.False(t, p.IsPublic(op), "%s should require a session", op)
	}
}

func newGateRouter(gate *Gate, op Operation, identity *auth.Identity) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(func(ctx *gin.Context) {
		if identity != nil {
			auth.SetIdentity(ctx, *identity)
		}
	})
	r.GET("/op", gate.Guard(op), func(ctx *gin.Context) {
		ctx.JSON(http.StatusOK, gin.H{"operation": ctx.GetString(types.ContextOperationKey)})
	})
	return r
}

func TestGuard(t *testing.T) {
	tests := []struct {
		name     string
		op       Operation
		identity *auth.Identity
		want     int
	}{
		{"public without session", OpListDogs, nil, http.StatusOK},
		{"public with session", OpListDogs, &auth.Identity{UserID: 1}, http.StatusOK},
		{"protected without session", OpCreateDog, nil, http.StatusUnauthorized},
		{"protected with session", OpCreateDog, &auth.Identity{UserID: 1}, http.StatusOK},
		{"unknown operation is protected", Operation("mystery"), nil, http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := &recorder{}
			r := newGateRouter(NewGate(DefaultPolicy(), rec), tt.op, tt.identity)

			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/op", nil))

			assert.Equal(t, tt.want, w.Code)
			if tt.want == http.StatusUnauthorized {
				assert.Equal(t, []string{string(tt.op) + ":unauthenticated"}, rec.denied)
				assert.JSONEq(t, `{"error":"Unauthorized"}`, w.Body.String())
			} else {
				assert.Empty(t, rec.denied)
			}
		})
	}
}

func TestRequireOwner(t *testing.T) {
	assert.NoError(t, RequireOwner(auth.Identity{UserID: 5}, 5))

	err := RequireOwner(auth.Identity{UserID: 6}, 5)
	assert.Equal(t, apperr.KindForbidden, apperr.KindOf(err))

	err = RequireOwner(auth.Identity{}, 0)
	assert.Equal(t, apperr.KindForbidden, apperr.KindOf(err), "an empty identity never owns anything")
}
