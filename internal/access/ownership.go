package access

import (
	"github.com/dogwatch-dev/dogwatch/internal/apperr"
	"github.com/dogwatch-dev/dogwatch/internal/auth"
)

// RequireOwner fails with a forbidden error unless identity owns the
// resource. It says nothing about whether anyone is logged in; that is the
// gate's job.
func RequireOwner(identity auth.Identity, ownerID uint) error {
	if identity.UserID == 0 || identity.UserID != ownerID {
		return apperr.Forbidden(apperr.CodeNotOwner, "You do not have permission to modify this dog.")
	}
	return nil
}
