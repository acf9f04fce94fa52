package handlers

import (
	"context"
	"log/slog"
	"time"

	"github.com/dogwatch-dev/dogwatch/internal/services"
)

// notifyTimeout bounds webhook delivery, which happens inline with the
// request that changed the listing and is cancelled with it.
const notifyTimeout = 3 * time.Second

// NotifyListings forwards new listings and adoptions from hub to n. A failed
// delivery is logged and never fails the request.
func NotifyListings(hub *Hub, n *services.Notifier, logger *slog.Logger) {
	if !n.Enabled() {
		return
	}

	hub.Subscribe(func(reqCtx context.Context, event DogEvent) {
		if event.Dog == nil {
			return
		}
		dog := *event.Dog

		ctx, cancel := context.WithTimeout(reqCtx, notifyTimeout)
		defer cancel()

		var err error
		switch {
		case event.Type == EventDogCreated:
			err = n.DogListed(ctx, dog)
		case event.Type == EventDogUpdated && services.Adopted(event.PreviousStatus, dog.Status):
			err = n.DogAdopted(ctx, dog)
		default:
			return
		}

		if err != nil {
			logger.Warn("failed to send listing notification", "type", event.Type, "dog_id", dog.ID, "error", err)
		}
	})
}
