package httpapi

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"tutorhub/internal/infra/realtime"
)

const keepAliveInterval = 25 * time.Second

// stream pushes row changes concerning the caller as Server-Sent Events.
func (a *api) stream(w http.ResponseWriter, r *http.Request) {
	if a.svc.Hub == nil {
		writeError(w, http.StatusServiceUnavailable, "Realtime is disabled")
		return
	}
	flusher, ok := w.(http.Flusher)
	if !ok {
		writeError(w, http.StatusInternalServerError, "Streaming unsupported")
		return
	}

	actor := actorFrom(r.Context())
	sub := a.svc.Hub.Subscribe(actor.ID, actor.IsAdmin(), 0)
	defer a.svc.Hub.Unsubscribe(sub)

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")
	w.WriteHeader(http.StatusOK)
	fmt.Fprint(w, ": connected\n\n")
	flusher.Flush()

	log := a.log.WithField("user_id", actor.ID)
	log.Debug("Realtime client connected")
	defer func() {
		log.WithField("dropped", sub.Dropped()).Debug("Realtime client disconnected")
	}()

	ticker := time.NewTicker(keepAliveInterval)
	defer ticker.Stop()

	for {
		select {
		case <-r.Context().Done():
			return
		case change, ok := <-sub.C:
			if !ok {
				return
			}
			data, err := json.Marshal(change)
			if err != nil {
				log.WithError(err).Warn("Failed to encode change")
				continue
			}
			event := change.Table
			if change.Type == realtime.ChangeResync {
				event = "resync"
			}
			fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event, data)
			flusher.Flush()
		case <-ticker.C:
			fmt.Fprint(w, ": ping\n\n")
			flusher.Flush()
		}
	}
}
