package httpapi

import (
	"fmt"
	"net/http"
	"strconv"

	"tutorhub/internal/app"

	"github.com/go-chi/chi/v5"
)

func (a *api) notificationRoutes(r chi.Router) {
	r.Get("/", a.listNotifications)
	r.Get("/unread-count", a.unreadCount)
	r.Post("/read-all", a.markAllRead)
	r.Post("/{id}/read", a.markRead)
}

func (a *api) listNotifications(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	limit := 0
	if raw := q.Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			fail(w, r, a.log, fmt.Errorf("%w: limit must be a positive number", app.ErrInvalidInput))
			return
		}
		limit = n
	}
	unreadOnly := q.Get("unread") == "true"

	ns, err := a.svc.Notifications.List(r.Context(), actorFrom(r.Context()).ID, unreadOnly, limit)
	if err != nil {
		fail(w, r, a.log, err)
		return
	}
	writeJSON(w, http.StatusOK, mapSlice(ns, toNotificationView))
}

func (a *api) unreadCount(w http.ResponseWriter, r *http.Request) {
	n, err := a.svc.Notifications.UnreadCount(r.Context(), actorFrom(r.Context()).ID)
	if err != nil {
		fail(w, r, a.log, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"count": n})
}

func (a *api) markRead(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		fail(w, r, a.log, err)
		return
	}
	if err := a.svc.Notifications.MarkRead(r.Context(), actorFrom(r.Context()).ID, id); err != nil {
		fail(w, r, a.log, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (a *api) markAllRead(w http.ResponseWriter, r *http.Request) {
	n, err := a.svc.Notifications.MarkAllRead(r.Context(), actorFrom(r.Context()).ID)
	if err != nil {
		fail(w, r, a.log, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int64{"updated": n})
}
