package httpapi

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"tutorhub/internal/app"
	"tutorhub/internal/domain/message"

	"github.com/go-chi/chi/v5"
)

func (a *api) messageRoutes(r chi.Router) {
	r.Get("/", a.unreadMessages)
	r.Post("/", a.sendMessage)
	r.Get("/{peerID}", a.conversation)
	r.Post("/{peerID}/read", a.markMessagesRead)
}

func (a *api) unreadMessages(w http.ResponseWriter, r *http.Request) {
	counts, err := a.svc.Messages.UnreadCounts(r.Context(), actorFrom(r.Context()))
	if err != nil {
		fail(w, r, a.log, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"unread": counts})
}

func (a *api) sendMessage(w http.ResponseWriter, r *http.Request) {
	var req messageRequest
	if err := decode(r, &req); err != nil {
		fail(w, r, a.log, err)
		return
	}
	m, err := a.svc.Messages.Send(r.Context(), actorFrom(r.Context()), req.RecipientID, req.Body)
	if err != nil {
		fail(w, r, a.log, err)
		return
	}
	writeJSON(w, http.StatusCreated, toMessageView(m))
}

func parsePage(r *http.Request) (message.Page, error) {
	var p message.Page
	q := r.URL.Query()
	if raw := q.Get("before"); raw != "" {
		t, err := time.Parse(time.RFC3339Nano, raw)
		if err != nil {
			return p, fmt.Errorf("%w: before must be an RFC 3339 timestamp", app.ErrInvalidInput)
		}
		p.Before = t
	}
	if raw := q.Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			return p, fmt.Errorf("%w: limit must be a positive number", app.ErrInvalidInput)
		}
		p.Limit = n
	}
	return p, nil
}

func (a *api) conversation(w http.ResponseWriter, r *http.Request) {
	peerID, err := idParam(r, "peerID")
	if err != nil {
		fail(w, r, a.log, err)
		return
	}
	page, err := parsePage(r)
	if err != nil {
		fail(w, r, a.log, err)
		return
	}
	msgs, err := a.svc.Messages.Conversation(r.Context(), actorFrom(r.Context()), peerID, page)
	if err != nil {
		fail(w, r, a.log, err)
		return
	}
	writeJSON(w, http.StatusOK, mapSlice(msgs, toMessageView))
}

func (a *api) markMessagesRead(w http.ResponseWriter, r *http.Request) {
	peerID, err := idParam(r, "peerID")
	if err != nil {
		fail(w, r, a.log, err)
		return
	}
	n, err := a.svc.Messages.MarkRead(r.Context(), actorFrom(r.Context()), peerID)
	if err != nil {
		fail(w, r, a.log, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int64{"updated": n})
}
