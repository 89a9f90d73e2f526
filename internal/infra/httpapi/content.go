package httpapi

import (
	"net/http"

	"tutorhub/internal/domain/content"

	"github.com/go-chi/chi/v5"
)

func (a *api) listNotes(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		fail(w, r, a.log, err)
		return
	}
	notes, err := a.svc.Content.ListNotes(r.Context(), actorFrom(r.Context()), id)
	if err != nil {
		fail(w, r, a.log, err)
		return
	}
	writeJSON(w, http.StatusOK, mapSlice(notes, toNoteView))
}

func (a *api) addNote(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		fail(w, r, a.log, err)
		return
	}
	var req noteRequest
	if err := decode(r, &req); err != nil {
		fail(w, r, a.log, err)
		return
	}
	n, err := a.svc.Content.AddNote(r.Context(), actorFrom(r.Context()), id, req.Content)
	if err != nil {
		fail(w, r, a.log, err)
		return
	}
	writeJSON(w, http.StatusCreated, toNoteView(n))
}

func (a *api) deleteNote(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		fail(w, r, a.log, err)
		return
	}
	if err := a.svc.Content.DeleteNote(r.Context(), actorFrom(r.Context()), id); err != nil {
		fail(w, r, a.log, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (a *api) shareRoutes(r chi.Router) {
	r.Get("/", a.listShares)
	r.Post("/", a.share)
	r.Delete("/{id}", a.unshare)
}

func (a *api) listShares(w http.ResponseWriter, r *http.Request) {
	studentID, err := idQuery(r, "student_id")
	if err != nil {
		fail(w, r, a.log, err)
		return
	}
	items, err := a.svc.Content.ListShared(r.Context(), actorFrom(r.Context()), studentID)
	if err != nil {
		fail(w, r, a.log, err)
		return
	}
	writeJSON(w, http.StatusOK, mapSlice(items, toShareView))
}

func (a *api) share(w http.ResponseWriter, r *http.Request) {
	var req shareRequest
	if err := decode(r, &req); err != nil {
		fail(w, r, a.log, err)
		return
	}
	item, err := a.svc.Content.Share(r.Context(), actorFrom(r.Context()), content.ShareItem{
		StudentID:   req.StudentID,
		Title:       req.Title,
		URL:         req.URL,
		Description: req.Description,
	})
	if err != nil {
		fail(w, r, a.log, err)
		return
	}
	writeJSON(w, http.StatusCreated, toShareView(item))
}

func (a *api) unshare(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		fail(w, r, a.log, err)
		return
	}
	if err := a.svc.Content.Unshare(r.Context(), actorFrom(r.Context()), id); err != nil {
		fail(w, r, a.log, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
