package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

func (a *api) relationshipRoutes(r chi.Router) {
	r.Get("/", a.listRelationships)
	r.Post("/", a.createRelationship)
	r.Delete("/{id}", a.deactivateRelationship)
}

func (a *api) listRelationships(w http.ResponseWriter, r *http.Request) {
	profileID, err := idQuery(r, "profile_id")
	if err != nil {
		fail(w, r, a.log, err)
		return
	}
	rels, err := a.svc.Relationships.List(r.Context(), actorFrom(r.Context()), profileID)
	if err != nil {
		fail(w, r, a.log, err)
		return
	}
	writeJSON(w, http.StatusOK, mapSlice(rels, toRelationshipView))
}

func (a *api) createRelationship(w http.ResponseWriter, r *http.Request) {
	var req relationshipRequest
	if err := decode(r, &req); err != nil {
		fail(w, r, a.log, err)
		return
	}
	rel, err := a.svc.Relationships.Create(r.Context(), actorFrom(r.Context()), req.TutorID, req.StudentID)
	if err != nil {
		fail(w, r, a.log, err)
		return
	}
	writeJSON(w, http.StatusCreated, toRelationshipView(rel))
}

func (a *api) deactivateRelationship(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		fail(w, r, a.log, err)
		return
	}
	if err := a.svc.Relationships.Deactivate(r.Context(), actorFrom(r.Context()), id); err != nil {
		fail(w, r, a.log, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
