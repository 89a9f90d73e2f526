package httpapi

import (
	"fmt"
	"net/http"
	"time"

	"tutorhub/internal/app"
	"tutorhub/internal/domain/class"

	"github.com/go-chi/chi/v5"
)

func (a *api) classRoutes(r chi.Router) {
	r.Get("/", a.listClasses)
	r.Post("/", a.createClass)
	r.Get("/{id}", a.getClass)
	r.Put("/{id}", a.updateClass)
	r.Delete("/{id}", a.deleteClass)
	r.Post("/{id}/duplicate", a.duplicateClass)
	r.Post("/{id}/complete", a.completeClass)
	r.Post("/{id}/cancel", a.cancelClass)
}

func parseTimeParam(r *http.Request, name string) (time.Time, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %s must be RFC 3339", app.ErrInvalidInput, name)
	}
	return t, nil
}

func (a *api) listClasses(w http.ResponseWriter, r *http.Request) {
	from, err := parseTimeParam(r, "from")
	if err != nil {
		fail(w, r, a.log, err)
		return
	}
	to, err := parseTimeParam(r, "to")
	if err != nil {
		fail(w, r, a.log, err)
		return
	}
	tutorID, err := idQuery(r, "tutor_id")
	if err != nil {
		fail(w, r, a.log, err)
		return
	}
	studentID, err := idQuery(r, "student_id")
	if err != nil {
		fail(w, r, a.log, err)
		return
	}
	status := class.Status(r.URL.Query().Get("status"))
	switch status {
	case "", class.StatusScheduled, class.StatusCompleted, class.StatusCancelled:
	default:
		fail(w, r, a.log, fmt.Errorf("%w: unknown status %q", app.ErrInvalidInput, status))
		return
	}

	events, err := a.svc.Scheduler.ListEvents(r.Context(), actorFrom(r.Context()), class.Filter{
		TutorID:   tutorID,
		StudentID: studentID,
		From:      from,
		To:        to,
		Status:    status,
	})
	if err != nil {
		fail(w, r, a.log, err)
		return
	}
	writeJSON(w, http.StatusOK, mapSlice(events, toEventView))
}

func (req classRequest) input() app.ClassInput {
	return app.ClassInput{
		TutorID:   req.TutorID,
		StudentID: req.StudentID,
		Title:     req.Title,
		Subject:   req.Subject,
		StartTime: req.StartTime,
		EndTime:   req.EndTime,
	}
}

func (a *api) createClass(w http.ResponseWriter, r *http.Request) {
	var req classRequest
	if err := decode(r, &req); err != nil {
		fail(w, r, a.log, err)
		return
	}
	e, err := a.svc.Scheduler.CreateEvent(r.Context(), actorFrom(r.Context()), req.input())
	if err != nil {
		fail(w, r, a.log, err)
		return
	}
	writeJSON(w, http.StatusCreated, toEventView(e))
}

func (a *api) getClass(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		fail(w, r, a.log, err)
		return
	}
	e, err := a.svc.Scheduler.GetEvent(r.Context(), actorFrom(r.Context()), id)
	if err != nil {
		fail(w, r, a.log, err)
		return
	}
	writeJSON(w, http.StatusOK, toEventView(e))
}

func (a *api) updateClass(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		fail(w, r, a.log, err)
		return
	}
	var req classRequest
	if err := decode(r, &req); err != nil {
		fail(w, r, a.log, err)
		return
	}
	e, err := a.svc.Scheduler.UpdateEvent(r.Context(), actorFrom(r.Context()), id, req.input())
	if err != nil {
		fail(w, r, a.log, err)
		return
	}
	writeJSON(w, http.StatusOK, toEventView(e))
}

func (a *api) deleteClass(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		fail(w, r, a.log, err)
		return
	}
	if err := a.svc.Scheduler.DeleteEvent(r.Context(), actorFrom(r.Context()), id); err != nil {
		fail(w, r, a.log, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (a *api) duplicateClass(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		fail(w, r, a.log, err)
		return
	}
	var req duplicateRequest
	if err := decodeOptional(r, &req); err != nil {
		fail(w, r, a.log, err)
		return
	}
	var start time.Time
	if req.StartTime != nil {
		start = *req.StartTime
	}
	e, err := a.svc.Scheduler.DuplicateEvent(r.Context(), actorFrom(r.Context()), id, start)
	if err != nil {
		fail(w, r, a.log, err)
		return
	}
	writeJSON(w, http.StatusCreated, toEventView(e))
}

func (a *api) completeClass(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		fail(w, r, a.log, err)
		return
	}
	var req completeRequest
	if err := decodeOptional(r, &req); err != nil {
		fail(w, r, a.log, err)
		return
	}
	e, err := a.svc.Scheduler.CompleteEvent(r.Context(), actorFrom(r.Context()), id, req.Notes)
	if err != nil {
		fail(w, r, a.log, err)
		return
	}
	writeJSON(w, http.StatusOK, toEventView(e))
}

func (a *api) cancelClass(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		fail(w, r, a.log, err)
		return
	}
	e, err := a.svc.Scheduler.CancelEvent(r.Context(), actorFrom(r.Context()), id)
	if err != nil {
		fail(w, r, a.log, err)
		return
	}
	writeJSON(w, http.StatusOK, toEventView(e))
}
