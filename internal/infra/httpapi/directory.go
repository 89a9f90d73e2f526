package httpapi

import (
	"database/sql"
	"net/http"

	"tutorhub/internal/domain/profile"

	"github.com/go-chi/chi/v5"
)

func (a *api) tutorRoutes(r chi.Router) {
	r.Get("/", a.listTutors)
	r.Get("/{id}", a.getTutor)
	r.Put("/{id}", a.updateTutor)
}

func (a *api) listTutors(w http.ResponseWriter, r *http.Request) {
	tutors, err := a.svc.Directory.ListTutors(r.Context(), r.URL.Query().Get("subject"))
	if err != nil {
		fail(w, r, a.log, err)
		return
	}
	writeJSON(w, http.StatusOK, mapSlice(tutors, toTutorView))
}

func (a *api) getTutor(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		fail(w, r, a.log, err)
		return
	}
	d, err := a.svc.Directory.GetTutor(r.Context(), id)
	if err != nil {
		fail(w, r, a.log, err)
		return
	}
	writeJSON(w, http.StatusOK, toTutorView(d))
}

func (a *api) updateTutor(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		fail(w, r, a.log, err)
		return
	}
	var req tutorDetailsRequest
	if err := decode(r, &req); err != nil {
		fail(w, r, a.log, err)
		return
	}
	d, err := a.svc.Directory.UpdateTutor(r.Context(), actorFrom(r.Context()), profile.TutorDetails{
		ProfileID:       id,
		Subjects:        req.Subjects,
		HourlyRateCents: req.HourlyRateCents,
		Bio:             req.Bio,
	})
	if err != nil {
		fail(w, r, a.log, err)
		return
	}
	writeJSON(w, http.StatusOK, toTutorView(d))
}

func (a *api) getStudent(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		fail(w, r, a.log, err)
		return
	}
	d, err := a.svc.Directory.GetStudent(r.Context(), actorFrom(r.Context()), id)
	if err != nil {
		fail(w, r, a.log, err)
		return
	}
	writeJSON(w, http.StatusOK, toStudentView(d))
}

func (a *api) updateStudent(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		fail(w, r, a.log, err)
		return
	}
	var req studentDetailsRequest
	if err := decode(r, &req); err != nil {
		fail(w, r, a.log, err)
		return
	}
	d, err := a.svc.Directory.UpdateStudent(r.Context(), actorFrom(r.Context()), profile.StudentDetails{
		ProfileID:   id,
		GradeLevel:  sql.NullString{String: req.GradeLevel, Valid: req.GradeLevel != ""},
		ParentEmail: sql.NullString{String: req.ParentEmail, Valid: req.ParentEmail != ""},
	})
	if err != nil {
		fail(w, r, a.log, err)
		return
	}
	writeJSON(w, http.StatusOK, toStudentView(d))
}
