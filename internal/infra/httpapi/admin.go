package httpapi

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"tutorhub/internal/domain/backup"
	"tutorhub/internal/domain/profile"

	"github.com/go-chi/chi/v5"
)

func (a *api) adminRoutes(r chi.Router) {
	r.Use(requireAdmin)
	r.Get("/profiles", a.listProfiles)
	r.Get("/profiles/{id}", a.getProfile)
	r.Post("/profiles/{id}/promote", a.profileAction(a.svc.Admin.PromoteToAdmin))
	r.Post("/profiles/{id}/deactivate", a.profileAction(a.svc.Admin.Deactivate))
	r.Post("/profiles/{id}/activate", a.profileAction(a.svc.Admin.Activate))
	r.Get("/backups", a.listBackups)
	r.Post("/backups", a.runBackup)
}

func (a *api) me(w http.ResponseWriter, r *http.Request) {
	actor := actorFrom(r.Context())
	p, err := a.svc.Admin.GetProfile(r.Context(), actor, actor.ID)
	if err != nil {
		fail(w, r, a.log, err)
		return
	}
	writeJSON(w, http.StatusOK, toProfileView(p))
}

type telegramLinkView struct {
	Code      string    `json:"code"`
	Command   string    `json:"command"`
	ExpiresAt time.Time `json:"expires_at"`
}

// telegramLink hands the signed-in user a short-lived code to send to the bot.
func (a *api) telegramLink(w http.ResponseWriter, r *http.Request) {
	if a.svc.TelegramLinks == nil {
		writeError(w, http.StatusServiceUnavailable, "Telegram is not configured")
		return
	}
	actor := actorFrom(r.Context())
	p, err := a.svc.Admin.GetProfile(r.Context(), actor, actor.ID)
	if err != nil {
		fail(w, r, a.log, err)
		return
	}
	if !p.Active {
		writeError(w, http.StatusForbidden, "Profile is inactive")
		return
	}
	code, expires, err := a.svc.TelegramLinks.Issue(p.ID)
	if err != nil {
		fail(w, r, a.log, err)
		return
	}
	writeJSON(w, http.StatusCreated, telegramLinkView{Code: code, Command: "/start " + code, ExpiresAt: expires})
}

func (a *api) listProfiles(w http.ResponseWriter, r *http.Request) {
	profiles, err := a.svc.Admin.ListProfiles(r.Context(), actorFrom(r.Context()), profile.Role(r.URL.Query().Get("role")))
	if err != nil {
		fail(w, r, a.log, err)
		return
	}
	writeJSON(w, http.StatusOK, mapSlice(profiles, toProfileView))
}

func (a *api) getProfile(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		fail(w, r, a.log, err)
		return
	}
	p, err := a.svc.Admin.GetProfile(r.Context(), actorFrom(r.Context()), id)
	if err != nil {
		fail(w, r, a.log, err)
		return
	}
	writeJSON(w, http.StatusOK, toProfileView(p))
}

type profileOp func(ctx context.Context, actor profile.Actor, id string) (*profile.Profile, error)

func (a *api) profileAction(op profileOp) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := idParam(r, "id")
		if err != nil {
			fail(w, r, a.log, err)
			return
		}
		p, err := op(r.Context(), actorFrom(r.Context()), id)
		if err != nil {
			fail(w, r, a.log, err)
			return
		}
		writeJSON(w, http.StatusOK, toProfileView(p))
	}
}

func (a *api) listBackups(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	logs, err := a.svc.Backups.List(r.Context(), limit)
	if err != nil {
		fail(w, r, a.log, err)
		return
	}
	writeJSON(w, http.StatusOK, mapSlice(logs, toBackupView))
}

func (a *api) runBackup(w http.ResponseWriter, r *http.Request) {
	entry, err := a.svc.Backups.Run(r.Context(), backup.TriggerManual)
	if err != nil {
		if entry != nil {
			writeJSON(w, http.StatusInternalServerError, toBackupView(entry))
			return
		}
		fail(w, r, a.log, err)
		return
	}
	writeJSON(w, http.StatusCreated, toBackupView(entry))
}
