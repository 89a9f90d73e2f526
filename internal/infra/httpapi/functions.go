package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"tutorhub/internal/domain/backup"

	"github.com/go-chi/chi/v5"
	"github.com/sirupsen/logrus"
)

const (
	fnAutoBackup           = "auto-backup"
	fnCheckUpcomingClasses = "check-upcoming-classes"
)

type functionResult struct {
	Success  bool   `json:"success"`
	Error    string `json:"error,omitempty"`
	Count    *int   `json:"count,omitempty"`
	BackupID string `json:"backup_id,omitempty"`
	File     string `json:"file,omitempty"`
	Pruned   *int   `json:"pruned,omitempty"`
}

func (a *api) functionRoutes(r chi.Router) {
	r.Post("/"+fnAutoBackup, a.autoBackup)
	r.Post("/"+fnCheckUpcomingClasses, a.countJob("check-upcoming-classes", a.svc.Notifications.CheckUpcomingClasses))
	r.Post("/cron-next-day-reminders", a.countJob("next-day-reminders", a.svc.Notifications.SendNextDayReminders))
	r.Post("/cron-daily-report", a.countJob("daily-report", a.svc.Notifications.SendDailyReport))
	r.Post("/cron-upcoming-classes", a.proxy(fnCheckUpcomingClasses))
	r.Post("/cron-auto-backup", a.proxy(fnAutoBackup))
}

func (a *api) functionFailed(w http.ResponseWriter, name string, err error) {
	a.log.WithError(err).WithField("function", name).Error("Function failed")
	writeJSON(w, http.StatusInternalServerError, functionResult{Success: false, Error: err.Error()})
}

func (a *api) countJob(name string, job func(ctx context.Context) (int, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		n, err := job(r.Context())
		if err != nil {
			a.functionFailed(w, name, err)
			return
		}
		a.log.WithFields(logrus.Fields{"function": name, "count": n}).Info("Function completed")
		writeJSON(w, http.StatusOK, functionResult{Success: true, Count: &n})
	}
}

func (a *api) autoBackup(w http.ResponseWriter, r *http.Request) {
	entry, err := a.svc.Backups.Run(r.Context(), backup.TriggerAuto)
	if err != nil {
		a.functionFailed(w, fnAutoBackup, err)
		return
	}
	res := functionResult{Success: true, BackupID: entry.ID}
	if entry.FilePath.Valid {
		res.File = entry.FilePath.String
	}

	if a.cfg.BackupRetentionDays > 0 {
		pruned, err := a.svc.Backups.Prune(r.Context(), a.cfg.BackupRetentionDays)
		if err != nil {
			a.log.WithError(err).Warn("Backup pruning failed")
		} else {
			res.Pruned = &pruned
		}
	}
	writeJSON(w, http.StatusOK, res)
}

// proxy forwards the call to another function, the way the cron triggers do.
func (a *api) proxy(target string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if a.svc.Functions == nil {
			a.functionFailed(w, target, fmt.Errorf("functions client is not configured"))
			return
		}
		status, body, err := a.svc.Functions.Invoke(r.Context(), target)
		if err != nil {
			a.functionFailed(w, target, err)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write(body)
	}
}

// FunctionClient calls edge functions over HTTP with the service role key.
type FunctionClient struct {
	baseURL string
	key     string
	http    *http.Client
}

func NewFunctionClient(baseURL, key string, client *http.Client) *FunctionClient {
	if client == nil {
		client = &http.Client{Timeout: 5 * time.Minute}
	}
	return &FunctionClient{baseURL: baseURL, key: key, http: client}
}

// Invoke POSTs an empty JSON object to the named function and returns its raw response.
func (c *FunctionClient) Invoke(ctx context.Context, name string) (int, []byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/"+name, bytes.NewReader([]byte("{}")))
	if err != nil {
		return 0, nil, fmt.Errorf("failed to build request for %s: %w", name, err)
	}
	req.Header.Set("Authorization", "Bearer "+c.key)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to call %s: %w", name, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return 0, nil, fmt.Errorf("failed to read %s response: %w", name, err)
	}
	if !json.Valid(body) {
		return 0, nil, fmt.Errorf("%s returned a non-JSON response (status %d)", name, resp.StatusCode)
	}
	return resp.StatusCode, body, nil
}
