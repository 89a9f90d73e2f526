package telegram

import (
	"errors"
	"fmt"
	"strings"

	"tutorhub/internal/app"
	"tutorhub/internal/domain/backup"
	"tutorhub/internal/domain/profile"

	"github.com/sirupsen/logrus"
	"gopkg.in/telebot.v3"
)

const notAuthorizedMsg = "Error: you are not allowed to run this command."

// RegisterAdminHandlers registers the admin-only commands. Admins are
// recognised by the role of the profile linked to their chat.
func RegisterAdminHandlers(b *telebot.Bot, h *Handlers) {
	b.Handle("/profiles", h.handleProfiles)
	b.Handle("/deactivate", func(c telebot.Context) error { return h.handleSetActive(c, false) })
	b.Handle("/activate", func(c telebot.Context) error { return h.handleSetActive(c, true) })
	b.Handle("/backup", h.handleBackup)
}

// adminActor resolves the sender to an admin actor. ok is false when the
// command must not proceed; the reply has been sent already in that case.
func (h *Handlers) adminActor(c telebot.Context, handlerLogger *logrus.Entry) (profile.Actor, bool, error) {
	p, err := h.linkedProfile(c)
	if err != nil {
		handlerLogger.WithError(err).Error("Error checking linked profile")
		return profile.Actor{}, false, c.Send("Something went wrong, please try again later.")
	}
	if p == nil || p.Role != profile.RoleAdmin || !p.Active {
		handlerLogger.Warn("Unauthorized access attempt")
		return profile.Actor{}, false, c.Send(notAuthorizedMsg)
	}
	return profile.Actor{ID: p.ID, Role: p.Role}, true, nil
}

func (h *Handlers) handleProfiles(c telebot.Context) error {
	handlerLogger := h.log.WithFields(logrus.Fields{"handler": "/profiles", "sender_id": c.Sender().ID})
	handlerLogger.Info("Command received")

	actor, ok, err := h.adminActor(c, handlerLogger)
	if !ok {
		return err
	}

	var role profile.Role
	if args := c.Args(); len(args) > 0 {
		role = profile.Role(strings.ToLower(args[0]))
	}
	profiles, err := h.admin.ListProfiles(h.ctx, actor, role)
	if err != nil {
		if errors.Is(err, app.ErrInvalidInput) {
			return c.Send("Unknown role. Use student, tutor or admin, or leave it empty.")
		}
		handlerLogger.WithError(err).Error("Failed to list profiles")
		return c.Send(fmt.Sprintf("Could not list profiles: %s", err.Error()))
	}
	if len(profiles) == 0 {
		return c.Send("No profiles found.")
	}

	var response strings.Builder
	response.WriteString("--- Profiles ---\n")
	for _, p := range profiles {
		status := "inactive"
		if p.Active {
			status = "active"
		}
		fmt.Fprintf(&response, "%s | %s | %s | %s | %s\n", p.ID, displayName(p), p.Email, p.Role, status)
	}
	return c.Send(response.String())
}

func (h *Handlers) handleSetActive(c telebot.Context, active bool) error {
	command := "/deactivate"
	if active {
		command = "/activate"
	}
	handlerLogger := h.log.WithFields(logrus.Fields{"handler": command, "sender_id": c.Sender().ID})
	handlerLogger.Info("Command received")

	actor, ok, err := h.adminActor(c, handlerLogger)
	if !ok {
		return err
	}
	args := c.Args()
	if len(args) != 1 {
		return c.Send(fmt.Sprintf("Invalid format. Use: %s <profile id>", command))
	}
	handlerLogger = handlerLogger.WithField("profile_id", args[0])

	var p *profile.Profile
	if active {
		p, err = h.admin.Activate(h.ctx, actor, args[0])
	} else {
		p, err = h.admin.Deactivate(h.ctx, actor, args[0])
	}
	switch {
	case err == nil:
		handlerLogger.Info("Profile status changed")
		if active {
			return c.Send(fmt.Sprintf("%s is active again.", displayName(p)))
		}
		return c.Send(fmt.Sprintf("%s has been deactivated.", displayName(p)))
	case app.IsNotFound(err):
		return c.Send("No profile with that id exists.")
	case errors.Is(err, app.ErrProfileAlreadyInactive):
		return c.Send("That profile is already inactive.")
	case errors.Is(err, app.ErrProfileAlreadyActive):
		return c.Send("That profile is already active.")
	case app.IsValidation(err):
		return c.Send(err.Error())
	default:
		handlerLogger.WithError(err).Error("Failed to change profile status")
		return c.Send(fmt.Sprintf("Could not update the profile: %s", err.Error()))
	}
}

func (h *Handlers) handleBackup(c telebot.Context) error {
	handlerLogger := h.log.WithFields(logrus.Fields{"handler": "/backup", "sender_id": c.Sender().ID})
	handlerLogger.Info("Command received")

	if _, ok, err := h.adminActor(c, handlerLogger); !ok {
		return err
	}
	entry, err := h.backups.Run(h.ctx, backup.TriggerManual)
	if err != nil {
		handlerLogger.WithError(err).Error("Manual backup failed")
		return c.Send(fmt.Sprintf("Backup failed: %s", err.Error()))
	}
	return c.Send(fmt.Sprintf("Backup completed: %d tables, %d bytes.", entry.TablesCount, entry.SizeBytes))
}
