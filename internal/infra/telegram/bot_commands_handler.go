// internal/infra/telegram/bot_commands_handler.go
package telegram

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"tutorhub/internal/domain/class"
	"tutorhub/internal/domain/profile"
	idb "tutorhub/internal/infra/database"

	"github.com/sirupsen/logrus"
	"gopkg.in/telebot.v3"
)

const upcomingLimit = 5

const linkHint = "Open Settings in the dashboard, press \"Link Telegram\" and send the /start command it shows here."

func RegisterBotCommands(b *telebot.Bot, h *Handlers) {
	b.Handle("/start", h.handleStart)
	b.Handle("/help", h.handleHelp)
	b.Handle("/upcoming", h.handleUpcoming)
}

// handleStart links the chat to the profile named by a link code. Codes are
// issued to the signed-in user by the dashboard, so only the owner can link.
// A valid code moves an existing link to this chat.
func (h *Handlers) handleStart(c telebot.Context) error {
	senderID := c.Sender().ID
	logCtx := h.log.WithFields(logrus.Fields{"command": "/start", "sender_id": senderID})
	logCtx.Info("Processing /start command")

	args := c.Args()
	if len(args) == 0 {
		linked, err := h.linkedProfile(c)
		if err != nil {
			logCtx.WithError(err).Error("Error checking linked profile")
			return c.Send("Something went wrong, please try again later.")
		}
		if linked != nil {
			return c.Send(fmt.Sprintf("Hi %s! Your chat is linked. Use /upcoming to see your next classes.", displayName(linked)))
		}
		return c.Send("Hi! " + linkHint)
	}

	profileID, err := h.links.Verify(args[0])
	if err != nil {
		logCtx.Warn("Rejected link code")
		return c.Send("That link code is invalid or has expired. Get a new one from Settings in the dashboard.")
	}
	p, err := h.profiles.GetByID(h.ctx, profileID)
	if errors.Is(err, idb.ErrProfileNotFound) {
		logCtx.WithField("profile_id", profileID).Warn("Link code for unknown profile")
		return c.Send("No profile with that id exists.")
	}
	if err != nil {
		logCtx.WithError(err).Error("Error loading profile")
		return c.Send("Something went wrong, please try again later.")
	}
	if !p.Active {
		return c.Send("Your account is inactive. Please contact an administrator.")
	}
	if p.TelegramChatID.Valid && p.TelegramChatID.Int64 == senderID {
		return c.Send(fmt.Sprintf("Hi %s! Your chat is already linked.", displayName(p)))
	}

	if err := h.profiles.SetTelegramChatID(h.ctx, p.ID, senderID); err != nil {
		if errors.Is(err, idb.ErrDuplicateTelegramChat) {
			return c.Send("This Telegram account is already linked to another profile.")
		}
		logCtx.WithError(err).Error("Failed to link chat")
		return c.Send("Something went wrong, please try again later.")
	}
	logCtx.WithFields(logrus.Fields{"profile_id": p.ID, "relinked": p.TelegramChatID.Valid}).Info("Telegram chat linked")
	return c.Send(fmt.Sprintf("Done, %s! You will get class reminders here.", displayName(p)))
}

func (h *Handlers) handleHelp(c telebot.Context) error {
	var help strings.Builder
	help.WriteString("Available commands:\n\n")
	help.WriteString("/start <link code> - link this chat to your account\n")
	help.WriteString("/upcoming - your next classes\n")
	help.WriteString("/help - show this message\n")

	p, err := h.linkedProfile(c)
	if err != nil {
		h.log.WithError(err).WithField("command", "/help").Error("Error checking linked profile")
	}
	if p != nil && p.Role == profile.RoleAdmin {
		help.WriteString("\nAdmin commands:\n\n")
		help.WriteString("/profiles [student|tutor|admin] - list profiles\n")
		help.WriteString("/deactivate <profile id> - deactivate a profile\n")
		help.WriteString("/activate <profile id> - reactivate a profile\n")
		help.WriteString("/backup - run a backup now\n")
	}
	return c.Send(help.String())
}

func (h *Handlers) handleUpcoming(c telebot.Context) error {
	logCtx := h.log.WithFields(logrus.Fields{"command": "/upcoming", "sender_id": c.Sender().ID})

	p, err := h.linkedProfile(c)
	if err != nil {
		logCtx.WithError(err).Error("Error checking linked profile")
		return c.Send("Something went wrong, please try again later.")
	}
	if p == nil {
		return c.Send("This chat is not linked yet. " + linkHint)
	}

	events, err := h.classes.ListEvents(h.ctx, profile.Actor{ID: p.ID, Role: p.Role}, class.Filter{
		From:   h.now().UTC(),
		Status: class.StatusScheduled,
	})
	if err != nil {
		logCtx.WithError(err).Error("Failed to list classes")
		return c.Send("Could not load your classes, please try again later.")
	}
	if len(events) == 0 {
		return c.Send("No upcoming classes.")
	}

	sort.Slice(events, func(i, j int) bool { return events[i].StartTime.Before(events[j].StartTime) })
	if len(events) > upcomingLimit {
		events = events[:upcomingLimit]
	}
	loc := location(p)
	var out strings.Builder
	out.WriteString("Your next classes:\n")
	for _, e := range events {
		fmt.Fprintf(&out, "\n%s  %s", e.StartTime.In(loc).Format("Mon 02 Jan 15:04"), e.Title)
		if e.Subject != "" {
			fmt.Fprintf(&out, " (%s)", e.Subject)
		}
	}
	return c.Send(out.String())
}
