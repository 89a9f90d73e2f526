package telegram

import (
	"fmt"
	"strings"

	"gopkg.in/telebot.v3"
)

// RegisterNotificationCallbacks handles the inline buttons attached to delivered notifications.
func RegisterNotificationCallbacks(b *telebot.Bot, h *Handlers) {
	b.Handle(telebot.OnCallback, h.handleCallback)
}

func (h *Handlers) handleCallback(c telebot.Context) error {
	data := c.Callback().Data

	if !strings.HasPrefix(data, markReadPrefix) {
		c.Bot().OnError(fmt.Errorf("unhandled callback data: %s", data), c)
		return c.Respond(&telebot.CallbackResponse{Text: "Unknown action."})
	}
	notificationID := strings.TrimPrefix(data, markReadPrefix)

	p, err := h.linkedProfile(c)
	if err != nil || p == nil {
		return c.Respond(&telebot.CallbackResponse{Text: "This chat is not linked to an account."})
	}
	if err := h.notifs.MarkRead(h.ctx, p.ID, notificationID); err != nil {
		h.log.WithError(err).WithField("notification_id", notificationID).Warn("Failed to mark notification read")
		return c.Respond(&telebot.CallbackResponse{Text: "Could not update the notification."})
	}
	return c.Respond(&telebot.CallbackResponse{Text: "Marked as read."})
}
