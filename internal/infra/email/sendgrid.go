// Package email delivers notifications by e-mail through SendGrid.
package email

import (
	"context"
	"fmt"
	"html"
	"net/http"
	"strings"

	"tutorhub/internal/domain/notification"
	"tutorhub/internal/domain/profile"

	"github.com/sendgrid/sendgrid-go"
	sgmail "github.com/sendgrid/sendgrid-go/helpers/mail"
)

const (
	DefaultHost = "https://api.sendgrid.com"
	endpoint    = "/v3/mail/send"
)

// Channel sends notifications to a profile's e-mail address.
type Channel struct {
	key        string
	host       string
	from       *sgmail.Email
	subjPrefix string
}

func NewChannel(key, appName, fromEmail, host string) *Channel {
	if host == "" {
		host = DefaultHost
	}
	return &Channel{
		key:        key,
		host:       host,
		from:       sgmail.NewEmail(appName, fromEmail),
		subjPrefix: "[" + appName + "] ",
	}
}

func (ch *Channel) Name() string { return "email" }

// wantsEmail reports whether a notification type is worth an e-mail. Minute
// by minute reminders are left to Telegram and the dashboard.
func wantsEmail(t notification.Type) bool {
	switch t {
	case notification.TypeDailySchedule, notification.TypeDailyReport, notification.TypeClassChanged, notification.TypeBackup:
		return true
	}
	return false
}

func (ch *Channel) prepare(to *profile.Profile, n *notification.Notification) *sgmail.SGMailV3 {
	p := sgmail.NewPersonalization()
	p.Subject = ch.subjPrefix + n.Title
	p.AddTos(sgmail.NewEmail(to.FullName, to.Email))

	m := sgmail.NewV3Mail()
	m.SetFrom(ch.from)
	m.AddPersonalizations(p)
	m.AddContent(
		sgmail.NewContent("text/plain", n.Message),
		sgmail.NewContent("text/html", "<p>"+strings.ReplaceAll(html.EscapeString(n.Message), "\n", "<br>")+"</p>"),
	)
	return m
}

// Deliver e-mails n to the recipient. Profiles without an address and
// notification types that are not mailed are skipped.
func (ch *Channel) Deliver(ctx context.Context, to *profile.Profile, n *notification.Notification) error {
	if to.Email == "" || !wantsEmail(n.Type) {
		return nil
	}
	req := sendgrid.GetRequest(ch.key, endpoint, ch.host)
	req.Method = http.MethodPost
	req.Body = sgmail.GetRequestBody(ch.prepare(to, n))

	res, err := sendgrid.MakeRequestWithContext(ctx, req)
	if err != nil {
		return fmt.Errorf("sendgrid request: %w", err)
	}
	if res.StatusCode >= http.StatusBadRequest {
		return fmt.Errorf("sendgrid responded %d: %s", res.StatusCode, res.Body)
	}
	return nil
}
