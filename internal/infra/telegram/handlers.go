package telegram

import (
	"context"
	"errors"
	"time"

	"tutorhub/internal/domain/backup"
	"tutorhub/internal/domain/class"
	"tutorhub/internal/domain/profile"
	idb "tutorhub/internal/infra/database"

	"github.com/sirupsen/logrus"
	"gopkg.in/telebot.v3"
)

// ProfileStore is the part of the profile repository the bot needs.
type ProfileStore interface {
	GetByID(ctx context.Context, id string) (*profile.Profile, error)
	GetByTelegramChatID(ctx context.Context, chatID int64) (*profile.Profile, error)
	SetTelegramChatID(ctx context.Context, id string, chatID int64) error
}

type ClassLister interface {
	ListEvents(ctx context.Context, actor profile.Actor, f class.Filter) ([]*class.Event, error)
}

type ProfileAdmin interface {
	ListProfiles(ctx context.Context, actor profile.Actor, role profile.Role) ([]*profile.Profile, error)
	Deactivate(ctx context.Context, actor profile.Actor, id string) (*profile.Profile, error)
	Activate(ctx context.Context, actor profile.Actor, id string) (*profile.Profile, error)
}

type BackupRunner interface {
	Run(ctx context.Context, trigger backup.Trigger) (*backup.Log, error)
}

// LinkVerifier resolves a link code from the dashboard to a profile id.
type LinkVerifier interface {
	Verify(raw string) (string, error)
}

type NotificationMarker interface {
	MarkRead(ctx context.Context, userID, id string) error
}

// Handlers holds everything the bot commands work with.
type Handlers struct {
	ctx      context.Context
	profiles ProfileStore
	classes  ClassLister
	admin    ProfileAdmin
	backups  BackupRunner
	notifs   NotificationMarker
	links    LinkVerifier
	log      *logrus.Entry
	now      func() time.Time
}

func NewHandlers(
	ctx context.Context,
	ps ProfileStore,
	cl ClassLister,
	pa ProfileAdmin,
	br BackupRunner,
	nm NotificationMarker,
	lv LinkVerifier,
	log *logrus.Entry,
) *Handlers {
	return &Handlers{
		ctx:      ctx,
		profiles: ps,
		classes:  cl,
		admin:    pa,
		backups:  br,
		notifs:   nm,
		links:    lv,
		log:      log,
		now:      time.Now,
	}
}

// Register installs every command and callback handler on b.
func (h *Handlers) Register(b *telebot.Bot) {
	RegisterBotCommands(b, h)
	RegisterAdminHandlers(b, h)
	RegisterNotificationCallbacks(b, h)
}

// linkedProfile returns the profile linked to the sender's chat, or nil when
// the chat is not linked.
func (h *Handlers) linkedProfile(c telebot.Context) (*profile.Profile, error) {
	p, err := h.profiles.GetByTelegramChatID(h.ctx, c.Sender().ID)
	if errors.Is(err, idb.ErrProfileNotFound) {
		return nil, nil
	}
	return p, err
}
