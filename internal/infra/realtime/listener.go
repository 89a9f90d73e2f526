package realtime

import (
	"context"
	"fmt"
	"time"

	"tutorhub/internal/infra/cache"

	"github.com/lib/pq"
	"github.com/sirupsen/logrus"
)

// Source is the part of *pq.Listener the feed consumes.
type Source interface {
	Listen(channel string) error
	NotificationChannel() <-chan *pq.Notification
	Ping() error
	Close() error
}

// NewPQSource opens a dedicated LISTEN connection with automatic reconnects.
func NewPQSource(databaseURL string, log *logrus.Entry) *pq.Listener {
	return pq.NewListener(databaseURL, 2*time.Second, time.Minute, func(ev pq.ListenerEventType, err error) {
		switch ev {
		case pq.ListenerEventConnected:
			log.Info("Realtime listener connected")
		case pq.ListenerEventDisconnected:
			log.WithError(err).Warn("Realtime listener disconnected")
		case pq.ListenerEventReconnected:
			log.Info("Realtime listener reconnected")
		case pq.ListenerEventConnectionAttemptFailed:
			log.WithError(err).Warn("Realtime listener connection attempt failed")
		}
	})
}

// Listener turns NOTIFY payloads into cache invalidations and hub events.
type Listener struct {
	source       Source
	hub          *Hub
	cache        cache.Cache
	log          *logrus.Entry
	pingInterval time.Duration
}

func NewListener(source Source, hub *Hub, c cache.Cache, log *logrus.Entry) *Listener {
	return &Listener{source: source, hub: hub, cache: c, log: log, pingInterval: 90 * time.Second}
}

// Run listens until ctx is cancelled or the source channel closes.
func (l *Listener) Run(ctx context.Context) error {
	if err := l.source.Listen(Channel); err != nil {
		return fmt.Errorf("failed to listen on %s: %w", Channel, err)
	}
	l.log.WithField("channel", Channel).Info("Realtime listener started")

	ticker := time.NewTicker(l.pingInterval)
	defer ticker.Stop()

	notifications := l.source.NotificationChannel()
	for {
		select {
		case <-ctx.Done():
			l.log.Info("Realtime listener stopping")
			return l.source.Close()
		case n, ok := <-notifications:
			if !ok {
				return nil
			}
			l.handle(ctx, n)
		case <-ticker.C:
			// Detects dead connections the server never told us about.
			go func() {
				if err := l.source.Ping(); err != nil {
					l.log.WithError(err).Warn("Realtime listener ping failed")
				}
			}()
		}
	}
}

func (l *Listener) handle(ctx context.Context, n *pq.Notification) {
	if n == nil {
		// pq sends nil after a reconnect; anything may have been missed.
		l.log.Warn("Realtime connection re-established, asking clients to resync")
		for _, prefix := range []string{cache.ClassesPrefix, cache.RelationshipsPrefix} {
			if err := l.cache.DeletePrefix(ctx, prefix); err != nil {
				l.log.WithError(err).WithField("prefix", prefix).Warn("Failed to flush cache after reconnect")
			}
		}
		l.hub.Publish(Change{Type: ChangeResync})
		return
	}

	change, err := ParseChange(n.Extra)
	if err != nil {
		l.log.WithError(err).WithField("payload", n.Extra).Warn("Skipping malformed change")
		return
	}

	if keys := keysFor(change); len(keys) > 0 {
		if err := l.cache.Delete(ctx, keys...); err != nil {
			l.log.WithError(err).WithField("keys", keys).Warn("Failed to invalidate cache keys")
		}
	}

	delivered := l.hub.Publish(change)
	l.log.WithFields(logrus.Fields{
		"table":     change.Table,
		"type":      change.Type,
		"id":        change.ID,
		"delivered": delivered,
	}).Debug("Change dispatched")
}

func keysFor(c Change) []string {
	switch c.Table {
	case "class_logs":
		return cache.ClassKeys(c.TutorID, c.StudentID)
	case "tutor_student_relationships":
		var keys []string
		for _, id := range []string{c.TutorID, c.StudentID} {
			if id != "" {
				keys = append(keys, cache.RelationshipsKey(id))
			}
		}
		if c.TutorID != "" && c.StudentID != "" {
			keys = append(keys, cache.RelationshipPairKey(c.TutorID, c.StudentID))
		}
		return keys
	}
	return nil
}
