package realtime

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"noticeboard/backend/internal/models"

	"github.com/lib/pq"
	"go.uber.org/zap"
)

// Publisher hands a change event to every API instance.
type Publisher interface {
	PublishChange(ctx context.Context, ev models.ChangeEvent) error
}

// PGListener forwards notify_board_change notifications from Postgres to the publisher.
type PGListener struct {
	DSN       string
	Channel   string
	Publisher Publisher
	log       *zap.Logger
}

func NewPGListener(dsn, channel string, p Publisher, log *zap.Logger) *PGListener {
	return &PGListener{DSN: dsn, Channel: channel, Publisher: p, log: log}
}

// ParseNotification decodes a trigger payload.
func ParseNotification(payload string) (models.ChangeEvent, error) {
	var ev models.ChangeEvent
	if err := json.Unmarshal([]byte(payload), &ev); err != nil {
		return ev, fmt.Errorf("realtime: decode notification: %w", err)
	}
	if ev.Table == "" {
		return ev, fmt.Errorf("realtime: notification without table: %q", payload)
	}
	return ev, nil
}

// Run listens until ctx is done.
func (l *PGListener) Run(ctx context.Context) error {
	listener := pq.NewListener(l.DSN, 10*time.Second, time.Minute, func(ev pq.ListenerEventType, err error) {
		if err != nil {
			l.log.Warn("pg listener event", zap.Int("event", int(ev)), zap.Error(err))
		}
	})
	defer listener.Close()

	if err := listener.Listen(l.Channel); err != nil {
		return fmt.Errorf("realtime: listen %s: %w", l.Channel, err)
	}
	l.log.Info("listening for board changes", zap.String("channel", l.Channel))

	return l.forward(ctx, listener.Notify, listener.Ping)
}

func (l *PGListener) forward(ctx context.Context, notify <-chan *pq.Notification, ping func() error) error {
	keepalive := time.NewTicker(90 * time.Second)
	defer keepalive.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case n, ok := <-notify:
			if !ok {
				return nil
			}
			ev := models.ChangeEvent{Table: models.TableAll, Type: "RESYNC"}
			// nil приходить після перепідключення: частину подій могли пропустити
			if n != nil {
				parsed, err := ParseNotification(n.Extra)
				if err != nil {
					l.log.Error("skip notification", zap.Error(err))
					continue
				}
				ev = parsed
			}
			if err := l.Publisher.PublishChange(ctx, ev); err != nil {
				l.log.Error("publish change", zap.String("table", ev.Table), zap.Error(err))
			}

		case <-keepalive.C:
			if err := ping(); err != nil {
				l.log.Warn("pg listener ping", zap.Error(err))
			}
		}
	}
}
