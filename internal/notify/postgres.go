package notify

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/monocle-dev/taskboard/internal/logging"
	"github.com/rs/zerolog"
	"gorm.io/gorm"
)

const (
	Channel = "board_changed"

	minReconnect = 10 * time.Second
	maxReconnect = time.Minute
	publishWait  = 5 * time.Second
)

// PostgresBridge carries board changes between server processes sharing one
// Postgres database. Publish sends a NOTIFY; every NOTIFY received on the
// channel, including our own, is forwarded to the local Hub.
type PostgresBridge struct {
	db       *gorm.DB
	hub      *Hub
	listener *pq.Listener
	instance string
	log      zerolog.Logger
}

func NewPostgresBridge(db *gorm.DB, dsn string, hub *Hub) (*PostgresBridge, error) {
	b := &PostgresBridge{
		db:       db,
		hub:      hub,
		instance: uuid.NewString(),
		log:      logging.Component("notify"),
	}

	b.listener = pq.NewListener(dsn, minReconnect, maxReconnect, b.onEvent)

	if err := b.listener.Listen(Channel); err != nil {
		_ = b.listener.Close()
		return nil, fmt.Errorf("listen on %s: %w", Channel, err)
	}

	return b, nil
}

func (b *PostgresBridge) onEvent(ev pq.ListenerEventType, err error) {
	switch ev {
	case pq.ListenerEventConnectionAttemptFailed, pq.ListenerEventDisconnected:
		b.log.Warn().Err(err).Msg("notification listener lost its connection")
	case pq.ListenerEventReconnected:
		b.log.Info().Msg("notification listener reconnected")
	}
}

// Start forwards notifications into the hub until ctx is done.
func (b *PostgresBridge) Start(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case n := <-b.listener.Notify:
			// A nil notification follows a reconnect; changes may have been
			// missed, so clients refetch either way.
			if n != nil {
				b.log.Debug().Str("from", n.Extra).Msg("board change received")
			}
			b.hub.Publish(ctx)
		case <-time.After(maxReconnect):
			go func() {
				if err := b.listener.Ping(); err != nil {
					b.log.Warn().Err(err).Msg("notification listener ping failed")
				}
			}()
		}
	}
}

// Publish does not wait for the database round trip.
func (b *PostgresBridge) Publish(ctx context.Context) {
	ctx = context.WithoutCancel(ctx)

	go func() {
		ctx, cancel := context.WithTimeout(ctx, publishWait)
		defer cancel()

		if err := b.db.WithContext(ctx).Exec("SELECT pg_notify(?, ?)", Channel, b.instance).Error; err != nil {
			b.log.Error().Ctx(ctx).Err(err).Msg("failed to publish board change")
			// Local clients still need to hear about it.
			b.hub.Publish(ctx)
		}
	}()
}

func (b *PostgresBridge) Close() error {
	return b.listener.Close()
}
