package store

import (
	"context"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

const (
	TableSettings = "settings"
	TableWallets  = "wallets"
	TableWinners  = "winners"

	channelSuffix = "_changes"

	// OpResync is reported for every table after the subscription was
	// re-established, since changes made in between were never announced.
	OpResync = "RESYNC"
)

var (
	listenRetryDelay    = time.Second
	maxListenRetryDelay = 30 * time.Second
)

// Change is one row change announced by the database triggers.
type Change struct {
	Table string
	Op    string
}

// Listen subscribes to the change channels of the given tables on a dedicated
// connection. A lost connection is re-established with exponential backoff.
// The returned channel is closed when ctx is done.
func (p *Pool) Listen(ctx context.Context, tables ...string) (<-chan Change, error) {
	conn, err := p.subscribe(ctx, tables)
	if err != nil {
		return nil, err
	}
	changes := make(chan Change, 16)
	go p.relay(ctx, conn, tables, changes)
	return changes, nil
}

// subscribe takes a connection out of the pool and runs LISTEN for every
// table on it. A listening session never goes back to the pool.
func (p *Pool) subscribe(ctx context.Context, tables []string) (*pgx.Conn, error) {
	pooled, err := p.Acquire(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "acquire listen connection")
	}
	conn := pooled.Hijack()
	for _, table := range tables {
		channel := pgx.Identifier{table + channelSuffix}.Sanitize()
		if _, err := conn.Exec(ctx, "LISTEN "+channel); err != nil {
			_ = conn.Close(context.Background())
			return nil, errors.Wrapf(err, "listen on %s", channel)
		}
	}
	return conn, nil
}

func (p *Pool) relay(ctx context.Context, conn *pgx.Conn, tables []string, changes chan<- Change) {
	defer close(changes)
	for {
		err := forward(ctx, conn, changes)
		_ = conn.Close(context.Background())
		if ctx.Err() != nil {
			return
		}
		logrus.WithError(err).Warn("Lost the record change subscription, reconnecting")

		if conn = p.resubscribe(ctx, tables); conn == nil {
			return
		}
		logrus.Info("Resubscribed to record changes")
		for _, table := range tables {
			if !send(ctx, changes, Change{Table: table, Op: OpResync}) {
				_ = conn.Close(context.Background())
				return
			}
		}
	}
}

// forward relays notifications until the connection fails or ctx is done.
func forward(ctx context.Context, conn *pgx.Conn, changes chan<- Change) error {
	for {
		n, err := conn.WaitForNotification(ctx)
		if err != nil {
			return errors.Wrap(err, "wait for notification")
		}
		change := Change{Table: strings.TrimSuffix(n.Channel, channelSuffix), Op: n.Payload}
		if !send(ctx, changes, change) {
			return ctx.Err()
		}
	}
}

// resubscribe retries subscribe until it succeeds, doubling the delay between
// attempts. It returns nil once ctx is done.
func (p *Pool) resubscribe(ctx context.Context, tables []string) *pgx.Conn {
	delay := listenRetryDelay
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-time.After(delay):
		}

		conn, err := p.subscribe(ctx, tables)
		if err == nil {
			return conn
		}
		if ctx.Err() != nil {
			return nil
		}
		delay *= 2
		if delay > maxListenRetryDelay {
			delay = maxListenRetryDelay
		}
		logrus.WithError(err).WithField("retry_in", delay.String()).Warn("Failed to resubscribe to record changes")
	}
}

func send(ctx context.Context, changes chan<- Change, change Change) bool {
	select {
	case changes <- change:
		return true
	case <-ctx.Done():
		return false
	}
}
