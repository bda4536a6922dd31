// Package eventlog is the shared client for the parking event log. Every
// producer and consumer goes through it so that connect/retry semantics stay
// identical across services; divergent per-service retry logic caused
// rebalancing storms in an earlier revision of this system.
//
// The log is a NATS JetStream stream. A consumer group maps to a durable
// consumer, Earliest/Latest map to the deliver-all/deliver-new policies, and
// a manual commit is an explicit ack.
package eventlog

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"

	"github.com/parkwatch-systems/parkwatch-stack/common/events"
)

var (
	// ErrBrokerUnreachable is returned when the connect retry budget is
	// exhausted. Consumers report it and stay disabled until their next
	// retry cycle; the producer treats it as fatal.
	ErrBrokerUnreachable = errors.New("event log broker unreachable")

	// ErrPublishFailed is returned when the broker does not acknowledge a
	// publish. There is no local buffering; the caller must retry.
	ErrPublishFailed = errors.New("event log publish failed")

	// ErrReadTimeout means no message arrived within the read timeout. It
	// is a normal end of a read cycle, not a fault.
	ErrReadTimeout = errors.New("event log read timed out")
)

// StartPosition selects where a new cursor begins reading.
type StartPosition int

const (
	// StartLatest delivers only messages published after the cursor opens.
	StartLatest StartPosition = iota
	// StartEarliest delivers the full retained history first.
	StartEarliest
)

// CommitMode selects how a cursor advances its offset.
type CommitMode int

const (
	// CommitAuto acknowledges each message as it is read.
	CommitAuto CommitMode = iota
	// CommitManual leaves messages unacknowledged until Commit is called.
	CommitManual
)

// Config holds event log connection settings.
type Config struct {
	// URL is the NATS server URL (e.g. "nats://localhost:4222").
	URL string

	// Name identifies this client on the broker.
	Name string

	// Stream is the JetStream stream name holding parking events.
	Stream string

	// Subject is the subject events are published to.
	Subject string

	// ConnectAttempts bounds the startup connect retry loop.
	ConnectAttempts int

	// ConnectDelay is the fixed wait between connect attempts.
	ConnectDelay time.Duration
}

// DefaultConfig returns the settings shared by all services.
func DefaultConfig() Config {
	return Config{
		URL:             nats.DefaultURL,
		Name:            "parkwatch-client",
		Stream:          "PARKING_EVENTS",
		Subject:         "parking.events",
		ConnectAttempts: 5,
		ConnectDelay:    5 * time.Second,
	}
}

// Client is a handle to the event log.
type Client struct {
	conn    *nats.Conn
	js      jetstream.JetStream
	stream  string
	subject string
}

// Connect dials the broker, retrying with a fixed delay up to the configured
// attempt count. Exhausting the budget returns ErrBrokerUnreachable.
func Connect(ctx context.Context, cfg Config) (*Client, error) {
	if cfg.ConnectAttempts <= 0 {
		cfg.ConnectAttempts = 5
	}
	if cfg.ConnectDelay <= 0 {
		cfg.ConnectDelay = 5 * time.Second
	}

	var lastErr error
	for attempt := 1; attempt <= cfg.ConnectAttempts; attempt++ {
		conn, err := nats.Connect(cfg.URL, nats.Name(cfg.Name))
		if err == nil {
			js, jsErr := jetstream.New(conn)
			if jsErr == nil {
				slog.Info("connected to event log broker", slog.String("url", cfg.URL), slog.Int("attempt", attempt))
				return &Client{conn: conn, js: js, stream: cfg.Stream, subject: cfg.Subject}, nil
			}
			conn.Close()
			err = jsErr
		}

		lastErr = err
		slog.Error("failed to connect to event log broker, retrying",
			slog.String("url", cfg.URL),
			slog.Int("attempt", attempt),
			slog.Int("max_attempts", cfg.ConnectAttempts),
			slog.String("error", err.Error()),
		)

		if attempt == cfg.ConnectAttempts {
			break
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(cfg.ConnectDelay):
		}
	}

	return nil, fmt.Errorf("%w after %d attempts: %v", ErrBrokerUnreachable, cfg.ConnectAttempts, lastErr)
}

// EnsureStream creates or updates the parking events stream. Safe to call
// from every service at startup.
func (c *Client) EnsureStream(ctx context.Context) error {
	_, err := c.js.CreateOrUpdateStream(ctx, jetstream.StreamConfig{
		Name:      c.stream,
		Subjects:  []string{c.subject},
		Retention: jetstream.LimitsPolicy,
		Storage:   jetstream.FileStorage,
		MaxAge:    7 * 24 * time.Hour,
		MaxBytes:  1024 * 1024 * 1024,
	})
	if err != nil {
		return fmt.Errorf("ensure stream %s: %w", c.stream, err)
	}
	return nil
}

// Publish appends an envelope to the log and blocks until the broker
// acknowledges durability. It does not wait for any consumer.
func (c *Client) Publish(ctx context.Context, env *events.Envelope) error {
	data, err := env.MarshalJSON()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrPublishFailed, err)
	}
	if _, err := c.js.Publish(ctx, c.subject, data); err != nil {
		return fmt.Errorf("%w: %v", ErrPublishFailed, err)
	}
	return nil
}

// IsConnected reports whether the underlying connection is up.
func (c *Client) IsConnected() bool {
	return c.conn != nil && c.conn.IsConnected()
}

// Close releases the broker connection.
func (c *Client) Close() {
	if c.conn != nil {
		c.conn.Close()
	}
}

// CursorOptions configures an independent read position into the log.
type CursorOptions struct {
	// Group names the durable consumer. Cursors sharing a group share one
	// offset; distinct groups read independently.
	Group string

	// Start selects the initial position for a new group.
	Start StartPosition

	// Commit selects automatic or manual offset commits.
	Commit CommitMode
}

// Cursor is a tracked read position. Not safe for concurrent use.
type Cursor struct {
	consumer jetstream.Consumer
	commit   CommitMode
	pending  []jetstream.Msg
}

// OpenCursor opens (or resumes) a durable cursor on the log.
func (c *Client) OpenCursor(ctx context.Context, opts CursorOptions) (*Cursor, error) {
	deliver := jetstream.DeliverNewPolicy
	if opts.Start == StartEarliest {
		deliver = jetstream.DeliverAllPolicy
	}

	ack := jetstream.AckNonePolicy
	if opts.Commit == CommitManual {
		ack = jetstream.AckExplicitPolicy
	}

	stream, err := c.js.Stream(ctx, c.stream)
	if err != nil {
		return nil, fmt.Errorf("open stream %s: %w", c.stream, err)
	}

	consumer, err := stream.CreateOrUpdateConsumer(ctx, jetstream.ConsumerConfig{
		Name:          opts.Group,
		Durable:       opts.Group,
		FilterSubject: c.subject,
		DeliverPolicy: deliver,
		AckPolicy:     ack,
		AckWait:       30 * time.Second,
		MaxAckPending: 1000,
	})
	if err != nil {
		return nil, fmt.Errorf("open cursor %s: %w", opts.Group, err)
	}

	return &Cursor{consumer: consumer, commit: opts.Commit}, nil
}

// Next blocks up to timeout for the next envelope. A quiet log yields
// ErrReadTimeout. A message that fails to decode is returned as an error but
// still counts as delivered, so a following Commit advances past it.
func (cur *Cursor) Next(ctx context.Context, timeout time.Duration) (*events.Envelope, error) {
	batch, err := cur.consumer.Fetch(1, jetstream.FetchMaxWait(timeout))
	if err != nil {
		if errors.Is(err, nats.ErrTimeout) || errors.Is(err, context.DeadlineExceeded) {
			return nil, ErrReadTimeout
		}
		return nil, fmt.Errorf("fetch: %w", err)
	}

	var msg jetstream.Msg
	for m := range batch.Messages() {
		msg = m
	}
	if msg == nil {
		if err := batch.Error(); err != nil {
			return nil, fmt.Errorf("fetch: %w", err)
		}
		return nil, ErrReadTimeout
	}

	if cur.commit == CommitManual {
		cur.pending = append(cur.pending, msg)
	}

	var env events.Envelope
	if err := env.UnmarshalJSON(msg.Data()); err != nil {
		return nil, err
	}
	return &env, nil
}

// Commit acknowledges everything delivered since the previous Commit.
func (cur *Cursor) Commit() error {
	for _, msg := range cur.pending {
		if err := msg.Ack(); err != nil {
			return fmt.Errorf("commit offset: %w", err)
		}
	}
	cur.pending = nil
	return nil
}

// Close drops the cursor's in-memory state. The durable offset survives on
// the broker.
func (cur *Cursor) Close() {
	cur.pending = nil
}

// Replay performs an ephemeral read of the whole retained log from the
// earliest offset, invoking fn for every decodable envelope. It stops when no
// further message arrives within timeout. No offset is persisted; every call
// scans the log again, so cost grows with log size. This is a diagnostic
// facility, not a high-throughput path.
func (c *Client) Replay(ctx context.Context, timeout time.Duration, fn func(*events.Envelope)) error {
	consumer, err := c.js.OrderedConsumer(ctx, c.stream, jetstream.OrderedConsumerConfig{
		FilterSubjects: []string{c.subject},
		DeliverPolicy:  jetstream.DeliverAllPolicy,
	})
	if err != nil {
		return fmt.Errorf("open replay consumer: %w", err)
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		msg, err := consumer.Next(jetstream.FetchMaxWait(timeout))
		if err != nil {
			// End of available data within the timeout window.
			return nil
		}

		var env events.Envelope
		if err := env.UnmarshalJSON(msg.Data()); err != nil {
			slog.Warn("skipping undecodable message during replay", slog.String("error", err.Error()))
			continue
		}
		fn(&env)
	}
}
