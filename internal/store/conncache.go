// ABOUTME: Memoized MongoDB client shared by every request handler
// ABOUTME: Guarantees at most one connection attempt is in flight at a time

package store

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"regexp"
	"sync"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/amldecoded/amld-site/internal/config"
)

// DialFunc establishes the underlying MongoDB client. Injectable for tests.
type DialFunc func(ctx context.Context) (*mongo.Client, error)

// ConnCache memoizes a single MongoDB client for the process lifetime.
//
// The first Acquire starts one establishment attempt; callers that arrive
// while it is in flight wait on the same attempt instead of dialing again.
// A successful client is cached until process end. A failed attempt clears
// the in-flight marker so a later Acquire retries from scratch; the failure
// itself is never retried automatically.
type ConnCache struct {
	dial   DialFunc
	uri    string
	logger *slog.Logger

	mu      sync.Mutex
	client  *mongo.Client
	pending *connAttempt
}

// connAttempt is one establishment operation shared by all waiters.
// client and err are written before done is closed, never after.
type connAttempt struct {
	done   chan struct{}
	client *mongo.Client
	err    error
}

// NewConnCache creates a cache that dials MongoDB with the given config.
// No connection is made until the first Acquire.
func NewConnCache(cfg config.DatabaseConfig) *ConnCache {
	return &ConnCache{
		dial:   mongoDialer(cfg),
		uri:    cfg.URI,
		logger: slog.Default().With("component", "store"),
	}
}

// NewConnCacheWithDialer creates a cache with a custom dial function.
// Used by tests to observe establishment attempts.
func NewConnCacheWithDialer(dial DialFunc, uri string) *ConnCache {
	return &ConnCache{
		dial:   dial,
		uri:    uri,
		logger: slog.Default().With("component", "store"),
	}
}

// Acquire returns the shared client, dialing on first use. Concurrent callers
// during an in-flight attempt all receive the same client or the same error.
// The ctx only bounds this caller's wait; the dial itself is not cancelled by
// an abandoned request.
func (c *ConnCache) Acquire(ctx context.Context) (*mongo.Client, error) {
	c.mu.Lock()
	if c.client != nil {
		client := c.client
		c.mu.Unlock()
		return client, nil
	}
	attempt := c.pending
	if attempt == nil {
		attempt = &connAttempt{done: make(chan struct{})}
		c.pending = attempt
		go c.establish(attempt)
	}
	c.mu.Unlock()

	select {
	case <-attempt.done:
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	if attempt.err != nil {
		return nil, attempt.err
	}
	return attempt.client, nil
}

// establish runs the single dial for an attempt. It uses a background context
// so that the waiter who happened to trigger the dial going away does not
// fail every other waiter.
func (c *ConnCache) establish(attempt *connAttempt) {
	client, err := c.dial(context.Background())

	c.mu.Lock()
	c.pending = nil
	if err == nil {
		c.client = client
	}
	c.mu.Unlock()

	if err != nil {
		c.logger.Error("mongodb connection failed", "uri", RedactURI(c.uri), "error", err)
	} else {
		c.logger.Info("mongodb connected", "uri", RedactURI(c.uri))
	}

	attempt.client = client
	attempt.err = err
	close(attempt.done)
}

// Close disconnects the cached client, if any. Only called at shutdown.
func (c *ConnCache) Close(ctx context.Context) error {
	c.mu.Lock()
	client := c.client
	c.client = nil
	c.mu.Unlock()

	if client == nil {
		return nil
	}
	return client.Disconnect(ctx)
}

// uriCredentials matches the userinfo section of a connection string.
var uriCredentials = regexp.MustCompile(`//[^@/]+@`)

// RedactURI masks credentials in a connection string for logging.
func RedactURI(uri string) string {
	return uriCredentials.ReplaceAllString(uri, "//***:***@")
}

// ipv4Dialer forces IPv4, skipping IPv6 resolution entirely.
type ipv4Dialer struct {
	d net.Dialer
}

func (d *ipv4Dialer) DialContext(ctx context.Context, _, address string) (net.Conn, error) {
	return d.d.DialContext(ctx, "tcp4", address)
}

// ipv6Dialer forces IPv6.
type ipv6Dialer struct {
	d net.Dialer
}

func (d *ipv6Dialer) DialContext(ctx context.Context, _, address string) (net.Conn, error) {
	return d.d.DialContext(ctx, "tcp6", address)
}

// mongoDialer builds the production dial function. The config knobs are
// forwarded to the driver unchanged; this layer does not interpret them.
func mongoDialer(cfg config.DatabaseConfig) DialFunc {
	return func(ctx context.Context) (*mongo.Client, error) {
		opts := options.Client().ApplyURI(cfg.URI)
		if cfg.MaxPoolSize > 0 {
			opts.SetMaxPoolSize(cfg.MaxPoolSize)
		}
		if cfg.ServerSelectionTimeout > 0 {
			opts.SetServerSelectionTimeout(cfg.ServerSelectionTimeout)
		}
		if cfg.SocketTimeout > 0 {
			opts.SetSocketTimeout(cfg.SocketTimeout)
		}
		if cfg.MaxConnIdleTime > 0 {
			opts.SetMaxConnIdleTime(cfg.MaxConnIdleTime)
		}
		switch cfg.IPFamily {
		case 4:
			opts.SetDialer(&ipv4Dialer{})
		case 6:
			opts.SetDialer(&ipv6Dialer{})
		}

		client, err := mongo.Connect(ctx, opts)
		if err != nil {
			return nil, fmt.Errorf("connecting to mongodb: %w", err)
		}

		// mongo.Connect is lazy; ping so a bad address fails the attempt
		// here instead of on the first query.
		pingCtx := ctx
		if cfg.ServerSelectionTimeout > 0 {
			var cancel context.CancelFunc
			pingCtx, cancel = context.WithTimeout(ctx, cfg.ServerSelectionTimeout)
			defer cancel()
		}
		if err := client.Ping(pingCtx, nil); err != nil {
			_ = client.Disconnect(context.Background())
			return nil, fmt.Errorf("pinging mongodb: %w", err)
		}

		return client, nil
	}
}
