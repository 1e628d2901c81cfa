package helm

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/kagenti/kagenti-installer/pkg/client/netretry"
	"github.com/kagenti/kagenti-installer/pkg/cmd/runner"
	"github.com/kagenti/kagenti-installer/pkg/utils/logger"
	"github.com/siderolabs/go-retry/retry"
	"github.com/sirupsen/logrus"
)

const (
	// DefaultListTimeout bounds the retries of a release listing.
	DefaultListTimeout = 30 * time.Second
	// DefaultListInterval is the delay between release listing attempts.
	DefaultListInterval = 2 * time.Second
)

// Client talks to the helm CLI through a CommandRunner.
type Client struct {
	runner       runner.CommandRunner
	conn         Connection
	listTimeout  time.Duration
	listInterval time.Duration
	logger       logrus.FieldLogger
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithListRetry overrides how long and how often a failing release listing is retried.
func WithListRetry(timeout, interval time.Duration) ClientOption {
	return func(c *Client) {
		c.listTimeout = timeout
		c.listInterval = interval
	}
}

// WithClientLogger sets the logger of the client.
func WithClientLogger(log logrus.FieldLogger) ClientOption {
	return func(c *Client) {
		if log != nil {
			c.logger = log
		}
	}
}

// NewClient creates a helm CLI client.
func NewClient(commandRunner runner.CommandRunner, conn Connection, opts ...ClientOption) *Client {
	client := &Client{
		runner:       commandRunner,
		conn:         conn,
		listTimeout:  DefaultListTimeout,
		listInterval: DefaultListInterval,
		logger:       logger.Discard(),
	}

	for _, opt := range opts {
		opt(client)
	}

	return client
}

// Connection returns the connection flags used by this client.
func (c *Client) Connection() Connection {
	return c.conn
}

// ListReleases returns every release in the cluster. Timeouts and transient
// registry/API errors reported on stderr are retried; anything else fails fast.
func (c *Client) ListReleases(ctx context.Context) ([]ReleaseInfo, error) {
	argv, err := ListArgs(c.conn)
	if err != nil {
		return nil, err
	}

	var releases []ReleaseInfo

	err = retry.Constant(c.listTimeout, retry.WithUnits(c.listInterval)).
		RetryWithContext(ctx, func(ctx context.Context) error {
			result, runErr := c.runner.Run(ctx, argv, "list helm releases")
			if runErr != nil {
				if errors.Is(runErr, runner.ErrTimeout) || netretry.IsRetryable(runErr) {
					return retry.ExpectedError(runErr)
				}

				return runErr
			}

			if !result.Succeeded() {
				if netretry.IsRetryableOutput(result.Stderr) {
					c.logger.WithField("exitCode", result.ExitCode).
						Debug("transient failure listing helm releases, retrying")

					return retry.ExpectedError(result.Err())
				}

				return result.Err()
			}

			parsed, parseErr := ParseReleaseList([]byte(result.Stdout))
			if parseErr != nil {
				return parseErr
			}

			releases = parsed

			return nil
		})
	if err != nil {
		return nil, fmt.Errorf("failed to list helm releases: %w", err)
	}

	return releases, nil
}
