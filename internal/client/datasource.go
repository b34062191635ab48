package client

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"
	"go.uber.org/zap"

	"github.com/davegarvey/countries-api/internal/dataset"
)

const (
	defaultTimeout         = 10 * time.Second
	defaultMaxRetryElapsed = 30 * time.Second
	maxBodyBytes           = 16 << 20
)

// DatasetClient downloads the country dataset from a remote JSON document.
type DatasetClient struct {
	client          *http.Client
	logger          *zap.Logger
	MaxRetryElapsed time.Duration
	// InitialInterval is the first backoff delay; zero keeps the library default.
	InitialInterval time.Duration
}

// NewDatasetClient creates a client whose individual requests time out after
// timeout. A nil logger discards retry warnings.
func NewDatasetClient(timeout time.Duration, logger *zap.Logger) *DatasetClient {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DatasetClient{
		client:          &http.Client{Timeout: timeout},
		logger:          logger,
		MaxRetryElapsed: defaultMaxRetryElapsed,
	}
}

// Fetch downloads and parses the dataset at url. Network errors, 429 and 5xx
// responses are retried with exponential backoff until MaxRetryElapsed;
// other failures are returned immediately.
func (c *DatasetClient) Fetch(ctx context.Context, url string) (*dataset.Dataset, error) {
	var ds *dataset.Dataset
	attempt := 0

	op := func() error {
		attempt++
		var err error
		ds, err = c.fetchOnce(ctx, url)
		if err != nil && !isPermanent(err) {
			c.logger.Warn("dataset fetch failed, retrying",
				zap.String("url", url),
				zap.Int("attempt", attempt),
				zap.Error(err))
		}
		return err
	}

	b := backoff.NewExponentialBackOff()
	b.MaxElapsedTime = c.MaxRetryElapsed
	if c.InitialInterval > 0 {
		b.InitialInterval = c.InitialInterval
	}

	if err := backoff.Retry(op, backoff.WithContext(b, ctx)); err != nil {
		return nil, fmt.Errorf("failed to fetch dataset from %s after %d attempt(s): %w", url, attempt, err)
	}
	return ds, nil
}

func (c *DatasetClient) fetchOnce(ctx context.Context, url string) (*dataset.Dataset, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, backoff.Permanent(fmt.Errorf("failed to create request: %w", err))
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= http.StatusInternalServerError:
		return nil, fmt.Errorf("received retryable status code: %d", resp.StatusCode)
	case resp.StatusCode != http.StatusOK:
		return nil, backoff.Permanent(fmt.Errorf("received non-200 status code: %d", resp.StatusCode))
	}

	ds, err := dataset.Parse(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, backoff.Permanent(err)
	}
	return ds, nil
}

func isPermanent(err error) bool {
	var perm *backoff.PermanentError
	return errors.As(err, &perm)
}
