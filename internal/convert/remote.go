package convert

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"papershelf/internal/domain"
)

// DefaultTimeout bounds a single remote conversion end to end. Office
// conversions routinely take tens of seconds on large files.
const DefaultTimeout = 180 * time.Second

// RemoteClient talks to the external conversion service. One request
// per conversion, no retries: the caller surfaces failures to the user
// instead of silently re-running a multi-minute job.
type RemoteClient struct {
	baseURL       string
	defaultEngine string
	client        *http.Client
	logger        *slog.Logger
}

// NewRemoteClient creates a client for the conversion service at
// baseURL. A non-positive timeout falls back to DefaultTimeout.
func NewRemoteClient(baseURL, defaultEngine string, timeout time.Duration, logger *slog.Logger) *RemoteClient {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if defaultEngine == "" {
		defaultEngine = "auto"
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &RemoteClient{
		baseURL:       strings.TrimRight(baseURL, "/"),
		defaultEngine: defaultEngine,
		client:        &http.Client{Timeout: timeout},
		logger:        logger,
	}
}

// Convert posts the payload to the conversion service and returns the
// converted bytes. A non-2xx response with a body becomes a
// ServerFailureError carrying the service's own error text; timeouts,
// transport failures and bodyless errors map to the generic no-response
// failure.
func (c *RemoteClient) Convert(ctx context.Context, filename, sourceExt, targetExt, engine string, payload []byte) ([]byte, error) {
	if engine == "" {
		engine = c.defaultEngine
	}

	endpoint := fmt.Sprintf("%s/convert?target=%s", c.baseURL, url.QueryEscape(targetExt))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("build conversion request: %w", err)
	}

	req.Header.Set("Content-Type", "application/octet-stream")
	req.Header.Set("X-Filename", strings.ReplaceAll(filename, " ", "_"))
	req.Header.Set("X-File-Ext", sourceExt)
	req.Header.Set("X-Conversion-Engine", engine)

	start := time.Now()
	resp, err := c.client.Do(req)
	if err != nil {
		c.logger.Warn("conversion service unreachable",
			"target", targetExt,
			"engine", engine,
			"error", err)
		return nil, &domain.ServerFailureError{Message: domain.ErrNoResponse.Error()}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &domain.ServerFailureError{Message: domain.ErrNoResponse.Error()}
	}

	if resp.StatusCode != http.StatusOK {
		message := strings.TrimSpace(string(body))
		if message == "" {
			message = domain.ErrNoResponse.Error()
		}
		c.logger.Warn("conversion service rejected request",
			"status", resp.StatusCode,
			"target", targetExt,
			"engine", engine,
			"message", message)
		return nil, &domain.ServerFailureError{Message: message}
	}

	if len(body) == 0 {
		return nil, &domain.ServerFailureError{Message: domain.ErrNoResponse.Error()}
	}

	c.logger.Info("remote conversion completed",
		"source_ext", sourceExt,
		"target", targetExt,
		"engine", engine,
		"bytes", len(body),
		"duration_ms", time.Since(start).Milliseconds())
	return body, nil
}
