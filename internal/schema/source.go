package schema

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/modu-ai/apigen/internal/resilience"
	"github.com/modu-ai/apigen/pkg/models"
	"github.com/modu-ai/apigen/pkg/version"
)

// DefaultFetchTimeout bounds each HTTP schema download attempt.
const DefaultFetchTimeout = 30 * time.Second

// SourceReader resolves a schema reference to raw bytes. A reference is one
// of: "-" (stdin), an http(s) URL, an inline JSON document, or a file path.
type SourceReader struct {
	Client  *http.Client
	Stdin   io.Reader
	Timeout time.Duration
	Retry   resilience.Policy // zero value means a single attempt; callers opt in
	Logger  *slog.Logger
}

// NewSourceReader creates a SourceReader using http.DefaultClient and
// os.Stdin. Downloads are attempted once until Retry is set.
func NewSourceReader() *SourceReader {
	return &SourceReader{
		Client:  http.DefaultClient,
		Stdin:   os.Stdin,
		Timeout: DefaultFetchTimeout,
	}
}

// statusError is a non-2xx HTTP response. Client errors are permanent.
type statusError struct {
	url    string
	status string
	code   int
}

func (e *statusError) Error() string {
	return fmt.Sprintf("GET %s: unexpected status %s", e.url, e.status)
}

func (e *statusError) Permanent() bool {
	return e.code >= 400 && e.code < 500 && e.code != http.StatusTooManyRequests
}

// Read returns the bytes behind ref.
func (r *SourceReader) Read(ctx context.Context, ref string) ([]byte, error) {
	trimmed := strings.TrimSpace(ref)
	switch {
	case trimmed == "":
		return nil, fmt.Errorf("%w: empty schema reference", ErrSourceUnavailable)
	case trimmed == "-":
		if r.Stdin == nil {
			return nil, fmt.Errorf("%w: stdin not configured", ErrSourceUnavailable)
		}
		data, err := io.ReadAll(r.Stdin)
		if err != nil {
			return nil, fmt.Errorf("%w: read stdin: %v", ErrSourceUnavailable, err)
		}
		return data, nil
	case strings.HasPrefix(trimmed, "http://"), strings.HasPrefix(trimmed, "https://"):
		return r.fetch(ctx, trimmed)
	case strings.HasPrefix(trimmed, "{"):
		return []byte(trimmed), nil
	}

	data, err := os.ReadFile(trimmed)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSourceUnavailable, err)
	}
	return data, nil
}

func (r *SourceReader) fetch(ctx context.Context, url string) ([]byte, error) {
	var body []byte
	onRetry := func(attempt int, err error, wait time.Duration) {
		if r.Logger != nil {
			r.Logger.Warn("schema download failed, retrying",
				"url", url, "attempt", attempt, "wait", wait, "error", err)
		}
	}
	err := resilience.Retry(ctx, r.Retry, onRetry, func(ctx context.Context) error {
		data, err := r.fetchOnce(ctx, url)
		if err != nil {
			return err
		}
		body = data
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSourceUnavailable, err)
	}
	return body, nil
}

func (r *SourceReader) fetchOnce(ctx context.Context, url string) ([]byte, error) {
	client := r.Client
	if client == nil {
		client = http.DefaultClient
	}

	if r.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.Timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", version.UserAgent())

	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &statusError{url: url, status: resp.Status, code: resp.StatusCode}
	}

	var buf bytes.Buffer
	if _, err := io.Copy(&buf, resp.Body); err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	return buf.Bytes(), nil
}

// Load reads ref and decodes it. When openAPI is set the input is treated
// as an OpenAPI 3 document.
func (r *SourceReader) Load(ctx context.Context, ref string, openAPI bool) (*models.Schema, error) {
	data, err := r.Read(ctx, ref)
	if err != nil {
		return nil, err
	}
	if openAPI {
		return FromOpenAPI(ctx, data)
	}
	return Decode(data)
}
