// Package cdn uploads files to the media CDN through its unsigned upload endpoint.
package cdn

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/sethvargo/go-retry"
)

// DefaultMaxBytes is the upload size cap.
const DefaultMaxBytes int64 = 10 << 20

var (
	ErrTooLarge       = errors.New("file exceeds upload size limit")
	ErrNotConfigured  = errors.New("cdn upload endpoint not configured")
	ErrUploadRejected = errors.New("upload rejected by cdn")
)

// Asset describes an uploaded file as reported by the CDN.
type Asset struct {
	URL      string
	Bytes    int64
	Width    int
	Height   int
	Format   string
	MimeType string
}

type Config struct {
	UploadURL    string
	UploadPreset string
	MaxBytes     int64
	// MaxRetries is how many times a server error is retried. Zero disables retries.
	MaxRetries uint64
}

type Client struct {
	cfg        Config
	httpClient *http.Client
	backoff    func() retry.Backoff
}

func NewClient(cfg Config) *Client {
	if cfg.MaxBytes <= 0 {
		cfg.MaxBytes = DefaultMaxBytes
	}

	return &Client{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: 60 * time.Second},
		backoff: func() retry.Backoff {
			return retry.WithMaxRetries(cfg.MaxRetries, retry.NewConstant(500*time.Millisecond))
		},
	}
}

type uploadResponse struct {
	SecureURL string `json:"secure_url"`
	URL       string `json:"url"`
	Bytes     int64  `json:"bytes"`
	Width     int    `json:"width"`
	Height    int    `json:"height"`
	Format    string `json:"format"`
	Error     *struct {
		Message string `json:"message"`
	} `json:"error"`
}

// Upload reads r fully and posts it to the CDN under folder. Files over the
// size cap are rejected before any request is made. Server errors are retried
// up to Config.MaxRetries times.
func (c *Client) Upload(ctx context.Context, folder, filename string, r io.Reader) (*Asset, error) {
	if c.cfg.UploadURL == "" {
		return nil, ErrNotConfigured
	}

	data, err := io.ReadAll(io.LimitReader(r, c.cfg.MaxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("reading upload: %w", err)
	}

	if int64(len(data)) > c.cfg.MaxBytes {
		return nil, fmt.Errorf("%w: %s is over %d bytes", ErrTooLarge, filename, c.cfg.MaxBytes)
	}

	mime := mimetype.Detect(data)

	var res uploadResponse

	err = retry.Do(ctx, c.backoff(), func(ctx context.Context) error {
		status, err := c.post(ctx, folder, filename, mime.String(), data, &res)
		if err != nil {
			return retry.RetryableError(err)
		}

		if status >= http.StatusInternalServerError {
			slog.Warn("cdn upload failed", "file", filename, "status", status)
			return retry.RetryableError(fmt.Errorf("%w: cdn returned status %d", ErrUploadRejected, status))
		}

		if status < 200 || status >= 300 {
			msg := http.StatusText(status)
			if res.Error != nil && res.Error.Message != "" {
				msg = res.Error.Message
			}

			return fmt.Errorf("%w: %s", ErrUploadRejected, msg)
		}

		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("uploading %s: %w", filename, err)
	}

	url := res.SecureURL
	if url == "" {
		url = res.URL
	}

	size := res.Bytes
	if size == 0 {
		size = int64(len(data))
	}

	return &Asset{
		URL:      url,
		Bytes:    size,
		Width:    res.Width,
		Height:   res.Height,
		Format:   res.Format,
		MimeType: mime.String(),
	}, nil
}

func (c *Client) post(ctx context.Context, folder, filename, contentType string, data []byte, out *uploadResponse) (int, error) {
	var body bytes.Buffer

	w := multipart.NewWriter(&body)

	if err := w.WriteField("upload_preset", c.cfg.UploadPreset); err != nil {
		return 0, err
	}

	if folder != "" {
		if err := w.WriteField("folder", folder); err != nil {
			return 0, err
		}
	}

	part, err := w.CreateFormFile("file", filename)
	if err != nil {
		return 0, err
	}

	if _, err := part.Write(data); err != nil {
		return 0, err
	}

	if err := w.Close(); err != nil {
		return 0, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.UploadURL, &body)
	if err != nil {
		return 0, fmt.Errorf("creating request: %w", err)
	}

	req.Header.Set("Content-Type", w.FormDataContentType())

	slog.Debug("uploading to cdn", "file", filename, "bytes", len(data), "mime", contentType)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("sending request: %w", err)
	}
	defer resp.Body.Close()

	*out = uploadResponse{}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil && resp.StatusCode < 300 {
		return resp.StatusCode, fmt.Errorf("decoding response: %w", err)
	}

	return resp.StatusCode, nil
}
