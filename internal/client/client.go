package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net"
	"net/http"
	"net/textproto"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/janekbaraniewski/chatwrapped/internal/core"
)

const (
	HealthPath = "/api/health"
	UploadPath = "/api/upload"

	DefaultProbeTimeout = 5 * time.Second

	requestIDHeader = "X-Request-ID"
	maxResponseSize = 32 << 20
)

type Options struct {
	BaseURL      string
	ProbeTimeout time.Duration
	// UploadTimeout bounds the transfer. Zero leaves it unbounded.
	UploadTimeout time.Duration
	HTTPClient    *http.Client
	Logger        zerolog.Logger
}

// Client talks to the analysis service. It holds only immutable settings and
// is safe to use from the goroutines that run probes and transfers.
type Client struct {
	baseURL       string
	probeTimeout  time.Duration
	uploadTimeout time.Duration
	http          *http.Client
	log           zerolog.Logger
}

func New(opts Options) *Client {
	c := &Client{
		baseURL:       strings.TrimRight(opts.BaseURL, "/"),
		probeTimeout:  opts.ProbeTimeout,
		uploadTimeout: opts.UploadTimeout,
		http:          opts.HTTPClient,
		log:           opts.Logger,
	}
	if c.probeTimeout <= 0 {
		c.probeTimeout = DefaultProbeTimeout
	}
	if c.http == nil {
		c.http = &http.Client{}
	}
	return c
}

func (c *Client) BaseURL() string { return c.baseURL }

// Probe issues GET /api/health bounded by the probe timeout. Any failure,
// including a non-2xx status, is reported as a *ProbeError.
func (c *Client) Probe(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, c.probeTimeout)
	defer cancel()

	reqID := uuid.NewString()
	start := time.Now()
	fail := func(err error) error {
		c.log.Debug().Str("request_id", reqID).Err(err).Dur("elapsed", time.Since(start)).Msg("health probe failed")
		return &ProbeError{Address: c.baseURL, Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+HealthPath, nil)
	if err != nil {
		return fail(fmt.Errorf("creating request: %w", err))
	}
	req.Header.Set(requestIDHeader, reqID)

	resp, err := c.http.Do(req)
	if err != nil {
		return fail(err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 64<<10))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fail(fmt.Errorf("health check returned status %d", resp.StatusCode))
	}
	c.log.Debug().Str("request_id", reqID).Dur("elapsed", time.Since(start)).Msg("health probe ok")
	return nil
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
}

// Send uploads the transcript as the multipart field "file" and decodes the
// payload from the response. Failures are returned as *TransportError.
func (c *Client) Send(ctx context.Context, t core.Transcript) (core.AnalyticsPayload, error) {
	if c.uploadTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.uploadTimeout)
		defer cancel()
	}

	f, err := os.Open(t.Path)
	if err != nil {
		return core.AnalyticsPayload{}, classify(err)
	}
	defer f.Close()

	pr, pw := io.Pipe()
	mw := multipart.NewWriter(pw)
	go func() {
		pw.CloseWithError(writeFilePart(mw, t.Name, f))
	}()
	defer pr.Close()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+UploadPath, pr)
	if err != nil {
		return core.AnalyticsPayload{}, &TransportError{Kind: KindUnknown, Err: err}
	}
	reqID := uuid.NewString()
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set(requestIDHeader, reqID)

	start := time.Now()
	c.log.Debug().Str("request_id", reqID).Str("file", t.Name).Msg("upload started")

	resp, err := c.http.Do(req)
	if err != nil {
		terr := classify(err)
		c.log.Debug().Str("request_id", reqID).Str("kind", terr.Kind.String()).Err(err).Msg("upload failed")
		return core.AnalyticsPayload{}, terr
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return core.AnalyticsPayload{}, classify(err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		terr := classifyStatus(resp.StatusCode, body)
		c.log.Debug().Str("request_id", reqID).Int("status", resp.StatusCode).Str("kind", terr.Kind.String()).Msg("upload rejected")
		return core.AnalyticsPayload{}, terr
	}

	payload, err := decodePayload(body)
	if err != nil {
		c.log.Debug().Str("request_id", reqID).Err(err).Msg("upload response invalid")
		return core.AnalyticsPayload{}, err
	}
	c.log.Debug().
		Str("request_id", reqID).
		Dur("elapsed", time.Since(start)).
		Int("total_messages", payload.TotalMessages).
		Msg("upload complete")
	return payload, nil
}

func writeFilePart(mw *multipart.Writer, name string, r io.Reader) error {
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename=%q`, name))
	h.Set("Content-Type", "text/plain")
	part, err := mw.CreatePart(h)
	if err != nil {
		return err
	}
	if _, err := io.Copy(part, r); err != nil {
		return err
	}
	return mw.Close()
}

func decodePayload(body []byte) (core.AnalyticsPayload, error) {
	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return core.AnalyticsPayload{}, &TransportError{Kind: KindInvalidResponse, Detail: "malformed JSON", Err: err}
	}
	data := bytes.TrimSpace(env.Data)
	if len(data) == 0 || data[0] != '{' {
		return core.AnalyticsPayload{}, &TransportError{Kind: KindInvalidResponse, Detail: "missing data object"}
	}
	var payload core.AnalyticsPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		return core.AnalyticsPayload{}, &TransportError{Kind: KindInvalidResponse, Detail: "malformed data", Err: err}
	}
	if err := payload.Validate(); err != nil {
		return core.AnalyticsPayload{}, &TransportError{Kind: KindInvalidResponse, Detail: err.Error(), Err: err}
	}
	return payload, nil
}

// classifyStatus handles non-2xx responses. A service detail or message wins
// over the generic status text.
func classifyStatus(status int, body []byte) *TransportError {
	if detail := serviceDetail(body); detail != "" {
		return &TransportError{Kind: KindServer, Detail: detail}
	}
	return &TransportError{
		Kind:   KindNetwork,
		Detail: fmt.Sprintf("Request failed with status code %d", status),
	}
}

func serviceDetail(body []byte) string {
	var fields struct {
		Detail  json.RawMessage `json:"detail"`
		Message json.RawMessage `json:"message"`
	}
	if err := json.Unmarshal(body, &fields); err != nil {
		return ""
	}
	if s := rawText(fields.Detail); s != "" {
		return s
	}
	return rawText(fields.Message)
}

// rawText returns a JSON string's value, or the compact encoding of any other
// non-null value.
func rawText(raw json.RawMessage) string {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	var buf bytes.Buffer
	if err := json.Compact(&buf, raw); err != nil {
		return string(raw)
	}
	return buf.String()
}

func classify(err error) *TransportError {
	if errors.Is(err, context.DeadlineExceeded) {
		return &TransportError{Kind: KindTimeout, Err: err}
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return &TransportError{Kind: KindTimeout, Err: err}
	}
	if msg := err.Error(); msg != "" {
		return &TransportError{Kind: KindNetwork, Detail: msg, Err: err}
	}
	return &TransportError{Kind: KindUnknown, Err: err}
}
