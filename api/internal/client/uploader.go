// Package client submits sealed scores to a leaderboard server.
package client

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/irgordon/leaderboard/api/internal/core/domain"
)

// ErrSelfCheck means a frame did not open back to the bytes that were sealed.
var ErrSelfCheck = errors.New("client: sealed frame failed local round-trip")

// Config is the transport configuration. Nothing here is baked into the codec.
type Config struct {
	BaseURL string        // e.g. http://localhost:3000
	Timeout time.Duration // per request; zero means 10s
}

// Response is what the server said, verbatim. The uploader does not judge it.
type Response struct {
	StatusCode int
	Body       []byte
}

type Uploader struct {
	cfg   Config
	codec domain.PayloadCodec
	http  *http.Client
}

func NewUploader(cfg Config, codec domain.PayloadCodec) *Uploader {
	if cfg.Timeout == 0 {
		cfg.Timeout = 10 * time.Second
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	return &Uploader{
		cfg:   cfg,
		codec: codec,
		http:  &http.Client{Timeout: cfg.Timeout},
	}
}

// SealAndUpload seals plaintext, proves the frame opens back to the same
// bytes, then posts it.
func (u *Uploader) SealAndUpload(ctx context.Context, level int32, plaintext []byte) (*Response, error) {
	frame, err := u.codec.Seal(ctx, plaintext)
	if err != nil {
		return nil, fmt.Errorf("client: seal failed: %w", err)
	}

	opened, err := u.codec.Open(ctx, frame)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSelfCheck, err)
	}
	if !bytes.Equal(opened, plaintext) {
		return nil, ErrSelfCheck
	}

	return u.Upload(ctx, level, frame)
}

// Upload posts an already sealed frame as the raw request body.
func (u *Uploader) Upload(ctx context.Context, level int32, frame []byte) (*Response, error) {
	url := fmt.Sprintf("%s/leaderboard/%d", u.cfg.BaseURL, level)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(frame))
	if err != nil {
		return nil, fmt.Errorf("client: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/octet-stream")

	resp, err := u.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("client: post %s: %w", url, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("client: read response: %w", err)
	}

	return &Response{StatusCode: resp.StatusCode, Body: body}, nil
}
