package s3

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/samandr77/microservices/bills/pkg/transport"
)

const timeout = time.Second * 5

var ErrObjectTooLarge = errors.New("object too large")

// Client talks to a bucket exposed over plain HTTP (presigned or public).
type Client struct {
	httpClient *http.Client
	bucketURL  string
	maxBytes   int64
}

// NewClient refuses to download objects larger than maxBytes.
func NewClient(bucketURL string, maxBytes int64) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout:   timeout,
			Transport: transport.NewLoggingRoundTripper(nil),
		},
		bucketURL: strings.TrimRight(bucketURL, "/"),
		maxBytes:  maxBytes,
	}
}

// UploadObject stores data under key and returns the object URL.
func (c *Client) UploadObject(ctx context.Context, key, contentType string, data []byte) (string, error) {
	objectURL := c.bucketURL + "/" + url.PathEscape(key)

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, objectURL, bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}

	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("send request: %w", err)
	}

	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return "", fmt.Errorf("unexpected code %d", resp.StatusCode)
	}

	return objectURL, nil
}

func (c *Client) DownloadDocument(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}

	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected code %d", resp.StatusCode)
	}

	if resp.ContentLength > c.maxBytes {
		return nil, fmt.Errorf("%w: %d bytes", ErrObjectTooLarge, resp.ContentLength)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, c.maxBytes+1))
	if err != nil {
		return nil, err
	}

	if int64(len(body)) > c.maxBytes {
		return nil, fmt.Errorf("%w: over %d bytes", ErrObjectTooLarge, c.maxBytes)
	}

	return body, nil
}
