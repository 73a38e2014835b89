package store

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"time"

	"github.com/hashicorp/go-retryablehttp"

	"github.com/samandr77/microservices/bills/internal/entity"
	"github.com/samandr77/microservices/bills/pkg/config"
	"github.com/samandr77/microservices/bills/pkg/transport"
)

const (
	defaultRetryWaitMin = 200 * time.Millisecond
	defaultRetryWaitMax = 2 * time.Second
	maxErrorBody        = 512
)

// Client is the Store Gateway backed by the remote bills API.
// Reads go through reader, which retries connection failures.
// Writes go through writer and are sent exactly once.
type Client struct {
	reader *http.Client
	writer *http.Client
	url    string
}

func NewClient(cfg config.Store) *Client {
	return &Client{
		reader: newHTTPClient(cfg, cfg.RetryAttempts),
		writer: newHTTPClient(cfg, 0),
		url:    cfg.URL,
	}
}

func newHTTPClient(cfg config.Store, retryMax int) *http.Client {
	retryClient := retryablehttp.NewClient()
	retryClient.RetryMax = retryMax
	retryClient.RetryWaitMin = defaultRetryWaitMin
	retryClient.RetryWaitMax = defaultRetryWaitMax
	retryClient.HTTPClient.Timeout = cfg.Timeout
	retryClient.HTTPClient.Transport = transport.NewLoggingRoundTripper(nil)
	retryClient.Logger = nil

	// Only connection failures are retried: a non-2xx answer is final for the caller.
	retryClient.CheckRetry = func(ctx context.Context, resp *http.Response, err error) (bool, error) {
		if err != nil {
			return retryablehttp.DefaultRetryPolicy(ctx, resp, err)
		}

		return false, nil
	}

	return retryClient.StandardClient()
}

func (c *Client) Create(ctx context.Context, req entity.UploadRequest) (entity.UploadResult, error) {
	var body bytes.Buffer

	w := multipart.NewWriter(&body)

	err := w.WriteField("email", req.Email)
	if err != nil {
		return entity.UploadResult{}, fmt.Errorf("write email field: %w", err)
	}

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename=%q`, req.File.Name))

	contentType := req.File.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	header.Set("Content-Type", contentType)

	part, err := w.CreatePart(header)
	if err != nil {
		return entity.UploadResult{}, fmt.Errorf("create file part: %w", err)
	}

	_, err = part.Write(req.File.Data)
	if err != nil {
		return entity.UploadResult{}, fmt.Errorf("write file part: %w", err)
	}

	err = w.Close()
	if err != nil {
		return entity.UploadResult{}, fmt.Errorf("close multipart writer: %w", err)
	}

	httpReq, err := c.newRequest(ctx, http.MethodPost, c.url+"/bills", &body)
	if err != nil {
		return entity.UploadResult{}, err
	}

	httpReq.Header.Set("Content-Type", w.FormDataContentType())

	var res entity.UploadResult

	err = c.do(c.writer, httpReq, &res)
	if err != nil {
		return entity.UploadResult{}, err
	}

	return res, nil
}

func (c *Client) Update(ctx context.Context, bill entity.Bill) (entity.Bill, error) {
	data, err := json.Marshal(bill)
	if err != nil {
		return entity.Bill{}, fmt.Errorf("marshal bill: %w", err)
	}

	httpReq, err := c.newRequest(ctx, http.MethodPatch, c.url+"/bills/"+url.PathEscape(bill.ID), bytes.NewReader(data))
	if err != nil {
		return entity.Bill{}, err
	}

	httpReq.Header.Set("Content-Type", "application/json")

	var updated entity.Bill

	err = c.do(c.writer, httpReq, &updated)
	if err != nil {
		return entity.Bill{}, err
	}

	return updated, nil
}

func (c *Client) List(ctx context.Context) ([]entity.Bill, error) {
	httpReq, err := c.newRequest(ctx, http.MethodGet, c.url+"/bills", nil)
	if err != nil {
		return nil, err
	}

	var bills []entity.Bill

	err = c.do(c.reader, httpReq, &bills)
	if err != nil {
		return nil, err
	}

	return bills, nil
}

func (c *Client) newRequest(ctx context.Context, method, endpoint string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")

	token, err := entity.TokenFromContext(ctx)
	if err == nil && token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	return req, nil
}

func (c *Client) do(client *http.Client, req *http.Request, out any) error {
	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("send request: %w", err)
	}

	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return fmt.Errorf("%w: %s %s", entity.ErrNotFound, req.Method, req.URL.Path)
	case resp.StatusCode == http.StatusUnauthorized:
		return fmt.Errorf("%w: %s %s", entity.ErrUnauthorized, req.Method, req.URL.Path)
	case resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices:
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return fmt.Errorf("unexpected code %d: %s", resp.StatusCode, bytes.TrimSpace(msg))
	}

	err = json.NewDecoder(resp.Body).Decode(out)
	if err != nil {
		return fmt.Errorf("decode response: %w", err)
	}

	return nil
}
