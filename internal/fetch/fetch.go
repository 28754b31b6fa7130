// Package fetch retrieves rendered markdown from the docs-portal content
// API. One attempt per call, no retries; timeouts surface as fetch
// errors so a batch run can continue with the next file.
package fetch

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// DefaultEndpoint is the content API the portal frontend itself uses.
const DefaultEndpoint = "https://developer.work.weixin.qq.com/docFetch/fetchCnt"

// userAgent matches a desktop browser; the endpoint rejects obvious
// non-browser clients.
const userAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) " +
	"AppleWebKit/537.36 (KHTML, like Gecko) " +
	"Chrome/120.0.0.0 Safari/537.36"

// maxResponseBytes caps how much of a response body is read.
const maxResponseBytes = 8 << 20

// Client fetches document markdown over HTTP.
type Client struct {
	endpoint   string
	cookie     string
	httpClient *http.Client
}

// NewClient creates a Client for the given endpoint. An empty endpoint
// selects DefaultEndpoint. cookie is an optional credential token sent
// verbatim in the Cookie header. timeout bounds the whole request.
func NewClient(endpoint, cookie string, timeout time.Duration) *Client {
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}

	return &Client{
		endpoint:   endpoint,
		cookie:     cookie,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// fetchResponse mirrors the portal's JSON envelope. StatusCode is a
// pointer because its absence and a 200 value are both success.
type fetchResponse struct {
	StatusCode *int `json:"statusCode"`
	Result     *struct {
		HumanMessage string `json:"humanMessage"`
	} `json:"result"`
	Data json.RawMessage `json:"data"`
}

type fetchData struct {
	ContentMD string `json:"content_md"`
}

// Fetch requests the rendered markdown for docID. sourceURL is the
// public page URL, sent as the Referer. Returns the raw content_md.
func (c *Client) Fetch(ctx context.Context, docID, sourceURL string) (string, error) {
	reqURL := fmt.Sprintf("%s?lang=zh_CN&ajax=1&f=json&random=%d",
		c.endpoint, time.Now().UnixMilli())

	form := url.Values{"doc_id": {docID}}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, reqURL,
		strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Accept", "application/json, text/plain, */*")
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Origin", originOf(c.endpoint))
	req.Header.Set("Referer", sourceURL)
	req.Header.Set("User-Agent", userAgent)

	if c.cookie != "" {
		req.Header.Set("Cookie", c.cookie)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}

	return decodeContent(body)
}

// decodeContent extracts data.content_md from the response envelope.
// Each malformed shape gets its own failure message so skip lines in the
// batch output say what actually went wrong.
func decodeContent(body []byte) (string, error) {
	var payload fetchResponse

	err := json.Unmarshal(body, &payload)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrDecode, err)
	}

	if payload.StatusCode != nil && *payload.StatusCode != http.StatusOK {
		message := "unknown error"
		if payload.Result != nil && payload.Result.HumanMessage != "" {
			message = payload.Result.HumanMessage
		}

		return "", fmt.Errorf("%w: %s", ErrServer, message)
	}

	if len(payload.Data) == 0 || string(payload.Data) == "null" {
		return "", ErrMissingData
	}

	var data fetchData
	if json.Unmarshal(payload.Data, &data) != nil {
		return "", ErrMissingData
	}

	if data.ContentMD == "" {
		return "", ErrMissingContent
	}

	return data.ContentMD, nil
}

// originOf derives the Origin header from the endpoint URL.
func originOf(endpoint string) string {
	u, err := url.Parse(endpoint)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return endpoint
	}

	return u.Scheme + "://" + u.Host
}
