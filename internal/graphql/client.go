// Package graphql carries the storefront's fixed wire contract: a POST of
// {query, variables} answered by {data, errors}. Neither half interprets
// the query language; the server dispatches on the requested top-level
// field and the client only sends the canned queries it ships with.
package graphql

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

// DefaultTimeout bounds a round trip when the caller does not supply its
// own http.Client. The original system waited forever.
const DefaultTimeout = 10 * time.Second

var ErrTransport = errors.New("graphql transport failed")

type Request struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables,omitempty"`
}

type Error struct {
	Message string `json:"message"`
}

func (e Error) Error() string { return e.Message }

type Response struct {
	Data   json.RawMessage `json:"data"`
	Errors []Error         `json:"errors,omitempty"`
}

// ResponseError reports server-side field errors from an otherwise
// successful round trip.
type ResponseError struct {
	Errors []Error
}

func (e *ResponseError) Error() string {
	if len(e.Errors) == 0 {
		return "graphql: unknown error"
	}
	return "graphql: " + e.Errors[0].Message
}

type Client struct {
	endpoint   string
	httpClient *http.Client
}

func NewClient(endpoint string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: DefaultTimeout}
	}
	return &Client{endpoint: endpoint, httpClient: httpClient}
}

// Do executes one query and unmarshals the data envelope into out, which
// may be nil when the caller only cares about success.
func (c *Client) Do(ctx context.Context, query string, variables map[string]any, out any) error {
	body, err := json.Marshal(Request{Query: query, Variables: variables})
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrTransport, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrTransport, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("%w: status %d: %s", ErrTransport, resp.StatusCode, snippet)
	}

	var envelope Response
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return fmt.Errorf("%w: decode response: %v", ErrTransport, err)
	}
	if len(envelope.Errors) > 0 {
		return &ResponseError{Errors: envelope.Errors}
	}
	if out != nil {
		if err := json.Unmarshal(envelope.Data, out); err != nil {
			return fmt.Errorf("%w: decode data: %v", ErrTransport, err)
		}
	}
	return nil
}
