// Package graphql is a small GraphQL client for the canvas service. Requests
// travel over a Transport: plain HTTP POST or a graphql-transport-ws socket.
package graphql

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"
)

// ErrClosed is returned by transports after Close or a lost connection.
var ErrClosed = errors.New("graphql: transport closed")

type Request struct {
	Query         string         `json:"query"`
	OperationName string         `json:"operationName,omitempty"`
	Variables     map[string]any `json:"variables,omitempty"`
}

type Response struct {
	Data   json.RawMessage `json:"data,omitempty"`
	Errors Errors          `json:"errors,omitempty"`
}

type Location struct {
	Line   int `json:"line"`
	Column int `json:"column"`
}

// Error is one entry of a response's errors list.
type Error struct {
	Message   string     `json:"message"`
	Locations []Location `json:"locations,omitempty"`
	Path      []any      `json:"path,omitempty"`
}

// Errors is returned by Client.Do when the server answered with errors.
type Errors []Error

func (e Errors) Error() string {
	msgs := make([]string, len(e))
	for i, err := range e {
		msgs[i] = err.Message
	}
	return "graphql: " + strings.Join(msgs, "; ")
}

// Transport sends one operation and waits for its result.
type Transport interface {
	RoundTrip(ctx context.Context, req *Request) (*Response, error)
	Close() error
}

type Client struct {
	transport Transport
}

func NewClient(t Transport) *Client {
	return &Client{transport: t}
}

// Do runs req and decodes the data object into out, which may be nil.
// Transport failures and GraphQL errors are logged and returned.
func (c *Client) Do(ctx context.Context, req *Request, out any) error {
	resp, err := c.transport.RoundTrip(ctx, req)
	if err != nil {
		log.Printf("[Network error]: %v", err)
		return fmt.Errorf("%s: %w", req.OperationName, err)
	}
	if len(resp.Errors) > 0 {
		for _, e := range resp.Errors {
			log.Printf("[GraphQL error]: Message: %s, Location: %v, Path: %v", e.Message, e.Locations, e.Path)
		}
		return resp.Errors
	}
	if out == nil || len(resp.Data) == 0 {
		return nil
	}
	if err := json.Unmarshal(resp.Data, out); err != nil {
		return fmt.Errorf("%s: decode data: %w", req.OperationName, err)
	}
	return nil
}

func (c *Client) Close() error {
	return c.transport.Close()
}

// IsNetwork reports whether err came from the transport rather than the server.
func IsNetwork(err error) bool {
	if err == nil {
		return false
	}
	var gqlErrs Errors
	return !errors.As(err, &gqlErrs)
}
