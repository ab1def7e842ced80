package harness

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/iterasys/petstore-test-harness/framework"
	"github.com/iterasys/petstore-test-harness/framework/helpers"
)

// DefaultBaseURL is the public pet store the suite was written against.
const DefaultBaseURL = "https://petstore.swagger.io/v2/"

// Client sends requests to the API under test. Every request is relative to a single base URL
// that is fixed when the Client is created.
//
// The Client makes exactly one blocking attempt per call. It does not retry and it does not
// impose a timeout beyond whatever the context and the underlying http.Client provide.
type Client struct {
	baseURL    *url.URL
	httpClient *http.Client
	logger     framework.Logger
}

// Response is what came back from one request. A non-2xx status is still a Response; only a
// failure to complete the exchange is reported as a TransportError.
type Response struct {
	Method     string
	URL        string
	StatusCode int
	Header     http.Header
	Body       []byte
}

type ClientOption helpers.ConfigOption[Client]

type clientOptionHTTPClient struct{ httpClient *http.Client }

func (o clientOptionHTTPClient) Configure(c *Client) error {
	if o.httpClient != nil {
		c.httpClient = o.httpClient
	}
	return nil
}

// WithHTTPClient replaces the default http.Client.
func WithHTTPClient(httpClient *http.Client) ClientOption {
	return clientOptionHTTPClient{httpClient}
}

type clientOptionLogger struct{ logger framework.Logger }

func (o clientOptionLogger) Configure(c *Client) error {
	if o.logger != nil {
		c.logger = o.logger
	}
	return nil
}

// WithLogger sets the logger that receives a line for every request sent.
func WithLogger(logger framework.Logger) ClientOption {
	return clientOptionLogger{logger}
}

// NewClient creates a Client for the given base URL.
func NewClient(baseURL string, options ...ClientOption) (*Client, error) {
	if strings.TrimSpace(baseURL) == "" {
		baseURL = DefaultBaseURL
	}
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid base URL %q: %w", baseURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("invalid base URL %q: scheme must be http or https", baseURL)
	}
	if !strings.HasSuffix(u.Path, "/") {
		u.Path += "/"
	}
	c := &Client{
		baseURL:    u,
		httpClient: http.DefaultClient,
		logger:     framework.NullLogger(),
	}
	if err := helpers.ApplyOptions(c, options...); err != nil {
		return nil, err
	}
	return c, nil
}

// BaseURL returns the base URL that all request paths are resolved against.
func (c *Client) BaseURL() string {
	return c.baseURL.String()
}

// Send issues one request. The path is relative to the base URL and may carry a query string
// (see ExpandPath and WithQuery). If body is non-nil it is sent as JSON.
func (c *Client) Send(ctx context.Context, method, path string, body []byte) (Response, error) {
	if !isSupportedMethod(method) {
		return Response{}, fmt.Errorf("unsupported HTTP method %q", method)
	}
	target, err := c.resolve(path)
	if err != nil {
		return Response{}, err
	}

	var bodyReader io.Reader
	if body != nil {
		bodyReader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, target, bodyReader)
	if err != nil {
		return Response{}, &TransportError{Method: method, URL: target, Err: err}
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
		c.logger.Printf("%s %s %s", method, target, string(body))
	} else {
		c.logger.Printf("%s %s", method, target)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Response{}, &TransportError{Method: method, URL: target, Err: err}
	}
	defer func() { _ = resp.Body.Close() }()
	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return Response{}, &TransportError{Method: method, URL: target, Err: err}
	}
	c.logger.Printf("%s %s returned status %d", method, target, resp.StatusCode)

	return Response{
		Method:     method,
		URL:        target,
		StatusCode: resp.StatusCode,
		Header:     resp.Header,
		Body:       respBody,
	}, nil
}

func (c *Client) resolve(path string) (string, error) {
	ref, err := url.Parse(strings.TrimPrefix(path, "/"))
	if err != nil {
		return "", fmt.Errorf("invalid request path %q: %w", path, err)
	}
	if ref.IsAbs() || ref.Host != "" {
		return "", fmt.Errorf("request path %q must be relative to the base URL", path)
	}
	return c.baseURL.ResolveReference(ref).String(), nil
}

func isSupportedMethod(method string) bool {
	switch method {
	case http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete:
		return true
	}
	return false
}
