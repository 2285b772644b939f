package api

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"strings"
	"sync"

	openai "github.com/sashabaranov/go-openai"

	apierrors "github.com/thedracle/openai-chat/internal/errors"
	"github.com/thedracle/openai-chat/internal/logging"
	"github.com/thedracle/openai-chat/internal/models"
)

// Completer produces one assistant reply for an ordered message history
type Completer interface {
	Complete(ctx context.Context, model string, history []models.Message) (*models.Reply, error)
}

// chatClient is the subset of the go-openai client the Client depends on
type chatClient interface {
	CreateChatCompletion(ctx context.Context, request openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// Client is a Completer backed by an OpenAI-compatible HTTP endpoint
type Client struct {
	api          chatClient
	baseURL      string
	organization string
	httpClient   *http.Client
	logger       *logging.Logger
	mu           sync.RWMutex
	closed       bool
}

// ClientOption is a function that configures the client
type ClientOption func(*Client)

// WithBaseURL sets the API root, e.g. https://api.openai.com/v1/
func WithBaseURL(baseURL string) ClientOption {
	return func(c *Client) {
		c.baseURL = baseURL
	}
}

// WithHTTPClient replaces the HTTP client used for requests
func WithHTTPClient(httpClient *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// WithOrganization sets the OpenAI organization header
func WithOrganization(org string) ClientOption {
	return func(c *Client) {
		c.organization = org
	}
}

// WithLogger sets the logger used by the client and its transport
func WithLogger(logger *logging.Logger) ClientOption {
	return func(c *Client) {
		c.logger = logger
	}
}

// NewClient creates a new Client authenticating with apiKey
func NewClient(apiKey string, opts ...ClientOption) (*Client, error) {
	client := &Client{
		baseURL:    "https://api.openai.com/v1/",
		httpClient: &http.Client{},
		logger:     logging.Discard(),
	}

	for _, opt := range opts {
		opt(client)
	}

	base, err := normalizeBaseURL(client.baseURL)
	if err != nil {
		return nil, err
	}
	client.baseURL = base

	httpClient := *client.httpClient
	httpClient.Transport = newLoggingTransport(httpClient.Transport, client.logger)
	client.httpClient = &httpClient

	cfg := openai.DefaultConfig(apiKey)
	cfg.BaseURL = base
	cfg.OrgID = client.organization
	cfg.HTTPClient = client.httpClient
	client.api = openai.NewClientWithConfig(cfg)

	return client, nil
}

// normalizeBaseURL validates raw and strips trailing slashes so endpoint
// paths can be appended directly.
func normalizeBaseURL(raw string) (string, error) {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return "", fmt.Errorf("invalid base url %q: %w", raw, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", fmt.Errorf("invalid base url %q: scheme must be http or https", raw)
	}
	if u.Host == "" {
		return "", fmt.Errorf("invalid base url %q: missing host", raw)
	}
	return strings.TrimRight(u.String(), "/"), nil
}

// BaseURL returns the normalised API root
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Close marks the client closed; later Complete calls fail
func (c *Client) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	c.httpClient.CloseIdleConnections()
}

// IsClosed returns whether the client is closed
func (c *Client) IsClosed() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.closed
}

// Complete sends history to the chat completion endpoint.
// The request is cancelled when ctx is done.
func (c *Client) Complete(ctx context.Context, model string, history []models.Message) (*models.Reply, error) {
	if c.IsClosed() {
		return nil, apierrors.ErrClientClosed
	}

	req := openai.ChatCompletionRequest{
		Model:    model,
		Messages: toOpenAIMessages(history),
	}

	resp, err := c.api.CreateChatCompletion(ctx, req)
	if err != nil {
		return nil, c.translateError(ctx, err)
	}

	return fromOpenAIResponse(resp), nil
}

func toOpenAIMessages(history []models.Message) []openai.ChatCompletionMessage {
	out := make([]openai.ChatCompletionMessage, 0, len(history))
	for _, msg := range history {
		var role string
		switch msg.Role {
		case models.RoleSystem:
			role = openai.ChatMessageRoleSystem
		case models.RoleAssistant:
			role = openai.ChatMessageRoleAssistant
		default:
			role = openai.ChatMessageRoleUser
		}
		out = append(out, openai.ChatCompletionMessage{
			Role:    role,
			Content: msg.Content,
		})
	}
	return out
}

func fromOpenAIResponse(resp openai.ChatCompletionResponse) *models.Reply {
	reply := &models.Reply{
		ID:               resp.ID,
		Model:            resp.Model,
		PromptTokens:     resp.Usage.PromptTokens,
		CompletionTokens: resp.Usage.CompletionTokens,
		Choices:          make([]models.Message, 0, len(resp.Choices)),
	}
	for _, choice := range resp.Choices {
		role := models.Role(choice.Message.Role)
		if role == "" {
			// Some compatible servers omit the role on replies
			role = models.RoleAssistant
		}
		reply.Choices = append(reply.Choices, models.Message{
			Role:    role,
			Content: choice.Message.Content,
		})
	}
	return reply
}

// translateError maps go-openai and transport errors onto the typed errors
func (c *Client) translateError(ctx context.Context, err error) error {
	endpoint := c.baseURL + PathChatCompletions

	if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return apierrors.NewTimeoutError(err.Error())
	}
	if errors.Is(err, context.Canceled) {
		return err
	}

	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return statusError(apiErr.HTTPStatusCode, endpoint, apiErr.Message, apiErr.Type)
	}

	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		msg := http.StatusText(reqErr.HTTPStatusCode)
		if reqErr.Err != nil {
			msg = reqErr.Err.Error()
		}
		return statusError(reqErr.HTTPStatusCode, endpoint, msg, "")
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		if netErr.Timeout() {
			return apierrors.NewTimeoutError(err.Error())
		}
		return apierrors.NewNetworkError(endpoint, err)
	}
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return apierrors.NewNetworkError(endpoint, err)
	}

	return fmt.Errorf("completion request failed: %w", err)
}

func statusError(status int, endpoint, message, errType string) error {
	switch status {
	case http.StatusUnauthorized, http.StatusForbidden:
		return apierrors.NewAuthError(status, message)
	case http.StatusTooManyRequests:
		return apierrors.NewUsageLimitError(message)
	case http.StatusGatewayTimeout, http.StatusRequestTimeout:
		return apierrors.NewTimeoutError(message)
	default:
		e := apierrors.NewAPIError(status, endpoint, message)
		e.Type = errType
		return e
	}
}

var _ Completer = (*Client)(nil)
