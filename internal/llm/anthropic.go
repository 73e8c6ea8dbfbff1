package llm

import (
	"alcyxob/form-check/internal/config"
	"alcyxob/form-check/internal/domain"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

// Upstream response bodies are read up to this many bytes.
const maxResponseBody = 1 << 20

// AnthropicClient implements Completer against the Anthropic Messages API.
type AnthropicClient struct {
	client    anthropic.Client
	model     string
	maxTokens int64
}

// NewAnthropicClient creates a client from cfg. It fails with a configuration
// error when no API key is set. httpClient may be nil.
func NewAnthropicClient(httpClient *http.Client, cfg config.AnthropicConfig) (*AnthropicClient, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, domain.NewError(domain.KindConfiguration, domain.ErrMissingCredential)
	}

	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		// One call per analysis.
		option.WithMaxRetries(0),
		option.WithMiddleware(limitResponseBody),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	opts = append(opts, option.WithHTTPClient(httpClient))

	return &AnthropicClient{
		client:    anthropic.NewClient(opts...),
		model:     cfg.Model,
		maxTokens: int64(cfg.MaxTokens),
	}, nil
}

// Complete issues exactly one request. API and transport failures are
// returned as KindUnknown; a reply without text is KindUpstreamFormat.
func (c *AnthropicClient) Complete(ctx context.Context, p Prompt) (string, error) {
	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(c.model),
		MaxTokens: c.maxTokens,
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(p.User)),
		},
	}
	if p.System != "" {
		block := anthropic.TextBlockParam{Text: p.System}
		if p.CacheSystem {
			block.CacheControl = anthropic.NewCacheControlEphemeralParam()
		}
		params.System = []anthropic.TextBlockParam{block}
	}

	msg, err := c.client.Messages.New(ctx, params)
	if err != nil {
		var apiErr *anthropic.Error
		if errors.As(err, &apiErr) {
			return "", domain.NewError(domain.KindUnknown, fmt.Errorf("upstream status %d: %w", apiErr.StatusCode, err))
		}
		return "", domain.NewError(domain.KindUnknown, fmt.Errorf("messages call: %w", err))
	}

	for _, block := range msg.Content {
		if block.Type == "text" && block.Text != "" {
			return block.Text, nil
		}
	}
	return "", domain.NewError(domain.KindUpstreamFormat, domain.ErrNoTextContent)
}

type limitedBody struct {
	io.Reader
	io.Closer
}

func limitResponseBody(req *http.Request, next option.MiddlewareNext) (*http.Response, error) {
	resp, err := next(req)
	if resp != nil && resp.Body != nil {
		resp.Body = limitedBody{Reader: io.LimitReader(resp.Body, maxResponseBody), Closer: resp.Body}
	}
	return resp, err
}
