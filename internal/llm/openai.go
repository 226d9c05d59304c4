package llm

import (
	"context"
	"fmt"
	"net/http"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"github.com/openai/openai-go/v3/packages/ssestream"

	"local-assistants/internal/prompt"
)

// OpenAIClient streams from any OpenAI-compatible Chat Completions endpoint,
// such as Ollama's /v1 API.
type OpenAIClient struct {
	model  string
	client *openai.Client
}

// OpenAIOptions configures NewOpenAIClient.
type OpenAIOptions struct {
	BaseURL    string
	APIKey     string
	Model      string
	HTTPClient *http.Client
}

// NewOpenAIClient builds a client bound to one endpoint and model. The SDK's
// automatic retries are disabled: a failed request is reported once.
func NewOpenAIClient(opts OpenAIOptions) (*OpenAIClient, error) {
	if opts.BaseURL == "" {
		return nil, fmt.Errorf("base url required")
	}
	if opts.Model == "" {
		return nil, fmt.Errorf("model required")
	}
	if opts.APIKey == "" {
		// Local servers ignore the key but the SDK still sends the header.
		opts.APIKey = "ollama"
	}
	reqOpts := []option.RequestOption{
		option.WithBaseURL(opts.BaseURL),
		option.WithAPIKey(opts.APIKey),
		option.WithMaxRetries(0),
	}
	if opts.HTTPClient != nil {
		reqOpts = append(reqOpts, option.WithHTTPClient(opts.HTTPClient))
	}
	cli := openai.NewClient(reqOpts...)
	return &OpenAIClient{
		model:  opts.Model,
		client: &cli,
	}, nil
}

func (c *OpenAIClient) Model() string {
	return c.model
}

func (c *OpenAIClient) Stream(ctx context.Context, pair prompt.Pair) (Stream, error) {
	if c == nil || c.client == nil {
		return nil, fmt.Errorf("nil openai client")
	}
	s := c.client.Chat.Completions.NewStreaming(ctx, openai.ChatCompletionNewParams{
		Model:    openai.ChatModel(c.model),
		Messages: buildMessages(pair.System, pair.User),
	})
	if err := s.Err(); err != nil {
		_ = s.Close()
		return nil, fmt.Errorf("openai: open stream: %w", err)
	}
	return &openAIStream{s: s}, nil
}

type openAIStream struct {
	s   *ssestream.Stream[openai.ChatCompletionChunk]
	cur string
}

func (o *openAIStream) Next() bool {
	for o.s.Next() {
		chunk := o.s.Current()
		if len(chunk.Choices) == 0 {
			continue
		}
		if delta := chunk.Choices[0].Delta.Content; delta != "" {
			o.cur = delta
			return true
		}
	}
	o.cur = ""
	return false
}

func (o *openAIStream) Current() string {
	return o.cur
}

func (o *openAIStream) Err() error {
	if err := o.s.Err(); err != nil {
		return fmt.Errorf("openai: stream: %w", err)
	}
	return nil
}

func (o *openAIStream) Close() error {
	return o.s.Close()
}

func buildMessages(system, user string) []openai.ChatCompletionMessageParamUnion {
	return []openai.ChatCompletionMessageParamUnion{
		{
			OfSystem: &openai.ChatCompletionSystemMessageParam{
				Content: openai.ChatCompletionSystemMessageParamContentUnion{
					OfString: openai.String(system),
				},
			},
		},
		{
			OfUser: &openai.ChatCompletionUserMessageParam{
				Content: openai.ChatCompletionUserMessageParamContentUnion{
					OfString: openai.String(user),
				},
			},
		},
	}
}
