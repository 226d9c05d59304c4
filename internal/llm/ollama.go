package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/ollama"

	"local-assistants/internal/prompt"
)

// OllamaClient talks to Ollama's native chat API through langchaingo.
type OllamaClient struct {
	model string
	llm   llms.Model
}

// NewOllamaClient builds a client for serverURL. An OpenAI-style "/v1" suffix
// is stripped since the native API lives at the server root.
func NewOllamaClient(serverURL, model string) (*OllamaClient, error) {
	if model == "" {
		return nil, fmt.Errorf("model required")
	}
	serverURL = strings.TrimSuffix(strings.TrimSuffix(serverURL, "/"), "/v1")
	if serverURL == "" {
		serverURL = "http://localhost:11434"
	}
	l, err := ollama.New(ollama.WithModel(model), ollama.WithServerURL(serverURL))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize ollama: %w", err)
	}
	return &OllamaClient{model: model, llm: l}, nil
}

func (c *OllamaClient) Model() string {
	return c.model
}

// Stream starts generation in the background and hands chunks over one at a
// time; the generator blocks until the previous chunk has been taken.
func (c *OllamaClient) Stream(ctx context.Context, pair prompt.Pair) (Stream, error) {
	if c == nil || c.llm == nil {
		return nil, fmt.Errorf("nil ollama client")
	}
	ctx, cancel := context.WithCancel(ctx)
	s := &chanStream{chunks: make(chan string), cancel: cancel}
	content := []llms.MessageContent{
		llms.TextParts(llms.ChatMessageTypeSystem, pair.System),
		llms.TextParts(llms.ChatMessageTypeHuman, pair.User),
	}
	go func() {
		defer close(s.chunks)
		_, err := c.llm.GenerateContent(ctx, content, llms.WithStreamingFunc(func(ctx context.Context, chunk []byte) error {
			if len(chunk) == 0 {
				return nil
			}
			select {
			case s.chunks <- string(chunk):
				return nil
			case <-ctx.Done():
				return ctx.Err()
			}
		}))
		if err != nil {
			s.err = fmt.Errorf("ollama: %w", err)
		}
	}()
	return s, nil
}

// chanStream adapts a push-style generator to Stream. err is written before
// chunks is closed and only read after the close is observed.
type chanStream struct {
	chunks chan string
	cancel context.CancelFunc
	cur    string
	err    error
	ended  bool
}

func (s *chanStream) Next() bool {
	if s.ended {
		return false
	}
	chunk, ok := <-s.chunks
	if !ok {
		s.ended = true
		s.cur = ""
		return false
	}
	s.cur = chunk
	return true
}

func (s *chanStream) Current() string {
	return s.cur
}

func (s *chanStream) Err() error {
	if !s.ended {
		return nil
	}
	return s.err
}

func (s *chanStream) Close() error {
	s.cancel()
	if !s.ended {
		// Drain so the generator goroutine can exit.
		for range s.chunks {
		}
		s.ended = true
	}
	return nil
}
