package client

import (
	"context"
	"encoding/base64"
	"fmt"
	"time"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/packages/ssestream"
	"go.uber.org/zap"

	"github.com/atanasster/pad-champions/internal/config"
)

// Attachment is an inline binary sent alongside a prompt
type Attachment struct {
	MimeType string
	Data     []byte
}

// CompletionRequest is a single generative-text call
type CompletionRequest struct {
	SystemPrompt string
	Prompt       string
	Attachment   *Attachment
	Model        string
	Temperature  float64
}

// StreamEvent carries one text chunk, a terminal error, or the end marker
type StreamEvent struct {
	Content string
	Err     error
	Done    bool
}

// GenAIClient streams completions from a generative-text backend
type GenAIClient interface {
	StreamCompletion(ctx context.Context, req CompletionRequest) (<-chan StreamEvent, error)
}

// APICallRecorder receives timing of outbound calls
type APICallRecorder interface {
	RecordExternalAPICall(endpoint, method string, statusCode int, duration time.Duration, err error)
}

// OpenAIClient talks to any OpenAI-compatible chat completions endpoint
type OpenAIClient struct {
	client   *openai.Client
	model    string
	timeout  time.Duration
	recorder APICallRecorder
	logger   *zap.Logger
}

// NewOpenAIClient creates a streaming client from configuration
func NewOpenAIClient(cfg config.GenAIConfig, recorder APICallRecorder, logger *zap.Logger) (*OpenAIClient, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("genai api key is required")
	}
	opts := []option.RequestOption{option.WithAPIKey(cfg.APIKey)}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}
	return &OpenAIClient{
		client:   openai.NewClient(opts...),
		model:    cfg.Model,
		timeout:  cfg.RequestTimeout,
		recorder: recorder,
		logger:   logger,
	}, nil
}

// StreamCompletion starts a streamed completion. The returned channel is
// closed after a Done or Err event.
func (c *OpenAIClient) StreamCompletion(ctx context.Context, req CompletionRequest) (<-chan StreamEvent, error) {
	model := req.Model
	if model == "" {
		model = c.model
	}

	params := openai.ChatCompletionNewParams{
		Messages:    openai.F(buildMessages(req)),
		Model:       openai.F(openai.ChatModel(model)),
		Temperature: openai.F(req.Temperature),
	}

	eventCh := make(chan StreamEvent, 10)
	go func() {
		defer close(eventCh)

		streamCtx := ctx
		if c.timeout > 0 {
			var cancel context.CancelFunc
			streamCtx, cancel = context.WithTimeout(ctx, c.timeout)
			defer cancel()
		}

		start := time.Now()
		stream := c.client.Chat.Completions.NewStreaming(streamCtx, params)
		err := c.recv(streamCtx, eventCh, stream)

		status := 200
		if err != nil {
			status = 502
			c.logger.Error("Generative text stream failed", zap.String("model", model), zap.Error(err))
		}
		if c.recorder != nil {
			c.recorder.RecordExternalAPICall("genai/chat/completions", "POST", status, time.Since(start), err)
		}
	}()

	return eventCh, nil
}

func (c *OpenAIClient) recv(ctx context.Context, eventCh chan<- StreamEvent, stream *ssestream.Stream[openai.ChatCompletionChunk]) error {
	defer stream.Close()

	for stream.Next() {
		chunk := stream.Current()
		if len(chunk.Choices) == 0 {
			continue
		}
		content := chunk.Choices[0].Delta.Content
		if content == "" {
			continue
		}
		if !send(ctx, eventCh, StreamEvent{Content: content}) {
			return ctx.Err()
		}
	}

	if err := stream.Err(); err != nil {
		send(ctx, eventCh, StreamEvent{Err: err})
		return err
	}
	send(ctx, eventCh, StreamEvent{Done: true})
	return nil
}

// send delivers ev unless the consumer has gone away
func send(ctx context.Context, ch chan<- StreamEvent, ev StreamEvent) bool {
	select {
	case ch <- ev:
		return true
	case <-ctx.Done():
		return false
	}
}

func buildMessages(req CompletionRequest) []openai.ChatCompletionMessageParamUnion {
	messages := make([]openai.ChatCompletionMessageParamUnion, 0, 2)
	if req.SystemPrompt != "" {
		messages = append(messages, openai.SystemMessage(req.SystemPrompt))
	}
	if req.Attachment == nil {
		return append(messages, openai.UserMessage(req.Prompt))
	}
	return append(messages, openai.UserMessageParts(
		openai.TextPart(req.Prompt),
		openai.ImagePart(DataURL(req.Attachment.MimeType, req.Attachment.Data)),
	))
}

// DataURL encodes binary content as an RFC 2397 data URL
func DataURL(mimeType string, data []byte) string {
	return fmt.Sprintf("data:%s;base64,%s", mimeType, base64.StdEncoding.EncodeToString(data))
}
