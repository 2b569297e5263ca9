package provider

import (
	"context"
	"errors"
	"log"
	"strings"

	openai "github.com/sashabaranov/go-openai"

	"yai-assistant/internal/types"
)

// OpenAIGateway implements Gateway on the OpenAI chat completions and
// image generation APIs.
type OpenAIGateway struct {
	client *openai.Client
	opts   Options
}

func NewOpenAIGateway(apiKey string, opts Options) *OpenAIGateway {
	cfg := openai.DefaultConfig(apiKey)
	if opts.BaseURL != "" {
		cfg.BaseURL = strings.TrimRight(opts.BaseURL, "/")
	}
	return &OpenAIGateway{client: openai.NewClientWithConfig(cfg), opts: opts}
}

// NewOpenAIFactory returns a Factory that binds opts to each key.
func NewOpenAIFactory(opts Options) Factory {
	return func(apiKey string) Gateway {
		return NewOpenAIGateway(apiKey, opts)
	}
}

func (g *OpenAIGateway) Complete(ctx context.Context, turns []types.Turn) (reply string, err error) {
	if len(turns) == 0 {
		return "", invalidInput("at least one message is required")
	}
	ctx, span := startSpan(ctx, "complete", g.opts.Model)
	defer func() { endSpan(span, err) }()

	req := openai.ChatCompletionRequest{
		Model:    g.opts.Model,
		Messages: convertTurns(g.opts.Persona.apply(turns)),
	}
	if p := g.opts.Persona; p != nil {
		req.Temperature = p.Style.Temperature
		req.MaxTokens = p.Style.MaxTokens
	}

	resp, err := g.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", normalize(err)
	}
	if len(resp.Choices) == 0 {
		log.Printf("[provider] chat completion %s returned no choices", resp.ID)
		return "", nil
	}
	return resp.Choices[0].Message.Content, nil
}

func (g *OpenAIGateway) Synthesize(ctx context.Context, prompt string) (locator string, err error) {
	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return "", invalidInput("prompt is required")
	}
	ctx, span := startSpan(ctx, "synthesize", g.opts.ImageModel)
	defer func() { endSpan(span, err) }()

	resp, err := g.client.CreateImage(ctx, openai.ImageRequest{
		Prompt: prompt,
		Model:  g.opts.ImageModel,
		Size:   g.opts.ImageSize,
		N:      1,
	})
	if err != nil {
		return "", normalize(err)
	}
	if len(resp.Data) == 0 {
		return "", noAsset()
	}
	first := resp.Data[0]
	switch {
	case first.URL != "":
		return first.URL, nil
	case first.B64JSON != "":
		// gpt-image-1 only answers with inline base64
		return "data:image/png;base64," + first.B64JSON, nil
	default:
		return "", noAsset()
	}
}

func convertTurns(turns []types.Turn) []openai.ChatCompletionMessage {
	out := make([]openai.ChatCompletionMessage, 0, len(turns))
	for _, t := range turns {
		role := t.Role
		if role == "" {
			role = openai.ChatMessageRoleUser
		}
		out = append(out, openai.ChatCompletionMessage{Role: role, Content: t.Content})
	}
	return out
}

// normalize maps go-openai errors onto *Error, keeping the provider's own
// message text.
func normalize(err error) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return &Error{Kind: KindStatusCode, Message: apiErr.Message, Status: apiErr.HTTPStatusCode, Err: err}
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		msg := ""
		if reqErr.Err != nil {
			msg = reqErr.Err.Error()
		}
		return &Error{Kind: KindStatusCode, Message: msg, Status: reqErr.HTTPStatusCode, Err: err}
	}
	return &Error{Kind: KindTransport, Message: err.Error(), Err: err}
}
