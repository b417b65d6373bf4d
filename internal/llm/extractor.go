package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/wgmesh/ci-tools/internal/memory"
)

const extractionMaxTokens = 2000

const extractionPrompt = "You distill CI run transcripts into a single short memory. " +
	"Reply with one or two sentences capturing the lesson a future run should know. " +
	"Keep concrete identifiers (file names, type names, error messages) verbatim."

// AnthropicExtractor condenses a message exchange into a single memory
// text with a small Claude model.
type AnthropicExtractor struct {
	client *anthropic.Client
	model  anthropic.Model
}

// NewAnthropicExtractor creates an extractor for the given model. baseURL
// is optional and points at an Anthropic-compatible proxy when set.
func NewAnthropicExtractor(apiKey, baseURL, model string) *AnthropicExtractor {
	opts := []option.RequestOption{option.WithAPIKey(apiKey)}
	if baseURL != "" {
		opts = append(opts, option.WithBaseURL(baseURL))
	}
	c := anthropic.NewClient(opts...)
	return &AnthropicExtractor{client: &c, model: anthropic.Model(model)}
}

// Extract sends the exchange to the model and returns its distilled text.
func (x *AnthropicExtractor) Extract(ctx context.Context, msgs []memory.Message) (string, error) {
	conv := make([]anthropic.MessageParam, 0, len(msgs))
	for _, m := range msgs {
		if m.Role == "assistant" {
			conv = append(conv, anthropic.NewAssistantMessage(anthropic.NewTextBlock(m.Content)))
		} else {
			conv = append(conv, anthropic.NewUserMessage(anthropic.NewTextBlock(m.Content)))
		}
	}

	msg, err := x.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:       x.model,
		MaxTokens:   extractionMaxTokens,
		Temperature: anthropic.Float(0.1),
		System:      []anthropic.TextBlockParam{{Text: extractionPrompt}},
		Messages:    conv,
	})
	if err != nil {
		return "", fmt.Errorf("failed to extract memory: %w", err)
	}

	var parts []string
	for _, block := range msg.Content {
		if tb, ok := block.AsAny().(anthropic.TextBlock); ok && tb.Text != "" {
			parts = append(parts, tb.Text)
		}
	}
	return strings.Join(parts, "\n"), nil
}

var _ memory.Extractor = (*AnthropicExtractor)(nil)
