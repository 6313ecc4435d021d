package chat

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"google.golang.org/genai"

	"buyxtra/internal/logger"
)

// GeminiClient implements StreamClient against the Google Gemini API. The
// underlying genai client is created lazily on the first session so that a
// missing credential surfaces as a recoverable error, not a startup crash.
// One GeminiClient is shared by every chat session, so the lazy init is
// guarded by a mutex.
type GeminiClient struct {
	apiKey string

	mu     sync.Mutex
	client *genai.Client
}

// NewGeminiClient creates a new Gemini client with lazy initialization.
func NewGeminiClient(apiKey string) *GeminiClient {
	return &GeminiClient{
		apiKey: apiKey,
		client: nil, // Will be initialized lazily
	}
}

// IsConfigured returns true if the client has an API key.
func (c *GeminiClient) IsConfigured() bool {
	return c.apiKey != ""
}

// initializeClientIfNeeded initializes the genai client if it hasn't been
// initialized yet and returns it. Concurrent first sessions serialize here.
func (c *GeminiClient) initializeClientIfNeeded(ctx context.Context) (*genai.Client, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.client != nil {
		return c.client, nil
	}

	if c.apiKey == "" {
		return nil, fmt.Errorf("gemini API key not configured")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey: c.apiKey,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	c.client = client
	logger.Debug("Gemini client initialized", "provider", "gemini")
	return client, nil
}

// StartSession creates a remote chat session bound to the given system
// prompt. Thinking is disabled: the support widget wants first tokens fast,
// not deliberation.
func (c *GeminiClient) StartSession(ctx context.Context, cfg SessionConfig) (Session, error) {
	client, err := c.initializeClientIfNeeded(ctx)
	if err != nil {
		return nil, err
	}

	thinkingBudget := int32(0)
	config := &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(cfg.SystemPrompt, genai.RoleUser),
		ThinkingConfig: &genai.ThinkingConfig{
			ThinkingBudget:  &thinkingBudget,
			IncludeThoughts: false,
		},
	}

	chatSession, err := client.Chats.Create(ctx, cfg.Model, config, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini chat session: %w", err)
	}

	return &geminiSession{chat: chatSession}, nil
}

// geminiSession wraps a genai chat. The genai side accumulates the
// conversation history; we only push the next user message.
type geminiSession struct {
	chat *genai.Chat
}

// SendMessageStream submits the user text and forwards each streamed text
// chunk to onChunk in arrival order.
func (s *geminiSession) SendMessageStream(ctx context.Context, text string, onChunk func(string)) error {
	for response, err := range s.chat.SendMessageStream(ctx, genai.Part{Text: text}) {
		if err != nil {
			logger.Error("Gemini stream failed", "error", err)
			return fmt.Errorf("gemini stream failed: %w", err)
		}
		if chunk := extractText(response); chunk != "" {
			onChunk(chunk)
		}
	}
	return nil
}

// extractText collects the visible text from a streamed response, skipping
// thought parts.
func extractText(response *genai.GenerateContentResponse) string {
	var builder strings.Builder
	for _, candidate := range response.Candidates {
		if candidate.Content == nil {
			continue
		}
		for _, part := range candidate.Content.Parts {
			if part.Text == "" || part.Thought {
				continue
			}
			builder.WriteString(part.Text)
		}
	}
	return builder.String()
}
