package ai

import (
	"context"
	"log"
	"os"

	openai "github.com/sashabaranov/go-openai"
)

// Gemini отдаёт OpenAI-совместимый эндпоинт, поэтому ходим через go-openai.
const geminiBaseURL = "https://generativelanguage.googleapis.com/v1beta/openai"

const defaultModel = "gemini-2.0-flash"

// минимальная правдоподобная длина ключа; всё короче считаем битым конфигом
const minKeyLen = 20

type GeminiClient struct {
	client *openai.Client
	apiKey string
	model  string
}

// NewGeminiClient не падает при отсутствии ключа: бот должен подняться
// и отвечать пользователям "попробуй позже", а не умирать на старте.
func NewGeminiClient() *GeminiClient {
	apiKey := os.Getenv("GEMINI_API_KEY")

	model := os.Getenv("GEMINI_MODEL")
	if model == "" {
		model = defaultModel
	}

	c := &GeminiClient{apiKey: apiKey, model: model}

	if !c.Ready() {
		log.Printf("[ai] GEMINI_API_KEY missing or malformed (len=%d), client not ready", len(apiKey))
		return c
	}

	cfg := openai.DefaultConfig(apiKey)
	cfg.BaseURL = geminiBaseURL
	c.client = openai.NewClientWithConfig(cfg)
	return c
}

func (c *GeminiClient) Ready() bool {
	return len(c.apiKey) >= minKeyLen
}

func (c *GeminiClient) Complete(ctx context.Context, prompt string) (string, error) {
	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	})
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", nil
	}
	return resp.Choices[0].Message.Content, nil
}
