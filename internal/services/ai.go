package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/knagano/todolist-api/internal/models"
	"github.com/sashabaranov/go-openai"
)

type AIService struct {
	client *openai.Client
}

// SuggestedTask is a task proposal extracted from free text. It is never
// written to storage directly.
type SuggestedTask struct {
	Title    string          `json:"title"`
	Category models.Category `json:"category"`
	DueDate  *time.Time      `json:"dueDate"`
}

func NewAIService(apiKey string) *AIService {
	return &AIService{
		client: openai.NewClient(apiKey),
	}
}

// SuggestTasksFromText analyzes text and extracts task suggestions using OpenAI GPT
func (s *AIService) SuggestTasksFromText(ctx context.Context, text string) ([]SuggestedTask, error) {
	if s.client == nil {
		return nil, fmt.Errorf("OpenAI client not initialized")
	}

	currentTime := time.Now().Format("2006-01-02 15:04:05")
	prompt := fmt.Sprintf(`You are a task extraction assistant. Extract concrete todo items from the text below.

Current time: %s

Text:
%s

Respond with a JSON array only, no surrounding prose. Each element:
{"title": string, "category": "WORK" or "PERSONAL", "dueDate": RFC 3339 timestamp or null}

Use "WORK" for job-related items and "PERSONAL" for everything else. Only
include a dueDate when the text states or clearly implies one.`, currentTime, text)

	resp, err := s.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: openai.GPT4oMini,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleUser,
				Content: prompt,
			},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("chat completion failed: %w", err)
	}

	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("no completion returned")
	}

	var suggestions []SuggestedTask
	if err := json.Unmarshal([]byte(resp.Choices[0].Message.Content), &suggestions); err != nil {
		return nil, fmt.Errorf("failed to parse AI response: %w", err)
	}

	return suggestions, nil
}
