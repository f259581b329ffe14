package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"
	"github.com/yukikurage/task-manager/internal/constants"
)

// TaskDraft is a task suggestion extracted from free text. It is never stored.
type TaskDraft struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Deadline    *string `json:"deadline"`
	Priority    string  `json:"priority"`
}

// TaskDrafter extracts task drafts from free text.
type TaskDrafter interface {
	DraftTasks(ctx context.Context, text string) ([]TaskDraft, error)
}

var errEmptyCompletion = errors.New("no response from OpenAI")

// OpenAIDrafter is a TaskDrafter backed by the OpenAI chat completions API.
type OpenAIDrafter struct {
	client *openai.Client
	model  string
	now    func() time.Time
}

// NewOpenAIDrafter creates a drafter for the given API key and model.
// A non-empty baseURL points the client at a compatible endpoint.
func NewOpenAIDrafter(apiKey, model, baseURL string) *OpenAIDrafter {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	if model == "" {
		model = openai.GPT4o
	}

	return &OpenAIDrafter{
		client: openai.NewClientWithConfig(cfg),
		model:  model,
		now:    time.Now,
	}
}

const draftPrompt = `You extract concrete tasks from the text below.

Today is %s.

Text:
%s

Reply with a JSON array only, no prose, each element shaped like:
{
  "name": "short task name",
  "description": "task details",
  "deadline": "YYYY-MM-DD, or null when the text gives none",
  "priority": "one of UR, HI, ME, LO, TR"
}

Turn relative dates such as "tomorrow" or "next week" into dates.
Return [] when the text contains no tasks. Return at most %d tasks.`

// DraftTasks implements TaskDrafter.
func (d *OpenAIDrafter) DraftTasks(ctx context.Context, text string) ([]TaskDraft, error) {
	prompt := fmt.Sprintf(draftPrompt, d.now().Format(constants.DateLayout), text, constants.MaxDraftedTasks)

	resp, err := d.client.CreateChatCompletion(
		ctx,
		openai.ChatCompletionRequest{
			Model: d.model,
			Messages: []openai.ChatCompletionMessage{
				{
					Role:    openai.ChatMessageRoleUser,
					Content: prompt,
				},
			},
			Temperature: 0.3,
		},
	)
	if err != nil {
		return nil, fmt.Errorf("OpenAI API error: %w", err)
	}

	if len(resp.Choices) == 0 {
		return nil, errEmptyCompletion
	}

	content := stripCodeFence(resp.Choices[0].Message.Content)

	var drafts []TaskDraft
	if err := json.Unmarshal([]byte(content), &drafts); err != nil {
		return nil, fmt.Errorf("failed to parse AI response: %w (response: %s)", err, content)
	}

	return drafts, nil
}

// stripCodeFence removes a markdown code fence some models wrap JSON in.
func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}
