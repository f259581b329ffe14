package services

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newFakeOpenAI(t *testing.T, content string, gotModel *string) *httptest.Server {
	t.Helper()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		var req openai.ChatCompletionRequest
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		*gotModel = req.Model
		if assert.Len(t, req.Messages, 1) {
			assert.Contains(t, req.Messages[0].Content, "Today is 2024-05-01.")
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(openai.ChatCompletionResponse{
			Choices: []openai.ChatCompletionChoice{{
				Message: openai.ChatCompletionMessage{
					Role:    openai.ChatMessageRoleAssistant,
					Content: content,
				},
			}},
		})
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestOpenAIDrafter_DraftTasks(t *testing.T) {
	content := "```json\n" + `[
		{"name": "Write report", "description": "quarterly", "deadline": "2024-05-03", "priority": "HI"},
		{"name": "Call Bob", "description": "", "deadline": null, "priority": "LO"}
	]` + "\n```"

	var model string
	srv := newFakeOpenAI(t, content, &model)

	drafter := NewOpenAIDrafter("test-key", "gpt-4o-mini", srv.URL)
	drafter.now = func() time.Time { return time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC) }

	drafts, err := drafter.DraftTasks(context.Background(), "write the report by Friday and call Bob")
	require.NoError(t, err)
	require.Equal(t, "gpt-4o-mini", model)
	require.Len(t, drafts, 2)
	require.Equal(t, "Write report", drafts[0].Name)
	require.NotNil(t, drafts[0].Deadline)
	require.Equal(t, "2024-05-03", *drafts[0].Deadline)
	require.Nil(t, drafts[1].Deadline)
}

func TestOpenAIDrafter_InvalidJSON(t *testing.T) {
	var model string
	srv := newFakeOpenAI(t, "Sorry, I cannot help with that.", &model)

	drafter := NewOpenAIDrafter("test-key", "", srv.URL)
	drafter.now = func() time.Time { return time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC) }

	_, err := drafter.DraftTasks(context.Background(), "text")
	require.Error(t, err)
	require.Contains(t, err.Error(), "failed to parse AI response")
	require.Equal(t, openai.GPT4o, model)
}

func TestStripCodeFence(t *testing.T) {
	require.Equal(t, "[]", stripCodeFence("```json\n[]\n```"))
	require.Equal(t, "[]", stripCodeFence("```\n[]\n```"))
	require.Equal(t, "[]", stripCodeFence("  []  "))
}
