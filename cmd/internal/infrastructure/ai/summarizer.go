package ai

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"
)

const (
	// Character budgets before text is sent to the model.
	maxSummaryChars = 8000
	maxChatChars    = 50000

	callTimeout = 60 * time.Second
)

// Summarizer wraps the chat-completion endpoint for document
// summarization, key-point extraction and document Q&A.
type Summarizer struct {
	client *openai.Client
	model  string
}

func NewSummarizer(apiKey, model string) (*Summarizer, error) {
	if apiKey == "" {
		return nil, errors.New("OPENAI_API_KEY is not set")
	}
	if model == "" {
		model = openai.GPT4oMini
	}

	return &Summarizer{
		client: openai.NewClient(apiKey),
		model:  model,
	}, nil
}

func (s *Summarizer) Summary(ctx context.Context, text string) (string, error) {
	prompt := fmt.Sprintf(
		"You are an assistant that summarizes course materials for students.\n\n"+
			"Content:\n%s\n\n"+
			"Task: Write a clear, concise summary (4-6 sentences) suitable for a student "+
			"who wants to quickly understand the main ideas.",
		truncate(text, maxSummaryChars))

	return s.complete(ctx, prompt)
}

func (s *Summarizer) KeyPoints(ctx context.Context, text string) (string, error) {
	prompt := fmt.Sprintf(
		"You are an assistant that extracts key bullet points from course materials.\n\n"+
			"Content:\n%s\n\n"+
			"Task: Return 3-7 short bullet points that capture the most important ideas. "+
			"Format them as plain text starting each point with '- '.",
		truncate(text, maxSummaryChars))

	return s.complete(ctx, prompt)
}

func (s *Summarizer) Ask(ctx context.Context, text, question string) (string, error) {
	prompt := fmt.Sprintf(
		"You are a helpful teaching assistant. Use the following document content to answer "+
			"the student's question.\n\n"+
			"--- DOCUMENT START ---\n%s\n--- DOCUMENT END ---\n\n"+
			"Question: %s\n"+
			"Answer (be concise and helpful):",
		truncate(text, maxChatChars), question)

	return s.complete(ctx, prompt)
}

func (s *Summarizer) complete(ctx context.Context, prompt string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, callTimeout)
	defer cancel()

	resp, err := s.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: s.model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleUser,
				Content: prompt,
			},
		},
	})
	if err != nil {
		return "", err
	}

	if len(resp.Choices) == 0 {
		return "", errors.New("model returned no choices")
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

func truncate(text string, maxChars int) string {
	if len(text) > maxChars {
		return text[:maxChars]
	}
	return text
}
