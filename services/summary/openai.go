// Package summarysvc produces short natural-language digests of a
// day's end-of-day posts for the instructor briefing.
package summarysvc

import (
	"context"
	"fmt"
	"strings"

	"github.com/pkg/errors"
	openai "github.com/sashabaranov/go-openai"

	"github.com/fractal-nyc/attendabot/core"
	"github.com/fractal-nyc/attendabot/core/message"
)

const systemPrompt = "You are an assistant for coding bootcamp instructors. " +
	"Summarize the students' end-of-day standup posts in at most five short bullet points. " +
	"Call out common blockers and anything an instructor should follow up on. Be concrete and brief."

type openaiService struct {
	client *openai.Client
	model  string
}

func NewOpenAIService(conf *core.Config) *openaiService { //nolint:revive
	return &openaiService{
		client: openai.NewClient(conf.OpenAI.APIKey),
		model:  conf.OpenAI.Model,
	}
}

func (svc *openaiService) Summarize(ctx context.Context, channelName string, msgs []message.Message) (string, error) {
	if len(msgs) == 0 {
		return "", nil
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Channel: %s\n\n", channelName)
	for _, m := range msgs {
		name := m.AuthorName
		if name == "" {
			name = m.AuthorID
		}
		fmt.Fprintf(&sb, "%s:\n%s\n\n", name, m.Content)
	}

	resp, err := svc.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: svc.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: sb.String()},
		},
	})
	if err != nil {
		return "", errors.Wrap(err, "requesting summary completion")
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("summary completion returned no choices")
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}
