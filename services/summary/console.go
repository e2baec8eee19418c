package summarysvc

import (
	"context"
	"fmt"

	"github.com/fractal-nyc/attendabot/core/message"
)

// consoleService is the dev/test stand-in used when no OpenAI key is
// configured. It reports post counts instead of calling out.
type consoleService struct{}

func NewConsoleService() *consoleService { //nolint:revive
	return &consoleService{}
}

func (svc *consoleService) Summarize(_ context.Context, channelName string, msgs []message.Message) (string, error) {
	if len(msgs) == 0 {
		return "", nil
	}
	authors := make(map[string]struct{}, len(msgs))
	for _, m := range msgs {
		authors[m.AuthorID] = struct{}{}
	}
	return fmt.Sprintf("%d posts from %d students in #%s.", len(msgs), len(authors), channelName), nil
}
