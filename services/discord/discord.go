// Package discordsvc wraps the Discord session behind the small surface
// the bot jobs and archive job actually need.
package discordsvc

import (
	"context"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/pkg/errors"

	"github.com/fractal-nyc/attendabot/core"
	"github.com/fractal-nyc/attendabot/core/message"
)

const pageSize = 100 // Discord API maximum per ChannelMessages call

type Service struct {
	session *discordgo.Session
	logger  core.Logger
}

func NewService(conf *core.Config, logger core.Logger) (*Service, error) {
	session, err := discordgo.New("Bot " + conf.Discord.Token)
	if err != nil {
		return nil, errors.Wrap(err, "creating discord session")
	}
	session.Identify.Intents = discordgo.IntentsGuilds | discordgo.IntentsGuildMessages
	return &Service{session: session, logger: logger}, nil
}

// Open establishes the gateway connection. The archive and announce
// paths use plain REST calls, but an open session keeps the bot user
// presence accurate.
func (svc *Service) Open() error {
	return errors.Wrap(svc.session.Open(), "opening discord session")
}

func (svc *Service) Close() error {
	return svc.session.Close()
}

// ChannelMessagesSince pages backwards through a channel's history and
// returns every message created at or after since, oldest first.
func (svc *Service) ChannelMessagesSince(ctx context.Context, channelID string, since time.Time) ([]message.Message, error) {
	var out []message.Message
	beforeID := ""

	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		page, err := svc.session.ChannelMessages(channelID, pageSize, beforeID, "", "")
		if err != nil {
			return nil, errors.Wrapf(err, "fetching messages for channel %s", channelID)
		}
		if len(page) == 0 {
			break
		}

		// pages arrive newest first
		done := false
		for _, dm := range page {
			created, err := discordgo.SnowflakeTimestamp(dm.ID)
			if err != nil {
				svc.logger.Warn("skipping message with bad snowflake " + dm.ID)
				continue
			}
			if created.Before(since) {
				done = true
				break
			}
			out = append(out, toMessage(dm, created))
		}
		if done || len(page) < pageSize {
			break
		}
		beforeID = page[len(page)-1].ID
	}

	// reverse to oldest first
	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	return out, nil
}

// Announce posts content to a channel.
func (svc *Service) Announce(ctx context.Context, channelID, content string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	_, err := svc.session.ChannelMessageSend(channelID, content)
	return errors.Wrapf(err, "announcing to channel %s", channelID)
}

func toMessage(dm *discordgo.Message, created time.Time) message.Message {
	authorID, authorName := "", ""
	if dm.Author != nil {
		authorID = dm.Author.ID
		authorName = dm.Author.Username
	}
	return message.Message{
		ID:         dm.ID,
		ChannelID:  dm.ChannelID,
		AuthorID:   authorID,
		AuthorName: authorName,
		Content:    dm.Content,
		CreatedAt:  created.UTC(),
	}
}
