package bot

import (
	"context"
	"fmt"
	"strings"
	"text/template"

	tbot "github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/j0lvera/tgrelay/internal/config"
)

const defaultUserName = "User"

// Commands renders the replies to /start, /help and /about.
type Commands struct {
	start *template.Template
	help  string
	about string
}

func NewCommands(texts config.Commands) (*Commands, error) {
	start, err := template.New("start").Parse(texts.Start)
	if err != nil {
		return nil, fmt.Errorf("failed to parse start message: %w", err)
	}

	return &Commands{
		start: start,
		help:  texts.Help,
		about: texts.About,
	}, nil
}

// Start returns the welcome text for name.
func (c *Commands) Start(name string) (string, error) {
	var b strings.Builder
	if err := c.start.Execute(&b, struct{ Name string }{Name: name}); err != nil {
		return "", fmt.Errorf("failed to render start message: %w", err)
	}
	return b.String(), nil
}

func (c *Commands) Help() string {
	return c.help
}

func (c *Commands) About() string {
	return c.about
}

func (c *Commands) HandleStart(ctx context.Context, s Sender, update *models.Update) error {
	if update.Message == nil {
		return nil
	}

	text, err := c.Start(senderName(update.Message))
	if err != nil {
		return err
	}

	return reply(ctx, s, update.Message.Chat.ID, text, "")
}

func (c *Commands) HandleHelp(ctx context.Context, s Sender, update *models.Update) error {
	if update.Message == nil {
		return nil
	}
	return reply(ctx, s, update.Message.Chat.ID, c.help, models.ParseModeMarkdownV1)
}

func (c *Commands) HandleAbout(ctx context.Context, s Sender, update *models.Update) error {
	if update.Message == nil {
		return nil
	}
	return reply(ctx, s, update.Message.Chat.ID, c.about, "")
}

// senderName is the sender's first name, or "User" when Telegram gives none.
func senderName(msg *models.Message) string {
	if msg.From == nil {
		return defaultUserName
	}
	if name := strings.TrimSpace(msg.From.FirstName); name != "" {
		return name
	}
	return defaultUserName
}

// isCommand reports whether msg starts with a bot command.
func isCommand(msg *models.Message) bool {
	_, _, ok := command(msg)
	return ok
}

// command returns the bot command msg starts with, without the slash, and
// the bot username it is addressed to, if any.
func command(msg *models.Message) (name, target string, ok bool) {
	for _, e := range msg.Entities {
		if e.Type != models.MessageEntityTypeBotCommand || e.Offset != 0 {
			continue
		}
		// Commands are ASCII, so the UTF-16 length is the byte length
		if e.Length < 2 || e.Length > len(msg.Text) {
			return "", "", false
		}
		name, target, _ = strings.Cut(msg.Text[1:e.Length], "@")
		return name, target, true
	}
	return "", "", false
}

func reply(ctx context.Context, s Sender, chatID int64, text string, mode models.ParseMode) error {
	_, err := s.SendMessage(ctx, &tbot.SendMessageParams{
		ChatID:    chatID,
		Text:      text,
		ParseMode: mode,
	})
	if err != nil {
		return fmt.Errorf("failed to send message: %w", err)
	}
	return nil
}
